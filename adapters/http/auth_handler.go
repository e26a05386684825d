package http

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/devlinks/adapters/web"
	"github.com/khoahotran/devlinks/internal/application/usecase/auth"
	"github.com/khoahotran/devlinks/pkg/apperror"
	"github.com/khoahotran/devlinks/pkg/logger"
)

type AuthHandler struct {
	loginUseCase  *auth.LoginUseCase
	signupUseCase *auth.SignupUseCase
	session       SessionOptions
	theme         web.Theme
	logger        logger.Logger
}

func NewAuthHandler(loginUC *auth.LoginUseCase, signupUC *auth.SignupUseCase, session SessionOptions, theme web.Theme, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		loginUseCase:  loginUC,
		signupUseCase: signupUC,
		session:       session,
		theme:         theme,
		logger:        log,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	input := auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}

	output, err := h.loginUseCase.Execute(c.Request.Context(), input)
	if err != nil {

		if errors.Is(err, apperror.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Email or password is incorrect"})
			return
		}

		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": output.AccessToken,
		"owner_id":     output.User.ID,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := GetIdentityFromGinContext(c).SignOut(c.Request.Context()); err != nil {
		c.Error(apperror.NewInternal("failed to revoke session", err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	if GetIdentityFromGinContext(c).State().Authenticated() {
		c.Redirect(http.StatusSeeOther, "/editor")
		return
	}
	c.HTML(http.StatusOK, web.TemplateLogin, web.AuthPage{Theme: h.theme, Next: safeNext(c.Query("next"))})
}

func (h *AuthHandler) LoginSubmit(c *gin.Context) {
	var req loginRequest
	next := safeNext(c.PostForm("next"))
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, web.TemplateLogin, web.AuthPage{Theme: h.theme, Email: req.Email, Error: "Please check again", Next: next})
		return
	}

	output, err := h.loginUseCase.Execute(c.Request.Context(), auth.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		status := apperror.ToHTTPStatus(err)
		msg := "Email or password is incorrect"
		if status >= http.StatusInternalServerError {
			h.logger.Error("Login failed", err)
			msg = "Something went wrong. Try again."
		}
		c.HTML(status, web.TemplateLogin, web.AuthPage{Theme: h.theme, Email: req.Email, Error: msg, Next: next})
		return
	}

	setSessionCookie(c, output.AccessToken, h.session)
	h.logger.Info("User logged in", zap.String("user_id", output.User.ID.String()))
	c.Redirect(http.StatusSeeOther, next)
}

func (h *AuthHandler) SignupPage(c *gin.Context) {
	c.HTML(http.StatusOK, web.TemplateSignup, web.AuthPage{Theme: h.theme})
}

func (h *AuthHandler) SignupSubmit(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, web.TemplateSignup, web.AuthPage{Theme: h.theme, Email: req.Email, Error: "Please check again"})
		return
	}

	output, err := h.signupUseCase.Execute(c.Request.Context(), auth.SignupInput{Email: req.Email, Password: req.Password})
	if err != nil {
		page := web.AuthPage{Theme: h.theme, Email: req.Email}
		var appErr *apperror.AppError
		switch {
		case errors.As(err, &appErr) && appErr.Fields != nil:
			page.Errors = appErr.Fields
		case errors.Is(err, apperror.ErrConflict):
			page.Errors = map[string]string{"email": "Email is already registered"}
		default:
			h.logger.Error("Signup failed", err)
			page.Error = "Something went wrong. Try again."
		}
		c.HTML(apperror.ToHTTPStatus(err), web.TemplateSignup, page)
		return
	}

	setSessionCookie(c, output.AccessToken, h.session)
	c.Redirect(http.StatusSeeOther, "/editor")
}

func (h *AuthHandler) LogoutSubmit(c *gin.Context) {
	if err := GetIdentityFromGinContext(c).SignOut(c.Request.Context()); err != nil {
		h.logger.Error("Failed to revoke session", err)
	}
	c.Redirect(http.StatusSeeOther, "/login")
}

// safeNext only allows local, path-only redirect targets. Browsers treat a
// backslash like a slash, so "/\host" is rejected along with "//host".
func safeNext(next string) string {
	const fallback = "/editor"
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.ContainsRune(next, '\\') {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" || u.User != nil {
		return fallback
	}
	return next
}
