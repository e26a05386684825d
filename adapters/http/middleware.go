package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/devlinks/internal/application/identity"
	"github.com/khoahotran/devlinks/pkg/apperror"
	"github.com/khoahotran/devlinks/pkg/logger"
	"github.com/khoahotran/devlinks/pkg/metrics"
)

const (
	GinContextKeyOwnerID  = "ownerID"
	GinContextKeyIdentity = "identity"

	SessionCookieName = "devlinks_session"
)

type SessionOptions struct {
	RestoreTimeout time.Duration
	CookieSecure   bool
	TokenLifespan  time.Duration
}

// IdentityMiddleware gives every request its own identity.Context and
// restores the session carried by the cookie or the bearer header.
func IdentityMiddleware(restorer identity.SessionRestorer, opts SessionOptions, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		idc := identity.NewContext(restorer)

		cancel := idc.Subscribe(func(st identity.State) {
			metrics.SessionStates.WithLabelValues(st.Status.String()).Inc()
			switch st.Status {
			case identity.StatusAnonymous:
				if token != "" {
					clearSessionCookie(c, opts)
				}
			case identity.StatusFailed:
				log.Warn("Session restore failed", zap.String("path", c.Request.URL.Path), zap.Error(st.Err))
			}
		})
		defer cancel()

		ctx, done := context.WithTimeout(c.Request.Context(), opts.RestoreTimeout)
		st := idc.Restore(ctx, token)
		done()

		if st.Status == identity.StatusLoading {
			log.Warn("Session restore timed out", zap.String("path", c.Request.URL.Path), zap.Duration("timeout", opts.RestoreTimeout))
		}
		if st.Authenticated() {
			c.Set(GinContextKeyOwnerID, st.Identity.Key)
		}
		c.Set(GinContextKeyIdentity, idc)

		c.Next()
	}
}

// RequireIdentity rejects API requests without an authenticated identity.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		idc := GetIdentityFromGinContext(c)
		st := idc.State()
		if st.Status == identity.StatusLoading {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "session is still loading"})
			return
		}
		if !st.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization is required"})
			return
		}
		c.Next()
	}
}

func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			status := apperror.ToHTTPStatus(appErr)
			if status >= http.StatusInternalServerError {
				log.Error("Request failed", err, zap.String("path", c.Request.URL.Path))
			}
			c.JSON(status, appErr.ToJSON())
			return
		}

		log.Error("Unhandled error", err, zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusInternalServerError, gin.H{"error": apperror.ErrInternal.Error()})
	}
}

func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

func GetIdentityFromGinContext(c *gin.Context) *identity.Context {
	v, ok := c.Get(GinContextKeyIdentity)
	if !ok {
		return identity.NewContext(nil)
	}
	idc, ok := v.(*identity.Context)
	if !ok {
		return identity.NewContext(nil)
	}
	return idc
}

func GetOwnerIDFromGinContext(c *gin.Context) (uuid.UUID, bool) {
	ownerID, ok := c.Get(GinContextKeyOwnerID)
	if !ok {
		return uuid.Nil, false
	}
	ownerIDUUID, ok := ownerID.(uuid.UUID)
	if !ok {
		return uuid.Nil, false
	}
	return ownerIDUUID, true
}

func sessionToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString != authHeader {
			return tokenString
		}
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return cookie
	}
	return ""
}

func setSessionCookie(c *gin.Context, token string, opts SessionOptions) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, int(opts.TokenLifespan.Seconds()), "/", "", opts.CookieSecure, true)
}

func clearSessionCookie(c *gin.Context, opts SessionOptions) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", opts.CookieSecure, true)
}
