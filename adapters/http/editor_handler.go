package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/devlinks/adapters/web"
	"github.com/khoahotran/devlinks/internal/application/identity"
	analyticsUC "github.com/khoahotran/devlinks/internal/application/usecase/analytics"
	linkUC "github.com/khoahotran/devlinks/internal/application/usecase/link"
	profileUC "github.com/khoahotran/devlinks/internal/application/usecase/profile"
	"github.com/khoahotran/devlinks/internal/domain/link"
	"github.com/khoahotran/devlinks/internal/domain/profile"
	"github.com/khoahotran/devlinks/pkg/apperror"
	"github.com/khoahotran/devlinks/pkg/logger"
)

// EditorHandler serves the profile editor form and its link management.
type EditorHandler struct {
	loadUseCase  *profileUC.LoadProfileUseCase
	saveUseCase  *profileUC.SaveProfileUseCase
	linkUseCase  *linkUC.LinkUseCase
	viewsUseCase *analyticsUC.ViewCountUseCase
	theme        web.Theme
	baseURL      string
	logger       logger.Logger
}

func NewEditorHandler(
	loadUC *profileUC.LoadProfileUseCase,
	saveUC *profileUC.SaveProfileUseCase,
	linkUseCase *linkUC.LinkUseCase,
	viewsUC *analyticsUC.ViewCountUseCase,
	theme web.Theme,
	baseURL string,
	log logger.Logger,
) *EditorHandler {
	return &EditorHandler{
		loadUseCase:  loadUC,
		saveUseCase:  saveUC,
		linkUseCase:  linkUseCase,
		viewsUseCase: viewsUC,
		theme:        theme,
		baseURL:      baseURL,
		logger:       log,
	}
}

func (h *EditorHandler) Show(c *gin.Context) {
	st, ok := h.requireSignedIn(c)
	if !ok {
		return
	}
	buf, links := h.load(c, st)
	h.render(c, http.StatusOK, st, buf, links, nil)
}

func (h *EditorHandler) Save(c *gin.Context) {
	st, ok := h.requireSignedIn(c)
	if !ok {
		return
	}
	buf, links := h.load(c, st)

	fields, pending, err := readProfileSubmission(c)
	if err != nil {
		h.render(c, http.StatusBadRequest, st, buf, links, func(p *web.EditorPage) { p.Failed() })
		return
	}
	buf.Edit(fields, pending)

	_, err = h.saveUseCase.Execute(c.Request.Context(), profileUC.SaveProfileInput{Buffer: buf})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Fields != nil {
			h.render(c, http.StatusUnprocessableEntity, st, buf, links, func(p *web.EditorPage) { p.Errors = appErr.Fields })
			return
		}
		h.logger.Error("Profile save failed", err, zap.String("owner_id", st.Identity.Key.String()))
		h.render(c, apperror.ToHTTPStatus(err), st, buf, links, func(p *web.EditorPage) { p.Failed() })
		return
	}

	h.render(c, http.StatusOK, st, buf, links, func(p *web.EditorPage) { p.Succeeded() })
}

func (h *EditorHandler) AddLink(c *gin.Context) {
	st, ok := h.requireSignedIn(c)
	if !ok {
		return
	}

	var req CreateLinkRequest
	err := c.ShouldBind(&req)
	if err == nil {
		_, err = h.linkUseCase.Add(c.Request.Context(), linkUC.AddLinkInput{OwnerID: st.Identity.Key, Platform: req.Platform, URL: req.URL})
	}
	if err != nil {
		buf, links := h.load(c, st)
		h.render(c, apperror.ToHTTPStatus(err), st, buf, links, func(p *web.EditorPage) {
			p.LinkError = "Please check the URL"
		})
		return
	}
	c.Redirect(http.StatusSeeOther, "/editor")
}

func (h *EditorHandler) RemoveLink(c *gin.Context) {
	st, ok := h.requireSignedIn(c)
	if !ok {
		return
	}

	if err := h.linkUseCase.Remove(c.Request.Context(), st.Identity.Key, c.Param("id")); err != nil {
		buf, links := h.load(c, st)
		h.render(c, apperror.ToHTTPStatus(err), st, buf, links, func(p *web.EditorPage) {
			p.LinkError = "Link could not be removed"
		})
		return
	}
	c.Redirect(http.StatusSeeOther, "/editor")
}

// requireSignedIn renders the loading page or redirects to login unless
// the request carries an authenticated identity.
func (h *EditorHandler) requireSignedIn(c *gin.Context) (identity.State, bool) {
	st := GetIdentityFromGinContext(c).State()
	if st.Status == identity.StatusLoading {
		c.HTML(http.StatusOK, web.TemplatePreview, web.BuildPreview(h.theme, st, nil))
		return st, false
	}
	if !st.Authenticated() {
		c.Redirect(http.StatusSeeOther, "/login?next="+c.Request.URL.Path)
		return st, false
	}
	return st, true
}

func (h *EditorHandler) load(c *gin.Context, st identity.State) (*profile.EditBuffer, []*link.Link) {
	out, err := h.loadUseCase.Execute(c.Request.Context(), profileUC.LoadProfileInput{OwnerID: st.Identity.Key})
	if err != nil {
		return profile.NewEditBuffer(profile.Empty(st.Identity.Key)), nil
	}
	return profile.NewEditBuffer(out.Profile), out.Links
}

func (h *EditorHandler) render(c *gin.Context, status int, st identity.State, buf *profile.EditBuffer, links []*link.Link, mutate func(*web.EditorPage)) {
	page := web.NewEditorPage(h.theme, st.Identity.Email, buf, links)
	page.ShareURL = shareURL(h.baseURL, st.Identity.Key.String())
	if h.viewsUseCase != nil {
		page.Views = h.viewsUseCase.Execute(c.Request.Context(), st.Identity.Key)
	}
	if mutate != nil {
		mutate(page)
	}
	c.HTML(status, web.TemplateEditor, page)
}

func shareURL(baseURL, ownerID string) string {
	return baseURL + "/p/" + ownerID
}
