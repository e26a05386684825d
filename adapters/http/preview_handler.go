package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/devlinks/adapters/web"
	"github.com/khoahotran/devlinks/internal/application/service"
	profileUC "github.com/khoahotran/devlinks/internal/application/usecase/profile"
	"github.com/khoahotran/devlinks/pkg/logger"
	"github.com/khoahotran/devlinks/pkg/metrics"
)

const (
	viewSourcePreview = "preview"
	viewSourceShare   = "share"
)

type PreviewHandler struct {
	loadUseCase *profileUC.LoadProfileUseCase
	events      service.EventPublisher
	theme       web.Theme
	baseURL     string
	logger      logger.Logger
}

func NewPreviewHandler(loadUC *profileUC.LoadProfileUseCase, events service.EventPublisher, theme web.Theme, baseURL string, log logger.Logger) *PreviewHandler {
	if events == nil {
		events = service.NopPublisher{}
	}
	return &PreviewHandler{
		loadUseCase: loadUC,
		events:      events,
		theme:       theme,
		baseURL:     baseURL,
		logger:      log,
	}
}

// Preview renders the signed-in profile. Nothing is loaded unless the
// identity is authenticated.
func (h *PreviewHandler) Preview(c *gin.Context) {
	st := GetIdentityFromGinContext(c).State()
	if !st.Authenticated() {
		p := web.BuildPreview(h.theme, st, nil)
		metrics.PreviewRenders.WithLabelValues(string(p.Mode)).Inc()
		c.HTML(http.StatusOK, web.TemplatePreview, p)
		return
	}

	snap := h.snapshot(c.Request.Context(), st.Identity.Key)
	p := web.BuildPreview(h.theme, st, snap)
	p.ShareURL = shareURL(h.baseURL, st.Identity.Key.String())
	metrics.PreviewRenders.WithLabelValues(string(p.Mode)).Inc()
	c.HTML(http.StatusOK, web.TemplatePreview, p)

	h.publishViewed(st.Identity.Key, viewSourcePreview)
}

// Share renders the public page of any identity.
func (h *PreviewHandler) Share(c *gin.Context) {
	ownerID, err := uuid.Parse(c.Param("identity"))
	if err != nil {
		c.HTML(http.StatusNotFound, web.TemplateError, gin.H{
			"Theme":   h.theme,
			"Title":   "Profile not found",
			"Message": "This link does not point to a profile.",
		})
		return
	}

	snap := h.snapshot(c.Request.Context(), ownerID)
	metrics.PreviewRenders.WithLabelValues(viewSourceShare).Inc()
	c.HTML(http.StatusOK, web.TemplateShare, web.Preview{Theme: h.theme, Mode: web.ModeCard, Card: web.BuildCard(snap)})

	h.publishViewed(ownerID, viewSourceShare)
}

func (h *PreviewHandler) snapshot(ctx context.Context, ownerID uuid.UUID) *web.Snapshot {
	out, err := h.loadUseCase.Execute(ctx, profileUC.LoadProfileInput{OwnerID: ownerID})
	if err != nil {
		return nil
	}
	return &web.Snapshot{Profile: out.Profile, Links: out.Links}
}

func (h *PreviewHandler) publishViewed(ownerID uuid.UUID, source string) {
	e := service.ProfileViewedEvent{OwnerID: ownerID, Source: source, ViewedAt: time.Now().UTC()}
	go func() {
		if err := h.events.PublishProfileViewed(context.Background(), e); err != nil {
			h.logger.Error("Failed to publish Kafka 'profile.viewed' event", err, zap.String("owner_id", ownerID.String()))
		}
	}()
}
