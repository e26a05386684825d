package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	linkUC "github.com/khoahotran/devlinks/internal/application/usecase/link"
	"github.com/khoahotran/devlinks/pkg/apperror"
	"github.com/khoahotran/devlinks/pkg/logger"
)

type LinkHandler struct {
	linkUseCase *linkUC.LinkUseCase
	logger      logger.Logger
}

func NewLinkHandler(uc *linkUC.LinkUseCase, log logger.Logger) *LinkHandler {
	return &LinkHandler{linkUseCase: uc, logger: log}
}

func (h *LinkHandler) ListLinks(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	links, err := h.linkUseCase.List(c.Request.Context(), ownerID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": ToLinkDTOs(links)})
}

func (h *LinkHandler) CreateLink(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for link", err))
		return
	}

	l, err := h.linkUseCase.Add(c.Request.Context(), linkUC.AddLinkInput{OwnerID: ownerID, Platform: req.Platform, URL: req.URL})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ToLinkDTO(l))
}

func (h *LinkHandler) DeleteLink(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	if err := h.linkUseCase.Remove(c.Request.Context(), ownerID, c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
