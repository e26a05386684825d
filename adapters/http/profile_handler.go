package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	profileUC "github.com/khoahotran/devlinks/internal/application/usecase/profile"
	"github.com/khoahotran/devlinks/internal/domain/profile"
	"github.com/khoahotran/devlinks/pkg/apperror"
	"github.com/khoahotran/devlinks/pkg/logger"
)

type ProfileHandler struct {
	loadUseCase *profileUC.LoadProfileUseCase
	saveUseCase *profileUC.SaveProfileUseCase
	logger      logger.Logger
}

func NewProfileHandler(loadUC *profileUC.LoadProfileUseCase, saveUC *profileUC.SaveProfileUseCase, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		loadUseCase: loadUC,
		saveUseCase: saveUC,
		logger:      log,
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	output, err := h.loadUseCase.Execute(c.Request.Context(), profileUC.LoadProfileInput{OwnerID: ownerID})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToProfileDTO(output.Profile, output.Links))
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	fields, pending, err := readProfileSubmission(c)
	if err != nil {
		c.Error(err)
		return
	}

	loaded, err := h.loadUseCase.Execute(c.Request.Context(), profileUC.LoadProfileInput{OwnerID: ownerID})
	if err != nil {
		c.Error(err)
		return
	}
	buf := profile.NewEditBuffer(loaded.Profile)
	buf.Edit(fields, pending)

	output, err := h.saveUseCase.Execute(c.Request.Context(), profileUC.SaveProfileInput{Buffer: buf})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToProfileDTO(output.Profile, nil))
}
