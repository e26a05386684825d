package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/devlinks/internal/domain/profile"
	"github.com/khoahotran/devlinks/pkg/apperror"
)

const avatarFormField = "image"

// readProfileSubmission accepts either the editor's multipart form or a
// JSON body. Only multipart submissions can carry a pending image.
func readProfileSubmission(c *gin.Context) (profile.Fields, *profile.PendingImage, error) {
	var req UpdateProfileRequest

	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBindJSON(&req); err != nil {
			return profile.Fields{}, nil, apperror.NewInvalidInput("invalid JSON body for profile update", err)
		}
		return req.ToFields(), nil, nil
	}

	if err := c.ShouldBind(&req); err != nil {
		return profile.Fields{}, nil, apperror.NewInvalidInput("invalid profile form", err)
	}

	fh, err := c.FormFile(avatarFormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return req.ToFields(), nil, nil
		}
		return profile.Fields{}, nil, apperror.NewInvalidInput("invalid image upload", err)
	}
	if fh.Size == 0 {
		return req.ToFields(), nil, nil
	}

	f, err := fh.Open()
	if err != nil {
		return profile.Fields{}, nil, apperror.NewInvalidInput("cannot open uploaded image", err)
	}
	defer f.Close()

	img, err := profile.ReadPendingImage(fh.Filename, f)
	if err != nil {
		return profile.Fields{}, nil, apperror.NewInvalidInput("cannot read uploaded image", err)
	}
	return req.ToFields(), img, nil
}
