package media_storage

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/khoahotran/devlinks/internal/application/service"
	"github.com/khoahotran/devlinks/internal/config"
	"github.com/khoahotran/devlinks/pkg/logger"
)

type cloudinaryAdapter struct {
	cld    *cloudinary.Cloudinary
	logger logger.Logger
}

func NewCloudinaryAdapter(cfg config.Config, log logger.Logger) (service.BlobStore, error) {

	if cfg.Cloudinary.CloudName == "" {
		return nil, fmt.Errorf("cloudinary cloud_name has not config")
	}

	cld, err := cloudinary.NewFromParams(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.ApiKey,
		cfg.Cloudinary.ApiSecret,
	)
	if err != nil {
		return nil, fmt.Errorf("cannot init cloudinary: %w", err)
	}

	log.Info("Connect Cloudinary successfully.")
	return &cloudinaryAdapter{cld: cld, logger: log}, nil
}

// Put uploads data with key as the public ID, replacing any earlier asset
// stored under the same key.
func (a *cloudinaryAdapter) Put(ctx context.Context, key string, data io.Reader) (service.BlobHandle, error) {
	uploadParams := uploader.UploadParams{
		PublicID:       key,
		Overwrite:      api.Bool(true),
		Invalidate:     api.Bool(true),
		UniqueFilename: api.Bool(false),
		ResourceType:   "image",
	}
	result, err := a.cld.Upload.Upload(ctx, data, uploadParams)
	if err != nil {
		return service.BlobHandle{}, fmt.Errorf("failed to upload cloudinary: %w", err)
	}
	if result.Error.Message != "" {
		return service.BlobHandle{}, fmt.Errorf("cloudinary rejected upload: %s", result.Error.Message)
	}
	return service.BlobHandle{Key: result.PublicID, Version: fmt.Sprint(result.Version), URL: result.SecureURL}, nil
}

// PublicURL prefers the versioned secure URL returned by the upload so
// browsers do not keep serving an overwritten avatar.
func (a *cloudinaryAdapter) PublicURL(_ context.Context, h service.BlobHandle) (string, error) {
	if h.URL != "" {
		return h.URL, nil
	}
	img, err := a.cld.Image(h.Key)
	if err != nil {
		return "", fmt.Errorf("failed to build cloudinary asset: %w", err)
	}
	url, err := img.String()
	if err != nil {
		return "", fmt.Errorf("failed to build cloudinary url: %w", err)
	}
	return url, nil
}
