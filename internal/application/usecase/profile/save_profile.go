package profile

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/devlinks/internal/application/service"
	"github.com/khoahotran/devlinks/internal/domain/profile"
	"github.com/khoahotran/devlinks/pkg/apperror"
	"github.com/khoahotran/devlinks/pkg/logger"
	"github.com/khoahotran/devlinks/pkg/metrics"
)

const avatarFolder = "profile_images"

var ErrNoIdentity = errors.New("no authenticated identity")

// AvatarKey is the blob key of an identity's avatar. There is one per
// identity and each upload replaces it.
func AvatarKey(ownerID uuid.UUID) string {
	return avatarFolder + "/" + ownerID.String()
}

type SaveProfileUseCase struct {
	profileRepo profile.Repository
	blobs       service.BlobStore
	events      service.EventPublisher
	logger      logger.Logger
	now         func() time.Time
}

func NewSaveProfileUseCase(repo profile.Repository, blobs service.BlobStore, events service.EventPublisher, log logger.Logger) *SaveProfileUseCase {
	if events == nil {
		events = service.NopPublisher{}
	}
	return &SaveProfileUseCase{
		profileRepo: repo,
		blobs:       blobs,
		events:      events,
		logger:      log,
		now:         time.Now,
	}
}

type SaveProfileInput struct {
	Buffer *profile.EditBuffer
}

type SaveProfileOutput struct {
	Profile *profile.Profile
}

// Execute validates the buffer, uploads its pending image if there is one,
// and replaces the stored profile. The buffer is updated only on success.
func (uc *SaveProfileUseCase) Execute(ctx context.Context, input SaveProfileInput) (*SaveProfileOutput, error) {
	buf := input.Buffer
	if buf == nil || buf.OwnerID == uuid.Nil {
		return nil, ErrNoIdentity
	}

	if errs := buf.Validate(); len(errs) > 0 {
		metrics.ProfileSaves.WithLabelValues(metrics.ResultInvalid).Inc()
		return nil, apperror.NewValidation(errs)
	}

	ctx, span := tracer.Start(ctx, "SaveProfile")
	defer span.End()
	span.SetAttributes(attribute.String("owner_id", buf.OwnerID.String()), attribute.Bool("avatar_pending", buf.Pending != nil))

	avatarURL := buf.AvatarURL
	avatarChanged := buf.Pending != nil
	if avatarChanged {
		url, err := uc.uploadAvatar(ctx, buf.OwnerID, buf.Pending)
		if err != nil {
			metrics.ProfileSaves.WithLabelValues(metrics.ResultFailure).Inc()
			span.RecordError(err)
			return nil, err
		}
		avatarURL = &url
	}

	p := buf.Profile(avatarURL)
	if err := uc.profileRepo.Replace(ctx, p); err != nil {
		metrics.ProfileSaves.WithLabelValues(metrics.ResultFailure).Inc()
		span.RecordError(err)
		uc.logger.Error("Failed to write profile", err, zap.String("owner_id", buf.OwnerID.String()))
		return nil, apperror.NewInternal("failed to write profile", err)
	}

	buf.Commit(p)
	metrics.ProfileSaves.WithLabelValues(metrics.ResultSuccess).Inc()

	saved := service.ProfileSavedEvent{
		OwnerID:       p.OwnerID,
		AvatarChanged: avatarChanged,
		SavedAt:       uc.now().UTC(),
	}
	go func() {
		if err := uc.events.PublishProfileSaved(context.Background(), saved); err != nil {
			uc.logger.Error("Failed to publish Kafka 'profile.saved' event", err, zap.String("owner_id", saved.OwnerID.String()))
		}
	}()

	return &SaveProfileOutput{Profile: p}, nil
}

func (uc *SaveProfileUseCase) uploadAvatar(ctx context.Context, ownerID uuid.UUID, img *profile.PendingImage) (string, error) {
	handle, err := uc.blobs.Put(ctx, AvatarKey(ownerID), bytes.NewReader(img.Data))
	if err != nil {
		metrics.AvatarUploads.WithLabelValues(metrics.ResultFailure).Inc()
		uc.logger.Error("Failed to upload avatar", err, zap.String("owner_id", ownerID.String()))
		return "", apperror.NewInternal("failed to upload avatar", err)
	}

	url, err := uc.blobs.PublicURL(ctx, handle)
	if err != nil {
		metrics.AvatarUploads.WithLabelValues(metrics.ResultFailure).Inc()
		uc.logger.Error("Failed to resolve avatar url", err, zap.String("owner_id", ownerID.String()))
		return "", apperror.NewInternal("failed to resolve avatar url", err)
	}

	metrics.AvatarUploads.WithLabelValues(metrics.ResultSuccess).Inc()
	return url, nil
}
