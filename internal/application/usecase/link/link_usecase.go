package link

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/devlinks/internal/domain/link"
	"github.com/khoahotran/devlinks/pkg/apperror"
	"github.com/khoahotran/devlinks/pkg/logger"
)

var tracer = otel.Tracer("link_usecase")

// LinkUseCase manages the links owned by one identity.
type LinkUseCase struct {
	linkRepo link.Repository
	logger   logger.Logger
}

func NewLinkUseCase(repo link.Repository, log logger.Logger) *LinkUseCase {
	return &LinkUseCase{linkRepo: repo, logger: log}
}

func (uc *LinkUseCase) List(ctx context.Context, ownerID uuid.UUID) ([]*link.Link, error) {
	ctx, span := tracer.Start(ctx, "ListLinks")
	defer span.End()

	links, err := uc.linkRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to list links", err)
	}
	return links, nil
}

type AddLinkInput struct {
	OwnerID  uuid.UUID
	Platform string
	URL      string
}

func (uc *LinkUseCase) Add(ctx context.Context, input AddLinkInput) (*link.Link, error) {
	ctx, span := tracer.Start(ctx, "AddLink")
	defer span.End()

	l := &link.Link{
		ID:       uuid.NewString(),
		OwnerID:  input.OwnerID,
		Platform: link.ParsePlatform(input.Platform).String(),
		URL:      input.URL,
	}
	if err := l.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}
	span.SetAttributes(attribute.String("platform", l.Platform))

	if err := uc.linkRepo.Save(ctx, l); err != nil {
		span.RecordError(err)
		uc.logger.Error("Failed to save link", err, zap.String("owner_id", input.OwnerID.String()))
		return nil, apperror.NewInternal("failed to save link", err)
	}

	uc.logger.Info("Link added", zap.String("link_id", l.ID), zap.String("platform", l.Platform))
	return l, nil
}

// Remove deletes a link. Links of other identities are reported as
// permission denied.
func (uc *LinkUseCase) Remove(ctx context.Context, ownerID uuid.UUID, linkID string) error {
	ctx, span := tracer.Start(ctx, "RemoveLink")
	defer span.End()

	l, err := uc.linkRepo.FindByID(ctx, linkID)
	if err != nil {
		if errors.Is(err, link.ErrLinkNotFound) {
			return apperror.NewNotFound("link", linkID)
		}
		span.RecordError(err)
		return apperror.NewInternal("failed to find link", err)
	}
	if l.OwnerID != ownerID {
		return apperror.NewPermissionDenied("link belongs to another profile")
	}

	if err := uc.linkRepo.Delete(ctx, linkID); err != nil {
		if errors.Is(err, link.ErrLinkNotFound) {
			return apperror.NewNotFound("link", linkID)
		}
		span.RecordError(err)
		return apperror.NewInternal("failed to delete link", err)
	}
	return nil
}
