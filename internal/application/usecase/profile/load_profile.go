package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/khoahotran/devlinks/internal/domain/link"
	"github.com/khoahotran/devlinks/internal/domain/profile"
	"github.com/khoahotran/devlinks/pkg/apperror"
	"github.com/khoahotran/devlinks/pkg/logger"
	"github.com/khoahotran/devlinks/pkg/metrics"
)

var tracer = otel.Tracer("profile_usecase")

type LoadProfileUseCase struct {
	profileRepo profile.Repository
	linkRepo    link.Repository
	logger      logger.Logger
}

func NewLoadProfileUseCase(pRepo profile.Repository, lRepo link.Repository, log logger.Logger) *LoadProfileUseCase {
	return &LoadProfileUseCase{
		profileRepo: pRepo,
		linkRepo:    lRepo,
		logger:      log,
	}
}

type LoadProfileInput struct {
	OwnerID uuid.UUID
}

// LoadProfileOutput always carries a usable snapshot. ProfileErr and
// LinksErr report fetches that failed and were replaced by empty values.
type LoadProfileOutput struct {
	Profile    *profile.Profile
	Links      []*link.Link
	ProfileErr error
	LinksErr   error
}

func (o *LoadProfileOutput) Partial() bool {
	return o.ProfileErr != nil || o.LinksErr != nil
}

func (uc *LoadProfileUseCase) Execute(ctx context.Context, input LoadProfileInput) (*LoadProfileOutput, error) {
	if input.OwnerID == uuid.Nil {
		return nil, apperror.NewInvalidInput("owner id is required", nil)
	}

	ctx, span := tracer.Start(ctx, "LoadProfile")
	defer span.End()
	span.SetAttributes(attribute.String("owner_id", input.OwnerID.String()))

	out := &LoadProfileOutput{
		Profile: profile.Empty(input.OwnerID),
		Links:   []*link.Link{},
	}

	// Each fetch tolerates its own failure, so the group never cancels.
	var g errgroup.Group
	g.Go(func() error {
		p, err := uc.profileRepo.GetByOwnerID(ctx, input.OwnerID)
		switch {
		case err == nil:
			out.Profile = p
		case errors.Is(err, profile.ErrProfileNotFound):
		default:
			out.ProfileErr = err
			uc.logger.Warn("Profile fetch failed, showing empty profile", zap.String("owner_id", input.OwnerID.String()), zap.Error(err))
		}
		return nil
	})
	g.Go(func() error {
		links, err := uc.linkRepo.ListByOwner(ctx, input.OwnerID)
		if err != nil {
			out.LinksErr = err
			uc.logger.Warn("Links fetch failed, showing no links", zap.String("owner_id", input.OwnerID.String()), zap.Error(err))
			return nil
		}
		out.Links = links
		return nil
	})
	_ = g.Wait()

	if out.Partial() {
		metrics.ProfileLoads.WithLabelValues("partial").Inc()
		span.SetAttributes(attribute.Bool("partial", true))
	} else {
		metrics.ProfileLoads.WithLabelValues(metrics.ResultSuccess).Inc()
	}
	span.SetAttributes(attribute.Int("links", len(out.Links)))

	return out, nil
}
