package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/devlinks/internal/application/service"
	"github.com/khoahotran/devlinks/pkg/apperror"
	"github.com/khoahotran/devlinks/pkg/logger"
	"github.com/khoahotran/devlinks/pkg/metrics"
)

// RecordViewUseCase applies profile.viewed events to the view counters.
type RecordViewUseCase struct {
	counter service.ViewCounter
	logger  logger.Logger
}

func NewRecordViewUseCase(counter service.ViewCounter, log logger.Logger) *RecordViewUseCase {
	return &RecordViewUseCase{counter: counter, logger: log}
}

func (uc *RecordViewUseCase) Execute(ctx context.Context, e service.ProfileViewedEvent) (int64, error) {
	if e.OwnerID == uuid.Nil {
		return 0, apperror.NewInvalidInput("profile.viewed without owner id", nil)
	}
	at := e.ViewedAt
	if at.IsZero() {
		at = time.Now()
	}

	n, err := uc.counter.Increment(ctx, e.OwnerID, at)
	if err != nil {
		uc.logger.Error("Failed to increment view counter", err, zap.String("owner_id", e.OwnerID.String()))
		return 0, apperror.NewInternal("failed to record view", err)
	}
	metrics.ProfileViews.Inc()
	return n, nil
}

type ViewCountUseCase struct {
	counter service.ViewCounter
}

func NewViewCountUseCase(counter service.ViewCounter) *ViewCountUseCase {
	return &ViewCountUseCase{counter: counter}
}

// Execute returns zero when the counter is unavailable.
func (uc *ViewCountUseCase) Execute(ctx context.Context, ownerID uuid.UUID) int64 {
	n, err := uc.counter.Count(ctx, ownerID)
	if err != nil {
		return 0
	}
	return n
}
