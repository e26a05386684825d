package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ProfileSavedEvent struct {
	OwnerID       uuid.UUID `json:"owner_id"`
	AvatarChanged bool      `json:"avatar_changed"`
	SavedAt       time.Time `json:"saved_at"`
}

type ProfileViewedEvent struct {
	OwnerID  uuid.UUID `json:"owner_id"`
	Source   string    `json:"source"`
	ViewedAt time.Time `json:"viewed_at"`
}

type EventPublisher interface {
	PublishProfileSaved(ctx context.Context, e ProfileSavedEvent) error
	PublishProfileViewed(ctx context.Context, e ProfileViewedEvent) error
}

type ViewCounter interface {
	Increment(ctx context.Context, ownerID uuid.UUID, at time.Time) (int64, error)
	Count(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) PublishProfileSaved(context.Context, ProfileSavedEvent) error   { return nil }
func (NopPublisher) PublishProfileViewed(context.Context, ProfileViewedEvent) error { return nil }
