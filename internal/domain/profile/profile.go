package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Collection is the document collection holding one profile per identity.
const Collection = "profiles"

var ErrProfileNotFound = errors.New("profile not found")

type Profile struct {
	OwnerID   uuid.UUID `json:"-"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	ImageURL  *string   `json:"imageUrl,omitempty"`
}

// Empty is the presentation of an identity that has never saved a profile.
func Empty(ownerID uuid.UUID) *Profile {
	return &Profile{OwnerID: ownerID}
}

func (p *Profile) FullName() string {
	if p.FirstName == "" || p.LastName == "" {
		return ""
	}
	return p.FirstName + " " + p.LastName
}

func (p *Profile) AvatarURL() string {
	if p.ImageURL == nil {
		return ""
	}
	return *p.ImageURL
}

type Repository interface {
	// GetByOwnerID returns ErrProfileNotFound when the identity has no
	// stored profile.
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID) (*Profile, error)
	// Replace overwrites the stored profile wholesale.
	Replace(ctx context.Context, profile *Profile) error
}
