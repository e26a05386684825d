package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/khoahotran/devlinks/internal/application/service"
	"github.com/khoahotran/devlinks/internal/domain/profile"
	"github.com/khoahotran/devlinks/pkg/logger"
)

type documentProfileRepo struct {
	store  service.DocumentStore
	logger logger.Logger
}

func NewDocumentProfileRepo(store service.DocumentStore, logger logger.Logger) profile.Repository {
	return &documentProfileRepo{store: store, logger: logger}
}

func (r *documentProfileRepo) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) (*profile.Profile, error) {
	doc, err := r.store.Get(ctx, profile.Collection, ownerID.String())
	if err != nil {
		if errors.Is(err, service.ErrDocumentNotFound) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, err
	}

	p := &profile.Profile{
		OwnerID:   ownerID,
		FirstName: stringField(doc.Fields, "firstName"),
		LastName:  stringField(doc.Fields, "lastName"),
		Email:     stringField(doc.Fields, "email"),
	}
	if url := stringField(doc.Fields, "imageUrl"); url != "" {
		p.ImageURL = &url
	}
	return p, nil
}

func (r *documentProfileRepo) Replace(ctx context.Context, p *profile.Profile) error {
	fields := map[string]any{
		"firstName": p.FirstName,
		"lastName":  p.LastName,
		"email":     p.Email,
	}
	if p.ImageURL != nil {
		fields["imageUrl"] = *p.ImageURL
	}
	return r.store.Set(ctx, profile.Collection, p.OwnerID.String(), fields)
}

func stringField(fields map[string]any, name string) string {
	s, _ := fields[name].(string)
	return s
}
