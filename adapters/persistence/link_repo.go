package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/devlinks/internal/application/service"
	"github.com/khoahotran/devlinks/internal/domain/link"
	"github.com/khoahotran/devlinks/pkg/logger"
)

type documentLinkRepo struct {
	store  service.DocumentStore
	logger logger.Logger
}

func NewDocumentLinkRepo(store service.DocumentStore, logger logger.Logger) link.Repository {
	return &documentLinkRepo{store: store, logger: logger}
}

func (r *documentLinkRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*link.Link, error) {
	docs, err := r.store.Query(ctx, link.Collection, service.FieldEquals{Field: link.OwnerField, Value: ownerID.String()})
	if err != nil {
		return nil, err
	}

	links := make([]*link.Link, 0, len(docs))
	for _, doc := range docs {
		l, err := toLink(doc)
		if err != nil {
			r.logger.Warn("Skipping malformed link document", zap.String("key", doc.Key), zap.Error(err))
			continue
		}
		links = append(links, l)
	}
	return links, nil
}

func (r *documentLinkRepo) Save(ctx context.Context, l *link.Link) error {
	fields := map[string]any{
		link.OwnerField: l.OwnerID.String(),
		"platform":      l.Platform,
		"url":           l.URL,
	}
	return r.store.Set(ctx, link.Collection, l.ID, fields)
}

func (r *documentLinkRepo) FindByID(ctx context.Context, id string) (*link.Link, error) {
	doc, err := r.store.Get(ctx, link.Collection, id)
	if err != nil {
		if errors.Is(err, service.ErrDocumentNotFound) {
			return nil, link.ErrLinkNotFound
		}
		return nil, err
	}
	return toLink(doc)
}

func (r *documentLinkRepo) Delete(ctx context.Context, id string) error {
	err := r.store.Delete(ctx, link.Collection, id)
	if errors.Is(err, service.ErrDocumentNotFound) {
		return link.ErrLinkNotFound
	}
	return err
}

func toLink(doc *service.Document) (*link.Link, error) {
	ownerID, err := uuid.Parse(stringField(doc.Fields, link.OwnerField))
	if err != nil {
		return nil, err
	}
	return &link.Link{
		ID:       doc.Key,
		OwnerID:  ownerID,
		Platform: stringField(doc.Fields, "platform"),
		URL:      stringField(doc.Fields, "url"),
	}, nil
}
