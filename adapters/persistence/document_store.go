package persistence

import (
	"context"
	"encoding/json"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/devlinks/internal/application/service"
	"github.com/khoahotran/devlinks/pkg/apperror"
	"github.com/khoahotran/devlinks/pkg/logger"
)

type postgresDocumentStore struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresDocumentStore(db *pgxpool.Pool, logger logger.Logger) service.DocumentStore {
	return &postgresDocumentStore{db: db, logger: logger}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (s *postgresDocumentStore) Get(ctx context.Context, collection, key string) (*service.Document, error) {
	query := `SELECT data FROM documents WHERE collection = $1 AND key = $2`

	var data []byte
	err := s.db.QueryRow(ctx, query, collection, key).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrDocumentNotFound
		}
		return nil, apperror.NewInternal("failed to query document", err)
	}

	doc := &service.Document{Key: key}
	if err := json.Unmarshal(data, &doc.Fields); err != nil {
		return nil, apperror.NewInternal("failed to unmarshal document", err)
	}
	return doc, nil
}

func (s *postgresDocumentStore) Set(ctx context.Context, collection, key string, fields map[string]any) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return apperror.NewInternal("failed to marshal document", err)
	}

	query := `
		INSERT INTO documents (collection, key, data, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (collection, key) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = NOW()
	`
	if _, err := s.db.Exec(ctx, query, collection, key, data); err != nil {
		return apperror.NewInternal("failed to upsert document", err)
	}
	return nil
}

func (s *postgresDocumentStore) Delete(ctx context.Context, collection, key string) error {
	query := `DELETE FROM documents WHERE collection = $1 AND key = $2`
	cmdTag, err := s.db.Exec(ctx, query, collection, key)
	if err != nil {
		return apperror.NewInternal("failed to delete document", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return service.ErrDocumentNotFound
	}
	return nil
}

func (s *postgresDocumentStore) Query(ctx context.Context, collection string, filter service.FieldEquals) ([]*service.Document, error) {
	builder := psql.Select("key", "data").
		From("documents").
		Where(sq.Eq{"collection": collection}).
		Where(sq.Expr("data ->> ?::text = ?", filter.Field, filter.Value)).
		OrderBy("created_at ASC", "key ASC")

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build document query", err)
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query documents", err)
	}
	defer rows.Close()

	docs := make([]*service.Document, 0)
	for rows.Next() {
		var key string
		var data []byte
		if err := rows.Scan(&key, &data); err != nil {
			return nil, apperror.NewInternal("failed to scan document row", err)
		}
		doc := &service.Document{Key: key}
		if err := json.Unmarshal(data, &doc.Fields); err != nil {
			s.logger.Warn("Skipping undecodable document", zap.String("collection", collection), zap.String("key", key), zap.Error(err))
			continue
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating document rows", err)
	}
	return docs, nil
}
