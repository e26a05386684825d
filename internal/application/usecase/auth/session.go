package auth

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/devlinks/internal/application/identity"
	"github.com/khoahotran/devlinks/pkg/auth"
	"github.com/khoahotran/devlinks/pkg/logger"
)

// SessionRevocations records signed-out token ids until they expire.
type SessionRevocations interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// SessionService resolves session tokens for identity.Context.
type SessionService struct {
	jwtSvc  *auth.JWTService
	revoked SessionRevocations
	logger  logger.Logger
	now     func() time.Time
}

var _ identity.SessionRestorer = (*SessionService)(nil)

func NewSessionService(jwtSvc *auth.JWTService, revoked SessionRevocations, log logger.Logger) *SessionService {
	return &SessionService{jwtSvc: jwtSvc, revoked: revoked, logger: log, now: time.Now}
}

func (s *SessionService) RestoreSession(ctx context.Context, token string) (*identity.Identity, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", identity.ErrNoSession, err)
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("failed to check session: %w", err)
	}
	if revoked {
		return nil, identity.ErrSessionRevoked
	}

	return &identity.Identity{Key: claims.OwnerID, Email: claims.Email}, nil
}

// RevokeSession blocks token until it would have expired anyway.
func (s *SessionService) RevokeSession(ctx context.Context, token string) error {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil
	}
	ttl := s.jwtSvc.TokenLifespan()
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Time.Sub(s.now())
	}
	if err := s.revoked.Revoke(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("Failed to revoke session", err, zap.String("user_id", claims.OwnerID.String()))
		return err
	}
	return nil
}
