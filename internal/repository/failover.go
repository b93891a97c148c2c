package repository

import (
	"context"
	"sync/atomic"
	"time"

	"siruang/internal/domain"

	"github.com/rs/zerolog"
)

// FailoverTokenStore prefers the primary (redis) store and falls back to the
// in-memory store when it errors, probing the primary again after a minute.
type FailoverTokenStore struct {
	primary   domain.TokenStore
	fallback  domain.TokenStore
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64 // unix nanos of last failed probe
}

func NewFailoverTokenStore(primary, fallback domain.TokenStore, logger *zerolog.Logger) *FailoverTokenStore {
	return &FailoverTokenStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

const recoveryProbeInterval = time.Minute

func (s *FailoverTokenStore) shouldTryPrimary() bool {
	if !s.isDown.Load() {
		return true
	}
	return time.Since(time.Unix(0, s.lastCheck.Load())) > recoveryProbeInterval
}

func (s *FailoverTokenStore) markDown(err error) {
	s.logger.Error().Err(err).Msg("primary token store failed, falling back to memory")
	s.isDown.Store(true)
	s.lastCheck.Store(time.Now().UnixNano())
}

func (s *FailoverTokenStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if s.shouldTryPrimary() {
		if err := s.primary.Revoke(ctx, jti, ttl); err == nil {
			s.isDown.Store(false)
			// Mirror into the fallback so revocations survive a later
			// primary outage.
			_ = s.fallback.Revoke(ctx, jti, ttl)
			return nil
		} else {
			s.markDown(err)
		}
	}
	return s.fallback.Revoke(ctx, jti, ttl)
}

func (s *FailoverTokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if s.shouldTryPrimary() {
		revoked, err := s.primary.IsRevoked(ctx, jti)
		if err == nil {
			s.isDown.Store(false)
			if revoked {
				return true, nil
			}
			// Also consult the fallback: a revocation made during an
			// outage may not exist in redis.
			return s.fallback.IsRevoked(ctx, jti)
		}
		s.markDown(err)
	}
	return s.fallback.IsRevoked(ctx, jti)
}
