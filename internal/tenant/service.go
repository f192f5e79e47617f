package tenant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ballast-erp/ballast-erp/internal/shared"
)

// Enqueuer schedules background work triggered by tenant lifecycle changes.
type Enqueuer interface {
	EnqueueValuationSnapshot(ctx context.Context) error
}

// Service resolves the acting organization for authenticated users. It is the
// tenant-isolation boundary: every downstream lookup uses the organization id
// returned here as its sole tenant filter.
type Service struct {
	repo     Repository
	cache    Cache
	ttl      time.Duration
	logger   *slog.Logger
	enqueuer Enqueuer
}

// NewService constructs the tenant Service. A zero ttl disables the cache so
// every resolution hits the store.
func NewService(repo Repository, cache Cache, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// WithEnqueuer enables lifecycle-triggered background jobs.
func (s *Service) WithEnqueuer(e Enqueuer) *Service {
	s.enqueuer = e
	return s
}

// Resolve returns the organization the user belongs to, reading through the
// cache when enabled. Users without an organization fail with
// ErrOrganizationRequired.
func (s *Service) Resolve(ctx context.Context, userID int64) (*shared.Organization, error) {
	if s.cacheEnabled() {
		org, hit, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.logger.Warn("org cache get", slog.Int64("user_id", userID), slog.Any("error", err))
		} else if hit {
			return org, nil
		}
	}

	org, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrOrganizationRequired
		}
		return nil, fmt.Errorf("tenant: resolve organization: %w", err)
	}

	if s.cacheEnabled() {
		if err := s.cache.Set(ctx, userID, org, s.ttl); err != nil {
			s.logger.Warn("org cache set", slog.Int64("user_id", userID), slog.Any("error", err))
		}
	}
	return org, nil
}

// Get fetches an organization by id, bypassing the cache.
func (s *Service) Get(ctx context.Context, orgID int64) (*shared.Organization, error) {
	return s.repo.Get(ctx, orgID)
}

// Update renames the organization and invalidates the caller's cache entry.
func (s *Service) Update(ctx context.Context, userID, orgID int64, name string) (*shared.Organization, error) {
	if err := s.repo.UpdateName(ctx, orgID, name); err != nil {
		return nil, fmt.Errorf("tenant: update organization: %w", err)
	}
	s.invalidate(ctx, userID)
	return s.repo.Get(ctx, orgID)
}

// Disable soft-disables the organization. Reads stay available; every write is
// rejected by the gate afterwards. A final valuation snapshot is enqueued so
// the closing stocked value is on record; the disable stands even if the
// enqueue fails.
func (s *Service) Disable(ctx context.Context, userID, orgID int64) error {
	if err := s.repo.Disable(ctx, orgID); err != nil {
		return fmt.Errorf("tenant: disable organization: %w", err)
	}
	s.invalidate(ctx, userID)
	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueValuationSnapshot(ctx); err != nil {
			s.logger.Warn("enqueue valuation snapshot", slog.Int64("org_id", orgID), slog.Any("error", err))
		}
	}
	return nil
}

func (s *Service) cacheEnabled() bool {
	return s.cache != nil && s.ttl > 0
}

func (s *Service) invalidate(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, userID); err != nil {
		s.logger.Warn("org cache delete", slog.Int64("user_id", userID), slog.Any("error", err))
	}
}
