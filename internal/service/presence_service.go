package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/csmentors/scheduler-api/internal/models"
	"github.com/csmentors/scheduler-api/internal/repository"
	appErrors "github.com/csmentors/scheduler-api/pkg/errors"
)

type presenceCodeRepo interface {
	List(ctx context.Context) ([]models.PresenceCode, error)
	Seed(ctx context.Context, codes []models.PresenceCode) error
}

type presenceCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// PresenceService owns the open presence-code set. Codes live in the
// database, seeded from configuration on startup, and are cached since the
// set changes rarely but is consulted on every presence write.
type PresenceService struct {
	codes    presenceCodeRepo
	cache    presenceCache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewPresenceService constructs the presence-code service. cache may be nil.
func NewPresenceService(codes presenceCodeRepo, cache presenceCache, cacheTTL time.Duration, logger *zap.Logger) *PresenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PresenceService{codes: codes, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// ParseDefaults decodes "code:label:colorToken" entries from configuration.
// An empty code is legal: it labels weeks where the section does not meet.
func ParseDefaults(entries []string) []models.PresenceCode {
	parsed := make([]models.PresenceCode, 0, len(entries))
	for _, entry := range entries {
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) < 2 {
			continue
		}
		code := models.PresenceCode{
			Code:  strings.ToUpper(strings.TrimSpace(parts[0])),
			Label: strings.TrimSpace(parts[1]),
		}
		if len(parts) == 3 {
			code.ColorToken = strings.TrimSpace(parts[2])
		}
		parsed = append(parsed, code)
	}
	return parsed
}

// Seed inserts the configured defaults, leaving existing rows untouched.
func (s *PresenceService) Seed(ctx context.Context, defaults []models.PresenceCode) error {
	if len(defaults) == 0 {
		return nil
	}
	if err := s.codes.Seed(ctx, defaults); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed presence codes")
	}
	s.logger.Info("presence codes seeded", zap.Int("count", len(defaults)))
	return nil
}

// List returns the code set in insertion order, cache-first.
func (s *PresenceService) List(ctx context.Context) ([]models.PresenceCode, error) {
	key := repository.PresenceCodesCacheKey()
	if s.cache != nil {
		var cached []models.PresenceCode
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	codes, err := s.codes.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list presence codes")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, codes, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache presence codes", zap.Error(err))
		}
	}
	return codes, nil
}

// Codes returns the set keyed by code for membership checks.
func (s *PresenceService) Codes(ctx context.Context) (models.PresenceSet, error) {
	codes, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	set := make(models.PresenceSet, len(codes))
	for _, c := range codes {
		set[c.Code] = c
	}
	return set, nil
}
