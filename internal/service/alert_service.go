package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/avenues-school/site-api/internal/models"
)

type alertRepository interface {
	Feed(ctx context.Context) ([]models.Alert, error)
}

const alertsFeedKey = "feed:alerts"

// AlertService serves the homepage alert banner.
type AlertService struct {
	repo   alertRepository
	cache  *CacheService
	logger *zap.Logger
}

// NewAlertService constructs the alert service.
func NewAlertService(repo alertRepository, cache *CacheService, logger *zap.Logger) *AlertService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlertService{repo: repo, cache: cache, logger: logger}
}

// Feed returns the banner alerts, highest priority first, newest within a
// priority, capped at the feed limit.
func (s *AlertService) Feed(ctx context.Context) ([]models.Alert, error) {
	var cached []models.Alert
	if hit, _ := s.cache.Get(ctx, alertsFeedKey, &cached); hit {
		return cached, nil
	}

	alerts, err := s.repo.Feed(ctx)
	if err != nil {
		return nil, listError(err, "failed to list alerts")
	}

	_ = s.cache.Set(ctx, alertsFeedKey, alerts, 0)
	return alerts, nil
}
