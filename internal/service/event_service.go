package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/avenues-school/site-api/internal/models"
	appErrors "github.com/avenues-school/site-api/pkg/errors"
)

type eventRepository interface {
	List(ctx context.Context) ([]models.Event, error)
	Upcoming(ctx context.Context) ([]models.Event, error)
	Get(ctx context.Context, id string) (*models.Event, error)
	Subscribe(ctx context.Context, onChange func([]models.Event)) (func(), error)
}

const (
	eventsFeedKeyPrefix = "feed:events:page:"
	upcomingFeedKey     = "feed:events:upcoming"
)

// EventService serves the news grid, the upcoming strip and the live feed.
type EventService struct {
	repo   eventRepository
	cache  *CacheService
	logger *zap.Logger
}

// NewEventService constructs the event service.
func NewEventService(repo eventRepository, cache *CacheService, logger *zap.Logger) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{repo: repo, cache: cache, logger: logger}
}

// eventPage is the cached shape of one news grid page.
type eventPage struct {
	Events     []models.Event     `json:"events"`
	Pagination *models.Pagination `json:"pagination"`
}

// Feed returns one page of the news grid, newest first.
func (s *EventService) Feed(ctx context.Context, page int) ([]models.Event, *models.Pagination, error) {
	key := fmt.Sprintf("%s%d", eventsFeedKeyPrefix, page)
	var cached eventPage
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached.Events, cached.Pagination, nil
	}

	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, nil, listError(err, "failed to list events")
	}
	visible, pagination := models.PageSlice(events, page, models.EventsPageSize)

	_ = s.cache.Set(ctx, key, eventPage{Events: visible, Pagination: pagination}, 0)
	return visible, pagination, nil
}

// Upcoming returns the homepage strip: events dated today or later, soonest
// first, at most three.
func (s *EventService) Upcoming(ctx context.Context) ([]models.Event, error) {
	var cached []models.Event
	if hit, _ := s.cache.Get(ctx, upcomingFeedKey, &cached); hit {
		return cached, nil
	}

	events, err := s.repo.Upcoming(ctx)
	if err != nil {
		return nil, listError(err, "failed to list upcoming events")
	}

	_ = s.cache.Set(ctx, upcomingFeedKey, events, 0)
	return events, nil
}

// Get returns a single event.
func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, listError(err, "failed to load event")
	}
	return event, nil
}

// Subscribe streams the refreshed event list to onChange after every store
// write. The returned func tears the subscription down; calling it twice
// is harmless.
func (s *EventService) Subscribe(ctx context.Context, onChange func([]models.Event)) (func(), error) {
	unsubscribe, err := s.repo.Subscribe(ctx, onChange)
	if err != nil {
		return nil, listError(err, "failed to open event stream")
	}
	return unsubscribe, nil
}
