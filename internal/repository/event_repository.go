package repository

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/avenues-school/site-api/internal/models"
)

// EventRepository manages persistence for news and calendar events.
type EventRepository struct {
	col *mongo.Collection
	now func() time.Time
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{col: db.Collection(eventsCollection), now: time.Now}
}

// List returns all events, newest first by creation time.
func (r *EventRepository) List(ctx context.Context) ([]models.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, mapMongoError(err, "list events")
	}
	defer cursor.Close(ctx)

	var events []models.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, mapMongoError(err, "decode events")
	}
	return events, nil
}

// Upcoming returns events dated today or later, soonest first, capped at
// the homepage strip limit.
func (r *EventRepository) Upcoming(ctx context.Context) ([]models.Event, error) {
	today := r.startOfToday()
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}}).
		SetLimit(models.UpcomingEventsLimit)
	cursor, err := r.col.Find(ctx, bson.M{"date": bson.M{"$gte": today}}, opts)
	if err != nil {
		return nil, mapMongoError(err, "list upcoming events")
	}
	defer cursor.Close(ctx)

	var events []models.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, mapMongoError(err, "decode upcoming events")
	}
	return events, nil
}

// Get fetches a single event by id.
func (r *EventRepository) Get(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&event); err != nil {
		return nil, mapMongoError(err, "get event")
	}
	return &event, nil
}

// Subscribe watches the events collection and invokes onChange with the full
// refreshed list after every write, plus once up front with the current
// state. It returns an unsubscribe func that is safe to call more than once.
// The watch also stops when ctx is cancelled.
func (r *EventRepository) Subscribe(ctx context.Context, onChange func([]models.Event)) (func(), error) {
	stream, err := r.col.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return nil, mapMongoError(err, "watch events")
	}

	// The initial snapshot is part of the contract: a subscriber that cannot
	// read the current state has not subscribed.
	events, err := r.List(ctx)
	if err != nil {
		_ = stream.Close(context.Background())
		return nil, err
	}

	watchCtx, cancel := context.WithCancel(ctx)
	var once sync.Once
	unsubscribe := func() { once.Do(cancel) }

	onChange(events)

	go func() {
		defer stream.Close(context.Background())
		for stream.Next(watchCtx) {
			events, err := r.List(watchCtx)
			if err != nil {
				continue
			}
			onChange(events)
		}
	}()

	return unsubscribe, nil
}

func (r *EventRepository) startOfToday() time.Time {
	now := r.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
