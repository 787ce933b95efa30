package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/avenues-school/site-api/internal/models"
)

// AlertRepository reads the homepage alert banner feed.
type AlertRepository struct {
	col *mongo.Collection
}

// NewAlertRepository constructs an AlertRepository.
func NewAlertRepository(db *mongo.Database) *AlertRepository {
	return &AlertRepository{col: db.Collection(alertsCollection)}
}

// Feed returns the banner alerts ordered by priority rank then date, capped
// at the feed limit. Priority is stored as a plain string so the rank order
// is applied here rather than in the query.
func (r *AlertRepository) Feed(ctx context.Context) ([]models.Alert, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, mapMongoError(err, "list alerts")
	}
	defer cursor.Close(ctx)

	var alerts []models.Alert
	if err := cursor.All(ctx, &alerts); err != nil {
		return nil, mapMongoError(err, "decode alerts")
	}

	models.SortAlerts(alerts)
	if len(alerts) > models.AlertFeedLimit {
		alerts = alerts[:models.AlertFeedLimit]
	}
	return alerts, nil
}
