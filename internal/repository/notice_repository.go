package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/avenues-school/site-api/internal/models"
	appErrors "github.com/avenues-school/site-api/pkg/errors"
)

// NoticeRepository manages persistence for board notices.
type NoticeRepository struct {
	col *mongo.Collection
	now func() time.Time
}

// NewNoticeRepository constructs a NoticeRepository.
func NewNoticeRepository(db *mongo.Database) *NoticeRepository {
	return &NoticeRepository{col: db.Collection(noticesCollection), now: time.Now}
}

// List returns all notices, newest first.
func (r *NoticeRepository) List(ctx context.Context) ([]models.Notice, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, mapMongoError(err, "list notices")
	}
	defer cursor.Close(ctx)

	var notices []models.Notice
	if err := cursor.All(ctx, &notices); err != nil {
		return nil, mapMongoError(err, "decode notices")
	}
	return notices, nil
}

// Get fetches a single notice by id.
func (r *NoticeRepository) Get(ctx context.Context, id string) (*models.Notice, error) {
	var notice models.Notice
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&notice); err != nil {
		return nil, mapMongoError(err, "get notice")
	}
	return &notice, nil
}

// Create stores a new notice, assigning id and created_at.
func (r *NoticeRepository) Create(ctx context.Context, notice models.Notice) (*models.Notice, error) {
	notice.ID = uuid.NewString()
	notice.CreatedAt = r.now().UTC()
	if _, err := r.col.InsertOne(ctx, notice); err != nil {
		return nil, mapMongoError(err, "create notice")
	}
	return &notice, nil
}

// Update rewrites a notice's content fields in place. The original
// created_at is preserved so edits do not reshuffle the board.
func (r *NoticeRepository) Update(ctx context.Context, id string, notice models.Notice) error {
	set := bson.M{
		"title":       notice.Title,
		"description": notice.Description,
		"file_url":    notice.FileURL,
		"file_name":   notice.FileName,
		"file_type":   notice.FileType,
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return mapMongoError(err, "update notice")
	}
	if res.MatchedCount == 0 {
		return appErrors.ErrNotFound
	}
	return nil
}

// Delete removes a notice.
func (r *NoticeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapMongoError(err, "delete notice")
	}
	if res.DeletedCount == 0 {
		return appErrors.ErrNotFound
	}
	return nil
}
