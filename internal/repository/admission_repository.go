package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/avenues-school/site-api/internal/models"
	appErrors "github.com/avenues-school/site-api/pkg/errors"
)

// AdmissionRepository manages persistence for admission applications.
type AdmissionRepository struct {
	col *mongo.Collection
	now func() time.Time
}

// NewAdmissionRepository constructs an AdmissionRepository.
func NewAdmissionRepository(db *mongo.Database) *AdmissionRepository {
	return &AdmissionRepository{col: db.Collection(admissionsCollection), now: time.Now}
}

// List returns every application with SubmittedOn rendered as dd/mm/yyyy.
// Ordering and paging happen in the service layer over the full set.
func (r *AdmissionRepository) List(ctx context.Context) ([]models.Admission, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, mapMongoError(err, "list admissions")
	}
	defer cursor.Close(ctx)

	var admissions []models.Admission
	if err := cursor.All(ctx, &admissions); err != nil {
		return nil, mapMongoError(err, "decode admissions")
	}
	for i := range admissions {
		admissions[i].SubmittedOn = admissions[i].CreatedAt.Format(submittedOnLayout)
	}
	return admissions, nil
}

// Get fetches a single application by id.
func (r *AdmissionRepository) Get(ctx context.Context, id string) (*models.Admission, error) {
	var admission models.Admission
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&admission); err != nil {
		return nil, mapMongoError(err, "get admission")
	}
	admission.SubmittedOn = admission.CreatedAt.Format(submittedOnLayout)
	return &admission, nil
}

// Create stores a new application from the raw intake fields. The id, the
// pending status and created_at are assigned here, never by the caller.
func (r *AdmissionRepository) Create(ctx context.Context, form models.AdmissionForm) (*models.Admission, error) {
	admission := models.Admission{
		ID:          uuid.NewString(),
		StudentName: form.StudentName,
		Email:       form.Email,
		Phone:       form.Phone,
		DateOfBirth: form.DateOfBirth,
		Gender:      form.Gender,
		Grade:       form.Grade,
		Address:     form.Address,
		Status:      models.AdmissionStatusPending,
		CreatedAt:   r.now().UTC(),
	}
	if _, err := r.col.InsertOne(ctx, admission); err != nil {
		return nil, mapMongoError(err, "create admission")
	}
	admission.SubmittedOn = admission.CreatedAt.Format(submittedOnLayout)
	return &admission, nil
}

// UpdateStatus flips a single application's review status.
func (r *AdmissionRepository) UpdateStatus(ctx context.Context, id string, status models.AdmissionStatus) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return mapMongoError(err, "update admission status")
	}
	if res.MatchedCount == 0 {
		return appErrors.ErrNotFound
	}
	return nil
}

// Delete removes an application. Deleting an absent document reports
// ErrNotFound so the caller can decide whether that matters.
func (r *AdmissionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapMongoError(err, "delete admission")
	}
	if res.DeletedCount == 0 {
		return appErrors.ErrNotFound
	}
	return nil
}
