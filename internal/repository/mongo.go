// Package repository contains the MongoDB gateways. Each gateway owns one
// collection, maps driver errors onto domain errors, and keeps timestamp
// normalisation out of the layers above.
package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	appErrors "github.com/avenues-school/site-api/pkg/errors"
)

// Collection names in the site database.
const (
	admissionsCollection = "admissions"
	noticesCollection    = "notices"
	eventsCollection     = "events"
	alertsCollection     = "alerts"
)

// submittedOnLayout renders created_at the way the admissions grid shows it.
const submittedOnLayout = "02/01/2006"

// mapMongoError folds driver errors into the domain error set. Context
// cancellation passes through untouched so callers can tell shutdown apart
// from a broken store.
func mapMongoError(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return appErrors.ErrNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, op+" failed")
	}
}
