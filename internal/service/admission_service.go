// Package service holds the use-case layer. Services own page-size policy,
// refetch-after-mutation semantics and cache coordination; gateways stay
// dumb and handlers stay thin.
package service

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/avenues-school/site-api/internal/intake"
	"github.com/avenues-school/site-api/internal/models"
	"github.com/avenues-school/site-api/internal/validation"
	appErrors "github.com/avenues-school/site-api/pkg/errors"
	"github.com/avenues-school/site-api/pkg/export"
)

type admissionRepository interface {
	List(ctx context.Context) ([]models.Admission, error)
	Get(ctx context.Context, id string) (*models.Admission, error)
	Create(ctx context.Context, form models.AdmissionForm) (*models.Admission, error)
	UpdateStatus(ctx context.Context, id string, status models.AdmissionStatus) error
	Delete(ctx context.Context, id string) error
}

// AdmissionService handles the intake flow and the back-office grid.
type AdmissionService struct {
	repo   admissionRepository
	logger *zap.Logger
}

// NewAdmissionService constructs the admission service.
func NewAdmissionService(repo admissionRepository, logger *zap.Logger) *AdmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdmissionService{repo: repo, logger: logger}
}

// Submit runs the full intake flow: validate every field, and only when the
// form is clean persist it with the pending status. Validation failures
// carry the per-field messages and never reach the store.
func (s *AdmissionService) Submit(ctx context.Context, form models.AdmissionForm) (*models.Admission, error) {
	f := intake.New()
	for _, name := range validation.FormFields {
		f.Change(name, validation.FieldValue(form, name))
	}

	var created *models.Admission
	err := f.Submit(ctx, func(ctx context.Context, raw models.AdmissionForm) error {
		admission, err := s.repo.Create(ctx, raw)
		if err != nil {
			return err
		}
		created = admission
		return nil
	})
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit application")
	}

	s.logger.Info("admission submitted", zap.String("id", created.ID), zap.String("grade", created.Grade))
	return created, nil
}

// CheckForm validates a draft without persisting anything, returning the
// per-field messages so the intake screen can render them inline.
func (s *AdmissionService) CheckForm(form models.AdmissionForm) map[string]string {
	return validation.ValidateForm(form)
}

// List returns one page of the back-office grid, newest first.
func (s *AdmissionService) List(ctx context.Context, page int) ([]models.Admission, *models.Pagination, error) {
	admissions, err := s.repo.List(ctx)
	if err != nil {
		return nil, nil, listError(err, "failed to list admissions")
	}
	sort.SliceStable(admissions, func(i, j int) bool {
		return admissions[i].CreatedAt.After(admissions[j].CreatedAt)
	})
	visible, pagination := models.PageSlice(admissions, page, models.AdmissionsPageSize)
	return visible, pagination, nil
}

// Get returns a single application.
func (s *AdmissionService) Get(ctx context.Context, id string) (*models.Admission, error) {
	admission, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, listError(err, "failed to load application")
	}
	return admission, nil
}

// UpdateStatus flips an application's status and returns the refreshed page
// the grid was looking at, so the caller never renders stale rows.
func (s *AdmissionService) UpdateStatus(ctx context.Context, id string, status models.AdmissionStatus, page int) ([]models.Admission, *models.Pagination, error) {
	if !models.ValidStatus(status) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "status must be pending or reviewed")
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, nil, listError(err, "failed to update application status")
	}
	return s.List(ctx, page)
}

// Delete removes an application and returns the refreshed page. A document
// that is already gone counts as success; the end state is identical.
func (s *AdmissionService) Delete(ctx context.Context, id string, page int) ([]models.Admission, *models.Pagination, error) {
	if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, appErrors.ErrNotFound) {
		return nil, nil, listError(err, "failed to delete application")
	}
	return s.List(ctx, page)
}

// ExportDataset flattens every application into the tabular form the CSV
// and PDF renderers consume.
func (s *AdmissionService) ExportDataset(ctx context.Context) (*export.Dataset, error) {
	admissions, err := s.repo.List(ctx)
	if err != nil {
		return nil, listError(err, "failed to load applications for export")
	}
	sort.SliceStable(admissions, func(i, j int) bool {
		return admissions[i].CreatedAt.After(admissions[j].CreatedAt)
	})

	dataset := &export.Dataset{
		Headers: []string{"Student Name", "Email", "Phone", "Date of Birth", "Gender", "Grade", "Address", "Status", "Submitted On"},
	}
	for _, a := range admissions {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Student Name":  a.StudentName,
			"Email":         a.Email,
			"Phone":         a.Phone,
			"Date of Birth": a.DateOfBirth,
			"Gender":        a.Gender,
			"Grade":         a.Grade,
			"Address":       a.Address,
			"Status":        string(a.Status),
			"Submitted On":  a.SubmittedOn,
		})
	}
	return dataset, nil
}

// listError keeps store outages distinguishable from plain internal faults.
func listError(err error, message string) error {
	if appErr := appErrors.FromError(err); appErr.Code == appErrors.ErrUnavailable.Code {
		return appErrors.Clone(appErrors.ErrUnavailable, message)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
