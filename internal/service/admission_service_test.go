package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avenues-school/site-api/internal/models"
	appErrors "github.com/avenues-school/site-api/pkg/errors"
)

type mockAdmissionRepo struct {
	admissions map[string]models.Admission
	createdIDs []string
	err        error
}

func newMockAdmissionRepo() *mockAdmissionRepo {
	return &mockAdmissionRepo{admissions: make(map[string]models.Admission)}
}

func (m *mockAdmissionRepo) List(ctx context.Context) ([]models.Admission, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]models.Admission, 0, len(m.admissions))
	for _, a := range m.admissions {
		a.SubmittedOn = a.CreatedAt.Format("02/01/2006")
		out = append(out, a)
	}
	return out, nil
}

func (m *mockAdmissionRepo) Get(ctx context.Context, id string) (*models.Admission, error) {
	if a, ok := m.admissions[id]; ok {
		return &a, nil
	}
	return nil, appErrors.ErrNotFound
}

func (m *mockAdmissionRepo) Create(ctx context.Context, form models.AdmissionForm) (*models.Admission, error) {
	if m.err != nil {
		return nil, m.err
	}
	admission := models.Admission{
		ID:          fmt.Sprintf("adm-%d", len(m.admissions)+1),
		StudentName: form.StudentName,
		Email:       form.Email,
		Phone:       form.Phone,
		DateOfBirth: form.DateOfBirth,
		Gender:      form.Gender,
		Grade:       form.Grade,
		Address:     form.Address,
		Status:      models.AdmissionStatusPending,
		CreatedAt:   time.Now().UTC(),
	}
	m.admissions[admission.ID] = admission
	m.createdIDs = append(m.createdIDs, admission.ID)
	return &admission, nil
}

func (m *mockAdmissionRepo) UpdateStatus(ctx context.Context, id string, status models.AdmissionStatus) error {
	a, ok := m.admissions[id]
	if !ok {
		return appErrors.ErrNotFound
	}
	a.Status = status
	m.admissions[id] = a
	return nil
}

func (m *mockAdmissionRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.admissions[id]; !ok {
		return appErrors.ErrNotFound
	}
	delete(m.admissions, id)
	return nil
}

func validForm() models.AdmissionForm {
	return models.AdmissionForm{
		StudentName: "Jordan Mathew",
		Email:       "jordan@example.com",
		Phone:       "7997043399",
		DateOfBirth: "2015-02-10",
		Gender:      "Male",
		Grade:       "Grade 3",
		Address:     "12 Lakeview Road, Hyderabad",
	}
}

func seedAdmissions(repo *mockAdmissionRepo, n int) {
	base := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("adm-%02d", i)
		repo.admissions[id] = models.Admission{
			ID:          id,
			StudentName: fmt.Sprintf("Student %02d", i),
			Phone:       "7997043399",
			Status:      models.AdmissionStatusPending,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		}
	}
}

func TestAdmissionServiceSubmit(t *testing.T) {
	repo := newMockAdmissionRepo()
	svc := NewAdmissionService(repo, zap.NewNop())

	admission, err := svc.Submit(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, models.AdmissionStatusPending, admission.Status)
	assert.Equal(t, "Jordan Mathew", admission.StudentName)
	assert.Len(t, repo.createdIDs, 1)
}

func TestAdmissionServiceSubmitInvalidSkipsStore(t *testing.T) {
	repo := newMockAdmissionRepo()
	svc := NewAdmissionService(repo, zap.NewNop())

	form := validForm()
	form.StudentName = "Jo"
	form.Phone = "12345"

	_, err := svc.Submit(context.Background(), form)
	require.Error(t, err)
	assert.Empty(t, repo.createdIDs, "invalid forms must never reach the store")

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "Name must be at least 3 characters", appErr.Fields["studentName"])
	assert.Equal(t, "Please enter a valid 10-digit phone number", appErr.Fields["phone"])
}

func TestAdmissionServiceListPagination(t *testing.T) {
	repo := newMockAdmissionRepo()
	seedAdmissions(repo, 23)
	svc := NewAdmissionService(repo, zap.NewNop())

	page, pagination, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, page, models.AdmissionsPageSize)
	assert.Equal(t, 3, pagination.TotalPages)
	assert.Equal(t, 23, pagination.TotalCount)
	assert.Equal(t, "Student 22", page[0].StudentName, "newest first")

	lastPage, pagination, err := svc.List(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, lastPage, 3)
	assert.Equal(t, 3, pagination.Page)

	clamped, pagination, err := svc.List(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, 3, pagination.Page, "out-of-range pages clamp to the last page")
	assert.Len(t, clamped, 3)
}

func TestAdmissionServiceUpdateStatusReturnsRefreshedPage(t *testing.T) {
	repo := newMockAdmissionRepo()
	seedAdmissions(repo, 5)
	svc := NewAdmissionService(repo, zap.NewNop())

	page, _, err := svc.UpdateStatus(context.Background(), "adm-02", models.AdmissionStatusReviewed, 1)
	require.NoError(t, err)
	require.Len(t, page, 5)
	for _, a := range page {
		if a.ID == "adm-02" {
			assert.Equal(t, models.AdmissionStatusReviewed, a.Status)
		}
	}
}

func TestAdmissionServiceUpdateStatusRejectsUnknownValue(t *testing.T) {
	repo := newMockAdmissionRepo()
	seedAdmissions(repo, 1)
	svc := NewAdmissionService(repo, zap.NewNop())

	_, _, err := svc.UpdateStatus(context.Background(), "adm-00", "approved", 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAdmissionServiceDeleteSwallowsMissing(t *testing.T) {
	repo := newMockAdmissionRepo()
	seedAdmissions(repo, 3)
	svc := NewAdmissionService(repo, zap.NewNop())

	page, pagination, err := svc.Delete(context.Background(), "adm-01", 1)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	page, pagination, err = svc.Delete(context.Background(), "adm-01", 1)
	require.NoError(t, err, "deleting an absent document is still success")
	assert.Len(t, page, 2)
	assert.Equal(t, 2, pagination.TotalCount)
}

func TestAdmissionServiceExportDataset(t *testing.T) {
	repo := newMockAdmissionRepo()
	seedAdmissions(repo, 2)
	svc := NewAdmissionService(repo, zap.NewNop())

	dataset, err := svc.ExportDataset(context.Background())
	require.NoError(t, err)
	assert.Contains(t, dataset.Headers, "Student Name")
	require.Len(t, dataset.Rows, 2)
	assert.Equal(t, "Student 01", dataset.Rows[0]["Student Name"], "newest first")
	assert.Equal(t, "01/03/2024", dataset.Rows[0]["Submitted On"])
}
