package intake

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avenues-school/site-api/internal/models"
	"github.com/avenues-school/site-api/internal/validation"
	appErrors "github.com/avenues-school/site-api/pkg/errors"
)

var testClock = func() time.Time {
	return time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
}

func fillValid(f *Form) {
	f.Change(validation.FieldStudentName, "Jordan Mathew")
	f.Change(validation.FieldEmail, "jordan@example.com")
	f.Change(validation.FieldPhone, "7997043399")
	f.Change(validation.FieldDateOfBirth, "2015-02-10")
	f.Change(validation.FieldGender, "Male")
	f.Change(validation.FieldGrade, "Grade 3")
	f.Change(validation.FieldAddress, "12 Lakeview Road, Hyderabad")
}

func TestFormBlurValidatesTouchedFieldOnly(t *testing.T) {
	f := NewAt(testClock)

	f.Change(validation.FieldStudentName, "Jo")
	assert.Empty(t, f.Errors(), "untouched fields stay silent")

	f.Blur(validation.FieldStudentName)
	assert.Equal(t, "Name must be at least 3 characters", f.Errors()[validation.FieldStudentName])

	f.Change(validation.FieldStudentName, "Jordan")
	assert.Empty(t, f.Errors(), "touched field revalidates on edit")
}

func TestFormSubmitBlocksInvalidWithoutCreate(t *testing.T) {
	f := NewAt(testClock)
	f.Change(validation.FieldStudentName, "Jo")
	f.Change(validation.FieldPhone, "12345")

	called := false
	err := f.Submit(context.Background(), func(ctx context.Context, form models.AdmissionForm) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.False(t, called, "gateway must not be reached on validation failure")

	appErr := appErrors.FromError(err)
	assert.Equal(t, "Name must be at least 3 characters", appErr.Fields[validation.FieldStudentName])
	assert.Equal(t, "Please enter a valid 10-digit phone number", appErr.Fields[validation.FieldPhone])

	field, ok := f.FirstError()
	require.True(t, ok)
	assert.Equal(t, validation.FieldStudentName, field)

	for _, name := range validation.FormFields {
		assert.True(t, f.Touched(name), "submit touches every field: %s", name)
	}
}

func TestFormSubmitSuccessClearsState(t *testing.T) {
	f := NewAt(testClock)
	fillValid(f)

	var got models.AdmissionForm
	err := f.Submit(context.Background(), func(ctx context.Context, form models.AdmissionForm) error {
		got = form
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "Jordan Mathew", got.StudentName)
	assert.Equal(t, models.AdmissionForm{}, f.Fields(), "fields cleared after success")
	assert.Empty(t, f.Errors())
	assert.False(t, f.Touched(validation.FieldStudentName))
}

func TestFormSubmitFailurePreservesFields(t *testing.T) {
	f := NewAt(testClock)
	fillValid(f)

	boom := errors.New("connection reset")
	err := f.Submit(context.Background(), func(ctx context.Context, form models.AdmissionForm) error {
		return boom
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, "Jordan Mathew", f.Fields().StudentName, "entered data survives a failed submit")
	assert.False(t, f.Submitting())
}

func TestFormRecoversAfterBlockedSubmit(t *testing.T) {
	f := NewAt(testClock)
	f.Change(validation.FieldStudentName, "Jo")
	f.Change(validation.FieldPhone, "12345")

	_ = f.Submit(context.Background(), func(ctx context.Context, form models.AdmissionForm) error { return nil })

	fillValid(f)
	assert.Empty(t, f.Errors(), "corrections clear errors as fields are edited")

	calls := 0
	err := f.Submit(context.Background(), func(ctx context.Context, form models.AdmissionForm) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
