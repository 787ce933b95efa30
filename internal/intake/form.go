// Package intake implements the admission application form lifecycle:
// editing with per-field touched/error tracking, then a single submit that
// either persists the application or hands the field errors back untouched.
package intake

import (
	"context"
	"time"

	"github.com/avenues-school/site-api/internal/models"
	"github.com/avenues-school/site-api/internal/validation"
	appErrors "github.com/avenues-school/site-api/pkg/errors"
)

// CreateFunc persists a validated application. The implementation assigns
// the initial status and the server-side creation timestamp.
type CreateFunc func(ctx context.Context, form models.AdmissionForm) error

// Form is the intake state machine. It is not safe for concurrent use; the
// surrounding flow drives it from a single goroutine.
type Form struct {
	fields     models.AdmissionForm
	touched    map[string]bool
	errors     map[string]string
	submitting bool
	now        func() time.Time
}

// New returns an empty form in its editing state.
func New() *Form {
	return &Form{
		touched: make(map[string]bool),
		errors:  make(map[string]string),
		now:     time.Now,
	}
}

// NewAt returns a form whose age rule is evaluated against a fixed clock.
func NewAt(now func() time.Time) *Form {
	f := New()
	f.now = now
	return f
}

// Change records an edit. Fields that have already been touched are
// revalidated immediately; untouched fields stay silent until blur.
func (f *Form) Change(name, value string) {
	f.setField(name, value)
	if f.touched[name] {
		f.revalidate(name)
	}
}

// Blur marks the field as touched and validates it.
func (f *Form) Blur(name string) {
	f.touched[name] = true
	f.revalidate(name)
}

// Submit validates the whole form and, when clean, persists it via create.
// On validation failure the gateway is never called and the returned error
// carries the field messages. On persistence failure the entered fields are
// preserved so nothing is lost; on success the form resets to empty.
func (f *Form) Submit(ctx context.Context, create CreateFunc) error {
	if f.submitting {
		return appErrors.Clone(appErrors.ErrValidation, "submission already in progress")
	}

	for _, field := range validation.FormFields {
		f.touched[field] = true
	}

	f.errors = validation.ValidateFormAt(f.fields, f.now())
	if len(f.errors) > 0 {
		return appErrors.WithFields(f.copyErrors())
	}

	f.submitting = true
	defer func() { f.submitting = false }()

	if err := create(ctx, f.fields); err != nil {
		return err
	}

	f.fields = models.AdmissionForm{}
	f.touched = make(map[string]bool)
	f.errors = make(map[string]string)
	return nil
}

// Fields returns the current snapshot.
func (f *Form) Fields() models.AdmissionForm {
	return f.fields
}

// Errors returns the visible field errors.
func (f *Form) Errors() map[string]string {
	return f.copyErrors()
}

// Touched reports whether the field has been interacted with.
func (f *Form) Touched(name string) bool {
	return f.touched[name]
}

// Submitting reports whether a submit is in flight.
func (f *Form) Submitting() bool {
	return f.submitting
}

// FirstError returns the first errored field in display order, so the
// presentation layer can focus or scroll to it.
func (f *Form) FirstError() (string, bool) {
	for _, field := range validation.FormFields {
		if _, ok := f.errors[field]; ok {
			return field, true
		}
	}
	return "", false
}

func (f *Form) revalidate(name string) {
	msg := validation.ValidateFieldAt(name, validation.FieldValue(f.fields, name), f.now())
	if msg == "" {
		delete(f.errors, name)
		return
	}
	f.errors[name] = msg
}

func (f *Form) setField(name, value string) {
	switch name {
	case validation.FieldStudentName:
		f.fields.StudentName = value
	case validation.FieldEmail:
		f.fields.Email = value
	case validation.FieldPhone:
		f.fields.Phone = value
	case validation.FieldDateOfBirth:
		f.fields.DateOfBirth = value
	case validation.FieldGender:
		f.fields.Gender = value
	case validation.FieldGrade:
		f.fields.Grade = value
	case validation.FieldAddress:
		f.fields.Address = value
	}
}

func (f *Form) copyErrors() map[string]string {
	out := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}
