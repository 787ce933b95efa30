// Package validation holds the pure field rules for the admission intake
// form. Functions here perform no I/O and return messages as data; callers
// own touched/dirty bookkeeping and error display.
package validation

import (
	"regexp"
	"strings"
	"time"

	"github.com/avenues-school/site-api/internal/models"
)

// Field names as the intake form knows them.
const (
	FieldStudentName = "studentName"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldDateOfBirth = "dob"
	FieldGender      = "gender"
	FieldGrade       = "grade"
	FieldAddress     = "address"
)

// FormFields lists every intake field in display order.
var FormFields = []string{
	FieldStudentName, FieldEmail, FieldPhone, FieldDateOfBirth,
	FieldGender, FieldGrade, FieldAddress,
}

const dateLayout = "2006-01-02"

var (
	nameRe     = regexp.MustCompile(`^[A-Za-z\s]*$`)
	emailRe    = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)
	nonDigitRe = regexp.MustCompile(`\D`)
)

// ValidateField checks a single field value and returns an error message, or
// "" when the value is acceptable. Age is evaluated against the wall clock.
func ValidateField(name, value string) string {
	return ValidateFieldAt(name, value, time.Now())
}

// ValidateFieldAt is ValidateField with an explicit reference time for the
// date-of-birth rule.
func ValidateFieldAt(name, value string, now time.Time) string {
	switch name {
	case FieldStudentName:
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return "Student name is required"
		}
		if len(trimmed) < 3 {
			return "Name must be at least 3 characters"
		}
		if !nameRe.MatchString(value) {
			return "Name should only contain letters and spaces"
		}

	case FieldEmail:
		if value != "" && !emailRe.MatchString(value) {
			return "Please enter a valid email address"
		}

	case FieldPhone:
		if value == "" {
			return "Phone number is required"
		}
		if len(nonDigitRe.ReplaceAllString(value, "")) != 10 {
			return "Please enter a valid 10-digit phone number"
		}

	case FieldDateOfBirth:
		if value == "" {
			return "Date of birth is required"
		}
		dob, err := time.Parse(dateLayout, value)
		if err != nil {
			return "Please enter a valid date of birth"
		}
		age := AgeAt(dob, now)
		if age < 3 {
			return "Student must be at least 3 years old"
		}
		if age > 18 {
			return "Student must be under 18 years old"
		}

	case FieldGender:
		if value == "" {
			return "Please select a gender"
		}
		if !contains(models.Genders, value) {
			return "Please select a valid gender"
		}

	case FieldGrade:
		if value == "" {
			return "Please select a grade"
		}
		if !contains(models.Grades, value) {
			return "Please select a valid grade"
		}

	case FieldAddress:
		if value != "" && len(strings.TrimSpace(value)) < 10 {
			return "Please enter a complete address (minimum 10 characters)"
		}
	}
	return ""
}

// ValidateForm runs every field rule over the snapshot. The form is
// submittable iff the returned map is empty.
func ValidateForm(form models.AdmissionForm) map[string]string {
	return ValidateFormAt(form, time.Now())
}

// ValidateFormAt is ValidateForm with an explicit reference time.
func ValidateFormAt(form models.AdmissionForm, now time.Time) map[string]string {
	errs := make(map[string]string)
	for _, field := range FormFields {
		if msg := ValidateFieldAt(field, FieldValue(form, field), now); msg != "" {
			errs[field] = msg
		}
	}
	return errs
}

// FieldValue extracts the named field from the form snapshot.
func FieldValue(form models.AdmissionForm, name string) string {
	switch name {
	case FieldStudentName:
		return form.StudentName
	case FieldEmail:
		return form.Email
	case FieldPhone:
		return form.Phone
	case FieldDateOfBirth:
		return form.DateOfBirth
	case FieldGender:
		return form.Gender
	case FieldGrade:
		return form.Grade
	case FieldAddress:
		return form.Address
	}
	return ""
}

// AgeAt computes whole years elapsed between dob and now, not counting the
// current year until the birthday month/day has been reached.
func AgeAt(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}

func contains(set []string, value string) bool {
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}
