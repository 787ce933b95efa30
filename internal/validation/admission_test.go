package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/avenues-school/site-api/internal/models"
)

var refDate = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func validForm() models.AdmissionForm {
	return models.AdmissionForm{
		StudentName: "Jo Smith",
		Email:       "parent@example.com",
		Phone:       "9876543210",
		DateOfBirth: "2015-03-02",
		Gender:      "Female",
		Grade:       "Grade 3",
		Address:     "12 Jubilee Hills, Hyderabad",
	}
}

func TestStudentNameRules(t *testing.T) {
	assert.Equal(t, "Student name is required", ValidateField(FieldStudentName, ""))
	assert.Equal(t, "Student name is required", ValidateField(FieldStudentName, "   "))
	assert.Equal(t, "Name must be at least 3 characters", ValidateField(FieldStudentName, "Jo"))
	assert.Equal(t, "Name should only contain letters and spaces", ValidateField(FieldStudentName, "Jo3 Smith"))
	assert.Empty(t, ValidateField(FieldStudentName, "Jo Smith"))
}

func TestEmailOptionalButShaped(t *testing.T) {
	assert.Empty(t, ValidateField(FieldEmail, ""))
	assert.Empty(t, ValidateField(FieldEmail, "Parent@Example.COM"))
	assert.NotEmpty(t, ValidateField(FieldEmail, "not-an-email"))
	assert.NotEmpty(t, ValidateField(FieldEmail, "a@b"))
}

func TestPhoneStripsNonDigits(t *testing.T) {
	assert.Equal(t, "Phone number is required", ValidateField(FieldPhone, ""))
	assert.Empty(t, ValidateField(FieldPhone, "7997043399"))
	assert.Empty(t, ValidateField(FieldPhone, "(799) 704-3399"))
	// Country code pushes the digit count past ten.
	assert.NotEmpty(t, ValidateField(FieldPhone, "+91 79970 43399"))
	assert.NotEmpty(t, ValidateField(FieldPhone, "12345"))
}

func TestDateOfBirthAgeBoundaries(t *testing.T) {
	// Birthday tomorrow: still 2 years old.
	assert.Equal(t, "Student must be at least 3 years old",
		ValidateFieldAt(FieldDateOfBirth, "2021-06-16", refDate))
	// Birthday today: 3 exactly.
	assert.Empty(t, ValidateFieldAt(FieldDateOfBirth, "2021-06-15", refDate))
	assert.Empty(t, ValidateFieldAt(FieldDateOfBirth, "2006-06-15", refDate))
	assert.Equal(t, "Student must be under 18 years old",
		ValidateFieldAt(FieldDateOfBirth, "2005-06-14", refDate))
	assert.Equal(t, "Date of birth is required", ValidateFieldAt(FieldDateOfBirth, "", refDate))
	assert.Equal(t, "Please enter a valid date of birth", ValidateFieldAt(FieldDateOfBirth, "15/06/2021", refDate))
}

func TestAgeAtMonthDayHandling(t *testing.T) {
	dob := time.Date(2010, 9, 20, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 13, AgeAt(dob, refDate))
	assert.Equal(t, 14, AgeAt(dob, time.Date(2024, 9, 20, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 13, AgeAt(dob, time.Date(2024, 9, 19, 0, 0, 0, 0, time.UTC)))
}

func TestSelectFields(t *testing.T) {
	assert.Equal(t, "Please select a gender", ValidateField(FieldGender, ""))
	assert.Equal(t, "Please select a valid gender", ValidateField(FieldGender, "Other"))
	assert.Empty(t, ValidateField(FieldGender, "Male"))

	assert.Equal(t, "Please select a grade", ValidateField(FieldGrade, ""))
	assert.Equal(t, "Please select a valid grade", ValidateField(FieldGrade, "Grade 11"))
	assert.Empty(t, ValidateField(FieldGrade, "Nursery"))
	assert.Empty(t, ValidateField(FieldGrade, "Grade 10"))
}

func TestAddressOptionalMinimum(t *testing.T) {
	assert.Empty(t, ValidateField(FieldAddress, ""))
	assert.NotEmpty(t, ValidateField(FieldAddress, "short"))
	assert.Empty(t, ValidateField(FieldAddress, "12 Jubilee Hills, Hyderabad"))
}

func TestValidateFormAggregates(t *testing.T) {
	form := validForm()
	form.StudentName = "Jo"
	form.Phone = "12345"

	errs := ValidateFormAt(form, refDate)
	assert.Len(t, errs, 2)
	assert.Contains(t, errs, FieldStudentName)
	assert.Contains(t, errs, FieldPhone)
}

func TestValidateFormEmptyOnValidSnapshot(t *testing.T) {
	errs := ValidateFormAt(validForm(), refDate)
	assert.Empty(t, errs)
}

func TestValidateFormIdempotent(t *testing.T) {
	form := validForm()
	form.Email = "bad"
	first := ValidateFormAt(form, refDate)
	second := ValidateFormAt(form, refDate)
	assert.Equal(t, first, second)
}
