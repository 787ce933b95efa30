package models

import "time"

// AdmissionStatus tracks where an application sits in the review pipeline.
type AdmissionStatus string

const (
	AdmissionStatusPending  AdmissionStatus = "pending"
	AdmissionStatusReviewed AdmissionStatus = "reviewed"
)

// AdmissionsPageSize is the fixed page size of the back-office grid.
const AdmissionsPageSize = 10

// Admission represents a submitted application document.
type Admission struct {
	ID          string          `bson:"_id" json:"id"`
	StudentName string          `bson:"student_name" json:"student_name"`
	Email       string          `bson:"email,omitempty" json:"email,omitempty"`
	Phone       string          `bson:"phone" json:"phone"`
	DateOfBirth string          `bson:"dob" json:"dob"`
	Gender      string          `bson:"gender" json:"gender"`
	Grade       string          `bson:"grade" json:"grade"`
	Address     string          `bson:"address,omitempty" json:"address,omitempty"`
	Status      AdmissionStatus `bson:"status" json:"status"`
	CreatedAt   time.Time       `bson:"created_at" json:"created_at"`

	// SubmittedOn is the dd/mm/yyyy rendering of CreatedAt, filled in at the
	// gateway so screens never see the store's native timestamp.
	SubmittedOn string `bson:"-" json:"submitted_on"`
}

// AdmissionForm carries the raw intake fields exactly as entered.
type AdmissionForm struct {
	StudentName string `json:"studentName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dob"`
	Gender      string `json:"gender"`
	Grade       string `json:"grade"`
	Address     string `json:"address"`
}

// ValidStatus reports whether s is an allowed admission status.
func ValidStatus(s AdmissionStatus) bool {
	return s == AdmissionStatusPending || s == AdmissionStatusReviewed
}

// Genders are the accepted values for the intake gender select.
var Genders = []string{"Male", "Female"}

// Grades are the accepted values for the intake grade select.
var Grades = []string{
	"Nursery", "LKG", "UKG",
	"Grade 1", "Grade 2", "Grade 3", "Grade 4", "Grade 5",
	"Grade 6", "Grade 7", "Grade 8", "Grade 9", "Grade 10",
}
