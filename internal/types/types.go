// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage, and utils can all import types without depending
// on each other.
package types

// Student is a student record. Both variants of the app share this
// shape: the file-backed app fills Status and leaves Semester zero, the
// database-backed app fills Semester and leaves Status empty. The
// omitempty tags keep the unused field out of the JSON API output.
//
// The validate tags are presence-only checks run by
// go-playground/validator; there is no format validation.
type Student struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"   validate:"required"`
	Email          string `json:"email"  validate:"required"`
	Phone          string `json:"phone"  validate:"required"`
	Course         string `json:"course" validate:"required"`
	Semester       int    `json:"semester,omitempty"`
	EnrollmentDate string `json:"enrollment_date"`
	Status         string `json:"status,omitempty"`
}

// StatusActive is the status assigned to every newly created student.
// Any other string is accepted on edit; only this exact value counts
// toward the dashboard's active counter.
const StatusActive = "active"

// Course is a course offering (database-backed app only).
type Course struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"       validate:"required"`
	Code       string `json:"code"       validate:"required"`
	Credits    int    `json:"credits"`
	Instructor string `json:"instructor" validate:"required"`
}

// Grade links a student to a course with a letter grade. StudentID and
// CourseID must reference existing rows; the database enforces that,
// the application does not check beforehand.
type Grade struct {
	ID        int64  `json:"id"`
	StudentID int64  `json:"student_id"`
	CourseID  int64  `json:"course_id"`
	Grade     string `json:"grade" validate:"required"`
	Semester  int    `json:"semester"`
	CreatedAt string `json:"created_at"`
}

// GradeRow is a Grade joined with the names of its student and course,
// used by the grades list page.
type GradeRow struct {
	Grade
	StudentName string `json:"student_name"`
	CourseName  string `json:"course_name"`
}
