// Package storage defines the Storage interface — the contract the
// database backend of the database-backed app must satisfy.
//
// Handlers depend only on this interface, never on the concrete SQLite
// type: swapping the database means implementing the interface for the
// new backend and changing one line in main, and tests can pass a fake
// without a real database.
package storage

import (
	"errors"

	"github.com/rsinghal-dev/student-records/internal/types"
)

// ErrNotFound is returned by lookups when no record matches the given
// id. Handlers translate it into a 404 response.
var ErrNotFound = errors.New("record not found")

// Storage is the database contract for the student/course/grade schema.
// Uniqueness (student email, course code) and referential integrity are
// enforced by the implementation, not checked by callers — violations
// come back as ordinary errors.
type Storage interface {
	// CreateStudent inserts a new student and returns the generated id.
	CreateStudent(s types.Student) (int64, error)

	// GetStudentByID fetches one student by primary key, or ErrNotFound.
	GetStudentByID(id int64) (types.Student, error)

	// GetStudents returns every student, newest enrollment first.
	// Returns an empty slice (not nil) when there are none.
	GetStudents() ([]types.Student, error)

	// UpdateStudentByID replaces the mutable fields of an existing
	// student (enrollment date stays as created) and returns the stored
	// record, or ErrNotFound.
	UpdateStudentByID(id int64, s types.Student) (types.Student, error)

	// DeleteStudentByID removes a student and, by cascade, every grade
	// that references it. Returns ErrNotFound when the id is unknown.
	DeleteStudentByID(id int64) error

	// CreateCourse inserts a new course and returns the generated id.
	CreateCourse(c types.Course) (int64, error)

	// GetCourses returns every course.
	GetCourses() ([]types.Course, error)

	// DeleteCourseByID removes a course and, by cascade, every grade
	// that references it. Returns ErrNotFound when the id is unknown.
	DeleteCourseByID(id int64) error

	// CreateGrade inserts a grade row referencing an existing student
	// and course; a dangling reference fails with a constraint error.
	CreateGrade(g types.Grade) (int64, error)

	// GetGrades returns every grade joined with student and course
	// names, newest first.
	GetGrades() ([]types.GradeRow, error)

	// DeleteGradeByID removes a single grade row.
	DeleteGradeByID(id int64) error

	// Counts returns the number of students, courses, and grades, for
	// the home page.
	Counts() (students, courses, grades int64, err error)
}
