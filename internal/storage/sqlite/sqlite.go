// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// SQLite stores everything in a single file on disk — no network, no
// separate server process, nothing to install beyond the driver. The
// blank import below registers the sqlite3 driver with database/sql via
// the driver package's init().
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rsinghal-dev/student-records/internal/config"
	"github.com/rsinghal-dev/student-records/internal/storage"
	"github.com/rsinghal-dev/student-records/internal/types"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage. It holds a
// *sql.DB, which is a connection pool and safe for concurrent use.
type SQLite struct {
	Db *sql.DB
}

// schema is idempotent and runs on every startup.
//
// Uniqueness of student emails and course codes lives here, as do the
// foreign keys with ON DELETE CASCADE: removing a student or a course
// removes its grade rows without any application-side bookkeeping.
const schema = `
CREATE TABLE IF NOT EXISTS students (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	name            TEXT    NOT NULL,
	email           TEXT    NOT NULL UNIQUE,
	phone           TEXT    NOT NULL,
	course          TEXT    NOT NULL,
	semester        INTEGER NOT NULL,
	enrollment_date TEXT    NOT NULL
);

CREATE TABLE IF NOT EXISTS courses (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT    NOT NULL,
	code       TEXT    NOT NULL UNIQUE,
	credits    INTEGER NOT NULL,
	instructor TEXT    NOT NULL
);

CREATE TABLE IF NOT EXISTS grades (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	student_id INTEGER NOT NULL REFERENCES students(id) ON DELETE CASCADE,
	course_id  INTEGER NOT NULL REFERENCES courses(id)  ON DELETE CASCADE,
	grade      TEXT    NOT NULL,
	semester   INTEGER NOT NULL,
	created_at TEXT    NOT NULL
);
`

// New opens the SQLite database at cfg.StoragePath, creates the tables
// if they do not exist yet, and returns a ready-to-use *SQLite.
//
// _foreign_keys=on in the DSN enables foreign-key enforcement on every
// connection in the pool; SQLite leaves it off by default.
func New(cfg *config.Config) (*SQLite, error) {
	db, err := sql.Open("sqlite3", cfg.StoragePath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("sqlite.New: create tables: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// CreateStudent inserts a new student row and returns the generated id.
// The enrollment date is stamped here; it never changes afterwards.
// A duplicate email surfaces as a constraint error from the driver.
func (s *SQLite) CreateStudent(student types.Student) (int64, error) {
	stmt, err := s.Db.Prepare(`
		INSERT INTO students (name, email, phone, course, semester, enrollment_date)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(
		student.Name,
		student.Email,
		student.Phone,
		student.Course,
		student.Semester,
		time.Now().Format("2006-01-02"),
	)
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: last insert id: %w", err)
	}

	return lastID, nil
}

// GetStudentByID fetches exactly one student row by primary key, or
// storage.ErrNotFound when nothing matches.
func (s *SQLite) GetStudentByID(id int64) (types.Student, error) {
	stmt, err := s.Db.Prepare(`
		SELECT id, name, email, phone, course, semester, enrollment_date
		FROM students WHERE id = ? LIMIT 1`)
	if err != nil {
		return types.Student{}, fmt.Errorf("GetStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	var student types.Student
	err = stmt.QueryRow(id).Scan(
		&student.ID,
		&student.Name,
		&student.Email,
		&student.Phone,
		&student.Course,
		&student.Semester,
		&student.EnrollmentDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, storage.ErrNotFound
		}
		return types.Student{}, fmt.Errorf("GetStudentByID: scan: %w", err)
	}

	return student, nil
}

// GetStudents returns all student rows, newest enrollment first.
func (s *SQLite) GetStudents() ([]types.Student, error) {
	rows, err := s.Db.Query(`
		SELECT id, name, email, phone, course, semester, enrollment_date
		FROM students ORDER BY enrollment_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("GetStudents: query: %w", err)
	}
	defer rows.Close()

	// Non-nil empty slice: the API endpoint should answer [] rather
	// than null when there are no students.
	students := make([]types.Student, 0)

	for rows.Next() {
		var student types.Student
		if err := rows.Scan(
			&student.ID,
			&student.Name,
			&student.Email,
			&student.Phone,
			&student.Course,
			&student.Semester,
			&student.EnrollmentDate,
		); err != nil {
			return nil, fmt.Errorf("GetStudents: scan row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetStudents: rows iteration: %w", err)
	}

	return students, nil
}

// UpdateStudentByID replaces a student's mutable fields. The enrollment
// date column is deliberately not in the SET list. Returns the stored
// record, or storage.ErrNotFound when the id does not exist.
func (s *SQLite) UpdateStudentByID(id int64, student types.Student) (types.Student, error) {
	stmt, err := s.Db.Prepare(`
		UPDATE students SET name = ?, email = ?, phone = ?, course = ?, semester = ?
		WHERE id = ?`)
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(
		student.Name,
		student.Email,
		student.Phone,
		student.Course,
		student.Semester,
		id,
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: exec: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: rows affected: %w", err)
	}
	if affected == 0 {
		return types.Student{}, storage.ErrNotFound
	}

	// Re-fetch so the caller gets exactly what is stored.
	return s.GetStudentByID(id)
}

// DeleteStudentByID removes a student row; the grades foreign key
// cascades, so every grade referencing the student goes with it.
func (s *SQLite) DeleteStudentByID(id int64) error {
	result, err := s.Db.Exec("DELETE FROM students WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: exec: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// CreateCourse inserts a new course row and returns the generated id.
// A duplicate code surfaces as a constraint error from the driver.
func (s *SQLite) CreateCourse(course types.Course) (int64, error) {
	stmt, err := s.Db.Prepare(`
		INSERT INTO courses (name, code, credits, instructor)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("CreateCourse: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(course.Name, course.Code, course.Credits, course.Instructor)
	if err != nil {
		return 0, fmt.Errorf("CreateCourse: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreateCourse: last insert id: %w", err)
	}

	return lastID, nil
}

// GetCourses returns all course rows.
func (s *SQLite) GetCourses() ([]types.Course, error) {
	rows, err := s.Db.Query(
		"SELECT id, name, code, credits, instructor FROM courses ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("GetCourses: query: %w", err)
	}
	defer rows.Close()

	courses := make([]types.Course, 0)

	for rows.Next() {
		var course types.Course
		if err := rows.Scan(
			&course.ID,
			&course.Name,
			&course.Code,
			&course.Credits,
			&course.Instructor,
		); err != nil {
			return nil, fmt.Errorf("GetCourses: scan row: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetCourses: rows iteration: %w", err)
	}

	return courses, nil
}

// DeleteCourseByID removes a course row and, by cascade, its grades.
func (s *SQLite) DeleteCourseByID(id int64) error {
	result, err := s.Db.Exec("DELETE FROM courses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("DeleteCourseByID: exec: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeleteCourseByID: rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// CreateGrade inserts a grade row. The foreign keys reject ids that do
// not reference an existing student and course; no pre-check is done
// here.
func (s *SQLite) CreateGrade(grade types.Grade) (int64, error) {
	stmt, err := s.Db.Prepare(`
		INSERT INTO grades (student_id, course_id, grade, semester, created_at)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("CreateGrade: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(
		grade.StudentID,
		grade.CourseID,
		grade.Grade,
		grade.Semester,
		time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("CreateGrade: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreateGrade: last insert id: %w", err)
	}

	return lastID, nil
}

// GetGrades returns all grade rows joined with student and course
// names, newest first.
func (s *SQLite) GetGrades() ([]types.GradeRow, error) {
	rows, err := s.Db.Query(`
		SELECT g.id, g.student_id, g.course_id, g.grade, g.semester, g.created_at,
		       s.name, c.name
		FROM grades g
		JOIN students s ON s.id = g.student_id
		JOIN courses  c ON c.id = g.course_id
		ORDER BY g.created_at DESC, g.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("GetGrades: query: %w", err)
	}
	defer rows.Close()

	grades := make([]types.GradeRow, 0)

	for rows.Next() {
		var row types.GradeRow
		if err := rows.Scan(
			&row.ID,
			&row.StudentID,
			&row.CourseID,
			&row.Grade.Grade,
			&row.Semester,
			&row.CreatedAt,
			&row.StudentName,
			&row.CourseName,
		); err != nil {
			return nil, fmt.Errorf("GetGrades: scan row: %w", err)
		}
		grades = append(grades, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetGrades: rows iteration: %w", err)
	}

	return grades, nil
}

// DeleteGradeByID removes a single grade row.
func (s *SQLite) DeleteGradeByID(id int64) error {
	result, err := s.Db.Exec("DELETE FROM grades WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("DeleteGradeByID: exec: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeleteGradeByID: rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// Counts returns the row counts of the three tables for the home page.
func (s *SQLite) Counts() (students, courses, grades int64, err error) {
	if err = s.Db.QueryRow("SELECT COUNT(*) FROM students").Scan(&students); err != nil {
		return 0, 0, 0, fmt.Errorf("Counts: students: %w", err)
	}
	if err = s.Db.QueryRow("SELECT COUNT(*) FROM courses").Scan(&courses); err != nil {
		return 0, 0, 0, fmt.Errorf("Counts: courses: %w", err)
	}
	if err = s.Db.QueryRow("SELECT COUNT(*) FROM grades").Scan(&grades); err != nil {
		return 0, 0, 0, fmt.Errorf("Counts: grades: %w", err)
	}
	return students, courses, grades, nil
}
