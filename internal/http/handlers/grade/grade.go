// Package grade contains the HTTP handlers of the Grade resource.
//
// The add flow is the only joined flow in the app: the form is
// populated from the full student and course lists, and the submitted
// ids are inserted as-is — the store's foreign keys decide whether the
// references are valid.
package grade

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/rsinghal-dev/student-records/internal/storage"
	"github.com/rsinghal-dev/student-records/internal/types"
	"github.com/rsinghal-dev/student-records/internal/utils/flash"
	"github.com/rsinghal-dev/student-records/internal/utils/response"
	"github.com/rsinghal-dev/student-records/internal/web/view"
)

// List handles GET /grades.
func List(store storage.Storage, views *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		grades, err := store.GetGrades()
		if err != nil {
			slog.Error("error getting grades", slog.String("error", err.Error()))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		views.Render(w, "grades.html", view.Data{
			"Grades": grades,
			"Flash":  flash.Take(w, r),
		})
	}
}

// AddForm handles GET /grades/add. The selection form needs the full
// student and course lists.
func AddForm(store storage.Storage, views *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		students, err := store.GetStudents()
		if err != nil {
			slog.Error("error getting students", slog.String("error", err.Error()))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		courses, err := store.GetCourses()
		if err != nil {
			slog.Error("error getting courses", slog.String("error", err.Error()))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		views.Render(w, "add_grade.html", view.Data{
			"Students": students,
			"Courses":  courses,
			"Flash":    flash.Take(w, r),
		})
	}
}

// Add handles POST /grades/add. student_id, course_id, and semester
// must parse as integers, the grade must be present. A dangling
// student or course reference is rejected by the store's foreign keys
// and shown as a notice.
func Add(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a grade")

		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form data", http.StatusBadRequest)
			return
		}

		studentID, err := strconv.ParseInt(r.PostFormValue("student_id"), 10, 64)
		if err != nil {
			flash.Set(w, "field Student is required")
			http.Redirect(w, r, "/grades/add", http.StatusSeeOther)
			return
		}

		courseID, err := strconv.ParseInt(r.PostFormValue("course_id"), 10, 64)
		if err != nil {
			flash.Set(w, "field Course is required")
			http.Redirect(w, r, "/grades/add", http.StatusSeeOther)
			return
		}

		semester, err := strconv.Atoi(r.PostFormValue("semester"))
		if err != nil {
			flash.Set(w, "field Semester must be a number")
			http.Redirect(w, r, "/grades/add", http.StatusSeeOther)
			return
		}

		grade := types.Grade{
			StudentID: studentID,
			CourseID:  courseID,
			Grade:     r.PostFormValue("grade"),
			Semester:  semester,
		}

		if err := validator.New().Struct(grade); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			flash.Set(w, response.ValidationMessage(validateErrs))
			http.Redirect(w, r, "/grades/add", http.StatusSeeOther)
			return
		}

		lastID, err := store.CreateGrade(grade)
		if err != nil {
			slog.Error("error creating grade", slog.String("error", err.Error()))
			flash.Set(w, "could not add grade: "+err.Error())
			http.Redirect(w, r, "/grades/add", http.StatusSeeOther)
			return
		}

		slog.Info("grade created", slog.Int64("id", lastID))
		http.Redirect(w, r, "/grades", http.StatusSeeOther)
	}
}

// Delete handles GET /grades/delete/{id}. Unknown ids get a 404.
func Delete(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		slog.Info("deleting a grade", slog.Int64("id", id))

		err = store.DeleteGradeByID(id)
		if errors.Is(err, storage.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			slog.Error("error deleting grade",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			flash.Set(w, "could not delete grade: "+err.Error())
		}

		http.Redirect(w, r, "/grades", http.StatusFound)
	}
}
