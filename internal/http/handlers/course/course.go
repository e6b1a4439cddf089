// Package course contains the HTTP handlers of the Course resource.
// Same shape as the student handlers: factory functions closing over
// the storage interface.
package course

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

// List handles GET /courses.
func List(store storage.Storage, views *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courses, err := store.GetCourses()
		if err != nil {
			slog.Error("error getting courses", slog.String("error", err.Error()))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		views.Render(w, "courses.html", view.Data{
			"Courses": courses,
			"Flash":   flash.Take(w, r),
		})
	}
}

// AddForm handles GET /courses/add.
func AddForm(views *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views.Render(w, "add_course.html", view.Data{
			"Flash": flash.Take(w, r),
		})
	}
}

// Add handles POST /courses/add. Credits must parse as an integer; a
// duplicate course code surfaces as a store error shown as a notice.
func Add(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a course")

		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form data", http.StatusBadRequest)
			return
		}

		credits, err := strconv.Atoi(r.PostFormValue("credits"))
		if err != nil {
			flash.Set(w, "field Credits must be a number")
			http.Redirect(w, r, "/courses/add", http.StatusSeeOther)
			return
		}

		course := types.Course{
			Name:       r.PostFormValue("name"),
			Code:       r.PostFormValue("code"),
			Credits:    credits,
			Instructor: r.PostFormValue("instructor"),
		}

		if err := validator.New().Struct(course); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			flash.Set(w, response.ValidationMessage(validateErrs))
			http.Redirect(w, r, "/courses/add", http.StatusSeeOther)
			return
		}

		lastID, err := store.CreateCourse(course)
		if err != nil {
			slog.Error("error creating course", slog.String("error", err.Error()))
			flash.Set(w, "could not add course: "+err.Error())
			http.Redirect(w, r, "/courses/add", http.StatusSeeOther)
			return
		}

		slog.Info("course created", slog.Int64("id", lastID))
		http.Redirect(w, r, "/courses", http.StatusSeeOther)
	}
}

// Delete handles GET /courses/delete/{id}. Grades referencing the
// course are removed by the store's cascade. Unknown ids get a 404.
func Delete(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		slog.Info("deleting a course", slog.Int64("id", id))

		err = store.DeleteCourseByID(id)
		if errors.Is(err, storage.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			slog.Error("error deleting course",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			flash.Set(w, "could not delete course: "+err.Error())
		}

		http.Redirect(w, r, "/courses", http.StatusFound)
	}
}
