// Package student contains the HTTP handlers of the database-backed
// app's Student resource: list, add and edit forms with their POST
// actions, delete, the home page, and the read-only JSON API.
//
// Handlers are factories (closures over the storage interface): the
// outer function runs once at route registration, the returned func on
// every request. The handlers never touch SQLite directly.
package student

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

// Home handles GET /: entity counts and navigation.
func Home(store storage.Storage, views *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		students, courses, grades, err := store.Counts()
		if err != nil {
			slog.Error("error counting records", slog.String("error", err.Error()))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		views.Render(w, "db_index.html", view.Data{
			"Students": students,
			"Courses":  courses,
			"Grades":   grades,
		})
	}
}

// List handles GET /students.
func List(store storage.Storage, views *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		students, err := store.GetStudents()
		if err != nil {
			slog.Error("error getting students", slog.String("error", err.Error()))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		views.Render(w, "db_students.html", view.Data{
			"Students": students,
			"Flash":    flash.Take(w, r),
		})
	}
}

// AddForm handles GET /students/add.
func AddForm(views *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views.Render(w, "db_add_student.html", view.Data{
			"Flash": flash.Take(w, r),
		})
	}
}

// Add handles POST /students/add.
//
// Presence-only validation; semester must parse as an integer. No
// uniqueness pre-check is done here — a duplicate email comes back as
// a constraint error from the store, which is shown as a notice while
// still redirecting.
func Add(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form data", http.StatusBadRequest)
			return
		}

		student, ok := studentFromForm(w, r, "/students/add")
		if !ok {
			return
		}

		lastID, err := store.CreateStudent(student)
		if err != nil {
			slog.Error("error creating student", slog.String("error", err.Error()))
			flash.Set(w, "could not add student: "+err.Error())
			http.Redirect(w, r, "/students/add", http.StatusSeeOther)
			return
		}

		slog.Info("student created", slog.Int64("id", lastID))
		http.Redirect(w, r, "/students", http.StatusSeeOther)
	}
}

// EditForm handles GET /students/edit/{id}. Unknown ids get a 404.
func EditForm(store storage.Storage, views *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		student, err := store.GetStudentByID(id)
		if errors.Is(err, storage.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			slog.Error("error getting student", slog.String("error", err.Error()))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		views.Render(w, "db_edit_student.html", view.Data{
			"Student": student,
			"Flash":   flash.Take(w, r),
		})
	}
}

// Edit handles POST /students/edit/{id}. The enrollment date and id
// are immutable; everything submitted by the form is replaced.
func Edit(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		slog.Info("updating a student", slog.Int64("id", id))

		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form data", http.StatusBadRequest)
			return
		}

		formPath := "/students/edit/" + strconv.FormatInt(id, 10)
		student, ok := studentFromForm(w, r, formPath)
		if !ok {
			return
		}

		_, err = store.UpdateStudentByID(id, student)
		if errors.Is(err, storage.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			slog.Error("error updating student",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			flash.Set(w, "could not update student: "+err.Error())
			http.Redirect(w, r, formPath, http.StatusSeeOther)
			return
		}

		slog.Info("student updated", slog.Int64("id", id))
		http.Redirect(w, r, "/students", http.StatusSeeOther)
	}
}

// Delete handles GET /students/delete/{id}. Grades referencing the
// student are removed by the store's cascade. Unknown ids get a 404.
func Delete(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		slog.Info("deleting a student", slog.Int64("id", id))

		err = store.DeleteStudentByID(id)
		if errors.Is(err, storage.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			slog.Error("error deleting student",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			flash.Set(w, "could not delete student: "+err.Error())
		}

		http.Redirect(w, r, "/students", http.StatusFound)
	}
}

// API handles GET /api/students: the full student list as a bare JSON
// array.
func API(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		students, err := store.GetStudents()
		if err != nil {
			slog.Error("error getting students", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// studentFromForm reads and validates the shared add/edit form fields.
// On a validation failure it sets the flash notice, redirects back to
// formPath, and reports ok=false; the caller just returns.
func studentFromForm(w http.ResponseWriter, r *http.Request, formPath string) (types.Student, bool) {
	semester, err := strconv.Atoi(r.PostFormValue("semester"))
	if err != nil {
		flash.Set(w, "field Semester must be a number")
		http.Redirect(w, r, formPath, http.StatusSeeOther)
		return types.Student{}, false
	}

	student := types.Student{
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Phone:    r.PostFormValue("phone"),
		Course:   r.PostFormValue("course"),
		Semester: semester,
	}

	if err := validator.New().Struct(student); err != nil {
		validateErrs := err.(validator.ValidationErrors)
		flash.Set(w, response.ValidationMessage(validateErrs))
		http.Redirect(w, r, formPath, http.StatusSeeOther)
		return types.Student{}, false
	}

	return student, true
}
