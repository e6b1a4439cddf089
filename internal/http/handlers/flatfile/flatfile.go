// Package flatfile contains the HTTP handlers of the file-backed
// student app. Every handler follows the same shape: load the full
// student list from the JSON store, validate the submitted form fields,
// apply the mutation, save the whole list back, redirect.
//
// Handlers are factories (closures over their dependencies): the outer
// function runs once at route registration, the returned func on every
// request.
package flatfile

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rsinghal-dev/student-records/internal/storage"
	"github.com/rsinghal-dev/student-records/internal/storage/jsonfile"
	"github.com/rsinghal-dev/student-records/internal/types"
	"github.com/rsinghal-dev/student-records/internal/utils/flash"
	"github.com/rsinghal-dev/student-records/internal/utils/response"
	"github.com/rsinghal-dev/student-records/internal/web/view"
)

// editForm mirrors the fields of the edit page. Unlike creation, the
// edit form submits a status, and presence of every field is required.
type editForm struct {
	Name   string `validate:"required"`
	Email  string `validate:"required"`
	Phone  string `validate:"required"`
	Course string `validate:"required"`
	Status string `validate:"required"`
}

// Dashboard handles GET /.
//
// The counters are recomputed from the full list on every request:
// total is the list length, active counts records whose status is
// "active" — with the default applied when a record predates the
// status field and has none.
func Dashboard(store *jsonfile.Store, views *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		students, err := store.Load()
		if err != nil {
			serverError(w, "loading students", err)
			return
		}

		active := 0
		for _, s := range students {
			if s.Status == types.StatusActive || s.Status == "" {
				active++
			}
		}

		views.Render(w, "index.html", view.Data{
			"Students": students,
			"Total":    len(students),
			"Active":   active,
		})
	}
}

// List handles GET /students.
func List(store *jsonfile.Store, views *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		students, err := store.Load()
		if err != nil {
			serverError(w, "loading students", err)
			return
		}

		views.Render(w, "students.html", view.Data{
			"Students": students,
			"Flash":    flash.Take(w, r),
		})
	}
}

// AddForm handles GET /add_student.
func AddForm(views *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views.Render(w, "add_student.html", view.Data{
			"Flash": flash.Take(w, r),
		})
	}
}

// Add handles POST /add_student.
//
// Validation is presence-only. On failure nothing is persisted and the
// client is sent back to the form with a notice. On success the new
// record gets id len+1, today's enrollment date, and status "active".
//
// The len+1 id scheme is the store's historical behavior: after a
// delete, a later add can reuse an existing id. Kept as-is; see
// DESIGN.md before changing it.
func Add(store *jsonfile.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("adding a student")

		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form data", http.StatusBadRequest)
			return
		}

		student := types.Student{
			Name:   r.PostFormValue("name"),
			Email:  r.PostFormValue("email"),
			Phone:  r.PostFormValue("phone"),
			Course: r.PostFormValue("course"),
		}

		if err := validator.New().Struct(student); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			flash.Set(w, response.ValidationMessage(validateErrs))
			http.Redirect(w, r, "/add_student", http.StatusSeeOther)
			return
		}

		err := store.Update(func(students []types.Student) ([]types.Student, error) {
			student.ID = int64(len(students) + 1)
			student.EnrollmentDate = time.Now().Format("2006-01-02")
			student.Status = types.StatusActive
			return append(students, student), nil
		})
		if err != nil {
			serverError(w, "saving student", err)
			return
		}

		slog.Info("student added", slog.Int64("id", student.ID))
		http.Redirect(w, r, "/students", http.StatusSeeOther)
	}
}

// EditForm handles GET /edit_student/{id}. Unknown ids get a 404.
func EditForm(store *jsonfile.Store, views *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		students, err := store.Load()
		if err != nil {
			serverError(w, "loading students", err)
			return
		}

		for _, s := range students {
			if s.ID == id {
				views.Render(w, "edit_student.html", view.Data{
					"Student": s,
					"Flash":   flash.Take(w, r),
				})
				return
			}
		}

		http.NotFound(w, r)
	}
}

// Edit handles POST /edit_student/{id}.
//
// Only name, email, phone, course, and status are replaced; the id and
// enrollment date of the stored record are immutable.
func Edit(store *jsonfile.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		slog.Info("editing a student", slog.Int64("id", id))

		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form data", http.StatusBadRequest)
			return
		}

		form := editForm{
			Name:   r.PostFormValue("name"),
			Email:  r.PostFormValue("email"),
			Phone:  r.PostFormValue("phone"),
			Course: r.PostFormValue("course"),
			Status: r.PostFormValue("status"),
		}

		if err := validator.New().Struct(form); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			flash.Set(w, response.ValidationMessage(validateErrs))
			http.Redirect(w, r, "/edit_student/"+strconv.FormatInt(id, 10),
				http.StatusSeeOther)
			return
		}

		err = store.Update(func(students []types.Student) ([]types.Student, error) {
			for i := range students {
				if students[i].ID == id {
					students[i].Name = form.Name
					students[i].Email = form.Email
					students[i].Phone = form.Phone
					students[i].Course = form.Course
					students[i].Status = form.Status
					return students, nil
				}
			}
			return nil, storage.ErrNotFound
		})
		if errors.Is(err, storage.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			serverError(w, "saving student", err)
			return
		}

		slog.Info("student updated", slog.Int64("id", id))
		http.Redirect(w, r, "/students", http.StatusSeeOther)
	}
}

// Delete handles GET /delete_student/{id}.
//
// Deleting filters the record out of the full list and rewrites the
// store. An unknown id is a silent no-op: the filter matches nothing
// and the client is redirected all the same.
func Delete(store *jsonfile.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		slog.Info("deleting a student", slog.Int64("id", id))

		err = store.Update(func(students []types.Student) ([]types.Student, error) {
			kept := make([]types.Student, 0, len(students))
			for _, s := range students {
				if s.ID != id {
					kept = append(kept, s)
				}
			}
			return kept, nil
		})
		if err != nil {
			serverError(w, "saving students", err)
			return
		}

		http.Redirect(w, r, "/students", http.StatusFound)
	}
}

// API handles GET /api/students: the full student list as a bare JSON
// array.
func API(store *jsonfile.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		students, err := store.Load()
		if err != nil {
			slog.Error("error loading students", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// serverError is the file store's failure path: filesystem errors are
// not translated into notices, they fail the request outright.
func serverError(w http.ResponseWriter, op string, err error) {
	slog.Error("error "+op, slog.String("error", err.Error()))
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
