package student

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/rsinghal-dev/student-records/internal/config"
	"github.com/rsinghal-dev/student-records/internal/storage/sqlite"
	"github.com/rsinghal-dev/student-records/internal/types"
	"github.com/rsinghal-dev/student-records/internal/web/view"
)

// newApp wires the student routes the way the students-db binary does,
// over a SQLite database in a temp dir.
func newApp(t *testing.T) (*http.ServeMux, *sqlite.SQLite) {
	t.Helper()

	cfg := &config.Config{
		Env:         "dev",
		StoragePath: filepath.Join(t.TempDir(), "students.db"),
	}
	store, err := sqlite.New(cfg)
	if err != nil {
		t.Fatalf("sqlite.New: %v", err)
	}
	t.Cleanup(func() { store.Db.Close() })

	views, err := view.New()
	if err != nil {
		t.Fatalf("view.New: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", Home(store, views))
	mux.HandleFunc("GET /students", List(store, views))
	mux.HandleFunc("GET /students/add", AddForm(views))
	mux.HandleFunc("POST /students/add", Add(store))
	mux.HandleFunc("GET /students/edit/{id}", EditForm(store, views))
	mux.HandleFunc("POST /students/edit/{id}", Edit(store))
	mux.HandleFunc("GET /students/delete/{id}", Delete(store))
	mux.HandleFunc("GET /api/students", API(store))

	return mux, store
}

func get(t *testing.T, mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func postForm(t *testing.T, mux *http.ServeMux, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func studentForm(name, email string) url.Values {
	return url.Values{
		"name":     {name},
		"email":    {email},
		"phone":    {"12345"},
		"course":   {"Physics"},
		"semester": {"3"},
	}
}

func hasFlash(rec *httptest.ResponseRecorder) bool {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "flash" && c.Value != "" {
			return true
		}
	}
	return false
}

func wantRedirect(t *testing.T, rec *httptest.ResponseRecorder, status int, location string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, status, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != location {
		t.Fatalf("Location = %q, want %q", got, location)
	}
}

func TestAddStudent(t *testing.T) {
	mux, store := newApp(t)

	rec := postForm(t, mux, "/students/add", studentForm("Asha", "asha@test.com"))
	wantRedirect(t, rec, http.StatusSeeOther, "/students")

	students, err := store.GetStudents()
	if err != nil {
		t.Fatalf("GetStudents: %v", err)
	}
	if len(students) != 1 {
		t.Fatalf("got %d students, want 1", len(students))
	}
	if students[0].Name != "Asha" || students[0].Semester != 3 {
		t.Fatalf("unexpected student: %+v", students[0])
	}
	if students[0].ID < 1 {
		t.Errorf("id not assigned: %+v", students[0])
	}
}

func TestAddStudentMissingFieldPersistsNothing(t *testing.T) {
	mux, store := newApp(t)

	form := studentForm("Asha", "asha@test.com")
	form.Set("phone", "")

	rec := postForm(t, mux, "/students/add", form)
	wantRedirect(t, rec, http.StatusSeeOther, "/students/add")
	if !hasFlash(rec) {
		t.Error("no flash notice on validation failure")
	}

	students, _ := store.GetStudents()
	if len(students) != 0 {
		t.Fatalf("store changed on failed add: %+v", students)
	}
}

func TestAddStudentSemesterMustBeInteger(t *testing.T) {
	mux, store := newApp(t)

	form := studentForm("Asha", "asha@test.com")
	form.Set("semester", "three")

	rec := postForm(t, mux, "/students/add", form)
	wantRedirect(t, rec, http.StatusSeeOther, "/students/add")
	if !hasFlash(rec) {
		t.Error("no flash notice on non-integer semester")
	}

	students, _ := store.GetStudents()
	if len(students) != 0 {
		t.Fatalf("store changed on failed add: %+v", students)
	}
}

func TestAddStudentDuplicateEmailRedirectsWithNotice(t *testing.T) {
	mux, store := newApp(t)

	postForm(t, mux, "/students/add", studentForm("Asha", "same@test.com"))

	rec := postForm(t, mux, "/students/add", studentForm("Ravi", "same@test.com"))
	wantRedirect(t, rec, http.StatusSeeOther, "/students/add")
	if !hasFlash(rec) {
		t.Error("no flash notice on constraint violation")
	}

	students, _ := store.GetStudents()
	if len(students) != 1 {
		t.Fatalf("got %d students after failed insert, want 1", len(students))
	}
}

func TestEditStudent(t *testing.T) {
	mux, store := newApp(t)

	postForm(t, mux, "/students/add", studentForm("Asha", "asha@test.com"))
	seeded, _ := store.GetStudents()
	id := seeded[0].ID

	form := studentForm("Asha K", "asha.k@test.com")
	form.Set("semester", "4")
	rec := postForm(t, mux, "/students/edit/"+itoa(id), form)
	wantRedirect(t, rec, http.StatusSeeOther, "/students")

	student, err := store.GetStudentByID(id)
	if err != nil {
		t.Fatalf("GetStudentByID: %v", err)
	}
	if student.Name != "Asha K" || student.Semester != 4 {
		t.Fatalf("edit not applied: %+v", student)
	}
	if student.EnrollmentDate != seeded[0].EnrollmentDate {
		t.Errorf("enrollment date changed on edit: %q -> %q",
			seeded[0].EnrollmentDate, student.EnrollmentDate)
	}
}

func TestEditUnknownStudentIs404(t *testing.T) {
	mux, _ := newApp(t)

	if rec := get(t, mux, "/students/edit/42"); rec.Code != http.StatusNotFound {
		t.Errorf("GET edit form status = %d, want 404", rec.Code)
	}
	if rec := postForm(t, mux, "/students/edit/42", studentForm("x", "x@t.com")); rec.Code != http.StatusNotFound {
		t.Errorf("POST edit status = %d, want 404", rec.Code)
	}
}

func TestDeleteStudent(t *testing.T) {
	mux, store := newApp(t)

	postForm(t, mux, "/students/add", studentForm("Asha", "asha@test.com"))
	seeded, _ := store.GetStudents()
	id := seeded[0].ID

	rec := get(t, mux, "/students/delete/"+itoa(id))
	wantRedirect(t, rec, http.StatusFound, "/students")

	// Deleting the same id again is a 404, with nothing else affected.
	if rec := get(t, mux, "/students/delete/"+itoa(id)); rec.Code != http.StatusNotFound {
		t.Errorf("repeat delete status = %d, want 404", rec.Code)
	}

	students, _ := store.GetStudents()
	if len(students) != 0 {
		t.Fatalf("unexpected store after delete: %+v", students)
	}
}

func TestHomeShowsCounts(t *testing.T) {
	mux, _ := newApp(t)

	postForm(t, mux, "/students/add", studentForm("Asha", "asha@test.com"))

	body := get(t, mux, "/").Body.String()
	if !strings.Contains(body, "Students: 1") {
		t.Errorf("home page counts wrong:\n%s", body)
	}
}

func TestAPIListsStudents(t *testing.T) {
	mux, _ := newApp(t)

	postForm(t, mux, "/students/add", studentForm("Asha", "asha@test.com"))

	first := get(t, mux, "/api/students")
	if first.Code != http.StatusOK {
		t.Fatalf("API status = %d", first.Code)
	}

	var students []types.Student
	if err := json.Unmarshal(first.Body.Bytes(), &students); err != nil {
		t.Fatalf("decode API response: %v", err)
	}
	if len(students) != 1 || students[0].Semester != 3 {
		t.Fatalf("API response wrong: %+v", students)
	}

	// Repeated GETs with no mutation in between answer identically.
	second := get(t, mux, "/api/students")
	if first.Body.String() != second.Body.String() {
		t.Errorf("API responses differ:\n%s\n%s", first.Body, second.Body)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
