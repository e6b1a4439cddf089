package grade

import (
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
	mux.HandleFunc("GET /grades", List(store, views))
	mux.HandleFunc("GET /grades/add", AddForm(store, views))
	mux.HandleFunc("POST /grades/add", Add(store))
	mux.HandleFunc("GET /grades/delete/{id}", Delete(store))

	return mux, store
}

// seed inserts one student and one course directly through the store
// and returns their ids.
func seed(t *testing.T, store *sqlite.SQLite) (studentID, courseID int64) {
	t.Helper()

	studentID, err := store.CreateStudent(types.Student{
		Name: "Asha", Email: "asha@test.com", Phone: "1",
		Course: "Physics", Semester: 3,
	})
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}

	courseID, err = store.CreateCourse(types.Course{
		Name: "Mechanics", Code: "PHY101", Credits: 4, Instructor: "Dr. Rao",
	})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}

	return studentID, courseID
}

func postForm(t *testing.T, mux *http.ServeMux, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func gradeForm(studentID, courseID int64) url.Values {
	return url.Values{
		"student_id": {strconv.FormatInt(studentID, 10)},
		"course_id":  {strconv.FormatInt(courseID, 10)},
		"grade":      {"A"},
		"semester":   {"3"},
	}
}

func TestAddGradeFlow(t *testing.T) {
	mux, store := newApp(t)
	studentID, courseID := seed(t, store)

	// The selection form is populated from the stored lists.
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/grades/add", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /grades/add status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Asha") || !strings.Contains(body, "Mechanics") {
		t.Errorf("selection form missing options:\n%s", body)
	}

	rec = postForm(t, mux, "/grades/add", gradeForm(studentID, courseID))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/grades" {
		t.Fatalf("status = %d location = %q", rec.Code, rec.Header().Get("Location"))
	}

	grades, err := store.GetGrades()
	if err != nil {
		t.Fatalf("GetGrades: %v", err)
	}
	if len(grades) != 1 {
		t.Fatalf("got %d grades, want 1", len(grades))
	}
	g := grades[0]
	if g.StudentID != studentID || g.CourseID != courseID ||
		g.Grade.Grade != "A" || g.Semester != 3 {
		t.Fatalf("unexpected grade: %+v", g)
	}

	// And it shows up on the list page with the joined names.
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/grades", nil))
	if !strings.Contains(rec.Body.String(), "Asha") {
		t.Error("grades list missing student name")
	}
}

func TestAddGradeValidation(t *testing.T) {
	mux, store := newApp(t)
	studentID, courseID := seed(t, store)

	tests := []struct {
		name   string
		mutate func(url.Values)
	}{
		{"missing student", func(f url.Values) { f.Set("student_id", "") }},
		{"missing course", func(f url.Values) { f.Set("course_id", "") }},
		{"missing grade", func(f url.Values) { f.Set("grade", "") }},
		{"non-integer semester", func(f url.Values) { f.Set("semester", "spring") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := gradeForm(studentID, courseID)
			tt.mutate(form)

			rec := postForm(t, mux, "/grades/add", form)
			if rec.Code != http.StatusSeeOther ||
				rec.Header().Get("Location") != "/grades/add" {
				t.Fatalf("status = %d location = %q",
					rec.Code, rec.Header().Get("Location"))
			}
		})
	}

	grades, _ := store.GetGrades()
	if len(grades) != 0 {
		t.Fatalf("store changed on failed adds: %+v", grades)
	}
}

func TestAddGradeDanglingReference(t *testing.T) {
	mux, store := newApp(t)
	studentID, _ := seed(t, store)

	rec := postForm(t, mux, "/grades/add", gradeForm(studentID, 99))
	if rec.Code != http.StatusSeeOther ||
		rec.Header().Get("Location") != "/grades/add" {
		t.Fatalf("status = %d location = %q", rec.Code, rec.Header().Get("Location"))
	}

	flashed := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "flash" && c.Value != "" {
			flashed = true
		}
	}
	if !flashed {
		t.Error("no flash notice on foreign key violation")
	}

	grades, _ := store.GetGrades()
	if len(grades) != 0 {
		t.Fatalf("dangling grade persisted: %+v", grades)
	}
}

func TestDeleteGrade(t *testing.T) {
	mux, store := newApp(t)
	studentID, courseID := seed(t, store)

	id, err := store.CreateGrade(types.Grade{
		StudentID: studentID, CourseID: courseID, Grade: "B", Semester: 1,
	})
	if err != nil {
		t.Fatalf("CreateGrade: %v", err)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/grades/delete/"+strconv.FormatInt(id, 10), nil))
	if rec.Code != http.StatusFound {
		t.Fatalf("delete status = %d, want 302", rec.Code)
	}

	grades, _ := store.GetGrades()
	if len(grades) != 0 {
		t.Fatalf("grade not deleted: %+v", grades)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/grades/delete/99", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("delete unknown id status = %d, want 404", rec.Code)
	}
}
