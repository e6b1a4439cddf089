// Package jsonfile provides the flat-file store used by the file-backed
// app: one pretty-printed JSON document holding the full ordered list of
// students.
//
// There is no indexing and no partial I/O — every read loads the whole
// document and every mutation rewrites it. That is the store's contract,
// and it keeps the on-disk layout trivially inspectable.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rsinghal-dev/student-records/internal/types"
)

// Store reads and writes the students JSON file at a fixed path.
//
// The mutex makes the load-modify-save cycle exclusive: Go's HTTP server
// handles requests concurrently, and without the guard two simultaneous
// adds could compute the same next id and clobber each other's save.
type Store struct {
	path string
	mu   sync.Mutex
}

// New returns a Store for the JSON document at path. The file does not
// need to exist yet; it is created on the first save.
func New(path string) *Store {
	return &Store{path: path}
}

// Load returns the full ordered list of students currently on disk, or
// an empty slice when the store file does not exist yet.
func (s *Store) Load() ([]types.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save overwrites the entire store with the given list, creating parent
// directories if absent.
func (s *Store) Save(students []types.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(students)
}

// Update runs fn on the current list and saves whatever it returns,
// holding the lock across the whole load-modify-save cycle. If fn
// returns an error nothing is written and the error is passed through.
func (s *Store) Update(fn func([]types.Student) ([]types.Student, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	students, err := s.load()
	if err != nil {
		return err
	}

	students, err = fn(students)
	if err != nil {
		return err
	}

	return s.save(students)
}

func (s *Store) load() ([]types.Student, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []types.Student{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("jsonfile.Load: read %s: %w", s.path, err)
	}

	students := make([]types.Student, 0)
	if err := json.Unmarshal(data, &students); err != nil {
		return nil, fmt.Errorf("jsonfile.Load: parse %s: %w", s.path, err)
	}

	return students, nil
}

func (s *Store) save(students []types.Student) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("jsonfile.Save: create dir %s: %w", dir, err)
		}
	}

	// Four-space indent keeps the document readable when opened by hand,
	// matching the layout the store has always used.
	data, err := json.MarshalIndent(students, "", "    ")
	if err != nil {
		return fmt.Errorf("jsonfile.Save: encode: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("jsonfile.Save: write %s: %w", s.path, err)
	}

	return nil
}
