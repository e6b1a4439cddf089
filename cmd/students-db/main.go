// students-db is the SQLite variant of the student records app:
// browser-facing CRUD pages for students, courses, and grades, plus a
// read-only JSON API for students.
//
// Run it with a config file:
//
//	go run ./cmd/students-db --config=config/db-local.yaml
//
// or via the environment:
//
//	CONFIG_PATH=config/db-local.yaml go run ./cmd/students-db
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rsinghal-dev/student-records/internal/config"
	"github.com/rsinghal-dev/student-records/internal/http/handlers/course"
	"github.com/rsinghal-dev/student-records/internal/http/handlers/grade"
	"github.com/rsinghal-dev/student-records/internal/http/handlers/student"
	"github.com/rsinghal-dev/student-records/internal/logging"
	"github.com/rsinghal-dev/student-records/internal/storage/sqlite"
	"github.com/rsinghal-dev/student-records/internal/web/view"
)

func main() {
	cfg := config.MustLoad()

	log := logging.Setup(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting students-db",
		slog.String("env", cfg.Env),
	)

	// The storage interface is what the handlers see; *sqlite.SQLite
	// stays confined to this one assignment.
	storage, err := sqlite.New(cfg)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("storage initialised",
		slog.String("path", cfg.StoragePath))

	views, err := view.New()
	if err != nil {
		log.Error("failed to initialise views", slog.String("error", err.Error()))
		os.Exit(1)
	}

	router := http.NewServeMux()

	router.HandleFunc("GET /{$}", student.Home(storage, views))
	router.HandleFunc("GET /students", student.List(storage, views))
	router.HandleFunc("GET /students/add", student.AddForm(views))
	router.HandleFunc("POST /students/add", student.Add(storage))
	router.HandleFunc("GET /students/edit/{id}", student.EditForm(storage, views))
	router.HandleFunc("POST /students/edit/{id}", student.Edit(storage))
	router.HandleFunc("GET /students/delete/{id}", student.Delete(storage))
	router.HandleFunc("GET /api/students", student.API(storage))

	router.HandleFunc("GET /courses", course.List(storage, views))
	router.HandleFunc("GET /courses/add", course.AddForm(views))
	router.HandleFunc("POST /courses/add", course.Add(storage))
	router.HandleFunc("GET /courses/delete/{id}", course.Delete(storage))

	router.HandleFunc("GET /grades", grade.List(storage, views))
	router.HandleFunc("GET /grades/add", grade.AddForm(storage, views))
	router.HandleFunc("POST /grades/add", grade.Add(storage))
	router.HandleFunc("GET /grades/delete/{id}", grade.Delete(storage))

	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: router,

		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil &&
			err != http.ErrServerClosed {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
