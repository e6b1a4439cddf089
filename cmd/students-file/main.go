// students-file is the flat-file variant of the student records app:
// browser-facing CRUD pages plus a read-only JSON API, backed by a
// single pretty-printed JSON document on disk.
//
// Run it with a config file:
//
//	go run ./cmd/students-file --config=config/file-local.yaml
//
// or via the environment:
//
//	CONFIG_PATH=config/file-local.yaml go run ./cmd/students-file
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
	"github.com/rsinghal-dev/student-records/internal/http/handlers/flatfile"
	"github.com/rsinghal-dev/student-records/internal/logging"
	"github.com/rsinghal-dev/student-records/internal/storage/jsonfile"
	"github.com/rsinghal-dev/student-records/internal/web/view"
)

func main() {
	cfg := config.MustLoad()

	log := logging.Setup(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting students-file",
		slog.String("env", cfg.Env),
		slog.String("storage", cfg.StoragePath),
	)

	store := jsonfile.New(cfg.StoragePath)

	views, err := view.New()
	if err != nil {
		log.Error("failed to initialise views", slog.String("error", err.Error()))
		os.Exit(1)
	}

	router := http.NewServeMux()

	router.HandleFunc("GET /{$}", flatfile.Dashboard(store, views))
	router.HandleFunc("GET /students", flatfile.List(store, views))
	router.HandleFunc("GET /add_student", flatfile.AddForm(views))
	router.HandleFunc("POST /add_student", flatfile.Add(store))
	router.HandleFunc("GET /edit_student/{id}", flatfile.EditForm(store, views))
	router.HandleFunc("POST /edit_student/{id}", flatfile.Edit(store))
	router.HandleFunc("GET /delete_student/{id}", flatfile.Delete(store))
	router.HandleFunc("GET /api/students", flatfile.API(store))

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
