package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/retailsurvey/fieldsurvey-go/internal/config"
	"github.com/retailsurvey/fieldsurvey-go/internal/handler"
	"github.com/retailsurvey/fieldsurvey-go/internal/middleware"
	"github.com/retailsurvey/fieldsurvey-go/internal/repository"
	"github.com/retailsurvey/fieldsurvey-go/internal/service"
)

const photoURLPrefix = "/static/photos/"

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	err = repository.Migrate(migrateCtx, db)
	cancelMigrate()
	if err != nil {
		slog.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	surveyorRepo := repository.NewSurveyorRepository(db)
	authHandler := handler.NewAuthHandler(service.NewAuthService(surveyorRepo, cfg.JWTSecret, cfg.JWTExpiry))
	surveyorHandler := handler.NewSurveyorHandler(service.NewSurveyorService(surveyorRepo))
	taskHandler := handler.NewTaskHandler(service.NewTaskService(repository.NewTaskRepository(db)))
	recordHandler := handler.NewRecordHandler(service.NewRecordService(repository.NewRecordRepository(db)))
	uploadHandler := handler.NewUploadHandler(service.NewUploadService(cfg.UploadDir, photoURLPrefix))

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Handle(photoURLPrefix+"*", http.StripPrefix(photoURLPrefix, http.FileServer(http.Dir(cfg.UploadDir))))

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(5, 10))
		r.Post("/api/login", authHandler.HandleLogin)
	})

	r.Group(func(r chi.Router) {
		if cfg.RequireToken {
			r.Use(middleware.JWTAuth(cfg.JWTSecret))
		} else {
			r.Use(middleware.OptionalJWTAuth(cfg.JWTSecret))
		}

		r.Get("/api/surveyors/{surveyor_id}", surveyorHandler.HandleGet)
		r.Get("/api/tasks", taskHandler.HandleList)
		r.Get("/api/tasks/today/{surveyor_id}", taskHandler.HandleToday)
		r.Post("/api/records", recordHandler.HandleCreate)
		r.Post("/api/upload/image", uploadHandler.HandleImage)
	})

	if cfg.AdminKey == "" {
		slog.Warn("ADMIN_API_KEY not set, admin routes disabled")
	} else {
		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminKey(cfg.AdminKey))
			r.Post("/api/surveyors", surveyorHandler.HandleCreate)
			r.Put("/api/surveyors/{surveyor_id}", surveyorHandler.HandleUpdate)
			r.Post("/api/surveyors/{surveyor_id}/reset-password", surveyorHandler.HandleResetPassword)
			r.Post("/api/tasks", taskHandler.HandleCreate)
			r.Post("/api/tasks/{task_id}/cancel", taskHandler.HandleCancel)
		})
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "require_token", cfg.RequireToken)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
