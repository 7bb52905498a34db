package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/vistahogar/listings/internal/api"
	"github.com/vistahogar/listings/internal/auth"
	"github.com/vistahogar/listings/internal/backend"
	"github.com/vistahogar/listings/internal/catalog"
	"github.com/vistahogar/listings/internal/config"
	"github.com/vistahogar/listings/internal/db"
	"github.com/vistahogar/listings/internal/export"
	"github.com/vistahogar/listings/internal/middleware"
	"github.com/vistahogar/listings/internal/repository"
	"github.com/vistahogar/listings/internal/storage"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".")
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	// The database client is created asynchronously and published into the
	// slot once migrations have run. Request handlers wait on the gate
	// instead of blocking startup.
	slot := &backend.Slot{}
	gate := backend.NewGate(slot, backend.WithLogger(log))
	gate.Initialize()

	var conn *db.Connection
	go func() {
		c, err := db.NewConnection(ctx, cfg.DB)
		if err != nil {
			log.WithError(err).Error("failed to connect to database")
			return
		}
		if err := db.RunMigrations(cfg.DB); err != nil {
			log.WithError(err).Error("failed to run migrations")
			c.Close()
			return
		}
		conn = c
		slot.Publish(&backend.Client{Pool: c.Pool})
		log.Info("database client published")
	}()
	defer func() {
		if conn != nil {
			conn.Close()
		}
	}()

	// Repositories
	propertyRepo := repository.NewPropertyRepository(gate)
	inquiryRepo := repository.NewInquiryRepository(gate)
	agentRepo := repository.NewAgentRepository(gate)
	userRepo := repository.NewUserRepository(gate)

	// Services
	catalogSvc := catalog.NewService(propertyRepo, log)
	authSvc := auth.NewService(userRepo, cfg.SessionTTL, log)
	exportSvc := export.NewService(propertyRepo)

	images, err := storage.NewImageStore(cfg.UploadsDir, cfg.PublicURL)
	if err != nil {
		log.WithError(err).Fatal("failed to prepare uploads directory")
	}

	// Audit trail for authentication events
	events, stopEvents := authSvc.Subscribe()
	defer stopEvents()
	go func() {
		for event := range events {
			log.WithFields(logrus.Fields{
				"event": event.Type,
				"email": event.Email,
			}).Info("auth event")
		}
	}()

	mux := http.NewServeMux()
	api.NewHandler(catalogSvc, propertyRepo, inquiryRepo, agentRepo, authSvc, exportSvc, images, gate, log).Register(mux)

	registerPages(mux, cfg.StaticDir)
	mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(images.Dir()))))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:8080"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	handler := corsHandler.Handler(
		middleware.RecoveryMiddleware(log)(
			middleware.LoggingMiddleware(log)(
				middleware.SessionMiddleware(authSvc)(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.ServerAddr).Info("starting listings server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	log.Info("server exited")
}

// registerPages maps the site pages onto their static documents. Unknown
// paths under / fall through to the 404 page.
func registerPages(mux *http.ServeMux, staticDir string) {
	page := func(name string) http.HandlerFunc {
		path := filepath.Join(staticDir, name)
		return func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, path)
		}
	}

	mux.HandleFunc("GET /{$}", page("index.html"))
	mux.HandleFunc("GET /catalogo", page("catalogo.html"))
	mux.HandleFunc("GET /propiedad/{id}", page("propiedad.html"))
	mux.HandleFunc("GET /admin", page("admin.html"))
	mux.HandleFunc("GET /admin/dashboard", page("dashboard.html"))
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.Dir(filepath.Join(staticDir, "assets")))))

	notFoundPath := filepath.Join(staticDir, "404.html")
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		body, err := os.ReadFile(notFoundPath)
		if err != nil {
			_, _ = w.Write([]byte("404 page not found"))
			return
		}
		_, _ = w.Write(body)
	})
}
