package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"

	"github.com/chroniclehq/chronicle/pkg/config"
	"github.com/chroniclehq/chronicle/pkg/content"
	"github.com/chroniclehq/chronicle/pkg/filter"
	"github.com/chroniclehq/chronicle/pkg/middleware"
	"github.com/chroniclehq/chronicle/pkg/observability"
	"github.com/chroniclehq/chronicle/pkg/restore"
	"github.com/chroniclehq/chronicle/pkg/trail"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := observability.NewLogger(cfg.LogLevel, os.Stdout)
	metrics := observability.NewMetrics(nil)

	var (
		db       *sql.DB
		events   trail.Store
		versions content.TxVersionStore
	)

	if cfg.Database.URL != "" {
		db, err = sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer db.Close()
		db.SetMaxOpenConns(cfg.Database.MaxConns)

		if err := db.Ping(); err != nil {
			log.Fatalf("Failed to ping database: %v", err)
		}

		eventStore, err := trail.NewDBStore(db)
		if err != nil {
			log.Fatalf("Failed to initialize event store: %v", err)
		}
		versionStore, err := content.NewDBVersionStore(db)
		if err != nil {
			log.Fatalf("Failed to initialize version store: %v", err)
		}
		events, versions = eventStore, versionStore
		logger.Info("using PostgreSQL stores")
	} else {
		events, versions = trail.NewMemStore(), content.NewMemVersionStore()
		logger.Warn("no database configured, using in-memory stores")
	}

	categories := trail.NewCategoryRegistry(trail.DefaultCategories()...)
	if cfg.Trail.CategoriesFile != "" {
		categories, err = trail.LoadCategories(cfg.Trail.CategoriesFile)
		if err != nil {
			log.Fatalf("Failed to load categories: %v", err)
		}
	}

	registry := filter.NewRegistry()
	evaluator := filter.NewEvaluator(registry, categories)

	engine, err := restore.NewEngine(restore.Deps{
		Events:     events,
		Versions:   versions,
		Authorizer: content.AllowAll{},
		Validator:  content.AcceptAll{},
		Notifier:   restore.LogNotifier{Log: logger},
		Logger:     logger,
	})
	if err != nil {
		log.Fatalf("Failed to build restore engine: %v", err)
	}

	router := mux.NewRouter()
	router.Use(middleware.RequestID, middleware.Actor, middleware.Logging(logger), middleware.Metrics(metrics))
	trail.NewHandlers(events, registry, evaluator, categories, metrics).RegisterRoutes(router)
	restore.NewHandlers(engine, metrics).RegisterRoutes(router)

	health := observability.NewHealthChecker(db)
	router.HandleFunc("/healthz", health.Liveness).Methods("GET")
	router.HandleFunc("/readyz", health.Readiness).Methods("GET")
	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.WithField("addr", cfg.Server.Addr()).Info("chronicle listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
}
