package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"github.com/chroniclehq/chronicle/pkg/trail"
)

var (
	dbURL         = flag.String("db-url", getEnv("CHRONICLE_POSTGRES_URL", "postgres://localhost/chronicle?sslmode=disable"), "PostgreSQL connection URL")
	schedule      = flag.String("schedule", "30 0 * * *", "Cron schedule for retention cleanup (default: 00:30 UTC)")
	retentionDays = flag.Int("retention-days", trail.DefaultRetentionPolicy().RetentionDays, "Days of audit trail to keep")
	runOnce       = flag.Bool("run-once", false, "Run cleanup once and exit")
)

func main() {
	flag.Parse()

	db, err := sql.Open("postgres", *dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	store, err := trail.NewDBStore(db)
	if err != nil {
		log.Fatalf("Failed to initialize event store: %v", err)
	}

	policy := trail.RetentionPolicy{RetentionDays: *retentionDays}

	if *runOnce {
		if err := runCleanup(store, policy); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		return
	}

	c := cron.New()
	_, err = c.AddFunc(*schedule, func() {
		if err := runCleanup(store, policy); err != nil {
			log.Printf("Cleanup failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Invalid cron schedule %q: %v", *schedule, err)
	}

	c.Start()
	log.Printf("Reaper started, schedule %q, retention %d days", *schedule, policy.RetentionDays)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx := c.Stop()
	<-ctx.Done()
	log.Println("Reaper stopped")
}

func runCleanup(store *trail.DBStore, policy trail.RetentionPolicy) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	removed, err := store.Cleanup(ctx, policy)
	if err != nil {
		return err
	}

	log.Printf("Removed %d audit events older than %d days", removed, policy.RetentionDays)
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
