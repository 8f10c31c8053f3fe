// Command requeue resets permanently failed candidates so the screening queue
// picks them up again. Run after fixing whatever made them fail (broken job
// data, scoring service outage).
package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"

	"ats-backend/internal/logger"
	"ats-backend/internal/storage"
)

func main() {
	_ = godotenv.Load()
	log := logger.Component("requeue")

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("set DATABASE_URL environment variable")
	}

	db, err := storage.NewDB(dsn)
	if err != nil {
		log.WithError(err).Fatal("db open")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := db.RequeuePermanentlyFailed(ctx)
	if err != nil {
		log.WithError(err).Fatal("requeue failed")
	}

	log.WithField("candidates", n).Info("requeued permanently failed candidates")
}
