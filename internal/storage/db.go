package storage

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"ats-backend/internal/logger"
)

type DB struct {
	connection *sql.DB
}

func NewDB(dataSourceName string) (*DB, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, err
	}

	// Connection pool tuning
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &DB{connection: db}, nil
}

// NewDBFromConnection wraps an existing connection. Used by tests.
func NewDBFromConnection(conn *sql.DB) *DB {
	return &DB{connection: conn}
}

func (db *DB) Close() {
	if err := db.connection.Close(); err != nil {
		logger.Component("storage").WithError(err).Error("closing database connection")
	}
}

// GetConnection returns the underlying database connection for advanced queries.
func (db *DB) GetConnection() *sql.DB {
	return db.connection
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'recruiter',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id),
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		req_experience TEXT NOT NULL DEFAULT '',
		req_skills TEXT NOT NULL DEFAULT '',
		rcd_url TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS candidates (
		id UUID PRIMARY KEY,
		job_id UUID NOT NULL REFERENCES jobs(id),
		user_id UUID NOT NULL REFERENCES users(id),
		name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		resume_path TEXT NOT NULL DEFAULT '',
		match_score INTEGER NOT NULL DEFAULT 0,
		is_screened BOOLEAN NOT NULL DEFAULT FALSE,
		is_recommended TEXT NOT NULL DEFAULT 'NOT_SET',
		status TEXT NOT NULL DEFAULT 'parsed',
		failure_count INTEGER NOT NULL DEFAULT 0,
		failure_reason TEXT NOT NULL DEFAULT '',
		is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_candidates_screening_queue
		ON candidates (created_at)
		WHERE is_screened = FALSE AND is_deleted = FALSE AND status <> 'failed_permanently'`,
	`CREATE TABLE IF NOT EXISTS candidate_skills (
		id BIGSERIAL PRIMARY KEY,
		candidate_id UUID NOT NULL REFERENCES candidates(id) ON DELETE CASCADE,
		skill TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS work_experiences (
		id BIGSERIAL PRIMARY KEY,
		candidate_id UUID NOT NULL REFERENCES candidates(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		company TEXT NOT NULL DEFAULT '',
		start_date DATE NOT NULL,
		end_date DATE
	)`,
	`CREATE TABLE IF NOT EXISTS screening_results (
		id UUID PRIMARY KEY,
		candidate_id UUID NOT NULL UNIQUE REFERENCES candidates(id),
		job_id UUID NOT NULL REFERENCES jobs(id),
		user_id UUID NOT NULL REFERENCES users(id),
		match_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		success BOOLEAN NOT NULL DEFAULT FALSE,
		missing_skills JSONB NOT NULL DEFAULT '{}',
		is_recommended TEXT NOT NULL DEFAULT 'NOT_SET',
		raw_feedback JSONB,
		is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS feedbacks (
		id UUID PRIMARY KEY,
		candidate_id UUID NOT NULL REFERENCES candidates(id),
		job_id UUID NOT NULL REFERENCES jobs(id),
		user_id UUID NOT NULL REFERENCES users(id),
		rating INTEGER NOT NULL DEFAULT 0,
		comments TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// EnsureSchema creates the tables the service needs when they do not exist yet.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.connection.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// SplitAndTrim splits a comma-separated skills string, dropping empty entries.
func SplitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
