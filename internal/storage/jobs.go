package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// CreateJob inserts a job posting.
func (db *DB) CreateJob(ctx context.Context, j *Job) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	_, err := db.connection.ExecContext(ctx, `
		INSERT INTO jobs (id, user_id, title, description, req_experience, req_skills, rcd_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		j.ID, j.UserID, j.Title, j.Description, j.ReqExperience, j.ReqSkills, j.RcdURL)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// GetJob loads a job by id. Returns (nil, nil) when absent.
func (db *DB) GetJob(ctx context.Context, id uuid.UUID) (*Job, error) {
	j := &Job{}
	row := db.connection.QueryRowContext(ctx, `
		SELECT id, user_id, title, description, req_experience, req_skills, rcd_url, created_at
		FROM jobs WHERE id = $1`, id)
	err := row.Scan(&j.ID, &j.UserID, &j.Title, &j.Description, &j.ReqExperience,
		&j.ReqSkills, &j.RcdURL, &j.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return j, nil
}

// ListJobs returns jobs owned by a recruiter, newest first.
func (db *DB) ListJobs(ctx context.Context, userID uuid.UUID) ([]*Job, error) {
	rows, err := db.connection.QueryContext(ctx, `
		SELECT id, user_id, title, description, req_experience, req_skills, rcd_url, created_at
		FROM jobs WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var res []*Job
	for rows.Next() {
		j := &Job{}
		if err := rows.Scan(&j.ID, &j.UserID, &j.Title, &j.Description,
			&j.ReqExperience, &j.ReqSkills, &j.RcdURL, &j.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, j)
	}
	return res, rows.Err()
}
