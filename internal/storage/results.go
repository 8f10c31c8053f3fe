package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// SaveScreeningOutcome persists one screening attempt's outcome atomically:
// the screening_results row is upserted (one row per candidate, updated on
// re-screen), a feedbacks row is appended, and the candidate's denormalized
// screening fields are updated. Either all three happen or none do.
func (db *DB) SaveScreeningOutcome(ctx context.Context, o *ScreeningOutcome) error {
	missing, err := json.Marshal(o.MissingSkills)
	if err != nil {
		return fmt.Errorf("marshal missing skills: %w", err)
	}

	tx, err := db.connection.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin outcome tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO screening_results
			(id, candidate_id, job_id, user_id, match_score, success, missing_skills, is_recommended, raw_feedback)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (candidate_id) DO UPDATE
		SET match_score = EXCLUDED.match_score,
		    success = EXCLUDED.success,
		    missing_skills = EXCLUDED.missing_skills,
		    is_recommended = EXCLUDED.is_recommended,
		    raw_feedback = EXCLUDED.raw_feedback,
		    updated_at = NOW()`,
		uuid.New(), o.CandidateID, o.JobID, o.UserID, o.MatchScore, o.Success,
		missing, o.IsRecommended, nullableJSON(o.RawFeedback))
	if err != nil {
		return fmt.Errorf("upsert screening result: %w", err)
	}

	rating := int(math.Round(o.MatchScore))
	_, err = tx.ExecContext(ctx, `
		INSERT INTO feedbacks (id, candidate_id, job_id, user_id, rating, comments)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New(), o.CandidateID, o.JobID, o.UserID, rating, o.Comments)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE candidates
		SET match_score = $2,
		    is_screened = TRUE,
		    is_recommended = $3,
		    status = $4,
		    failure_reason = '',
		    updated_at = NOW()
		WHERE id = $1`,
		o.CandidateID, rating, o.IsRecommended, StatusScreened)
	if err != nil {
		return fmt.Errorf("update candidate screening fields: %w", err)
	}

	return tx.Commit()
}

// GetScreeningResult returns a candidate's latest screening result, or
// (nil, nil) when the candidate was never screened.
func (db *DB) GetScreeningResult(ctx context.Context, candidateID uuid.UUID) (*ScreeningResult, error) {
	r := &ScreeningResult{}
	var missing []byte
	var raw sql.NullString

	row := db.connection.QueryRowContext(ctx, `
		SELECT id, candidate_id, job_id, user_id, match_score, success,
		       missing_skills, is_recommended, raw_feedback, is_deleted, created_at, updated_at
		FROM screening_results
		WHERE candidate_id = $1 AND is_deleted = FALSE`, candidateID)
	err := row.Scan(&r.ID, &r.CandidateID, &r.JobID, &r.UserID, &r.MatchScore,
		&r.Success, &missing, &r.IsRecommended, &raw, &r.IsDeleted, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get screening result: %w", err)
	}

	if err := json.Unmarshal(missing, &r.MissingSkills); err != nil {
		return nil, fmt.Errorf("decode missing skills: %w", err)
	}
	if raw.Valid {
		r.RawFeedback = json.RawMessage(raw.String)
	}
	return r, nil
}

// ListFeedback returns a candidate's feedback history, newest first.
func (db *DB) ListFeedback(ctx context.Context, candidateID uuid.UUID) ([]*Feedback, error) {
	rows, err := db.connection.QueryContext(ctx, `
		SELECT id, candidate_id, job_id, user_id, rating, comments, created_at
		FROM feedbacks WHERE candidate_id = $1 ORDER BY created_at DESC`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	var res []*Feedback
	for rows.Next() {
		f := &Feedback{}
		if err := rows.Scan(&f.ID, &f.CandidateID, &f.JobID, &f.UserID,
			&f.Rating, &f.Comments, &f.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, f)
	}
	return res, rows.Err()
}

func nullableJSON(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
