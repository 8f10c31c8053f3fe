package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const candidateColumns = `id, job_id, user_id, name, email, phone, resume_path,
	match_score, is_screened, is_recommended, status, failure_count,
	failure_reason, is_deleted, created_at, updated_at`

func scanCandidate(row interface{ Scan(...interface{}) error }) (*Candidate, error) {
	c := &Candidate{}
	err := row.Scan(&c.ID, &c.JobID, &c.UserID, &c.Name, &c.Email, &c.Phone,
		&c.ResumePath, &c.MatchScore, &c.IsScreened, &c.IsRecommended, &c.Status,
		&c.FailureCount, &c.FailureReason, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// CreateCandidate inserts a freshly parsed candidate together with its skill
// tags and work experiences.
func (db *DB) CreateCandidate(ctx context.Context, c *Candidate, skills []string, experiences []WorkExperience) error {
	tx, err := db.connection.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = StatusParsed
	}
	if c.IsRecommended == "" {
		c.IsRecommended = RecommendedNotSet
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO candidates (id, job_id, user_id, name, email, phone, resume_path, status, is_recommended)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.JobID, c.UserID, c.Name, c.Email, c.Phone, c.ResumePath, c.Status, c.IsRecommended)
	if err != nil {
		return fmt.Errorf("insert candidate: %w", err)
	}

	for _, s := range skills {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO candidate_skills (candidate_id, skill) VALUES ($1, $2)`, c.ID, s); err != nil {
			return fmt.Errorf("insert skill: %w", err)
		}
	}
	for _, e := range experiences {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO work_experiences (candidate_id, title, company, start_date, end_date)
			 VALUES ($1, $2, $3, $4, $5)`,
			c.ID, e.Title, e.Company, e.StartDate, e.EndDate); err != nil {
			return fmt.Errorf("insert experience: %w", err)
		}
	}

	return tx.Commit()
}

// GetCandidate loads a single candidate by id. Returns (nil, nil) when absent
// or soft-deleted.
func (db *DB) GetCandidate(ctx context.Context, id uuid.UUID) (*Candidate, error) {
	row := db.connection.QueryRowContext(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE id = $1 AND is_deleted = FALSE`, id)
	c, err := scanCandidate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

// GetCandidateSkills returns the flattened skill tag list for a candidate.
func (db *DB) GetCandidateSkills(ctx context.Context, id uuid.UUID) ([]string, error) {
	rows, err := db.connection.QueryContext(ctx,
		`SELECT skill FROM candidate_skills WHERE candidate_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("query skills: %w", err)
	}
	defer rows.Close()

	var skills []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

// GetCandidateExperiences returns the candidate's work history, oldest first.
func (db *DB) GetCandidateExperiences(ctx context.Context, id uuid.UUID) ([]WorkExperience, error) {
	rows, err := db.connection.QueryContext(ctx,
		`SELECT id, candidate_id, title, company, start_date, end_date
		 FROM work_experiences WHERE candidate_id = $1 ORDER BY start_date`, id)
	if err != nil {
		return nil, fmt.Errorf("query experiences: %w", err)
	}
	defer rows.Close()

	var exps []WorkExperience
	for rows.Next() {
		var e WorkExperience
		if err := rows.Scan(&e.ID, &e.CandidateID, &e.Title, &e.Company, &e.StartDate, &e.EndDate); err != nil {
			return nil, err
		}
		exps = append(exps, e)
	}
	return exps, rows.Err()
}

// ClaimNextUnscreened claims the single oldest eligible candidate for
// screening. The row lock and the status flip to 'processing' happen inside
// one transaction, so two worker instances can never claim the same row.
// Returns (nil, nil) when the queue is empty.
func (db *DB) ClaimNextUnscreened(ctx context.Context) (*Candidate, error) {
	tx, err := db.connection.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin claim tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT `+candidateColumns+`
		FROM candidates
		WHERE is_screened = FALSE
		  AND is_deleted = FALSE
		  AND status <> $1
		ORDER BY created_at ASC
		LIMIT 1
		FOR UPDATE SKIP LOCKED`, StatusFailedPermanently)

	c, err := scanCandidate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select for claim: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE candidates SET status = $1, updated_at = NOW() WHERE id = $2`,
		StatusProcessing, c.ID); err != nil {
		return nil, fmt.Errorf("mark processing: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit claim: %w", err)
	}

	c.Status = StatusProcessing
	return c, nil
}

// MarkCandidateFailed increments failure_count and records the reason code.
// At MaxFailureCount cumulative failures the candidate becomes permanently
// failed and leaves the queue for good.
func (db *DB) MarkCandidateFailed(ctx context.Context, id uuid.UUID, reason string) error {
	_, err := db.connection.ExecContext(ctx, `
		UPDATE candidates
		SET failure_count = failure_count + 1,
		    failure_reason = $2,
		    status = CASE WHEN failure_count + 1 >= $3 THEN $4 ELSE $5 END,
		    updated_at = NOW()
		WHERE id = $1`,
		id, reason, MaxFailureCount, StatusFailedPermanently, StatusFailed)
	if err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}
	return nil
}

// SoftDeleteCandidate hides a candidate from reads and from the screening queue.
func (db *DB) SoftDeleteCandidate(ctx context.Context, id uuid.UUID) error {
	_, err := db.connection.ExecContext(ctx,
		`UPDATE candidates SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1`, id)
	return err
}

// ListCandidatesByJob returns a job's candidates ranked by match score.
func (db *DB) ListCandidatesByJob(ctx context.Context, jobID uuid.UUID) ([]*Candidate, error) {
	rows, err := db.connection.QueryContext(ctx, `
		SELECT `+candidateColumns+`
		FROM candidates
		WHERE job_id = $1 AND is_deleted = FALSE
		ORDER BY match_score DESC, created_at ASC`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	var res []*Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

// SearchCandidates returns candidates matching the provided criteria.
func (db *DB) SearchCandidates(ctx context.Context, criteria *CandidateSearch) ([]*Candidate, error) {
	if criteria == nil {
		criteria = &CandidateSearch{}
	}

	q := psql.Select("c.id", "c.job_id", "c.user_id", "c.name", "c.email", "c.phone",
		"c.resume_path", "c.match_score", "c.is_screened", "c.is_recommended",
		"c.status", "c.failure_count", "c.failure_reason", "c.is_deleted",
		"c.created_at", "c.updated_at").
		From("candidates c").
		Where(sq.Eq{"c.is_deleted": false}).
		OrderBy("c.match_score DESC", "c.created_at ASC")

	if criteria.JobID != nil {
		q = q.Where(sq.Eq{"c.job_id": *criteria.JobID})
	}
	if criteria.Status != "" {
		q = q.Where(sq.Eq{"c.status": criteria.Status})
	}
	if criteria.Name != "" {
		q = q.Where(sq.ILike{"c.name": "%" + criteria.Name + "%"})
	}
	for _, s := range criteria.Skills {
		q = q.Where(`EXISTS (SELECT 1 FROM candidate_skills cs
			WHERE cs.candidate_id = c.id AND cs.skill ILIKE ?)`, "%"+s+"%")
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search query: %w", err)
	}

	rows, err := db.connection.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search candidates: %w", err)
	}
	defer rows.Close()

	var res []*Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

// RequeuePermanentlyFailed resets permanently failed candidates so the queue
// picks them up again. Used by the requeue maintenance tool.
func (db *DB) RequeuePermanentlyFailed(ctx context.Context) (int64, error) {
	res, err := db.connection.ExecContext(ctx, `
		UPDATE candidates
		SET status = $1, failure_count = 0, failure_reason = '', updated_at = NOW()
		WHERE status = $2 AND is_deleted = FALSE`,
		StatusParsed, StatusFailedPermanently)
	if err != nil {
		return 0, fmt.Errorf("requeue failed candidates: %w", err)
	}
	return res.RowsAffected()
}
