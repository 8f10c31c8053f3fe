package storage

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Candidate lifecycle states. A candidate is created as StatusParsed, claimed
// by the screening worker as StatusProcessing and terminates in StatusScreened
// or one of the failure states.
const (
	StatusParsed            = "parsed"
	StatusProcessing        = "processing"
	StatusScreened          = "screened"
	StatusFailed            = "failed"
	StatusFailedPermanently = "failed_permanently"
)

// Reason codes recorded on candidates.failure_reason.
const (
	ReasonMissingJobDetails = "missing_job_details"
	ReasonMissingRcdFile    = "missing_rcd_file"
	ReasonAIError           = "ai_error"
	ReasonUnknown           = "unknown_error"
)

// Recommendation values stored on candidates.is_recommended.
const (
	RecommendedYes    = "YES"
	RecommendedNo     = "NO"
	RecommendedNotSet = "NOT_SET"
)

// MaxFailureCount is the number of cumulative failed screening attempts after
// which a candidate is never claimed again.
const MaxFailureCount = 3

// User is a recruiter or admin account.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Job is a posted position candidates are screened against.
type Job struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	ReqExperience string    `json:"req_experience"`
	ReqSkills     string    `json:"req_skills"` // comma-separated
	RcdURL        string    `json:"rcd_url"`    // requirements document location in the blob store
	CreatedAt     time.Time `json:"created_at"`
}

// Candidate is one applicant tied to one job and one owning recruiter.
type Candidate struct {
	ID            uuid.UUID `json:"id"`
	JobID         uuid.UUID `json:"job_id"`
	UserID        uuid.UUID `json:"user_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	ResumePath    string    `json:"resume_path"`
	MatchScore    int       `json:"match_score"`
	IsScreened    bool      `json:"is_screened"`
	IsRecommended string    `json:"is_recommended"`
	Status        string    `json:"status"`
	FailureCount  int       `json:"failure_count"`
	FailureReason string    `json:"failure_reason,omitempty"`
	IsDeleted     bool      `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// WorkExperience is one employment entry parsed from a resume.
type WorkExperience struct {
	ID          int64      `json:"id"`
	CandidateID uuid.UUID  `json:"candidate_id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"` // nil = current position
}

// MissingSkills is the structured skill-gap detail returned by the scoring
// service, persisted verbatim on the screening result.
type MissingSkills struct {
	JDMatch         []string           `json:"jd_match"`
	RcdMatch        []string           `json:"rcd_match"`
	JDMismatch      []string           `json:"jd_mismatch"`
	RcdMismatch     []string           `json:"rcd_mismatch"`
	SkillMatchPct   map[string]float64 `json:"skill_match_pct,omitempty"`
	Feedback        []string           `json:"feedback"`
	ExperienceMatch bool               `json:"experience_match"`
	ExperienceInfo  []string           `json:"experience_info"`
}

// ScreeningResult holds a candidate's latest screening outcome. One row per
// candidate; re-screening updates in place.
type ScreeningResult struct {
	ID            uuid.UUID       `json:"id"`
	CandidateID   uuid.UUID       `json:"candidate_id"`
	JobID         uuid.UUID       `json:"job_id"`
	UserID        uuid.UUID       `json:"user_id"`
	MatchScore    float64         `json:"match_score"`
	Success       bool            `json:"success"`
	MissingSkills MissingSkills   `json:"missing_skills"`
	IsRecommended string          `json:"is_recommended"`
	RawFeedback   json.RawMessage `json:"raw_feedback,omitempty"`
	IsDeleted     bool            `json:"-"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Feedback is the append-only textual/rating snapshot created alongside each
// screening result.
type Feedback struct {
	ID          uuid.UUID `json:"id"`
	CandidateID uuid.UUID `json:"candidate_id"`
	JobID       uuid.UUID `json:"job_id"`
	UserID      uuid.UUID `json:"user_id"`
	Rating      int       `json:"rating"`
	Comments    string    `json:"comments"`
	CreatedAt   time.Time `json:"created_at"`
}

// ScreeningOutcome carries everything SaveScreeningOutcome persists in one
// transaction: the result row, the feedback snapshot and the candidate's
// denormalized screening fields.
type ScreeningOutcome struct {
	CandidateID   uuid.UUID
	JobID         uuid.UUID
	UserID        uuid.UUID
	MatchScore    float64
	Success       bool
	MissingSkills MissingSkills
	IsRecommended string
	RawFeedback   json.RawMessage
	Comments      string
}

// CandidateSearch holds optional filters for SearchCandidates.
type CandidateSearch struct {
	JobID  *uuid.UUID
	Status string
	Name   string
	Skills []string
}
