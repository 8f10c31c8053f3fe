package screening

import (
	"context"

	"github.com/google/uuid"

	"ats-backend/internal/storage"
)

// Store is the slice of the candidate record store the pipeline needs.
// *storage.DB satisfies it; tests use fakes.
type Store interface {
	ClaimNextUnscreened(ctx context.Context) (*storage.Candidate, error)
	MarkCandidateFailed(ctx context.Context, id uuid.UUID, reason string) error
	GetCandidate(ctx context.Context, id uuid.UUID) (*storage.Candidate, error)
	GetCandidateSkills(ctx context.Context, id uuid.UUID) ([]string, error)
	GetCandidateExperiences(ctx context.Context, id uuid.UUID) ([]storage.WorkExperience, error)
	GetJob(ctx context.Context, id uuid.UUID) (*storage.Job, error)
	SaveScreeningOutcome(ctx context.Context, o *storage.ScreeningOutcome) error
}

// Scorer scores an assembled candidate payload against its job.
type Scorer interface {
	Score(ctx context.Context, detail *CandidateDetail) (*ScoreResponse, error)
}

// TokenSource mints the short-lived service bearer token the scoring call
// authenticates with. *auth.Manager satisfies it.
type TokenSource interface {
	ServiceToken() (string, error)
}
