package screening

import (
	"context"
	"math"
	"sync"

	"github.com/google/uuid"

	"ats-backend/internal/storage"
)

// fakeStore is an in-memory Store mirroring the claim, failure and outcome
// semantics of the SQL implementation.
type fakeStore struct {
	mu          sync.Mutex
	candidates  map[uuid.UUID]*storage.Candidate
	skills      map[uuid.UUID][]string
	experiences map[uuid.UUID][]storage.WorkExperience
	jobs        map[uuid.UUID]*storage.Job
	outcomes    []*storage.ScreeningOutcome

	claimErr   error
	outcomeErr error
	claims     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		candidates:  make(map[uuid.UUID]*storage.Candidate),
		skills:      make(map[uuid.UUID][]string),
		experiences: make(map[uuid.UUID][]storage.WorkExperience),
		jobs:        make(map[uuid.UUID]*storage.Job),
	}
}

func (s *fakeStore) ClaimNextUnscreened(ctx context.Context) (*storage.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claims++
	if s.claimErr != nil {
		return nil, s.claimErr
	}

	var oldest *storage.Candidate
	for _, c := range s.candidates {
		if c.IsScreened || c.IsDeleted || c.Status == storage.StatusFailedPermanently {
			continue
		}
		if oldest == nil || c.CreatedAt.Before(oldest.CreatedAt) {
			oldest = c
		}
	}
	if oldest == nil {
		return nil, nil
	}
	oldest.Status = storage.StatusProcessing
	cp := *oldest
	return &cp, nil
}

func (s *fakeStore) MarkCandidateFailed(ctx context.Context, id uuid.UUID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.candidates[id]
	if !ok {
		return nil
	}
	c.FailureCount++
	c.FailureReason = reason
	if c.FailureCount >= storage.MaxFailureCount {
		c.Status = storage.StatusFailedPermanently
	} else {
		c.Status = storage.StatusFailed
	}
	return nil
}

func (s *fakeStore) GetCandidate(ctx context.Context, id uuid.UUID) (*storage.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.candidates[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s *fakeStore) GetCandidateSkills(ctx context.Context, id uuid.UUID) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skills[id], nil
}

func (s *fakeStore) GetCandidateExperiences(ctx context.Context, id uuid.UUID) ([]storage.WorkExperience, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.experiences[id], nil
}

func (s *fakeStore) GetJob(ctx context.Context, id uuid.UUID) (*storage.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil, nil
	}
	cp := *j
	return &cp, nil
}

func (s *fakeStore) SaveScreeningOutcome(ctx context.Context, o *storage.ScreeningOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outcomeErr != nil {
		return s.outcomeErr
	}
	s.outcomes = append(s.outcomes, o)
	if c, ok := s.candidates[o.CandidateID]; ok {
		c.IsScreened = true
		c.MatchScore = int(math.Round(o.MatchScore))
		c.IsRecommended = o.IsRecommended
		c.Status = storage.StatusScreened
	}
	return nil
}

// fakeScorer replays canned steps in call order, repeating the last step once
// exhausted.
type scorerStep struct {
	resp *ScoreResponse
	err  error
}

type fakeScorer struct {
	mu      sync.Mutex
	steps   []scorerStep
	calls   int
	details []*CandidateDetail
}

func (f *fakeScorer) Score(ctx context.Context, detail *CandidateDetail) (*ScoreResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.details = append(f.details, detail)
	i := f.calls
	f.calls++
	if len(f.steps) == 0 {
		return nil, nil
	}
	if i >= len(f.steps) {
		i = len(f.steps) - 1
	}
	return f.steps[i].resp, f.steps[i].err
}

type fakeTokens struct{ token string }

func (f *fakeTokens) ServiceToken() (string, error) { return f.token, nil }
