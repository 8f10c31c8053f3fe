package screening

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"ats-backend/internal/storage"
)

// Assembler builds the scoring payload for one candidate: skills flattened to
// a single list, work history reduced to titles plus total years, and the
// job's description and requirements-document key. Read-only.
type Assembler struct {
	store Store
	now   func() time.Time
}

func NewAssembler(store Store) *Assembler {
	return &Assembler{store: store, now: time.Now}
}

// Build aggregates everything a screening attempt needs. A missing candidate
// or job is terminal for the attempt, not an AI error.
func (a *Assembler) Build(ctx context.Context, candidateID uuid.UUID) (*CandidateDetail, error) {
	cand, err := a.store.GetCandidate(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("load candidate: %w", err)
	}
	if cand == nil {
		return nil, ErrCandidateNotFound
	}

	skills, err := a.store.GetCandidateSkills(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("load skills: %w", err)
	}

	experiences, err := a.store.GetCandidateExperiences(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("load experiences: %w", err)
	}

	job, err := a.store.GetJob(ctx, cand.JobID)
	if err != nil {
		return nil, fmt.Errorf("load job: %w", err)
	}
	if job == nil {
		return nil, ErrMissingJobDetails
	}

	years := TotalExperienceYears(experiences, a.now())

	titles := make([]string, 0, len(experiences))
	for _, e := range experiences {
		titles = append(titles, e.Title)
	}

	return &CandidateDetail{
		CandidateID: cand.ID,
		JobID:       job.ID,
		UserID:      cand.UserID,
		JD: JobDescription{
			Title:         job.Title,
			ReqExperience: job.ReqExperience,
			ReqSkills:     strings.Join(storage.SplitAndTrim(job.ReqSkills), ", "),
		},
		RcdFileKey: RcdKeyFromURL(job.RcdURL),
		Candidate: CandidateProfile{
			Skill: skills,
			Experience: ExperienceSummary{
				Titles:     titles,
				Experience: fmt.Sprintf("%.1f years", years),
			},
		},
		TotalYears: years,
	}, nil
}

// TotalExperienceYears sums the month delta of each entry (end date or now,
// floored at zero per entry) and converts to years with one decimal place.
func TotalExperienceYears(experiences []storage.WorkExperience, now time.Time) float64 {
	totalMonths := 0
	for _, e := range experiences {
		end := now
		if e.EndDate != nil {
			end = *e.EndDate
		}
		months := monthsBetween(e.StartDate, end)
		if months < 0 {
			months = 0
		}
		totalMonths += months
	}
	return math.Round(float64(totalMonths)/12*10) / 10
}

func monthsBetween(start, end time.Time) int {
	return (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
}

// RcdKeyFromURL extracts the requirements-document storage key: the last path
// segment of the stored document URL. Empty when the URL carries no usable path.
func RcdKeyFromURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	key := path.Base(u.Path)
	if key == "." || key == "/" {
		return ""
	}
	return key
}
