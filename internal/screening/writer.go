package screening

import (
	"context"
	"strings"

	"ats-backend/internal/storage"
)

// Writer maps a successful scoring response onto the persistent screening
// outcome: one upserted result row, one appended feedback row and the
// candidate's denormalized fields, written in a single transaction by the
// store.
type Writer struct {
	store Store
}

func NewWriter(store Store) *Writer {
	return &Writer{store: store}
}

func (w *Writer) Write(ctx context.Context, detail *CandidateDetail, resp *ScoreResponse) error {
	outcome := &storage.ScreeningOutcome{
		CandidateID: detail.CandidateID,
		JobID:       detail.JobID,
		UserID:      detail.UserID,
		MatchScore:  resp.CombinedScore,
		Success:     true,
		MissingSkills: storage.MissingSkills{
			JDMatch:     resp.Feedback.JDMatch,
			RcdMatch:    resp.Feedback.RcdMatch,
			JDMismatch:  resp.Feedback.JDMismatch,
			RcdMismatch: resp.Feedback.RcdMismatch,
			SkillMatchPct: map[string]float64{
				"jd_skill_match":  resp.JDSkillMatch,
				"rcd_skill_match": resp.RcdSkillMatch,
			},
			Feedback:        resp.Feedback.Feedback,
			ExperienceMatch: resp.Feedback.ExperienceMatch,
			ExperienceInfo:  resp.Feedback.ExperienceInfo,
		},
		IsRecommended: string(resp.Recommended),
		RawFeedback:   resp.Raw,
		Comments:      strings.Join(resp.Feedback.Feedback, "\n"),
	}

	return w.store.SaveScreeningOutcome(ctx, outcome)
}
