package screening

import (
	"encoding/json"

	"github.com/google/uuid"
)

// JobDescription is the jd block of the scoring request.
type JobDescription struct {
	Title         string `json:"title"`
	ReqExperience string `json:"req_experience"`
	ReqSkills     string `json:"req_skills"`
}

// ExperienceSummary carries the candidate's work-history titles and the total
// experience formatted as "<N>.<d> years".
type ExperienceSummary struct {
	Titles     []string `json:"titles"`
	Experience string   `json:"experience"`
}

// CandidateProfile is the candidate block of the scoring request.
type CandidateProfile struct {
	Skill      []string          `json:"skill"`
	Experience ExperienceSummary `json:"experience"`
}

// CandidateDetail is the transient payload the assembler builds fresh per
// screening attempt. Never persisted.
type CandidateDetail struct {
	CandidateID uuid.UUID
	JobID       uuid.UUID
	UserID      uuid.UUID
	JD          JobDescription
	RcdFileKey  string
	Candidate   CandidateProfile
	TotalYears  float64
}

// ScoreRequest is the wire body POSTed to the scoring service.
type ScoreRequest struct {
	JD         JobDescription   `json:"jd"`
	RcdFileKey string           `json:"rcd_file_key"`
	Candidate  CandidateProfile `json:"candidate"`
}

// ScoreFeedback is the feedback block of the scoring response.
type ScoreFeedback struct {
	JDMatch         []string           `json:"jd_match"`
	RcdMatch        []string           `json:"rcd_match"`
	JDMismatch      []string           `json:"jd_mismatch"`
	RcdMismatch     []string           `json:"rcd_mismatch"`
	SkillMatchPct   map[string]float64 `json:"skill_match_pct"`
	Feedback        []string           `json:"feedback"`
	ExperienceMatch bool               `json:"experience_match"`
	ExperienceInfo  []string           `json:"experience_info"`
	Recommendation  string             `json:"recommendation"`
}

// ScoreResponse is the decoded scoring response. Recommended holds the
// normalized recommendation derived once at the client boundary; Raw keeps the
// unmodified body for auditing.
type ScoreResponse struct {
	Status        string        `json:"status"`
	CombinedScore float64       `json:"combined_score"`
	JDSkillMatch  float64       `json:"jd_skill_match"`
	RcdSkillMatch float64       `json:"rcd_skill_match"`
	Feedback      ScoreFeedback `json:"feedback"`

	Recommended Recommendation  `json:"-"`
	Raw         json.RawMessage `json:"-"`
}
