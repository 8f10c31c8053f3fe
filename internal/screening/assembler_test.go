package screening

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ats-backend/internal/storage"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestTotalExperienceYears(t *testing.T) {
	now := date(2024, time.June, 15)

	cases := []struct {
		name string
		exps []storage.WorkExperience
		want float64
	}{
		{
			name: "no experience",
			exps: nil,
			want: 0,
		},
		{
			name: "single closed entry",
			exps: []storage.WorkExperience{
				{StartDate: date(2020, time.January, 1), EndDate: datePtr(2022, time.January, 1)},
			},
			want: 2.0,
		},
		{
			name: "open entry uses now",
			exps: []storage.WorkExperience{
				{StartDate: date(2023, time.June, 1)},
			},
			want: 1.0,
		},
		{
			name: "multiple entries summed",
			exps: []storage.WorkExperience{
				{StartDate: date(2018, time.January, 1), EndDate: datePtr(2020, time.July, 1)}, // 30 months
				{StartDate: date(2021, time.January, 1), EndDate: datePtr(2022, time.January, 1)}, // 12 months
			},
			want: 3.5,
		},
		{
			name: "inverted dates floored at zero",
			exps: []storage.WorkExperience{
				{StartDate: date(2023, time.January, 1), EndDate: datePtr(2021, time.January, 1)},
				{StartDate: date(2022, time.January, 1), EndDate: datePtr(2023, time.January, 1)},
			},
			want: 1.0,
		},
		{
			name: "rounds to one decimal",
			exps: []storage.WorkExperience{
				{StartDate: date(2023, time.January, 1), EndDate: datePtr(2023, time.August, 1)}, // 7 months
			},
			want: 0.6,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, TotalExperienceYears(tc.exps, now), 0.001)
		})
	}
}

func TestRcdKeyFromURL(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"https://bucket.s3.amazonaws.com/rcd/backend-eng.pdf", "backend-eng.pdf"},
		{"https://storage.example.com/a/b/c/req-doc.docx", "req-doc.docx"},
		{"rcd/plain-key.pdf", "plain-key.pdf"},
		{"", ""},
		{"https://storage.example.com/", ""},
		{"https://storage.example.com", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, RcdKeyFromURL(tc.raw), "url=%q", tc.raw)
	}
}

func TestAssemblerBuild(t *testing.T) {
	store := newFakeStore()

	jobID := uuid.New()
	userID := uuid.New()
	candID := uuid.New()

	store.jobs[jobID] = &storage.Job{
		ID:            jobID,
		UserID:        userID,
		Title:         "Backend Engineer",
		ReqExperience: "3+ years",
		ReqSkills:     "go, postgresql ,docker",
		RcdURL:        "https://bucket.s3.amazonaws.com/rcd/backend.pdf",
	}
	store.candidates[candID] = &storage.Candidate{
		ID: candID, JobID: jobID, UserID: userID,
		Name: "Jane Dev", Status: storage.StatusParsed,
	}
	store.skills[candID] = []string{"Go", "Docker"}
	store.experiences[candID] = []storage.WorkExperience{
		{Title: "Software Engineer", StartDate: date(2020, time.January, 1), EndDate: datePtr(2022, time.January, 1)},
		{Title: "Senior Engineer", StartDate: date(2022, time.January, 1), EndDate: datePtr(2023, time.July, 1)},
	}

	a := NewAssembler(store)
	a.now = func() time.Time { return date(2024, time.January, 1) }

	detail, err := a.Build(context.Background(), candID)
	require.NoError(t, err)

	assert.Equal(t, candID, detail.CandidateID)
	assert.Equal(t, jobID, detail.JobID)
	assert.Equal(t, userID, detail.UserID)
	assert.Equal(t, "Backend Engineer", detail.JD.Title)
	assert.Equal(t, "go, postgresql, docker", detail.JD.ReqSkills)
	assert.Equal(t, "backend.pdf", detail.RcdFileKey)
	assert.Equal(t, []string{"Go", "Docker"}, detail.Candidate.Skill)
	assert.Equal(t, []string{"Software Engineer", "Senior Engineer"}, detail.Candidate.Experience.Titles)
	assert.Equal(t, "3.5 years", detail.Candidate.Experience.Experience)
	assert.InDelta(t, 3.5, detail.TotalYears, 0.001)
}

func TestAssemblerBuildCandidateNotFound(t *testing.T) {
	a := NewAssembler(newFakeStore())

	_, err := a.Build(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrCandidateNotFound)
}

func TestAssemblerBuildMissingJob(t *testing.T) {
	store := newFakeStore()
	candID := uuid.New()
	store.candidates[candID] = &storage.Candidate{
		ID: candID, JobID: uuid.New(), Status: storage.StatusParsed,
	}

	a := NewAssembler(store)

	_, err := a.Build(context.Background(), candID)
	assert.ErrorIs(t, err, ErrMissingJobDetails)
}

func TestAssemblerBuildEmptyRcdURL(t *testing.T) {
	store := newFakeStore()
	jobID := uuid.New()
	candID := uuid.New()
	store.jobs[jobID] = &storage.Job{ID: jobID, Title: "QA Engineer"}
	store.candidates[candID] = &storage.Candidate{ID: candID, JobID: jobID}

	a := NewAssembler(store)

	detail, err := a.Build(context.Background(), candID)
	require.NoError(t, err)
	assert.Empty(t, detail.RcdFileKey)
}
