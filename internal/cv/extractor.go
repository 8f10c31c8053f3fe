package cv

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// skillKeywords is the keyword list used for skill tagging. Matching is
// case-insensitive against the resume text.
var skillKeywords = []string{
	"Go", "Golang", "Python", "Java", "JavaScript", "TypeScript", "C++", "C#",
	"React", "Vue", "Angular", "Node.js", "Docker", "Kubernetes",
	"PostgreSQL", "MySQL", "MongoDB", "Redis", "AWS", "Azure", "GCP",
	"GraphQL", "REST", "Microservices", "Git", "CI/CD", "Terraform",
	"Machine Learning", "Data Science", "DevOps", "Linux", "SQL",
}

// ExtractedProfile is what upload-time extraction yields: skill tags plus a
// best-effort work history with dates, enough for the screening payload.
type ExtractedProfile struct {
	Email       string
	Phone       string
	Skills      []string
	Experiences []Experience
}

// Experience is a single extracted employment entry.
type Experience struct {
	Title     string
	Company   string
	StartDate time.Time
	EndDate   *time.Time // nil = present
}

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?[0-9][0-9 ()\-]{7,}[0-9]`)
	// e.g. "Backend Engineer at Acme (2019 - 2022)" or "... (2020 - present)"
	experienceRe = regexp.MustCompile(`(?m)^\s*(.{2,60}?)\s+at\s+(.{2,60}?)\s*\(\s*(\d{4})\s*[-–]\s*(\d{4}|present|current)\s*\)`)
)

// Extract pulls contact info, skill tags and work history from resume text.
func Extract(text string) *ExtractedProfile {
	profile := &ExtractedProfile{}

	profile.Email = emailRe.FindString(text)
	profile.Phone = phoneRe.FindString(text)

	textLower := strings.ToLower(text)
	seen := map[string]bool{}
	for _, skill := range skillKeywords {
		if seen[skill] {
			continue
		}
		if strings.Contains(textLower, strings.ToLower(skill)) {
			profile.Skills = append(profile.Skills, skill)
			seen[skill] = true
		}
	}

	for _, m := range experienceRe.FindAllStringSubmatch(text, -1) {
		startYear, err := strconv.Atoi(m[3])
		if err != nil {
			continue
		}
		exp := Experience{
			Title:     strings.TrimSpace(m[1]),
			Company:   strings.TrimSpace(m[2]),
			StartDate: time.Date(startYear, time.January, 1, 0, 0, 0, 0, time.UTC),
		}
		if endYear, err := strconv.Atoi(m[4]); err == nil {
			end := time.Date(endYear, time.December, 31, 0, 0, 0, 0, time.UTC)
			exp.EndDate = &end
		}
		profile.Experiences = append(profile.Experiences, exp)
	}

	return profile
}
