package screening

import "strings"

// Recommendation is the normalized hiring recommendation derived from the
// scoring service's free-form recommendation string.
type Recommendation string

const (
	RecommendationYes    Recommendation = "YES"
	RecommendationNo     Recommendation = "NO"
	RecommendationNotSet Recommendation = "NOT_SET"
)

// DecodeRecommendation is the single place the recommendation vocabulary is
// interpreted. Only a case-insensitive "YES" recommends; everything else,
// including absent or malformed values, fails closed to NO.
func DecodeRecommendation(raw string) Recommendation {
	if strings.EqualFold(strings.TrimSpace(raw), "YES") {
		return RecommendationYes
	}
	return RecommendationNo
}

// isExpectedRecommendation reports whether raw belongs to the vocabulary the
// scoring service is supposed to emit. Unexpected values are decoded as NO but
// logged for audit.
func isExpectedRecommendation(raw string) bool {
	t := strings.TrimSpace(raw)
	return strings.EqualFold(t, "YES") || strings.EqualFold(t, "NO")
}
