package screening

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeRecommendation(t *testing.T) {
	cases := []struct {
		raw  string
		want Recommendation
	}{
		{"YES", RecommendationYes},
		{"yes", RecommendationYes},
		{"Yes", RecommendationYes},
		{"  yes  ", RecommendationYes},
		{"NO", RecommendationNo},
		{"no", RecommendationNo},
		{"", RecommendationNo},
		{"maybe", RecommendationNo},
		{"YES!", RecommendationNo},
		{"strong yes", RecommendationNo},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, DecodeRecommendation(tc.raw), "raw=%q", tc.raw)
	}
}

func TestIsExpectedRecommendation(t *testing.T) {
	assert.True(t, isExpectedRecommendation("YES"))
	assert.True(t, isExpectedRecommendation("no"))
	assert.False(t, isExpectedRecommendation("maybe"))
	assert.False(t, isExpectedRecommendation(""))
}
