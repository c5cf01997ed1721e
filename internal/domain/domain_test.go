package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/review-responder/internal/domain"
	"github.com/jonesrussell/north-cloud/review-responder/internal/testhelpers"
)

func TestParseMode(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		raw    string
		want   domain.Mode
		wantOK bool
	}{
		{raw: "AUTO", want: domain.ModeAuto, wantOK: true},
		{raw: " manual_regenerate ", want: domain.ModeManualRegenerate, wantOK: true},
		{raw: "verify_existing_draft", want: domain.ModeVerifyExistingDraft, wantOK: true},
		{raw: "", want: "", wantOK: false},
		{raw: "publish", want: "PUBLISH", wantOK: false},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			t.Parallel()

			got, ok := domain.ParseMode(tc.raw)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantOK, ok)
		})
	}
}

func TestTrimmedOrNil(t *testing.T) {
	t.Parallel()

	blank := " \n\t "
	padded := "  hello "

	assert.Nil(t, domain.TrimmedOrNil(nil))
	assert.Nil(t, domain.TrimmedOrNil(&blank))
	got := domain.TrimmedOrNil(&padded)
	require.NotNil(t, got)
	assert.Equal(t, "hello", *got)
}

func TestEvidenceSnapshot_Validate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mutate  func(e *domain.EvidenceSnapshot)
		wantErr string
	}{
		{name: "valid", mutate: func(*domain.EvidenceSnapshot) {}},
		{name: "rating too low", mutate: func(e *domain.EvidenceSnapshot) { e.StarRating = 0 }, wantErr: "StarRating"},
		{name: "rating too high", mutate: func(e *domain.EvidenceSnapshot) { e.StarRating = 6 }, wantErr: "StarRating"},
		{name: "missing location", mutate: func(e *domain.EvidenceSnapshot) { e.LocationDisplayName = "" }, wantErr: "LocationDisplayName"},
		{name: "missing create time", mutate: func(e *domain.EvidenceSnapshot) { e.CreateTime = "" }, wantErr: "CreateTime"},
		{name: "missing tone preset", mutate: func(e *domain.EvidenceSnapshot) { e.Tone.Preset = "" }, wantErr: "Preset"},
		{
			name: "negative highlight offset",
			mutate: func(e *domain.EvidenceSnapshot) {
				e.Highlights = []domain.EvidenceHighlight{{Start: -1, End: 3, Label: "food"}}
			},
			wantErr: "Start",
		},
		{
			name: "unlabelled highlight",
			mutate: func(e *domain.EvidenceSnapshot) {
				e.Highlights = []domain.EvidenceHighlight{{Start: 0, End: 3}}
			},
			wantErr: "Label",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			evidence := testhelpers.SampleEvidence()
			tc.mutate(&evidence)

			err := evidence.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid evidence")
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestEvidenceSnapshot_JSONOmitsAbsentOptionals(t *testing.T) {
	t.Parallel()

	evidence := testhelpers.SampleEvidence()
	evidence.Comment = nil
	evidence.ReviewerDisplayName = nil

	encoded, err := evidence.JSON()
	require.NoError(t, err)
	assert.NotContains(t, encoded, `"comment"`)
	assert.NotContains(t, encoded, `"reviewerDisplayName"`)
	assert.Contains(t, encoded, `"starRating":`)
}

func TestVerifierResult_Codes(t *testing.T) {
	t.Parallel()

	result := domain.VerifierResult{Violations: []domain.Violation{
		{Code: "HALLUCINATED_FACT", Message: "a"},
		{Code: "SEO_GEO_OVERUSE", Message: "b"},
	}}

	assert.Equal(t, []string{"HALLUCINATED_FACT", "SEO_GEO_OVERUSE"}, result.Codes())
	assert.Equal(t, []string{}, domain.VerifierResult{}.Codes())
}

func TestSEOTargets_Empty(t *testing.T) {
	t.Parallel()

	assert.True(t, domain.SEOTargets{}.Empty())
	assert.False(t, domain.SEOTargets{GeoTerms: []string{"halifax"}}.Empty())
}
