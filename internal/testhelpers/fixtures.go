package testhelpers

import "github.com/jonesrussell/north-cloud/review-responder/internal/domain"

// SampleEvidence returns a valid evidence snapshot for a five-star review
// with one primary keyword and one geo term.
func SampleEvidence() domain.EvidenceSnapshot {
	comment := "Loved the patio dining and the chowder!"
	name := "Sam"
	return domain.EvidenceSnapshot{
		StarRating:          5,
		Comment:             &comment,
		ReviewerDisplayName: &name,
		LocationDisplayName: "Harbour Grill",
		CreateTime:          "2026-03-14T18:30:00Z",
		Highlights:          []domain.EvidenceHighlight{{Start: 14, End: 26, Label: "patio"}},
		MentionKeywords:     []string{"patio"},
		SEOProfile: domain.EvidenceSEOProfile{
			PrimaryKeywords: []string{"Patio Dining"},
			GeoTerms:        []string{"Halifax"},
		},
		Tone: domain.EvidenceTone{Preset: "warm"},
	}
}
