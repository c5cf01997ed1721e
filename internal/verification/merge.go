package verification

import (
	"slices"
	"strings"

	"github.com/jonesrussell/north-cloud/review-responder/internal/domain"
)

const missingKeywordSnippetLimit = 3

// SEO violation messages.
const (
	MessageRequiredKeywordMissing = "Draft is missing required SEO keywords configured for this location."
	MessageGeoOveruse             = "Draft overuses geo terms and sounds unnatural."
	MessageKeywordStuffing        = "Draft appears keyword-stuffed and should be rewritten naturally."
)

// Merge folds the SEO analysis into the verifier's verdict. Any SEO problem
// forces a failing verdict. Violations are deduplicated by (code, message)
// with the first occurrence kept in place. SuggestedRewrite passes through.
func Merge(verdict domain.VerifierResult, quality domain.SEOQuality) domain.VerifierResult {
	pass := verdict.Pass
	violations := slices.Clone(verdict.Violations)

	if len(quality.MissingRequiredKeywords) > 0 {
		pass = false
		missing := quality.MissingRequiredKeywords[:min(missingKeywordSnippetLimit, len(quality.MissingRequiredKeywords))]
		snippet := strings.Join(missing, ", ")
		violations = append(violations, domain.Violation{
			Code:    domain.ViolationSEORequiredKeywordMissing,
			Message: MessageRequiredKeywordMissing,
			Snippet: &snippet,
		})
	}

	if quality.GeoTermOveruse {
		pass = false
		violations = append(violations, domain.Violation{
			Code:    domain.ViolationSEOGeoOveruse,
			Message: MessageGeoOveruse,
		})
	}

	if quality.StuffingRisk {
		pass = false
		violations = append(violations, domain.Violation{
			Code:    domain.ViolationSEOKeywordStuffing,
			Message: MessageKeywordStuffing,
		})
	}

	return domain.VerifierResult{
		Pass:             pass,
		Violations:       dedupe(violations),
		SuggestedRewrite: verdict.SuggestedRewrite,
	}
}

type violationKey struct {
	code    string
	message string
}

func dedupe(violations []domain.Violation) []domain.Violation {
	out := make([]domain.Violation, 0, len(violations))
	seen := make(map[violationKey]struct{}, len(violations))
	for _, v := range violations {
		key := violationKey{code: v.Code, message: v.Message}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
