// Package policy derives the per-request compliance policy and the SEO brief
// handed to the draft generator.
package policy

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/jonesrussell/north-cloud/review-responder/internal/domain"
	"github.com/jonesrussell/north-cloud/review-responder/internal/textmatch"
)

// Target caps.
const (
	MaxRequiredKeywords = 2
	MaxOptionalKeywords = 3
	MaxGeoTerms         = 1
)

// BaseRules apply to every reply.
var BaseRules = []string{
	"The reply must not claim actions were taken unless the review comment explicitly states it.",
	"The reply must not invent menu items, timing, staff names, refunds, fixes, or other specifics not present in evidence.comment.",
	"If evidence.comment is empty/null, the reply must stay generic and avoid assumptions.",
	"Do not include private data, phone numbers, or fabricated compensation offers.",
}

// SEORules are appended when the evidence configures any SEO target.
var SEORules = []string{
	"Use SEO targets naturally: include at least one required keyword when available, optional keywords only if relevant, and at most one geo term.",
	"Never repeat keywords unnaturally or force phrases that do not match the review context.",
}

const noTargetsBrief = "No specific SEO keywords are configured. Keep response natural and concise."

// Build derives the policy for one review. Primary keywords take priority for
// the required slots; secondary keywords fill them only when no primary
// keyword is configured.
func Build(evidence *domain.EvidenceSnapshot) domain.Policy {
	primary := textmatch.NormalizeTerms(evidence.SEOProfile.PrimaryKeywords)
	secondary := textmatch.NormalizeTerms(evidence.SEOProfile.SecondaryKeywords)
	geo := textmatch.NormalizeTerms(evidence.SEOProfile.GeoTerms)

	required := head(primary, MaxRequiredKeywords)
	if len(required) == 0 {
		required = head(secondary, MaxRequiredKeywords)
	}

	optional := make([]string, 0, MaxOptionalKeywords)
	for _, term := range slices.Concat(tail(primary, MaxRequiredKeywords), secondary) {
		if len(optional) == MaxOptionalKeywords {
			break
		}
		if slices.Contains(required, term) || slices.Contains(optional, term) {
			continue
		}
		optional = append(optional, term)
	}

	targets := domain.SEOTargets{
		RequiredKeywords: required,
		OptionalKeywords: optional,
		GeoTerms:         head(geo, MaxGeoTerms),
	}

	rules := slices.Clone(BaseRules)
	if !targets.Empty() {
		rules = append(rules, SEORules...)
	}

	return domain.Policy{Rules: rules, SEOTargets: targets}
}

// SEOBrief renders the advisory SEO instruction for the draft generator.
func SEOBrief(p domain.Policy) string {
	targets := p.SEOTargets
	if targets.Empty() {
		return noTargetsBrief
	}

	parts := []string{
		"Optimize the reply for local SEO while sounding natural.",
		"Required keywords (use at least one): " + listOrNone(targets.RequiredKeywords),
		"Optional keywords (use only if relevant): " + listOrNone(targets.OptionalKeywords),
		"Geo terms (use at most one if natural): " + listOrNone(targets.GeoTerms),
		"Do not keyword-stuff, repeat terms, or add facts not grounded in evidence.",
	}
	return strings.Join(parts, " ")
}

// JSON encodes the policy in the compact form passed to the verifier.
func JSON(p domain.Policy) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal policy: %w", err)
	}
	return string(data), nil
}

func listOrNone(terms []string) string {
	if len(terms) == 0 {
		return "none"
	}
	return strings.Join(terms, ", ")
}

// head copies at most n leading terms into a non-nil slice so empty lists
// encode as [] rather than null.
func head(terms []string, n int) []string {
	out := make([]string, 0, n)
	return append(out, terms[:min(n, len(terms))]...)
}

func tail(terms []string, n int) []string {
	if len(terms) <= n {
		return nil
	}
	return terms[n:]
}
