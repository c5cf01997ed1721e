// Package seo scores how a draft uses the policy's SEO targets.
package seo

import (
	"slices"

	"github.com/jonesrussell/north-cloud/review-responder/internal/domain"
	"github.com/jonesrussell/north-cloud/review-responder/internal/textmatch"
)

// Category weights for the blended keyword coverage.
const (
	requiredWeight = 0.7
	optionalWeight = 0.2
	geoWeight      = 0.1
)

// Stuffing thresholds.
const (
	maxTermRepeat        = 3
	densityMentionsFloor = 3
	maxKeywordDensity    = 0.12
)

type category struct {
	terms  []string
	counts []int
}

func (c category) hits() int {
	n := 0
	for _, count := range c.counts {
		if count > 0 {
			n++
		}
	}
	return n
}

func (c category) coverage() float64 {
	return textmatch.Ratio(c.hits(), len(c.terms))
}

// Evaluate scores draft against the policy's SEO targets. Term lists are
// normalized again so a policy built elsewhere scores the same way.
func Evaluate(draft string, p domain.Policy) domain.SEOQuality {
	required := textmatch.NormalizeTerms(p.SEOTargets.RequiredKeywords)
	optional := textmatch.NormalizeTerms(p.SEOTargets.OptionalKeywords)
	geo := textmatch.NormalizeTerms(p.SEOTargets.GeoTerms)

	counts := textmatch.CountPhrases(draft, slices.Concat(required, optional, geo))
	req := category{terms: required, counts: counts[:len(required)]}
	opt := category{terms: optional, counts: counts[len(required) : len(required)+len(optional)]}
	geoCat := category{terms: geo, counts: counts[len(required)+len(optional):]}

	mentions := 0
	maxRepeat := 0
	for _, c := range counts {
		mentions += c
		maxRepeat = max(maxRepeat, c)
	}

	density := float64(mentions) / float64(max(1, textmatch.WordCount(draft)))

	missing := make([]string, 0, len(required))
	for i, term := range req.terms {
		if req.counts[i] == 0 {
			missing = append(missing, term)
		}
	}

	geoHits := geoCat.hits()
	geoOveruse := geoHits > 1
	stuffing := geoOveruse ||
		maxRepeat >= maxTermRepeat ||
		(mentions >= densityMentionsFloor && density > maxKeywordDensity)

	return domain.SEOQuality{
		KeywordCoverage:         textmatch.RoundRatio(weightedCoverage(req, opt, geoCat)),
		RequiredKeywordUsed:     len(missing) == 0,
		RequiredKeywordCoverage: textmatch.RoundRatio(req.coverage()),
		OptionalKeywordCoverage: textmatch.RoundRatio(opt.coverage()),
		GeoTermUsed:             geoHits > 0,
		GeoTermOveruse:          geoOveruse,
		StuffingRisk:            stuffing,
		KeywordMentions:         mentions,
		MissingRequiredKeywords: missing,
	}
}

// weightedCoverage blends the coverage of non-empty categories, normalized by
// the weights actually included. No targets at all is fully covered.
func weightedCoverage(req, opt, geo category) float64 {
	var numerator, denominator float64
	for _, part := range []struct {
		c      category
		weight float64
	}{
		{req, requiredWeight},
		{opt, optionalWeight},
		{geo, geoWeight},
	} {
		if len(part.c.terms) == 0 {
			continue
		}
		numerator += part.c.coverage() * part.weight
		denominator += part.weight
	}
	if denominator == 0 {
		return 1.0
	}
	return numerator / denominator
}
