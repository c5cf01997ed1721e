package domain

// Violation codes added by the SEO merge step.
const (
	ViolationSEORequiredKeywordMissing = "SEO_REQUIRED_KEYWORD_MISSING"
	ViolationSEOGeoOveruse             = "SEO_GEO_OVERUSE"
	ViolationSEOKeywordStuffing        = "SEO_KEYWORD_STUFFING"
)

// Violation is a single policy breach reported for a draft.
type Violation struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Snippet *string `json:"snippet,omitempty"`
}

// VerifierResult is the compliance verdict for one draft.
type VerifierResult struct {
	Pass             bool        `json:"pass"`
	Violations       []Violation `json:"violations"`
	SuggestedRewrite *string     `json:"suggestedRewrite"`
}

// Codes returns the violation codes in report order.
func (r VerifierResult) Codes() []string {
	codes := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		codes[i] = v.Code
	}
	return codes
}

// SEOQuality is the deterministic keyword-usage analysis of a draft.
type SEOQuality struct {
	KeywordCoverage         float64  `json:"keywordCoverage"`
	RequiredKeywordUsed     bool     `json:"requiredKeywordUsed"`
	RequiredKeywordCoverage float64  `json:"requiredKeywordCoverage"`
	OptionalKeywordCoverage float64  `json:"optionalKeywordCoverage"`
	GeoTermUsed             bool     `json:"geoTermUsed"`
	GeoTermOveruse          bool     `json:"geoTermOveruse"`
	StuffingRisk            bool     `json:"stuffingRisk"`
	KeywordMentions         int      `json:"keywordMentions"`
	MissingRequiredKeywords []string `json:"missingRequiredKeywords"`
}
