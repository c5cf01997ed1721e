package domain

// SEOTargets are the normalized keyword targets a reply is scored against.
// Required and optional keywords never overlap.
type SEOTargets struct {
	RequiredKeywords []string `json:"requiredKeywords"`
	OptionalKeywords []string `json:"optionalKeywords"`
	GeoTerms         []string `json:"geoTerms"`
}

// Empty reports whether no SEO targets are configured.
func (t SEOTargets) Empty() bool {
	return len(t.RequiredKeywords) == 0 && len(t.OptionalKeywords) == 0 && len(t.GeoTerms) == 0
}

// Policy is the per-request compliance rule set.
type Policy struct {
	Rules      []string   `json:"rules"`
	SEOTargets SEOTargets `json:"seoTargets"`
}
