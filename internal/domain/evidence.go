// Package domain holds the data model shared by the review-processing pipeline.
package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Star rating bounds accepted for a review.
const (
	MinStarRating = 1
	MaxStarRating = 5
)

// EvidenceHighlight marks a labelled span inside the review comment.
type EvidenceHighlight struct {
	Start int    `json:"start" validate:"gte=0"`
	End   int    `json:"end"   validate:"gte=0"`
	Label string `json:"label" validate:"required"`
}

// EvidenceTone describes the voice the reply should be written in.
type EvidenceTone struct {
	Preset             string  `json:"preset"                       validate:"required"`
	CustomInstructions *string `json:"customInstructions,omitempty"`
}

// EvidenceSEOProfile lists the keywords configured for the review's location.
type EvidenceSEOProfile struct {
	PrimaryKeywords   []string `json:"primaryKeywords"`
	SecondaryKeywords []string `json:"secondaryKeywords"`
	GeoTerms          []string `json:"geoTerms"`
}

// EvidenceSnapshot is the immutable set of facts a reply is grounded on.
type EvidenceSnapshot struct {
	StarRating          int                 `json:"starRating"                    validate:"gte=1,lte=5"`
	Comment             *string             `json:"comment,omitempty"`
	ReviewerDisplayName *string             `json:"reviewerDisplayName,omitempty"`
	ReviewerIsAnonymous bool                `json:"reviewerIsAnonymous"`
	LocationDisplayName string              `json:"locationDisplayName"           validate:"required"`
	CreateTime          string              `json:"createTime"                    validate:"required"`
	Highlights          []EvidenceHighlight `json:"highlights"                    validate:"dive"`
	MentionKeywords     []string            `json:"mentionKeywords"`
	SEOProfile          EvidenceSEOProfile  `json:"seoProfile"`
	Tone                EvidenceTone        `json:"tone"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func evidenceValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the structural constraints of the snapshot.
// The returned error lists every failing field in declaration order.
func (e *EvidenceSnapshot) Validate() error {
	err := evidenceValidator().Struct(e)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !asValidationErrors(err, &fieldErrs) {
		return fmt.Errorf("invalid evidence: %w", err)
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid evidence: %s", strings.Join(problems, "; "))
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	ve, ok := err.(validator.ValidationErrors) //nolint:errorlint // validator returns the concrete slice type
	if ok {
		*target = ve
	}
	return ok
}

// JSON returns the compact JSON form handed to the capability providers.
func (e *EvidenceSnapshot) JSON() (string, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("marshal evidence: %w", err)
	}
	return string(data), nil
}
