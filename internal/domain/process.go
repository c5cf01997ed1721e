package domain

import "strings"

// Mode selects how a review is processed.
type Mode string

// Supported processing modes.
const (
	ModeAuto                Mode = "AUTO"
	ModeManualRegenerate    Mode = "MANUAL_REGENERATE"
	ModeVerifyExistingDraft Mode = "VERIFY_EXISTING_DRAFT"
)

// ParseMode normalizes a caller-supplied mode. ok is false for unknown modes.
func ParseMode(raw string) (mode Mode, ok bool) {
	mode = Mode(strings.ToUpper(strings.TrimSpace(raw)))
	switch mode {
	case ModeAuto, ModeManualRegenerate, ModeVerifyExistingDraft:
		return mode, true
	default:
		return mode, false
	}
}

// Decision is the terminal outcome of a process request.
type Decision string

// Decisions.
const (
	DecisionReady             Decision = "READY"
	DecisionBlockedByVerifier Decision = "BLOCKED_BY_VERIFIER"
)

// ExecutionOverrides lets a caller pin program and model identifiers for one request.
type ExecutionOverrides struct {
	ExperimentID   *string `json:"experimentId,omitempty"`
	ProgramVersion *string `json:"programVersion,omitempty"`
	DraftModel     *string `json:"draftModel,omitempty"`
	VerifyModel    *string `json:"verifyModel,omitempty"`
}

// ProcessRequest is the input to the review process controller.
type ProcessRequest struct {
	OrgID              string              `json:"orgId,omitempty"`
	ReviewID           string              `json:"reviewId,omitempty"`
	RequestID          string              `json:"requestId,omitempty"`
	Mode               string              `json:"mode"`
	Evidence           EvidenceSnapshot    `json:"evidence"`
	CurrentDraftText   *string             `json:"currentDraftText,omitempty"`
	CandidateDraftText *string             `json:"candidateDraftText,omitempty"`
	Execution          *ExecutionOverrides `json:"execution,omitempty"`
}

// Generation records what the regeneration loop did.
type Generation struct {
	Attempted    bool `json:"attempted"`
	Changed      bool `json:"changed"`
	AttemptCount int  `json:"attemptCount"`
}

// ProgramInfo identifies the program version and artifact fingerprints used.
type ProgramInfo struct {
	Version               string `json:"version"`
	DraftArtifactVersion  string `json:"draftArtifactVersion"`
	VerifyArtifactVersion string `json:"verifyArtifactVersion"`
}

// ModelInfo names the models used for drafting and verification.
type ModelInfo struct {
	Draft  string `json:"draft"`
	Verify string `json:"verify"`
}

// TraceInfo correlates the response with provider calls.
type TraceInfo struct {
	DraftTraceID  *string `json:"draftTraceId"`
	VerifyTraceID string  `json:"verifyTraceId"`
}

// ProcessResponse is the envelope returned for a processed review.
type ProcessResponse struct {
	Decision   Decision       `json:"decision"`
	DraftText  string         `json:"draftText"`
	Verifier   VerifierResult `json:"verifier"`
	SEOQuality SEOQuality     `json:"seoQuality"`
	Generation Generation     `json:"generation"`
	Program    ProgramInfo    `json:"program"`
	Models     ModelInfo      `json:"models"`
	Trace      TraceInfo      `json:"trace"`
	LatencyMs  int64          `json:"latencyMs"`
}

// TrimmedOrNil trims s and returns nil when nothing is left.
func TrimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
