package processor

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/north-cloud/review-responder/internal/capability"
	"github.com/jonesrussell/north-cloud/review-responder/internal/domain"
	"github.com/jonesrussell/north-cloud/review-responder/internal/serviceerror"
)

// GenerateDraftRequest is the single-shot generation call of the two-call API.
type GenerateDraftRequest struct {
	OrgID               string                     `json:"orgId,omitempty"`
	ReviewID            string                     `json:"reviewId,omitempty"`
	Evidence            domain.EvidenceSnapshot    `json:"evidence"`
	PreviousDraftText   *string                    `json:"previousDraftText,omitempty"`
	RegenerationAttempt int                        `json:"regenerationAttempt,omitempty"`
	Execution           *domain.ExecutionOverrides `json:"execution,omitempty"`
}

// GenerateDraftResponse carries one generated draft.
type GenerateDraftResponse struct {
	DraftText string `json:"draftText"`
	Model     string `json:"model"`
	TraceID   string `json:"traceId"`
}

// VerifyDraftRequest asks for a verdict on a caller-supplied draft.
type VerifyDraftRequest struct {
	OrgID     string                     `json:"orgId,omitempty"`
	ReviewID  string                     `json:"reviewId,omitempty"`
	Evidence  domain.EvidenceSnapshot    `json:"evidence"`
	DraftText string                     `json:"draftText"`
	Execution *domain.ExecutionOverrides `json:"execution,omitempty"`
}

// VerifyDraftResponse is the merged verdict for one draft.
type VerifyDraftResponse struct {
	domain.VerifierResult
	Model   string `json:"model"`
	TraceID string `json:"traceId"`
}

// GenerateDraft calls the generator exactly once with the caller's attempt
// number. No equivalence check is made.
func (s *Service) GenerateDraft(ctx context.Context, req *GenerateDraftRequest) (*GenerateDraftResponse, error) {
	exec := s.resolve(req.Execution)

	in, err := s.prepare(&req.Evidence)
	if err != nil {
		return nil, serviceerror.Classify(err)
	}

	attempt := max(1, req.RegenerationAttempt)
	previous := ""
	if p := domain.TrimmedOrNil(req.PreviousDraftText); p != nil {
		previous = *p
	}

	traceID := uuid.NewString()
	started := time.Now()
	text, err := s.generator.Generate(ctx, capability.GenerateRequest{
		EvidenceJSON:      in.evidenceJSON,
		SEOBrief:          in.seoBrief,
		PreviousDraftText: previous,
		Attempt:           attempt,
		Model:             exec.models.Draft,
	})
	s.telemetry.RecordProviderCall("draft", err, time.Since(started))
	if err != nil {
		return nil, serviceerror.Classify(err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, serviceerror.Schema("Draft output was empty.")
	}

	return &GenerateDraftResponse{DraftText: text, Model: exec.models.Draft, TraceID: traceID}, nil
}

// VerifyDraft verifies a caller-supplied draft and merges the SEO analysis.
func (s *Service) VerifyDraft(ctx context.Context, req *VerifyDraftRequest) (*VerifyDraftResponse, error) {
	exec := s.resolve(req.Execution)

	in, err := s.prepare(&req.Evidence)
	if err != nil {
		return nil, serviceerror.Classify(err)
	}

	draft := strings.TrimSpace(req.DraftText)
	if draft == "" {
		return nil, serviceerror.Invalid("draftText is required.")
	}

	traceID := uuid.NewString()
	verdict, _, err := s.verifyAndScore(ctx, in, draft, exec.models.Verify)
	if err != nil {
		return nil, serviceerror.Classify(err)
	}

	return &VerifyDraftResponse{VerifierResult: verdict, Model: exec.models.Verify, TraceID: traceID}, nil
}
