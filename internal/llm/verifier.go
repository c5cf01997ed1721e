package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/jonesrussell/north-cloud/review-responder/internal/capability"
	infralogger "github.com/jonesrussell/north-cloud/review-responder/internal/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/review-responder/internal/telemetry"
)

const verifySystemPrompt = `You audit a draft reply to a customer review.
Decide whether the draft complies with the policy and the evidence without hallucinations.
Respond with a single JSON object and nothing else:
{"passed": boolean, "violations": [{"code": string, "message": string, "snippet": string}], "suggested_rewrite": string}
passed is true only when the draft is compliant. suggested_rewrite is an empty string when no rewrite is needed.`

// errNoJSONObject means the verifier reply held no JSON object.
var errNoJSONObject = errors.New("verifier reply is not a json object")

var _ capability.ComplianceVerifier = (*ComplianceVerifier)(nil)

// ComplianceVerifier asks the model for a compliance verdict.
type ComplianceVerifier struct {
	caller
}

// NewComplianceVerifier creates a compliance verifier.
func NewComplianceVerifier(
	sender MessageSender,
	cfg ProgramConfig,
	tel *telemetry.Provider,
	log infralogger.Logger,
) *ComplianceVerifier {
	return &ComplianceVerifier{caller: caller{
		sender:    sender,
		cfg:       cfg,
		telemetry: tel,
		logger:    log,
		name:      "verify",
	}}
}

// Verify implements capability.ComplianceVerifier. The returned document is
// the raw object the model produced.
func (v *ComplianceVerifier) Verify(ctx context.Context, req capability.VerifyRequest) (json.RawMessage, error) {
	messages := demoMessages(v.cfg.Program, renderVerifyInputs)
	messages = append(messages,
		anthropic.NewUserMessage(anthropic.NewTextBlock(renderVerifyInputs(map[string]string{
			"evidence_json": req.EvidenceJSON,
			"draft_text":    req.DraftText,
			"policy_json":   req.PolicyJSON,
		}))),
	)

	text, err := v.call(ctx, req.Model, v.cfg.Program.SystemPrompt(verifySystemPrompt), messages)
	if err != nil {
		return nil, err
	}

	return ExtractJSONObject(text)
}

// ArtifactVersion implements capability.Fingerprinted.
func (v *ComplianceVerifier) ArtifactVersion() string {
	return v.cfg.Program.ArtifactVersion()
}

var verifyFields = []string{"evidence_json", "draft_text", "policy_json"}

func renderVerifyInputs(inputs map[string]string) string {
	return renderFields(verifyFields, inputs)
}

// ExtractJSONObject returns the outermost JSON object in text, tolerating
// code fences and surrounding prose.
func ExtractJSONObject(text string) (json.RawMessage, error) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return nil, errNoJSONObject
	}

	candidate := []byte(text[start : end+1])
	if !json.Valid(candidate) {
		return nil, errNoJSONObject
	}
	return json.RawMessage(candidate), nil
}
