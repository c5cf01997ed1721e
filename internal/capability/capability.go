// Package capability declares the external collaborators the pipeline drives:
// a draft generator and a compliance verifier.
package capability

import (
	"context"
	"encoding/json"
)

// ArtifactMissing is the artifact version reported when no program artifact
// is configured for a provider.
const ArtifactMissing = "missing"

// GenerateRequest is one draft generation attempt.
type GenerateRequest struct {
	EvidenceJSON      string
	SEOBrief          string
	PreviousDraftText string
	// Attempt is 1-based.
	Attempt int
	// Model overrides the provider's configured model when non-empty.
	Model string
}

// VerifyRequest asks for a compliance verdict on one draft.
type VerifyRequest struct {
	EvidenceJSON string
	DraftText    string
	PolicyJSON   string
	Model        string
}

// DraftGenerator produces candidate reply text. Implementations must be safe
// for concurrent use.
type DraftGenerator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// ComplianceVerifier judges a draft against a policy. The returned document is
// untrusted and must be normalized before use. Implementations must be safe
// for concurrent use.
type ComplianceVerifier interface {
	Verify(ctx context.Context, req VerifyRequest) (json.RawMessage, error)
}

// Fingerprinted providers expose the content fingerprint of their program artifact.
type Fingerprinted interface {
	ArtifactVersion() string
}

// ArtifactVersionOf returns p's artifact version, or ArtifactMissing when p
// does not carry one.
func ArtifactVersionOf(p any) string {
	if f, ok := p.(Fingerprinted); ok {
		if v := f.ArtifactVersion(); v != "" {
			return v
		}
	}
	return ArtifactMissing
}
