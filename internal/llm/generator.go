package llm

import (
	"context"
	"strconv"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/jonesrussell/north-cloud/review-responder/internal/capability"
	infralogger "github.com/jonesrussell/north-cloud/review-responder/internal/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/review-responder/internal/telemetry"
)

const draftSystemPrompt = `You write public replies to customer reviews on a business profile.
Use the evidence only and follow the SEO brief naturally.
When a previous draft is given, produce meaningfully different wording.
Respond with the reply text only. No markdown, no JSON wrappers.`

var _ capability.DraftGenerator = (*DraftGenerator)(nil)

// DraftGenerator produces reply drafts.
type DraftGenerator struct {
	caller
}

// NewDraftGenerator creates a draft generator.
func NewDraftGenerator(
	sender MessageSender,
	cfg ProgramConfig,
	tel *telemetry.Provider,
	log infralogger.Logger,
) *DraftGenerator {
	return &DraftGenerator{caller: caller{
		sender:    sender,
		cfg:       cfg,
		telemetry: tel,
		logger:    log,
		name:      "draft",
	}}
}

// Generate implements capability.DraftGenerator. Empty output is returned as
// is; the orchestrator decides what an empty draft means.
func (g *DraftGenerator) Generate(ctx context.Context, req capability.GenerateRequest) (string, error) {
	attempt := max(1, req.Attempt)
	messages := demoMessages(g.cfg.Program, renderDraftInputs)
	messages = append(messages,
		anthropic.NewUserMessage(anthropic.NewTextBlock(renderDraftInputs(map[string]string{
			"evidence_json":        req.EvidenceJSON,
			"seo_brief":            req.SEOBrief,
			"previous_draft_text":  req.PreviousDraftText,
			"regeneration_attempt": strconv.Itoa(attempt),
		}))),
	)

	return g.call(ctx, req.Model, g.cfg.Program.SystemPrompt(draftSystemPrompt), messages)
}

// ArtifactVersion implements capability.Fingerprinted.
func (g *DraftGenerator) ArtifactVersion() string {
	return g.cfg.Program.ArtifactVersion()
}

var draftFields = []string{"evidence_json", "seo_brief", "previous_draft_text", "regeneration_attempt"}

func renderDraftInputs(inputs map[string]string) string {
	return renderFields(draftFields, inputs)
}

// renderFields writes one "name: value" section per field, in order.
func renderFields(fields []string, inputs map[string]string) string {
	var b strings.Builder
	for i, field := range fields {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(field)
		b.WriteString(":\n")
		b.WriteString(inputs[field])
	}
	return b.String()
}
