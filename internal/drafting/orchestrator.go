// Package drafting drives the draft generator through the bounded
// regeneration loop.
package drafting

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/north-cloud/review-responder/internal/capability"
	"github.com/jonesrussell/north-cloud/review-responder/internal/domain"
	infralogger "github.com/jonesrussell/north-cloud/review-responder/internal/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/review-responder/internal/serviceerror"
	"github.com/jonesrussell/north-cloud/review-responder/internal/telemetry"
	"github.com/jonesrussell/north-cloud/review-responder/internal/textmatch"
)

// DefaultMaxAttempts bounds the regeneration loop when a previous draft exists.
const DefaultMaxAttempts = 3

const emptyDraftMessage = "Draft output was empty."

// Input is one request for a draft.
type Input struct {
	EvidenceJSON      string
	SEOBrief          string
	PreviousDraftText string
	Model             string
}

// Outcome is the accepted draft and how it was obtained.
type Outcome struct {
	DraftText  string
	TraceID    string
	Generation domain.Generation
}

// Config tunes the orchestrator.
type Config struct {
	MaxAttempts int
}

// Orchestrator obtains drafts from a DraftGenerator.
type Orchestrator struct {
	generator   capability.DraftGenerator
	maxAttempts int
	telemetry   *telemetry.Provider
	logger      infralogger.Logger
	newTraceID  func() string
}

// NewOrchestrator creates an orchestrator. A non-positive MaxAttempts falls
// back to DefaultMaxAttempts.
func NewOrchestrator(
	generator capability.DraftGenerator,
	cfg Config,
	tel *telemetry.Provider,
	log infralogger.Logger,
) *Orchestrator {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if log == nil {
		log = infralogger.NewNop()
	}
	return &Orchestrator{
		generator:   generator,
		maxAttempts: maxAttempts,
		telemetry:   tel,
		logger:      log,
		newTraceID:  uuid.NewString,
	}
}

// Generate runs the regeneration loop.
//
// Without a previous draft the generator is called once. With one, attempts
// continue until a candidate is not equivalent to the previous draft or the
// attempt budget is spent. When every candidate is equivalent the last one is
// returned with Changed=false and AttemptCount=1.
//
// Generator errors are returned unchanged. An empty accepted draft is a
// MODEL_SCHEMA_ERROR.
func (o *Orchestrator) Generate(ctx context.Context, in Input) (Outcome, error) {
	previous := strings.TrimSpace(in.PreviousDraftText)
	maxAttempts := 1
	if previous != "" {
		maxAttempts = o.maxAttempts
	}

	log := infralogger.FromContextOr(ctx, o.logger)

	out := Outcome{Generation: domain.Generation{Attempted: true, AttemptCount: 1}}
	attempts := 0
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		attempts = attempt
		traceID := o.newTraceID()

		candidate, err := o.callGenerator(ctx, capability.GenerateRequest{
			EvidenceJSON:      in.EvidenceJSON,
			SEOBrief:          in.SEOBrief,
			PreviousDraftText: previous,
			Attempt:           attempt,
			Model:             in.Model,
		})
		if err != nil {
			log.Warn("Draft generation attempt failed",
				infralogger.Int("attempt", attempt),
				infralogger.TraceID(traceID),
				infralogger.Error(err),
			)
			return Outcome{}, err
		}

		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			return Outcome{}, serviceerror.Schema(emptyDraftMessage)
		}

		out.DraftText = candidate
		out.TraceID = traceID

		if previous == "" || !textmatch.Equivalent(previous, candidate) {
			out.Generation.Changed = true
			out.Generation.AttemptCount = attempt
			break
		}

		log.Debug("Draft equivalent to previous, regenerating",
			infralogger.Int("attempt", attempt),
			infralogger.Int("max_attempts", maxAttempts),
			infralogger.TraceID(traceID),
		)
	}

	o.telemetry.RecordDraftLoop(previous != "", attempts, out.Generation.Changed)
	log.Debug("Draft accepted",
		infralogger.Int("attempts", attempts),
		infralogger.Bool("changed", out.Generation.Changed),
		infralogger.TraceID(out.TraceID),
	)

	return out, nil
}

func (o *Orchestrator) callGenerator(ctx context.Context, req capability.GenerateRequest) (string, error) {
	start := time.Now()
	text, err := o.generator.Generate(ctx, req)
	o.telemetry.RecordProviderCall("draft", err, time.Since(start))
	return text, err
}
