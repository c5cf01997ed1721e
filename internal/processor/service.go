// Package processor is the review process controller: it turns a process
// request into a verified draft and a READY / BLOCKED_BY_VERIFIER decision.
package processor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/jonesrussell/north-cloud/review-responder/internal/capability"
	"github.com/jonesrussell/north-cloud/review-responder/internal/domain"
	"github.com/jonesrussell/north-cloud/review-responder/internal/drafting"
	infralogger "github.com/jonesrussell/north-cloud/review-responder/internal/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/review-responder/internal/policy"
	"github.com/jonesrussell/north-cloud/review-responder/internal/seo"
	"github.com/jonesrussell/north-cloud/review-responder/internal/serviceerror"
	"github.com/jonesrussell/north-cloud/review-responder/internal/telemetry"
	"github.com/jonesrussell/north-cloud/review-responder/internal/verification"
)

const defaultProgramVersion = "default"

// HistoryRecorder persists a summary of each processed review.
type HistoryRecorder interface {
	Record(ctx context.Context, rec *domain.ProcessRecord) error
}

// Config holds the identifiers reported in every envelope and the
// regeneration budget.
type Config struct {
	ProgramVersion string
	DraftModel     string
	VerifyModel    string
	MaxAttempts    int
}

// Service processes reviews. It is built once at startup and is safe for
// concurrent use; all per-request state lives on the stack.
type Service struct {
	cfg          Config
	generator    capability.DraftGenerator
	verifier     capability.ComplianceVerifier
	orchestrator *drafting.Orchestrator
	history      HistoryRecorder
	telemetry    *telemetry.Provider
	logger       infralogger.Logger

	draftArtifactVersion  string
	verifyArtifactVersion string
}

// NewService wires the controller. history and tel may be nil.
func NewService(
	cfg Config,
	generator capability.DraftGenerator,
	verifier capability.ComplianceVerifier,
	history HistoryRecorder,
	tel *telemetry.Provider,
	log infralogger.Logger,
) *Service {
	if cfg.ProgramVersion == "" {
		cfg.ProgramVersion = defaultProgramVersion
	}
	if log == nil {
		log = infralogger.NewNop()
	}
	return &Service{
		cfg:                   cfg,
		generator:             generator,
		verifier:              verifier,
		orchestrator:          drafting.NewOrchestrator(generator, drafting.Config{MaxAttempts: cfg.MaxAttempts}, tel, log),
		history:               history,
		telemetry:             tel,
		logger:                log,
		draftArtifactVersion:  capability.ArtifactVersionOf(generator),
		verifyArtifactVersion: capability.ArtifactVersionOf(verifier),
	}
}

// Program reports the configured program version and artifact fingerprints.
func (s *Service) Program() domain.ProgramInfo {
	return domain.ProgramInfo{
		Version:               s.cfg.ProgramVersion,
		DraftArtifactVersion:  s.draftArtifactVersion,
		VerifyArtifactVersion: s.verifyArtifactVersion,
	}
}

// Models reports the configured draft and verify models.
func (s *Service) Models() domain.ModelInfo {
	return domain.ModelInfo{Draft: s.cfg.DraftModel, Verify: s.cfg.VerifyModel}
}

// execution is the effective per-request configuration after overrides.
type execution struct {
	experimentID string
	program      domain.ProgramInfo
	models       domain.ModelInfo
}

func (s *Service) resolve(overrides *domain.ExecutionOverrides) execution {
	exec := execution{program: s.Program(), models: s.Models()}
	if overrides == nil {
		return exec
	}
	if v := domain.TrimmedOrNil(overrides.ExperimentID); v != nil {
		exec.experimentID = *v
	}
	if v := domain.TrimmedOrNil(overrides.ProgramVersion); v != nil {
		exec.program.Version = *v
	}
	if v := domain.TrimmedOrNil(overrides.DraftModel); v != nil {
		exec.models.Draft = *v
	}
	if v := domain.TrimmedOrNil(overrides.VerifyModel); v != nil {
		exec.models.Verify = *v
	}
	return exec
}

// Process runs one review through generation (unless verifying an existing
// draft), verification and SEO scoring. Every returned error is a
// *serviceerror.Error.
func (s *Service) Process(ctx context.Context, req *domain.ProcessRequest) (*domain.ProcessResponse, error) {
	start := time.Now()

	log := s.logger.With(
		infralogger.RequestID(req.RequestID),
		infralogger.ReviewID(req.ReviewID),
		infralogger.OrgID(req.OrgID),
		infralogger.String("mode", req.Mode),
	)
	ctx = infralogger.WithContext(ctx, log)

	ctx, span := s.telemetry.StartSpan(ctx, "review.process",
		attribute.String("review.id", req.ReviewID),
		attribute.String("review.mode", req.Mode),
	)
	defer span.End()

	mode := modeLabel(req.Mode)
	resp, exec, err := s.process(ctx, req, start)
	if err != nil {
		classified := serviceerror.Classify(err)
		s.telemetry.RecordProcessFailure(mode, string(classified.Kind))
		span.RecordError(classified)
		log.Warn("Review processing failed",
			infralogger.String("error_code", string(classified.Kind)),
			infralogger.Int("status", classified.Status),
			infralogger.Error(err),
		)
		return nil, classified
	}

	s.telemetry.RecordProcess(mode, string(resp.Decision), time.Since(start))
	s.telemetry.RecordViolations(resp.Verifier.Codes())
	log.Info("Review processed",
		infralogger.String("decision", string(resp.Decision)),
		infralogger.Int("attempt_count", resp.Generation.AttemptCount),
		infralogger.Bool("changed", resp.Generation.Changed),
		infralogger.Float64("keyword_coverage", resp.SEOQuality.KeywordCoverage),
		infralogger.Int64("latency_ms", resp.LatencyMs),
	)

	s.recordHistory(ctx, req, resp, exec)
	return resp, nil
}

func (s *Service) process(
	ctx context.Context,
	req *domain.ProcessRequest,
	start time.Time,
) (*domain.ProcessResponse, execution, error) {
	exec := s.resolve(req.Execution)

	mode, ok := domain.ParseMode(req.Mode)
	if !ok {
		return nil, exec, serviceerror.Invalid("Unsupported process mode: %s", req.Mode)
	}

	in, err := s.prepare(&req.Evidence)
	if err != nil {
		return nil, exec, err
	}

	verifyTraceID := uuid.NewString()
	var (
		draftText     string
		draftTraceID  *string
		generationRes = domain.Generation{AttemptCount: 1}
	)

	switch mode {
	case domain.ModeVerifyExistingDraft:
		candidate := domain.TrimmedOrNil(req.CandidateDraftText)
		if candidate == nil {
			return nil, exec, serviceerror.Invalid("candidateDraftText is required for verify mode.")
		}
		draftText = *candidate

	case domain.ModeAuto, domain.ModeManualRegenerate:
		previous := ""
		if current := domain.TrimmedOrNil(req.CurrentDraftText); current != nil {
			previous = *current
		}

		outcome, genErr := s.orchestrator.Generate(ctx, drafting.Input{
			EvidenceJSON:      in.evidenceJSON,
			SEOBrief:          in.seoBrief,
			PreviousDraftText: previous,
			Model:             exec.models.Draft,
		})
		if genErr != nil {
			return nil, exec, genErr
		}
		draftText = outcome.DraftText
		draftTraceID = &outcome.TraceID
		generationRes = outcome.Generation
	}

	verdict, quality, err := s.verifyAndScore(ctx, in, draftText, exec.models.Verify)
	if err != nil {
		return nil, exec, err
	}

	decision := domain.DecisionBlockedByVerifier
	if verdict.Pass {
		decision = domain.DecisionReady
	}

	return &domain.ProcessResponse{
		Decision:   decision,
		DraftText:  draftText,
		Verifier:   verdict,
		SEOQuality: quality,
		Generation: generationRes,
		Program:    exec.program,
		Models:     exec.models,
		Trace: domain.TraceInfo{
			DraftTraceID:  draftTraceID,
			VerifyTraceID: verifyTraceID,
		},
		LatencyMs: time.Since(start).Milliseconds(),
	}, exec, nil
}

// prepared is the evidence-derived input shared by generation and verification.
type prepared struct {
	evidenceJSON string
	policy       domain.Policy
	policyJSON   string
	seoBrief     string
}

func (s *Service) prepare(evidence *domain.EvidenceSnapshot) (prepared, error) {
	if err := evidence.Validate(); err != nil {
		return prepared{}, serviceerror.Invalid("%s", err.Error())
	}

	evidenceJSON, err := evidence.JSON()
	if err != nil {
		return prepared{}, serviceerror.Invalid("Invalid evidence JSON payload.")
	}

	pol := policy.Build(evidence)
	policyJSON, err := policy.JSON(pol)
	if err != nil {
		return prepared{}, serviceerror.Wrap(serviceerror.InternalError, "", err)
	}

	return prepared{
		evidenceJSON: evidenceJSON,
		policy:       pol,
		policyJSON:   policyJSON,
		seoBrief:     policy.SEOBrief(pol),
	}, nil
}

// verifyAndScore runs the compliance verifier and the SEO scorer side by side
// and merges the results. The merge does not depend on completion order.
func (s *Service) verifyAndScore(
	ctx context.Context,
	in prepared,
	draftText string,
	verifyModel string,
) (domain.VerifierResult, domain.SEOQuality, error) {
	var (
		verdict domain.VerifierResult
		quality domain.SEOQuality
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		started := time.Now()
		raw, err := s.verifier.Verify(gctx, capability.VerifyRequest{
			EvidenceJSON: in.evidenceJSON,
			DraftText:    draftText,
			PolicyJSON:   in.policyJSON,
			Model:        verifyModel,
		})
		s.telemetry.RecordProviderCall("verify", err, time.Since(started))
		if err != nil {
			return err
		}
		verdict, err = verification.NormalizeVerdict(raw)
		return err
	})
	g.Go(func() error {
		quality = seo.Evaluate(draftText, in.policy)
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.VerifierResult{}, domain.SEOQuality{}, err
	}

	return verification.Merge(verdict, quality), quality, nil
}

func modeLabel(raw string) string {
	mode, ok := domain.ParseMode(raw)
	if !ok {
		return "UNKNOWN"
	}
	return string(mode)
}
