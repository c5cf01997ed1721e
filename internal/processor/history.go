package processor

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/north-cloud/review-responder/internal/domain"
	infralogger "github.com/jonesrussell/north-cloud/review-responder/internal/infrastructure/logger"
)

const historyWriteTimeout = 5 * time.Second

// recordHistory hands the envelope to the history recorder. Failures are
// logged and counted; they never fail the request.
func (s *Service) recordHistory(
	ctx context.Context,
	req *domain.ProcessRequest,
	resp *domain.ProcessResponse,
	exec execution,
) {
	if s.history == nil {
		return
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), historyWriteTimeout)
	defer cancel()

	rec := &domain.ProcessRecord{
		ID:                    uuid.NewString(),
		OrgID:                 req.OrgID,
		ReviewID:              req.ReviewID,
		RequestID:             req.RequestID,
		ExperimentID:          exec.experimentID,
		Mode:                  modeLabel(req.Mode),
		Decision:              string(resp.Decision),
		DraftText:             resp.DraftText,
		ViolationCodes:        resp.Verifier.Codes(),
		KeywordCoverage:       resp.SEOQuality.KeywordCoverage,
		AttemptCount:          resp.Generation.AttemptCount,
		Changed:               resp.Generation.Changed,
		ProgramVersion:        resp.Program.Version,
		DraftArtifactVersion:  resp.Program.DraftArtifactVersion,
		VerifyArtifactVersion: resp.Program.VerifyArtifactVersion,
		DraftModel:            resp.Models.Draft,
		VerifyModel:           resp.Models.Verify,
		LatencyMs:             resp.LatencyMs,
		CreatedAt:             time.Now().UTC(),
	}

	if err := s.history.Record(writeCtx, rec); err != nil {
		s.telemetry.IncrementHistoryWriteFailures()
		infralogger.FromContextOr(ctx, s.logger).Error("Failed to record process history",
			infralogger.String("record_id", rec.ID),
			infralogger.Error(err),
		)
	}
}
