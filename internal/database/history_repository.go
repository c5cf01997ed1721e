package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jonesrussell/north-cloud/review-responder/internal/domain"
)

// DefaultHistoryLimit caps ListByReview when the caller passes no limit.
const DefaultHistoryLimit = 20

// MaxHistoryLimit is the largest page ListByReview returns.
const MaxHistoryLimit = 100

// HistoryRepository persists process records.
type HistoryRepository struct {
	db *sqlx.DB
}

// NewHistoryRepository creates a new history repository.
func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Record inserts one process record.
func (r *HistoryRepository) Record(ctx context.Context, rec *domain.ProcessRecord) error {
	query := `
		INSERT INTO review_process_history (
			id, org_id, review_id, request_id, experiment_id, mode, decision,
			draft_text, violation_codes, keyword_coverage, attempt_count, changed,
			program_version, draft_artifact_version, verify_artifact_version,
			draft_model, verify_model, latency_ms, created_at
		)
		VALUES (
			:id, :org_id, :review_id, :request_id, :experiment_id, :mode, :decision,
			:draft_text, :violation_codes, :keyword_coverage, :attempt_count, :changed,
			:program_version, :draft_artifact_version, :verify_artifact_version,
			:draft_model, :verify_model, :latency_ms, :created_at
		)
	`

	// violation_codes is NOT NULL; a nil array would bind as NULL.
	row := *rec
	if row.ViolationCodes == nil {
		row.ViolationCodes = pq.StringArray{}
	}

	if _, err := r.db.NamedExecContext(ctx, query, &row); err != nil {
		return fmt.Errorf("failed to record process history: %w", err)
	}

	return nil
}

// ListByReview returns the newest records for a review. limit is clamped to
// [1, MaxHistoryLimit]; zero selects DefaultHistoryLimit.
func (r *HistoryRepository) ListByReview(ctx context.Context, reviewID string, limit int) ([]domain.ProcessRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	limit = min(limit, MaxHistoryLimit)

	query := `
		SELECT id, org_id, review_id, request_id, experiment_id, mode, decision,
		       draft_text, violation_codes, keyword_coverage, attempt_count, changed,
		       program_version, draft_artifact_version, verify_artifact_version,
		       draft_model, verify_model, latency_ms, created_at
		FROM review_process_history
		WHERE review_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	records := make([]domain.ProcessRecord, 0)
	if err := r.db.SelectContext(ctx, &records, query, reviewID, limit); err != nil {
		return nil, fmt.Errorf("failed to list process history: %w", err)
	}

	for i := range records {
		if records[i].ViolationCodes == nil {
			records[i].ViolationCodes = pq.StringArray{}
		}
	}

	return records, nil
}
