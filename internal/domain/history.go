package domain

import (
	"time"

	"github.com/lib/pq"
)

// ProcessRecord is the persisted summary of one processed review.
type ProcessRecord struct {
	ID                    string         `db:"id"                      json:"id"`
	OrgID                 string         `db:"org_id"                  json:"orgId"`
	ReviewID              string         `db:"review_id"               json:"reviewId"`
	RequestID             string         `db:"request_id"              json:"requestId"`
	ExperimentID          string         `db:"experiment_id"           json:"experimentId"`
	Mode                  string         `db:"mode"                    json:"mode"`
	Decision              string         `db:"decision"                json:"decision"`
	DraftText             string         `db:"draft_text"              json:"draftText"`
	ViolationCodes        pq.StringArray `db:"violation_codes"         json:"violationCodes"`
	KeywordCoverage       float64        `db:"keyword_coverage"        json:"keywordCoverage"`
	AttemptCount          int            `db:"attempt_count"           json:"attemptCount"`
	Changed               bool           `db:"changed"                 json:"changed"`
	ProgramVersion        string         `db:"program_version"         json:"programVersion"`
	DraftArtifactVersion  string         `db:"draft_artifact_version"  json:"draftArtifactVersion"`
	VerifyArtifactVersion string         `db:"verify_artifact_version" json:"verifyArtifactVersion"`
	DraftModel            string         `db:"draft_model"             json:"draftModel"`
	VerifyModel           string         `db:"verify_model"            json:"verifyModel"`
	LatencyMs             int64          `db:"latency_ms"              json:"latencyMs"`
	CreatedAt             time.Time      `db:"created_at"              json:"createdAt"`
}
