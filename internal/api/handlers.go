// Package api exposes the review process controller over HTTP.
package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/north-cloud/review-responder/internal/domain"
	infragin "github.com/jonesrussell/north-cloud/review-responder/internal/infrastructure/gin"
	infralogger "github.com/jonesrussell/north-cloud/review-responder/internal/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/review-responder/internal/processor"
	"github.com/jonesrussell/north-cloud/review-responder/internal/serviceerror"
)

// ReviewService is the controller surface the handlers drive.
type ReviewService interface {
	Process(ctx context.Context, req *domain.ProcessRequest) (*domain.ProcessResponse, error)
	GenerateDraft(ctx context.Context, req *processor.GenerateDraftRequest) (*processor.GenerateDraftResponse, error)
	VerifyDraft(ctx context.Context, req *processor.VerifyDraftRequest) (*processor.VerifyDraftResponse, error)
	Program() domain.ProgramInfo
	Models() domain.ModelInfo
}

// HistoryReader lists stored process records.
type HistoryReader interface {
	ListByReview(ctx context.Context, reviewID string, limit int) ([]domain.ProcessRecord, error)
}

// Handler handles HTTP requests for the review-responder API.
type Handler struct {
	service ReviewService
	history HistoryReader
	version string
	logger  infralogger.Logger
}

// NewHandler creates a handler. history may be nil when history is disabled.
func NewHandler(service ReviewService, history HistoryReader, version string, log infralogger.Logger) *Handler {
	return &Handler{
		service: service,
		history: history,
		version: version,
		logger:  log,
	}
}

// HealthzResponse is the body of GET /api/healthz.
type HealthzResponse struct {
	OK             bool   `json:"ok"`
	Version        string `json:"version"`
	ProgramVersion string `json:"programVersion"`
	DraftModel     string `json:"draftModel"`
	VerifyModel    string `json:"verifyModel"`
}

// HistoryResponse is the body of GET /api/v1/reviews/:review_id/history.
type HistoryResponse struct {
	ReviewID string                 `json:"reviewId"`
	Records  []domain.ProcessRecord `json:"records"`
	Total    int                    `json:"total"`
}

// Healthz handles GET /api/healthz.
func (h *Handler) Healthz(c *gin.Context) {
	models := h.service.Models()
	c.JSON(http.StatusOK, HealthzResponse{
		OK:             true,
		Version:        h.version,
		ProgramVersion: h.service.Program().Version,
		DraftModel:     models.Draft,
		VerifyModel:    models.Verify,
	})
}

// ProcessReview handles POST /api/v1/review/process.
func (h *Handler) ProcessReview(c *gin.Context) {
	var req domain.ProcessRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.RequestID == "" {
		req.RequestID = infragin.RequestID(c)
	}

	resp, err := h.service.Process(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GenerateDraft handles POST /api/v1/draft/generate.
func (h *Handler) GenerateDraft(c *gin.Context) {
	var req processor.GenerateDraftRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.GenerateDraft(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// VerifyDraft handles POST /api/v1/draft/verify.
func (h *Handler) VerifyDraft(c *gin.Context) {
	var req processor.VerifyDraftRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.VerifyDraft(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ReviewHistory handles GET /api/v1/reviews/:review_id/history.
func (h *Handler) ReviewHistory(c *gin.Context) {
	reviewID := strings.TrimSpace(c.Param("review_id"))
	if reviewID == "" {
		respondError(c, serviceerror.Invalid("review_id is required."))
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(c, serviceerror.Invalid("limit must be a positive integer."))
			return
		}
		limit = parsed
	}

	records, err := h.history.ListByReview(c.Request.Context(), reviewID, limit)
	if err != nil {
		infralogger.FromContextOr(c.Request.Context(), h.logger).Error("Failed to list review history",
			infralogger.ReviewID(reviewID),
			infralogger.Error(err),
		)
		respondError(c, serviceerror.Wrap(serviceerror.InternalError, "Failed to load review history.", err))
		return
	}

	c.JSON(http.StatusOK, HistoryResponse{ReviewID: reviewID, Records: records, Total: len(records)})
}

// bindJSON decodes the body into dst, writing an INVALID_REQUEST on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, serviceerror.Invalid("Invalid request body: %v", err))
		return false
	}
	return true
}
