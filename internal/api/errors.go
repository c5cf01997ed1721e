package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/north-cloud/review-responder/internal/serviceerror"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// respondError classifies err and writes it. The error is attached to the
// gin context so the request logger records it.
func respondError(c *gin.Context, err error) {
	classified := serviceerror.Classify(err)
	_ = c.Error(classified)
	c.AbortWithStatusJSON(classified.Status, ErrorResponse{
		Error:   string(classified.Kind),
		Message: classified.Message,
	})
}
