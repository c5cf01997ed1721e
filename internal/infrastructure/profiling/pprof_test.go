package profiling_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/north-cloud/review-responder/internal/infrastructure/profiling"
)

func TestPprofMux_ServesIndex(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	profiling.PprofMux().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug/pprof/", http.NoBody))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "goroutine")
}

func TestPyroscopeProfiler_StopNil(t *testing.T) {
	t.Parallel()

	var p *profiling.PyroscopeProfiler
	assert.NoError(t, p.Stop())
}
