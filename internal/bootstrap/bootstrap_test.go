package bootstrap_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/review-responder/internal/api"
	"github.com/jonesrussell/north-cloud/review-responder/internal/bootstrap"
	"github.com/jonesrussell/north-cloud/review-responder/internal/capability"
	"github.com/jonesrussell/north-cloud/review-responder/internal/config"
	infralogger "github.com/jonesrussell/north-cloud/review-responder/internal/infrastructure/logger"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Anthropic.APIKey = "test-key"
	cfg.Auth.ServiceToken = "token"
	cfg.Draft.ArtifactPath = filepath.Join(t.TempDir(), "draft.yml")
	cfg.Verify.ArtifactPath = filepath.Join(t.TempDir(), "verify.yml")
	cfg.Redis.Enabled = false
	cfg.Database.Enabled = false
	return cfg
}

func TestBuild_MinimalConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	app, err := bootstrap.Build(context.Background(), cfg, infralogger.NewNop())
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.History)
	assert.Nil(t, app.Redis)

	program := app.Service.Program()
	assert.Equal(t, cfg.Service.ProgramVersion, program.Version)
	assert.Equal(t, capability.ArtifactMissing, program.DraftArtifactVersion)
	assert.Equal(t, capability.ArtifactMissing, program.VerifyArtifactVersion)
	assert.Equal(t, cfg.Draft.Model, app.Service.Models().Draft)
}

func TestBuild_ArtifactFingerprints(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.Draft.ArtifactPath, []byte("name: draft\ninstructions: Be brief.\n"), 0o600))

	app, err := bootstrap.Build(context.Background(), cfg, infralogger.NewNop())
	require.NoError(t, err)
	defer app.Close()

	assert.Regexp(t, `^draft\.yml:[0-9a-f]{12}$`, app.Service.Program().DraftArtifactVersion)
}

func TestBuild_MalformedArtifactFails(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.Verify.ArtifactPath, []byte("demos: [unclosed"), 0o600))

	_, err := bootstrap.Build(context.Background(), cfg, infralogger.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verify artifact")
}

func TestBuild_RedisCache(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.Redis.Enabled = true
	cfg.Redis.URL = mr.Addr()

	app, err := bootstrap.Build(context.Background(), cfg, infralogger.NewNop())
	require.NoError(t, err)
	defer app.Close()

	require.NotNil(t, app.Redis)
	assert.NoError(t, app.Redis.Ping(context.Background()).Err())
}

func TestBuild_RedisUnavailable(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig(t)
	cfg.Redis.Enabled = true
	cfg.Redis.URL = addr

	_, err := bootstrap.Build(context.Background(), cfg, infralogger.NewNop())
	assert.Error(t, err)
}

func TestSetupHTTPServer_Routes(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	app, err := bootstrap.Build(context.Background(), cfg, infralogger.NewNop())
	require.NoError(t, err)
	defer app.Close()

	router := bootstrap.SetupHTTPServer(cfg, app, infralogger.NewNop()).Router()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/healthz", http.NoBody))
	require.Equal(t, http.StatusOK, w.Code)

	var body api.HealthzResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.OK)
	assert.Equal(t, cfg.Verify.Model, body.VerifyModel)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reviews/r-1/history", http.NoBody))
	assert.Equal(t, http.StatusNotFound, w.Code, "history is not mounted without a database")
}

func TestStartProfiling_Disabled(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Profiling.PprofEnabled = false
	cfg.Profiling.PyroscopeEnabled = false

	stop := bootstrap.StartProfiling(cfg, infralogger.NewNop())
	assert.NotPanics(t, stop)
}
