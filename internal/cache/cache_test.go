package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/review-responder/internal/cache"
	"github.com/jonesrussell/north-cloud/review-responder/internal/capability"
	infralogger "github.com/jonesrussell/north-cloud/review-responder/internal/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/review-responder/internal/telemetry"
	"github.com/jonesrussell/north-cloud/review-responder/internal/testhelpers"
)

func newStore(t *testing.T) (*cache.Store, *miniredis.Miniredis, *telemetry.Provider) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	tel := telemetry.NewProvider()
	return cache.NewStore(client, time.Hour, tel, infralogger.NewNop()), mr, tel
}

func TestDraftGenerator_CachesByRequest(t *testing.T) {
	t.Parallel()

	store, mr, tel := newStore(t)
	inner := testhelpers.NewMockDraftGenerator("first", "second").WithArtifactVersion("draft.yml:000000000000")
	gen := cache.NewDraftGenerator(inner, store, "draft-model")

	req := capability.GenerateRequest{EvidenceJSON: "{}", SEOBrief: "brief", Attempt: 1}

	got, err := gen.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "first", got)

	got, err = gen.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "first", got)
	assert.Len(t, inner.Requests(), 1)

	req.Attempt = 2
	got, err = gen.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "second", got)
	assert.Len(t, inner.Requests(), 2)

	assert.Len(t, mr.Keys(), 2)
	assert.Equal(t, time.Hour, mr.TTL(mr.Keys()[0]))
	assert.Equal(t, "draft.yml:000000000000", gen.ArtifactVersion())

	counter := tel.Metrics.CacheRequests
	assert.InDelta(t, 1, testutil.ToFloat64(counter.WithLabelValues("draft", "hit")), 1e-9)
	assert.InDelta(t, 2, testutil.ToFloat64(counter.WithLabelValues("draft", "miss")), 1e-9)
}

func TestDraftGenerator_DoesNotCacheFailuresOrEmpty(t *testing.T) {
	t.Parallel()

	store, mr, _ := newStore(t)

	failing := cache.NewDraftGenerator(testhelpers.NewFailingDraftGenerator(errors.New("boom")), store, "m")
	_, err := failing.Generate(context.Background(), capability.GenerateRequest{})
	require.Error(t, err)

	empty := cache.NewDraftGenerator(testhelpers.NewMockDraftGenerator(""), store, "m")
	got, err := empty.Generate(context.Background(), capability.GenerateRequest{})
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.Empty(t, mr.Keys())
}

func TestDraftGenerator_RedisDownFallsThrough(t *testing.T) {
	t.Parallel()

	store, mr, tel := newStore(t)
	mr.Close()

	inner := testhelpers.NewMockDraftGenerator("fresh")
	gen := cache.NewDraftGenerator(inner, store, "m")

	got, err := gen.Generate(context.Background(), capability.GenerateRequest{})
	require.NoError(t, err)
	assert.Equal(t, "fresh", got)
	assert.InDelta(t, 1, testutil.ToFloat64(tel.Metrics.CacheRequests.WithLabelValues("draft", "error")), 1e-9)
}

func TestComplianceVerifier_Caches(t *testing.T) {
	t.Parallel()

	store, _, _ := newStore(t)
	inner := testhelpers.NewPassingVerifier()
	ver := cache.NewComplianceVerifier(inner, store, "verify-model")

	req := capability.VerifyRequest{EvidenceJSON: "{}", DraftText: "Thanks!", PolicyJSON: "{}"}
	first, err := ver.Verify(context.Background(), req)
	require.NoError(t, err)
	second, err := ver.Verify(context.Background(), req)
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
	assert.Len(t, inner.Requests(), 1)
	assert.Equal(t, capability.ArtifactMissing, ver.ArtifactVersion())
}

func TestKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, cache.Key("draft", "a", "b"), cache.Key("draft", "a", "b"))
	assert.NotEqual(t, cache.Key("draft", "ab", ""), cache.Key("draft", "a", "b"))
	assert.NotEqual(t, cache.Key("draft", "a"), cache.Key("verify", "a"))
	assert.Contains(t, cache.Key("verify", "x"), "review-responder:verify:")
}
