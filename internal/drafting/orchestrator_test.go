package drafting_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/review-responder/internal/domain"
	"github.com/jonesrussell/north-cloud/review-responder/internal/drafting"
	infralogger "github.com/jonesrussell/north-cloud/review-responder/internal/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/review-responder/internal/serviceerror"
	"github.com/jonesrussell/north-cloud/review-responder/internal/telemetry"
	"github.com/jonesrussell/north-cloud/review-responder/internal/testhelpers"
)

func newOrchestrator(gen *testhelpers.MockDraftGenerator, maxAttempts int) *drafting.Orchestrator {
	return drafting.NewOrchestrator(gen, drafting.Config{MaxAttempts: maxAttempts}, telemetry.NewProvider(), infralogger.NewNop())
}

func TestGenerate_NoPreviousDraft_SingleAttempt(t *testing.T) {
	t.Parallel()

	gen := testhelpers.NewMockDraftGenerator("  Thanks for visiting Harbour Grill!  ")
	out, err := newOrchestrator(gen, 0).Generate(context.Background(), drafting.Input{
		EvidenceJSON:      `{"starRating":5}`,
		SEOBrief:          "brief",
		PreviousDraftText: "   ",
	})

	require.NoError(t, err)
	assert.Equal(t, "Thanks for visiting Harbour Grill!", out.DraftText)
	assert.Equal(t, domain.Generation{Attempted: true, Changed: true, AttemptCount: 1}, out.Generation)

	reqs := gen.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, 1, reqs[0].Attempt)
	assert.Empty(t, reqs[0].PreviousDraftText)
	assert.Equal(t, "brief", reqs[0].SEOBrief)

	_, parseErr := uuid.Parse(out.TraceID)
	assert.NoError(t, parseErr)
}

func TestGenerate_AllAttemptsEquivalent(t *testing.T) {
	t.Parallel()

	gen := testhelpers.NewMockDraftGenerator("Great Service\n", "great service", "GREAT SERVICE")
	out, err := newOrchestrator(gen, 0).Generate(context.Background(), drafting.Input{
		PreviousDraftText: "Great service",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.Generation{Attempted: true, Changed: false, AttemptCount: 1}, out.Generation)
	assert.Equal(t, "GREAT SERVICE", out.DraftText)

	reqs := gen.Requests()
	require.Len(t, reqs, drafting.DefaultMaxAttempts)
	for i, req := range reqs {
		assert.Equal(t, i+1, req.Attempt)
		assert.Equal(t, "Great service", req.PreviousDraftText)
	}
}

func TestGenerate_SecondAttemptDiffers(t *testing.T) {
	t.Parallel()

	gen := testhelpers.NewMockDraftGenerator("Thanks for the review!", "We appreciate you stopping by.", "unused")
	out, err := newOrchestrator(gen, 0).Generate(context.Background(), drafting.Input{
		PreviousDraftText: "thanks for the review!",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.Generation{Attempted: true, Changed: true, AttemptCount: 2}, out.Generation)
	assert.Equal(t, "We appreciate you stopping by.", out.DraftText)
	assert.Len(t, gen.Requests(), 2)
}

func TestGenerate_RespectsConfiguredMaxAttempts(t *testing.T) {
	t.Parallel()

	gen := testhelpers.NewMockDraftGenerator("same")
	out, err := newOrchestrator(gen, 5).Generate(context.Background(), drafting.Input{PreviousDraftText: "Same"})

	require.NoError(t, err)
	assert.False(t, out.Generation.Changed)
	assert.Len(t, gen.Requests(), 5)
}

func TestGenerate_EmptyDraftIsSchemaError(t *testing.T) {
	t.Parallel()

	gen := testhelpers.NewMockDraftGenerator(" \n ")
	_, err := newOrchestrator(gen, 0).Generate(context.Background(), drafting.Input{})

	require.Error(t, err)
	assert.True(t, serviceerror.Is(err, serviceerror.ModelSchemaError))
}

func TestGenerate_GeneratorErrorReturnedUnchanged(t *testing.T) {
	t.Parallel()

	boom := errors.New("upstream request timed out")
	gen := testhelpers.NewFailingDraftGenerator(boom)
	_, err := newOrchestrator(gen, 0).Generate(context.Background(), drafting.Input{PreviousDraftText: "old"})

	require.ErrorIs(t, err, boom)
	assert.Len(t, gen.Requests(), 1)
}
