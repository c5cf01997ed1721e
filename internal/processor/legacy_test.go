package processor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/review-responder/internal/domain"
	"github.com/jonesrussell/north-cloud/review-responder/internal/processor"
	"github.com/jonesrussell/north-cloud/review-responder/internal/serviceerror"
	"github.com/jonesrussell/north-cloud/review-responder/internal/testhelpers"
)

func TestGenerateDraft_SingleCallWithAttempt(t *testing.T) {
	t.Parallel()

	gen := testhelpers.NewMockDraftGenerator("  " + goodDraft + " ")
	svc := newService(gen, testhelpers.NewPassingVerifier(), nil)

	resp, err := svc.GenerateDraft(context.Background(), &processor.GenerateDraftRequest{
		Evidence:            testhelpers.SampleEvidence(),
		PreviousDraftText:   strPtr(goodDraft),
		RegenerationAttempt: 2,
	})

	require.NoError(t, err)
	assert.Equal(t, goodDraft, resp.DraftText)
	assert.Equal(t, "claude-haiku", resp.Model)
	assert.NotEmpty(t, resp.TraceID)

	reqs := gen.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, 2, reqs[0].Attempt)
	assert.Equal(t, goodDraft, reqs[0].PreviousDraftText)
}

func TestGenerateDraft_EmptyOutput(t *testing.T) {
	t.Parallel()

	svc := newService(testhelpers.NewMockDraftGenerator("   "), testhelpers.NewPassingVerifier(), nil)

	_, err := svc.GenerateDraft(context.Background(), &processor.GenerateDraftRequest{Evidence: testhelpers.SampleEvidence()})

	assert.True(t, serviceerror.Is(err, serviceerror.ModelSchemaError))
}

func TestVerifyDraft_MergesSEO(t *testing.T) {
	t.Parallel()

	svc := newService(testhelpers.NewMockDraftGenerator(goodDraft), testhelpers.NewPassingVerifier(), nil)

	resp, err := svc.VerifyDraft(context.Background(), &processor.VerifyDraftRequest{
		Evidence:  testhelpers.SampleEvidence(),
		DraftText: "Halifax loves Halifax and Halifax loves patio dining",
	})

	require.NoError(t, err)
	assert.False(t, resp.Pass)
	assert.Equal(t, []string{domain.ViolationSEOKeywordStuffing}, resp.Codes())
	assert.Equal(t, "claude-sonnet", resp.Model)
}

func TestVerifyDraft_RequiresDraft(t *testing.T) {
	t.Parallel()

	svc := newService(testhelpers.NewMockDraftGenerator(goodDraft), testhelpers.NewPassingVerifier(), nil)

	_, err := svc.VerifyDraft(context.Background(), &processor.VerifyDraftRequest{Evidence: testhelpers.SampleEvidence()})

	assert.True(t, serviceerror.Is(err, serviceerror.InvalidRequest))
}
