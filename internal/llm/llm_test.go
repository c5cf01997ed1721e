package llm_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/review-responder/internal/artifact"
	"github.com/jonesrussell/north-cloud/review-responder/internal/capability"
	infralogger "github.com/jonesrussell/north-cloud/review-responder/internal/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/review-responder/internal/llm"
	"github.com/jonesrussell/north-cloud/review-responder/internal/serviceerror"
)

type fakeSender struct {
	mu     sync.Mutex
	reply  string
	err    error
	params []anthropic.MessageNewParams
}

func (f *fakeSender) New(_ context.Context, params anthropic.MessageNewParams, _ ...option.RequestOption) (*anthropic.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.params = append(f.params, params)
	if f.err != nil {
		return nil, f.err
	}
	return &anthropic.Message{Content: []anthropic.ContentBlockUnion{{Type: "text", Text: f.reply}}}, nil
}

func (f *fakeSender) last() anthropic.MessageNewParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.params[len(f.params)-1]
}

func lastUserText(p anthropic.MessageNewParams) string {
	msg := p.Messages[len(p.Messages)-1]
	return msg.Content[0].OfText.Text
}

func draftConfig(program *artifact.Program) llm.ProgramConfig {
	return llm.ProgramConfig{Model: "draft-model", Temperature: 0.3, MaxTokens: 384, Program: program}
}

func TestDraftGenerator_Generate(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{reply: "  Thanks for dining with us!  "}
	program := &artifact.Program{
		Instructions: "Keep it under three sentences.",
		Demos: []artifact.Demo{{
			Inputs: map[string]string{"evidence_json": "{}"},
			Output: "Thank you!",
		}},
		Version: "draft_program.yml:abcdef123456",
	}
	gen := llm.NewDraftGenerator(sender, draftConfig(program), nil, infralogger.NewNop())

	text, err := gen.Generate(context.Background(), capability.GenerateRequest{
		EvidenceJSON:      `{"starRating":5}`,
		SEOBrief:          "brief",
		PreviousDraftText: "old draft",
		Attempt:           2,
	})
	require.NoError(t, err)
	assert.Equal(t, "Thanks for dining with us!", text)
	assert.Equal(t, "draft_program.yml:abcdef123456", gen.ArtifactVersion())

	params := sender.last()
	assert.Equal(t, anthropic.Model("draft-model"), params.Model)
	assert.Equal(t, int64(384), params.MaxTokens)
	assert.InDelta(t, 0.3, params.Temperature.Value, 1e-9)
	require.Len(t, params.System, 1)
	assert.Contains(t, params.System[0].Text, "Keep it under three sentences.")
	require.Len(t, params.Messages, 3)
	assert.Equal(t, "Thank you!", params.Messages[1].Content[0].OfText.Text)

	prompt := lastUserText(params)
	assert.Contains(t, prompt, "previous_draft_text:\nold draft")
	assert.Contains(t, prompt, "regeneration_attempt:\n2")
}

func TestDraftGenerator_ModelOverrideAndMissingArtifact(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{reply: "ok"}
	gen := llm.NewDraftGenerator(sender, draftConfig(nil), nil, infralogger.NewNop())

	_, err := gen.Generate(context.Background(), capability.GenerateRequest{Model: "other-model"})
	require.NoError(t, err)

	params := sender.last()
	assert.Equal(t, anthropic.Model("other-model"), params.Model)
	assert.Len(t, params.Messages, 1)
	assert.Contains(t, lastUserText(params), "regeneration_attempt:\n1")
	assert.Equal(t, capability.ArtifactMissing, gen.ArtifactVersion())
}

func TestComplianceVerifier_Verify(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		reply   string
		want    string
		wantErr bool
	}{
		{
			name:  "bare object",
			reply: `{"passed":true,"violations":[],"suggested_rewrite":""}`,
			want:  `{"passed":true,"violations":[],"suggested_rewrite":""}`,
		},
		{
			name:  "fenced object",
			reply: "```json\n{\"passed\":false}\n```",
			want:  `{"passed":false}`,
		},
		{
			name:    "prose only",
			reply:   "Looks fine to me.",
			wantErr: true,
		},
		{
			name:    "broken object",
			reply:   `{"passed": tru}`,
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			sender := &fakeSender{reply: tc.reply}
			ver := llm.NewComplianceVerifier(sender, llm.ProgramConfig{Model: "verify-model", MaxTokens: 768}, nil, infralogger.NewNop())

			raw, err := ver.Verify(context.Background(), capability.VerifyRequest{
				EvidenceJSON: "{}",
				DraftText:    "Thanks!",
				PolicyJSON:   `{"rules":[]}`,
			})
			if tc.wantErr {
				require.Error(t, err)
				assert.Equal(t, serviceerror.ModelSchemaError, serviceerror.Classify(err).Kind)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(raw))
			assert.Contains(t, lastUserText(sender.last()), "draft_text:\nThanks!")
		})
	}
}

func apiError(status int) error {
	return &anthropic.Error{
		StatusCode: status,
		Request:    httptest.NewRequest(http.MethodPost, "https://api.anthropic.com/v1/messages", http.NoBody),
		Response:   &http.Response{StatusCode: status},
	}
}

func TestProviderErrorsClassify(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		err  error
		want serviceerror.Kind
	}{
		{name: "deadline", err: context.DeadlineExceeded, want: serviceerror.ModelTimeout},
		{name: "429", err: apiError(http.StatusTooManyRequests), want: serviceerror.ModelRateLimit},
		{name: "504", err: apiError(http.StatusGatewayTimeout), want: serviceerror.ModelTimeout},
		{name: "500", err: apiError(http.StatusInternalServerError), want: serviceerror.InternalError},
		{name: "transport", err: errors.New("connection refused"), want: serviceerror.InternalError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			gen := llm.NewDraftGenerator(&fakeSender{err: tc.err}, draftConfig(nil), nil, infralogger.NewNop())
			_, err := gen.Generate(context.Background(), capability.GenerateRequest{})
			require.Error(t, err)
			assert.Equal(t, tc.want, serviceerror.Classify(err).Kind, "got %v", err)
		})
	}
}
