// Package llm implements the draft generator and compliance verifier on top
// of the Anthropic Messages API.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/jonesrussell/north-cloud/review-responder/internal/artifact"
	infralogger "github.com/jonesrussell/north-cloud/review-responder/internal/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/review-responder/internal/telemetry"
)

// ClientConfig configures the shared Anthropic client.
type ClientConfig struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// ProgramConfig configures one program's model call.
type ProgramConfig struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Program     *artifact.Program
}

// MessageSender is the slice of the SDK the providers use.
type MessageSender interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// NewMessageSender builds the SDK client. Retries and the per-request timeout
// are handled by the SDK.
func NewMessageSender(cfg ClientConfig) MessageSender {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	client := anthropic.NewClient(opts...)
	return &client.Messages
}

// caller runs one prompt through the Messages API and returns the text reply.
type caller struct {
	sender    MessageSender
	cfg       ProgramConfig
	telemetry *telemetry.Provider
	logger    infralogger.Logger
	name      string
}

func (c *caller) call(ctx context.Context, model, system string, messages []anthropic.MessageParam) (string, error) {
	if model == "" {
		model = c.cfg.Model
	}

	ctx, span := c.telemetry.StartSpan(ctx, "llm."+c.name)
	defer span.End()

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   int64(c.cfg.MaxTokens),
		Temperature: anthropic.Float(c.cfg.Temperature),
		System:      []anthropic.TextBlockParam{{Text: system}},
		Messages:    messages,
	}

	msg, err := c.sender.New(ctx, params)
	if err != nil {
		span.RecordError(err)
		c.logger.Warn("Model call failed",
			infralogger.String("program", c.name),
			infralogger.String("model", model),
			infralogger.Error(err),
		)
		return "", translateError(err)
	}

	return messageText(msg), nil
}

// demoMessages renders artifact demos as alternating user/assistant turns.
func demoMessages(p *artifact.Program, render func(map[string]string) string) []anthropic.MessageParam {
	if p == nil {
		return nil
	}
	out := make([]anthropic.MessageParam, 0, len(p.Demos)*2)
	for _, demo := range p.Demos {
		out = append(out,
			anthropic.NewUserMessage(anthropic.NewTextBlock(render(demo.Inputs))),
			anthropic.NewAssistantMessage(anthropic.NewTextBlock(demo.Output)),
		)
	}
	return out
}

func messageText(msg *anthropic.Message) string {
	if msg == nil {
		return ""
	}
	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return strings.TrimSpace(b.String())
}

// translateError rewrites SDK failures so the error classifier sees the
// timeout and rate-limit signals in the message.
func translateError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("model call timed out: %w", err)
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests:
			return fmt.Errorf("model rate limit exceeded: %w", err)
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return fmt.Errorf("model call timed out: %w", err)
		}
		return fmt.Errorf("model provider returned %d: %w", apiErr.StatusCode, err)
	}

	return fmt.Errorf("model call: %w", err)
}
