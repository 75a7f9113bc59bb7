package ai

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	appErrors "github.com/unclebandit/outreach-backend/internal/errors"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "arcee-ai/trinity-large-preview:free"
	DefaultTimeout = 60 * time.Second
)

// Completer performs one chat-completion round trip.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

type ModelOptions struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// NewOpenRouterModel builds an OpenAI-compatible chat model pointed at OpenRouter.
func NewOpenRouterModel(opts ModelOptions) (llms.Model, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	return openai.New(
		openai.WithBaseURL(opts.BaseURL),
		openai.WithToken(opts.APIKey),
		openai.WithModel(opts.Model),
		openai.WithHTTPClient(&http.Client{Timeout: opts.Timeout}),
	)
}

// TextClient is a Completer backed by a langchaingo model. One attempt per call.
type TextClient struct {
	Model   llms.Model
	Timeout time.Duration
}

func NewTextClient(model llms.Model, timeout time.Duration) *TextClient {
	return &TextClient{Model: model, Timeout: timeout}
}

// Complete returns the first choice's content, or "" when the provider returned none.
func (c *TextClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if strings.TrimSpace(userPrompt) == "" {
		return "", appErrors.NewValidationError("userPrompt", "prompt must not be empty")
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	messages := make([]llms.MessageContent, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, userPrompt))

	resp, err := c.Model.GenerateContent(ctx, messages)
	if err != nil {
		return "", appErrors.NewProviderError("chat completion", err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", nil
	}
	return resp.Choices[0].Content, nil
}

var _ Completer = (*TextClient)(nil)
