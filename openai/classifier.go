// Package openai classifies content using the OpenAI chat completions API.
package openai

import (
	"context"
	"strings"

	"github.com/fwojciec/repscan"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is the chat model used when none is configured.
const DefaultModel = "gpt-4-turbo"

// Generation parameters.
const (
	Temperature = 0.3
	MaxTokens   = 500
)

// Client is the subset of *openai.Client used by Classifier. Any
// OpenAI-compatible backend can be adapted to it.
type Client interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewClient returns a Client for the OpenAI API. A non-empty baseURL points
// it at an OpenAI-compatible server instead.
func NewClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

// Ensure Classifier implements repscan.Classifier at compile time.
var _ repscan.Classifier = (*Classifier)(nil)

// Classifier implements repscan.Classifier using an OpenAI chat model.
type Classifier struct {
	client   Client
	policy   *repscan.Policy
	model    string
	maxChars int
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithModel sets the chat model name.
func WithModel(model string) Option {
	return func(c *Classifier) {
		if model != "" {
			c.model = model
		}
	}
}

// WithMaxInputChars sets how much extracted text is sent to the model.
func WithMaxInputChars(n int) Option {
	return func(c *Classifier) {
		c.maxChars = n
	}
}

// NewClassifier creates a new Classifier.
func NewClassifier(client Client, policy *repscan.Policy, opts ...Option) *Classifier {
	if policy == nil {
		policy = &repscan.Policy{}
	}
	c := &Classifier{
		client:   client,
		policy:   policy,
		model:    DefaultModel,
		maxChars: repscan.DefaultMaxInputChars,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify asks the chat model for a reputational analysis of req.
// The request is made once; failures are not retried.
func (c *Classifier) Classify(ctx context.Context, req *repscan.ClassifyRequest) (string, error) {
	if req == nil || strings.TrimSpace(req.Text) == "" {
		return "", repscan.Errorf(repscan.EINVALID, "text required")
	}

	resp, err := c.client.CreateChatCompletion(ctx, BuildRequest(c.model, c.policy, req, c.maxChars))
	if err != nil {
		return "", repscan.Errorf(repscan.EUNAVAILABLE, "openai: %v", err)
	}
	if len(resp.Choices) == 0 {
		return "", repscan.Errorf(repscan.EUNAVAILABLE, "openai returned no choices")
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return "", repscan.Errorf(repscan.EUNAVAILABLE, "openai returned an empty analysis")
	}
	return answer, nil
}

// BuildRequest returns the chat completion request for req.
func BuildRequest(model string, policy *repscan.Policy, req *repscan.ClassifyRequest, maxChars int) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: repscan.BuildSystemPrompt(policy)},
			{Role: openai.ChatMessageRoleUser, Content: repscan.BuildUserPrompt(req, maxChars)},
		},
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	}
}
