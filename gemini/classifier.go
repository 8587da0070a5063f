// Package gemini classifies content using Google Gemini.
package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/repscan"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Generation parameters.
const (
	Temperature     = 0.3
	MaxOutputTokens = 500
)

// Generator is the subset of *genai.Models used by Classifier.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Ensure Classifier implements repscan.Classifier at compile time.
var _ repscan.Classifier = (*Classifier)(nil)

// Classifier implements repscan.Classifier using Google Gemini.
type Classifier struct {
	models   Generator
	policy   *repscan.Policy
	model    string
	maxChars int
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithModel sets the Gemini model name.
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

// NewClassifier creates a new Classifier. Pass client.Models as models.
func NewClassifier(models Generator, policy *repscan.Policy, opts ...Option) *Classifier {
	if policy == nil {
		policy = &repscan.Policy{}
	}
	c := &Classifier{
		models:   models,
		policy:   policy,
		model:    DefaultModel,
		maxChars: repscan.DefaultMaxInputChars,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify asks Gemini for a reputational analysis of req.
func (c *Classifier) Classify(ctx context.Context, req *repscan.ClassifyRequest) (string, error) {
	if req == nil || strings.TrimSpace(req.Text) == "" {
		return "", repscan.Errorf(repscan.EINVALID, "text required")
	}

	result, err := c.models.GenerateContent(ctx, c.model,
		[]*genai.Content{{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: repscan.BuildUserPrompt(req, c.maxChars)}},
		}},
		BuildConfig(c.policy),
	)
	if err != nil {
		return "", repscan.Errorf(repscan.EUNAVAILABLE, "gemini: %v", err)
	}
	if result == nil {
		return "", repscan.Errorf(repscan.EUNAVAILABLE, "gemini returned nil result")
	}

	answer := strings.TrimSpace(result.Text())
	if answer == "" {
		return "", repscan.Errorf(repscan.EUNAVAILABLE, "gemini returned an empty analysis")
	}
	return answer, nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig(policy *repscan.Policy) *genai.GenerateContentConfig {
	temp := float32(Temperature)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: repscan.BuildSystemPrompt(policy)}},
		},
		Temperature:     &temp,
		MaxOutputTokens: MaxOutputTokens,
	}
}
