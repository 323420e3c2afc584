// Package gemini wraps the Google GenAI SDK behind the small text-generation
// surface the rest of sysmarket needs. The model is treated as an opaque,
// fallible remote collaborator: one call in, raw text out.
package gemini

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"sysmarket/internal/boilerplate"
)

const (
	// DefaultModel matches the generator's default model choice.
	DefaultModel = "gemini-2.5-pro"

	// Generation parameters used for boilerplate synthesis. Low temperature
	// keeps the JSON shape stable across runs.
	defaultTemperature     = 0.4
	defaultTopP            = 0.9
	defaultMaxOutputTokens = 18000

	// defaultTimeout bounds a call when the caller's context carries no
	// deadline. Large generations can take a while.
	defaultTimeout = 5 * time.Minute
)

// APIKeyFromEnv resolves the credential from the environment:
// GEMINI_API_KEY first, then GOOGLE_API_KEY. Empty means no credential.
func APIKeyFromEnv() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("GOOGLE_API_KEY")
}

// Config controls client construction.
type Config struct {
	APIKey          string
	Model           string
	Temperature     float32
	TopP            float32
	MaxOutputTokens int32
	Timeout         time.Duration
}

// DefaultConfig returns the generation defaults for the given key.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:          apiKey,
		Model:           DefaultModel,
		Temperature:     defaultTemperature,
		TopP:            defaultTopP,
		MaxOutputTokens: defaultMaxOutputTokens,
		Timeout:         defaultTimeout,
	}
}

// Client calls the Gemini API for text generation.
type Client struct {
	client *genai.Client
	config Config
	log    *zap.Logger
}

// NewClient validates the credential and constructs the SDK client.
// A missing key is reported here, before any network activity.
func NewClient(ctx context.Context, config Config, log *zap.Logger) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%w: API key is required (set GEMINI_API_KEY or GOOGLE_API_KEY)", boilerplate.ErrMissingCredential)
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Client{client: client, config: config, log: log}, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.config.Model
}

// GenerateText sends one prompt and returns the raw response text.
// No retries: a failure here is surfaced directly to the caller.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	c.log.Debug("Calling Gemini",
		zap.String("model", c.config.Model),
		zap.Int("prompt_len", len(prompt)))

	result, err := c.client.Models.GenerateContent(ctx,
		c.config.Model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr(c.config.Temperature),
			TopP:            genai.Ptr(c.config.TopP),
			MaxOutputTokens: c.config.MaxOutputTokens,
		},
	)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := collectText(result)
	if text == "" {
		return "", fmt.Errorf("model response contains no usable text")
	}

	c.log.Debug("Gemini call completed",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("response_len", len(text)))
	return text, nil
}

// collectText flattens the response text. Result.Text covers the common
// case; walking candidate parts covers responses where the convenience
// accessor comes back empty.
func collectText(result *genai.GenerateContentResponse) string {
	if result == nil {
		return ""
	}
	if text := strings.TrimSpace(result.Text()); text != "" {
		return text
	}
	var parts []string
	for _, cand := range result.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.Text != "" {
				parts = append(parts, part.Text)
			}
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
