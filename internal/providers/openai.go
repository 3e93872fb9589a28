package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/docrelay/docrelay/internal/prompts"
	"github.com/docrelay/docrelay/internal/types"
)

const (
	OpenAIName         = "openai"
	openAIDefaultModel = openai.ChatModelGPT4o
)

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey     string
	Model      string
	MaxRetries int
	Timeout    time.Duration
	BaseURL    string       // Optional (tests)
	HTTPClient *http.Client // Optional (tests)
	Prompts    *prompts.Store
}

// OpenAIClient implements Provider using the official OpenAI SDK. Pages are
// sent as rendered page images through the vision API; the SDK handles
// transport retries.
type OpenAIClient struct {
	client  openai.Client
	model   string
	prompts *prompts.Store
}

// NewOpenAIClient creates an OpenAI-backed provider.
func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: missing API key")
	}
	if cfg.Model == "" {
		cfg.Model = openAIDefaultModel
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 300 * time.Second
	}
	if cfg.Prompts == nil {
		var err error
		cfg.Prompts, err = prompts.NewStore("")
		if err != nil {
			return nil, err
		}
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		client:  openai.NewClient(opts...),
		model:   cfg.Model,
		prompts: cfg.Prompts,
	}, nil
}

// Name returns the provider identifier.
func (c *OpenAIClient) Name() string { return OpenAIName }

// StructurePage extracts structured elements from one page. Requires a
// rendered page image; the chat API does not accept raw PDFs.
func (c *OpenAIClient) StructurePage(ctx context.Context, page PageInput) ([]types.Element, error) {
	if page.ImageDataURL == "" {
		return nil, fmt.Errorf("openai: page %d has no rendered image", page.PageNumber)
	}

	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(c.prompts.MustGet(prompts.StructurePage)),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: page.ImageDataURL,
		}),
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(parts)},
	})
	if err != nil {
		return nil, fmt.Errorf("openai: structure request for page %d failed: %w", page.PageNumber, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: empty response for page %d", page.PageNumber)
	}
	return structureOrFallback(resp.Choices[0].Message.Content), nil
}

// Translate sends a prepared translation prompt.
func (c *OpenAIClient) Translate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(c.prompts.MustGet(prompts.Translate)),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: translation request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty translation response")
	}
	return resp.Choices[0].Message.Content, nil
}
