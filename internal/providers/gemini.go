package providers

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	genai "google.golang.org/genai"

	"github.com/docrelay/docrelay/internal/prompts"
	"github.com/docrelay/docrelay/internal/types"
)

const (
	GeminiName         = "gemini"
	geminiDefaultModel = "gemini-2.5-flash"
)

// GeminiConfig holds configuration for the Gemini provider.
type GeminiConfig struct {
	APIKey     string
	Model      string
	MaxRetries uint
	RetryDelay time.Duration
	Prompts    *prompts.Store
}

// GeminiClient implements Provider using the Gemini API. Pages are sent as
// inline single-page PDFs, which the model OCRs and structures in one call.
type GeminiClient struct {
	client     *genai.Client
	model      string
	maxRetries uint
	retryDelay time.Duration
	prompts    *prompts.Store
}

// NewGeminiClient creates a Gemini-backed provider.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: missing API key")
	}
	if cfg.Model == "" {
		cfg.Model = geminiDefaultModel
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	if cfg.Prompts == nil {
		var err error
		cfg.Prompts, err = prompts.NewStore("")
		if err != nil {
			return nil, err
		}
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to create client: %w", err)
	}
	return &GeminiClient{
		client:     c,
		model:      cfg.Model,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		prompts:    cfg.Prompts,
	}, nil
}

// Name returns the provider identifier.
func (c *GeminiClient) Name() string { return GeminiName }

// StructurePage extracts structured elements from one page.
func (c *GeminiClient) StructurePage(ctx context.Context, page PageInput) ([]types.Element, error) {
	blob, err := pageBlob(page)
	if err != nil {
		return nil, err
	}

	content := &genai.Content{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			{Text: c.prompts.MustGet(prompts.StructurePage)},
			{InlineData: blob},
		},
	}

	raw, err := c.generate(ctx, []*genai.Content{content}, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: structure request for page %d failed: %w", page.PageNumber, err)
	}
	return structureOrFallback(raw), nil
}

// Translate sends a prepared translation prompt.
func (c *GeminiClient) Translate(ctx context.Context, prompt string) (string, error) {
	system := c.prompts.MustGet(prompts.Translate)
	raw, err := c.generate(ctx, []*genai.Content{
		genai.NewContentFromText(system+"\n\n"+prompt, genai.RoleUser),
	}, nil)
	if err != nil {
		return "", fmt.Errorf("gemini: translation request failed: %w", err)
	}
	return raw, nil
}

// generate calls the model with transient-failure retries.
func (c *GeminiClient) generate(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	var text string
	err := retry.Do(
		func() error {
			res, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
			if err != nil {
				return err
			}
			text = res.Text()
			if text == "" {
				return errors.New("empty model response")
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.maxRetries),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	return text, err
}

// pageBlob selects the inline representation for a page: the single-page
// PDF when present, otherwise the rendered raster decoded from its data URL.
func pageBlob(page PageInput) (*genai.Blob, error) {
	if len(page.PDF) > 0 {
		return &genai.Blob{MIMEType: "application/pdf", Data: page.PDF}, nil
	}
	if page.ImageDataURL != "" {
		mime, data, err := decodeDataURL(page.ImageDataURL)
		if err != nil {
			return nil, err
		}
		return &genai.Blob{MIMEType: mime, Data: data}, nil
	}
	return nil, fmt.Errorf("page %d has no content to process", page.PageNumber)
}

// decodeDataURL splits a "data:<mime>;base64,<payload>" URL.
func decodeDataURL(u string) (mime string, data []byte, err error) {
	rest, ok := strings.CutPrefix(u, "data:")
	if !ok {
		return "", nil, errors.New("not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("malformed data URL")
	}
	mime = strings.TrimSuffix(meta, ";base64")
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode data URL payload: %w", err)
	}
	return mime, data, nil
}
