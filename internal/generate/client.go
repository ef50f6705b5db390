// Package generate wraps the OpenAI API for each stage of book
// production: concept, outline, chapters, blurb, cover art, and
// distribution metadata.
package generate

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/jmpublishing/bookforge/internal/book"
	"github.com/jmpublishing/bookforge/internal/prompts/blurb"
	"github.com/jmpublishing/bookforge/internal/prompts/chapter"
	"github.com/jmpublishing/bookforge/internal/prompts/concept"
	"github.com/jmpublishing/bookforge/internal/prompts/coverart"
	"github.com/jmpublishing/bookforge/internal/prompts/distmeta"
	"github.com/jmpublishing/bookforge/internal/prompts/outline"
)

const (
	defaultTextModel  = "gpt-4o"
	defaultImageModel = openai.ImageModelDallE3

	// Stage temperatures. Concept runs hot for variety, metadata runs
	// cold because the payload must parse.
	conceptTemperature  = 0.8
	draftingTemperature = 0.7
	metadataTemperature = 0.3
)

// Config holds configuration for the generation client.
type Config struct {
	APIKey       string
	TextModel    string // Concept, outline, blurb, cover prompt, metadata
	ChapterModel string // Chapter prose; defaults to TextModel
	ImageModel   string // Cover image
	BaseURL      string // Optional (tests)
	Timeout      time.Duration
	HTTPClient   *http.Client // Optional (tests)
}

// Client calls the OpenAI API for each generation stage. Every call is
// a single attempt; callers decide whether a failed stage is fatal.
type Client struct {
	client       openai.Client
	textModel    string
	chapterModel string
	imageModel   string
	httpClient   *http.Client
	logger       *slog.Logger
}

// NewClient creates a generation client from cfg.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.TextModel == "" {
		cfg.TextModel = defaultTextModel
	}
	if cfg.ChapterModel == "" {
		cfg.ChapterModel = cfg.TextModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = defaultImageModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 300 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		client:       openai.NewClient(opts...),
		textModel:    cfg.TextModel,
		chapterModel: cfg.ChapterModel,
		imageModel:   cfg.ImageModel,
		httpClient:   httpClient,
		logger:       logger,
	}
}

// complete sends a single user message and returns the assistant text.
func (c *Client) complete(ctx context.Context, model, prompt string, temperature float64) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}

// Concept generates a fresh book concept. The model picks the niche.
func (c *Client) Concept(ctx context.Context) (book.Concept, error) {
	c.logger.Info("generating concept", "model", c.textModel)

	content, err := c.complete(ctx, c.textModel, concept.Build(), conceptTemperature)
	if err != nil {
		return book.Concept{}, fmt.Errorf("concept stage: %w", err)
	}

	var out book.Concept
	if err := decodeValidated(content, concept.Schema, &out); err != nil {
		return book.Concept{}, fmt.Errorf("concept stage: %w", err)
	}
	if !book.ValidGenre(out.Niche) {
		return book.Concept{}, fmt.Errorf("concept stage: unknown niche %q", out.Niche)
	}
	return out, nil
}

// Outline generates the title, chapter outline, and keywords for a
// concept. The returned outline is validated for contiguous 1-based
// chapter numbering.
func (c *Client) Outline(ctx context.Context, con book.Concept) (book.Outline, error) {
	c.logger.Info("generating outline", "model", c.textModel, "chapters", con.ChapterCount)

	prompt, err := outline.Build(outline.Params{
		ConceptSummary: con.ConceptSummary,
		Niche:          con.Niche,
		Subgenre:       con.Subgenre,
		WordCount:      con.WordCount,
		ChapterCount:   con.ChapterCount,
	})
	if err != nil {
		return book.Outline{}, fmt.Errorf("outline stage: %w", err)
	}

	content, err := c.complete(ctx, c.textModel, prompt, draftingTemperature)
	if err != nil {
		return book.Outline{}, fmt.Errorf("outline stage: %w", err)
	}

	var out book.Outline
	if err := decodeValidated(content, outline.Schema, &out); err != nil {
		return book.Outline{}, fmt.Errorf("outline stage: %w", err)
	}
	if err := out.Validate(); err != nil {
		return book.Outline{}, fmt.Errorf("outline stage: %w", err)
	}
	if len(out.Chapters) != con.ChapterCount {
		return book.Outline{}, fmt.Errorf("outline stage: got %d chapters, concept calls for %d",
			len(out.Chapters), con.ChapterCount)
	}
	return out, nil
}

// Chapter generates prose for one chapter. The returned text is used
// as-is; it is not JSON.
func (c *Client) Chapter(ctx context.Context, p chapter.Params) (string, error) {
	c.logger.Info("generating chapter",
		"model", c.chapterModel,
		"number", p.ChapterNumber,
		"title", p.ChapterTitle)

	prompt, err := chapter.Build(p)
	if err != nil {
		return "", fmt.Errorf("chapter %d: %w", p.ChapterNumber, err)
	}
	content, err := c.complete(ctx, c.chapterModel, prompt, draftingTemperature)
	if err != nil {
		return "", fmt.Errorf("chapter %d: %w", p.ChapterNumber, err)
	}
	return content, nil
}

// Blurb generates the back-cover marketing blurb.
func (c *Client) Blurb(ctx context.Context, p blurb.Params) (string, error) {
	c.logger.Info("generating blurb", "model", c.textModel)

	prompt, err := blurb.Build(p)
	if err != nil {
		return "", fmt.Errorf("blurb stage: %w", err)
	}
	content, err := c.complete(ctx, c.textModel, prompt, draftingTemperature)
	if err != nil {
		return "", fmt.Errorf("blurb stage: %w", err)
	}
	return content, nil
}

// CoverPrompt asks the text model to write an image-generation prompt
// for the book cover.
func (c *Client) CoverPrompt(ctx context.Context, p coverart.Params) (string, error) {
	c.logger.Info("generating cover prompt", "model", c.textModel)

	prompt, err := coverart.Build(p)
	if err != nil {
		return "", fmt.Errorf("cover prompt stage: %w", err)
	}
	content, err := c.complete(ctx, c.textModel, prompt, draftingTemperature)
	if err != nil {
		return "", fmt.Errorf("cover prompt stage: %w", err)
	}
	return content, nil
}

// CoverImage generates the cover image from an image prompt and saves
// it to destPath. Returns destPath on success.
func (c *Client) CoverImage(ctx context.Context, imagePrompt, destPath string) (string, error) {
	c.logger.Info("generating cover image", "model", c.imageModel, "dest", destPath)

	resp, err := c.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:  imagePrompt,
		Model:   openai.ImageModel(c.imageModel),
		N:       openai.Int(1),
		Size:    openai.ImageGenerateParamsSize1024x1792,
		Quality: openai.ImageGenerateParamsQualityStandard,
	})
	if err != nil {
		return "", fmt.Errorf("image generation failed: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", ErrNoImageURL
	}

	if err := c.downloadImage(ctx, resp.Data[0].URL, destPath); err != nil {
		return "", err
	}
	return destPath, nil
}

// DistMetadata generates the portal-ready distribution metadata.
func (c *Client) DistMetadata(ctx context.Context, p distmeta.Params) (book.DistMetadata, error) {
	c.logger.Info("generating distribution metadata", "model", c.textModel)

	prompt, err := distmeta.Build(p)
	if err != nil {
		return book.DistMetadata{}, fmt.Errorf("metadata stage: %w", err)
	}
	content, err := c.complete(ctx, c.textModel, prompt, metadataTemperature)
	if err != nil {
		return book.DistMetadata{}, fmt.Errorf("metadata stage: %w", err)
	}

	var out book.DistMetadata
	if err := decodeValidated(content, distmeta.Schema, &out); err != nil {
		return book.DistMetadata{}, fmt.Errorf("metadata stage: %w", err)
	}
	return out, nil
}
