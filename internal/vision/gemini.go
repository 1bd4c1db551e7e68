package vision

import (
	"context"
	"fmt"
	"image"

	domain "github.com/inference-gateway/gridpilot/internal/domain"
	genai "google.golang.org/genai"
)

// GeminiModel talks to the Gemini API
type GeminiModel struct {
	client       *genai.Client
	model        string
	maxTokens    int
	maxImageSize int
}

var (
	_ domain.VisionModel = (*GeminiModel)(nil)
	_ domain.ChatModel   = (*GeminiModel)(nil)
)

// NewGeminiModel creates a Gemini-backed model. A "provider/" prefix on the
// model name and the base URL are ignored.
func NewGeminiModel(ctx context.Context, opts Options) (*GeminiModel, error) {
	_, name := splitModel(opts.Model)
	if name == "" {
		return nil, fmt.Errorf("model name is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.Timeout > 0 {
		timeout := opts.Timeout
		cc.HTTPOptions.Timeout = &timeout
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiModel{
		client:       client,
		model:        name,
		maxTokens:    opts.MaxTokens,
		maxImageSize: opts.MaxImageSize,
	}, nil
}

// Ask sends prompt and img as inline PNG bytes
func (m *GeminiModel) Ask(ctx context.Context, prompt string, img image.Image) (string, error) {
	data, err := EncodePNG(img, m.maxImageSize)
	if err != nil {
		return "", err
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(data, "image/png"),
		}, genai.RoleUser),
	}
	return m.generate(ctx, contents, m.config(nil))
}

// Complete sends a system instruction and user prompt
func (m *GeminiModel) Complete(ctx context.Context, system, user string) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(user, genai.RoleUser)}
	return m.generate(ctx, contents, m.config(genai.NewContentFromText(system, genai.RoleUser)))
}

func (m *GeminiModel) config(system *genai.Content) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{SystemInstruction: system}
	if m.maxTokens > 0 {
		cfg.MaxOutputTokens = int32(m.maxTokens)
	}
	return cfg
}

func (m *GeminiModel) generate(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	resp, err := m.client.Models.GenerateContent(ctx, m.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrVisionModel, err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty response", domain.ErrVisionModel)
	}
	return text, nil
}
