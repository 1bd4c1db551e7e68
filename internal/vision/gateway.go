package vision

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	domain "github.com/inference-gateway/gridpilot/internal/domain"
	sdk "github.com/inference-gateway/sdk"
)

// GatewayModel talks to an Inference Gateway using its chat completions API
type GatewayModel struct {
	client       sdk.Client
	provider     sdk.Provider
	model        string
	maxTokens    int
	maxImageSize int
}

var (
	_ domain.VisionModel = (*GatewayModel)(nil)
	_ domain.ChatModel   = (*GatewayModel)(nil)
)

// NewGatewayModel creates a gateway-backed model. model must be "provider/name".
func NewGatewayModel(opts Options) (*GatewayModel, error) {
	provider, name := splitModel(opts.Model)
	if provider == "" {
		return nil, fmt.Errorf("invalid model format %q, expected 'provider/model'", opts.Model)
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	if !strings.HasSuffix(baseURL, "/v1") {
		baseURL = strings.TrimSuffix(baseURL, "/") + "/v1"
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	client := sdk.NewClient(&sdk.ClientOptions{
		BaseURL:     baseURL,
		APIKey:      opts.APIKey,
		Timeout:     timeout,
		RetryConfig: &sdk.RetryConfig{Enabled: false},
	})

	return &GatewayModel{
		client:       client,
		provider:     sdk.Provider(provider),
		model:        name,
		maxTokens:    opts.MaxTokens,
		maxImageSize: opts.MaxImageSize,
	}, nil
}

// Ask sends prompt and img as a single multimodal user message
func (m *GatewayModel) Ask(ctx context.Context, prompt string, img image.Image) (string, error) {
	dataURL, err := DataURL(img, m.maxImageSize)
	if err != nil {
		return "", err
	}

	textPart, err := sdk.NewTextContentPart(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to create text content: %w", err)
	}
	imagePart, err := sdk.NewImageContentPart(dataURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create image content: %w", err)
	}

	messages := []sdk.Message{
		{Role: sdk.User, Content: sdk.NewMessageContent([]sdk.ContentPart{textPart, imagePart})},
	}
	return m.generate(ctx, messages)
}

// Complete sends a system and user prompt and returns the reply text
func (m *GatewayModel) Complete(ctx context.Context, system, user string) (string, error) {
	messages := []sdk.Message{
		{Role: sdk.System, Content: sdk.NewMessageContent(system)},
		{Role: sdk.User, Content: sdk.NewMessageContent(user)},
	}
	return m.generate(ctx, messages)
}

func (m *GatewayModel) generate(ctx context.Context, messages []sdk.Message) (string, error) {
	var maxTokens *int
	if m.maxTokens > 0 {
		maxTokens = &[]int{m.maxTokens}[0]
	}

	response, err := m.client.
		WithOptions(&sdk.CreateChatCompletionRequest{
			MaxTokens: maxTokens,
		}).
		WithMiddlewareOptions(&sdk.MiddlewareOptions{
			SkipMCP: true,
		}).
		GenerateContent(ctx, m.provider, m.model, messages)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrVisionModel, err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", domain.ErrVisionModel)
	}

	content, err := response.Choices[0].Message.Content.AsMessageContent0()
	if err != nil {
		return "", fmt.Errorf("%w: failed to extract response content: %v", domain.ErrVisionModel, err)
	}
	return content, nil
}
