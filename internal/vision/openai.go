package vision

import (
	"context"
	"fmt"
	"image"

	domain "github.com/inference-gateway/gridpilot/internal/domain"
	openai "github.com/openai/openai-go/v3"
	option "github.com/openai/openai-go/v3/option"
)

// OpenAIModel talks to any OpenAI-compatible chat completions endpoint
type OpenAIModel struct {
	client       openai.Client
	model        string
	maxTokens    int
	maxImageSize int
}

var (
	_ domain.VisionModel = (*OpenAIModel)(nil)
	_ domain.ChatModel   = (*OpenAIModel)(nil)
)

// NewOpenAIModel creates an OpenAI-compatible model. A "provider/" prefix on
// the model name is ignored.
func NewOpenAIModel(opts Options) (*OpenAIModel, error) {
	_, name := splitModel(opts.Model)
	if name == "" {
		return nil, fmt.Errorf("model name is required")
	}

	reqOpts := []option.RequestOption{option.WithMaxRetries(0)}
	if opts.APIKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(opts.Timeout))
	}

	return &OpenAIModel{
		client:       openai.NewClient(reqOpts...),
		model:        name,
		maxTokens:    opts.MaxTokens,
		maxImageSize: opts.MaxImageSize,
	}, nil
}

// Ask sends prompt and img as a single multimodal user message
func (m *OpenAIModel) Ask(ctx context.Context, prompt string, img image.Image) (string, error) {
	dataURL, err := DataURL(img, m.maxImageSize)
	if err != nil {
		return "", err
	}

	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(prompt),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL:    dataURL,
			Detail: "high",
		}),
	}

	return m.generate(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage(parts),
	})
}

// Complete sends a system and user prompt and returns the reply text
func (m *OpenAIModel) Complete(ctx context.Context, system, user string) (string, error) {
	return m.generate(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(system),
		openai.UserMessage(user),
	})
}

func (m *OpenAIModel) generate(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(m.model),
		Messages: messages,
	}
	if m.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(m.maxTokens))
	}

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrVisionModel, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", domain.ErrVisionModel)
	}
	return resp.Choices[0].Message.Content, nil
}
