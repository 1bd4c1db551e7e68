package vision

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	config "github.com/inference-gateway/gridpilot/config"
	domain "github.com/inference-gateway/gridpilot/internal/domain"
	logger "github.com/inference-gateway/gridpilot/internal/logger"
	rate "golang.org/x/time/rate"
)

// Model answers both image questions and plain chat prompts
type Model interface {
	domain.VisionModel
	domain.ChatModel
}

// Options configures a model backend
type Options struct {
	Backend           string
	Model             string
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	MaxTokens         int
	MaxImageSize      int
	RequestsPerMinute int
}

// OptionsFromConfig maps the vision configuration section onto Options
func OptionsFromConfig(cfg config.VisionConfig) Options {
	return Options{
		Backend:           cfg.Backend,
		Model:             cfg.Model,
		BaseURL:           cfg.BaseURL,
		APIKey:            cfg.APIKey,
		Timeout:           cfg.Timeout,
		MaxTokens:         cfg.MaxTokens,
		MaxImageSize:      cfg.MaxImageSize,
		RequestsPerMinute: cfg.RequestsPerMinute,
	}
}

// New builds the configured backend, paced to RequestsPerMinute when positive
func New(ctx context.Context, opts Options) (Model, error) {
	var (
		model Model
		err   error
	)

	switch opts.Backend {
	case "", "gateway":
		model, err = NewGatewayModel(opts)
	case "openai":
		model, err = NewOpenAIModel(opts)
	case "gemini":
		model, err = NewGeminiModel(ctx, opts)
	default:
		return nil, fmt.Errorf("%w: unsupported vision backend %q", domain.ErrConfiguration, opts.Backend)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("Vision model ready", "backend", opts.Backend, "model", opts.Model)

	if opts.RequestsPerMinute > 0 {
		return NewPacedModel(model, opts.RequestsPerMinute), nil
	}
	return model, nil
}

// PacedModel spaces requests to an upstream model
type PacedModel struct {
	next    Model
	limiter *rate.Limiter
}

// NewPacedModel allows at most perMinute requests per minute with a burst of one
func NewPacedModel(next Model, perMinute int) *PacedModel {
	return &PacedModel{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
	}
}

// Ask waits for a request slot, then forwards to the wrapped model
func (p *PacedModel) Ask(ctx context.Context, prompt string, img image.Image) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrVisionModel, err)
	}
	return p.next.Ask(ctx, prompt, img)
}

// Complete waits for a request slot, then forwards to the wrapped model
func (p *PacedModel) Complete(ctx context.Context, system, user string) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrVisionModel, err)
	}
	return p.next.Complete(ctx, system, user)
}

// splitModel splits "provider/name"; a bare name yields an empty provider
func splitModel(model string) (provider, name string) {
	parts := strings.SplitN(strings.TrimSpace(model), "/", 2)
	if len(parts) == 1 {
		return "", parts[0]
	}
	return parts[0], parts[1]
}
