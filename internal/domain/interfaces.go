package domain

import (
	"context"
	"image"
)

// VisionModel answers a text prompt about a single image
type VisionModel interface {
	Ask(ctx context.Context, prompt string, img image.Image) (string, error)
}

// ChatModel answers a system + user text exchange (used for planning)
type ChatModel interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// RateLimiter bounds the number of input actions within a sliding window
type RateLimiter interface {
	CheckAndRecord(action string) error
	GetCurrentCount() int
	Reset()
}
