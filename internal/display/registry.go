package display

import (
	"fmt"
	"sync"

	domain "github.com/inference-gateway/gridpilot/internal/domain"
	logger "github.com/inference-gateway/gridpilot/internal/logger"
)

// Registry manages display server providers and handles display detection
type Registry struct {
	providers []Provider
	mu        sync.RWMutex
}

var globalRegistry = &Registry{}

// Register adds a display server provider to the global registry.
// Called from init() in the platform packages; registration order is priority order.
func Register(provider Provider) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.providers = append(globalRegistry.providers, provider)
}

// DetectDisplay returns the first available provider
func DetectDisplay() (Provider, error) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	for _, p := range globalRegistry.providers {
		if p.IsAvailable() {
			return p, nil
		}
	}

	return nil, fmt.Errorf("%w: no compatible display server detected (tried %d providers)", domain.ErrCapture, len(globalRegistry.providers))
}

// GetProvider returns the provider registered under name, or nil
func GetProvider(name string) Provider {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	for _, p := range globalRegistry.providers {
		if p.GetDisplayInfo().Name == name {
			return p
		}
	}
	return nil
}

// Open connects to the named display server, or the detected one when name is empty
func Open(name, displayName string) (DisplayController, error) {
	var (
		provider Provider
		err      error
	)

	if name == "" {
		provider, err = DetectDisplay()
		if err != nil {
			return nil, err
		}
	} else {
		provider = GetProvider(name)
		if provider == nil {
			return nil, fmt.Errorf("%w: display server %q is not supported on this platform", domain.ErrCapture, name)
		}
		if !provider.IsAvailable() {
			return nil, fmt.Errorf("%w: display server %q is not available", domain.ErrCapture, name)
		}
	}

	info := provider.GetDisplayInfo()
	logger.Debug("Opening display", "server", info.Name, "display", displayName)

	ctrl, err := provider.GetController(displayName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrCapture, info.Name, err)
	}
	return ctrl, nil
}

// ClearProviders removes all registered providers (primarily for testing)
func ClearProviders() {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.providers = nil
}
