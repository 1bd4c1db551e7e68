package artifacts

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	uuid "github.com/google/uuid"
	grid "github.com/inference-gateway/gridpilot/internal/grid"
	logger "github.com/inference-gateway/gridpilot/internal/logger"
)

const dirPrefix = "gridpilot-"

// Store keeps the screenshots and overlays of one session in a private directory
type Store struct {
	sessionID string
	dir       string
	keep      bool

	mu    sync.Mutex
	saved int
}

// NewStore creates <root>/gridpilot-<session>/. An empty root uses the OS temp dir.
func NewStore(root string, keep bool) (*Store, error) {
	if root == "" {
		root = os.TempDir()
	}

	id := uuid.NewString()
	dir := filepath.Join(root, dirPrefix+id)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}

	logger.Debug("Artifact store created", "dir", dir, "keep", keep)
	return &Store{sessionID: id, dir: dir, keep: keep}, nil
}

// SessionID identifies the session the store belongs to
func (s *Store) SessionID() string {
	return s.sessionID
}

// Dir returns the session directory
func (s *Store) Dir() string {
	return s.dir
}

// Save writes img as <dir>/<seq>-<name>.png and returns the path
func (s *Store) Save(name string, img image.Image) (string, error) {
	s.mu.Lock()
	s.saved++
	seq := s.saved
	s.mu.Unlock()

	name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	path := filepath.Join(s.dir, fmt.Sprintf("%03d-%s.png", seq, name))
	if err := grid.SaveImage(path, img); err != nil {
		return "", err
	}
	return path, nil
}

// Cleanup removes the session directory unless the store was told to keep it.
// Safe to call more than once.
func (s *Store) Cleanup() error {
	if s.keep {
		logger.Info("Keeping artifacts", "dir", s.dir)
		return nil
	}
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("failed to remove artifacts: %w", err)
	}
	return nil
}
