package journal

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	config "github.com/inference-gateway/gridpilot/config"
	logger "github.com/inference-gateway/gridpilot/internal/logger"
)

const jsonlFile = "journal.jsonl"

// JsonlJournal appends one JSON object per line to <path>/journal.jsonl
type JsonlJournal struct {
	path string
	mu   sync.Mutex
}

var _ Journal = (*JsonlJournal)(nil)

// NewJsonlJournal creates the journal directory and checks it is writable
func NewJsonlJournal(cfg config.JsonlConfig) (*JsonlJournal, error) {
	dir := cfg.Path
	if strings.HasPrefix(dir, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, dir[1:])
		}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	testFile := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		return nil, fmt.Errorf("journal directory not writable: %w", err)
	}
	_ = os.Remove(testFile)

	return &JsonlJournal{path: filepath.Join(dir, jsonlFile)}, nil
}

// Record appends an entry as a single line
func (j *JsonlJournal) Record(ctx context.Context, entry Entry) error {
	line, err := json.Marshal(prepare(entry))
	if err != nil {
		return fmt.Errorf("failed to marshal journal entry: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first
func (j *JsonlJournal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	entries, err := j.readAll()
	if err != nil {
		return nil, err
	}
	return newestFirst(entries, limit), nil
}

// Stats aggregates every line of the journal
func (j *JsonlJournal) Stats(ctx context.Context) (Stats, error) {
	entries, err := j.readAll()
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{ByCandidate: make(map[string]int)}
	for _, e := range entries {
		stats.add(e)
	}
	return stats, nil
}

// Close is a no-op; the file is opened per write
func (j *JsonlJournal) Close() error {
	return nil
}

// readAll skips lines that fail to decode so one torn write does not hide the rest
func (j *JsonlJournal) readAll() ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.Open(j.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer func() { _ = f.Close() }()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for n := 1; scanner.Scan(); n++ {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			logger.Warn("Skipping malformed journal line", "path", j.path, "line", n, "error", err)
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	return entries, nil
}
