package journal

import (
	"context"
	"sync"
)

// MemoryJournal keeps entries for the lifetime of the process
type MemoryJournal struct {
	mu      sync.RWMutex
	entries []Entry
}

var _ Journal = (*MemoryJournal)(nil)

// NewMemoryJournal creates an empty in-memory journal
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

// Record appends an entry
func (m *MemoryJournal) Record(ctx context.Context, entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, prepare(entry))
	return nil
}

// Recent returns up to limit entries, newest first
func (m *MemoryJournal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return newestFirst(m.entries, limit), nil
}

// Stats aggregates every recorded entry
func (m *MemoryJournal) Stats(ctx context.Context) (Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := Stats{ByCandidate: make(map[string]int)}
	for _, e := range m.entries {
		stats.add(e)
	}
	return stats, nil
}

// Close is a no-op
func (m *MemoryJournal) Close() error {
	return nil
}

func newestFirst(entries []Entry, limit int) []Entry {
	if limit <= 0 || limit > len(entries) {
		limit = len(entries)
	}
	out := make([]Entry, 0, limit)
	for i := len(entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, entries[i])
	}
	return out
}
