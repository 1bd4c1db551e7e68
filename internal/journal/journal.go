package journal

import (
	"context"
	"fmt"
	"sort"
	"time"

	uuid "github.com/google/uuid"
	config "github.com/inference-gateway/gridpilot/config"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Entry is the outcome of one click action
type Entry struct {
	ID             string    `json:"id"`
	SessionID      string    `json:"session_id"`
	Target         string    `json:"target"`
	Found          bool      `json:"found"`
	Clicked        bool      `json:"clicked"`
	CandidateIndex int       `json:"candidate_index"`
	CandidateLabel string    `json:"candidate_label,omitempty"`
	Attempts       int       `json:"attempts"`
	Radius         int       `json:"radius"`
	Confidence     string    `json:"confidence"`
	ImageX         int       `json:"image_x"`
	ImageY         int       `json:"image_y"`
	LogicalX       int       `json:"logical_x"`
	LogicalY       int       `json:"logical_y"`
	CreatedAt      time.Time `json:"created_at"`
}

// Stats aggregates recorded outcomes
type Stats struct {
	Total       int            `json:"total"`
	Clicked     int            `json:"clicked"`
	NotFound    int            `json:"not_found"`
	Missed      int            `json:"missed"`
	ByCandidate map[string]int `json:"by_candidate"`
}

// OffCenterRate is the share of successful clicks that needed an offset candidate.
// A high rate suggests the resolved targets are systematically biased.
func (s Stats) OffCenterRate() float64 {
	if s.Clicked == 0 {
		return 0
	}
	return float64(s.Clicked-s.ByCandidate["center"]) / float64(s.Clicked)
}

// Labels returns the candidate labels in descending success order
func (s Stats) Labels() []string {
	labels := make([]string, 0, len(s.ByCandidate))
	for l := range s.ByCandidate {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		if s.ByCandidate[labels[i]] != s.ByCandidate[labels[j]] {
			return s.ByCandidate[labels[i]] > s.ByCandidate[labels[j]]
		}
		return labels[i] < labels[j]
	})
	return labels
}

func (s *Stats) add(e Entry) {
	if s.ByCandidate == nil {
		s.ByCandidate = make(map[string]int)
	}
	s.Total++
	switch {
	case !e.Found:
		s.NotFound++
	case e.Clicked:
		s.Clicked++
		s.ByCandidate[e.CandidateLabel]++
	default:
		s.Missed++
	}
}

// Journal persists click outcomes across sessions
type Journal interface {
	Record(ctx context.Context, entry Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Stats(ctx context.Context) (Stats, error)
	Close() error
}

// prepare fills the generated fields of an entry
func prepare(e Entry) Entry {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	return e
}

// New opens the configured journal backend. A disabled journal records in memory only.
func New(cfg config.JournalConfig) (Journal, error) {
	if !cfg.Enabled {
		return NewMemoryJournal(), nil
	}

	switch cfg.Type {
	case "memory":
		return NewMemoryJournal(), nil
	case "jsonl":
		return NewJsonlJournal(cfg.Jsonl)
	case "sqlite":
		return NewSQLiteJournal(cfg.SQLite)
	case "postgres":
		return NewPostgresJournal(cfg.Postgres)
	case "redis":
		return NewRedisJournal(cfg.Redis)
	default:
		return nil, fmt.Errorf("unsupported journal type: %s", cfg.Type)
	}
}
