package journal

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	redis "github.com/go-redis/redis/v8"
	config "github.com/inference-gateway/gridpilot/config"
)

const (
	redisEntriesKey = "gridpilot:journal:entries"
	redisStatsKey   = "gridpilot:journal:stats"
	candidatePrefix = "candidate:"
)

// RedisJournal keeps entries in a list and running counters in a hash
type RedisJournal struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Journal = (*RedisJournal)(nil)

// NewRedisJournal connects to Redis
func NewRedisJournal(cfg config.RedisConfig) (*RedisJournal, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		DB:       cfg.Database,
		Password: cfg.Password,
		Username: cfg.Username,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	var ttl time.Duration
	if cfg.TTL > 0 {
		ttl = time.Duration(cfg.TTL) * time.Second
	}
	return &RedisJournal{client: client, ttl: ttl}, nil
}

// Record pushes the entry and bumps the counters in one pipeline
func (r *RedisJournal) Record(ctx context.Context, entry Entry) error {
	e := prepare(entry)
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal journal entry: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, redisEntriesKey, data)
	pipe.HIncrBy(ctx, redisStatsKey, "total", 1)
	switch {
	case !e.Found:
		pipe.HIncrBy(ctx, redisStatsKey, "not_found", 1)
	case e.Clicked:
		pipe.HIncrBy(ctx, redisStatsKey, "clicked", 1)
		pipe.HIncrBy(ctx, redisStatsKey, candidatePrefix+e.CandidateLabel, 1)
	default:
		pipe.HIncrBy(ctx, redisStatsKey, "missed", 1)
	}
	if r.ttl > 0 {
		pipe.Expire(ctx, redisEntriesKey, r.ttl)
		pipe.Expire(ctx, redisStatsKey, r.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record probe outcome: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first
func (r *RedisJournal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	start := int64(0)
	if limit > 0 {
		start = -int64(limit)
	}

	raw, err := r.client.LRange(ctx, redisEntriesKey, start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	entries := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return newestFirst(entries, limit), nil
}

// Stats reads the running counters
func (r *RedisJournal) Stats(ctx context.Context) (Stats, error) {
	fields, err := r.client.HGetAll(ctx, redisStatsKey).Result()
	if err != nil {
		return Stats{}, fmt.Errorf("failed to read journal stats: %w", err)
	}
	return statsFromHash(fields), nil
}

// Close closes the Redis client
func (r *RedisJournal) Close() error {
	return r.client.Close()
}

func statsFromHash(fields map[string]string) Stats {
	stats := Stats{ByCandidate: make(map[string]int)}
	for k, v := range fields {
		n, err := strconv.Atoi(v)
		if err != nil {
			continue
		}
		switch {
		case k == "total":
			stats.Total = n
		case k == "clicked":
			stats.Clicked = n
		case k == "not_found":
			stats.NotFound = n
		case k == "missed":
			stats.Missed = n
		case strings.HasPrefix(k, candidatePrefix):
			stats.ByCandidate[strings.TrimPrefix(k, candidatePrefix)] = n
		}
	}
	return stats
}
