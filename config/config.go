package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	domain "github.com/inference-gateway/gridpilot/internal/domain"
	logger "github.com/inference-gateway/gridpilot/internal/logger"
	viper "github.com/spf13/viper"
	gotenv "github.com/subosito/gotenv"
	yaml "gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is the project-local configuration file
	DefaultConfigPath = ".gridpilot/config.yaml"

	// EnvPrefix prefixes every environment override, e.g. GRIDPILOT_VISION_API_KEY
	EnvPrefix = "GRIDPILOT"
)

// Config represents the gridpilot configuration
type Config struct {
	Vision    VisionConfig    `mapstructure:"vision" yaml:"vision"`
	Grid      GridConfig      `mapstructure:"grid" yaml:"grid"`
	Click     ClickConfig     `mapstructure:"click" yaml:"click"`
	Plan      PlanConfig      `mapstructure:"plan" yaml:"plan"`
	Display   DisplayConfig   `mapstructure:"display" yaml:"display"`
	Artifacts ArtifactsConfig `mapstructure:"artifacts" yaml:"artifacts"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit"`
	Journal   JournalConfig   `mapstructure:"journal" yaml:"journal"`
}

// VisionConfig selects and tunes the vision model backend
type VisionConfig struct {
	Backend           string        `mapstructure:"backend" yaml:"backend"`
	Model             string        `mapstructure:"model" yaml:"model"`
	BaseURL           string        `mapstructure:"base_url" yaml:"base_url"`
	APIKey            string        `mapstructure:"api_key" yaml:"api_key"`
	Timeout           time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxTokens         int           `mapstructure:"max_tokens" yaml:"max_tokens"`
	MaxImageSize      int           `mapstructure:"max_image_size" yaml:"max_image_size"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
}

// GridConfig sets the overlay dimensions
type GridConfig struct {
	Columns int `mapstructure:"columns" yaml:"columns"`
	Rows    int `mapstructure:"rows" yaml:"rows"`
}

// ClickConfig tunes the click prober
type ClickConfig struct {
	Pattern           string        `mapstructure:"pattern" yaml:"pattern"`
	DoubleClick       bool          `mapstructure:"double_click" yaml:"double_click"`
	Radius            int           `mapstructure:"radius" yaml:"radius"`
	MoveDuration      time.Duration `mapstructure:"move_duration" yaml:"move_duration"`
	SettleDelay       time.Duration `mapstructure:"settle_delay" yaml:"settle_delay"`
	VerificationDelay time.Duration `mapstructure:"verification_delay" yaml:"verification_delay"`
	ChangeThreshold   float64       `mapstructure:"change_threshold" yaml:"change_threshold"`
}

// PlanConfig tunes plan generation and execution
type PlanConfig struct {
	Model        string        `mapstructure:"model" yaml:"model"`
	MaxTokens    int           `mapstructure:"max_tokens" yaml:"max_tokens"`
	StepDelay    time.Duration `mapstructure:"step_delay" yaml:"step_delay"`
	TypeDelay    time.Duration `mapstructure:"type_delay" yaml:"type_delay"`
	LoopDuration time.Duration `mapstructure:"loop_duration" yaml:"loop_duration"`
	LoopDelay    time.Duration `mapstructure:"loop_delay" yaml:"loop_delay"`
}

// DisplayConfig selects the display provider
type DisplayConfig struct {
	Name    string `mapstructure:"name" yaml:"name"`
	Display string `mapstructure:"display" yaml:"display"`
}

// ArtifactsConfig controls where screenshots and overlays are written
type ArtifactsConfig struct {
	Dir  string `mapstructure:"dir" yaml:"dir"`
	Keep bool   `mapstructure:"keep" yaml:"keep"`
}

// LoggingConfig configures the optional rotating log file
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// RateLimitConfig bounds the number of input actions per window
type RateLimitConfig struct {
	Enabled             bool `mapstructure:"enabled" yaml:"enabled"`
	MaxActionsPerMinute int  `mapstructure:"max_actions_per_minute" yaml:"max_actions_per_minute"`
	WindowSeconds       int  `mapstructure:"window_seconds" yaml:"window_seconds"`
}

// JournalConfig selects the probe outcome journal backend
type JournalConfig struct {
	Enabled  bool           `mapstructure:"enabled" yaml:"enabled"`
	Type     string         `mapstructure:"type" yaml:"type"`
	Jsonl    JsonlConfig    `mapstructure:"jsonl" yaml:"jsonl"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite" yaml:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres" yaml:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis" yaml:"redis"`
}

// JsonlConfig contains JSONL journal settings
type JsonlConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// SQLiteConfig contains SQLite journal settings
type SQLiteConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// PostgresConfig contains Postgres journal settings
type PostgresConfig struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	Database string `mapstructure:"database" yaml:"database"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`
	SSLMode  string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
}

// RedisConfig contains Redis journal settings
type RedisConfig struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	Database int    `mapstructure:"database" yaml:"database"`
	Password string `mapstructure:"password" yaml:"password,omitempty"`
	Username string `mapstructure:"username" yaml:"username,omitempty"`
	TTL      int    `mapstructure:"ttl" yaml:"ttl,omitempty"`
}

// SetDefaults registers every default on the given viper instance
func SetDefaults(v *viper.Viper) {
	v.SetDefault("vision.backend", "gateway")
	v.SetDefault("vision.model", "openai/gpt-4o-mini")
	v.SetDefault("vision.base_url", "http://localhost:8080")
	v.SetDefault("vision.api_key", "")
	v.SetDefault("vision.timeout", 60*time.Second)
	v.SetDefault("vision.max_tokens", 1000)
	v.SetDefault("vision.max_image_size", 2000)
	v.SetDefault("vision.requests_per_minute", 30)

	v.SetDefault("grid.columns", 32)
	v.SetDefault("grid.rows", 18)

	v.SetDefault("click.pattern", "extended")
	v.SetDefault("click.double_click", false)
	v.SetDefault("click.radius", 0)
	v.SetDefault("click.move_duration", 200*time.Millisecond)
	v.SetDefault("click.settle_delay", 100*time.Millisecond)
	v.SetDefault("click.verification_delay", 400*time.Millisecond)
	v.SetDefault("click.change_threshold", 0.1)

	v.SetDefault("plan.model", "")
	v.SetDefault("plan.max_tokens", 1500)
	v.SetDefault("plan.step_delay", 500*time.Millisecond)
	v.SetDefault("plan.type_delay", 100*time.Millisecond)
	v.SetDefault("plan.loop_duration", 5*time.Second)
	v.SetDefault("plan.loop_delay", 300*time.Millisecond)

	v.SetDefault("display.name", "")
	v.SetDefault("display.display", "")

	v.SetDefault("artifacts.dir", "")
	v.SetDefault("artifacts.keep", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 7)
	v.SetDefault("logging.compress", false)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.max_actions_per_minute", 60)
	v.SetDefault("rate_limit.window_seconds", 60)

	v.SetDefault("journal.enabled", false)
	v.SetDefault("journal.type", "sqlite")
	v.SetDefault("journal.jsonl.path", ".gridpilot/journal")
	v.SetDefault("journal.sqlite.path", ".gridpilot/journal.db")
	v.SetDefault("journal.postgres.host", "localhost")
	v.SetDefault("journal.postgres.port", 5432)
	v.SetDefault("journal.postgres.database", "gridpilot")
	v.SetDefault("journal.postgres.username", "gridpilot")
	v.SetDefault("journal.postgres.password", "")
	v.SetDefault("journal.postgres.ssl_mode", "disable")
	v.SetDefault("journal.redis.host", "localhost")
	v.SetDefault("journal.redis.port", 6379)
	v.SetDefault("journal.redis.database", 0)
	v.SetDefault("journal.redis.password", "")
	v.SetDefault("journal.redis.username", "")
	v.SetDefault("journal.redis.ttl", 0)
}

// DefaultConfig returns the configuration produced by the registered defaults alone
func DefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("default configuration does not decode: %v", err))
	}
	return &cfg
}

// NewViper returns a viper instance with defaults and environment binding applied
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration file at path (falling back to defaults when it
// does not exist), applies environment overrides and validates the result.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := NewViper()

	if _, err := os.Stat(configPath); err == nil {
		logger.Debug("Loading config file", "path", configPath)
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		logger.Debug("Config file not found, using defaults", "path", configPath)
	} else {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := gotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	logger.Debug("Loaded environment file", "path", path)
	return nil
}

// Validate rejects configuration values the runtime cannot honor
func (c *Config) Validate() error {
	var problems []string

	switch c.Vision.Backend {
	case "gateway", "openai", "gemini":
	default:
		problems = append(problems, fmt.Sprintf("vision.backend must be gateway, openai or gemini (got %q)", c.Vision.Backend))
	}
	if c.Vision.Model == "" {
		problems = append(problems, "vision.model is required")
	}
	if c.Vision.MaxImageSize < 0 {
		problems = append(problems, "vision.max_image_size must not be negative")
	}
	if c.Vision.RequestsPerMinute < 0 {
		problems = append(problems, "vision.requests_per_minute must not be negative")
	}

	if c.Grid.Columns <= 0 || c.Grid.Rows <= 0 {
		problems = append(problems, fmt.Sprintf("grid must have positive columns and rows (got %dx%d)", c.Grid.Columns, c.Grid.Rows))
	}

	switch c.Click.Pattern {
	case "cardinal", "extended":
	default:
		problems = append(problems, fmt.Sprintf("click.pattern must be cardinal or extended (got %q)", c.Click.Pattern))
	}
	if c.Click.Radius < 0 {
		problems = append(problems, "click.radius must not be negative")
	}
	if c.Click.ChangeThreshold < 0 || c.Click.ChangeThreshold >= 100 {
		problems = append(problems, fmt.Sprintf("click.change_threshold must be in [0, 100) (got %g)", c.Click.ChangeThreshold))
	}
	if c.Click.MoveDuration < 0 || c.Click.SettleDelay < 0 || c.Click.VerificationDelay < 0 {
		problems = append(problems, "click delays must not be negative")
	}

	if c.Plan.StepDelay < 0 || c.Plan.TypeDelay < 0 || c.Plan.LoopDuration < 0 || c.Plan.LoopDelay < 0 {
		problems = append(problems, "plan delays must not be negative")
	}

	switch c.Display.Name {
	case "", "x11", "wayland", "macos":
	default:
		problems = append(problems, fmt.Sprintf("display.name must be x11, wayland or macos (got %q)", c.Display.Name))
	}

	if c.RateLimit.Enabled && (c.RateLimit.MaxActionsPerMinute <= 0 || c.RateLimit.WindowSeconds <= 0) {
		problems = append(problems, "rate_limit requires positive max_actions_per_minute and window_seconds")
	}

	if c.Journal.Enabled {
		switch c.Journal.Type {
		case "memory", "jsonl", "sqlite", "postgres", "redis":
		default:
			problems = append(problems, fmt.Sprintf("journal.type must be memory, jsonl, sqlite, postgres or redis (got %q)", c.Journal.Type))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrConfiguration, strings.Join(problems, "; "))
	}
	return nil
}

// PlanModel returns the model used for planning, defaulting to the vision model
func (c *Config) PlanModel() string {
	if c.Plan.Model != "" {
		return c.Plan.Model
	}
	return c.Vision.Model
}

// SaveConfig writes the configuration to configPath as yaml
func (c *Config) SaveConfig(configPath string) error {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	logger.Debug("Writing config file", "path", configPath, "size", buf.Len())
	if err := os.WriteFile(configPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
