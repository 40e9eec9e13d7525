// Package config loads the tunables of an extraction run from YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/fwojciec/digest/fs"
	"github.com/fwojciec/digest/gemini"
	"github.com/fwojciec/digest/http"
	"github.com/fwojciec/digest/pipeline"
	"github.com/fwojciec/digest/rod"
	"github.com/fwojciec/digest/sources"
	"gopkg.in/yaml.v3"
)

// DefaultMaxPromptTokens keeps prompts inside the summary model's input
// window.
const DefaultMaxPromptTokens = 1_000_000

// Configuration validation errors.
var (
	ErrInvalidBudget       = errors.New("budgets must be non-negative")
	ErrInvalidSampleLimit  = errors.New("github.sample_limit must be non-negative")
	ErrInvalidSnippetChars = errors.New("github.snippet_chars must be non-negative")
	ErrNoSampleExtensions  = errors.New("github.sample_extensions must not be empty when sampling")
	ErrInvalidDelay        = errors.New("delays must be non-negative")
	ErrInvalidFragmentLen  = errors.New("linkedin.heuristic.min_fragment_len must be non-negative")
	ErrInvalidScrolls      = errors.New("linkedin.scrolls must be non-negative")
	ErrInvalidThreshold    = errors.New("gate.min_visible_chars must be non-negative")
	ErrInvalidTimeout      = errors.New("timeouts.fetch and timeouts.media must be positive")
	ErrMissingModel        = errors.New("gemini.summary_model and gemini.transcription_model are required")
	ErrInvalidPromptTokens = errors.New("gemini.max_prompt_tokens must be non-negative")
	ErrInvalidMaxPages     = errors.New("browser.max_pages must be at least 1")
	ErrInvalidLogLevel     = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Config holds every tunable of an extraction run.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Budgets  BudgetsConfig  `yaml:"budgets"`
	GitHub   GitHubConfig   `yaml:"github"`
	LinkedIn LinkedInConfig `yaml:"linkedin"`
	Gate     GateConfig     `yaml:"gate"`
	Timeouts TimeoutsConfig `yaml:"timeouts"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Browser  BrowserConfig  `yaml:"browser"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// BudgetsConfig caps free text before summarization. Sections overrides the
// per-section budgets set by adapters, by section name.
type BudgetsConfig struct {
	Transcript int            `yaml:"transcript"`
	Captions   int            `yaml:"captions"`
	Sections   map[string]int `yaml:"sections"`
}

// GitHubConfig controls repository file sampling.
type GitHubConfig struct {
	SampleLimit      int           `yaml:"sample_limit"`
	SampleExtensions []string      `yaml:"sample_extensions"`
	SnippetChars     int           `yaml:"snippet_chars"`
	SampleDelay      time.Duration `yaml:"sample_delay"`
}

// LinkedInConfig controls post hydration and caption assembly.
type LinkedInConfig struct {
	Heuristic   sources.Heuristic `yaml:"heuristic"`
	Scrolls     int               `yaml:"scrolls"`
	ScrollDelay time.Duration     `yaml:"scroll_delay"`
	Settle      time.Duration     `yaml:"settle"`
}

// GateConfig controls the transcription gate.
type GateConfig struct {
	MinVisibleChars int `yaml:"min_visible_chars"`
}

// TimeoutsConfig bounds network and browser calls. A zero Render keeps each
// adapter's own render timeout.
type TimeoutsConfig struct {
	Fetch  time.Duration `yaml:"fetch"`
	Render time.Duration `yaml:"render"`
	Media  time.Duration `yaml:"media"`
}

// GeminiConfig selects the models used for summaries and transcripts.
type GeminiConfig struct {
	SummaryModel       string `yaml:"summary_model"`
	TranscriptionModel string `yaml:"transcription_model"`
	MaxPromptTokens    int    `yaml:"max_prompt_tokens"`
}

// BrowserConfig controls the headless browser.
type BrowserConfig struct {
	Bin      string `yaml:"bin"`
	MaxPages int    `yaml:"max_pages"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info"},
		Budgets: BudgetsConfig{
			Transcript: pipeline.DefaultTranscriptBudget,
			Captions:   pipeline.DefaultCaptionsBudget,
		},
		GitHub: GitHubConfig{
			SampleLimit:      sources.DefaultSampleLimit,
			SampleExtensions: slices.Clone(sources.DefaultSampleExtensions),
			SnippetChars:     sources.DefaultSnippetChars,
			SampleDelay:      sources.DefaultSampleDelay,
		},
		LinkedIn: LinkedInConfig{
			Heuristic:   sources.DefaultHeuristic(),
			Scrolls:     sources.LinkedInScrolls,
			ScrollDelay: sources.LinkedInScrollDelay,
			Settle:      sources.LinkedInSettle,
		},
		Gate: GateConfig{MinVisibleChars: pipeline.DefaultMinVisibleChars},
		Timeouts: TimeoutsConfig{
			Fetch: http.DefaultTimeout,
			Media: fs.DefaultMediaTimeout,
		},
		Gemini: GeminiConfig{
			SummaryModel:       gemini.DefaultSummaryModel,
			TranscriptionModel: gemini.DefaultTranscriptionModel,
			MaxPromptTokens:    DefaultMaxPromptTokens,
		},
		Browser: BrowserConfig{MaxPages: rod.DefaultMaxPages},
	}
}

// Load reads the YAML file at path over the defaults and validates the
// result. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return err
	}

	if c.Budgets.Transcript < 0 || c.Budgets.Captions < 0 {
		return ErrInvalidBudget
	}
	for name, n := range c.Budgets.Sections {
		if n < 0 {
			return fmt.Errorf("%w: section %q", ErrInvalidBudget, name)
		}
	}

	if c.GitHub.SampleLimit < 0 {
		return ErrInvalidSampleLimit
	}
	if c.GitHub.SnippetChars < 0 {
		return ErrInvalidSnippetChars
	}
	if c.GitHub.SampleLimit > 0 && len(c.GitHub.SampleExtensions) == 0 {
		return ErrNoSampleExtensions
	}
	if c.GitHub.SampleDelay < 0 || c.LinkedIn.ScrollDelay < 0 || c.LinkedIn.Settle < 0 {
		return ErrInvalidDelay
	}

	if c.LinkedIn.Heuristic.MinFragmentLen < 0 {
		return ErrInvalidFragmentLen
	}
	if c.LinkedIn.Scrolls < 0 {
		return ErrInvalidScrolls
	}
	if c.Gate.MinVisibleChars < 0 {
		return ErrInvalidThreshold
	}

	if c.Timeouts.Fetch <= 0 || c.Timeouts.Media <= 0 || c.Timeouts.Render < 0 {
		return ErrInvalidTimeout
	}

	if c.Gemini.SummaryModel == "" || c.Gemini.TranscriptionModel == "" {
		return ErrMissingModel
	}
	if c.Gemini.MaxPromptTokens < 0 {
		return ErrInvalidPromptTokens
	}

	if c.Browser.MaxPages < 1 {
		return ErrInvalidMaxPages
	}
	return nil
}

// PipelineBudgets converts the budget settings for the orchestrator.
func (c *Config) PipelineBudgets() pipeline.Budgets {
	return pipeline.Budgets{
		Sections:   c.Budgets.Sections,
		Transcript: c.Budgets.Transcript,
		Captions:   c.Budgets.Captions,
	}
}

// ParseLevel maps a level name to a slog level. Names are case-insensitive.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, level)
}
