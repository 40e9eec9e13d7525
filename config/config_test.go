package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/digest/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "digest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 30000, cfg.Budgets.Transcript)
	assert.Equal(t, 5, cfg.GitHub.SampleLimit)
	assert.Equal(t, 200*time.Millisecond, cfg.GitHub.SampleDelay)
	assert.Equal(t, 2, cfg.LinkedIn.Heuristic.MinFragmentLen)
	assert.Equal(t, 500, cfg.Gate.MinVisibleChars)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.SummaryModel)
	assert.Equal(t, "gemini-2.5-pro", cfg.Gemini.TranscriptionModel)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("empty path returns defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := config.Load("")
		require.NoError(t, err)
		assert.Equal(t, config.Default(), cfg)
	})

	t.Run("overrides only what the file sets", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
logging:
  level: debug
budgets:
  transcript: 1000
  sections:
    README: 500
github:
  sample_limit: 2
  sample_delay: 1s
linkedin:
  heuristic:
    min_fragment_len: 10
    denylist: ["Follow"]
  scrolls: 3
gemini:
  summary_model: gemini-2.0-flash
`)
		cfg, err := config.Load(path)
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, 1000, cfg.Budgets.Transcript)
		assert.Equal(t, 30000, cfg.Budgets.Captions)
		assert.Equal(t, map[string]int{"README": 500}, cfg.PipelineBudgets().Sections)
		assert.Equal(t, 2, cfg.GitHub.SampleLimit)
		assert.Equal(t, time.Second, cfg.GitHub.SampleDelay)
		assert.Equal(t, []string{"js", "ts", "py", "md"}, cfg.GitHub.SampleExtensions)
		assert.Equal(t, 10, cfg.LinkedIn.Heuristic.MinFragmentLen)
		assert.Equal(t, []string{"Follow"}, cfg.LinkedIn.Heuristic.Denylist)
		assert.Equal(t, 3, cfg.LinkedIn.Scrolls)
		assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.SummaryModel)
		assert.Equal(t, "gemini-2.5-pro", cfg.Gemini.TranscriptionModel)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})

	t.Run("invalid YAML", func(t *testing.T) {
		t.Parallel()

		_, err := config.Load(writeConfig(t, "budgets: [unclosed"))
		require.Error(t, err)
	})

	t.Run("validation errors are sentinels", func(t *testing.T) {
		t.Parallel()

		_, err := config.Load(writeConfig(t, "browser:\n  max_pages: 0\n"))
		require.ErrorIs(t, err, config.ErrInvalidMaxPages)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   error
	}{
		{"log level", func(c *config.Config) { c.Logging.Level = "loud" }, config.ErrInvalidLogLevel},
		{"negative budget", func(c *config.Config) { c.Budgets.Transcript = -1 }, config.ErrInvalidBudget},
		{"negative section budget", func(c *config.Config) { c.Budgets.Sections = map[string]int{"README": -5} }, config.ErrInvalidBudget},
		{"sample limit", func(c *config.Config) { c.GitHub.SampleLimit = -1 }, config.ErrInvalidSampleLimit},
		{"snippet chars", func(c *config.Config) { c.GitHub.SnippetChars = -1 }, config.ErrInvalidSnippetChars},
		{"no extensions", func(c *config.Config) { c.GitHub.SampleExtensions = nil }, config.ErrNoSampleExtensions},
		{"negative delay", func(c *config.Config) { c.LinkedIn.Settle = -time.Second }, config.ErrInvalidDelay},
		{"fragment length", func(c *config.Config) { c.LinkedIn.Heuristic.MinFragmentLen = -1 }, config.ErrInvalidFragmentLen},
		{"scrolls", func(c *config.Config) { c.LinkedIn.Scrolls = -1 }, config.ErrInvalidScrolls},
		{"threshold", func(c *config.Config) { c.Gate.MinVisibleChars = -1 }, config.ErrInvalidThreshold},
		{"fetch timeout", func(c *config.Config) { c.Timeouts.Fetch = 0 }, config.ErrInvalidTimeout},
		{"model", func(c *config.Config) { c.Gemini.TranscriptionModel = "" }, config.ErrMissingModel},
		{"prompt tokens", func(c *config.Config) { c.Gemini.MaxPromptTokens = -1 }, config.ErrInvalidPromptTokens},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := config.NewLogger("warn", &buf)
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown key=value")
}
