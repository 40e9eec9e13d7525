package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/digest"
	"github.com/fwojciec/digest/config"
	"github.com/fwojciec/digest/fs"
	"github.com/fwojciec/digest/gemini"
	"github.com/fwojciec/digest/htmltomarkdown"
	digesthttp "github.com/fwojciec/digest/http"
	"github.com/fwojciec/digest/pipeline"
	"github.com/fwojciec/digest/readability"
	"github.com/fwojciec/digest/rod"
	digestslog "github.com/fwojciec/digest/slog"
	"github.com/fwojciec/digest/sources"
	"github.com/fwojciec/digest/sqlite"
	"github.com/fwojciec/digest/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path used by list and show when --db is not given.
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing. When set they replace the wired ones.
	Records digest.RecordService
	Runner  Runner

	renderer digest.Renderer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var err error
	if m.renderer != nil {
		err = m.renderer.Close()
		m.renderer = nil
	}
	if m.DB != nil {
		if cerr := m.DB.Close(); cerr != nil && err == nil {
			err = cerr
		}
		m.DB = nil
	}
	return err
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("digest"),
		kong.Description("Extract, summarize and store content from repositories, videos and social posts."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'digest --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check the file passed with --config")
		return err
	}
	level := cfg.Logging.Level
	if cli.Verbose {
		level = "debug"
	}
	deps.Logger = config.NewLogger(level, stderr)
	defer m.Close()

	switch strings.Fields(kongCtx.Command())[0] {
	case "extract":
		records, err := m.records(cli.DB, false, stderr)
		if err != nil {
			return err
		}
		deps.Records = records

		deps.Runner = m.Runner
		if deps.Runner == nil {
			runner, err := m.wire(ctx, cli, cfg, deps.Logger, records, stderr)
			if err != nil {
				return err
			}
			deps.Runner = runner
		}

	case "list", "show":
		records, err := m.records(cli.DB, true, stderr)
		if err != nil {
			return err
		}
		deps.Records = records
	}

	return kongCtx.Run(deps)
}

// records returns the injected record service or opens the database.
// Extraction only stores records when a path is given explicitly.
func (m *Main) records(path string, required bool, stderr io.Writer) (digest.RecordService, error) {
	if m.Records != nil {
		return m.Records, nil
	}
	if path == "" {
		if !required {
			return nil, nil
		}
		path = m.DBPath
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		m.DB = nil
		fmt.Fprintf(stderr, "Hint: Set DIGEST_DB or --db to use a different database path\n")
		return nil, fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	return sqlite.NewRecordService(m.DB), nil
}

// wire builds the extraction pipeline for the extract command.
func (m *Main) wire(ctx context.Context, cli *CLI, cfg *config.Config, logger *slog.Logger, records digest.RecordService, stderr io.Writer) (Runner, error) {
	strategy := sources.Strategy(cli.Extract.Strategy)
	if !strategy.Valid() {
		return nil, digest.Errorf(digest.EINVALID, "unknown strategy %q", cli.Extract.Strategy)
	}

	var api, anon digest.ResourceFetcher
	api = digesthttp.NewFetcher(
		digesthttp.WithTimeout(cfg.Timeouts.Fetch),
		digesthttp.WithBearerToken(cli.GitHubToken),
	)
	anon = digesthttp.NewFetcher(digesthttp.WithTimeout(cfg.Timeouts.Fetch))

	browser := rod.NewRenderer(
		rod.WithLogger(logger),
		rod.WithManagerOptions(
			rod.WithMaxPages(int64(cfg.Browser.MaxPages)),
			rod.WithBrowserBin(cfg.Browser.Bin),
		),
	)
	m.renderer = browser
	var renderer digest.Renderer = browser

	if cli.Verbose {
		api = digestslog.NewLoggingFetcher(api, logger)
		anon = digestslog.NewLoggingFetcher(anon, logger)
		renderer = digestslog.NewLoggingRenderer(renderer, logger)
	}

	gh := sources.NewGitHub(api, anon)
	gh.SampleLimit = cfg.GitHub.SampleLimit
	gh.SampleExtensions = cfg.GitHub.SampleExtensions
	gh.SnippetChars = cfg.GitHub.SnippetChars
	gh.SampleDelay = cfg.GitHub.SampleDelay
	gh.Timeout = cfg.Timeouts.Fetch
	gh.Logger = logger

	yt := sources.NewYouTube(anon)
	yt.Timeout = cfg.Timeouts.Fetch
	yt.Logger = logger

	ig := sources.NewInstagram(renderer)
	ig.Logger = logger

	li := sources.NewLinkedIn(renderer)
	li.Heuristic = cfg.LinkedIn.Heuristic
	li.Scrolls = cfg.LinkedIn.Scrolls
	li.ScrollDelay = cfg.LinkedIn.ScrollDelay
	li.Settle = cfg.LinkedIn.Settle
	li.Logger = logger

	x := sources.NewX(anon)
	x.Strategy = strategy
	x.Timeout = cfg.Timeouts.Fetch
	x.Renderer = renderer
	x.Trafilatura = trafilatura.NewExtractor()
	x.Readability = readability.NewExtractor()
	x.Converter = htmltomarkdown.NewConverter()
	x.Logger = logger

	if d := cfg.Timeouts.Render; d > 0 {
		ig.Timeout = d
		li.Timeout = d
		x.RenderTimeout = d
	}

	o := pipeline.NewOrchestrator()
	for _, a := range []digest.Adapter{gh, yt, ig, li, x} {
		o.Register(digestslog.NewLoggingAdapter(a, logger))
	}
	o.Budgets = cfg.PipelineBudgets()
	o.Logger = logger

	var writers recordWriters
	if cli.Extract.Out != "" {
		writers = append(writers, fs.NewWriter(cli.Extract.Out))
	}
	if records != nil {
		writers = append(writers, records)
	}
	if len(writers) > 0 {
		o.Writer = writers
	}

	var transcriber digest.Transcriber
	if cli.GeminiKey == "" && !cli.Extract.NoSummary {
		fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
		return nil, fmt.Errorf("GEMINI_API_KEY not set. Pass --no-summary to skip summarization")
	}
	if cli.GeminiKey != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cli.GeminiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		transcriber = gemini.NewTranscriber(client, cfg.Gemini.TranscriptionModel)

		if !cli.Extract.NoSummary {
			counter, err := gemini.NewTokenCounter(gemini.TokenizerModel)
			if err != nil {
				return nil, fmt.Errorf("failed to create token counter: %w", err)
			}
			s := gemini.NewSummarizer(client, cfg.Gemini.SummaryModel)
			s.Counter = counter
			s.MaxPromptTokens = cfg.Gemini.MaxPromptTokens
			s.Logger = logger
			o.Summarizer = s
		}
	}

	// A nil transcriber still lets the gate mark items with no content.
	gate := pipeline.NewGate(fs.NewMediaStore(anon, os.TempDir(), cfg.Timeouts.Media), transcriber)
	gate.MinVisibleChars = cfg.Gate.MinVisibleChars
	gate.Logger = logger
	o.Gate = gate

	return o, nil
}

// recordWriters hands each record to every writer in order.
type recordWriters []digest.RecordWriter

func (ws recordWriters) WriteRecord(ctx context.Context, rec *digest.NormalizedRecord) error {
	for _, w := range ws {
		if err := w.WriteRecord(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "digest.db"
	}
	return filepath.Join(home, ".digest", "digest.db")
}
