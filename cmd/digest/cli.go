package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/digest"
)

// Runner extracts a single item into a record.
type Runner interface {
	Run(ctx context.Context, req *digest.ExtractionRequest) (*digest.NormalizedRecord, error)
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Records digest.RecordService
	Runner  Runner
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config      string `help:"YAML tunables file"`
	DB          string `name:"db" env:"DIGEST_DB" help:"SQLite database path"`
	GeminiKey   string `name:"gemini-api-key" env:"GEMINI_API_KEY" help:"Gemini API key"`
	GitHubToken string `name:"github-token" env:"GITHUB_TOKEN" help:"GitHub token for API requests"`
	Verbose     bool   `short:"v" help:"Log debug output"`

	Extract ExtractCmd `cmd:"" help:"Extract, summarize and store one or more URLs"`
	List    ListCmd    `cmd:"" help:"List stored records"`
	Show    ShowCmd    `cmd:"" help:"Print a stored record as JSON"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URLs      []string `arg:"" name:"url" help:"Source URLs"`
	Kind      string   `help:"Source kind; detected from the URL host when empty"`
	Strategy  string   `default:"oembed" enum:"oembed,render" help:"How X posts are read (oembed, render)"`
	Out       string   `default:"summaries" help:"Output directory for record files"`
	NoSummary bool     `help:"Skip the summarization call"`
	JSON      bool     `name:"json" help:"Print records as JSON"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Kind  string `help:"Only list records of this kind"`
	Limit int    `default:"50" help:"Maximum number of records"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	Key string `arg:"" help:"Record key"`
}
