package config

import (
	"io"
	"log/slog"
)

// NewLogger returns a text logger writing to w. Unknown levels log at info.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl, err := ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
