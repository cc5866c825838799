// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewCommandLogger creates the logger handed to [Command.Run]. When
// stderr is a terminal it uses slog.TextHandler; when stderr is piped
// it uses slog.JSONHandler so scripts get machine-parseable lines.
func NewCommandLogger(level slog.Level) *slog.Logger {
	var handler slog.Handler
	options := &slog.HandlerOptions{Level: level}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler)
}

// LogOptions is embedded in params structs to add --verbose.
type LogOptions struct {
	Verbose bool `json:"-" flag:"verbose,v" desc:"log debug detail to stderr"`
}

// LogLevel is consulted by [Command.Execute] when building the logger.
func (o *LogOptions) LogLevel() slog.Level {
	if o.Verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
