// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string
	record := func(name string) func(context.Context, []string, *slog.Logger) error {
		return func(context.Context, []string, *slog.Logger) error {
			called = name
			return nil
		}
	}

	root := &Command{
		Name: "helix",
		Subcommands: []*Command{
			{Name: "chunk", Run: record("chunk")},
			{Name: "compress", Run: record("compress")},
		},
	}

	if err := root.Execute(context.Background(), []string{"compress"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "compress" {
		t.Errorf("dispatched to %q, want %q", called, "compress")
	}
}

func TestCommand_Execute_FlagsAndPositionals(t *testing.T) {
	type params struct {
		LogOptions
		Codec string `flag:"codec" default:"gzip"`
	}
	var bound params
	var receivedArgs []string
	var debugEnabled bool

	command := &Command{
		Name:   "compress",
		Params: func() any { bound = params{}; return &bound },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			receivedArgs = args
			debugEnabled = logger.Enabled(ctx, slog.LevelDebug)
			return nil
		},
	}

	err := command.Execute(context.Background(), []string{"input.txt", "--codec", "zstd", "-v"})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if bound.Codec != "zstd" {
		t.Errorf("Codec = %q, want %q", bound.Codec, "zstd")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "input.txt" {
		t.Errorf("args = %v, want [input.txt]", receivedArgs)
	}
	if !debugEnabled {
		t.Error("--verbose did not enable debug logging")
	}
}

func TestCommand_Execute_UnknownCommandSuggests(t *testing.T) {
	root := &Command{
		Name: "helix",
		Subcommands: []*Command{
			{Name: "assemble", Run: func(context.Context, []string, *slog.Logger) error { return nil }},
		},
	}

	err := root.Execute(context.Background(), []string{"asemble"})
	var toolError *ToolError
	if !errors.As(err, &toolError) || toolError.Category != CategoryValidation {
		t.Fatalf("Execute() error = %v, want a validation ToolError", err)
	}
	if !strings.Contains(err.Error(), `did you mean "assemble"`) {
		t.Errorf("error = %q, want a suggestion", err)
	}
}

func TestCommand_Execute_UnknownFlagSuggests(t *testing.T) {
	type params struct {
		Difficulty string `flag:"difficulty"`
	}
	command := &Command{
		Name:   "pow",
		Params: func() any { return &params{} },
		Run:    func(context.Context, []string, *slog.Logger) error { return nil },
	}

	err := command.Execute(context.Background(), []string{"--dificulty", "000"})
	if err == nil {
		t.Fatal("Execute() succeeded with an unknown flag")
	}
	if !strings.Contains(err.Error(), "did you mean --difficulty") {
		t.Errorf("error = %q, want a flag suggestion", err)
	}
}

func TestCommand_RequireArgs(t *testing.T) {
	command := &Command{Name: "chunk", Usage: "helix chunk <file> <chunk-size>"}

	if err := command.RequireArgs([]string{"a", "b"}, 2, 2); err != nil {
		t.Errorf("RequireArgs(2 args) = %v, want nil", err)
	}
	err := command.RequireArgs([]string{"a"}, 2, 2)
	if err == nil || !strings.Contains(err.Error(), "usage: helix chunk <file> <chunk-size>") {
		t.Errorf("RequireArgs(1 arg) = %v, want a usage error", err)
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	type params struct {
		Output string `flag:"output,o" desc:"output file path"`
	}
	root := &Command{Name: "helix"}
	child := &Command{
		Name:        "chunk",
		Summary:     "Split a file",
		Description: "Split a text file into chunks.",
		Params:      func() any { return &params{} },
		Examples:    []Example{{Description: "Basic", Command: "helix chunk a.txt 4"}},
		parent:      root,
	}
	root.Subcommands = []*Command{child}

	var rootHelp, childHelp bytes.Buffer
	root.PrintHelp(&rootHelp)
	child.PrintHelp(&childHelp)

	for _, want := range []string{"Commands:", "chunk", "Split a file"} {
		if !strings.Contains(rootHelp.String(), want) {
			t.Errorf("root help missing %q:\n%s", want, rootHelp.String())
		}
	}
	for _, want := range []string{"Split a text file into chunks.", "helix chunk [flags]", "--output", "# Basic"} {
		if !strings.Contains(childHelp.String(), want) {
			t.Errorf("chunk help missing %q:\n%s", want, childHelp.String())
		}
	}
}
