// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/helix-storage/helix/cmd/helix/cli"
	"github.com/helix-storage/helix/cmd/helix/commands"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run executes the command tree and returns the process exit status.
// An interrupt cancels the context, which stops a running search.
func run(args []string, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := commands.Classify(commands.Root().Execute(ctx, args))
	code, report := cli.ExitCode(err)
	if report {
		fmt.Fprintf(stderr, "error: %v\n", err)
	}
	return code
}
