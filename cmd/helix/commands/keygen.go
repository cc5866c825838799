// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/helix-storage/helix/cmd/helix/cli"
	"github.com/helix-storage/helix/lib/atomicfile"
	"github.com/helix-storage/helix/lib/clock"
	"github.com/helix-storage/helix/lib/seal"
)

// identityFileName is keygen's default output name.
const identityFileName = "helix.key"

// wallClock stamps generated identity files.
var wallClock clock.Clock = clock.Real()

type keygenParams struct {
	OutputOptions
	Force bool `json:"-" flag:"force" desc:"replace an existing identity file"`
}

type keygenResult struct {
	PublicKey string `json:"public_key"`
	Path      string `json:"path"`
}

func keygenCommand() *cli.Command {
	var params keygenParams
	command := &cli.Command{
		Name:    "keygen",
		Summary: "Generate an age keypair for manifest encryption",
		Description: `Generate an X25519 age keypair. The identity file is written with
mode 0600; the public key is printed for use with --recipient or
output.recipients.

An existing identity file is never replaced without --force: manifests
sealed to its key could no longer be opened.`,
		Usage: "helix keygen [flags]",
		Examples: []cli.Example{
			{Command: "helix keygen -o ~/.config/helix/helix.key"},
		},
		Params: func() any { params = keygenParams{}; return &params },
	}
	command.Run = func(ctx context.Context, args []string, logger *slog.Logger) error {
		if err := command.RequireArgs(args, 0, 0); err != nil {
			return err
		}
		cfg, err := params.load()
		if err != nil {
			return err
		}
		path, err := params.outputPath(cfg, identityFileName)
		if err != nil {
			return err
		}
		if _, err := os.Lstat(path); err == nil {
			if !params.Force {
				return cli.Validation("%s already exists; pass --force to replace it", path)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return cli.Internal("checking %s: %w", path, err)
		}

		keypair, err := seal.GenerateKeypair()
		if err != nil {
			return err
		}
		defer keypair.Close()

		err = atomicfile.Write(path, 0o600, func(w io.Writer) error {
			if _, err := fmt.Fprintf(w, "# created: %s\n# public key: %s\n",
				wallClock.Now().UTC().Format(time.RFC3339), keypair.PublicKey); err != nil {
				return err
			}
			if _, err := w.Write(keypair.PrivateKey.Bytes()); err != nil {
				return err
			}
			_, err := io.WriteString(w, "\n")
			return err
		})
		if err != nil {
			return cli.Internal("writing %s: %w", path, err)
		}
		logger.Debug("generated keypair", "path", path)

		if done, err := params.EmitJSON(keygenResult{PublicKey: keypair.PublicKey, Path: path}); done || err != nil {
			return err
		}
		fmt.Fprintf(cli.Stdout, "Identity written to %s (public key %s)\n", path, keypair.PublicKey)
		return nil
	}
	return command
}
