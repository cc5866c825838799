// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/helix-storage/helix/cmd/helix/cli"
	"github.com/helix-storage/helix/lib/artifact"
	"github.com/helix-storage/helix/lib/manifest"
	"github.com/helix-storage/helix/lib/pipeline"
	"github.com/helix-storage/helix/lib/secret"
)

type verifyParams struct {
	ConfigOptions
	cli.JSONOutput
	Minimal    bool     `json:"-" flag:"minimal" desc:"also prove no smaller nonce qualifies (repeats the search)"`
	Identities []string `json:"-" flag:"identity,i" desc:"age identity file for encrypted manifests (repeatable; adds to config)"`
}

func verifyCommand() *cli.Command {
	var params verifyParams
	command := &cli.Command{
		Name:    "verify",
		Summary: "Cross-check the artifacts in a manifest",
		Description: `Check that a manifest is internally consistent: the compressed
payload decompresses to the concatenated chunks, the error-correction
data matches the chunks, and the proof of work is valid for the
compressed_data string under its recorded policy.

Records that do not name a policy are checked under the configured
one. Encrypted manifests need --identity or output.identities.

Exits 1 when any check fails.`,
		Usage: "helix verify <manifest> [flags]",
		Examples: []cli.Example{
			{Command: "helix verify dna_digital_storage.json"},
			{Description: "Encrypted manifest, full minimality proof", Command: "helix verify out.age -i helix.key --minimal"},
		},
		Params: func() any { params = verifyParams{}; return &params },
	}
	command.Run = func(ctx context.Context, args []string, logger *slog.Logger) error {
		if err := command.RequireArgs(args, 1, 1); err != nil {
			return err
		}
		cfg, err := params.load()
		if err != nil {
			return err
		}
		corrector, err := artifact.LookupCorrector(cfg.ErrorCorrection.Codec)
		if err != nil {
			return err
		}
		policy, err := cfg.ProofOfWork.ParsePolicy()
		if err != nil {
			return err
		}

		paths := append(append([]string(nil), cfg.Output.Identities...), params.Identities...)
		identities := make([]*secret.Buffer, 0, len(paths))
		defer func() {
			for _, identity := range identities {
				identity.Close()
			}
		}()
		for _, path := range paths {
			identity, err := secret.ReadFile(path)
			if err != nil {
				return err
			}
			identities = append(identities, identity)
		}

		m, err := manifest.Read(args[0], identities)
		if err != nil {
			return err
		}
		report, err := pipeline.Verify(ctx, m, pipeline.VerifyOptions{
			Corrector: corrector,
			Policy:    policy,
			Minimal:   params.Minimal,
		})
		if err != nil {
			return err
		}
		logger.Debug("verified manifest", "path", args[0], "ok", report.OK())

		if done, err := params.EmitJSON(report); err != nil {
			return err
		} else if !done {
			printReport(cli.Stdout, report)
		}
		if !report.OK() {
			return &cli.ExitError{Code: 1}
		}
		return nil
	}
	return command
}

func printReport(w io.Writer, report *pipeline.Report) {
	tw := tabwriter.NewWriter(w, 2, 0, 2, ' ', 0)
	for _, check := range report.Checks {
		status := "ok"
		if !check.OK {
			status = "FAIL"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", status, check.Name, check.Detail)
	}
	tw.Flush()
}
