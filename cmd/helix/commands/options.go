// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"path/filepath"

	"github.com/helix-storage/helix/cmd/helix/cli"
	"github.com/helix-storage/helix/lib/artifact"
	"github.com/helix-storage/helix/lib/config"
)

// ConfigOptions adds --config and --verbose.
type ConfigOptions struct {
	cli.LogOptions
	ConfigPath string `json:"-" flag:"config" desc:"YAML configuration file (defaults apply when omitted)"`
}

// load returns the configuration named by --config, or the defaults.
func (o *ConfigOptions) load() (*config.Config, error) {
	if o.ConfigPath == "" {
		return config.Default(), nil
	}
	return config.LoadFile(o.ConfigPath)
}

// OutputOptions adds --output and --json to commands that write one
// file.
type OutputOptions struct {
	ConfigOptions
	cli.JSONOutput
	Output string `json:"-" flag:"output,o" desc:"output file path (default: output.directory from config joined with the standard name)"`
}

// outputPath resolves where a command writes. An explicit --output
// wins; otherwise the standard name is placed in the configured
// output directory, which is created if missing.
func (o *OutputOptions) outputPath(cfg *config.Config, name string) (string, error) {
	if o.Output != "" {
		return o.Output, nil
	}
	if err := cfg.EnsureOutputDirectory(); err != nil {
		return "", err
	}
	return filepath.Join(cfg.Output.Directory, name), nil
}

// writeArtifact writes a to its output path, echoes the payload when
// --json is set, and prints the confirmation line.
func (o *OutputOptions) writeArtifact(cfg *config.Config, a artifact.Artifact, label string) (string, error) {
	path, err := o.outputPath(cfg, a.Kind.FileName())
	if err != nil {
		return "", err
	}
	if err := artifact.WriteFile(path, a); err != nil {
		return "", cli.Internal("writing %s: %w", path, err)
	}
	if _, err := o.EmitJSON(a.Payload); err != nil {
		return "", err
	}
	fmt.Fprintf(cli.Stdout, "%s written to %s\n", label, path)
	return path, nil
}
