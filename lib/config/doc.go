// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the helix
// command.
//
// Configuration comes from a single file named by the --config flag
// ([LoadFile]). There is no discovery and no environment variable
// override: a run is fully described by its flags and that one file.
// Without a file, [Default] applies.
//
// Values in the file are merged over [Default]. After loading,
// ${HOME} and ${VAR:-default} patterns in path fields are expanded,
// and [Config.Validate] checks every codec, policy, and format name
// against the packages that implement them.
package config
