// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/helix-storage/helix/cmd/helix/cli"
	"github.com/helix-storage/helix/lib/artifact"
	"github.com/helix-storage/helix/lib/clock"
	"github.com/helix-storage/helix/lib/fault"
	"github.com/helix-storage/helix/lib/manifest"
	"github.com/helix-storage/helix/lib/pow"
	"github.com/helix-storage/helix/lib/testutil"
)

const sourceText = "ACGTACGTTTGACCA: a short document stored as DNA. ✓\n"

// execute runs the command tree with stdout captured.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout bytes.Buffer
	cli.Stdout = &stdout
	t.Cleanup(func() { cli.Stdout = os.Stdout })
	err := Root().Execute(context.Background(), args)
	return stdout.String(), err
}

// workspace creates a source file and a config whose output
// directory is the returned directory and whose difficulty is cheap.
func workspace(t *testing.T) (directory, source, configPath string) {
	t.Helper()
	directory = t.TempDir()
	source = filepath.Join(directory, "source.txt")
	if err := os.WriteFile(source, []byte(sourceText), 0o644); err != nil {
		t.Fatal(err)
	}
	configPath = filepath.Join(directory, "helix.yaml")
	configText := fmt.Sprintf("chunk_size: 8\nproof_of_work:\n  difficulty: \"00\"\noutput:\n  directory: %q\n", directory)
	if err := os.WriteFile(configPath, []byte(configText), 0o644); err != nil {
		t.Fatal(err)
	}
	return directory, source, configPath
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want cli.ErrorCategory
	}{
		{"invalid argument", fault.InvalidArgument("chunk size must be >= 1"), cli.CategoryValidation},
		{"missing file", fault.Input("a.txt", fs.ErrNotExist), cli.CategoryNotFound},
		{"malformed input", fault.Input("a.json", errors.New("not JSON")), cli.CategoryValidation},
		{"missing artifact", &manifest.MissingArtifactError{Input: manifest.InputHeader, Reason: "absent"}, cli.CategoryNotFound},
		{"cancelled search", fmt.Errorf("proof of work: %w", pow.ErrCancelled), cli.CategoryTransient},
		{"other", errors.New("disk full"), cli.CategoryInternal},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var toolError *cli.ToolError
			if !errors.As(Classify(test.err), &toolError) {
				t.Fatalf("Classify(%v) is not a ToolError", test.err)
			}
			if toolError.Category != test.want {
				t.Errorf("category = %s, want %s", toolError.Category, test.want)
			}
			if !errors.Is(toolError, test.err) {
				t.Error("classified error does not wrap the original")
			}
		})
	}

	if Classify(nil) != nil {
		t.Error("Classify(nil) != nil")
	}
	exitError := &cli.ExitError{Code: 1}
	if Classify(exitError) != exitError {
		t.Error("Classify changed an ExitError")
	}
}

func TestArgumentCounts(t *testing.T) {
	tests := [][]string{
		{"chunk", "a.txt"},
		{"chunk", "a.txt", "4", "extra"},
		{"compress"},
		{"ecc"},
		{"pow", "a", "b"},
		{"hash"},
		{"assemble", "h", "c", "z", "e"},
		{"build"},
		{"build", "a", "b", "c"},
		{"verify"},
		{"keygen", "extra"},
		{"version", "extra"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			_, err := execute(t, args...)
			var toolError *cli.ToolError
			if !errors.As(err, &toolError) || toolError.Category != cli.CategoryValidation {
				t.Fatalf("error = %v, want a validation error", err)
			}
			if !strings.Contains(err.Error(), "usage: helix "+args[0]) {
				t.Errorf("error = %q, want a usage message", err)
			}
		})
	}
}

func TestProducersThenAssembleThenVerify(t *testing.T) {
	directory, source, configPath := workspace(t)
	header := filepath.Join(directory, "header.jsonc")
	if err := os.WriteFile(header, []byte("{\n  // sample\n  \"name\": \"source.txt\",\n}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	path := func(kind artifact.Kind) string { return filepath.Join(directory, kind.FileName()) }

	steps := []struct {
		args []string
		want string
	}{
		{[]string{"chunk", source, "8"}, "Chunked data written to " + path(artifact.KindChunkedData)},
		{[]string{"compress", source}, "Compressed data written to " + path(artifact.KindCompressedData)},
		{[]string{"ecc", path(artifact.KindChunkedData)}, "Error correction data written to " + path(artifact.KindErrorCorrectionData)},
		{[]string{"pow", path(artifact.KindCompressedData)}, "written to " + path(artifact.KindProofOfWork)},
		{
			[]string{"assemble", header, path(artifact.KindChunkedData), path(artifact.KindCompressedData),
				path(artifact.KindErrorCorrectionData), path(artifact.KindProofOfWork)},
			"Manifest written to " + filepath.Join(directory, manifest.DefaultFileName),
		},
	}
	for _, step := range steps {
		stdout, err := execute(t, append(step.args, "--config", configPath)...)
		if err != nil {
			t.Fatalf("helix %s: %v", step.args[0], err)
		}
		if !strings.Contains(stdout, step.want) {
			t.Errorf("helix %s printed %q, want %q", step.args[0], stdout, step.want)
		}
		if strings.Count(stdout, "\n") != 1 {
			t.Errorf("helix %s printed %d lines, want 1", step.args[0], strings.Count(stdout, "\n"))
		}
	}

	var joined strings.Builder
	chunks, _ := testutil.ReadJSON(t, path(artifact.KindChunkedData)).([]any)
	for _, chunk := range chunks {
		text, _ := chunk.(string)
		if len([]rune(text)) > 8 {
			t.Errorf("chunk %q longer than 8 characters", text)
		}
		joined.WriteString(text)
	}
	if joined.String() != sourceText {
		t.Errorf("chunks do not reassemble the source")
	}

	stdout, err := execute(t, "verify", filepath.Join(directory, manifest.DefaultFileName), "--config", configPath, "--minimal")
	if err != nil {
		t.Fatalf("verify: %v\n%s", err, stdout)
	}
	for _, check := range []string{"structure", "compression", "error_correction", "proof_of_work", "minimality"} {
		if !strings.Contains(stdout, check) {
			t.Errorf("verify report missing %s:\n%s", check, stdout)
		}
	}
	if strings.Contains(stdout, "FAIL") {
		t.Errorf("verify report has failures:\n%s", stdout)
	}
}

func TestAssembleMissingArtifactWritesNothing(t *testing.T) {
	directory, source, configPath := workspace(t)
	if _, err := execute(t, "chunk", source, "8", "--config", configPath); err != nil {
		t.Fatal(err)
	}
	header := filepath.Join(directory, "header.json")
	if err := os.WriteFile(header, []byte(`{"name":"x"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(directory, "out.json")

	_, err := execute(t, "assemble", header,
		filepath.Join(directory, "chunked_data.json"),
		filepath.Join(directory, "absent_compressed.json"),
		filepath.Join(directory, "absent_ecc.json"),
		filepath.Join(directory, "absent_pow.json"),
		"--config", configPath, "--output", output)

	var missing *manifest.MissingArtifactError
	if !errors.As(err, &missing) || missing.Input != manifest.InputCompression {
		t.Fatalf("error = %v, want MissingArtifactError for compressed_data", err)
	}
	if _, statErr := os.Stat(output); !errors.Is(statErr, fs.ErrNotExist) {
		t.Errorf("manifest exists after a failed assemble: %v", statErr)
	}
}

func TestEccAcceptsCompressionArtifact(t *testing.T) {
	directory, source, configPath := workspace(t)
	if _, err := execute(t, "compress", source, "--config", configPath); err != nil {
		t.Fatal(err)
	}
	stdout, err := execute(t, "ecc", filepath.Join(directory, "compressed_data.json"), "--config", configPath, "--json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, `"error_correction_data": "Reed-Solomon-encoded-data"`) {
		t.Errorf("ecc --json output = %q", stdout)
	}

	notAnArtifact := filepath.Join(directory, "number.json")
	if err := os.WriteFile(notAnArtifact, []byte("42"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "ecc", notAnArtifact, "--config", configPath); !errors.Is(err, fault.ErrInput) {
		t.Errorf("ecc on a number: error = %v, want ErrInput", err)
	}
}

func TestPowFlagsOverrideConfig(t *testing.T) {
	directory, source, configPath := workspace(t)
	output := filepath.Join(directory, "proof.json")
	threshold := "00" + strings.Repeat("f", 62)
	_, err := execute(t, "pow", source, "--config", configPath,
		"--policy", "threshold", "--difficulty", threshold, "--workers", "2", "--timed", "--output", output)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	var record pow.Record
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatal(err)
	}
	if record.Policy != pow.KindThreshold || record.Difficulty != threshold || record.TimeTakenSeconds == nil {
		t.Errorf("record = %+v, want a timed threshold record", record)
	}
	if err := pow.Verify([]byte(sourceText), &record); err != nil {
		t.Errorf("raw file proof does not verify: %v", err)
	}

	if _, err := execute(t, "pow", source, "--config", configPath, "--difficulty", "xyz"); !errors.Is(err, fault.ErrInvalidArgument) {
		t.Errorf("bad difficulty: error = %v, want ErrInvalidArgument", err)
	}
}

func TestPowTimeout(t *testing.T) {
	_, source, configPath := workspace(t)
	_, err := execute(t, "pow", source, "--config", configPath,
		"--difficulty", strings.Repeat("0", 64), "--timeout", "20ms")
	if !errors.Is(err, pow.ErrCancelled) {
		t.Fatalf("error = %v, want ErrCancelled", err)
	}
	var toolError *cli.ToolError
	if !errors.As(Classify(err), &toolError) || toolError.Category != cli.CategoryTransient {
		t.Errorf("Classify(%v) is not a transient ToolError", err)
	}
}

func TestHash(t *testing.T) {
	directory := t.TempDir()
	path := filepath.Join(directory, "abc")
	if err := os.WriteFile(path, []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout, err := execute(t, "hash", path)
	if err != nil {
		t.Fatal(err)
	}
	want := "SHA256 Hash: ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad\n"
	if stdout != want {
		t.Errorf("hash printed %q, want %q", stdout, want)
	}

	stdout, err = execute(t, "hash", path, "--algorithm", "blake3", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var result hashResult
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("hash --json output %q: %v", stdout, err)
	}
	if result.Algorithm != "blake3" || !strings.HasPrefix(result.Digest, "6437b3ac") {
		t.Errorf("result = %+v", result)
	}
}

func TestBuildThenVerify(t *testing.T) {
	tests := []struct {
		name  string
		extra []string
	}{
		{"json", nil},
		{"cbor zstd", []string{"--format", "cbor", "--codec", "zstd"}},
		{"parallel lz4", []string{"--codec", "lz4", "--workers", "0", "--chunk-size", "3"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			directory, source, configPath := workspace(t)
			args := append([]string{"build", source, "--config", configPath}, test.extra...)
			stdout, err := execute(t, args...)
			if err != nil {
				t.Fatal(err)
			}
			path := filepath.Join(directory, manifest.DefaultFileName)
			if stdout != "Manifest written to "+path+"\n" {
				t.Errorf("build printed %q", stdout)
			}
			if _, err := execute(t, "verify", path, "--config", configPath); err != nil {
				t.Errorf("verify: %v", err)
			}
		})
	}
}

func TestBuildEmitsArtifactsAndUsesHeader(t *testing.T) {
	directory, source, configPath := workspace(t)
	header := filepath.Join(directory, "header.json")
	if err := os.WriteFile(header, []byte(`{"title": "sample"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "build", source, header, "--config", configPath, "--emit-artifacts"); err != nil {
		t.Fatal(err)
	}
	for _, kind := range artifact.Kinds {
		if _, err := os.Stat(filepath.Join(directory, kind.FileName())); err != nil {
			t.Errorf("%s not written: %v", kind, err)
		}
	}
	m, err := manifest.Read(filepath.Join(directory, manifest.DefaultFileName), nil)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(m.Header, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["title"] != "sample" || len(decoded) != 1 {
		t.Errorf("header = %s, want the supplied header unchanged", m.Header)
	}
}

func TestEncryptedBuildRoundTrip(t *testing.T) {
	directory, source, configPath := workspace(t)
	keyPath := filepath.Join(directory, "helix.key")
	wallClock = clock.Fake(time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC))
	t.Cleanup(func() { wallClock = clock.Real() })

	stdout, err := execute(t, "keygen", "--config", configPath, "--json")
	if err != nil {
		t.Fatal(err)
	}
	var key keygenResult
	if err := json.Unmarshal([]byte(stdout), &key); err != nil {
		t.Fatalf("keygen --json output %q: %v", stdout, err)
	}
	if key.Path != keyPath || !strings.HasPrefix(key.PublicKey, "age1") {
		t.Fatalf("keygen result = %+v", key)
	}
	keyText, err := os.ReadFile(keyPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(keyText), "# created: 2026-02-03T04:05:06Z\n") {
		t.Errorf("identity file header = %q", keyText)
	}
	info, err := os.Stat(keyPath)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("identity mode = %v, want 0600", info.Mode().Perm())
	}

	output := filepath.Join(directory, "manifest.age")
	if _, err := execute(t, "build", source, "--config", configPath, "-r", key.PublicKey, "-o", output); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "verify", output, "--config", configPath); err == nil {
		t.Error("verify without an identity succeeded")
	}
	if _, err := execute(t, "verify", output, "--config", configPath, "-i", keyPath); err != nil {
		t.Errorf("verify with identity: %v", err)
	}
}

func TestKeygenKeepsExistingIdentity(t *testing.T) {
	directory, _, configPath := workspace(t)
	keyPath := filepath.Join(directory, "helix.key")

	stdout, err := execute(t, "keygen", "--config", configPath)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(stdout, "\n") != 1 || !strings.HasPrefix(stdout, "Identity written to "+keyPath+" (public key age1") {
		t.Errorf("keygen printed %q, want one confirmation line", stdout)
	}
	original, err := os.ReadFile(keyPath)
	if err != nil {
		t.Fatal(err)
	}

	_, err = execute(t, "keygen", "--config", configPath)
	var toolError *cli.ToolError
	if !errors.As(err, &toolError) || toolError.Category != cli.CategoryValidation {
		t.Fatalf("second keygen error = %v, want a validation error", err)
	}
	if !strings.Contains(err.Error(), "--force") {
		t.Errorf("error = %q, want it to mention --force", err)
	}
	unchanged, err := os.ReadFile(keyPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(unchanged, original) {
		t.Error("existing identity was replaced without --force")
	}

	if _, err := execute(t, "keygen", "--config", configPath, "--force"); err != nil {
		t.Fatalf("keygen --force: %v", err)
	}
	replaced, err := os.ReadFile(keyPath)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(replaced, original) {
		t.Error("keygen --force did not replace the identity")
	}
}

func TestVerifyDetectsMismatchedProof(t *testing.T) {
	directory, source, configPath := workspace(t)
	header := filepath.Join(directory, "header.json")
	if err := os.WriteFile(header, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, args := range [][]string{
		{"chunk", source, "8"},
		{"compress", source},
		{"ecc", filepath.Join(directory, "chunked_data.json")},
		// Bound to the raw source rather than the compressed payload.
		{"pow", source},
		{"assemble", header,
			filepath.Join(directory, "chunked_data.json"),
			filepath.Join(directory, "compressed_data.json"),
			filepath.Join(directory, "error_correction_data.json"),
			filepath.Join(directory, "proof_of_work.json")},
	} {
		if _, err := execute(t, append(args, "--config", configPath)...); err != nil {
			t.Fatalf("helix %s: %v", args[0], err)
		}
	}

	stdout, err := execute(t, "verify", filepath.Join(directory, manifest.DefaultFileName), "--config", configPath)
	var exitError *cli.ExitError
	if !errors.As(err, &exitError) || exitError.Code != 1 {
		t.Fatalf("error = %v, want ExitError 1", err)
	}
	if !strings.Contains(stdout, "FAIL") || !strings.Contains(stdout, "proof_of_work") {
		t.Errorf("report = %q, want a proof_of_work failure", stdout)
	}
}

func TestConfigOutputDirectoryIsLiteral(t *testing.T) {
	directory, source, _ := workspace(t)
	fromEnvironment := filepath.Join(directory, "from-environment")
	t.Setenv("HELIX_TEST_OUT", fromEnvironment)
	configPath := filepath.Join(directory, "literal.yaml")
	configText := fmt.Sprintf("output:\n  directory: %q\n", filepath.Join(directory, "${HELIX_TEST_OUT}"))
	if err := os.WriteFile(configPath, []byte(configText), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "chunk", source, "16", "--config", configPath); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(directory, "${HELIX_TEST_OUT}", "chunked_data.json")); err != nil {
		t.Errorf("chunked_data.json not in the literal directory: %v", err)
	}
	testutil.RequireNotExist(t, fromEnvironment)
}

func TestVersion(t *testing.T) {
	stdout, err := execute(t, "version", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var result versionResult
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("version --json output %q: %v", stdout, err)
	}
	if result.Version == "" || result.BinaryHash != "" {
		t.Errorf("result = %+v", result)
	}
}
