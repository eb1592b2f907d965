// Package cmd contains testing utilities shared between integration tests.
// This file provides common functions for setting up test repositories,
// capturing output, feeding stdin to the filter commands, and writing
// identity and policy fixtures.
package cmd

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"filippo.io/age"
	"github.com/go-git/go-git/v5"

	"github.com/PolarWolf314/rimu/internal/configs"
)

// setupTestRepo creates a temporary git repository, changes into it, and
// registers cleanup that restores the working directory and all global
// state. Returns the repository path.
func setupTestRepo(t *testing.T) string {
	t.Helper()

	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get original working directory: %v", err)
	}
	originalUserSettings := configs.UserRimuSettings
	originalRepoSettings := configs.RepoRimuSettings

	tempDir, err := os.MkdirTemp("", "rimu-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}

	if _, err := git.PlainInit(tempDir, false); err != nil {
		t.Fatalf("Failed to init git repository: %v", err)
	}

	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}

	// Audit entries record the username; pin it for stable assertions.
	configs.UserRimuSettings = &configs.UserSettings{Username: "testuser"}

	// Ambient passphrase variables would change getter selection.
	unsetEnv(t, "RIMU_PASSPHRASE")
	unsetEnv(t, "RIMU_PASSPHRASE_GETTER")

	t.Cleanup(func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Fatalf("Failed to change to original directory: %v", err)
		}
		configs.UserRimuSettings = originalUserSettings
		configs.RepoRimuSettings = originalRepoSettings
		ResetGlobalState()
		os.RemoveAll(tempDir)
	})

	ResetGlobalState()
	return tempDir
}

// unsetEnv removes an environment variable for the duration of the test.
// t.Setenv registers the restore; Unsetenv makes the variable truly absent,
// which matters because a set-but-empty getter override means suppression.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	// Save original stdout and stderr
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	// Create pipes to capture output
	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	// Replace stdout and stderr
	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	// Channel to collect output
	outputChan := make(chan string, 2)

	// Start goroutines to read from pipes
	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, stdoutReader)
		if err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, stderrReader)
		if err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	// Execute the function
	err := fn()

	// Close writers to signal EOF
	stdoutWriter.Close()
	stderrWriter.Close()

	// Restore original stdout and stderr
	os.Stdout = originalStdout
	os.Stderr = originalStderr

	// Collect output
	stdout := <-outputChan
	stderr := <-outputChan

	return stdout + stderr, err
}

// captureStdout captures only stdout, returning stderr separately. The
// filter commands write payload bytes to stdout and diagnostics to
// stderr, and tests must not mix the two.
func captureStdout(fn func() error) (stdout, stderr string, err error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	stdoutChan := make(chan string, 1)
	stderrChan := make(chan string, 1)

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stdoutReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		stdoutChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stderrReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		stderrChan <- buf.String()
	}()

	err = fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	return <-stdoutChan, <-stderrChan, err
}

// feedStdin replaces os.Stdin with a pipe carrying data for the duration
// of fn.
func feedStdin(t *testing.T, data []byte, fn func() error) error {
	t.Helper()

	originalStdin := os.Stdin
	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create stdin pipe: %v", err)
	}
	os.Stdin = reader

	go func() {
		_, _ = writer.Write(data)
		writer.Close()
	}()

	defer func() {
		os.Stdin = originalStdin
		reader.Close()
	}()

	return fn()
}

// runRimu executes the root command with the given arguments, returning
// the combined stdout and stderr.
func runRimu(args ...string) (string, error) {
	return captureOutput(func() error {
		RootCmd.SetArgs(args)
		return RootCmd.Execute()
	})
}

// runRimuFilter executes a filter subcommand with input on stdin,
// returning stdout (the payload channel) and stderr separately.
func runRimuFilter(t *testing.T, input []byte, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	return captureStdout(func() error {
		return feedStdin(t, input, func() error {
			RootCmd.SetArgs(args)
			return RootCmd.Execute()
		})
	})
}

// initializeRimu runs the init command with a fixed executable path.
func initializeRimu(t *testing.T) {
	t.Helper()
	output, err := runRimu("init", "--executable", "/usr/local/bin/rimu")
	if err != nil {
		t.Fatalf("Failed to initialize rimu: %v\nOutput: %s", err, output)
	}
}

// writeTestIdentity generates an age identity, writes it to path, and
// returns its recipient string.
func writeTestIdentity(t *testing.T, path string) string {
	t.Helper()

	id, err := age.GenerateX25519Identity()
	if err != nil {
		t.Fatalf("Failed to generate identity: %v", err)
	}
	if err := os.WriteFile(path, []byte(id.String()+"\n"), 0o600); err != nil {
		t.Fatalf("Failed to write identity file: %v", err)
	}
	return id.Recipient().String()
}

// writeEncryptedTestIdentity generates an age identity, encrypts it with
// the passphrase, writes the payload to path, and returns the recipient
// string.
func writeEncryptedTestIdentity(t *testing.T, path, passphrase string) string {
	t.Helper()

	id, err := age.GenerateX25519Identity()
	if err != nil {
		t.Fatalf("Failed to generate identity: %v", err)
	}

	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		t.Fatalf("Failed to create scrypt recipient: %v", err)
	}
	recipient.SetWorkFactor(10)

	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipient)
	if err != nil {
		t.Fatalf("Failed to encrypt identity: %v", err)
	}
	if _, err := io.WriteString(w, id.String()+"\n"); err != nil {
		t.Fatalf("Failed to write encrypted identity: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to finish encrypting identity: %v", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("Failed to write identity file: %v", err)
	}
	return id.Recipient().String()
}

// writeTestPolicy writes content as the repository's rimu.toml.
func writeTestPolicy(t *testing.T, repoDir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(repoDir, "rimu.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write policy file: %v", err)
	}
}

// stageFile stages the current worktree content of path, so the git index
// holds it the way a real commit pipeline would.
func stageFile(t *testing.T, repoDir, path string) {
	t.Helper()

	repo, err := git.PlainOpen(repoDir)
	if err != nil {
		t.Fatalf("Failed to open repository: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}
	if _, err := wt.Add(path); err != nil {
		t.Fatalf("Failed to stage %s: %v", path, err)
	}
}

// fileExists reports whether path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
