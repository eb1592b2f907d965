package cmd

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogRecordsSetupOperations(t *testing.T) {
	repoDir := setupTestRepo(t)
	initializeRimu(t)

	writeTestIdentity(t, filepath.Join(repoDir, "keys.txt"))
	if output, err := runRimu("config", "add-identity", "keys.txt"); err != nil {
		t.Fatalf("add-identity failed: %v\nOutput: %s", err, output)
	}
	if output, err := runRimu("config", "add-getter", "vault", "echo pass"); err != nil {
		t.Fatalf("add-getter failed: %v\nOutput: %s", err, output)
	}

	output, err := runRimu("log")
	if err != nil {
		t.Fatalf("log failed: %v\nOutput: %s", err, output)
	}
	for _, want := range []string{
		"init",
		"/usr/local/bin/rimu",
		"config add-identity",
		"keys.txt",
		"config add-getter",
		"vault",
		"testuser",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output is missing %q:\n%s", want, output)
		}
	}
}

func TestLogEmptyWithoutEntries(t *testing.T) {
	setupTestRepo(t)

	output, err := runRimu("log")
	if err != nil {
		t.Fatalf("log failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "No audit log entries found.") {
		t.Errorf("output does not report the empty log: %s", output)
	}
}

func TestLogFilterByOperation(t *testing.T) {
	repoDir := setupTestRepo(t)
	initializeRimu(t)

	writeTestIdentity(t, filepath.Join(repoDir, "keys.txt"))
	if output, err := runRimu("config", "add-identity", "keys.txt"); err != nil {
		t.Fatalf("add-identity failed: %v\nOutput: %s", err, output)
	}

	output, err := runRimu("log", "--operation", "init")
	if err != nil {
		t.Fatalf("log failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "init") {
		t.Errorf("output is missing the init entry: %s", output)
	}
	if strings.Contains(output, "add-identity") {
		t.Errorf("operation filter leaked other entries: %s", output)
	}
}

func TestLogFilterByUser(t *testing.T) {
	setupTestRepo(t)
	initializeRimu(t)

	output, err := runRimu("log", "--user", "testuser")
	if err != nil {
		t.Fatalf("log failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "init") {
		t.Errorf("user filter dropped a matching entry: %s", output)
	}

	output, err = runRimu("log", "--user", "somebody-else")
	if err != nil {
		t.Fatalf("log failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "No audit log entries found matching the filters.") {
		t.Errorf("output does not report the filtered-out log: %s", output)
	}
}

func TestLogLimitKeepsMostRecent(t *testing.T) {
	setupTestRepo(t)
	initializeRimu(t)

	if output, err := runRimu("config", "add-getter", "first", "echo one"); err != nil {
		t.Fatalf("add-getter failed: %v\nOutput: %s", err, output)
	}
	if output, err := runRimu("config", "add-getter", "second", "echo two"); err != nil {
		t.Fatalf("add-getter failed: %v\nOutput: %s", err, output)
	}

	output, err := runRimu("log", "-n", "1")
	if err != nil {
		t.Fatalf("log failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "second") {
		t.Errorf("limit did not keep the most recent entry: %s", output)
	}
	if strings.Contains(output, "first") {
		t.Errorf("limit kept more than the most recent entry: %s", output)
	}
}

func TestLogReverseShowsMostRecentFirst(t *testing.T) {
	setupTestRepo(t)
	initializeRimu(t)

	if output, err := runRimu("config", "add-getter", "vault", "echo pass"); err != nil {
		t.Fatalf("add-getter failed: %v\nOutput: %s", err, output)
	}

	output, err := runRimu("log", "--reverse")
	if err != nil {
		t.Fatalf("log failed: %v\nOutput: %s", err, output)
	}
	getterIdx := strings.Index(output, "add-getter")
	initIdx := strings.Index(output, "init")
	if getterIdx < 0 || initIdx < 0 {
		t.Fatalf("output is missing entries: %s", output)
	}
	if getterIdx > initIdx {
		t.Errorf("reverse did not put the most recent entry first: %s", output)
	}
}

func TestLogDateFilters(t *testing.T) {
	setupTestRepo(t)
	initializeRimu(t)

	output, err := runRimu("log", "--since", "2000-01-01")
	if err != nil {
		t.Fatalf("log failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "init") {
		t.Errorf("--since dropped a matching entry: %s", output)
	}

	output, err = runRimu("log", "--until", "2000-01-01")
	if err != nil {
		t.Fatalf("log failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "No audit log entries found matching the filters.") {
		t.Errorf("--until kept an entry outside the range: %s", output)
	}
}

func TestLogRejectsInvalidDate(t *testing.T) {
	setupTestRepo(t)
	initializeRimu(t)

	output, err := runRimu("log", "--since", "01/01/2026")
	if err != nil {
		t.Fatalf("an invalid date must refuse, not fail: %v", err)
	}
	if !strings.Contains(output, "date format invalid") {
		t.Errorf("output does not explain the rejection: %s", output)
	}
	if !strings.Contains(output, "YYYY-MM-DD") {
		t.Errorf("output does not show the expected format: %s", output)
	}
}

func TestLogOneline(t *testing.T) {
	setupTestRepo(t)
	initializeRimu(t)

	output, err := runRimu("log", "--oneline")
	if err != nil {
		t.Fatalf("log failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "testuser init /usr/local/bin/rimu") {
		t.Errorf("oneline format is off: %s", output)
	}
}

func TestLogJSON(t *testing.T) {
	setupTestRepo(t)
	initializeRimu(t)

	stdout, stderr, err := captureStdout(func() error {
		RootCmd.SetArgs([]string{"log", "--json"})
		return RootCmd.Execute()
	})
	if err != nil {
		t.Fatalf("log --json failed: %v\nstderr: %s", err, stderr)
	}

	var entries []struct {
		Timestamp  string `json:"ts"`
		User       string `json:"user"`
		RepoUUID   string `json:"repo_uuid"`
		Operation  string `json:"op"`
		Executable string `json:"executable"`
	}
	if err := json.Unmarshal([]byte(stdout), &entries); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, stdout)
	}

	if len(entries) != 1 {
		t.Fatalf("expected exactly the init entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Operation != "init" || e.User != "testuser" || e.Executable != "/usr/local/bin/rimu" {
		t.Errorf("unexpected entry: %+v", e)
	}
	if e.Timestamp == "" || e.RepoUUID == "" {
		t.Errorf("entry is missing timestamp or repo UUID: %+v", e)
	}
}
