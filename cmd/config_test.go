package cmd

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigAddIdentity(t *testing.T) {
	repoDir := setupTestRepo(t)
	initializeRimu(t)
	writeTestIdentity(t, filepath.Join(repoDir, "keys.txt"))

	output, err := runRimu("config", "add-identity", "keys.txt")
	if err != nil {
		t.Fatalf("add-identity failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "Registered keys.txt") {
		t.Errorf("output does not confirm the registration: %s", output)
	}

	output, err = runRimu("config", "add-identity", "keys.txt")
	if err != nil {
		t.Fatalf("repeated add-identity must warn, not fail: %v", err)
	}
	if !strings.Contains(output, "already configured") {
		t.Errorf("output does not warn about the duplicate: %s", output)
	}

	output, err = runRimu("config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "keys.txt") {
		t.Errorf("config show does not list the identity: %s", output)
	}
}

func TestConfigAddIdentityEncryptedHint(t *testing.T) {
	repoDir := setupTestRepo(t)
	initializeRimu(t)
	writeEncryptedTestIdentity(t, filepath.Join(repoDir, "keys.age"), "test-pass")

	output, err := runRimu("config", "add-identity", "keys.age")
	if err != nil {
		t.Fatalf("add-identity failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "passphrase-protected") {
		t.Errorf("output does not flag the encrypted identity: %s", output)
	}
	if !strings.Contains(output, "RIMU_PASSPHRASE") {
		t.Errorf("output does not hint at a passphrase source: %s", output)
	}
}

func TestConfigAddIdentityMissingFile(t *testing.T) {
	setupTestRepo(t)
	initializeRimu(t)

	output, err := runRimu("config", "add-identity", "no-such-file.txt")
	if err == nil {
		t.Fatalf("expected add-identity to fail for a missing file")
	}
	if !strings.Contains(output, "does not exist") {
		t.Errorf("output does not explain the failure: %s", output)
	}
}

func TestConfigCommandsBeforeInit(t *testing.T) {
	repoDir := setupTestRepo(t)
	writeTestIdentity(t, filepath.Join(repoDir, "keys.txt"))

	for _, args := range [][]string{
		{"config", "add-identity", "keys.txt"},
		{"config", "remove-identity", "keys.txt"},
		{"config", "add-getter", "sops", "echo pass"},
		{"config", "remove-getter", "sops"},
		{"config", "show"},
	} {
		output, err := runRimu(args...)
		if err != nil {
			t.Errorf("%v before init must refuse, not fail: %v", args, err)
			continue
		}
		if !strings.Contains(output, "has not been initialized") {
			t.Errorf("%v output does not explain the refusal: %s", args, output)
		}
		if !strings.Contains(output, "rimu init") {
			t.Errorf("%v output does not hint at init: %s", args, output)
		}
	}
}

func TestConfigRemoveIdentity(t *testing.T) {
	repoDir := setupTestRepo(t)
	initializeRimu(t)
	writeTestIdentity(t, filepath.Join(repoDir, "keys.txt"))

	if output, err := runRimu("config", "add-identity", "keys.txt"); err != nil {
		t.Fatalf("add-identity failed: %v\nOutput: %s", err, output)
	}

	output, err := runRimu("config", "remove-identity", "keys.txt")
	if err != nil {
		t.Fatalf("remove-identity failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "Removed keys.txt") {
		t.Errorf("output does not confirm the removal: %s", output)
	}

	output, err = runRimu("config", "remove-identity", "keys.txt")
	if err != nil {
		t.Fatalf("removing a missing identity must refuse, not fail: %v", err)
	}
	if !strings.Contains(output, "is not configured") {
		t.Errorf("output does not explain the refusal: %s", output)
	}
	if !strings.Contains(output, "config show") {
		t.Errorf("output does not hint at config show: %s", output)
	}
}

func TestConfigAddGetter(t *testing.T) {
	setupTestRepo(t)
	initializeRimu(t)

	output, err := runRimu("config", "add-getter", "vault", "vault kv get -field=pass rimu")
	if err != nil {
		t.Fatalf("add-getter failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "Stored getter vault") {
		t.Errorf("output does not confirm the getter: %s", output)
	}
	if !strings.Contains(output, "--getter vault") {
		t.Errorf("output does not explain how to select a non-default getter: %s", output)
	}

	output, err = runRimu("config", "add-getter", "vault", "cat /run/secrets/rimu")
	if err != nil {
		t.Fatalf("replacing a getter failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "Replaced the previous command") {
		t.Errorf("output does not mention the replacement: %s", output)
	}
}

func TestConfigAddGetterSopsRunsImplicitly(t *testing.T) {
	setupTestRepo(t)
	initializeRimu(t)

	output, err := runRimu("config", "add-getter", "sops", "echo pass")
	if err != nil {
		t.Fatalf("add-getter failed: %v\nOutput: %s", err, output)
	}
	if strings.Contains(output, "--getter") {
		t.Errorf("the sops getter needs no selection hint: %s", output)
	}
}

func TestConfigAddGetterRejectsInvalidName(t *testing.T) {
	setupTestRepo(t)
	initializeRimu(t)

	output, err := runRimu("config", "add-getter", "bad name", "echo pass")
	if err != nil {
		t.Fatalf("invalid getter name must refuse, not fail: %v", err)
	}
	if !strings.Contains(output, "letters, digits, dots, dashes, and underscores") {
		t.Errorf("output does not explain the naming rule: %s", output)
	}
}

func TestConfigRemoveGetter(t *testing.T) {
	setupTestRepo(t)
	initializeRimu(t)

	if output, err := runRimu("config", "add-getter", "vault", "echo pass"); err != nil {
		t.Fatalf("add-getter failed: %v\nOutput: %s", err, output)
	}

	output, err := runRimu("config", "remove-getter", "vault")
	if err != nil {
		t.Fatalf("remove-getter failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "Removed getter vault") {
		t.Errorf("output does not confirm the removal: %s", output)
	}

	output, err = runRimu("config", "remove-getter", "vault")
	if err != nil {
		t.Fatalf("removing a missing getter must refuse, not fail: %v", err)
	}
	if !strings.Contains(output, "No getter named vault") {
		t.Errorf("output does not explain the refusal: %s", output)
	}
}

func TestConfigShowJSON(t *testing.T) {
	repoDir := setupTestRepo(t)
	initializeRimu(t)
	writeTestIdentity(t, filepath.Join(repoDir, "keys.txt"))

	if output, err := runRimu("config", "add-identity", "keys.txt"); err != nil {
		t.Fatalf("add-identity failed: %v\nOutput: %s", err, output)
	}
	if output, err := runRimu("config", "add-getter", "sops", "echo pass"); err != nil {
		t.Fatalf("add-getter failed: %v\nOutput: %s", err, output)
	}

	stdout, stderr, err := captureStdout(func() error {
		RootCmd.SetArgs([]string{"config", "show", "--json"})
		return RootCmd.Execute()
	})
	if err != nil {
		t.Fatalf("config show --json failed: %v\nstderr: %s", err, stderr)
	}

	var report struct {
		RepoUUID        string            `json:"repo_uuid"`
		Identities      []string          `json:"identities"`
		Getters         map[string]string `json:"getters"`
		PolicyPath      string            `json:"policy_path"`
		LocalConfigPath string            `json:"local_config_path"`
	}
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, stdout)
	}

	if report.RepoUUID == "" {
		t.Errorf("repo_uuid is empty")
	}
	if len(report.Identities) != 1 || report.Identities[0] != "keys.txt" {
		t.Errorf("unexpected identities: %v", report.Identities)
	}
	if report.Getters["sops"] != "echo pass" {
		t.Errorf("unexpected getters: %v", report.Getters)
	}
	if filepath.Base(report.PolicyPath) != "rimu.toml" {
		t.Errorf("unexpected policy_path: %s", report.PolicyPath)
	}
	if !strings.Contains(report.LocalConfigPath, filepath.Join(".git", "rimu", "config.toml")) {
		t.Errorf("unexpected local_config_path: %s", report.LocalConfigPath)
	}
}

func TestConfigShowJSONEmptyCollections(t *testing.T) {
	setupTestRepo(t)
	initializeRimu(t)

	stdout, stderr, err := captureStdout(func() error {
		RootCmd.SetArgs([]string{"config", "show", "--json"})
		return RootCmd.Execute()
	})
	if err != nil {
		t.Fatalf("config show --json failed: %v\nstderr: %s", err, stderr)
	}

	// Consumers get empty collections, never null.
	if !strings.Contains(stdout, `"identities": []`) {
		t.Errorf("identities is not an empty array:\n%s", stdout)
	}
	if !strings.Contains(stdout, `"getters": {}`) {
		t.Errorf("getters is not an empty object:\n%s", stdout)
	}
}

func TestConfigShowText(t *testing.T) {
	setupTestRepo(t)
	initializeRimu(t)

	output, err := runRimu("config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "Local configuration") {
		t.Errorf("output is missing the header: %s", output)
	}
	if !strings.Contains(output, "Repo ID:") {
		t.Errorf("output is missing the repo ID: %s", output)
	}
	if !strings.Contains(output, "none configured") {
		t.Errorf("output does not mark the empty sections: %s", output)
	}
}
