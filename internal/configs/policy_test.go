package configs

import (
	"errors"
	"os"
	"testing"

	rerrors "github.com/PolarWolf314/rimu/internal/errors"
)

func writePolicyFile(t *testing.T, content string) {
	t.Helper()
	if err := os.WriteFile(RepoRimuSettings.PolicyPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write policy file: %v", err)
	}
}

func TestLoadPolicyPreservesDeclarationOrder(t *testing.T) {
	withTempRepoSettings(t)
	writePolicyFile(t, `
[aliases]
bob = "age1bobkey"

[config]
"zz/**" = ["bob"]
"aa/**" = ["age1literal"]
"mm/**" = ["bob", "age1literal"]
`)

	pol, err := LoadPolicy()
	if err != nil {
		t.Fatalf("LoadPolicy failed: %v", err)
	}

	if len(pol.Rules) != 3 {
		t.Fatalf("Expected 3 rules, got %d", len(pol.Rules))
	}

	order := []string{"zz/**", "aa/**", "mm/**"}
	for i, want := range order {
		if pol.Rules[i].Pattern != want {
			t.Errorf("Rule %d: expected pattern %q, got %q", i, want, pol.Rules[i].Pattern)
		}
	}

	if pol.Aliases["bob"] != "age1bobkey" {
		t.Errorf("Expected alias bob preserved, got %q", pol.Aliases["bob"])
	}
}

func TestLoadPolicyMissingFile(t *testing.T) {
	withTempRepoSettings(t)

	_, err := LoadPolicy()
	if !errors.Is(err, rerrors.ErrPolicyNotFound) {
		t.Errorf("Expected ErrPolicyNotFound, got %v", err)
	}
}

func TestLoadPolicyMalformedDocument(t *testing.T) {
	withTempRepoSettings(t)
	writePolicyFile(t, `[config
not toml at all`)

	_, err := LoadPolicy()
	if !errors.Is(err, rerrors.ErrInvalidPolicy) {
		t.Errorf("Expected ErrInvalidPolicy, got %v", err)
	}
}

func TestLoadPolicyEmptyDocument(t *testing.T) {
	withTempRepoSettings(t)
	writePolicyFile(t, "")

	pol, err := LoadPolicy()
	if err != nil {
		t.Fatalf("LoadPolicy failed on empty document: %v", err)
	}

	if len(pol.Rules) != 0 {
		t.Errorf("Expected no rules, got %d", len(pol.Rules))
	}
	if pol.Aliases == nil {
		t.Error("Expected initialized aliases map")
	}
}

func TestWritePolicyTemplate(t *testing.T) {
	withTempRepoSettings(t)

	created, err := WritePolicyTemplate()
	if err != nil {
		t.Fatalf("WritePolicyTemplate failed: %v", err)
	}
	if !created {
		t.Fatal("Expected template to be created")
	}

	// The starter document must load as a valid, empty policy.
	pol, err := LoadPolicy()
	if err != nil {
		t.Fatalf("LoadPolicy failed on template: %v", err)
	}
	if len(pol.Rules) != 0 {
		t.Errorf("Expected template to define no rules, got %d", len(pol.Rules))
	}

	// A second write must not clobber an existing document.
	created, err = WritePolicyTemplate()
	if err != nil {
		t.Fatalf("WritePolicyTemplate failed on second call: %v", err)
	}
	if created {
		t.Error("Expected existing policy file to be left untouched")
	}
}
