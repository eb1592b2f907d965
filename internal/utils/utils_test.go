package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("failed to get home directory: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		base     string
		expected string
	}{
		{"AbsoluteUnchanged", "/etc/rimu/key.txt", "/repo", "/etc/rimu/key.txt"},
		{"RelativeAgainstBase", "keys/age.txt", "/repo", filepath.Join("/repo", "keys", "age.txt")},
		{"TildeExpands", "~/keys/age.txt", "/repo", filepath.Join(homeDir, "keys", "age.txt")},
		{"BareTilde", "~", "/repo", homeDir},
		{"DotSegmentsCleaned", "/etc/rimu/../age.txt", "/repo", "/etc/age.txt"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ExpandPath(tc.input, tc.base)
			if err != nil {
				t.Fatalf("ExpandPath(%q, %q) failed: %v", tc.input, tc.base, err)
			}
			if result != tc.expected {
				t.Errorf("ExpandPath(%q, %q) = %q, expected %q", tc.input, tc.base, result, tc.expected)
			}
		})
	}

	t.Run("EmptyPathFails", func(t *testing.T) {
		if _, err := ExpandPath("", "/repo"); err == nil {
			t.Error("Expected error for empty path")
		}
	})
}

func TestNormalizeRepoPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"PlainPath", "secrets/api.env", "secrets/api.env"},
		{"LeadingDotSlash", "./secrets/api.env", "secrets/api.env"},
		{"LeadingSlash", "/secrets/api.env", "secrets/api.env"},
		{"SingleFile", "config.yaml", "config.yaml"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := NormalizeRepoPath(tc.input)
			if result != tc.expected {
				t.Errorf("NormalizeRepoPath(%q) = %q, expected %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestIsValidGetterName(t *testing.T) {
	valid := []string{"sops", "linux", "macos", "my-getter", "getter_2", "aws.prod", "a"}
	for _, name := range valid {
		if !IsValidGetterName(name) {
			t.Errorf("IsValidGetterName(%q) = false, expected true", name)
		}
	}

	invalid := []string{"", "-leading", "_leading", ".leading", "has space", "has/slash"}
	for _, name := range invalid {
		if IsValidGetterName(name) {
			t.Errorf("IsValidGetterName(%q) = true, expected false", name)
		}
	}
}

func TestGetUsername(t *testing.T) {
	username, err := GetUsername()
	if err != nil {
		t.Fatalf("GetUsername failed: %v", err)
	}
	if username == "" {
		t.Fatal("Expected non-empty username")
	}
}
