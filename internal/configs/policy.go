package configs

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	rerrors "github.com/PolarWolf314/rimu/internal/errors"
	"github.com/PolarWolf314/rimu/internal/policy"
)

// policyDocument mirrors the rimu.toml layout. TOML decoding loses the order
// of the [config] table, so rule order is rebuilt from decode metadata.
type policyDocument struct {
	Aliases map[string]string   `toml:"aliases"`
	Config  map[string][]string `toml:"config"`
}

// LoadPolicy reads the versioned policy document from the repository root.
// Rule order matches the document: when several patterns in the same matching
// tier cover a path, earlier declarations contribute their recipients first.
//
// Returns ErrPolicyNotFound if rimu.toml does not exist.
// Returns ErrInvalidPolicy if the document cannot be decoded.
// Note: Caller should ensure InitRepoSettings is called before calling this function.
func LoadPolicy() (*policy.Policy, error) {
	policyPath := RepoRimuSettings.PolicyPath

	if _, err := os.Stat(policyPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", rerrors.ErrPolicyNotFound, policyPath)
	}

	var doc policyDocument
	md, err := LoadTOMLWithMeta(policyPath, &doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rerrors.ErrInvalidPolicy, err)
	}

	pol := &policy.Policy{
		Aliases: doc.Aliases,
		Rules:   make([]policy.Rule, 0, len(doc.Config)),
	}
	if pol.Aliases == nil {
		pol.Aliases = make(map[string]string)
	}

	for _, pattern := range orderedRulePatterns(md) {
		pol.Rules = append(pol.Rules, policy.Rule{
			Pattern:    pattern,
			Recipients: doc.Config[pattern],
		})
	}

	return pol, nil
}

// orderedRulePatterns recovers [config] keys in document order from decode
// metadata. MetaData.Keys reports every key in order of appearance; rule keys
// are exactly the two-element keys under "config".
func orderedRulePatterns(md toml.MetaData) []string {
	var patterns []string
	seen := make(map[string]bool)
	for _, key := range md.Keys() {
		if len(key) != 2 || key[0] != "config" {
			continue
		}
		if seen[key[1]] {
			continue
		}
		seen[key[1]] = true
		patterns = append(patterns, key[1])
	}
	return patterns
}

// policyTemplate seeds a repository with a commented starter document.
const policyTemplate = `# Rimu encryption policy. This file is versioned with the repository.
#
# [aliases] maps short names to recipient keys:
#
#   [aliases]
#   alice = "age1..."
#   bob = "ssh-ed25519 AAAA..."
#
# [config] maps path patterns to the recipients files are encrypted for.
# Patterns are matched exact first, then as directory prefixes, then as
# globs where "*" spans one path segment and "**" spans any number:
#
#   [config]
#   "secrets/**" = ["alice", "bob"]
#   ".env.production" = ["alice"]

[aliases]

[config]
`

// WritePolicyTemplate creates a starter rimu.toml at the repository root.
// An existing policy document is left untouched.
func WritePolicyTemplate() (created bool, err error) {
	policyPath := RepoRimuSettings.PolicyPath

	if _, err := os.Stat(policyPath); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to check policy file: %w", err)
	}

	if err := os.WriteFile(policyPath, []byte(policyTemplate), 0644); err != nil {
		return false, fmt.Errorf("failed to write policy template: %w", err)
	}

	return true, nil
}
