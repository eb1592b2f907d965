package policy

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	rerrors "github.com/PolarWolf314/rimu/internal/errors"
	"github.com/PolarWolf314/rimu/internal/utils"
)

// Rule maps a path pattern to the recipients matching files are encrypted for.
// Recipients may be alias names or literal keys.
type Rule struct {
	Pattern    string
	Recipients []string
}

// Policy is the read-only view of a repository's rimu.toml document for one
// filter invocation. Rules keep their declaration order, which breaks ties
// when several patterns match the same path.
type Policy struct {
	Aliases map[string]string
	Rules   []Rule
}

// ResolveAlias returns the literal key for a recipient reference. References
// that name no alias pass through unchanged: they are taken as literal keys.
func (p *Policy) ResolveAlias(ref string) string {
	if key, ok := p.Aliases[ref]; ok {
		return key
	}
	return ref
}

// Resolve returns the literal recipient keys for a repository-relative path.
//
// Matching runs in three tiers, and the first tier with any match wins:
//
//  1. Exact: the rule pattern equals the path.
//  2. Directory prefix: the pattern names a complete leading directory of the
//     path, so "protected" matches "protected/secret.md" but not
//     "protected-old/secret.md".
//  3. Glob: doublestar matching against the full path, where "*" spans a
//     single path segment and "**" spans any number including zero.
//
// When several rules match within the winning tier, their recipient lists are
// merged in declaration order and deduplicated after alias substitution.
//
// Returns ErrPathNotConfigured if no rule matches.
// Returns ErrInvalidPattern if a glob pattern cannot be compiled.
func (p *Policy) Resolve(path string) ([]string, error) {
	path = utils.NormalizeRepoPath(path)

	matched := p.exactMatches(path)
	if len(matched) == 0 {
		matched = p.prefixMatches(path)
	}
	if len(matched) == 0 {
		var err error
		matched, err = p.globMatches(path)
		if err != nil {
			return nil, err
		}
	}
	if len(matched) == 0 {
		return nil, fmt.Errorf("%w: %s", rerrors.ErrPathNotConfigured, path)
	}

	return p.mergeRecipients(matched), nil
}

// CheckPatterns verifies every rule pattern compiles.
// Returns ErrInvalidPattern naming the first pattern that does not.
func (p *Policy) CheckPatterns() error {
	for _, rule := range p.Rules {
		if !doublestar.ValidatePattern(rule.Pattern) {
			return fmt.Errorf("%w: %q", rerrors.ErrInvalidPattern, rule.Pattern)
		}
	}
	return nil
}

func (p *Policy) exactMatches(path string) []Rule {
	var matched []Rule
	for _, rule := range p.Rules {
		if rule.Pattern == path {
			matched = append(matched, rule)
		}
	}
	return matched
}

func (p *Policy) prefixMatches(path string) []Rule {
	var matched []Rule
	for _, rule := range p.Rules {
		prefix := strings.TrimSuffix(utils.NormalizeRepoPath(rule.Pattern), "/")
		if prefix == "" {
			continue
		}
		if len(path) > len(prefix) && path[:len(prefix)] == prefix && path[len(prefix)] == '/' {
			matched = append(matched, rule)
		}
	}
	return matched
}

func (p *Policy) globMatches(path string) ([]Rule, error) {
	var matched []Rule
	for _, rule := range p.Rules {
		ok, err := doublestar.Match(rule.Pattern, path)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", rerrors.ErrInvalidPattern, rule.Pattern)
		}
		if ok {
			matched = append(matched, rule)
		}
	}
	return matched, nil
}

// mergeRecipients flattens matched rules into literal keys, keeping the first
// occurrence of each key in declaration order.
func (p *Policy) mergeRecipients(matched []Rule) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, rule := range matched {
		for _, ref := range rule.Recipients {
			key := p.ResolveAlias(ref)
			if seen[key] {
				continue
			}
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}
