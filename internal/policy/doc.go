// Package policy resolves which recipients a repository path is encrypted for.
//
// The policy comes from the versioned rimu.toml document at the repository
// root. Its [aliases] table maps short names to literal keys, and its [config]
// table maps path patterns to recipient lists. Rules keep the order they were
// declared in.
//
// # Matching Tiers
//
// A path is matched against rules in three tiers; the first tier with any
// match wins:
//
//	exact            full string equality
//	directory prefix "protected" matches everything under protected/
//	glob             "*" spans one segment, "**" spans any number
//
// When several rules match in the winning tier, their recipient lists are
// merged in declaration order and deduplicated after alias substitution, so
// an alias and its literal key count as one recipient.
//
// # Usage
//
//	recipients, err := pol.Resolve("secrets/api.env")
//	if errors.Is(err, rerrors.ErrPathNotConfigured) {
//	    // path is not covered by the policy
//	}
//
// Resolution is pure: the Policy is loaded once per filter invocation and
// never mutated.
package policy
