// Package workflows provides high-level orchestration for rimu commands.
//
// Workflows coordinate multiple operations across packages (configs, policy,
// crypt, cache, gitrepo, audit) to implement complete user-facing features.
// Each workflow handles a single command's business logic, independent of
// CLI concerns like flag parsing, spinners, and output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Loading configuration (policy, local config, environment)
//   - Resolving recipients, identities, and passphrases
//   - Performing the core operation
//   - Recording audit trail entries for setup commands
//
// # Filter Workflows
//
// Clean, Smudge, and Textconv implement the three operations git invokes:
//
//   - Clean: plaintext in, ciphertext out, on the way into the index.
//     Reuses the staged ciphertext when the plaintext hash is unchanged,
//     so unmodified files do not churn on every add.
//   - Smudge: ciphertext in, plaintext out, on the way into the work tree.
//   - Textconv: like smudge, but for diff presentation only. Never touches
//     the cache.
//
// Filter workflows read repository paths from the loaded settings; the CLI
// layer discovers the repository and fills them in first.
//
// # Setup Workflows
//
// Init, Deinit, Status, the Config operations, and Log manage rimu's
// installation in a repository: the git filter registration, the policy
// template, the local identity and getter configuration, and the audit
// trail.
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package, allowing
// the CLI layer to provide appropriate user-facing messages without string
// matching. Use errors.Is() to check for specific error conditions:
//
//	result, err := workflows.Clean(ctx, opts)
//	if errors.Is(err, rerrors.ErrPathNotConfigured) {
//	    // Tell the user to add a rule to rimu.toml
//	}
//
// Cache problems never surface as errors from the filter workflows; a
// broken cache only costs a re-encryption.
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
// This enables cancellation, timeouts, and passing request-scoped values.
package workflows
