// Package configs manages the policy document and local configuration for Rimu.
//
// Configuration is stored in TOML format at two levels:
//
//   - Policy document: rimu.toml at the repository root (versioned)
//   - Local config: .git/rimu/config.toml (per checkout, never versioned)
//
// # Policy Document
//
// The policy document stores:
//   - [aliases]: short names for recipient keys
//   - [config]: path patterns mapped to recipient lists
//
// Rule declaration order matters for tie-breaking, and TOML maps lose it, so
// LoadPolicy rebuilds the order from decode metadata.
//
// # Local Configuration
//
// The local config stores:
//   - The installation UUID, assigned at init
//   - The ordered list of identity file paths used for decryption
//   - The [passphrase] table of getter names mapped to shell commands
//
// It lives inside the git directory so it differs per clone: each developer
// points rimu at their own keys without touching versioned files.
//
// # Environment
//
// EnvInputs carries RIMU_PASSPHRASE and RIMU_PASSPHRASE_GETTER. The getter
// override distinguishes unset from set-but-empty: the empty string
// suppresses the implicit getter entirely.
//
// # Settings
//
// Global settings are initialized at startup:
//   - UserRimuSettings: the current username, for audit entries
//   - RepoRimuSettings: repository-scoped paths under the git directory
//
// Call InitRepoSettings(root, gitDir) after discovering the repository and
// before loading any configuration.
package configs
