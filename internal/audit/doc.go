// Package audit provides audit trail logging for rimu setup operations.
//
// Setup and configuration changes (init, deinit, identity and getter
// changes, cache purges) are recorded in a repository-local log. Filter
// invocations themselves are not audited: clean and smudge run on every
// add and checkout, and logging them would bury the record of the changes
// that matter.
//
// # Log Format
//
// The audit log is stored as JSON Lines (one JSON object per line) at:
//
//	.git/rimu/audit.jsonl
//
// Each entry contains:
//   - Timestamp (RFC3339 with microseconds, UTC)
//   - OS username and the repository's rimu UUID
//   - Operation name
//   - Operation-specific details (identity path, getter name, etc.)
//
// The log lives under .git, so it is never committed and never shared.
//
// # Usage
//
// Create an entry with user info pre-populated:
//
//	entry := audit.LogWithUser("config add-identity")
//	entry.Identity = path
//	audit.Log(entry)
//
// # Failure Handling
//
// Audit logging is best-effort. If logging fails (permissions, disk full,
// etc.), the operation continues without error. Operations should never
// fail just because audit logging failed.
//
// # Reading Logs
//
// Use ReadEntries() to parse the audit log for display or analysis.
// Malformed entries are silently skipped to handle partial writes.
package audit
