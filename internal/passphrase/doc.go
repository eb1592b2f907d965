// Package passphrase selects and runs the external command that produces
// the passphrase for encrypted identity files.
//
// # Selection
//
// Getters live in the [passphrase] table of the local config as name to
// shell-command pairs. Exactly one getter is chosen per invocation, by
// priority: the --getter flag, then the RIMU_PASSPHRASE_GETTER environment
// variable, then an implicit "sops" entry when the table has one. Setting
// the environment variable to the empty string suppresses the implicit
// default without selecting anything.
//
// # Execution
//
// The winning command runs through "sh -c" so pipes and compound commands
// work. Its trimmed standard output becomes the passphrase for the rest of
// the invocation. A non-zero exit or empty output is fatal. The command is
// synchronous with no enforced timeout: a hanging getter hangs the
// invocation.
//
// The resolved passphrase is threaded through calls as a plain value. It
// is never written to the environment, to disk, or to any log or error
// message.
package passphrase
