// Package utils provides shared utility functions for the Rimu application.
//
// This package contains general-purpose helpers used across multiple packages.
// Functions are organized into logical groups:
//
// # Filesystem Utilities
//
// Functions for working with configured and git-reported paths:
//   - ExpandPath: resolves ~ and relative paths against a base directory
//   - NormalizeRepoPath: canonical slash form for policy and cache lookups
//
// # System Utilities
//
// Functions for interacting with the operating system:
//   - GetUsername: returns the current system username
//
// # String Utilities
//
// Functions for validating user-supplied names:
//   - IsValidGetterName: checks passphrase getter names
//
// # I/O Utilities
//
// Functions for reading from stdin and other I/O operations:
//   - ReadStdin: reads all data from standard input (empty input allowed,
//     since git filters empty files too)
package utils
