package errors

import "errors"

// Policy errors indicate issues with the versioned rimu.toml document.
var (
	// ErrPolicyNotFound indicates no rimu.toml exists at the repository root.
	ErrPolicyNotFound = errors.New("policy file not found")

	// ErrInvalidPolicy indicates the policy document is malformed or corrupt.
	ErrInvalidPolicy = errors.New("policy file is invalid")

	// ErrPathNotConfigured indicates no path rule matches the file being filtered.
	ErrPathNotConfigured = errors.New("path has no configured recipients")

	// ErrInvalidPattern indicates a path rule pattern could not be compiled.
	ErrInvalidPattern = errors.New("invalid path pattern")
)

// Identity errors indicate failures loading or unwrapping identity files.
var (
	// ErrIdentityParse indicates an identity file matches no supported format.
	ErrIdentityParse = errors.New("identity file could not be parsed")

	// ErrIdentityDecrypt indicates an encrypted identity file could not be unwrapped.
	ErrIdentityDecrypt = errors.New("encrypted identity could not be decrypted")

	// ErrNoPassphrase indicates encrypted identities were skipped because no
	// passphrase was available.
	ErrNoPassphrase = errors.New("no passphrase available for encrypted identity")
)

// Passphrase getter errors indicate failures resolving or running the external
// passphrase command.
var (
	// ErrGetterNotFound indicates the selected getter key has no entry in the
	// [passphrase] table.
	ErrGetterNotFound = errors.New("passphrase getter not found")

	// ErrGetterFailed indicates the getter command exited non-zero.
	ErrGetterFailed = errors.New("passphrase getter failed")

	// ErrGetterEmptyOutput indicates the getter command produced no output.
	ErrGetterEmptyOutput = errors.New("passphrase getter returned empty output")
)

// Cryptographic errors indicate failures during encryption or decryption.
var (
	// ErrInvalidRecipient indicates a recipient string matches no supported key format.
	ErrInvalidRecipient = errors.New("invalid recipient")

	// ErrEncryptFailed indicates payload encryption failed.
	ErrEncryptFailed = errors.New("failed to encrypt content")

	// ErrDecryptFailed indicates payload decryption failed.
	ErrDecryptFailed = errors.New("failed to decrypt content")

	// ErrNoMatchingIdentity indicates no configured identity can open the payload.
	ErrNoMatchingIdentity = errors.New("no identity matched the encrypted content")
)

// Cache errors are internal to the determinism cache. They always degrade to a
// cache miss and must never abort a filter operation.
var (
	// ErrCacheCorrupt indicates a cache record could not be decoded.
	ErrCacheCorrupt = errors.New("cache record is corrupt")
)

// Command input errors indicate invalid values supplied to a command.
var (
	// ErrInvalidDateFormat indicates a date flag was not in YYYY-MM-DD form.
	ErrInvalidDateFormat = errors.New("invalid date format")

	// ErrInvalidGetterName indicates a getter name contains unsupported characters.
	ErrInvalidGetterName = errors.New("invalid getter name")
)

// Repository state errors indicate issues with rimu's installation in a repository.
var (
	// ErrNotGitRepository indicates the working directory is not inside a git repository.
	ErrNotGitRepository = errors.New("not inside a git repository")

	// ErrNotInitialized indicates rimu has not been set up in this repository.
	ErrNotInitialized = errors.New("rimu has not been initialized in this repository")

	// ErrAlreadyInitialized indicates rimu has already been set up in this repository.
	ErrAlreadyInitialized = errors.New("rimu has already been initialized in this repository")
)
