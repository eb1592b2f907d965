// Package errors provides typed error values for the Rimu application.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. This makes
// error handling more robust and refactoring-safe.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Policy errors: rimu.toml issues (ErrPolicyNotFound, ErrPathNotConfigured)
//   - Identity errors: identity file issues (ErrIdentityParse, ErrIdentityDecrypt)
//   - Getter errors: passphrase command issues (ErrGetterNotFound, ErrGetterFailed)
//   - Crypto errors: encryption/decryption failures (ErrNoMatchingIdentity)
//   - Cache errors: determinism cache records (ErrCacheCorrupt, never fatal)
//   - Repository errors: installation state (ErrNotInitialized)
//
// Every category except cache errors is fatal to the running filter
// operation. Cache failures degrade to a cache miss so that git never sees
// a failed clean or smudge because of cache state.
//
// Error messages identify file paths and getter names. They never contain
// passphrase text or private key material.
//
// # Usage
//
// Return errors from internal packages:
//
//	if rule == nil {
//	    return nil, errors.ErrPathNotConfigured
//	}
//
// Handle errors in the CLI layer:
//
//	result, err := workflows.Clean(ctx, opts)
//	if errors.Is(err, rerrors.ErrPathNotConfigured) {
//	    // Show user-friendly message
//	}
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("resolving recipients for %s: %w", path, errors.ErrPathNotConfigured)
package errors
