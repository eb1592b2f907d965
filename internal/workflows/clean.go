package workflows

import (
	"context"

	"github.com/PolarWolf314/rimu/internal/cache"
	"github.com/PolarWolf314/rimu/internal/configs"
	"github.com/PolarWolf314/rimu/internal/crypt"
	"github.com/PolarWolf314/rimu/internal/utils"
)

// CleanOptions configures the clean filter workflow.
type CleanOptions struct {
	// Path is the repository-relative path git is filtering.
	Path string

	// Content is the plaintext read from the filter's standard input.
	Content []byte

	// Staged answers what the index currently holds for a path. Usually
	// the open repository; nil disables ciphertext reuse entirely.
	Staged StagedObjectStore
}

// CleanResult contains the outcome of a clean operation.
type CleanResult struct {
	// Ciphertext is what git stores for the file.
	Ciphertext []byte

	// FromCache reports whether the staged ciphertext was reused instead
	// of encrypting again.
	FromCache bool

	// Recipients lists the resolved recipient keys the content was
	// encrypted for. Empty when the staged ciphertext was reused.
	Recipients []string
}

// Clean encrypts plaintext on its way into the git index.
//
// Encryption is probabilistic, so re-encrypting an unchanged file would
// produce new bytes and git would see every encrypted file as modified on
// every add. Clean first hashes the plaintext; when the hash matches the
// cached one and the index still holds a non-empty encrypted object for
// the path, that staged ciphertext is returned verbatim. Otherwise the
// path's recipients are resolved from the policy and the content is
// encrypted fresh.
//
// Returns ErrPolicyNotFound if the repository has no rimu.toml.
// Returns ErrPathNotConfigured if no policy rule matches the path.
// Returns ErrInvalidRecipient if a resolved recipient cannot be parsed.
// Returns ErrEncryptFailed if encryption itself fails.
func Clean(ctx context.Context, opts CleanOptions) (*CleanResult, error) {
	path := utils.NormalizeRepoPath(opts.Path)
	store := cache.New(configs.RepoRimuSettings.CacheDir)
	sum := cache.Sum(opts.Content)

	if staged, ok := reuseStaged(store, opts.Staged, path, sum); ok {
		return &CleanResult{Ciphertext: staged, FromCache: true}, nil
	}

	pol, err := configs.LoadPolicy()
	if err != nil {
		return nil, err
	}

	keys, err := pol.Resolve(path)
	if err != nil {
		return nil, err
	}

	recipients, err := crypt.ParseRecipients(keys)
	if err != nil {
		return nil, err
	}

	ciphertext, err := crypt.Encrypt(opts.Content, recipients)
	if err != nil {
		return nil, err
	}

	// Best effort: a failed cache write only costs a re-encryption on the
	// next clean of this path.
	_ = store.Store(path, sum)

	return &CleanResult{Ciphertext: ciphertext, Recipients: keys}, nil
}

// reuseStaged reports whether the staged ciphertext for path can stand in
// for a fresh encryption of content hashing to sum. The staged bytes must
// exist, be non-empty, and actually be an age payload; anything else means
// the index was touched behind rimu's back and the entry is stale.
func reuseStaged(store *cache.Cache, staged StagedObjectStore, path, sum string) ([]byte, bool) {
	if staged == nil {
		return nil, false
	}
	cached, ok := store.Lookup(path)
	if !ok || cached != sum {
		return nil, false
	}
	data, ok, err := staged.StagedBytes(path)
	if err != nil || !ok || len(data) == 0 || !crypt.IsAgePayload(data) {
		return nil, false
	}
	return data, true
}
