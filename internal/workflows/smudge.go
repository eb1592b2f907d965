package workflows

import (
	"context"

	"github.com/PolarWolf314/rimu/internal/cache"
	"github.com/PolarWolf314/rimu/internal/configs"
	"github.com/PolarWolf314/rimu/internal/crypt"
	"github.com/PolarWolf314/rimu/internal/utils"
)

// SmudgeOptions configures the smudge filter workflow.
type SmudgeOptions struct {
	// Path is the repository-relative path git is filtering.
	Path string

	// Content is the staged content read from the filter's standard input.
	Content []byte

	// Getter is an explicit passphrase getter key from the --getter flag.
	Getter string
}

// SmudgeResult contains the outcome of a smudge operation.
type SmudgeResult struct {
	// Plaintext is what the work tree receives.
	Plaintext []byte

	// Passthrough reports that the content was not an age payload and was
	// returned unchanged.
	Passthrough bool
}

// Smudge decrypts repository content on its way into the work tree.
//
// Content that is not an age payload passes through unchanged: files
// committed before rimu was configured, or paths matched by .gitattributes
// but never encrypted, must still check out. After a successful decrypt
// the plaintext hash is cached so the next clean of an unchanged file can
// reuse the staged ciphertext.
//
// Returns ErrIdentityParse or ErrIdentityDecrypt if an identity file is
// unusable. Returns ErrNoPassphrase if decryption could only have worked
// with identities that were skipped for lack of a passphrase. Returns
// ErrNoMatchingIdentity if no configured identity can open the payload.
func Smudge(ctx context.Context, opts SmudgeOptions) (*SmudgeResult, error) {
	if !crypt.IsAgePayload(opts.Content) {
		return &SmudgeResult{Plaintext: opts.Content, Passthrough: true}, nil
	}

	env, err := loadIdentityEnv(ctx, opts.Getter)
	if err != nil {
		return nil, err
	}

	plaintext, err := decryptPayload(env, opts.Content)
	if err != nil {
		return nil, err
	}

	path := utils.NormalizeRepoPath(opts.Path)
	store := cache.New(configs.RepoRimuSettings.CacheDir)

	// Best effort: without the record the next clean re-encrypts, which
	// is correct, just slower and noisier for git.
	_ = store.Store(path, cache.Sum(plaintext))

	return &SmudgeResult{Plaintext: plaintext}, nil
}
