package workflows

import (
	"context"

	"github.com/PolarWolf314/rimu/internal/crypt"
)

// TextconvOptions configures the textconv workflow.
type TextconvOptions struct {
	// Content is the blob content git wants rendered for a diff.
	Content []byte

	// Getter is an explicit passphrase getter key from the --getter flag.
	Getter string
}

// TextconvResult contains the outcome of a textconv operation.
type TextconvResult struct {
	// Plaintext is what the diff shows.
	Plaintext []byte

	// Passthrough reports that the content was not an age payload and was
	// returned unchanged.
	Passthrough bool
}

// Textconv decrypts a blob for diff and log presentation.
//
// It is the decrypt half of smudge with the state handling removed: the
// cache is never read or written and the work tree is never touched, so
// diffing old revisions leaves no trace. Non-age content passes through
// unchanged, which is what git expects when diffing the plaintext side.
//
// Error conditions match Smudge.
func Textconv(ctx context.Context, opts TextconvOptions) (*TextconvResult, error) {
	if !crypt.IsAgePayload(opts.Content) {
		return &TextconvResult{Plaintext: opts.Content, Passthrough: true}, nil
	}

	env, err := loadIdentityEnv(ctx, opts.Getter)
	if err != nil {
		return nil, err
	}

	plaintext, err := decryptPayload(env, opts.Content)
	if err != nil {
		return nil, err
	}

	return &TextconvResult{Plaintext: plaintext}, nil
}
