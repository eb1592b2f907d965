package workflows

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"filippo.io/age"

	"github.com/PolarWolf314/rimu/internal/configs"
	"github.com/PolarWolf314/rimu/internal/crypt"
	rerrors "github.com/PolarWolf314/rimu/internal/errors"
	"github.com/PolarWolf314/rimu/internal/gitrepo"
	"github.com/PolarWolf314/rimu/internal/passphrase"
)

// StagedObjectStore answers what the git index currently holds for a path.
// gitrepo.Repository is the real implementation; tests substitute a map.
type StagedObjectStore interface {
	StagedBytes(path string) ([]byte, bool, error)
}

// prepareRepo opens the repository enclosing the working directory and
// fills the repository-scoped settings. Setup workflows call this first;
// filter workflows rely on the CLI layer having done it.
func prepareRepo() (*gitrepo.Repository, error) {
	repo, err := gitrepo.Open(".")
	if err != nil {
		return nil, err
	}
	configs.InitRepoSettings(repo.Root(), repo.GitDir())
	return repo, nil
}

// identityEnv is everything a decrypt-capable operation needs for one
// invocation: the loaded identities, the flattened usable set, the
// identity files skipped for lack of a passphrase, and which getter (if
// any) produced the passphrase.
type identityEnv struct {
	identities []*crypt.Identity
	usable     []age.Identity
	skipped    []string
	selection  passphrase.Selection
}

// loadIdentityEnv resolves the passphrase and loads every configured
// identity file. Parse failures and wrong passphrases are fatal here;
// encrypted identities that simply had no passphrase to try are kept as
// skipped.
func loadIdentityEnv(ctx context.Context, explicitGetter string) (*identityEnv, error) {
	local, err := configs.LoadLocalConfig()
	if err != nil {
		return nil, fmt.Errorf("loading local config: %w", err)
	}

	envInputs, err := configs.LoadEnvInputs()
	if err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	pass, selection, err := passphrase.Resolve(ctx, passphrase.Inputs{
		Direct:   envInputs.Passphrase,
		Explicit: explicitGetter,
		Override: envInputs.PassphraseGetter,
		Getters:  local.Passphrase,
	})
	if err != nil {
		return nil, err
	}

	paths, err := local.IdentityPaths()
	if err != nil {
		return nil, err
	}

	identities, err := crypt.LoadIdentities(paths, pass)
	if err != nil {
		return nil, err
	}

	return &identityEnv{
		identities: identities,
		usable:     crypt.UsableIdentities(identities),
		skipped:    crypt.SkippedForPassphrase(identities),
		selection:  selection,
	}, nil
}

// decryptPayload opens an age payload with the loaded identities, turning
// "nothing matched" into an actionable error when identity files were
// skipped for lack of a passphrase.
func decryptPayload(env *identityEnv, payload []byte) ([]byte, error) {
	if len(env.usable) == 0 {
		if len(env.skipped) > 0 {
			return nil, fmt.Errorf("%w: %s", rerrors.ErrNoPassphrase, strings.Join(env.skipped, ", "))
		}
		return nil, fmt.Errorf("%w: no identities configured", rerrors.ErrNoMatchingIdentity)
	}

	plaintext, err := crypt.Decrypt(payload, env.usable)
	if err != nil {
		if errors.Is(err, rerrors.ErrNoMatchingIdentity) && len(env.skipped) > 0 {
			return nil, fmt.Errorf("%w (%d encrypted identity files were skipped for lack of a passphrase: %s)",
				err, len(env.skipped), strings.Join(env.skipped, ", "))
		}
		return nil, err
	}
	return plaintext, nil
}
