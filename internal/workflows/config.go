package workflows

import (
	"context"
	"fmt"
	"os"

	"github.com/PolarWolf314/rimu/internal/audit"
	"github.com/PolarWolf314/rimu/internal/configs"
	"github.com/PolarWolf314/rimu/internal/crypt"
	rerrors "github.com/PolarWolf314/rimu/internal/errors"
	"github.com/PolarWolf314/rimu/internal/utils"
)

// requireInit opens the repository and checks that rimu's state directory
// exists. Config commands mutate the local config, which only makes sense
// after init.
func requireInit() error {
	if _, err := prepareRepo(); err != nil {
		return err
	}
	if _, err := os.Stat(configs.RepoRimuSettings.RimuDir); os.IsNotExist(err) {
		return rerrors.ErrNotInitialized
	}
	return nil
}

// AddIdentityOptions configures the config add-identity workflow.
type AddIdentityOptions struct {
	// Path is the identity file path as the user supplied it. It is stored
	// verbatim; ~ and relative expansion happen each time it is used, so
	// the config stays portable across home directories.
	Path string
}

// AddIdentityResult contains the outcome of adding an identity.
type AddIdentityResult struct {
	// Added is false when the path was already configured.
	Added bool

	// ResolvedPath is where the path points after expansion.
	ResolvedPath string

	// State is a validation snapshot of the file, taken without a
	// passphrase. Encrypted identities show as untested here.
	State crypt.IdentityState

	// Note carries extra detail for states that need explaining.
	Note string
}

// AddIdentity appends an identity file to the local config.
//
// The file must exist, but it is not required to validate: an encrypted
// identity cannot be checked without a passphrase, and status exists to
// report deeper problems. The snapshot state in the result lets the CLI
// warn immediately about files that will never work.
//
// Returns ErrNotInitialized before init. Returns ErrIdentityParse if the
// file does not exist at all.
func AddIdentity(ctx context.Context, opts AddIdentityOptions) (*AddIdentityResult, error) {
	if err := requireInit(); err != nil {
		return nil, err
	}

	resolved, err := utils.ExpandPath(opts.Path, configs.RepoRimuSettings.RepoRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving identity path: %w", err)
	}
	if _, err := os.Stat(resolved); err != nil {
		return nil, fmt.Errorf("%w: %s does not exist", rerrors.ErrIdentityParse, resolved)
	}

	local, err := configs.EnsureLocalConfig()
	if err != nil {
		return nil, fmt.Errorf("loading local config: %w", err)
	}

	added := local.AddIdentity(opts.Path)
	if added {
		if err := configs.SaveLocalConfig(local); err != nil {
			return nil, fmt.Errorf("saving local config: %w", err)
		}

		auditEntry := audit.LogWithUser("config add-identity")
		auditEntry.Identity = opts.Path
		audit.Log(auditEntry)
	}

	snapshot := crypt.LoadIdentity(resolved, "")

	return &AddIdentityResult{
		Added:        added,
		ResolvedPath: resolved,
		State:        snapshot.State,
		Note:         snapshot.Note,
	}, nil
}

// RemoveIdentityOptions configures the config remove-identity workflow.
type RemoveIdentityOptions struct {
	// Path must match the configured entry verbatim.
	Path string
}

// RemoveIdentityResult contains the outcome of removing an identity.
type RemoveIdentityResult struct {
	// Removed is false when the path was not configured.
	Removed bool
}

// RemoveIdentity drops an identity file from the local config.
//
// Returns ErrNotInitialized before init.
func RemoveIdentity(ctx context.Context, opts RemoveIdentityOptions) (*RemoveIdentityResult, error) {
	if err := requireInit(); err != nil {
		return nil, err
	}

	local, err := configs.EnsureLocalConfig()
	if err != nil {
		return nil, fmt.Errorf("loading local config: %w", err)
	}

	removed := local.RemoveIdentity(opts.Path)
	if removed {
		if err := configs.SaveLocalConfig(local); err != nil {
			return nil, fmt.Errorf("saving local config: %w", err)
		}

		auditEntry := audit.LogWithUser("config remove-identity")
		auditEntry.Identity = opts.Path
		audit.Log(auditEntry)
	}

	return &RemoveIdentityResult{Removed: removed}, nil
}

// AddGetterOptions configures the config add-getter workflow.
type AddGetterOptions struct {
	// Name is the getter key, referenced by --getter and the environment
	// override. The name "sops" additionally runs implicitly.
	Name string

	// Command is the shell command that prints a passphrase on stdout.
	Command string
}

// AddGetterResult contains the outcome of adding a getter.
type AddGetterResult struct {
	// Replaced reports whether an existing command was overwritten.
	Replaced bool
}

// AddGetter stores a passphrase getter command in the local config.
//
// Returns ErrNotInitialized before init. Returns ErrInvalidGetterName if
// the name would be unusable from a flag or environment variable.
func AddGetter(ctx context.Context, opts AddGetterOptions) (*AddGetterResult, error) {
	if err := requireInit(); err != nil {
		return nil, err
	}

	if !utils.IsValidGetterName(opts.Name) {
		return nil, fmt.Errorf("%w: %q", rerrors.ErrInvalidGetterName, opts.Name)
	}
	if opts.Command == "" {
		return nil, fmt.Errorf("%w: getter command must not be empty", rerrors.ErrInvalidGetterName)
	}

	local, err := configs.EnsureLocalConfig()
	if err != nil {
		return nil, fmt.Errorf("loading local config: %w", err)
	}

	replaced := local.SetGetter(opts.Name, opts.Command)
	if err := configs.SaveLocalConfig(local); err != nil {
		return nil, fmt.Errorf("saving local config: %w", err)
	}

	auditEntry := audit.LogWithUser("config add-getter")
	auditEntry.Getter = opts.Name
	audit.Log(auditEntry)

	return &AddGetterResult{Replaced: replaced}, nil
}

// RemoveGetterOptions configures the config remove-getter workflow.
type RemoveGetterOptions struct {
	// Name is the getter key to remove.
	Name string
}

// RemoveGetterResult contains the outcome of removing a getter.
type RemoveGetterResult struct {
	// Removed is false when no getter had that name.
	Removed bool
}

// RemoveGetter drops a passphrase getter from the local config.
//
// Returns ErrNotInitialized before init.
func RemoveGetter(ctx context.Context, opts RemoveGetterOptions) (*RemoveGetterResult, error) {
	if err := requireInit(); err != nil {
		return nil, err
	}

	local, err := configs.EnsureLocalConfig()
	if err != nil {
		return nil, fmt.Errorf("loading local config: %w", err)
	}

	removed := local.RemoveGetter(opts.Name)
	if removed {
		if err := configs.SaveLocalConfig(local); err != nil {
			return nil, fmt.Errorf("saving local config: %w", err)
		}

		auditEntry := audit.LogWithUser("config remove-getter")
		auditEntry.Getter = opts.Name
		audit.Log(auditEntry)
	}

	return &RemoveGetterResult{Removed: removed}, nil
}

// ShowConfigResult is the raw local configuration, for display.
type ShowConfigResult struct {
	// RepoUUID identifies this rimu installation.
	RepoUUID string

	// Identities are the configured identity paths, verbatim and ordered.
	Identities []string

	// Getters maps getter names to their shell commands.
	Getters map[string]string

	// PolicyPath and LocalConfigPath locate the two config files.
	PolicyPath      string
	LocalConfigPath string
}

// ShowConfig reads the local configuration for display. Unlike Status it
// performs no validation; it shows what is configured, not whether it
// works.
//
// Returns ErrNotInitialized before init.
func ShowConfig(ctx context.Context) (*ShowConfigResult, error) {
	if err := requireInit(); err != nil {
		return nil, err
	}

	local, err := configs.LoadLocalConfig()
	if err != nil {
		return nil, fmt.Errorf("loading local config: %w", err)
	}

	return &ShowConfigResult{
		RepoUUID:        local.RepoUUID,
		Identities:      local.Identities,
		Getters:         local.Passphrase,
		PolicyPath:      configs.RepoRimuSettings.PolicyPath,
		LocalConfigPath: configs.RepoRimuSettings.LocalConfigPath,
	}, nil
}
