package workflows

import (
	"context"
	"fmt"
	"os"

	"github.com/PolarWolf314/rimu/internal/audit"
	"github.com/PolarWolf314/rimu/internal/configs"
	rerrors "github.com/PolarWolf314/rimu/internal/errors"
)

// InitOptions configures the init workflow.
type InitOptions struct {
	// Executable is the rimu binary path registered in the git config as
	// the filter command.
	Executable string

	// Force reinstalls the filter even when one is already registered.
	Force bool
}

// InitResult contains the outcome of an init operation.
type InitResult struct {
	// RepoRoot is the work tree root the filter was installed in.
	RepoRoot string

	// RepoUUID is the identifier assigned to this rimu installation.
	RepoUUID string

	// PolicyPath is where the versioned policy document lives.
	PolicyPath string

	// PolicyCreated reports whether a starter rimu.toml was written.
	PolicyCreated bool

	// AttributesHint is the .gitattributes line that routes paths through
	// the filter. Init never edits .gitattributes itself: which paths get
	// encrypted is a decision that belongs in the user's tree.
	AttributesHint string
}

// Init sets rimu up in the enclosing git repository.
//
// It registers the clean/smudge filter and textconv diff driver in the
// repository-local git config, creates the unversioned state directory
// under .git, assigns the installation a UUID, and writes a starter
// rimu.toml at the repository root unless one already exists.
//
// Returns ErrNotGitRepository when run outside a repository.
// Returns ErrAlreadyInitialized if the filter is registered and Force is
// not set.
func Init(ctx context.Context, opts InitOptions) (*InitResult, error) {
	repo, err := prepareRepo()
	if err != nil {
		return nil, err
	}

	installed, err := repo.FilterInstalled()
	if err != nil {
		return nil, fmt.Errorf("checking filter registration: %w", err)
	}
	if installed && !opts.Force {
		return nil, rerrors.ErrAlreadyInitialized
	}

	rimuDir := configs.RepoRimuSettings.RimuDir
	_, statErr := os.Stat(rimuDir)
	createdRimuDir := os.IsNotExist(statErr)

	cleanupNeeded := false
	defer func() {
		if cleanupNeeded && createdRimuDir {
			os.RemoveAll(rimuDir)
		}
	}()

	if err := os.MkdirAll(rimuDir, 0700); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}
	cleanupNeeded = true

	localConfig, err := configs.EnsureLocalConfig()
	if err != nil {
		return nil, fmt.Errorf("creating local config: %w", err)
	}

	policyCreated, err := configs.WritePolicyTemplate()
	if err != nil {
		return nil, fmt.Errorf("writing policy template: %w", err)
	}

	if err := repo.InstallFilter(opts.Executable); err != nil {
		if policyCreated {
			os.Remove(configs.RepoRimuSettings.PolicyPath)
		}
		return nil, fmt.Errorf("registering git filter: %w", err)
	}

	auditEntry := audit.LogWithUser("init")
	auditEntry.Executable = opts.Executable
	if policyCreated {
		auditEntry.PolicyPath = configs.RepoRimuSettings.PolicyPath
	}
	audit.Log(auditEntry)

	cleanupNeeded = false

	return &InitResult{
		RepoRoot:       configs.RepoRimuSettings.RepoRoot,
		RepoUUID:       localConfig.RepoUUID,
		PolicyPath:     configs.RepoRimuSettings.PolicyPath,
		PolicyCreated:  policyCreated,
		AttributesHint: "secrets/** filter=rimu diff=rimu",
	}, nil
}
