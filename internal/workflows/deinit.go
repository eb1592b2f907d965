package workflows

import (
	"context"
	"fmt"
	"os"

	"github.com/PolarWolf314/rimu/internal/audit"
	"github.com/PolarWolf314/rimu/internal/cache"
	"github.com/PolarWolf314/rimu/internal/configs"
	rerrors "github.com/PolarWolf314/rimu/internal/errors"
)

// DeinitOptions configures the deinit workflow.
type DeinitOptions struct {
	// Purge also removes the local config and audit log, leaving no trace
	// under .git. Without it only the filter registration and the cache
	// go; identities and getters survive a later re-init.
	Purge bool
}

// DeinitResult contains the outcome of a deinit operation.
type DeinitResult struct {
	// FilterRemoved reports whether a filter registration was deleted.
	FilterRemoved bool

	// CacheRecordsPurged is how many cache records were dropped.
	CacheRecordsPurged int

	// LocalStateRemoved reports whether the whole .git/rimu directory was
	// deleted.
	LocalStateRemoved bool
}

// Deinit removes rimu from the enclosing git repository.
//
// The versioned rimu.toml is deliberately left alone: it belongs to the
// repository, not to this checkout. Encrypted files stay encrypted in
// history; after deinit they check out as raw age payloads.
//
// Returns ErrNotGitRepository when run outside a repository.
// Returns ErrNotInitialized when there is nothing to remove.
func Deinit(ctx context.Context, opts DeinitOptions) (*DeinitResult, error) {
	repo, err := prepareRepo()
	if err != nil {
		return nil, err
	}

	installed, err := repo.FilterInstalled()
	if err != nil {
		return nil, fmt.Errorf("checking filter registration: %w", err)
	}

	_, statErr := os.Stat(configs.RepoRimuSettings.RimuDir)
	haveState := statErr == nil

	if !installed && !haveState {
		return nil, rerrors.ErrNotInitialized
	}

	result := &DeinitResult{}

	if installed {
		if err := repo.RemoveFilter(); err != nil {
			return nil, fmt.Errorf("removing git filter: %w", err)
		}
		result.FilterRemoved = true
	}

	store := cache.New(configs.RepoRimuSettings.CacheDir)
	entries, err := store.Entries()
	if err == nil {
		result.CacheRecordsPurged = len(entries)
	}
	if err := store.Purge(); err != nil {
		return nil, fmt.Errorf("purging cache: %w", err)
	}

	auditEntry := audit.LogWithUser("deinit")
	auditEntry.PurgedCount = result.CacheRecordsPurged
	audit.Log(auditEntry)

	if opts.Purge && haveState {
		// Takes the local config and the audit log with it.
		if err := os.RemoveAll(configs.RepoRimuSettings.RimuDir); err != nil {
			return nil, fmt.Errorf("removing state directory: %w", err)
		}
		result.LocalStateRemoved = true
	}

	return result, nil
}
