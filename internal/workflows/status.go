package workflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/PolarWolf314/rimu/internal/cache"
	"github.com/PolarWolf314/rimu/internal/configs"
	"github.com/PolarWolf314/rimu/internal/crypt"
	rerrors "github.com/PolarWolf314/rimu/internal/errors"
	"github.com/PolarWolf314/rimu/internal/passphrase"
	"github.com/PolarWolf314/rimu/internal/utils"
)

// IdentityStatus describes one configured identity file.
type IdentityStatus struct {
	// Path is the path as written in the local config.
	Path string

	// ResolvedPath is the absolute path after ~ and relative expansion.
	ResolvedPath string

	// State is the validation outcome.
	State crypt.IdentityState

	// Note carries extra detail for states that need explaining.
	Note string
}

// StatusOptions configures the status workflow.
type StatusOptions struct {
	// Getter is an explicit passphrase getter key from the --getter flag.
	// Status resolves the passphrase the same way smudge would, so the
	// report shows what an actual decryption would see.
	Getter string
}

// StatusResult contains the outcome of a status operation.
type StatusResult struct {
	// RepoRoot is the work tree root.
	RepoRoot string

	// RepoUUID identifies this rimu installation, empty before init.
	RepoUUID string

	// FilterInstalled reports whether the git filter is registered.
	FilterInstalled bool

	// PolicyPresent reports whether rimu.toml exists at the root.
	PolicyPresent bool

	// PolicyIssue is a human-readable problem with the policy document,
	// empty when the policy loads cleanly.
	PolicyIssue string

	// AliasCount and RuleCount summarize the loaded policy.
	AliasCount int
	RuleCount  int

	// Identities holds the validation state of each configured identity.
	Identities []IdentityStatus

	// GetterSelected reports whether a passphrase getter would run.
	GetterSelected bool

	// GetterKey and GetterSource describe the selection when one exists.
	GetterKey    string
	GetterSource string

	// GetterIssue is a human-readable getter failure. Identity validation
	// proceeds without a passphrase when the getter fails.
	GetterIssue string

	// CacheRecords is the number of readable determinism-cache records.
	CacheRecords int
}

// Status reports the health of rimu's installation in the repository:
// filter registration, policy document, identity validation states, getter
// selection, and cache size. Status never fails on a broken configuration;
// it reports the breakage instead.
//
// Returns ErrNotGitRepository when run outside a repository.
func Status(ctx context.Context, opts StatusOptions) (*StatusResult, error) {
	repo, err := prepareRepo()
	if err != nil {
		return nil, err
	}

	result := &StatusResult{
		RepoRoot: configs.RepoRimuSettings.RepoRoot,
	}

	result.FilterInstalled, err = repo.FilterInstalled()
	if err != nil {
		return nil, fmt.Errorf("checking filter registration: %w", err)
	}

	local, err := configs.LoadLocalConfig()
	if err != nil {
		return nil, fmt.Errorf("loading local config: %w", err)
	}
	result.RepoUUID = local.RepoUUID

	inspectPolicy(result)

	// Resolve the passphrase exactly as a decryption would. A failing
	// getter degrades the report, not the command: encrypted identities
	// simply show as untested.
	pass := ""
	envInputs, err := configs.LoadEnvInputs()
	if err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	resolved, selection, err := passphrase.Resolve(ctx, passphrase.Inputs{
		Direct:   envInputs.Passphrase,
		Explicit: opts.Getter,
		Override: envInputs.PassphraseGetter,
		Getters:  local.Passphrase,
	})
	if err != nil {
		result.GetterIssue = err.Error()
	} else {
		pass = resolved
	}
	if selection.Source != passphrase.SourceNone {
		result.GetterSelected = true
		result.GetterKey = selection.Key
		result.GetterSource = selection.Source.String()
	}

	for _, configured := range local.Identities {
		status := IdentityStatus{Path: configured}
		resolvedPath, err := utils.ExpandPath(configured, configs.RepoRimuSettings.RepoRoot)
		if err != nil {
			status.State = crypt.PlaintextInvalid
			status.Note = err.Error()
			result.Identities = append(result.Identities, status)
			continue
		}
		status.ResolvedPath = resolvedPath

		identity := crypt.LoadIdentity(resolvedPath, pass)
		status.State = identity.State
		status.Note = identity.Note
		result.Identities = append(result.Identities, status)
	}

	entries, err := cache.New(configs.RepoRimuSettings.CacheDir).Entries()
	if err == nil {
		result.CacheRecords = len(entries)
	}

	return result, nil
}

// inspectPolicy fills the policy portion of the status report.
func inspectPolicy(result *StatusResult) {
	pol, err := configs.LoadPolicy()
	if err != nil {
		if errors.Is(err, rerrors.ErrPolicyNotFound) {
			return
		}
		result.PolicyPresent = true
		result.PolicyIssue = err.Error()
		return
	}

	result.PolicyPresent = true
	result.AliasCount = len(pol.Aliases)
	result.RuleCount = len(pol.Rules)

	if err := pol.CheckPatterns(); err != nil {
		result.PolicyIssue = err.Error()
	}
}
