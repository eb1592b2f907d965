package configs

import (
	"path/filepath"

	"github.com/PolarWolf314/rimu/internal/utils"
)

// PolicyFileName is the versioned policy document at the repository root.
const PolicyFileName = "rimu.toml"

type UserSettings struct {
	Username string
}

type RepoSettings struct {
	RepoRoot        string
	GitDir          string
	RimuDir         string
	PolicyPath      string
	LocalConfigPath string
	CacheDir        string
	AuditLogPath    string
}

var (
	UserRimuSettings *UserSettings
	RepoRimuSettings *RepoSettings
)

func init() {
	// Best effort: the username only decorates audit entries.
	username, err := utils.GetUsername()
	if err != nil {
		username = ""
	}

	UserRimuSettings = &UserSettings{
		Username: username,
	}
	RepoRimuSettings = &RepoSettings{}
}

// InitRepoSettings fills the repository-scoped paths once the repository has
// been discovered. gitDir is the repository metadata directory, normally .git,
// so everything under RimuDir stays out of version control.
func InitRepoSettings(repoRoot, gitDir string) {
	rimuDir := filepath.Join(gitDir, "rimu")

	RepoRimuSettings = &RepoSettings{
		RepoRoot:        repoRoot,
		GitDir:          gitDir,
		RimuDir:         rimuDir,
		PolicyPath:      filepath.Join(repoRoot, PolicyFileName),
		LocalConfigPath: filepath.Join(rimuDir, "config.toml"),
		CacheDir:        filepath.Join(rimuDir, "cache"),
		AuditLogPath:    filepath.Join(rimuDir, "audit.jsonl"),
	}
}
