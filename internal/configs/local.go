package configs

import (
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/PolarWolf314/rimu/internal/utils"
)

// LocalConfig is the unversioned per-checkout configuration stored under
// .git/rimu/config.toml. It never enters version control, so each clone can
// point at its own identity files and passphrase commands.
type LocalConfig struct {
	// RepoUUID identifies this rimu installation, assigned at init.
	RepoUUID string `toml:"repo_uuid"`

	// Identities lists identity file paths in the order smudge tries them.
	Identities []string `toml:"identities"`

	// Passphrase maps getter names to shell commands that print a passphrase.
	Passphrase map[string]string `toml:"passphrase"`
}

// LoadLocalConfig loads the local configuration from the config file.
// A missing file yields an empty configuration, not an error.
// Note: Caller should ensure InitRepoSettings is called before calling this function.
func LoadLocalConfig() (*LocalConfig, error) {
	configPath := RepoRimuSettings.LocalConfigPath

	config := &LocalConfig{
		Passphrase: make(map[string]string),
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(configPath, config); err != nil {
		return nil, fmt.Errorf("failed to load local config: %w", err)
	}

	if config.Passphrase == nil {
		config.Passphrase = make(map[string]string)
	}

	return config, nil
}

// SaveLocalConfig saves the local configuration to the config file.
func SaveLocalConfig(config *LocalConfig) error {
	configPath := RepoRimuSettings.LocalConfigPath

	if err := SaveTOML(configPath, config); err != nil {
		return fmt.Errorf("failed to save local config: %w", err)
	}

	return nil
}

// GenerateRepoUUID generates a new UUID for a rimu installation.
func GenerateRepoUUID() string {
	return uuid.New().String()
}

// EnsureLocalConfig ensures the local configuration exists and has a UUID.
func EnsureLocalConfig() (*LocalConfig, error) {
	config, err := LoadLocalConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load local config: %w", err)
	}

	if config.RepoUUID == "" {
		config.RepoUUID = GenerateRepoUUID()
		if err := SaveLocalConfig(config); err != nil {
			return nil, fmt.Errorf("failed to save local config: %w", err)
		}
	}

	return config, nil
}

// AddIdentity appends an identity file path.
// Returns false if the path is already configured.
func (lc *LocalConfig) AddIdentity(path string) bool {
	for _, existing := range lc.Identities {
		if existing == path {
			return false
		}
	}
	lc.Identities = append(lc.Identities, path)
	return true
}

// RemoveIdentity removes an identity file path.
// Returns true if the path was configured.
func (lc *LocalConfig) RemoveIdentity(path string) bool {
	for i, existing := range lc.Identities {
		if existing == path {
			lc.Identities = append(lc.Identities[:i], lc.Identities[i+1:]...)
			return true
		}
	}
	return false
}

// SetGetter stores a passphrase getter command under name.
// Returns true if an existing command was replaced.
func (lc *LocalConfig) SetGetter(name, command string) bool {
	_, replaced := lc.Passphrase[name]
	lc.Passphrase[name] = command
	return replaced
}

// RemoveGetter removes the passphrase getter stored under name.
// Returns true if the getter existed.
func (lc *LocalConfig) RemoveGetter(name string) bool {
	if _, ok := lc.Passphrase[name]; !ok {
		return false
	}
	delete(lc.Passphrase, name)
	return true
}

// IdentityPaths returns the configured identity paths resolved to absolute
// form: "~" expands to the home directory and relative paths resolve against
// the repository root. Order is preserved.
func (lc *LocalConfig) IdentityPaths() ([]string, error) {
	paths := make([]string, 0, len(lc.Identities))
	for _, p := range lc.Identities {
		resolved, err := utils.ExpandPath(p, RepoRimuSettings.RepoRoot)
		if err != nil {
			return nil, fmt.Errorf("resolving identity path %q: %w", p, err)
		}
		paths = append(paths, resolved)
	}
	return paths, nil
}
