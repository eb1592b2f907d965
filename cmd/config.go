package cmd

import (
	"errors"

	rerrors "github.com/PolarWolf314/rimu/internal/errors"
	"github.com/PolarWolf314/rimu/internal/ui"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the checkout-local rimu configuration",
	Long: `Manages identities and passphrase getters in .git/rimu/config.toml.

This configuration is local to the checkout and never committed: which
identity files a machine holds is private to that machine. The shared
encryption policy lives in rimu.toml at the repository root instead.

Examples:
  # Register an age identity file
  rimu config add-identity ~/.config/rimu/keys.txt

  # Register an SSH key
  rimu config add-identity ~/.ssh/id_ed25519

  # Store a command that prints the identity passphrase
  rimu config add-getter sops "op read op://vault/rimu/password"

  # Inspect what is configured
  rimu config show`,
}

func init() {
	RootCmd.AddCommand(configCmd)
}

// formatConfigError renders the failures shared by every config
// subcommand. Returns the empty string for errors it does not recognize.
func formatConfigError(err error) string {
	switch {
	case errors.Is(err, rerrors.ErrNotInitialized):
		return ui.Error.Sprint("✗") + " Rimu has not been initialized in this repository\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("rimu init") + " first"
	case errors.Is(err, rerrors.ErrNotGitRepository):
		return ui.Error.Sprint("✗") + " Not inside a git repository"
	default:
		return ""
	}
}
