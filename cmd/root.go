package cmd

import (
	"os"

	logger "github.com/PolarWolf314/rimu/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	// RootCmd is the rimu command. The filter subcommands (clean, smudge,
	// textconv) are what git invokes; the rest manage the installation.
	RootCmd = &cobra.Command{
		Use:   "rimu",
		Short: "Rimu - transparent age encryption for files tracked in git",
		Long: `Rimu keeps selected files encrypted in git history while the working
tree always shows plaintext. It installs itself as a git clean/smudge
filter: content is encrypted with age on its way into the index and
decrypted on its way back out, so collaborators never handle ciphertext
by hand.

Getting started:
  rimu init                        Install the filter in this repository
  rimu config add-identity <path>  Register an age or SSH identity file
  rimu status                      Check the installation health

Which paths get encrypted is controlled by rimu.toml at the repository
root together with a .gitattributes line such as:

  secrets/** filter=rimu diff=rimu

The clean, smudge, and textconv subcommands exist for git to call and
are rarely useful interactively.`,
		// Filter invocations must report failures as errors, not as a
		// usage dump on stderr.
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing rimu command with verbose=%t, debug=%t", verbose, debug)
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
}

// Execute runs the root command. Cobra already prints the failing error,
// so this only converts it into a non-zero exit status.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Helper functions for testing

// GetRootCmd returns the RootCmd for testing.
func GetRootCmd() *cobra.Command {
	return RootCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	resetCleanCommandState()
	resetSmudgeCommandState()
	resetTextconvCommandState()
	resetInitCommandState()
	resetDeinitCommandState()
	resetStatusCommandState()
	resetLogCommandState()
	resetConfigShowState()
	resetCobraFlagState()
}

// resetCobraFlagState clears the Changed marker on every flag so one test's
// flag values do not leak into the next.
func resetCobraFlagState() {
	resetFlags := func(cmd *cobra.Command) {
		cmd.Flags().VisitAll(func(flag *pflag.Flag) {
			flag.Changed = false
		})
	}
	resetFlags(RootCmd)
	for _, sub := range RootCmd.Commands() {
		resetFlags(sub)
		for _, subsub := range sub.Commands() {
			resetFlags(subsub)
		}
	}
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
