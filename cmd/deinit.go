package cmd

import (
	"context"
	"errors"
	"fmt"

	rerrors "github.com/PolarWolf314/rimu/internal/errors"
	"github.com/PolarWolf314/rimu/internal/ui"
	"github.com/PolarWolf314/rimu/internal/workflows"
	"github.com/spf13/cobra"
)

var deinitPurge bool

func init() {
	deinitCmd.Flags().BoolVar(&deinitPurge, "purge", false, "also remove the local config, cache, and audit log under .git/rimu")
	RootCmd.AddCommand(deinitCmd)
}

func resetDeinitCommandState() {
	deinitPurge = false
}

var deinitCmd = &cobra.Command{
	Use:   "deinit",
	Short: "Remove the rimu filter from this repository",
	Long: `Removes the filter and diff driver registrations from the git config
and drops the determinism cache.

The versioned rimu.toml is left alone, and encrypted files stay
encrypted in history; after deinit they check out as raw age payloads.
Without --purge the identities and getters in .git/rimu/config.toml
survive a later rimu init.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting deinit command")

		spinner, cleanup := startSpinner("Removing rimu...", verbose)
		defer cleanup()

		result, err := workflows.Deinit(context.Background(), workflows.DeinitOptions{
			Purge: deinitPurge,
		})
		if err != nil {
			if errors.Is(err, rerrors.ErrNotInitialized) {
				spinner.FinalMSG = ui.Error.Sprint("✗") + " Rimu is not installed in this repository"
				return nil
			}
			if errors.Is(err, rerrors.ErrNotGitRepository) {
				spinner.FinalMSG = ui.Error.Sprint("✗") + " Not inside a git repository"
				return err
			}
			spinner.FinalMSG = ui.Error.Sprint("✗") + " Failed to deinitialize: " + err.Error()
			return err
		}

		msg := ui.Success.Sprint("✓") + " Rimu removed from this repository\n"
		if result.CacheRecordsPurged > 0 {
			msg += ui.Info.Sprint("→") + fmt.Sprintf(" Dropped %d cache record(s)\n", result.CacheRecordsPurged)
		}
		if result.LocalStateRemoved {
			msg += ui.Info.Sprint("→") + " Removed .git/rimu entirely, including the local config and audit log\n"
		} else {
			msg += ui.Info.Sprint("→") + " Kept .git/rimu/config.toml; rerun with " + ui.Flag.Sprint("--purge") + " to remove it\n"
		}
		spinner.FinalMSG = msg
		return nil
	},
}
