package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	rerrors "github.com/PolarWolf314/rimu/internal/errors"
	"github.com/PolarWolf314/rimu/internal/ui"
	"github.com/PolarWolf314/rimu/internal/workflows"
	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var (
	initForce      bool
	initExecutable string
)

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "reinstall the filter even if one is already registered")
	initCmd.Flags().StringVar(&initExecutable, "executable", "", "binary path to register as the filter command (defaults to the running binary)")
	RootCmd.AddCommand(initCmd)
}

func resetInitCommandState() {
	initForce = false
	initExecutable = ""
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Install the rimu filter in this repository",
	Long: `Registers the clean/smudge filter and the textconv diff driver in the
repository-local git config, creates the unversioned state directory
under .git/rimu, and writes a starter rimu.toml unless one exists.

Init never edits .gitattributes: which paths get encrypted is a
decision that belongs in your tree. Add a line such as

  secrets/** filter=rimu diff=rimu

to route paths through the filter.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting init command")

		spinner, cleanup := startSpinner("Initializing rimu...", verbose)
		defer cleanup()

		executable := initExecutable
		if executable == "" {
			exe, err := os.Executable()
			if err != nil {
				return Logger.ErrorfAndReturn("locating the rimu binary: %v", err)
			}
			executable = exe
		}
		Logger.Debugf("Registering filter executable: %s", executable)

		result, err := workflows.Init(context.Background(), workflows.InitOptions{
			Executable: executable,
			Force:      initForce,
		})
		if err != nil {
			if errors.Is(err, rerrors.ErrAlreadyInitialized) {
				spinner.FinalMSG = ui.Error.Sprint("✗") + " Rimu has already been initialized in this repository\n" +
					ui.Info.Sprint("→") + " Rerun with " + ui.Flag.Sprint("--force") + " to reinstall the filter"
				return nil
			}
			if errors.Is(err, rerrors.ErrNotGitRepository) {
				spinner.FinalMSG = ui.Error.Sprint("✗") + " Not inside a git repository"
				return err
			}
			spinner.FinalMSG = ui.Error.Sprint("✗") + " Failed to initialize: " + err.Error()
			return err
		}

		// Stop the spinner before printing the banner so the lines don't
		// interleave. The deferred cleanup tolerates a stopped spinner.
		spinner.Stop()

		fmt.Println()
		figure.NewColorFigure("Rimu", "alligator2", "green", true).Print()
		fmt.Println()

		fmt.Printf("%s Rimu initialized in %s\n", ui.Success.Sprint("✓"), ui.Path.Sprint(result.RepoRoot))
		if result.PolicyCreated {
			fmt.Printf("%s Created %s with a commented example policy\n", ui.Info.Sprint("→"), ui.Path.Sprint(result.PolicyPath))
		}
		fmt.Printf("%s Add %s to .gitattributes to choose what gets encrypted\n", ui.Info.Sprint("→"), ui.Code.Sprint(result.AttributesHint))
		fmt.Printf("%s Run %s so this checkout can decrypt\n", ui.Info.Sprint("→"), ui.Code.Sprint("rimu config add-identity <path>"))
		return nil
	},
}
