package cmd

import (
	"context"

	"github.com/PolarWolf314/rimu/internal/ui"
	"github.com/PolarWolf314/rimu/internal/workflows"
	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configRemoveIdentityCmd)
}

var configRemoveIdentityCmd = &cobra.Command{
	Use:   "remove-identity <path>",
	Short: "Unregister an identity file",
	Long: `Removes an identity file from the checkout-local configuration.

The path must match the configured entry exactly as it was added; run
rimu config show to see the configured paths. The identity file itself
is never touched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config remove-identity command")

		spinner, cleanup := startSpinner("Removing identity...", verbose)
		defer cleanup()

		result, err := workflows.RemoveIdentity(context.Background(), workflows.RemoveIdentityOptions{
			Path: args[0],
		})
		if err != nil {
			if msg := formatConfigError(err); msg != "" {
				spinner.FinalMSG = msg
				return nil
			}
			spinner.FinalMSG = ui.Error.Sprint("✗") + " " + err.Error()
			return err
		}

		if !result.Removed {
			spinner.FinalMSG = ui.Error.Sprint("✗") + " " + ui.Path.Sprint(args[0]) + " is not configured\n" +
				ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("rimu config show") + " to see the configured paths"
			return nil
		}

		spinner.FinalMSG = ui.Success.Sprint("✓") + " Removed " + ui.Path.Sprint(args[0])
		return nil
	},
}
