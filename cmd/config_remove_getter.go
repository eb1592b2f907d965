package cmd

import (
	"context"

	"github.com/PolarWolf314/rimu/internal/ui"
	"github.com/PolarWolf314/rimu/internal/workflows"
	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configRemoveGetterCmd)
}

var configRemoveGetterCmd = &cobra.Command{
	Use:   "remove-getter <name>",
	Short: "Delete a passphrase getter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config remove-getter command")

		spinner, cleanup := startSpinner("Removing getter...", verbose)
		defer cleanup()

		result, err := workflows.RemoveGetter(context.Background(), workflows.RemoveGetterOptions{
			Name: args[0],
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
			spinner.FinalMSG = ui.Error.Sprint("✗") + " No getter named " + ui.Highlight.Sprint(args[0]) + " is configured"
			return nil
		}

		spinner.FinalMSG = ui.Success.Sprint("✓") + " Removed getter " + ui.Highlight.Sprint(args[0])
		return nil
	},
}
