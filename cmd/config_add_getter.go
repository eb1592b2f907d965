package cmd

import (
	"context"
	"errors"

	rerrors "github.com/PolarWolf314/rimu/internal/errors"
	"github.com/PolarWolf314/rimu/internal/ui"
	"github.com/PolarWolf314/rimu/internal/workflows"
	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configAddGetterCmd)
}

var configAddGetterCmd = &cobra.Command{
	Use:   "add-getter <name> <command>",
	Short: "Store a passphrase getter command",
	Long: `Stores a shell command that prints the identity passphrase on stdout.

The command runs through sh -c, so pipes and quoting work:

  rimu config add-getter op "op read 'op://vault/rimu/password'"

A getter named "sops" runs automatically whenever a passphrase is
needed. Other names are selected per invocation with --getter, or
globally with the RIMU_PASSPHRASE_GETTER environment variable. Setting
that variable to an empty string suppresses the automatic default.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config add-getter command")

		spinner, cleanup := startSpinner("Storing getter...", verbose)
		defer cleanup()

		name, command := args[0], args[1]
		result, err := workflows.AddGetter(context.Background(), workflows.AddGetterOptions{
			Name:    name,
			Command: command,
		})
		if err != nil {
			if msg := formatConfigError(err); msg != "" {
				spinner.FinalMSG = msg
				return nil
			}
			if errors.Is(err, rerrors.ErrInvalidGetterName) {
				spinner.FinalMSG = ui.Error.Sprint("✗") + " " + err.Error() + "\n" +
					ui.Info.Sprint("→") + " Getter names use letters, digits, dots, dashes, and underscores"
				return nil
			}
			spinner.FinalMSG = ui.Error.Sprint("✗") + " " + err.Error()
			return err
		}

		msg := ui.Success.Sprint("✓") + " Stored getter " + ui.Highlight.Sprint(name) + "\n"
		if result.Replaced {
			msg += ui.Info.Sprint("→") + " Replaced the previous command for this name\n"
		}
		if name != "sops" {
			msg += ui.Info.Sprint("→") + " Select it with " + ui.Code.Sprint("--getter "+name) +
				" or " + ui.Code.Sprint("RIMU_PASSPHRASE_GETTER="+name) + "\n"
		}
		spinner.FinalMSG = msg
		return nil
	},
}
