package cmd

import (
	"context"

	"github.com/PolarWolf314/rimu/internal/crypt"
	"github.com/PolarWolf314/rimu/internal/ui"
	"github.com/PolarWolf314/rimu/internal/workflows"
	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configAddIdentityCmd)
}

var configAddIdentityCmd = &cobra.Command{
	Use:   "add-identity <path>",
	Short: "Register an identity file for decryption",
	Long: `Adds an identity file to the checkout-local configuration.

The file may be a plaintext age identity, a passphrase-encrypted age
identity, or an SSH private key. The path is stored exactly as given;
~ and relative paths are expanded each time it is used, so the config
stays portable across home directories.

The file must exist, but an encrypted identity cannot be validated
without a passphrase and is accepted untested.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config add-identity command")

		spinner, cleanup := startSpinner("Registering identity...", verbose)
		defer cleanup()

		result, err := workflows.AddIdentity(context.Background(), workflows.AddIdentityOptions{
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

		if !result.Added {
			spinner.FinalMSG = ui.Warning.Sprint("⚠") + " " + ui.Path.Sprint(args[0]) + " is already configured"
			return nil
		}

		msg := ui.Success.Sprint("✓") + " Registered " + ui.Path.Sprint(args[0]) + "\n"
		switch result.State {
		case crypt.EncryptedUntested:
			msg += ui.Info.Sprint("→") + " The identity is passphrase-protected; set " + ui.Code.Sprint("RIMU_PASSPHRASE") +
				" or configure a getter with " + ui.Code.Sprint("rimu config add-getter") + "\n"
		case crypt.PlaintextInvalid:
			msg += ui.Warning.Sprint("⚠") + " The file does not look like a usable identity"
			if result.Note != "" {
				msg += ": " + result.Note
			}
			msg += "\n"
		}
		spinner.FinalMSG = msg
		return nil
	},
}
