package cmd

import (
	"context"
	"os"

	"github.com/PolarWolf314/rimu/internal/utils"
	"github.com/PolarWolf314/rimu/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	smudgeFile   string
	smudgeGetter string
)

func init() {
	smudgeCmd.Flags().StringVarP(&smudgeFile, "file", "f", "", "repository-relative path of the file being filtered")
	smudgeCmd.Flags().StringVarP(&smudgeGetter, "getter", "g", "", "passphrase getter to run for encrypted identities")
	_ = smudgeCmd.MarkFlagRequired("file")
	RootCmd.AddCommand(smudgeCmd)
}

func resetSmudgeCommandState() {
	smudgeFile = ""
	smudgeGetter = ""
}

var smudgeCmd = &cobra.Command{
	Use:   "smudge",
	Short: "Decrypt stdin for the working tree (invoked by git)",
	Long: `Decrypts an age payload from stdin and writes the plaintext to stdout.

Git invokes this through the filter registration that rimu init writes.
Content that is not an age payload passes through unchanged, so files
committed before rimu was configured still check out.

Not intended for interactive use.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Debugf("Starting smudge filter for %s", smudgeFile)

		if _, err := openRepo(); err != nil {
			return err
		}

		content, err := utils.ReadStdin()
		if err != nil {
			return Logger.ErrorfAndReturn("reading stdin: %v", err)
		}

		result, err := workflows.Smudge(context.Background(), workflows.SmudgeOptions{
			Path:    smudgeFile,
			Content: content,
			Getter:  smudgeGetter,
		})
		if err != nil {
			printFilterHint(err)
			return err
		}

		if result.Passthrough {
			Logger.Debugf("Content for %s is not encrypted, passing through", smudgeFile)
		} else {
			Logger.Debugf("Decrypted %s", smudgeFile)
		}

		_, err = os.Stdout.Write(result.Plaintext)
		return err
	},
}
