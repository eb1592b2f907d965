package cmd

import (
	"context"
	"os"

	"github.com/PolarWolf314/rimu/internal/utils"
	"github.com/PolarWolf314/rimu/internal/workflows"
	"github.com/spf13/cobra"
)

var textconvGetter string

func init() {
	textconvCmd.Flags().StringVarP(&textconvGetter, "getter", "g", "", "passphrase getter to run for encrypted identities")
	RootCmd.AddCommand(textconvCmd)
}

func resetTextconvCommandState() {
	textconvGetter = ""
}

var textconvCmd = &cobra.Command{
	Use:   "textconv [file]",
	Short: "Decrypt a blob for diff display (invoked by git)",
	Long: `Decrypts an age payload and writes the plaintext to stdout, so git
diff and git log show readable text instead of ciphertext.

Git invokes this through the diff driver registration that rimu init
writes, passing a temporary file holding the blob contents. Without a
file argument the payload is read from stdin. Unlike smudge this never
touches the cache or the working tree.

Not intended for interactive use.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Debugf("Starting textconv")

		if _, err := openRepo(); err != nil {
			return err
		}

		var content []byte
		var err error
		if len(args) == 1 {
			content, err = os.ReadFile(args[0])
			if err != nil {
				return Logger.ErrorfAndReturn("reading %s: %v", args[0], err)
			}
		} else {
			content, err = utils.ReadStdin()
			if err != nil {
				return Logger.ErrorfAndReturn("reading stdin: %v", err)
			}
		}

		result, err := workflows.Textconv(context.Background(), workflows.TextconvOptions{
			Content: content,
			Getter:  textconvGetter,
		})
		if err != nil {
			printFilterHint(err)
			return err
		}

		if result.Passthrough {
			Logger.Debugf("Content is not encrypted, passing through")
		}

		_, err = os.Stdout.Write(result.Plaintext)
		return err
	},
}
