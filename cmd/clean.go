package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	rerrors "github.com/PolarWolf314/rimu/internal/errors"
	"github.com/PolarWolf314/rimu/internal/ui"
	"github.com/PolarWolf314/rimu/internal/utils"
	"github.com/PolarWolf314/rimu/internal/workflows"
	"github.com/spf13/cobra"
)

var cleanFile string

func init() {
	cleanCmd.Flags().StringVarP(&cleanFile, "file", "f", "", "repository-relative path of the file being filtered")
	_ = cleanCmd.MarkFlagRequired("file")
	RootCmd.AddCommand(cleanCmd)
}

func resetCleanCommandState() {
	cleanFile = ""
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Encrypt stdin for the git index (invoked by git)",
	Long: `Encrypts plaintext from stdin and writes the age ciphertext to stdout.

Git invokes this through the filter registration that rimu init writes.
Content is encrypted for the recipients rimu.toml configures for the
path; when the plaintext is unchanged since the last clean, the
ciphertext already staged in the index is reused so git does not see
spurious modifications on every add.

Not intended for interactive use.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Debugf("Starting clean filter for %s", cleanFile)

		repo, err := openRepo()
		if err != nil {
			return err
		}

		content, err := utils.ReadStdin()
		if err != nil {
			return Logger.ErrorfAndReturn("reading stdin: %v", err)
		}

		result, err := workflows.Clean(context.Background(), workflows.CleanOptions{
			Path:    cleanFile,
			Content: content,
			Staged:  repo,
		})
		if err != nil {
			printFilterHint(err)
			return err
		}

		if result.FromCache {
			Logger.Debugf("Reused staged ciphertext for %s", cleanFile)
		} else {
			Logger.Debugf("Encrypted %s for %d recipient(s)", cleanFile, len(result.Recipients))
		}

		_, err = os.Stdout.Write(result.Ciphertext)
		return err
	},
}

// printFilterHint writes an actionable hint to stderr for the well-known
// filter failures. The error itself still propagates so git sees a
// non-zero exit; stdout stays untouched either way.
func printFilterHint(err error) {
	switch {
	case errors.Is(err, rerrors.ErrPolicyNotFound):
		fmt.Fprintln(os.Stderr, ui.Error.Sprint("✗")+" No rimu.toml found at the repository root")
		fmt.Fprintln(os.Stderr, ui.Info.Sprint("→")+" Run "+ui.Code.Sprint("rimu init")+" to create one")

	case errors.Is(err, rerrors.ErrPathNotConfigured):
		fmt.Fprintln(os.Stderr, ui.Error.Sprint("✗")+" "+err.Error())
		fmt.Fprintln(os.Stderr, ui.Info.Sprint("→")+" Add a matching rule to the [config] section of "+ui.Path.Sprint("rimu.toml"))

	case errors.Is(err, rerrors.ErrNoPassphrase):
		fmt.Fprintln(os.Stderr, ui.Error.Sprint("✗")+" "+err.Error())
		fmt.Fprintln(os.Stderr, ui.Info.Sprint("→")+" Set "+ui.Code.Sprint("RIMU_PASSPHRASE")+" or configure a getter with "+ui.Code.Sprint("rimu config add-getter"))

	case errors.Is(err, rerrors.ErrNoMatchingIdentity):
		fmt.Fprintln(os.Stderr, ui.Error.Sprint("✗")+" "+err.Error())
		fmt.Fprintln(os.Stderr, ui.Info.Sprint("→")+" Register an identity with "+ui.Code.Sprint("rimu config add-identity"))
	}
}
