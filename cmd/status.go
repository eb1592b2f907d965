package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/PolarWolf314/rimu/internal/crypt"
	rerrors "github.com/PolarWolf314/rimu/internal/errors"
	"github.com/PolarWolf314/rimu/internal/ui"
	"github.com/PolarWolf314/rimu/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	statusJSONOutput bool
	statusGetter     string
)

func init() {
	statusCmd.Flags().BoolVar(&statusJSONOutput, "json", false, "output in JSON format")
	statusCmd.Flags().StringVarP(&statusGetter, "getter", "g", "", "passphrase getter to run when validating encrypted identities")
	RootCmd.AddCommand(statusCmd)
}

func resetStatusCommandState() {
	statusJSONOutput = false
	statusGetter = ""
}

// statusReport is the JSON shape of the status command's output.
type statusReport struct {
	RepoRoot        string                 `json:"repo_root"`
	RepoUUID        string                 `json:"repo_uuid,omitempty"`
	FilterInstalled bool                   `json:"filter_installed"`
	PolicyPresent   bool                   `json:"policy_present"`
	PolicyIssue     string                 `json:"policy_issue,omitempty"`
	AliasCount      int                    `json:"alias_count"`
	RuleCount       int                    `json:"rule_count"`
	Identities      []statusReportIdentity `json:"identities"`
	GetterSelected  bool                   `json:"getter_selected"`
	GetterKey       string                 `json:"getter_key,omitempty"`
	GetterSource    string                 `json:"getter_source,omitempty"`
	GetterIssue     string                 `json:"getter_issue,omitempty"`
	CacheRecords    int                    `json:"cache_records"`
}

type statusReportIdentity struct {
	Path         string `json:"path"`
	ResolvedPath string `json:"resolved_path,omitempty"`
	State        string `json:"state"`
	Note         string `json:"note,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the health of the rimu installation",
	Long: `Reports filter registration, the policy document, identity validation
states, passphrase getter selection, and the cache size.

Status resolves the passphrase the same way a decryption would, so the
identity states reflect what an actual checkout would see. A failing
getter degrades the report instead of failing it: encrypted identities
simply show as untested.

Use --json for machine-readable output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting status command")

		spinner, cleanup := startSpinner("Checking rimu installation...", verbose)
		defer cleanup()

		result, err := workflows.Status(context.Background(), workflows.StatusOptions{
			Getter: statusGetter,
		})
		if err != nil {
			if errors.Is(err, rerrors.ErrNotGitRepository) {
				spinner.FinalMSG = ui.Error.Sprint("✗") + " Not inside a git repository"
				return err
			}
			spinner.FinalMSG = ui.Error.Sprint("✗") + " Failed to gather status: " + err.Error()
			return err
		}

		spinner.FinalMSG = ""
		if statusJSONOutput {
			return outputStatusJSON(result)
		}
		outputStatusText(result)
		return nil
	},
}

func outputStatusJSON(result *workflows.StatusResult) error {
	report := statusReport{
		RepoRoot:        result.RepoRoot,
		RepoUUID:        result.RepoUUID,
		FilterInstalled: result.FilterInstalled,
		PolicyPresent:   result.PolicyPresent,
		PolicyIssue:     result.PolicyIssue,
		AliasCount:      result.AliasCount,
		RuleCount:       result.RuleCount,
		Identities:      []statusReportIdentity{},
		GetterSelected:  result.GetterSelected,
		GetterKey:       result.GetterKey,
		GetterSource:    result.GetterSource,
		GetterIssue:     result.GetterIssue,
		CacheRecords:    result.CacheRecords,
	}
	for _, id := range result.Identities {
		report.Identities = append(report.Identities, statusReportIdentity{
			Path:         id.Path,
			ResolvedPath: id.ResolvedPath,
			State:        id.State.String(),
			Note:         id.Note,
		})
	}

	output, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status to JSON: %w", err)
	}
	fmt.Println(string(output))
	return nil
}

func outputStatusText(result *workflows.StatusResult) {
	fmt.Println(ui.Info.Sprint("Rimu status") + " for " + ui.Path.Sprint(result.RepoRoot))
	if result.RepoUUID != "" {
		fmt.Printf("  %-10s %s\n", "Repo ID:", ui.Muted.Sprint(result.RepoUUID))
	}
	fmt.Println()

	if result.FilterInstalled {
		fmt.Printf("  %-10s %s installed\n", "Filter:", ui.Success.Sprint("✓"))
	} else {
		fmt.Printf("  %-10s %s not installed, run %s\n", "Filter:", ui.Error.Sprint("✗"), ui.Code.Sprint("rimu init"))
	}

	switch {
	case !result.PolicyPresent:
		fmt.Printf("  %-10s %s rimu.toml missing\n", "Policy:", ui.Error.Sprint("✗"))
	case result.PolicyIssue != "":
		fmt.Printf("  %-10s %s %s\n", "Policy:", ui.Warning.Sprint("⚠"), result.PolicyIssue)
	default:
		fmt.Printf("  %-10s %s %d rule(s), %d alias(es)\n", "Policy:", ui.Success.Sprint("✓"), result.RuleCount, result.AliasCount)
	}

	fmt.Printf("  %-10s %d record(s)\n", "Cache:", result.CacheRecords)

	fmt.Println()
	fmt.Println(ui.Info.Sprint("Identities:"))
	if len(result.Identities) == 0 {
		fmt.Println("  none configured, run " + ui.Code.Sprint("rimu config add-identity <path>"))
	}
	for _, id := range result.Identities {
		marker := ui.Success.Sprint("✓")
		switch id.State {
		case crypt.PlaintextInvalid, crypt.EncryptedValidatedFail:
			marker = ui.Error.Sprint("✗")
		case crypt.EncryptedUntested:
			marker = ui.Warning.Sprint("⚠")
		}
		line := fmt.Sprintf("  %s %-40s %s", marker, id.Path, id.State)
		if id.Note != "" {
			line += " " + ui.Muted.Sprint(id.Note)
		}
		fmt.Println(line)
	}

	fmt.Println()
	fmt.Println(ui.Info.Sprint("Passphrase:"))
	switch {
	case result.GetterIssue != "":
		fmt.Println("  " + ui.Warning.Sprint("⚠") + " " + result.GetterIssue)
	case result.GetterSelected:
		fmt.Printf("  %s getter %s selected by %s\n", ui.Info.Sprint("→"), ui.Highlight.Sprint(result.GetterKey), result.GetterSource)
	default:
		fmt.Println("  no getter selected; encrypted identities need " + ui.Code.Sprint("RIMU_PASSPHRASE"))
	}
}
