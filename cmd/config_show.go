package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/PolarWolf314/rimu/internal/ui"
	"github.com/PolarWolf314/rimu/internal/workflows"
	"github.com/spf13/cobra"
)

var configShowJSON bool

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")
	configCmd.AddCommand(configShowCmd)
}

// resetConfigShowState resets the config show command's global state for testing.
func resetConfigShowState() {
	configShowJSON = false
}

// configReport is the JSON shape of the config show command's output.
type configReport struct {
	RepoUUID        string            `json:"repo_uuid"`
	Identities      []string          `json:"identities"`
	Getters         map[string]string `json:"getters"`
	PolicyPath      string            `json:"policy_path"`
	LocalConfigPath string            `json:"local_config_path"`
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the checkout-local configuration",
	Long: `Displays the identities and passphrase getters configured for this
checkout, exactly as stored. Unlike rimu status this performs no
validation; it shows what is configured, not whether it works.

Use --json for machine-readable output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config show command")

		result, err := workflows.ShowConfig(context.Background())
		if err != nil {
			if msg := formatConfigError(err); msg != "" {
				fmt.Println(msg)
				return nil
			}
			return Logger.ErrorfAndReturn("loading configuration: %v", err)
		}

		if configShowJSON {
			return outputConfigJSON(result)
		}
		outputConfigText(result)
		return nil
	},
}

func outputConfigJSON(result *workflows.ShowConfigResult) error {
	report := configReport{
		RepoUUID:        result.RepoUUID,
		Identities:      result.Identities,
		Getters:         result.Getters,
		PolicyPath:      result.PolicyPath,
		LocalConfigPath: result.LocalConfigPath,
	}
	if report.Identities == nil {
		report.Identities = []string{}
	}
	if report.Getters == nil {
		report.Getters = map[string]string{}
	}

	output, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config to JSON: %w", err)
	}
	fmt.Println(string(output))
	return nil
}

func outputConfigText(result *workflows.ShowConfigResult) {
	fmt.Println(ui.Info.Sprint("Local configuration") + " (" + ui.Path.Sprint(result.LocalConfigPath) + "):")
	fmt.Println()
	fmt.Printf("  %-12s %s\n", "Repo ID:", ui.Muted.Sprint(result.RepoUUID))
	fmt.Printf("  %-12s %s\n", "Policy:", ui.Path.Sprint(result.PolicyPath))

	fmt.Println()
	fmt.Println(ui.Info.Sprint("Identities:"))
	if len(result.Identities) == 0 {
		fmt.Println("  none configured")
	}
	for _, path := range result.Identities {
		fmt.Println("  - " + ui.Path.Sprint(path))
	}

	fmt.Println()
	fmt.Println(ui.Info.Sprint("Passphrase getters:"))
	if len(result.Getters) == 0 {
		fmt.Println("  none configured")
	}

	// Sort getter names for consistent output.
	var names []string
	for name := range result.Getters {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Printf("  %s = %s\n", ui.Highlight.Sprint(name), result.Getters[name])
	}
}
