package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured instances",
	Long:  `List the Radarr and Sonarr instances in the instance document, optionally filtered.`,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	listCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
}

func runList(cmd *cobra.Command, args []string) error {
	res, err := loadDocument()
	if err != nil {
		return err
	}

	instances, err := selectInstances(res)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(instances) == 0 {
		fmt.Fprintln(out, "No instances found matching the filter criteria.")
		return nil
	}

	fmt.Fprintf(out, "Found %d instances:\n", len(instances))
	fmt.Fprintln(out, strings.Repeat("-", 80))

	for _, inst := range instances {
		fmt.Fprintf(out, "• [%s] %s  %s\n", inst.Service, inst.Name, inst.BaseURL)
		fmt.Fprintf(out, "  Custom formats: %d, quality profiles: %d\n", len(inst.CustomFormats), len(inst.QualityProfiles))
		if inst.QualityDefinition != nil {
			fmt.Fprintf(out, "  Quality definition: %s\n", inst.QualityDefinition.Type)
		}
	}

	if res.Migrated() {
		fmt.Fprintln(out, "\nNote: instance names were generated from a legacy document. Run 'arrconf migrate' to update it.")
	}

	return nil
}
