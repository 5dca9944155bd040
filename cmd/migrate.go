package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/s0up4200/arrconf/schema"
)

var outputFile string

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Print the instance document in the current schema",
	Long: `Parse the instance document and write it back in the current, named-instance
shape. Legacy list-based radarr/sonarr sections get generated names
(instance1, instance2, ...) in document order, Radarr first.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write to this file instead of stdout")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	res, err := loadDocument()
	if err != nil {
		return err
	}

	if res.Migrated() {
		logger.Info().Str("path", cfg.Instances.Path).Msg("Upgraded legacy instance document")
	} else {
		logger.Info().Str("path", cfg.Instances.Path).Msg("Instance document already uses the current schema")
	}

	out, err := schema.Marshal(res.Config)
	if err != nil {
		return err
	}

	if outputFile == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}

	if err := os.WriteFile(outputFile, out, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputFile, err)
	}
	logger.Info().Str("output", outputFile).Msg("Wrote instance document")

	return nil
}
