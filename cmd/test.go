package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/arrconf/arr"
)

// dialer creates API clients for the test command
var dialer arr.Dialer = arr.Dial

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connections to configured instances",
	Long: `Connect to each selected instance, and report any quality profile named in the
instance document that does not exist on the service.`,
	RunE: runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)

	testCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	testCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
}

func runTest(cmd *cobra.Command, args []string) error {
	res, err := loadDocument()
	if err != nil {
		return err
	}

	instances, err := selectInstances(res)
	if err != nil {
		return err
	}

	checker := arr.NewChecker(logger,
		arr.WithConcurrency(cfg.Connection.Concurrency),
		arr.WithTimeout(cfg.Connection.Timeout),
		arr.WithDialer(dialer),
	)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Testing %d instances...\n", len(instances))

	var failed int
	for _, r := range checker.Check(cmd.Context(), instances) {
		switch {
		case r.OK():
			fmt.Fprintf(out, "✓ [%s] %s\n", r.Service, r.Name)
		case r.Err != nil:
			failed++
			fmt.Fprintf(out, "✗ [%s] %s: %v\n", r.Service, r.Name, r.Err)
		default:
			failed++
			fmt.Fprintf(out, "✗ [%s] %s: missing quality profiles: %s\n", r.Service, r.Name, strings.Join(r.MissingProfiles, ", "))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d instances failed the check", failed, len(instances))
	}
	return nil
}
