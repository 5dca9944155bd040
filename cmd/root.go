package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/arrconf/config"
	"github.com/s0up4200/arrconf/filter"
	"github.com/s0up4200/arrconf/schema"
)

var (
	cfgFile       string
	instancesFile string
	cfg           *config.Config
	logger        zerolog.Logger
	parser        *schema.Parser

	version   = "dev"
	buildTime = "unknown"

	// Command flags
	filterExpr string
	preset     string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "arrconf",
	Short: "Read, migrate and check Radarr/Sonarr instance documents",
	Long: `arrconf reads the YAML document describing the Radarr and Sonarr instances
to sync custom formats and quality settings to. Documents written in the
legacy list-based shape are upgraded to the current named-instance shape.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// SetVersion sets the build information reported by the version command
func SetVersion(v, built string) {
	version = v
	buildTime = built
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "settings file (default is ./arrconf.yaml)")
	rootCmd.PersistentFlags().StringVarP(&instancesFile, "instances", "i", "", "instance document (overrides instances.path)")

	rootCmd.AddCommand(versionCmd)
}

// initializeApp loads settings and sets up logging and the parser
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("instances") {
		cfg.Instances.Path = instancesFile
	}

	logger = setupLogger(cfg.Logging)
	parser = schema.NewParser(schema.WithLogger(logger))

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// loadDocument reads and parses the configured instance document
func loadDocument() (*schema.Result, error) {
	path := cfg.Instances.Path

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read instance document: %w", err)
	}

	res, err := parser.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logger.Debug().
		Str("path", path).
		Str("schema", string(res.Version)).
		Int("radarr_instances", len(res.Config.Radarr)).
		Int("sonarr_instances", len(res.Config.Sonarr)).
		Msg("Loaded instance document")

	return res, nil
}

// selectInstances applies the requested filter to the document's instances
func selectInstances(res *schema.Result) ([]schema.Instance, error) {
	doc := schema.FromV2(res.Config)
	instances := doc.Instances()

	expr, err := getFilterExpression()
	if err != nil {
		return nil, err
	}
	if expr == "" {
		return instances, nil
	}

	f, err := filter.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}

	logger.Debug().Str("filter", expr).Msg("Filtering instances")

	return filter.Select(f, instances)
}

// getFilterExpression determines the filter expression to use.
// Priority: command line filter > preset > default > none
func getFilterExpression() (string, error) {
	if filterExpr != "" {
		return filterExpr, nil
	}

	if preset != "" {
		// viper lowercases map keys
		if expr, ok := cfg.Filter.Presets[strings.ToLower(preset)]; ok {
			return expr, nil
		}
		return "", fmt.Errorf("preset '%s' not found in config", preset)
	}

	return cfg.Filter.DefaultExpression, nil
}

// versionCmd prints build information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "arrconf %s (built %s)\n", version, buildTime)
	},
}
