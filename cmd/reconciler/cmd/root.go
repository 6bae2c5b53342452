package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"revenue-reconciliation-service/pkg/logger"
)

var (
	cfgFile string
	verbose bool
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reconciler",
	Short: "Payment-to-deposit reconciliation tool",
	Long: `Reconciler matches recorded payments against bank-reported deposits
for a revenue collection program. Cash payments are aggregated per day and
matched against cash deposits by exact amount; card payments are matched
against POS deposit records through a series of widening heuristic rounds.

Examples:
  reconciler reconcile --db revenue.db --program hunting-licences \
    --location-id 12 --pt-location-id 31 --merchant-ids 4410,4411 \
    --start-date 2026-08-01 --end-date 2026-08-28
  reconciler exceptions --db revenue.db --program hunting-licences \
    --location-id 12 --pt-location-id 31 --merchant-ids 4410,4411
  reconciler version`,
	Version: getVersionString(),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("db", "", "path to the SQLite database (required)")
	rootCmd.PersistentFlags().String("program", "", "revenue program to reconcile (required)")
	rootCmd.PersistentFlags().Int("location-id", 0, "collection location id (required)")
	rootCmd.PersistentFlags().Int("pt-location-id", 0, "provincial treasury location id for cash deposits")
	rootCmd.PersistentFlags().IntSlice("merchant-ids", nil, "POS merchant ids belonging to the location")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text, json")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("program", rootCmd.PersistentFlags().Lookup("program"))
	viper.BindPFlag("location-id", rootCmd.PersistentFlags().Lookup("location-id"))
	viper.BindPFlag("pt-location-id", rootCmd.PersistentFlags().Lookup("pt-location-id"))
	viper.BindPFlag("merchant-ids", rootCmd.PersistentFlags().Lookup("merchant-ids"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log-format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig reads in config file and ENV variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)

		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
			os.Exit(1)
		}

		if viper.GetBool("verbose") {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	}

	viper.SetEnvPrefix("RECONCILER")
	viper.AutomaticEnv()
}

// newCommandLogger builds the logger the subcommands run with
func newCommandLogger() (logger.Logger, error) {
	cfg := logger.DefaultConfig()
	cfg.Level = logger.Level(viper.GetString("log-level"))
	cfg.Format = logger.Format(viper.GetString("log-format"))
	if viper.GetBool("verbose") {
		cfg.Level = logger.DebugLevel
	}
	return logger.NewLogger(cfg)
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = getVersionString()
}

func getVersionString() string {
	if version == "dev" {
		return fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
	}
	return version
}
