package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"revenue-reconciliation-service/cmd/reconciler/config"
	"revenue-reconciliation-service/internal/matcher"
	"revenue-reconciliation-service/internal/models"
	"revenue-reconciliation-service/internal/reconciler"
	"revenue-reconciliation-service/internal/store"
	"revenue-reconciliation-service/internal/timeutil"
)

// exceptionsCmd represents the exceptions command
var exceptionsCmd = &cobra.Command{
	Use:   "exceptions",
	Short: "Close out records that stayed unresolved past the aging window",
	Long: `Exceptions sweeps payments and deposits that are still PENDING or
IN_PROGRESS after the aging window and moves them to the terminal EXCEPTION
state so they surface for manual review.

The cutoff defaults to the run date minus --exception-after-days business
days; pass --cutoff-date to pin it explicitly. With
--reconciled-offset-days set, each swept record's reconciled_on is derived
from its own record date plus that many business days, which keeps replayed
sweeps deterministic.

Examples:
  reconciler exceptions --db revenue.db --program hunting-licences \
    --location-id 12 --pt-location-id 31 --merchant-ids 4410,4411

  reconciler exceptions --db revenue.db --program hunting-licences \
    --location-id 12 --cutoff-date 2026-08-15 --reconciled-offset-days 2`,

	PreRunE: validateExceptionsFlags,
	RunE:    runExceptions,
}

var exceptionsCfg *config.Config

func init() {
	rootCmd.AddCommand(exceptionsCmd)

	exceptionsCmd.Flags().String("run-date", "", "date stamped on status changes (default: today)")
	exceptionsCmd.Flags().String("cutoff-date", "", "records dated before this become exceptions (YYYY-MM-DD)")
	exceptionsCmd.Flags().Int("exception-after-days", 14, "business days a record may stay unresolved")
	exceptionsCmd.Flags().Int("reconciled-offset-days", 0, "derive reconciled_on from the record date plus this many business days")
	exceptionsCmd.Flags().StringP("output-format", "f", "console", "output format: console, json")
}

func validateExceptionsFlags(cmd *cobra.Command, args []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	cfg, err := config.LoadFromViper()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	exceptionsCfg = cfg
	return nil
}

func runExceptions(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cfg := exceptionsCfg

	log, err := newCommandLogger()
	if err != nil {
		return err
	}

	cutoff, err := exceptionCutoff(cfg)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer st.Close()

	var clock matcher.ReconciledClock
	if cfg.ReconciledOffsetDays > 0 {
		clock = matcher.OffsetClock{BusinessDays: cfg.ReconciledOffsetDays}
	}

	orch := reconciler.NewOrchestrator(st, st, st, &cfg.Matching, clock, log)

	summary, err := orch.SetExceptions(context.Background(), cfg.Program, cfg.Location, cutoff, cfg.RunDate)
	if err != nil {
		return err
	}

	if viper.GetString("output-format") == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	fmt.Printf("Exception sweep: program=%s location=%d cutoff=%s\n",
		cfg.Program, cfg.Location.LocationID, cutoff.Format(models.DateFormat))
	if summary.Skipped {
		fmt.Println("  skipped (nothing unresolved past the cutoff)")
	} else {
		fmt.Printf("  payments:  %d\n", summary.PaymentExceptions)
		fmt.Printf("  deposits:  %d\n", summary.DepositExceptions)
	}
	return nil
}

func exceptionCutoff(cfg *config.Config) (time.Time, error) {
	if raw := viper.GetString("cutoff-date"); raw != "" {
		return time.Parse(models.DateFormat, raw)
	}
	return timeutil.SubBusinessDays(cfg.RunDate, cfg.ExceptionAfterDays), nil
}
