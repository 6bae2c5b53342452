package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"revenue-reconciliation-service/cmd/reconciler/config"
	"revenue-reconciliation-service/internal/matcher"
	"revenue-reconciliation-service/internal/models"
	"revenue-reconciliation-service/internal/reconciler"
	"revenue-reconciliation-service/internal/store"
)

// reconcileCmd represents the reconcile command
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Match pending payments against bank deposits",
	Long: `Reconcile runs both matching engines over one location and date range.

Cash payments are grouped per day, summed, and matched against cash deposit
slips by exact amount. Card payments are matched against POS deposit records
in four rounds: close timestamps first, then same day, then adjacent business
days, and finally aggregated per-day totals. Records that find a counterpart
become MATCH; everything still open is marked IN_PROGRESS for the next run.

Examples:
  # Reconcile one location for a month
  reconciler reconcile --db revenue.db --program hunting-licences \
    --location-id 12 --pt-location-id 31 --merchant-ids 4410,4411 \
    --start-date 2026-08-01 --end-date 2026-08-28

  # Replay a past run date with a wider time tolerance
  reconciler reconcile --db revenue.db --program hunting-licences \
    --location-id 12 --start-date 2026-08-01 --end-date 2026-08-28 \
    --run-date 2026-08-29 --time-tolerance 10 --output-format json`,

	PreRunE: validateReconcileFlags,
	RunE:    runReconcile,
}

var reconcileCfg *config.Config

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().String("start-date", "", "first transaction date to load (YYYY-MM-DD, required)")
	reconcileCmd.Flags().String("end-date", "", "last transaction date to load (YYYY-MM-DD, required)")
	reconcileCmd.Flags().String("run-date", "", "date stamped on status changes (default: today)")
	reconcileCmd.Flags().Int("time-tolerance", matcher.DefaultConfig().TimeToleranceMinutes, "round-one timestamp tolerance in minutes")
	reconcileCmd.Flags().Int("business-day-window", matcher.DefaultConfig().BusinessDayWindow, "round-three business-day window")
	reconcileCmd.Flags().StringP("output-format", "f", "console", "output format: console, json")
}

func validateReconcileFlags(cmd *cobra.Command, args []string) error {
	// Subcommands share flag names (run-date, output-format), so binding
	// happens here rather than in init to point viper at this command's
	// flag set.
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
	if err := cfg.ValidateDateRange(); err != nil {
		return err
	}
	reconcileCfg = cfg
	return nil
}

func runReconcile(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cfg := reconcileCfg

	log, err := newCommandLogger()
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer st.Close()

	orch := reconciler.NewOrchestrator(st, st, st, &cfg.Matching, nil, log)

	summary, err := orch.Run(context.Background(), cfg.Program, cfg.Location, cfg.DateRange, cfg.RunDate)
	if err != nil {
		return err
	}

	return printRunSummary(summary, viper.GetString("output-format"))
}

func printRunSummary(summary *reconciler.RunSummary, format string) error {
	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	fmt.Printf("Reconciliation run: program=%s location=%d range=%s..%s\n",
		summary.Program, summary.Location.LocationID,
		summary.DateRange.MinDate.Format(models.DateFormat),
		summary.DateRange.MaxDate.Format(models.DateFormat))

	if cash := summary.Cash; cash != nil {
		fmt.Println("\nCash:")
		if cash.Skipped {
			fmt.Println("  skipped (no pending payments or deposits)")
		} else {
			fmt.Printf("  pending:     %d payment groups, %d deposits\n", cash.PendingPayments, cash.PendingDeposits)
			fmt.Printf("  matched:     %d payments, %d deposits\n", cash.PaymentsMatched, cash.DepositsMatched)
			fmt.Printf("  in progress: %d payments, %d deposits\n", cash.PaymentsInProgress, cash.DepositsInProgress)
		}
	}

	if pos := summary.Pos; pos != nil {
		fmt.Println("\nPOS:")
		if pos.Skipped {
			fmt.Println("  skipped (no pending payments or deposits)")
		} else {
			fmt.Printf("  pending:     %d payments, %d deposits\n", pos.TotalPaymentsPending, pos.TotalDepositsPending)
			fmt.Printf("  matched:     %d payments, %d deposits\n", pos.TotalPaymentsMatched, pos.TotalDepositsMatched)
			for round := models.RoundOne; round <= models.RoundFour; round++ {
				if count := pos.MatchesByRound[round]; count > 0 {
					fmt.Printf("    round %-5s %d\n", round.String()+":", count)
				}
			}
			fmt.Printf("  in progress: %d payments, %d deposits\n", pos.TotalPaymentsInProgress, pos.TotalDepositsInProgress)
		}
	}

	return nil
}
