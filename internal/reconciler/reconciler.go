// Package reconciler wires the matching engines to the payment and deposit
// stores and runs one reconciliation batch per (program, location, date
// range) scope.
//
// Two invocations covering overlapping (location, date) scopes must not run
// concurrently; the engine holds no locks, so serialized scheduling is the
// caller's invariant to uphold.
package reconciler

import (
	"context"
	"time"

	"revenue-reconciliation-service/internal/matcher"
	"revenue-reconciliation-service/internal/models"
	"revenue-reconciliation-service/pkg/logger"
)

// PendingStatuses is the candidate pool filter used by every load
var PendingStatuses = []models.MatchStatus{models.StatusPending, models.StatusInProgress}

// PaymentStore is the engine's contract with payment persistence. Reads are
// a snapshot for the duration of one invocation; UpdatePayments must be a
// single bulk write and must enforce uniqueness by id.
type PaymentStore interface {
	FindPosPayments(ctx context.Context, program string, dateRange models.DateRange, locationID int, statuses []models.MatchStatus) ([]*models.Payment, error)
	FindAggregatedCashPayments(ctx context.Context, program string, dateRange models.DateRange, locationID int, statuses []models.MatchStatus) ([]*models.AggregatedCashPayment, error)
	UpdatePayments(ctx context.Context, payments []*models.Payment) ([]*models.Payment, error)
	FindPaymentExceptions(ctx context.Context, cutoff time.Time, locationID int) ([]*models.Payment, error)
}

// CashDepositStore is the engine's contract with cash deposit persistence
type CashDepositStore interface {
	FindPendingCashDeposits(ctx context.Context, program string, dateRange models.DateRange, ptLocationID int, statuses []models.MatchStatus) ([]*models.CashDeposit, error)
	UpdateCashDeposits(ctx context.Context, deposits []*models.CashDeposit) ([]*models.CashDeposit, error)
	FindCashDepositExceptions(ctx context.Context, cutoff time.Time, ptLocationID int, program string) ([]*models.CashDeposit, error)
}

// PosDepositStore is the engine's contract with POS deposit persistence
type PosDepositStore interface {
	FindPendingPosDeposits(ctx context.Context, program string, dateRange models.DateRange, merchantIDs []int, statuses []models.MatchStatus) ([]*models.PosDeposit, error)
	UpdatePosDeposits(ctx context.Context, deposits []*models.PosDeposit) ([]*models.PosDeposit, error)
	FindPosDepositExceptions(ctx context.Context, cutoff time.Time, merchantIDs []int, program string) ([]*models.PosDeposit, error)
}

// RunSummary is the combined observability output of one batch invocation
type RunSummary struct {
	Program   string               `json:"program"`
	Location  models.Location      `json:"location"`
	DateRange models.DateRange     `json:"date_range"`
	Cash      *matcher.CashSummary `json:"cash,omitempty"`
	Pos       *matcher.PosSummary  `json:"pos,omitempty"`
}

// Orchestrator runs the cash and POS engines over one scope and persists
// their disjoint status updates
type Orchestrator struct {
	payments PaymentStore
	cash     CashDepositStore
	pos      PosDepositStore

	cashEngine *matcher.CashReconciler
	posEngine  *matcher.PosReconciler
	sweep      *matcher.ExceptionSweep

	log logger.Logger
}

// NewOrchestrator assembles an orchestrator. A nil config takes the
// production matching tolerances; a nil clock takes the production clock.
func NewOrchestrator(payments PaymentStore, cash CashDepositStore, pos PosDepositStore, cfg *matcher.Config, clock matcher.ReconciledClock, log logger.Logger) *Orchestrator {
	if clock == nil {
		clock = matcher.ProductionClock{}
	}
	return &Orchestrator{
		payments:   payments,
		cash:       cash,
		pos:        pos,
		cashEngine: matcher.NewCashReconciler(log),
		posEngine:  matcher.NewPosReconciler(cfg, log),
		sweep:      matcher.NewExceptionSweep(clock, log),
		log:        log.WithComponent("reconciler"),
	}
}

// Run executes one batch invocation for a (program, location, date range)
// scope: cash first, then POS, each with a single bulk write per entity
// type. A store failure aborts the run; matching is deterministic over the
// same snapshot, so the whole invocation is safe to retry.
func (o *Orchestrator) Run(ctx context.Context, program string, location models.Location, dateRange models.DateRange, runDate time.Time) (*RunSummary, error) {
	if err := dateRange.Validate(); err != nil {
		return nil, err
	}

	summary := &RunSummary{
		Program:   program,
		Location:  location,
		DateRange: dateRange,
	}

	cashSummary, err := o.runCash(ctx, program, location, dateRange, runDate)
	if err != nil {
		return nil, err
	}
	summary.Cash = cashSummary

	posSummary, err := o.runPos(ctx, program, location, dateRange, runDate)
	if err != nil {
		return nil, err
	}
	summary.Pos = posSummary

	return summary, nil
}

func (o *Orchestrator) runCash(ctx context.Context, program string, location models.Location, dateRange models.DateRange, runDate time.Time) (*matcher.CashSummary, error) {
	deposits, err := o.cash.FindPendingCashDeposits(ctx, program, dateRange, location.PTLocationID, PendingStatuses)
	if err != nil {
		return nil, err
	}

	payments, err := o.payments.FindAggregatedCashPayments(ctx, program, dateRange, location.LocationID, PendingStatuses)
	if err != nil {
		return nil, err
	}

	result := o.cashEngine.Reconcile(location, payments, deposits, runDate)
	if result.Summary.Skipped {
		return &result.Summary, nil
	}

	if _, err := o.payments.UpdatePayments(ctx, result.UpdatedPayments); err != nil {
		return nil, err
	}
	if _, err := o.cash.UpdateCashDeposits(ctx, result.UpdatedDeposits); err != nil {
		return nil, err
	}

	return &result.Summary, nil
}

func (o *Orchestrator) runPos(ctx context.Context, program string, location models.Location, dateRange models.DateRange, runDate time.Time) (*matcher.PosSummary, error) {
	payments, err := o.payments.FindPosPayments(ctx, program, dateRange, location.LocationID, PendingStatuses)
	if err != nil {
		return nil, err
	}

	deposits, err := o.pos.FindPendingPosDeposits(ctx, program, dateRange, location.MerchantIDs, PendingStatuses)
	if err != nil {
		return nil, err
	}

	result := o.posEngine.Reconcile(location, payments, deposits, runDate)
	if result.Summary.Skipped {
		return &result.Summary, nil
	}

	if _, err := o.payments.UpdatePayments(ctx, result.UpdatedPayments); err != nil {
		return nil, err
	}
	if _, err := o.pos.UpdatePosDeposits(ctx, result.UpdatedDeposits); err != nil {
		return nil, err
	}

	return &result.Summary, nil
}

// SetExceptions ages every record still unresolved past the cutoff date
// into the terminal EXCEPTION state
func (o *Orchestrator) SetExceptions(ctx context.Context, program string, location models.Location, cutoff, runDate time.Time) (*matcher.ExceptionSummary, error) {
	o.log.WithFields(logger.Fields{
		"location_id": location.LocationID,
		"cutoff":      cutoff.Format(models.DateFormat),
	}).Info("sweeping exceptions")

	payments, err := o.payments.FindPaymentExceptions(ctx, cutoff, location.LocationID)
	if err != nil {
		return nil, err
	}

	posDeposits, err := o.pos.FindPosDepositExceptions(ctx, cutoff, location.MerchantIDs, program)
	if err != nil {
		return nil, err
	}

	cashDeposits, err := o.cash.FindCashDepositExceptions(ctx, cutoff, location.PTLocationID, program)
	if err != nil {
		return nil, err
	}

	summary := &matcher.ExceptionSummary{
		PaymentExceptions: len(payments),
		DepositExceptions: len(posDeposits) + len(cashDeposits),
	}
	if len(payments) == 0 && len(posDeposits) == 0 && len(cashDeposits) == 0 {
		summary.Skipped = true
		return summary, nil
	}

	if _, err := o.payments.UpdatePayments(ctx, o.sweep.SweepPayments(payments, runDate)); err != nil {
		return nil, err
	}
	if _, err := o.pos.UpdatePosDeposits(ctx, o.sweep.SweepPosDeposits(posDeposits, runDate)); err != nil {
		return nil, err
	}
	if _, err := o.cash.UpdateCashDeposits(ctx, o.sweep.SweepCashDeposits(cashDeposits, runDate)); err != nil {
		return nil, err
	}

	return summary, nil
}
