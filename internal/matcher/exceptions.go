package matcher

import (
	"time"

	"revenue-reconciliation-service/internal/models"
	"revenue-reconciliation-service/internal/timeutil"
	"revenue-reconciliation-service/pkg/logger"
)

// ReconciledClock decides the reconciled_on timestamp stamped on a record
// when it ages out to EXCEPTION. The strategy is injected so non-production
// environments get deterministic timestamps.
type ReconciledClock interface {
	ExceptionReconciledOn(recordDate, runDate time.Time) time.Time
}

// ProductionClock stamps exceptions with the run date
type ProductionClock struct{}

// ExceptionReconciledOn returns the run date
func (ProductionClock) ExceptionReconciledOn(_, runDate time.Time) time.Time {
	return runDate
}

// OffsetClock stamps exceptions with the record's own date plus a fixed
// number of business days, making the result independent of when the sweep
// actually ran
type OffsetClock struct {
	BusinessDays int
}

// ExceptionReconciledOn returns the record date advanced by the configured
// business-day offset
func (c OffsetClock) ExceptionReconciledOn(recordDate, _ time.Time) time.Time {
	return timeutil.AddBusinessDays(recordDate, c.BusinessDays)
}

// ExceptionSummary reports the outcome of one exception sweep
type ExceptionSummary struct {
	PaymentExceptions int  `json:"payment_exceptions"`
	DepositExceptions int  `json:"deposit_exceptions"`
	Skipped           bool `json:"skipped"`
}

// ExceptionSweep ages unresolved records into the terminal EXCEPTION state.
// EXCEPTION records are never reconsidered by later runs; callers must reset
// the status manually to re-include one.
type ExceptionSweep struct {
	clock ReconciledClock
	log   logger.Logger
}

// NewExceptionSweep creates a sweep with the given clock strategy
func NewExceptionSweep(clock ReconciledClock, log logger.Logger) *ExceptionSweep {
	return &ExceptionSweep{
		clock: clock,
		log:   log.WithComponent("exception-sweep"),
	}
}

// SweepPayments marks payments EXCEPTION. The record date for the clock is
// the fiscal close date when present, else the transaction date.
func (s *ExceptionSweep) SweepPayments(payments []*models.Payment, runDate time.Time) []*models.Payment {
	for _, p := range payments {
		date := p.FiscalCloseDate
		if date.IsZero() {
			date = p.TransactionDate
		}
		p.Status = models.StatusException
		p.ReconciledOn = s.clock.ExceptionReconciledOn(date, runDate)
	}
	return payments
}

// SweepPosDeposits marks POS deposits EXCEPTION, dated by transaction date
func (s *ExceptionSweep) SweepPosDeposits(deposits []*models.PosDeposit, runDate time.Time) []*models.PosDeposit {
	for _, d := range deposits {
		d.Status = models.StatusException
		d.ReconciledOn = s.clock.ExceptionReconciledOn(d.TransactionDate, runDate)
	}
	return deposits
}

// SweepCashDeposits marks cash deposits EXCEPTION, dated by deposit date
func (s *ExceptionSweep) SweepCashDeposits(deposits []*models.CashDeposit, runDate time.Time) []*models.CashDeposit {
	for _, d := range deposits {
		d.Status = models.StatusException
		d.ReconciledOn = s.clock.ExceptionReconciledOn(d.DepositDate, runDate)
	}
	return deposits
}
