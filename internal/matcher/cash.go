package matcher

import (
	"time"

	"revenue-reconciliation-service/internal/models"
	"revenue-reconciliation-service/pkg/logger"
)

// CashMatch pairs an aggregated cash payment group with the deposit that
// settled it
type CashMatch struct {
	Payment *models.AggregatedCashPayment
	Deposit *models.CashDeposit
}

// CashSummary reports the outcome of one cash reconciliation pass
type CashSummary struct {
	LocationID         int  `json:"location_id"`
	PendingPayments    int  `json:"pending_payments"`
	PendingDeposits    int  `json:"pending_deposits"`
	PaymentsMatched    int  `json:"payments_matched"`
	DepositsMatched    int  `json:"deposits_matched"`
	PaymentsInProgress int  `json:"payments_in_progress"`
	DepositsInProgress int  `json:"deposits_in_progress"`
	Skipped            bool `json:"skipped"`
}

// CashResult carries the summary plus the mutated records the caller must
// persist, one bulk write per entity type
type CashResult struct {
	Summary         CashSummary
	UpdatedPayments []*models.Payment
	UpdatedDeposits []*models.CashDeposit
}

// CashReconciler matches cash-till deposits against aggregated cash payment
// groups, one-to-one on exact amount
type CashReconciler struct {
	log logger.Logger
}

// NewCashReconciler creates a cash reconciler
func NewCashReconciler(log logger.Logger) *CashReconciler {
	return &CashReconciler{log: log.WithComponent("cash-reconciliation")}
}

// CheckMatch reports whether a payment group and a deposit can be paired:
// neither side already matched, no constituent payment already linked to a
// cash deposit, and amounts equal after 2dp normalization.
func (r *CashReconciler) CheckMatch(payment *models.AggregatedCashPayment, deposit *models.CashDeposit) bool {
	if payment.Status == models.StatusMatch || deposit.Status == models.StatusMatch {
		return false
	}
	if payment.HasCashMatch() {
		return false
	}
	return models.AmountsEqual(payment.Amount, deposit.Amount)
}

// MatchPaymentsToDeposits pairs deposits with payment groups, first fit
// wins. Outer loop over deposits, inner over payment groups, no
// backtracking: amount uniqueness within a day is what keeps this sound in
// practice.
func (r *CashReconciler) MatchPaymentsToDeposits(payments []*models.AggregatedCashPayment, deposits []*models.CashDeposit) []CashMatch {
	var matches []CashMatch

	for _, deposit := range deposits {
		for _, payment := range payments {
			if !r.CheckMatch(payment, deposit) {
				continue
			}
			payment.Status = models.StatusMatch
			deposit.Status = models.StatusMatch
			matches = append(matches, CashMatch{Payment: payment, Deposit: deposit})
			break
		}
	}

	return matches
}

// Reconcile runs one cash pass for a location. Matched records are stamped
// MATCH with reconciled_on set to the run date; everything left unresolved
// is (re-)stamped IN_PROGRESS with in_progress_on refreshed, which is
// idempotent across runs.
func (r *CashReconciler) Reconcile(location models.Location, payments []*models.AggregatedCashPayment, deposits []*models.CashDeposit, runDate time.Time) *CashResult {
	result := &CashResult{
		Summary: CashSummary{
			LocationID:      location.LocationID,
			PendingPayments: len(payments),
			PendingDeposits: len(deposits),
		},
	}

	if len(payments) == 0 || len(deposits) == 0 {
		r.log.WithField("location_id", location.LocationID).
			Info("SKIPPING - no pending payments / deposits found")
		result.Summary.Skipped = true
		return result
	}

	candidatePayments := make([]*models.AggregatedCashPayment, 0, len(payments))
	for _, p := range payments {
		if p.Status.Candidate() {
			candidatePayments = append(candidatePayments, p)
		}
	}
	candidateDeposits := make([]*models.CashDeposit, 0, len(deposits))
	for _, d := range deposits {
		if d.Status.Candidate() {
			candidateDeposits = append(candidateDeposits, d)
		}
	}

	matches := r.MatchPaymentsToDeposits(candidatePayments, candidateDeposits)

	for _, m := range matches {
		m.Deposit.ReconciledOn = runDate
		for _, p := range m.Payment.Payments {
			p.Status = models.StatusMatch
			p.CashDepositMatchID = m.Deposit.ID
			p.ReconciledOn = runDate
			m.Deposit.PaymentMatchIDs = append(m.Deposit.PaymentMatchIDs, p.ID)
			result.UpdatedPayments = append(result.UpdatedPayments, p)
			result.Summary.PaymentsMatched++
		}
		result.UpdatedDeposits = append(result.UpdatedDeposits, m.Deposit)
		result.Summary.DepositsMatched++
	}

	for _, group := range payments {
		if group.Status == models.StatusMatch {
			continue
		}
		for _, p := range group.Payments {
			p.Status = models.StatusInProgress
			p.InProgressOn = runDate
			result.UpdatedPayments = append(result.UpdatedPayments, p)
			result.Summary.PaymentsInProgress++
		}
	}

	for _, d := range deposits {
		if d.Status == models.StatusMatch {
			continue
		}
		d.Status = models.StatusInProgress
		d.InProgressOn = runDate
		result.UpdatedDeposits = append(result.UpdatedDeposits, d)
		result.Summary.DepositsInProgress++
	}

	r.log.WithFields(logger.Fields{
		"location_id":          location.LocationID,
		"payments_matched":     result.Summary.PaymentsMatched,
		"deposits_matched":     result.Summary.DepositsMatched,
		"payments_in_progress": result.Summary.PaymentsInProgress,
		"deposits_in_progress": result.Summary.DepositsInProgress,
	}).Info("cash reconciliation complete")

	return result
}
