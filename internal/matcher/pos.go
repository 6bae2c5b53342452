package matcher

import (
	"time"

	"revenue-reconciliation-service/internal/models"
	"revenue-reconciliation-service/internal/timeutil"
	"revenue-reconciliation-service/pkg/logger"
)

// PosMatch pairs one payment with the deposit a round-one-to-three pass
// claimed for it
type PosMatch struct {
	Payment *models.Payment
	Deposit *models.PosDeposit
	Round   models.HeuristicRound
}

// PosGroupMatch pairs the constituents of a round-four aggregate match
type PosGroupMatch struct {
	Payments []*models.Payment
	Deposits []*models.PosDeposit
}

// PosSummary reports the outcome of one POS reconciliation pass
type PosSummary struct {
	LocationID              int                        `json:"location_id"`
	TotalPaymentsPending    int                        `json:"total_payments_pending"`
	TotalDepositsPending    int                        `json:"total_deposits_pending"`
	TotalPaymentsMatched    int                        `json:"total_matched_payments"`
	TotalDepositsMatched    int                        `json:"total_matched_deposits"`
	MatchesByRound          map[models.HeuristicRound]int `json:"matches_by_round"`
	TotalPaymentsInProgress int                        `json:"total_payments_in_progress"`
	TotalDepositsInProgress int                        `json:"total_deposits_in_progress"`
	TotalPaymentsUpdated    int                        `json:"total_payments_updated"`
	TotalDepositsUpdated    int                        `json:"total_deposits_updated"`
	Skipped                 bool                       `json:"skipped"`
}

// PosResult carries the summary plus the mutated records the caller must
// persist, one bulk write per entity type
type PosResult struct {
	Summary         PosSummary
	UpdatedPayments []*models.Payment
	UpdatedDeposits []*models.PosDeposit
}

// PosReconciler matches POS payments to POS settlement deposits over four
// heuristic rounds. Rounds run in strict sequence: each round consumes the
// deposits it matches before the next round's lookup, so a looser round can
// never re-claim a deposit a tighter round should own.
type PosReconciler struct {
	cfg *Config
	log logger.Logger
}

// NewPosReconciler creates a POS reconciler; a nil config takes the
// production defaults
func NewPosReconciler(cfg *Config, log logger.Logger) *PosReconciler {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &PosReconciler{
		cfg: cfg,
		log: log.WithComponent("pos-reconciliation"),
	}
}

// VerifyMethod checks that payment and deposit share a payment method
func (r *PosReconciler) VerifyMethod(payment *models.Payment, deposit *models.PosDeposit) bool {
	return payment.Method.Method == deposit.Method.Method
}

// VerifyTimeMatch applies the temporal predicate for rounds one to three
func (r *PosReconciler) VerifyTimeMatch(payment *models.Payment, deposit *models.PosDeposit, round models.HeuristicRound) bool {
	switch round {
	case models.RoundOne:
		return timeutil.WithinMinutes(payment.Timestamp, deposit.Timestamp, r.cfg.TimeToleranceMinutes)
	case models.RoundTwo:
		return payment.DateKey() == deposit.DateKey()
	case models.RoundThree:
		return timeutil.BusinessDaysBetween(payment.Timestamp, deposit.Timestamp) <= r.cfg.BusinessDayWindow
	default:
		return false
	}
}

// Reconcile runs the four heuristic rounds for a location over the supplied
// pending sets and returns the summary plus every record whose status
// changed. No match is not an error; it is the expected outcome of most
// runs.
func (r *PosReconciler) Reconcile(location models.Location, pendingPayments []*models.Payment, pendingDeposits []*models.PosDeposit, runDate time.Time) *PosResult {
	result := &PosResult{
		Summary: PosSummary{
			LocationID:           location.LocationID,
			TotalPaymentsPending: len(pendingPayments),
			TotalDepositsPending: len(pendingDeposits),
			MatchesByRound:       make(map[models.HeuristicRound]int),
		},
	}

	if len(pendingPayments) == 0 || len(pendingDeposits) == 0 {
		r.log.WithField("location_id", location.LocationID).
			Info("SKIPPING - no pending payments / deposits found")
		result.Summary.Skipped = true
		return result
	}

	r.log.Infof("payments to be matched: %d", len(pendingPayments))
	r.log.Infof("deposits to be matched: %d", len(pendingDeposits))

	index := NewDepositIndex(pendingDeposits)

	for _, round := range []models.HeuristicRound{models.RoundOne, models.RoundTwo, models.RoundThree} {
		matches := r.matchRound(candidates(pendingPayments), index, round, runDate)
		result.Summary.MatchesByRound[round] = len(matches)
		r.log.Infof("MATCHES - ROUND %s - %d matches", round, len(matches))

		for _, m := range matches {
			result.UpdatedPayments = append(result.UpdatedPayments, m.Payment)
			result.UpdatedDeposits = append(result.UpdatedDeposits, m.Deposit)
			result.Summary.TotalPaymentsMatched++
			result.Summary.TotalDepositsMatched++
		}
	}

	groupMatches := r.matchRoundFour(candidates(pendingPayments), index.Remaining(), runDate)
	result.Summary.MatchesByRound[models.RoundFour] = len(groupMatches)
	r.log.Infof("MATCHES - ROUND %s - %d matches", models.RoundFour, len(groupMatches))

	for _, m := range groupMatches {
		result.UpdatedPayments = append(result.UpdatedPayments, m.Payments...)
		result.UpdatedDeposits = append(result.UpdatedDeposits, m.Deposits...)
		result.Summary.TotalPaymentsMatched += len(m.Payments)
		result.Summary.TotalDepositsMatched += len(m.Deposits)
	}

	// Post-round bookkeeping: anything still PENDING moves to IN_PROGRESS
	// with the timestamp refreshed.
	for _, p := range pendingPayments {
		if p.Status != models.StatusPending {
			continue
		}
		p.Status = models.StatusInProgress
		p.InProgressOn = runDate
		result.UpdatedPayments = append(result.UpdatedPayments, p)
		result.Summary.TotalPaymentsInProgress++
	}

	for _, d := range index.Remaining() {
		if d.Status != models.StatusPending {
			continue
		}
		d.Status = models.StatusInProgress
		d.InProgressOn = runDate
		result.UpdatedDeposits = append(result.UpdatedDeposits, d)
		result.Summary.TotalDepositsInProgress++
	}

	result.Summary.TotalPaymentsUpdated = len(result.UpdatedPayments)
	result.Summary.TotalDepositsUpdated = len(result.UpdatedDeposits)

	return result
}

// matchRound runs one of the first three heuristic passes. For each payment
// it locates the amount bucket, then the date/method bucket (with round
// three falling back to one business day before the payment date), scans
// unmatched candidates in order, and accepts the first that satisfies the
// method and temporal predicates. The matched deposit is consumed from the
// index.
func (r *PosReconciler) matchRound(payments []*models.Payment, index *DepositIndex[*models.PosDeposit], round models.HeuristicRound, runDate time.Time) []PosMatch {
	var matches []PosMatch

	for _, payment := range payments {
		if !payment.Status.Candidate() {
			continue
		}

		bucketKey := BucketKey(payment.DateKey(), payment.Method.Method)
		if round == models.RoundThree && len(index.Lookup(payment.Amount, bucketKey)) == 0 {
			// Round three tolerates a settlement one business day earlier
			// than the payment. Only the day before is probed; the
			// asymmetry is deliberate.
			dayBefore := timeutil.SubBusinessDays(payment.TransactionDate, 1)
			bucketKey = BucketKey(dayBefore.Format(models.DateFormat), payment.Method.Method)
		}

		deposit, ok := index.Take(payment.Amount, bucketKey, func(d *models.PosDeposit) bool {
			return d.Status != models.StatusMatch &&
				r.VerifyMethod(payment, d) &&
				r.VerifyTimeMatch(payment, d, round)
		})
		if !ok {
			continue
		}

		payment.Status = models.StatusMatch
		payment.HeuristicRound = round
		payment.ReconciledOn = runDate
		payment.PosDepositMatchID = deposit.ID

		deposit.Status = models.StatusMatch
		deposit.HeuristicRound = round
		deposit.ReconciledOn = runDate
		deposit.PaymentMatchIDs = append(deposit.PaymentMatchIDs, payment.ID)

		matches = append(matches, PosMatch{Payment: payment, Deposit: deposit, Round: round})
	}

	return matches
}

// matchRoundFour re-aggregates both sides by (date, method) and matches on
// summed amounts, absorbing N-payments-to-1-deposit splits and the reverse.
// Every constituent of both groups is marked individually.
func (r *PosReconciler) matchRoundFour(payments []*models.Payment, deposits []*models.PosDeposit, runDate time.Time) []PosGroupMatch {
	unmatchedDeposits := make([]*models.PosDeposit, 0, len(deposits))
	for _, d := range deposits {
		if d.Status.Candidate() {
			unmatchedDeposits = append(unmatchedDeposits, d)
		}
	}

	aggregatedPayments := AggregatePosPayments(payments)
	index := NewDepositIndex(AggregatePosDeposits(unmatchedDeposits))

	var matches []PosGroupMatch

	for _, group := range aggregatedPayments {
		if group.Status == models.StatusMatch {
			continue
		}

		bucketKey := BucketKey(group.DateKey(), group.Method.Method)
		depositGroup, ok := index.Take(group.Amount, bucketKey, func(g *models.AggregatedPosDeposit) bool {
			return g.Status != models.StatusMatch &&
				g.DateKey() == group.DateKey() &&
				g.Method.Method == group.Method.Method
		})
		if !ok {
			continue
		}

		group.Status = models.StatusMatch
		depositGroup.Status = models.StatusMatch

		depositIDs := make([]string, 0, len(depositGroup.Deposits))
		for _, d := range depositGroup.Deposits {
			depositIDs = append(depositIDs, d.ID)
		}
		paymentIDs := make([]string, 0, len(group.Payments))
		for _, p := range group.Payments {
			paymentIDs = append(paymentIDs, p.ID)
		}

		for _, p := range group.Payments {
			p.Status = models.StatusMatch
			p.HeuristicRound = models.RoundFour
			p.ReconciledOn = runDate
			p.RoundFourDepositIDs = depositIDs
		}
		for _, d := range depositGroup.Deposits {
			d.Status = models.StatusMatch
			d.HeuristicRound = models.RoundFour
			d.ReconciledOn = runDate
			d.PaymentMatchIDs = paymentIDs
		}

		matches = append(matches, PosGroupMatch{
			Payments: group.Payments,
			Deposits: depositGroup.Deposits,
		})
	}

	return matches
}

// candidates filters payments still in the matchable pool
func candidates(payments []*models.Payment) []*models.Payment {
	out := make([]*models.Payment, 0, len(payments))
	for _, p := range payments {
		if p.Status.Candidate() {
			out = append(out, p)
		}
	}
	return out
}
