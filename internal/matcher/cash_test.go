package matcher

import (
	"testing"

	"revenue-reconciliation-service/internal/models"
	"revenue-reconciliation-service/pkg/logger"
)

func newCashReconciler() *CashReconciler {
	return NewCashReconciler(logger.NewNopLogger())
}

func TestCashCheckMatch(t *testing.T) {
	r := newCashReconciler()
	day := at(26, 0, 0)

	group := func() *models.AggregatedCashPayment {
		return &models.AggregatedCashPayment{
			Date:     day,
			Amount:   amt("558.31"),
			Status:   models.StatusPending,
			Payments: []*models.Payment{cashPayment("p1", "100.00", day), cashPayment("p2", "458.31", day)},
		}
	}

	if !r.CheckMatch(group(), cashDeposit("d1", "558.31", day)) {
		t.Error("expected match for equal amounts")
	}
	if r.CheckMatch(group(), cashDeposit("d1", "558.32", day)) {
		t.Error("expected no match for unequal amounts")
	}

	matched := group()
	matched.Status = models.StatusMatch
	if r.CheckMatch(matched, cashDeposit("d1", "558.31", day)) {
		t.Error("expected no match for an already matched group")
	}

	resolved := cashDeposit("d1", "558.31", day)
	resolved.Status = models.StatusMatch
	if r.CheckMatch(group(), resolved) {
		t.Error("expected no match against an already matched deposit")
	}

	linked := group()
	linked.Payments[0].CashDepositMatchID = "cd-old"
	if r.CheckMatch(linked, cashDeposit("d1", "558.31", day)) {
		t.Error("expected no match when a constituent is already linked")
	}
}

func TestCashReconcileDayTotal(t *testing.T) {
	r := newCashReconciler()
	day := at(26, 0, 0)

	payments := []*models.Payment{
		cashPayment("p1", "100.00", day),
		cashPayment("p2", "458.31", day),
	}
	groups := AggregateCashPayments(payments)
	deposit := cashDeposit("d1", "558.31", day)

	result := r.Reconcile(testLocation(), groups, []*models.CashDeposit{deposit}, runDay)

	if result.Summary.Skipped {
		t.Fatal("run should not be skipped")
	}
	if result.Summary.PaymentsMatched != 2 || result.Summary.DepositsMatched != 1 {
		t.Fatalf("matched %d payments / %d deposits, want 2 / 1",
			result.Summary.PaymentsMatched, result.Summary.DepositsMatched)
	}

	for _, p := range payments {
		if p.Status != models.StatusMatch {
			t.Errorf("payment %s status = %s, want MATCH", p.ID, p.Status)
		}
		if p.CashDepositMatchID != "d1" {
			t.Errorf("payment %s match id = %q, want d1", p.ID, p.CashDepositMatchID)
		}
		if !p.ReconciledOn.Equal(runDay) {
			t.Errorf("payment %s reconciled_on = %v, want run date", p.ID, p.ReconciledOn)
		}
	}

	if deposit.Status != models.StatusMatch {
		t.Errorf("deposit status = %s, want MATCH", deposit.Status)
	}
	if len(deposit.PaymentMatchIDs) != 2 {
		t.Errorf("deposit links %d payments, want 2", len(deposit.PaymentMatchIDs))
	}
}

func TestCashReconcileNoDoubleMatch(t *testing.T) {
	r := newCashReconciler()
	day := at(26, 0, 0)

	// Two deposits with the same amount; only one can claim the group.
	groups := AggregateCashPayments([]*models.Payment{cashPayment("p1", "75.00", day)})
	d1 := cashDeposit("d1", "75.00", day)
	d2 := cashDeposit("d2", "75.00", day)

	result := r.Reconcile(testLocation(), groups, []*models.CashDeposit{d1, d2}, runDay)

	if result.Summary.DepositsMatched != 1 {
		t.Fatalf("deposits matched = %d, want 1", result.Summary.DepositsMatched)
	}
	if d1.Status != models.StatusMatch {
		t.Errorf("first deposit should win, got %s", d1.Status)
	}
	if d2.Status != models.StatusInProgress {
		t.Errorf("second deposit status = %s, want IN_PROGRESS", d2.Status)
	}
}

func TestCashReconcileUnmatchedGoInProgress(t *testing.T) {
	r := newCashReconciler()
	day := at(26, 0, 0)

	payment := cashPayment("p1", "40.00", day)
	groups := AggregateCashPayments([]*models.Payment{payment})
	deposit := cashDeposit("d1", "41.00", day)

	result := r.Reconcile(testLocation(), groups, []*models.CashDeposit{deposit}, runDay)

	if result.Summary.PaymentsMatched != 0 {
		t.Fatalf("expected no matches, got %d", result.Summary.PaymentsMatched)
	}
	if payment.Status != models.StatusInProgress || !payment.InProgressOn.Equal(runDay) {
		t.Errorf("payment = %s/%v, want IN_PROGRESS stamped with run date", payment.Status, payment.InProgressOn)
	}
	if deposit.Status != models.StatusInProgress {
		t.Errorf("deposit status = %s, want IN_PROGRESS", deposit.Status)
	}
}

func TestCashReconcileRefreshIsIdempotent(t *testing.T) {
	r := newCashReconciler()
	day := at(26, 0, 0)

	payment := cashPayment("p1", "40.00", day)
	deposit := cashDeposit("d1", "41.00", day)

	r.Reconcile(testLocation(), AggregateCashPayments([]*models.Payment{payment}), []*models.CashDeposit{deposit}, runDay)

	// A later run over the same unmatched records refreshes the stamp and
	// changes nothing else.
	laterRun := at(31, 0, 0)
	result := r.Reconcile(testLocation(), AggregateCashPayments([]*models.Payment{payment}), []*models.CashDeposit{deposit}, laterRun)

	if result.Summary.PaymentsMatched != 0 {
		t.Fatalf("expected no matches on rerun, got %d", result.Summary.PaymentsMatched)
	}
	if payment.Status != models.StatusInProgress || !payment.InProgressOn.Equal(laterRun) {
		t.Errorf("payment = %s/%v, want IN_PROGRESS refreshed to later run date", payment.Status, payment.InProgressOn)
	}
	if !deposit.InProgressOn.Equal(laterRun) {
		t.Errorf("deposit in_progress_on = %v, want refreshed", deposit.InProgressOn)
	}
}

func TestCashReconcileSkipsEmptySides(t *testing.T) {
	r := newCashReconciler()
	day := at(26, 0, 0)

	result := r.Reconcile(testLocation(), nil, []*models.CashDeposit{cashDeposit("d1", "10.00", day)}, runDay)
	if !result.Summary.Skipped {
		t.Error("expected skip with no payments")
	}

	result = r.Reconcile(testLocation(), AggregateCashPayments([]*models.Payment{cashPayment("p1", "10.00", day)}), nil, runDay)
	if !result.Summary.Skipped {
		t.Error("expected skip with no deposits")
	}
	if len(result.UpdatedPayments) != 0 {
		t.Error("skipped run must not stage updates")
	}
}
