package matcher

import (
	"testing"

	"revenue-reconciliation-service/internal/models"
)

func TestAggregatePosPayments(t *testing.T) {
	payments := []*models.Payment{
		posPayment("p1", "5.00", visa, at(26, 10, 0)),
		posPayment("p2", "7.00", visa, at(26, 11, 0)),
		posPayment("p3", "9.00", debit, at(26, 12, 0)),
		posPayment("p4", "3.00", visa, at(27, 9, 0)),
	}

	groups := AggregatePosPayments(payments)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}

	// Key order: 2026-08-26-P, 2026-08-26-V, 2026-08-27-V
	if groups[0].Method.Method != "P" || !groups[0].Amount.Equal(amt("9.00")) {
		t.Errorf("group 0 = %s %s, want P 9.00", groups[0].Method.Method, groups[0].Amount)
	}
	if groups[1].Method.Method != "V" || !groups[1].Amount.Equal(amt("12.00")) {
		t.Errorf("group 1 = %s %s, want V 12.00", groups[1].Method.Method, groups[1].Amount)
	}
	if len(groups[1].Payments) != 2 {
		t.Errorf("group 1 has %d constituents, want 2", len(groups[1].Payments))
	}
	if groups[2].DateKey() != "2026-08-27" {
		t.Errorf("group 2 date = %s, want 2026-08-27", groups[2].DateKey())
	}
}

func TestAggregatePosDeposits(t *testing.T) {
	deposits := []*models.PosDeposit{
		posDeposit("d1", "4.00", visa, at(26, 18, 0)),
		posDeposit("d2", "8.00", visa, at(26, 19, 0)),
	}

	groups := AggregatePosDeposits(deposits)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if !groups[0].Amount.Equal(amt("12.00")) {
		t.Errorf("summed amount = %s, want 12.00", groups[0].Amount)
	}
	if groups[0].MethodCode() != "V" || groups[0].DateKey() != "2026-08-26" {
		t.Errorf("group key = %s/%s, want V/2026-08-26", groups[0].MethodCode(), groups[0].DateKey())
	}
}

func TestAggregateCashPayments(t *testing.T) {
	payments := []*models.Payment{
		cashPayment("p1", "100.00", at(26, 0, 0)),
		cashPayment("p2", "458.31", at(26, 0, 0)),
		cashPayment("p3", "20.00", at(27, 0, 0)),
	}

	groups := AggregateCashPayments(payments)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if !groups[0].Amount.Equal(amt("558.31")) {
		t.Errorf("day one total = %s, want 558.31", groups[0].Amount)
	}
	if len(groups[0].Payments) != 2 {
		t.Errorf("day one has %d constituents, want 2", len(groups[0].Payments))
	}
	if !groups[1].Amount.Equal(amt("20.00")) {
		t.Errorf("day two total = %s, want 20.00", groups[1].Amount)
	}
}

func TestAggregateCashPaymentsFiscalCloseWins(t *testing.T) {
	// A sale rung up after fiscal close carries the next day's close date
	// and must group with that day's cash.
	late := cashPayment("p1", "50.00", at(26, 0, 0))
	late.TransactionDate = at(25, 23, 50)

	groups := AggregateCashPayments([]*models.Payment{late})
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if got := groups[0].Date.Format(models.DateFormat); got != "2026-08-26" {
		t.Errorf("group date = %s, want fiscal close date 2026-08-26", got)
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	if got := AggregatePosPayments(nil); len(got) != 0 {
		t.Errorf("AggregatePosPayments(nil) = %v, want empty", got)
	}
	if got := AggregateCashPayments(nil); len(got) != 0 {
		t.Errorf("AggregateCashPayments(nil) = %v, want empty", got)
	}
}
