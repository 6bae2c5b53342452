package matcher

import (
	"testing"
	"time"

	"revenue-reconciliation-service/internal/models"
	"revenue-reconciliation-service/pkg/logger"
)

func TestProductionClock(t *testing.T) {
	clock := ProductionClock{}
	record := at(10, 0, 0)

	if got := clock.ExceptionReconciledOn(record, runDay); !got.Equal(runDay) {
		t.Errorf("ExceptionReconciledOn() = %v, want run date %v", got, runDay)
	}
}

func TestOffsetClock(t *testing.T) {
	clock := OffsetClock{BusinessDays: 2}

	tests := []struct {
		name   string
		record time.Time
		want   time.Time
	}{
		{"midweek", at(25, 0, 0), at(27, 0, 0)},
		{"thursday spans weekend", at(27, 0, 0), at(31, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clock.ExceptionReconciledOn(tt.record, runDay)
			if !got.Equal(tt.want) {
				t.Errorf("ExceptionReconciledOn(%v) = %v, want %v", tt.record, got, tt.want)
			}
		})
	}
}

func TestOffsetClockIsDeterministic(t *testing.T) {
	clock := OffsetClock{BusinessDays: 2}
	record := at(25, 0, 0)

	first := clock.ExceptionReconciledOn(record, at(28, 0, 0))
	second := clock.ExceptionReconciledOn(record, at(31, 0, 0))

	if !first.Equal(second) {
		t.Errorf("same record swept on different run dates produced %v and %v", first, second)
	}
}

func TestSweepPayments(t *testing.T) {
	sweep := NewExceptionSweep(ProductionClock{}, logger.NewNopLogger())

	p := posPayment("p1", "17.00", visa, at(10, 10, 0))
	p.Status = models.StatusInProgress

	out := sweep.SweepPayments([]*models.Payment{p}, runDay)

	if len(out) != 1 {
		t.Fatalf("swept %d payments, want 1", len(out))
	}
	if p.Status != models.StatusException {
		t.Errorf("status = %s, want EXCEPTION", p.Status)
	}
	if !p.ReconciledOn.Equal(runDay) {
		t.Errorf("reconciled_on = %v, want run date", p.ReconciledOn)
	}
}

func TestSweepPaymentsPrefersFiscalCloseDate(t *testing.T) {
	sweep := NewExceptionSweep(OffsetClock{BusinessDays: 2}, logger.NewNopLogger())

	p := posPayment("p1", "17.00", visa, at(10, 23, 50))
	p.FiscalCloseDate = at(11, 0, 0)

	sweep.SweepPayments([]*models.Payment{p}, runDay)

	want := at(13, 0, 0) // Aug 11 Tue + 2 business days
	if !p.ReconciledOn.Equal(want) {
		t.Errorf("reconciled_on = %v, want fiscal close + 2 business days = %v", p.ReconciledOn, want)
	}
}

func TestSweepDeposits(t *testing.T) {
	sweep := NewExceptionSweep(OffsetClock{BusinessDays: 2}, logger.NewNopLogger())

	pos := posDeposit("d1", "10.00", visa, at(11, 10, 0))
	pos.Status = models.StatusInProgress
	cashDep := cashDeposit("d2", "300.00", at(11, 0, 0))

	sweep.SweepPosDeposits([]*models.PosDeposit{pos}, runDay)
	sweep.SweepCashDeposits([]*models.CashDeposit{cashDep}, runDay)

	if pos.Status != models.StatusException || cashDep.Status != models.StatusException {
		t.Errorf("statuses = %s / %s, want EXCEPTION / EXCEPTION", pos.Status, cashDep.Status)
	}

	// Both record dates are Tue Aug 11; plus two business days is Thu Aug 13.
	want := at(13, 0, 0)
	if !cashDep.ReconciledOn.Equal(want) {
		t.Errorf("cash deposit reconciled_on = %v, want %v", cashDep.ReconciledOn, want)
	}
}
