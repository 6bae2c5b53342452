package matcher

import (
	"time"

	"github.com/shopspring/decimal"

	"revenue-reconciliation-service/internal/models"
)

// Shared fixtures for the matcher tests. All dates fall in late August 2026:
// the 24th-28th are Monday through Friday, the 29th-30th a weekend.

var (
	visa   = models.PaymentMethod{Method: "V", Classification: models.ClassificationPOS}
	debit  = models.PaymentMethod{Method: "P", Classification: models.ClassificationPOS}
	cash   = models.PaymentMethod{Method: "CASH", Classification: models.ClassificationCash}
	runDay = time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC)
)

func at(day, hour, min int) time.Time {
	return time.Date(2026, time.August, day, hour, min, 0, 0, time.UTC)
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func posPayment(id, amount string, method models.PaymentMethod, ts time.Time) *models.Payment {
	return &models.Payment{
		ID:              id,
		Amount:          amt(amount),
		Method:          method,
		Status:          models.StatusPending,
		LocationID:      12,
		TransactionDate: ts,
		Timestamp:       ts,
	}
}

func posDeposit(id, amount string, method models.PaymentMethod, ts time.Time) *models.PosDeposit {
	return &models.PosDeposit{
		ID:              id,
		MerchantID:      4410,
		TransactionDate: ts,
		Amount:          amt(amount),
		Method:          method,
		Status:          models.StatusPending,
		Timestamp:       ts,
	}
}

func cashPayment(id, amount string, day time.Time) *models.Payment {
	return &models.Payment{
		ID:              id,
		Amount:          amt(amount),
		Method:          cash,
		Status:          models.StatusPending,
		LocationID:      12,
		TransactionDate: day,
		FiscalCloseDate: day,
		Timestamp:       day,
	}
}

func cashDeposit(id, amount string, day time.Time) *models.CashDeposit {
	return &models.CashDeposit{
		ID:           id,
		PTLocationID: 31,
		DepositDate:  day,
		Amount:       amt(amount),
		Status:       models.StatusPending,
	}
}

func testLocation() models.Location {
	return models.Location{
		LocationID:   12,
		PTLocationID: 31,
		MerchantIDs:  []int{4410},
	}
}
