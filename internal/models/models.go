// Package models defines the payment and deposit records the reconciliation
// engine operates on, the match status state machine, and decimal-safe
// monetary comparison helpers.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MatchStatus represents the lifecycle state of a payment or deposit.
//
// Transitions are monotonic and mostly forward:
// PENDING -> IN_PROGRESS -> MATCH, or PENDING/IN_PROGRESS -> EXCEPTION.
// MATCH and EXCEPTION are terminal; IN_PROGRESS may be re-entered across
// runs while a record remains unresolved.
type MatchStatus string

const (
	StatusPending    MatchStatus = "PENDING"
	StatusInProgress MatchStatus = "IN_PROGRESS"
	StatusMatch      MatchStatus = "MATCH"
	StatusException  MatchStatus = "EXCEPTION"
)

// String returns the string representation of MatchStatus
func (s MatchStatus) String() string {
	return string(s)
}

// IsValid checks if the match status is valid
func (s MatchStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusMatch, StatusException:
		return true
	}
	return false
}

// IsResolved reports whether the status is terminal for the engine
func (s MatchStatus) IsResolved() bool {
	return s == StatusMatch || s == StatusException
}

// Candidate reports whether a record with this status is still in the
// matchable pool
func (s MatchStatus) Candidate() bool {
	return s == StatusPending || s == StatusInProgress
}

// ParseMatchStatus parses and validates a match status from string
func ParseMatchStatus(v string) (MatchStatus, error) {
	s := MatchStatus(strings.ToUpper(strings.TrimSpace(v)))
	if !s.IsValid() {
		return "", fmt.Errorf("invalid match status '%s'", v)
	}
	return s, nil
}

// HeuristicRound identifies which matching pass produced a match.
// RoundNone marks records that have not been matched.
type HeuristicRound int

const (
	RoundNone  HeuristicRound = 0
	RoundOne   HeuristicRound = 1
	RoundTwo   HeuristicRound = 2
	RoundThree HeuristicRound = 3
	RoundFour  HeuristicRound = 4
)

// String returns the string representation of HeuristicRound
func (r HeuristicRound) String() string {
	switch r {
	case RoundOne:
		return "ONE"
	case RoundTwo:
		return "TWO"
	case RoundThree:
		return "THREE"
	case RoundFour:
		return "FOUR"
	default:
		return "NONE"
	}
}

// Classification distinguishes card-settled methods from cash-like methods.
type Classification string

const (
	ClassificationPOS  Classification = "POS"
	ClassificationCash Classification = "CASH"
)

// PaymentMethod is reference data describing how a payment was made
type PaymentMethod struct {
	Method         string         `json:"method"`
	Classification Classification `json:"classification"`
	Description    string         `json:"description,omitempty"`
}

// Location is program reference data used to scope queries.
// Owned externally; read-only to the engine.
type Location struct {
	LocationID   int    `json:"location_id"`
	PTLocationID int    `json:"pt_location_id"`
	MerchantIDs  []int  `json:"merchant_ids"`
	Description  string `json:"description"`
}

// DateFormat is the calendar-day key format used throughout the engine
const DateFormat = "2006-01-02"

// NormalizeAmount rounds a monetary amount to exactly two decimal places.
// All amount comparisons in the engine go through this normalization.
func NormalizeAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// AmountsEqual compares two monetary amounts after 2dp normalization
func AmountsEqual(a, b decimal.Decimal) bool {
	return NormalizeAmount(a).Equal(NormalizeAmount(b))
}

// AmountKey returns the canonical string form of a normalized amount,
// suitable as a map key
func AmountKey(d decimal.Decimal) string {
	return NormalizeAmount(d).StringFixed(2)
}

// Payment is a single transaction reported by a business location
type Payment struct {
	ID              string          `json:"id"`
	Amount          decimal.Decimal `json:"amount"`
	Method          PaymentMethod   `json:"payment_method"`
	Status          MatchStatus     `json:"status"`
	LocationID      int             `json:"location_id"`
	TransactionDate time.Time       `json:"transaction_date"`
	FiscalCloseDate time.Time       `json:"fiscal_close_date"`
	Timestamp       time.Time       `json:"timestamp"`

	HeuristicRound      HeuristicRound `json:"heuristic_match_round,omitempty"`
	PosDepositMatchID   string         `json:"pos_deposit_match_id,omitempty"`
	CashDepositMatchID  string         `json:"cash_deposit_match_id,omitempty"`
	RoundFourDepositIDs []string       `json:"round_four_deposit_ids,omitempty"`

	ReconciledOn time.Time `json:"reconciled_on,omitempty"`
	InProgressOn time.Time `json:"in_progress_on,omitempty"`
}

// NewPayment creates a pending payment
func NewPayment(id string, amount decimal.Decimal, method PaymentMethod, locationID int, timestamp time.Time) *Payment {
	return &Payment{
		ID:              id,
		Amount:          amount,
		Method:          method,
		Status:          StatusPending,
		LocationID:      locationID,
		TransactionDate: timestamp,
		Timestamp:       timestamp,
	}
}

// Validate performs basic validation on the Payment
func (p *Payment) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("payment id cannot be empty")
	}
	if !p.Status.IsValid() {
		return fmt.Errorf("invalid payment status: %s", p.Status)
	}
	if strings.TrimSpace(p.Method.Method) == "" {
		return fmt.Errorf("payment method cannot be empty")
	}
	if p.Timestamp.IsZero() {
		return fmt.Errorf("payment timestamp cannot be zero")
	}
	return nil
}

// DateKey returns the payment's transaction date as a calendar-day key
func (p *Payment) DateKey() string {
	return p.TransactionDate.Format(DateFormat)
}

// NormalizedAmount returns the 2dp-normalized payment amount
func (p *Payment) NormalizedAmount() decimal.Decimal {
	return NormalizeAmount(p.Amount)
}

// String returns a string representation of the Payment
func (p *Payment) String() string {
	return fmt.Sprintf("Payment{ID: %s, Amount: %s, Method: %s, Status: %s}",
		p.ID, p.Amount.String(), p.Method.Method, p.Status)
}

// CashDeposit is a bank-reported cash-till deposit, conceptually keyed by
// (program-territory location, deposit date). One deposit may represent the
// aggregate cash drop for a day.
type CashDeposit struct {
	ID           string          `json:"id"`
	PTLocationID int             `json:"pt_location_id"`
	DepositDate  time.Time       `json:"deposit_date"`
	Amount       decimal.Decimal `json:"deposit_amt_cdn"`
	Status       MatchStatus     `json:"status"`

	PaymentMatchIDs []string  `json:"payment_match_ids,omitempty"`
	ReconciledOn    time.Time `json:"reconciled_on,omitempty"`
	InProgressOn    time.Time `json:"in_progress_on,omitempty"`
}

// Validate performs basic validation on the CashDeposit
func (d *CashDeposit) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("cash deposit id cannot be empty")
	}
	if !d.Status.IsValid() {
		return fmt.Errorf("invalid cash deposit status: %s", d.Status)
	}
	if d.DepositDate.IsZero() {
		return fmt.Errorf("cash deposit date cannot be zero")
	}
	return nil
}

// NormalizedAmount returns the 2dp-normalized deposit amount
func (d *CashDeposit) NormalizedAmount() decimal.Decimal {
	return NormalizeAmount(d.Amount)
}

// String returns a string representation of the CashDeposit
func (d *CashDeposit) String() string {
	return fmt.Sprintf("CashDeposit{ID: %s, Amount: %s, Date: %s, Status: %s}",
		d.ID, d.Amount.String(), d.DepositDate.Format(DateFormat), d.Status)
}

// PosDeposit is a bank-reported card settlement batch, keyed by
// (merchant id, transaction date, payment method)
type PosDeposit struct {
	ID              string          `json:"id"`
	MerchantID      int             `json:"merchant_id"`
	TransactionDate time.Time       `json:"transaction_date"`
	Amount          decimal.Decimal `json:"transaction_amt"`
	Method          PaymentMethod   `json:"payment_method"`
	Status          MatchStatus     `json:"status"`
	Timestamp       time.Time       `json:"timestamp"`

	HeuristicRound  HeuristicRound `json:"heuristic_match_round,omitempty"`
	PaymentMatchIDs []string       `json:"payment_match_ids,omitempty"`

	ReconciledOn time.Time `json:"reconciled_on,omitempty"`
	InProgressOn time.Time `json:"in_progress_on,omitempty"`
}

// Validate performs basic validation on the PosDeposit
func (d *PosDeposit) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("pos deposit id cannot be empty")
	}
	if !d.Status.IsValid() {
		return fmt.Errorf("invalid pos deposit status: %s", d.Status)
	}
	if strings.TrimSpace(d.Method.Method) == "" {
		return fmt.Errorf("pos deposit payment method cannot be empty")
	}
	if d.TransactionDate.IsZero() {
		return fmt.Errorf("pos deposit transaction date cannot be zero")
	}
	return nil
}

// DateKey returns the deposit's transaction date as a calendar-day key
func (d *PosDeposit) DateKey() string {
	return d.TransactionDate.Format(DateFormat)
}

// NormalizedAmount returns the 2dp-normalized deposit amount
func (d *PosDeposit) NormalizedAmount() decimal.Decimal {
	return NormalizeAmount(d.Amount)
}

// MethodCode returns the deposit's payment method code
func (d *PosDeposit) MethodCode() string {
	return d.Method.Method
}

// CurrentStatus returns the deposit's match status
func (d *PosDeposit) CurrentStatus() MatchStatus {
	return d.Status
}

// String returns a string representation of the PosDeposit
func (d *PosDeposit) String() string {
	return fmt.Sprintf("PosDeposit{ID: %s, Amount: %s, Method: %s, Date: %s, Status: %s}",
		d.ID, d.Amount.String(), d.Method.Method, d.TransactionDate.Format(DateFormat), d.Status)
}

// AggregatedCashPayment is a run-scoped grouping of cash payments sharing a
// fiscal close date, with a summed amount. Never persisted; when a group
// matches, every constituent payment is updated individually.
type AggregatedCashPayment struct {
	LocationID int
	Date       time.Time
	Amount     decimal.Decimal
	Status     MatchStatus
	Payments   []*Payment
}

// HasCashMatch reports whether any constituent payment already carries a
// cash deposit link
func (a *AggregatedCashPayment) HasCashMatch() bool {
	for _, p := range a.Payments {
		if p.CashDepositMatchID != "" {
			return true
		}
	}
	return false
}

// AggregatedPosPayment is a run-scoped grouping of POS payments sharing
// (transaction date, method), with a summed amount
type AggregatedPosPayment struct {
	Date     time.Time
	Method   PaymentMethod
	Amount   decimal.Decimal
	Status   MatchStatus
	Payments []*Payment
}

// DateKey returns the group's transaction date as a calendar-day key
func (a *AggregatedPosPayment) DateKey() string {
	return a.Date.Format(DateFormat)
}

// AggregatedPosDeposit is a run-scoped grouping of POS deposits sharing
// (transaction date, method), with a summed amount
type AggregatedPosDeposit struct {
	Date     time.Time
	Method   PaymentMethod
	Amount   decimal.Decimal
	Status   MatchStatus
	Deposits []*PosDeposit
}

// DateKey returns the group's transaction date as a calendar-day key
func (a *AggregatedPosDeposit) DateKey() string {
	return a.Date.Format(DateFormat)
}

// NormalizedAmount returns the group's 2dp-normalized summed amount
func (a *AggregatedPosDeposit) NormalizedAmount() decimal.Decimal {
	return NormalizeAmount(a.Amount)
}

// MethodCode returns the group's payment method code
func (a *AggregatedPosDeposit) MethodCode() string {
	return a.Method.Method
}

// CurrentStatus returns the group's match status
func (a *AggregatedPosDeposit) CurrentStatus() MatchStatus {
	return a.Status
}

// DateRange bounds a reconciliation run
type DateRange struct {
	MinDate time.Time
	MaxDate time.Time
}

// Validate checks that the range is ordered
func (r DateRange) Validate() error {
	if r.MinDate.IsZero() || r.MaxDate.IsZero() {
		return fmt.Errorf("date range bounds cannot be zero")
	}
	if r.MaxDate.Before(r.MinDate) {
		return fmt.Errorf("date range max %s is before min %s",
			r.MaxDate.Format(DateFormat), r.MinDate.Format(DateFormat))
	}
	return nil
}
