// Package store provides the SQLite-backed implementation of the payment
// and deposit store contracts.
package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"revenue-reconciliation-service/internal/matcher"
	"revenue-reconciliation-service/internal/models"
	"revenue-reconciliation-service/internal/reconciler"
	svcerrors "revenue-reconciliation-service/pkg/errors"
)

var (
	_ reconciler.PaymentStore     = (*Store)(nil)
	_ reconciler.CashDepositStore = (*Store)(nil)
	_ reconciler.PosDepositStore  = (*Store)(nil)
)

// Store holds the database handle shared by all record operations
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path and applies
// the schema migrations
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, svcerrors.StoreError(svcerrors.CodeMigration, "open", err)
	}

	// SQLite allows one writer; the engine is batch-scoped anyway.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrations returns the schema migration statements.
// Each string is a single SQL statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS payments (
			id                    TEXT PRIMARY KEY,
			program               TEXT NOT NULL,
			amount                TEXT NOT NULL,
			method                TEXT NOT NULL,
			classification        TEXT NOT NULL,
			status                TEXT NOT NULL DEFAULT 'PENDING',
			location_id           INTEGER NOT NULL,
			transaction_date      TEXT NOT NULL,
			fiscal_close_date     TEXT,
			timestamp             TEXT NOT NULL,
			heuristic_round       INTEGER NOT NULL DEFAULT 0,
			pos_deposit_match_id  TEXT,
			cash_deposit_match_id TEXT,
			round_four_ids        TEXT,
			reconciled_on         TEXT,
			in_progress_on        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_scope
			ON payments(program, location_id, status, transaction_date)`,

		`CREATE TABLE IF NOT EXISTS cash_deposits (
			id                TEXT PRIMARY KEY,
			program           TEXT NOT NULL,
			pt_location_id    INTEGER NOT NULL,
			deposit_date      TEXT NOT NULL,
			amount            TEXT NOT NULL,
			status            TEXT NOT NULL DEFAULT 'PENDING',
			payment_match_ids TEXT,
			reconciled_on     TEXT,
			in_progress_on    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cash_deposits_scope
			ON cash_deposits(program, pt_location_id, status, deposit_date)`,

		`CREATE TABLE IF NOT EXISTS pos_deposits (
			id                TEXT PRIMARY KEY,
			program           TEXT NOT NULL,
			merchant_id       INTEGER NOT NULL,
			transaction_date  TEXT NOT NULL,
			amount            TEXT NOT NULL,
			method            TEXT NOT NULL,
			classification    TEXT NOT NULL,
			status            TEXT NOT NULL DEFAULT 'PENDING',
			timestamp         TEXT NOT NULL,
			heuristic_round   INTEGER NOT NULL DEFAULT 0,
			payment_match_ids TEXT,
			reconciled_on     TEXT,
			in_progress_on    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pos_deposits_scope
			ON pos_deposits(program, merchant_id, status, transaction_date)`,
	}
}

func (s *Store) migrate() error {
	for _, stmt := range Migrations() {
		if _, err := s.db.Exec(stmt); err != nil {
			return svcerrors.StoreError(svcerrors.CodeMigration, "migrate", err)
		}
	}
	return nil
}

// ----- payments -----

const paymentColumns = `id, program, amount, method, classification, status, location_id,
	transaction_date, fiscal_close_date, timestamp, heuristic_round,
	pos_deposit_match_id, cash_deposit_match_id, round_four_ids,
	reconciled_on, in_progress_on`

// InsertPayment stores a new payment record, generating an id when absent
func (s *Store) InsertPayment(ctx context.Context, program string, p *models.Payment) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := p.Validate(); err != nil {
		return svcerrors.StoreError(svcerrors.CodeBadRecord, "insert payment", err)
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO payments (`+paymentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, program, p.Amount.String(), p.Method.Method, string(p.Method.Classification),
		string(p.Status), p.LocationID, dateString(p.TransactionDate),
		dateString(p.FiscalCloseDate), timeString(p.Timestamp), int(p.HeuristicRound),
		p.PosDepositMatchID, p.CashDepositMatchID, strings.Join(p.RoundFourDepositIDs, ","),
		timeString(p.ReconciledOn), timeString(p.InProgressOn))
	if err != nil {
		return svcerrors.StoreError(svcerrors.CodeUpdateFailed, "insert payment", err)
	}
	return nil
}

// FindPosPayments returns POS-classified payments for a location in the
// date range with one of the given statuses, ordered by id for reproducible
// matching
func (s *Store) FindPosPayments(ctx context.Context, program string, dateRange models.DateRange, locationID int, statuses []models.MatchStatus) ([]*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments
		WHERE program = ? AND location_id = ? AND classification = ?
		AND transaction_date >= ? AND transaction_date <= ?
		AND status IN (` + statusPlaceholders(statuses) + `) ORDER BY id`

	args := []interface{}{program, locationID, string(models.ClassificationPOS),
		dateString(dateRange.MinDate), dateString(dateRange.MaxDate)}
	args = append(args, statusArgs(statuses)...)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, svcerrors.StoreError(svcerrors.CodeQueryFailed, "find pos payments", err)
	}
	defer rows.Close()

	return scanPayments(rows)
}

// FindAggregatedCashPayments loads cash-classified payments in range and
// returns them grouped per day with summed amounts
func (s *Store) FindAggregatedCashPayments(ctx context.Context, program string, dateRange models.DateRange, locationID int, statuses []models.MatchStatus) ([]*models.AggregatedCashPayment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments
		WHERE program = ? AND location_id = ? AND classification = ?
		AND transaction_date >= ? AND transaction_date <= ?
		AND status IN (` + statusPlaceholders(statuses) + `) ORDER BY id`

	args := []interface{}{program, locationID, string(models.ClassificationCash),
		dateString(dateRange.MinDate), dateString(dateRange.MaxDate)}
	args = append(args, statusArgs(statuses)...)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, svcerrors.StoreError(svcerrors.CodeQueryFailed, "find cash payments", err)
	}
	defer rows.Close()

	payments, err := scanPayments(rows)
	if err != nil {
		return nil, err
	}
	return matcher.AggregateCashPayments(payments), nil
}

// FindPaymentExceptions returns payments still unresolved with a
// transaction date strictly before the cutoff
func (s *Store) FindPaymentExceptions(ctx context.Context, cutoff time.Time, locationID int) ([]*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments
		WHERE location_id = ? AND transaction_date < ?
		AND status IN ('PENDING', 'IN_PROGRESS') ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, locationID, dateString(cutoff))
	if err != nil {
		return nil, svcerrors.StoreError(svcerrors.CodeQueryFailed, "find payment exceptions", err)
	}
	defer rows.Close()

	return scanPayments(rows)
}

// UpdatePayments upserts status, match-link, and timestamp fields for every
// payment in one transaction and returns the persisted records
func (s *Store) UpdatePayments(ctx context.Context, payments []*models.Payment) ([]*models.Payment, error) {
	if len(payments) == 0 {
		return payments, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, svcerrors.StoreError(svcerrors.CodeUpdateFailed, "update payments", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `UPDATE payments SET
		status = ?, heuristic_round = ?, pos_deposit_match_id = ?,
		cash_deposit_match_id = ?, round_four_ids = ?, reconciled_on = ?,
		in_progress_on = ? WHERE id = ?`)
	if err != nil {
		return nil, svcerrors.StoreError(svcerrors.CodeUpdateFailed, "update payments", err)
	}
	defer stmt.Close()

	for _, p := range payments {
		if _, err := stmt.ExecContext(ctx, string(p.Status), int(p.HeuristicRound),
			p.PosDepositMatchID, p.CashDepositMatchID,
			strings.Join(p.RoundFourDepositIDs, ","),
			timeString(p.ReconciledOn), timeString(p.InProgressOn), p.ID); err != nil {
			return nil, svcerrors.StoreError(svcerrors.CodeUpdateFailed, "update payments", err).
				WithContext("payment_id", p.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, svcerrors.StoreError(svcerrors.CodeUpdateFailed, "update payments", err)
	}
	return payments, nil
}

func scanPayments(rows *sql.Rows) ([]*models.Payment, error) {
	var out []*models.Payment
	for rows.Next() {
		var (
			p                          models.Payment
			program, amount            string
			classification             string
			status                     string
			txnDate, fiscalClose       string
			timestamp                  string
			round                      int
			posMatch, cashMatch        sql.NullString
			roundFourIDs               sql.NullString
			reconciledOn, inProgressOn sql.NullString
		)
		if err := rows.Scan(&p.ID, &program, &amount, &p.Method.Method, &classification,
			&status, &p.LocationID, &txnDate, &fiscalClose, &timestamp, &round,
			&posMatch, &cashMatch, &roundFourIDs, &reconciledOn, &inProgressOn); err != nil {
			return nil, svcerrors.StoreError(svcerrors.CodeBadRecord, "scan payment", err)
		}

		var err error
		if p.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, svcerrors.StoreError(svcerrors.CodeBadRecord, "scan payment", err)
		}
		p.Method.Classification = models.Classification(classification)
		p.Status = models.MatchStatus(status)
		p.HeuristicRound = models.HeuristicRound(round)
		p.PosDepositMatchID = posMatch.String
		p.CashDepositMatchID = cashMatch.String
		if roundFourIDs.String != "" {
			p.RoundFourDepositIDs = strings.Split(roundFourIDs.String, ",")
		}
		if p.TransactionDate, err = parseDate(txnDate); err != nil {
			return nil, svcerrors.StoreError(svcerrors.CodeBadRecord, "scan payment", err)
		}
		if p.FiscalCloseDate, err = parseDate(fiscalClose); err != nil {
			return nil, svcerrors.StoreError(svcerrors.CodeBadRecord, "scan payment", err)
		}
		if p.Timestamp, err = parseTime(timestamp); err != nil {
			return nil, svcerrors.StoreError(svcerrors.CodeBadRecord, "scan payment", err)
		}
		if p.ReconciledOn, err = parseTime(reconciledOn.String); err != nil {
			return nil, svcerrors.StoreError(svcerrors.CodeBadRecord, "scan payment", err)
		}
		if p.InProgressOn, err = parseTime(inProgressOn.String); err != nil {
			return nil, svcerrors.StoreError(svcerrors.CodeBadRecord, "scan payment", err)
		}

		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, svcerrors.StoreError(svcerrors.CodeQueryFailed, "scan payments", err)
	}
	return out, nil
}

// ----- cash deposits -----

const cashDepositColumns = `id, program, pt_location_id, deposit_date, amount, status,
	payment_match_ids, reconciled_on, in_progress_on`

// InsertCashDeposit stores a new cash deposit, generating an id when absent
func (s *Store) InsertCashDeposit(ctx context.Context, program string, d *models.CashDeposit) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if err := d.Validate(); err != nil {
		return svcerrors.StoreError(svcerrors.CodeBadRecord, "insert cash deposit", err)
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO cash_deposits (`+cashDepositColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, program, d.PTLocationID, dateString(d.DepositDate), d.Amount.String(),
		string(d.Status), strings.Join(d.PaymentMatchIDs, ","),
		timeString(d.ReconciledOn), timeString(d.InProgressOn))
	if err != nil {
		return svcerrors.StoreError(svcerrors.CodeUpdateFailed, "insert cash deposit", err)
	}
	return nil
}

// FindPendingCashDeposits returns cash deposits for a program territory
// location in the date range with one of the given statuses
func (s *Store) FindPendingCashDeposits(ctx context.Context, program string, dateRange models.DateRange, ptLocationID int, statuses []models.MatchStatus) ([]*models.CashDeposit, error) {
	query := `SELECT ` + cashDepositColumns + ` FROM cash_deposits
		WHERE program = ? AND pt_location_id = ?
		AND deposit_date >= ? AND deposit_date <= ?
		AND status IN (` + statusPlaceholders(statuses) + `) ORDER BY id`

	args := []interface{}{program, ptLocationID,
		dateString(dateRange.MinDate), dateString(dateRange.MaxDate)}
	args = append(args, statusArgs(statuses)...)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, svcerrors.StoreError(svcerrors.CodeQueryFailed, "find cash deposits", err)
	}
	defer rows.Close()

	return scanCashDeposits(rows)
}

// FindCashDepositExceptions returns cash deposits still unresolved with a
// deposit date strictly before the cutoff
func (s *Store) FindCashDepositExceptions(ctx context.Context, cutoff time.Time, ptLocationID int, program string) ([]*models.CashDeposit, error) {
	query := `SELECT ` + cashDepositColumns + ` FROM cash_deposits
		WHERE program = ? AND pt_location_id = ? AND deposit_date < ?
		AND status IN ('PENDING', 'IN_PROGRESS') ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, program, ptLocationID, dateString(cutoff))
	if err != nil {
		return nil, svcerrors.StoreError(svcerrors.CodeQueryFailed, "find cash deposit exceptions", err)
	}
	defer rows.Close()

	return scanCashDeposits(rows)
}

// UpdateCashDeposits upserts status, match-link, and timestamp fields in
// one transaction and returns the persisted records
func (s *Store) UpdateCashDeposits(ctx context.Context, deposits []*models.CashDeposit) ([]*models.CashDeposit, error) {
	if len(deposits) == 0 {
		return deposits, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, svcerrors.StoreError(svcerrors.CodeUpdateFailed, "update cash deposits", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `UPDATE cash_deposits SET
		status = ?, payment_match_ids = ?, reconciled_on = ?, in_progress_on = ?
		WHERE id = ?`)
	if err != nil {
		return nil, svcerrors.StoreError(svcerrors.CodeUpdateFailed, "update cash deposits", err)
	}
	defer stmt.Close()

	for _, d := range deposits {
		if _, err := stmt.ExecContext(ctx, string(d.Status),
			strings.Join(d.PaymentMatchIDs, ","),
			timeString(d.ReconciledOn), timeString(d.InProgressOn), d.ID); err != nil {
			return nil, svcerrors.StoreError(svcerrors.CodeUpdateFailed, "update cash deposits", err).
				WithContext("deposit_id", d.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, svcerrors.StoreError(svcerrors.CodeUpdateFailed, "update cash deposits", err)
	}
	return deposits, nil
}

func scanCashDeposits(rows *sql.Rows) ([]*models.CashDeposit, error) {
	var out []*models.CashDeposit
	for rows.Next() {
		var (
			d                          models.CashDeposit
			program, depositDate       string
			amount, status             string
			matchIDs                   sql.NullString
			reconciledOn, inProgressOn sql.NullString
		)
		if err := rows.Scan(&d.ID, &program, &d.PTLocationID, &depositDate,
			&amount, &status, &matchIDs, &reconciledOn, &inProgressOn); err != nil {
			return nil, svcerrors.StoreError(svcerrors.CodeBadRecord, "scan cash deposit", err)
		}

		var err error
		if d.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, svcerrors.StoreError(svcerrors.CodeBadRecord, "scan cash deposit", err)
		}
		d.Status = models.MatchStatus(status)
		if matchIDs.String != "" {
			d.PaymentMatchIDs = strings.Split(matchIDs.String, ",")
		}
		if d.DepositDate, err = parseDate(depositDate); err != nil {
			return nil, svcerrors.StoreError(svcerrors.CodeBadRecord, "scan cash deposit", err)
		}
		if d.ReconciledOn, err = parseTime(reconciledOn.String); err != nil {
			return nil, svcerrors.StoreError(svcerrors.CodeBadRecord, "scan cash deposit", err)
		}
		if d.InProgressOn, err = parseTime(inProgressOn.String); err != nil {
			return nil, svcerrors.StoreError(svcerrors.CodeBadRecord, "scan cash deposit", err)
		}

		out = append(out, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, svcerrors.StoreError(svcerrors.CodeQueryFailed, "scan cash deposits", err)
	}
	return out, nil
}

// ----- pos deposits -----

const posDepositColumns = `id, program, merchant_id, transaction_date, amount, method,
	classification, status, timestamp, heuristic_round, payment_match_ids,
	reconciled_on, in_progress_on`

// InsertPosDeposit stores a new POS deposit, generating an id when absent
func (s *Store) InsertPosDeposit(ctx context.Context, program string, d *models.PosDeposit) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if err := d.Validate(); err != nil {
		return svcerrors.StoreError(svcerrors.CodeBadRecord, "insert pos deposit", err)
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO pos_deposits (`+posDepositColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, program, d.MerchantID, dateString(d.TransactionDate), d.Amount.String(),
		d.Method.Method, string(d.Method.Classification), string(d.Status),
		timeString(d.Timestamp), int(d.HeuristicRound),
		strings.Join(d.PaymentMatchIDs, ","),
		timeString(d.ReconciledOn), timeString(d.InProgressOn))
	if err != nil {
		return svcerrors.StoreError(svcerrors.CodeUpdateFailed, "insert pos deposit", err)
	}
	return nil
}

// FindPendingPosDeposits returns POS deposits for the location's merchants
// in the date range with one of the given statuses
func (s *Store) FindPendingPosDeposits(ctx context.Context, program string, dateRange models.DateRange, merchantIDs []int, statuses []models.MatchStatus) ([]*models.PosDeposit, error) {
	if len(merchantIDs) == 0 {
		return nil, nil
	}

	query := `SELECT ` + posDepositColumns + ` FROM pos_deposits
		WHERE program = ? AND merchant_id IN (` + intPlaceholders(merchantIDs) + `)
		AND transaction_date >= ? AND transaction_date <= ?
		AND status IN (` + statusPlaceholders(statuses) + `) ORDER BY id`

	args := []interface{}{program}
	for _, id := range merchantIDs {
		args = append(args, id)
	}
	args = append(args, dateString(dateRange.MinDate), dateString(dateRange.MaxDate))
	args = append(args, statusArgs(statuses)...)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, svcerrors.StoreError(svcerrors.CodeQueryFailed, "find pos deposits", err)
	}
	defer rows.Close()

	return scanPosDeposits(rows)
}

// FindPosDepositExceptions returns POS deposits still unresolved with a
// transaction date strictly before the cutoff
func (s *Store) FindPosDepositExceptions(ctx context.Context, cutoff time.Time, merchantIDs []int, program string) ([]*models.PosDeposit, error) {
	if len(merchantIDs) == 0 {
		return nil, nil
	}

	query := `SELECT ` + posDepositColumns + ` FROM pos_deposits
		WHERE program = ? AND merchant_id IN (` + intPlaceholders(merchantIDs) + `)
		AND transaction_date < ?
		AND status IN ('PENDING', 'IN_PROGRESS') ORDER BY id`

	args := []interface{}{program}
	for _, id := range merchantIDs {
		args = append(args, id)
	}
	args = append(args, dateString(cutoff))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, svcerrors.StoreError(svcerrors.CodeQueryFailed, "find pos deposit exceptions", err)
	}
	defer rows.Close()

	return scanPosDeposits(rows)
}

// UpdatePosDeposits upserts status, match-link, and timestamp fields in one
// transaction and returns the persisted records
func (s *Store) UpdatePosDeposits(ctx context.Context, deposits []*models.PosDeposit) ([]*models.PosDeposit, error) {
	if len(deposits) == 0 {
		return deposits, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, svcerrors.StoreError(svcerrors.CodeUpdateFailed, "update pos deposits", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `UPDATE pos_deposits SET
		status = ?, heuristic_round = ?, payment_match_ids = ?,
		reconciled_on = ?, in_progress_on = ? WHERE id = ?`)
	if err != nil {
		return nil, svcerrors.StoreError(svcerrors.CodeUpdateFailed, "update pos deposits", err)
	}
	defer stmt.Close()

	for _, d := range deposits {
		if _, err := stmt.ExecContext(ctx, string(d.Status), int(d.HeuristicRound),
			strings.Join(d.PaymentMatchIDs, ","),
			timeString(d.ReconciledOn), timeString(d.InProgressOn), d.ID); err != nil {
			return nil, svcerrors.StoreError(svcerrors.CodeUpdateFailed, "update pos deposits", err).
				WithContext("deposit_id", d.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, svcerrors.StoreError(svcerrors.CodeUpdateFailed, "update pos deposits", err)
	}
	return deposits, nil
}

func scanPosDeposits(rows *sql.Rows) ([]*models.PosDeposit, error) {
	var out []*models.PosDeposit
	for rows.Next() {
		var (
			d                          models.PosDeposit
			program, txnDate           string
			amount, classification     string
			status, timestamp          string
			round                      int
			matchIDs                   sql.NullString
			reconciledOn, inProgressOn sql.NullString
		)
		if err := rows.Scan(&d.ID, &program, &d.MerchantID, &txnDate, &amount,
			&d.Method.Method, &classification, &status, &timestamp, &round,
			&matchIDs, &reconciledOn, &inProgressOn); err != nil {
			return nil, svcerrors.StoreError(svcerrors.CodeBadRecord, "scan pos deposit", err)
		}

		var err error
		if d.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, svcerrors.StoreError(svcerrors.CodeBadRecord, "scan pos deposit", err)
		}
		d.Method.Classification = models.Classification(classification)
		d.Status = models.MatchStatus(status)
		d.HeuristicRound = models.HeuristicRound(round)
		if matchIDs.String != "" {
			d.PaymentMatchIDs = strings.Split(matchIDs.String, ",")
		}
		if d.TransactionDate, err = parseDate(txnDate); err != nil {
			return nil, svcerrors.StoreError(svcerrors.CodeBadRecord, "scan pos deposit", err)
		}
		if d.Timestamp, err = parseTime(timestamp); err != nil {
			return nil, svcerrors.StoreError(svcerrors.CodeBadRecord, "scan pos deposit", err)
		}
		if d.ReconciledOn, err = parseTime(reconciledOn.String); err != nil {
			return nil, svcerrors.StoreError(svcerrors.CodeBadRecord, "scan pos deposit", err)
		}
		if d.InProgressOn, err = parseTime(inProgressOn.String); err != nil {
			return nil, svcerrors.StoreError(svcerrors.CodeBadRecord, "scan pos deposit", err)
		}

		out = append(out, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, svcerrors.StoreError(svcerrors.CodeQueryFailed, "scan pos deposits", err)
	}
	return out, nil
}

// ----- encoding helpers -----

func dateString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(models.DateFormat)
}

func timeString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseDate(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse(models.DateFormat, v)
}

func parseTime(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, v)
}

func statusPlaceholders(statuses []models.MatchStatus) string {
	return strings.TrimSuffix(strings.Repeat("?, ", len(statuses)), ", ")
}

func statusArgs(statuses []models.MatchStatus) []interface{} {
	args := make([]interface{}, 0, len(statuses))
	for _, st := range statuses {
		args = append(args, string(st))
	}
	return args
}

func intPlaceholders(ids []int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
}
