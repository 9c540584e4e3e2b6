package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tenantry/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

const selectTransactionColumns = `
	t.id, t.amount, t.type, t.status, t.category, t.description, t.raw_description, t.date,
	t.property_id, t.tenant_id, t.unit, t.receipt_id, r.url AS receipt_url, r.created_at AS receipt_created_at,
	t.created_at, t.updated_at, t.deleted_at
`

const fromTransactions = `
	FROM transactions t
	LEFT JOIN receipts r ON t.receipt_id = r.id
	WHERE t.deleted_at IS NULL`

func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var (
		tx                  transaction.Transaction
		typ, status         string
		rawDesc, receiptURL sql.NullString
		receiptCreatedAt    sql.NullTime
	)

	if err := s.Scan(
		&tx.ID, &tx.Amount, &typ, &status, &tx.Category, &tx.Description, &rawDesc, &tx.Date,
		&tx.PropertyID, &tx.TenantID, &tx.Unit, &tx.ReceiptID, &receiptURL, &receiptCreatedAt,
		&tx.CreatedAt, &tx.UpdatedAt, &tx.DeletedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = transaction.Type(typ)
	tx.Status = transaction.Status(status)
	tx.RawDescription = rawDesc.String

	if receiptURL.Valid && tx.ReceiptID != nil {
		tx.Receipt = &transaction.Receipt{
			ID:        *tx.ReceiptID,
			URL:       receiptURL.String,
			CreatedAt: receiptCreatedAt.Time,
		}
	}

	return &tx, nil
}

const insertTransaction = `
	INSERT INTO transactions (amount, type, status, category, description, raw_description, date,
		property_id, tenant_id, unit, receipt_id, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	RETURNING id, created_at, updated_at
`

func insertArgs(tx *transaction.Transaction) []any {
	return []any{
		tx.Amount, tx.Type, tx.Status, tx.Category, tx.Description, tx.RawDescription, tx.Date,
		tx.PropertyID, tx.TenantID, tx.Unit, tx.ReceiptID,
	}
}

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	err := s.db.QueryRowContext(ctx, insertTransaction, insertArgs(tx)...).
		Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + fromTransactions + ` AND t.id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

// where renders filter as AND clauses appended to fromTransactions.
func where(filter transaction.ListFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)

	add := func(expr string, v any) {
		args = append(args, v)
		clauses = append(clauses, fmt.Sprintf(expr, len(args)))
	}

	if filter.Status != nil {
		add("t.status = $%d", *filter.Status)
	}

	if filter.Type != nil {
		add("t.type = $%d", *filter.Type)
	}

	if filter.Category != nil {
		add("t.category = $%d", *filter.Category)
	}

	if filter.PropertyID != nil {
		add("t.property_id = $%d", *filter.PropertyID)
	}

	if filter.TenantID != nil {
		add("t.tenant_id = $%d", *filter.TenantID)
	}

	if filter.StartDate != nil {
		add("t.date >= $%d", *filter.StartDate)
	}

	if filter.EndDate != nil {
		add("t.date <= $%d", *filter.EndDate)
	}

	if len(clauses) == 0 {
		return "", nil
	}

	return " AND " + strings.Join(clauses, " AND "), args
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	cond, args := where(filter)
	query := `SELECT ` + selectTransactionColumns + fromTransactions + cond + ` ORDER BY t.date DESC, t.created_at DESC`

	return list(ctx, s.db, query, args...)
}

func list(ctx context.Context, q queryer, query string, args ...any) ([]*transaction.Transaction, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func (s *Store) SumByType(ctx context.Context, filter transaction.ListFilter) (transaction.Totals, error) {
	cond, args := where(filter)
	query := `SELECT
		COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'income'), 0),
		COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'expense'), 0)` + fromTransactions + cond

	var totals transaction.Totals
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&totals.Income, &totals.Expense); err != nil {
		return transaction.Totals{}, fmt.Errorf("summing transactions: %w", err)
	}

	return totals, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		UPDATE transactions
		SET amount = $1, type = $2, status = $3, category = $4, description = $5,
			property_id = $6, tenant_id = $7, unit = $8, updated_at = NOW()
		WHERE id = $9 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query,
		tx.Amount, tx.Type, tx.Status, tx.Category, tx.Description,
		tx.PropertyID, tx.TenantID, tx.Unit, tx.ID,
	)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	return expectOne(res)
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status transaction.Status) error {
	query := `UPDATE transactions SET status = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`

	res, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	return expectOne(res)
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE transactions SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return expectOne(res)
}

func expectOne(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}

	if affected == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

// AttachReceipt upserts the receipt by URL, links it and marks the entry
// completed in one database transaction.
func (s *Store) AttachReceipt(ctx context.Context, id uuid.UUID, receiptURL string) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	var receiptID uuid.UUID

	err = dbTx.QueryRowContext(ctx, `
		INSERT INTO receipts (url)
		VALUES ($1)
		ON CONFLICT (url) DO UPDATE SET url = EXCLUDED.url
		RETURNING id
	`, receiptURL).Scan(&receiptID)
	if err != nil {
		return fmt.Errorf("upserting receipt: %w", err)
	}

	res, err := dbTx.ExecContext(ctx, `
		UPDATE transactions
		SET receipt_id = $1, status = $2, updated_at = NOW()
		WHERE id = $3 AND deleted_at IS NULL
	`, receiptID, transaction.StatusCompleted, id)
	if err != nil {
		return fmt.Errorf("linking receipt: %w", err)
	}

	if err := expectOne(res); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing receipt: %w", err)
	}

	return nil
}

// importLockKey maps a date range onto a pg advisory lock so overlapping
// uploads of the same statement serialize.
func importLockKey(minDate, maxDate time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte(minDate.Format(time.DateOnly)))
	h.Write([]byte{0})
	h.Write([]byte(maxDate.Format(time.DateOnly)))

	return int64(h.Sum64())
}

type importTx struct {
	tx *sql.Tx
}

func (s *Store) BeginImport(ctx context.Context, minDate, maxDate time.Time) (transaction.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", importLockKey(minDate, maxDate)); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring import lock: %w", err)
	}

	return &importTx{tx: dbTx}, nil
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

// FindDuplicates returns stored entries in the batch's date range whose date,
// amount, type and raw description match one of params.
func (itx *importTx) FindDuplicates(ctx context.Context, params []transaction.CreateParams) ([]*transaction.Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	type key struct {
		date   string
		amount int64
		typ    transaction.Type
		raw    string
	}

	keyOf := func(d time.Time, amount int64, typ transaction.Type, raw string) key {
		return key{d.Format(time.DateOnly), amount, typ, strings.ToLower(strings.TrimSpace(raw))}
	}

	minDate, maxDate := params[0].Date, params[0].Date
	wanted := make(map[key]struct{}, len(params))

	for _, p := range params {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}

		wanted[keyOf(p.Date, p.Amount, p.Type, p.RawDescription)] = struct{}{}
	}

	query := `SELECT ` + selectTransactionColumns + fromTransactions + ` AND t.date >= $1 AND t.date <= $2 ORDER BY t.date ASC`

	candidates, err := list(ctx, itx.tx, query, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("finding duplicates: %w", err)
	}

	var duplicates []*transaction.Transaction

	for _, tx := range candidates {
		if _, ok := wanted[keyOf(tx.Date, tx.Amount, tx.Type, tx.RawDescription)]; ok {
			duplicates = append(duplicates, tx)
		}
	}

	return duplicates, nil
}

func (itx *importTx) CreateTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	for _, tx := range txs {
		err := itx.tx.QueryRowContext(ctx, insertTransaction, insertArgs(tx)...).
			Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
		if err != nil {
			return fmt.Errorf("creating transaction: %w", err)
		}
	}

	return nil
}
