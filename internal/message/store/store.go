package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tenantry/internal/message"
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

const selectMessageColumns = `
	id, tenant_id, property_id, unit, sender, sender_name, subject, body, type, status,
	maintenance, work_order_id, reply_to, read, approved_at, created_at
`

func scanMessage(s scanner) (*message.Message, error) {
	var (
		m                   message.Message
		sender, typ, status string
		maintenance         []byte
	)

	if err := s.Scan(
		&m.ID, &m.TenantID, &m.PropertyID, &m.Unit, &sender, &m.From, &m.Subject, &m.Body, &typ, &status,
		&maintenance, &m.WorkOrderID, &m.ReplyTo, &m.Read, &m.ApprovedAt, &m.CreatedAt,
	); err != nil {
		return nil, err
	}

	m.Sender = message.Sender(sender)
	m.Type = message.Type(typ)
	m.Status = message.Status(status)

	if len(maintenance) > 0 {
		m.Maintenance = &message.Maintenance{}
		if err := json.Unmarshal(maintenance, m.Maintenance); err != nil {
			return nil, fmt.Errorf("decoding maintenance details: %w", err)
		}
	}

	return &m, nil
}

func encodeMaintenance(m *message.Message) ([]byte, error) {
	if m.Maintenance == nil {
		return nil, nil
	}

	b, err := json.Marshal(m.Maintenance)
	if err != nil {
		return nil, fmt.Errorf("encoding maintenance details: %w", err)
	}

	return b, nil
}

func (s *Store) CreateMessage(ctx context.Context, m *message.Message) error {
	maintenance, err := encodeMaintenance(m)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO messages (tenant_id, property_id, unit, sender, sender_name, subject, body, type, status,
			maintenance, work_order_id, reply_to, read, approved_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
		RETURNING id, created_at
	`

	err = s.db.QueryRowContext(ctx, query,
		m.TenantID, m.PropertyID, m.Unit, m.Sender, m.From, m.Subject, m.Body, m.Type, m.Status,
		maintenance, m.WorkOrderID, m.ReplyTo, m.Read, m.ApprovedAt,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating message: %w", err)
	}

	return nil
}

func (s *Store) GetMessage(ctx context.Context, id uuid.UUID) (*message.Message, error) {
	query := `SELECT ` + selectMessageColumns + ` FROM messages WHERE id = $1`

	m, err := scanMessage(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, message.ErrNotFound
		}

		return nil, fmt.Errorf("getting message: %w", err)
	}

	return m, nil
}

func where(filter message.ListFilter) (string, []any) {
	var (
		clauses string
		args    []any
	)

	add := func(clause string, arg any) {
		args = append(args, arg)
		clauses += fmt.Sprintf(" AND "+clause, len(args))
	}

	if filter.TenantID != nil {
		add("tenant_id = $%d", *filter.TenantID)
	}

	if filter.Type != nil {
		add("type = $%d", *filter.Type)
	}

	if filter.Status != nil {
		add("status = $%d", *filter.Status)
	}

	if filter.Sender != nil {
		add("sender = $%d", *filter.Sender)
	}

	if filter.Unread {
		clauses += " AND NOT read"
	}

	return clauses, args
}

func (s *Store) ListMessages(ctx context.Context, filter message.ListFilter) ([]*message.Message, error) {
	clauses, args := where(filter)
	query := `SELECT ` + selectMessageColumns + ` FROM messages WHERE TRUE` + clauses + ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	var messages []*message.Message

	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}

		messages = append(messages, m)
	}

	return messages, rows.Err()
}

// ApproveRequest marks a pending maintenance request approved. It fails with
// ErrAlreadyApproved when another approval got there first.
func (s *Store) ApproveRequest(ctx context.Context, id, workOrderID uuid.UUID, at time.Time) error {
	query := `
		UPDATE messages
		SET status = $1, work_order_id = $2, approved_at = $3
		WHERE id = $4 AND status <> $1
	`

	res, err := s.db.ExecContext(ctx, query, message.StatusApproved, workOrderID, at, id)
	if err != nil {
		return fmt.Errorf("approving request: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}

	if n == 0 {
		return message.ErrAlreadyApproved
	}

	return nil
}

func (s *Store) MarkRead(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `UPDATE messages SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("marking message read: %w", err)
	}

	return expectOne(res)
}

func (s *Store) CountUnread(ctx context.Context, filter message.ListFilter) (int, error) {
	filter.Unread = true
	clauses, args := where(filter)

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages WHERE TRUE`+clauses, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting unread messages: %w", err)
	}

	return n, nil
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}

	if n == 0 {
		return message.ErrNotFound
	}

	return nil
}
