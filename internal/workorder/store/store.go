package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/tenantry/internal/workorder"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectWorkOrderColumns = `
	id, title, description, property_id, tenant_id, unit, category, priority, status,
	assigned_to, estimated_cost, actual_cost, due_date, submitted_date, completed_date,
	created_at, updated_at, deleted_at, request_id
`

func scanWorkOrder(s scanner) (*workorder.WorkOrder, error) {
	var (
		w                workorder.WorkOrder
		priority, status string
	)

	if err := s.Scan(
		&w.ID, &w.Title, &w.Description, &w.PropertyID, &w.TenantID, &w.Unit, &w.Category, &priority, &status,
		&w.AssignedTo, &w.EstimatedCost, &w.ActualCost, &w.DueDate, &w.SubmittedDate, &w.CompletedDate,
		&w.CreatedAt, &w.UpdatedAt, &w.DeletedAt, &w.RequestID,
	); err != nil {
		return nil, err
	}

	w.Priority = workorder.Priority(priority)
	w.Status = workorder.Status(status)

	return &w, nil
}

func (s *Store) CreateWorkOrder(ctx context.Context, w *workorder.WorkOrder) error {
	query := `
		INSERT INTO work_orders (title, description, property_id, tenant_id, unit, category, priority, status,
			assigned_to, estimated_cost, actual_cost, due_date, submitted_date, completed_date, request_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		w.Title, w.Description, w.PropertyID, w.TenantID, w.Unit, w.Category, w.Priority, w.Status,
		w.AssignedTo, w.EstimatedCost, w.ActualCost, w.DueDate, w.SubmittedDate, w.CompletedDate, w.RequestID,
	).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return workorder.ErrExists
		}

		return fmt.Errorf("creating work order: %w", err)
	}

	return nil
}

func (s *Store) GetWorkOrder(ctx context.Context, id uuid.UUID) (*workorder.WorkOrder, error) {
	query := `SELECT ` + selectWorkOrderColumns + ` FROM work_orders WHERE id = $1 AND deleted_at IS NULL`

	w, err := scanWorkOrder(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, workorder.ErrNotFound
		}

		return nil, fmt.Errorf("getting work order: %w", err)
	}

	return w, nil
}

func (s *Store) GetWorkOrderByRequest(ctx context.Context, requestID uuid.UUID) (*workorder.WorkOrder, error) {
	query := `SELECT ` + selectWorkOrderColumns + ` FROM work_orders WHERE request_id = $1 AND deleted_at IS NULL`

	w, err := scanWorkOrder(s.db.QueryRowContext(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, workorder.ErrNotFound
		}

		return nil, fmt.Errorf("getting work order by request: %w", err)
	}

	return w, nil
}

func (s *Store) ListWorkOrders(ctx context.Context, filter workorder.ListFilter) ([]*workorder.WorkOrder, error) {
	query := `SELECT ` + selectWorkOrderColumns + ` FROM work_orders WHERE deleted_at IS NULL`

	var args []any

	argIdx := 1

	if filter.PropertyID != nil {
		query += fmt.Sprintf(" AND property_id = $%d", argIdx)

		args = append(args, *filter.PropertyID)
		argIdx++
	}

	if filter.TenantID != nil {
		query += fmt.Sprintf(" AND tenant_id = $%d", argIdx)

		args = append(args, *filter.TenantID)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.Priority != nil {
		query += fmt.Sprintf(" AND priority = $%d", argIdx)

		args = append(args, *filter.Priority)
	}

	// Urgent first, then oldest.
	query += ` ORDER BY CASE priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END, submitted_date ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing work orders: %w", err)
	}
	defer rows.Close()

	var orders []*workorder.WorkOrder

	for rows.Next() {
		w, err := scanWorkOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning work order: %w", err)
		}

		orders = append(orders, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating work orders: %w", err)
	}

	return orders, nil
}

func (s *Store) UpdateWorkOrder(ctx context.Context, w *workorder.WorkOrder) error {
	query := `
		UPDATE work_orders
		SET title = $1, description = $2, property_id = $3, tenant_id = $4, unit = $5, category = $6,
			priority = $7, status = $8, assigned_to = $9, estimated_cost = $10, actual_cost = $11,
			due_date = $12, completed_date = $13, updated_at = NOW()
		WHERE id = $14 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query,
		w.Title, w.Description, w.PropertyID, w.TenantID, w.Unit, w.Category,
		w.Priority, w.Status, w.AssignedTo, w.EstimatedCost, w.ActualCost,
		w.DueDate, w.CompletedDate, w.ID,
	)
	if err != nil {
		return fmt.Errorf("updating work order: %w", err)
	}

	return expectOne(res)
}

func (s *Store) DeleteWorkOrder(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `UPDATE work_orders SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("deleting work order: %w", err)
	}

	return expectOne(res)
}

func (s *Store) CountActive(ctx context.Context) (workorder.Counts, error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE priority = 'urgent')
		FROM work_orders
		WHERE deleted_at IS NULL AND status IN ('open', 'in_progress')
	`

	var c workorder.Counts
	if err := s.db.QueryRowContext(ctx, query).Scan(&c.Pending, &c.Urgent); err != nil {
		return workorder.Counts{}, fmt.Errorf("counting work orders: %w", err)
	}

	return c, nil
}

func expectOne(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}

	if affected == 0 {
		return workorder.ErrNotFound
	}

	return nil
}
