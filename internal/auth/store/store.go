package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tenantry/internal/auth"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) SaveCode(ctx context.Context, c *auth.LoginCode) error {
	query := `
		INSERT INTO login_codes (tenant_id, code_hash, expires_at, attempts, created_at)
		VALUES ($1, $2, $3, 0, NOW())
		ON CONFLICT (tenant_id) DO UPDATE
		SET code_hash = EXCLUDED.code_hash, expires_at = EXCLUDED.expires_at, attempts = 0, created_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, c.TenantID, c.Hash, c.ExpiresAt); err != nil {
		return fmt.Errorf("saving login code: %w", err)
	}

	return nil
}

func (s *Store) ClaimCode(ctx context.Context, tenantID uuid.UUID) (*auth.LoginCode, error) {
	query := `
		UPDATE login_codes SET attempts = attempts + 1
		WHERE tenant_id = $1
		RETURNING code_hash, expires_at, attempts
	`

	c := auth.LoginCode{TenantID: tenantID}

	err := s.db.QueryRowContext(ctx, query, tenantID).Scan(&c.Hash, &c.ExpiresAt, &c.Attempts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrNoCode
		}

		return nil, fmt.Errorf("claiming login code: %w", err)
	}

	return &c, nil
}

// DeleteCode removes the code only while it still has this hash.
func (s *Store) DeleteCode(ctx context.Context, tenantID uuid.UUID, hash []byte) error {
	query := `DELETE FROM login_codes WHERE tenant_id = $1 AND code_hash = $2`

	res, err := s.db.ExecContext(ctx, query, tenantID, hash)
	if err != nil {
		return fmt.Errorf("deleting login code: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting login code: %w", err)
	}

	if n == 0 {
		return auth.ErrNoCode
	}

	return nil
}
