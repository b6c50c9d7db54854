package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/kwabena-dev/walletapi/internal/domain"
)

// Default projection deliberately excludes balance and password_hash; both
// are sensitive and must be requested through the explicit methods below.
const accountColumns = `id, handle, first_name, last_name, created_at, updated_at`

const accountBalanceColumns = `id, handle, first_name, last_name, balance, created_at, updated_at`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO account (id, handle, first_name, last_name, password_hash, balance, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		account.ID, account.Handle, account.FirstName, account.LastName,
		account.PasswordHash, account.Balance, account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("Create: %w", domain.ErrHandleTaken)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM account WHERE id = $1 AND deleted_at IS NULL`, id,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) GetByHandle(ctx context.Context, handle string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM account WHERE handle = $1 AND deleted_at IS NULL`, handle,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByHandle: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByHandle: %w", err)
	}
	return a, nil
}

// GetByHandleForAuth is the login path: it is the only read that returns
// the password hash.
func (r *AccountRepository) GetByHandleForAuth(ctx context.Context, handle string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+`, password_hash FROM account WHERE handle = $1 AND deleted_at IS NULL`, handle,
	)
	var a domain.Account
	err := row.Scan(&a.ID, &a.Handle, &a.FirstName, &a.LastName, &a.CreatedAt, &a.UpdatedAt, &a.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByHandleForAuth: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByHandleForAuth: %w", err)
	}
	return &a, nil
}

func (r *AccountRepository) GetIDByHandle(ctx context.Context, handle string) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM account WHERE handle = $1 AND deleted_at IS NULL`, handle,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, fmt.Errorf("GetIDByHandle: %w", domain.ErrNotFound)
		}
		return uuid.Nil, fmt.Errorf("GetIDByHandle: %w", err)
	}
	return id, nil
}

// GetWithBalance explicitly opts in to reading the balance column.
func (r *AccountRepository) GetWithBalance(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountBalanceColumns+` FROM account WHERE id = $1 AND deleted_at IS NULL`, id,
	)
	a, err := scanAccountWithBalance(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetWithBalance: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetWithBalance: %w", err)
	}
	return a, nil
}

// GetForUpdate takes a row-level exclusive lock held until the enclosing
// transaction commits or rolls back. It is the only read the ledger uses
// before mutating a balance.
func (r *AccountRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Account, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+accountBalanceColumns+` FROM account WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`, id,
	)
	a, err := scanAccountWithBalance(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) UpdateBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, balance decimal.Decimal) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE account SET balance = $1, updated_at = now() WHERE id = $2 AND deleted_at IS NULL`,
		balance, id,
	)
	if err != nil {
		return fmt.Errorf("UpdateBalance: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateBalance: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdateBalance: %w", domain.ErrNotFound)
	}
	return nil
}

// SoftDelete marks the account removed. Rows are never hard-deleted while
// transfer records reference them.
func (r *AccountRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE account SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("SoftDelete: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("SoftDelete: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("SoftDelete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanAccount(s scanner) (*domain.Account, error) {
	var a domain.Account
	err := s.Scan(&a.ID, &a.Handle, &a.FirstName, &a.LastName, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func scanAccountWithBalance(s scanner) (*domain.Account, error) {
	var a domain.Account
	err := s.Scan(&a.ID, &a.Handle, &a.FirstName, &a.LastName, &a.Balance, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
