package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kwabena-dev/walletapi/internal/domain"
)

type TransferRecordRepository struct {
	db *sql.DB
}

func NewTransferRecordRepository(db *sql.DB) *TransferRecordRepository {
	return &TransferRecordRepository{db: db}
}

// Append writes one immutable record inside the caller's transaction.
func (r *TransferRecordRepository) Append(ctx context.Context, tx *sql.Tx, record *domain.TransferRecord) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO transfer_record (id, amount, sender_id, receiver_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5)`,
		record.ID, record.Amount, record.SenderID, record.ReceiverID, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Append: %w", err)
	}
	return nil
}

func (r *TransferRecordRepository) List(ctx context.Context, accountID uuid.UUID, filter domain.TransferFilter, limit, offset int) ([]domain.TransferRecord, error) {
	where, args := transferPredicates(accountID, filter)

	args = append(args, limit, offset)
	query := `SELECT tr.id, tr.amount, tr.sender_id, tr.receiver_id, s.handle, rc.handle, tr.created_at
		FROM transfer_record tr
		JOIN account s ON s.id = tr.sender_id
		JOIN account rc ON rc.id = tr.receiver_id
		WHERE ` + where + fmt.Sprintf(`
		ORDER BY tr.created_at DESC
		LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	var records []domain.TransferRecord
	for rows.Next() {
		var rec domain.TransferRecord
		err := rows.Scan(&rec.ID, &rec.Amount, &rec.SenderID, &rec.ReceiverID,
			&rec.SenderHandle, &rec.ReceiverHandle, &rec.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("List: scan: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows: %w", err)
	}
	return records, nil
}

func (r *TransferRecordRepository) Count(ctx context.Context, accountID uuid.UUID, filter domain.TransferFilter) (int, error) {
	where, args := transferPredicates(accountID, filter)

	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*)
		FROM transfer_record tr
		JOIN account s ON s.id = tr.sender_id
		JOIN account rc ON rc.id = tr.receiver_id
		WHERE `+where, args...,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return total, nil
}

// transferPredicates composes the WHERE clause for a history query from the
// typed filter. Each optional field contributes exactly one predicate.
func transferPredicates(accountID uuid.UUID, f domain.TransferFilter) (string, []any) {
	conds := []string{"tr.deleted_at IS NULL"}
	args := []any{accountID}

	switch f.Direction {
	case domain.DirectionSent:
		conds = append(conds, "tr.sender_id = $1")
	case domain.DirectionReceived:
		conds = append(conds, "tr.receiver_id = $1")
	default:
		conds = append(conds, "(tr.sender_id = $1 OR tr.receiver_id = $1)")
	}

	if f.OtherPartyHandle != "" {
		args = append(args, f.OtherPartyHandle)
		conds = append(conds, fmt.Sprintf("(s.handle = $%d OR rc.handle = $%d)", len(args), len(args)))
	}
	if f.MinAmount != nil {
		args = append(args, *f.MinAmount)
		conds = append(conds, fmt.Sprintf("tr.amount >= $%d", len(args)))
	}
	if f.MaxAmount != nil {
		args = append(args, *f.MaxAmount)
		conds = append(conds, fmt.Sprintf("tr.amount <= $%d", len(args)))
	}
	if f.StartDate != nil {
		args = append(args, *f.StartDate)
		conds = append(conds, fmt.Sprintf("tr.created_at::date >= $%d::date", len(args)))
	}
	if f.EndDate != nil {
		args = append(args, *f.EndDate)
		conds = append(conds, fmt.Sprintf("tr.created_at::date <= $%d::date", len(args)))
	}

	return strings.Join(conds, " AND "), args
}
