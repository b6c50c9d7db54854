package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kwabena-dev/walletapi/internal/domain"
	"github.com/kwabena-dev/walletapi/internal/logging"
)

// IncrementBalance adds amount to a single account under its row lock.
// This is the top-up path: no counterpart debit exists and no
// TransferRecord is written.
func (s *Service) IncrementBalance(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (*domain.Account, error) {
	log := logging.FromContext(ctx)

	if !amount.IsPositive() {
		return nil, fmt.Errorf("IncrementBalance: %w", domain.ErrInvalidAmount)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("IncrementBalance: begin tx: %w", err)
	}
	defer tx.Rollback()

	account, err := s.accounts.GetForUpdate(ctx, tx, accountID)
	if err != nil {
		return nil, fmt.Errorf("IncrementBalance: %w", err)
	}

	account.Balance = account.Balance.Add(amount)
	if err := s.accounts.UpdateBalance(ctx, tx, accountID, account.Balance); err != nil {
		return nil, fmt.Errorf("IncrementBalance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("IncrementBalance: commit: %w", err)
	}

	s.invalidateBalances(ctx, accountID)

	log.Info("balance incremented",
		"account_id", accountID,
		"amount", amount.StringFixed(2),
	)

	return account, nil
}
