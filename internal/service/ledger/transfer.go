package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kwabena-dev/walletapi/internal/domain"
	"github.com/kwabena-dev/walletapi/internal/logging"
)

// Transfer moves amount from the sender's balance to the receiver's and
// appends the TransferRecord, all inside one transaction. Business-rule
// failures (missing account, self-transfer, insufficient funds) surface
// before any write; any failure after that rolls the whole unit back.
func (s *Service) Transfer(ctx context.Context, senderHandle, receiverHandle string, amount decimal.Decimal) (*domain.TransferRecord, error) {
	log := logging.FromContext(ctx)

	if !amount.IsPositive() {
		return nil, fmt.Errorf("Transfer: %w", domain.ErrInvalidAmount)
	}

	// Case-insensitive: checked before resolution so a self-transfer never
	// reports the receiver as missing instead.
	if strings.EqualFold(senderHandle, receiverHandle) {
		return nil, fmt.Errorf("Transfer: %w", domain.ErrSelfTransfer)
	}

	senderID, err := s.accounts.GetIDByHandle(ctx, senderHandle)
	if err != nil {
		return nil, fmt.Errorf("Transfer: sender: %w", err)
	}
	receiverID, err := s.accounts.GetIDByHandle(ctx, receiverHandle)
	if err != nil {
		return nil, fmt.Errorf("Transfer: receiver: %w", err)
	}

	if senderID == receiverID {
		return nil, fmt.Errorf("Transfer: %w", domain.ErrSelfTransfer)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Transfer: begin tx: %w", err)
	}
	defer tx.Rollback()

	locked, err := lockAccountsInOrder(ctx, tx, s.accounts, senderID, receiverID)
	if err != nil {
		return nil, fmt.Errorf("Transfer: %w", err)
	}
	sender, receiver := locked[senderID], locked[receiverID]

	// The boundary is <=, not <: draining the balance to exactly zero is
	// rejected as well.
	if sender.Balance.Cmp(amount) <= 0 {
		return nil, fmt.Errorf("Transfer: %w", domain.ErrInsufficientFunds)
	}

	record := &domain.TransferRecord{
		ID:             uuid.New(),
		Amount:         amount,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		SenderHandle:   sender.Handle,
		ReceiverHandle: receiver.Handle,
		CreatedAt:      now(),
	}

	if err := s.accounts.UpdateBalance(ctx, tx, senderID, sender.Balance.Sub(amount)); err != nil {
		return nil, fmt.Errorf("Transfer: debit sender: %w", err)
	}
	if err := s.accounts.UpdateBalance(ctx, tx, receiverID, receiver.Balance.Add(amount)); err != nil {
		return nil, fmt.Errorf("Transfer: credit receiver: %w", err)
	}
	if err := s.records.Append(ctx, tx, record); err != nil {
		return nil, fmt.Errorf("Transfer: append record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("Transfer: commit: %w", err)
	}

	s.invalidateBalances(ctx, senderID, receiverID)

	log.Info("transfer completed",
		"record_id", record.ID,
		"sender_id", senderID,
		"receiver_id", receiverID,
		"amount", amount.StringFixed(2),
	)

	return record, nil
}
