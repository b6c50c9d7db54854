// Package ledger moves money between account balances. Every mutation runs
// as one transaction with row locks taken in a fixed order, so concurrent
// transfers over the same accounts serialize instead of losing updates.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kwabena-dev/walletapi/internal/cache"
	"github.com/kwabena-dev/walletapi/internal/domain"
	"github.com/kwabena-dev/walletapi/internal/logging"
)

type accountRepo interface {
	GetIDByHandle(ctx context.Context, handle string) (uuid.UUID, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, balance decimal.Decimal) error
}

type recordRepo interface {
	Append(ctx context.Context, tx *sql.Tx, record *domain.TransferRecord) error
	List(ctx context.Context, accountID uuid.UUID, filter domain.TransferFilter, limit, offset int) ([]domain.TransferRecord, error)
	Count(ctx context.Context, accountID uuid.UUID, filter domain.TransferFilter) (int, error)
}

type Service struct {
	accounts accountRepo
	records  recordRepo
	cache    cache.Cache
	db       *sql.DB
}

func NewService(accounts accountRepo, records recordRepo, c cache.Cache, db *sql.DB) *Service {
	return &Service{
		accounts: accounts,
		records:  records,
		cache:    c,
		db:       db,
	}
}

// lockAccountsInOrder acquires FOR UPDATE locks on the given accounts in
// ascending id order. Two transfers over the same pair always lock in the
// same sequence, which rules out a deadlock cycle.
func lockAccountsInOrder(ctx context.Context, tx *sql.Tx, accounts accountRepo, ids ...uuid.UUID) (map[uuid.UUID]*domain.Account, error) {
	sorted := make([]uuid.UUID, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].String() < sorted[j].String()
	})

	result := make(map[uuid.UUID]*domain.Account, len(ids))
	for _, id := range sorted {
		acct, err := accounts.GetForUpdate(ctx, tx, id)
		if err != nil {
			return nil, fmt.Errorf("lockAccountsInOrder: %w", err)
		}
		result[id] = acct
	}
	return result, nil
}

// invalidateBalances drops the cached balances right after commit. A failed
// delete cannot undo the committed transfer, so it is logged and the cached
// entry is left to expire by TTL.
func (s *Service) invalidateBalances(ctx context.Context, ids ...uuid.UUID) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = cache.AccountKey(id)
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		logging.FromContext(ctx).Error("balance cache invalidation failed", "error", err, "keys", keys)
	}
}

func now() time.Time {
	return time.Now().UTC()
}
