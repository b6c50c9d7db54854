package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kwabena-dev/walletapi/internal/cache"
	"github.com/kwabena-dev/walletapi/internal/domain"
	"github.com/kwabena-dev/walletapi/internal/repository"
	"github.com/kwabena-dev/walletapi/internal/service"
	"github.com/kwabena-dev/walletapi/internal/service/ledger"
	"github.com/kwabena-dev/walletapi/internal/testutil"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRegister(t *testing.T) {
	db := testutil.SetupTestDB(t)
	accounts := repository.NewAccountRepository(db)
	svc := service.NewAccountService(accounts, cache.NewMemory(), time.Minute)
	ctx := context.Background()

	account, err := svc.Register(ctx, "alice", "Alice", "Mensah", "secret-pass-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", account.Handle)
	assert.Empty(t, account.PasswordHash, "password hash must not leave the service")

	// The stored hash verifies against the original password.
	stored, err := accounts.GetByHandleForAuth(ctx, "alice")
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret-pass-1")))

	_, err = svc.Register(ctx, "alice", "Other", "Person", "secret-pass-2")
	require.ErrorIs(t, err, domain.ErrHandleTaken)
}

func TestGetWithBalance_CachesRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mem := cache.NewMemory()
	accounts := repository.NewAccountRepository(db)
	svc := service.NewAccountService(accounts, mem, time.Minute)
	ctx := context.Background()

	seeded := testutil.SeedAccount(t, db, "alice", dec("500.00"))

	got, err := svc.GetWithBalance(ctx, seeded.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec("500.00")))

	// A direct DB write does not reach the cached read until the entry is
	// invalidated or expires; this is why the ledger must delete the key.
	_, err = db.Exec(`UPDATE account SET balance = 999 WHERE id = $1`, seeded.ID)
	require.NoError(t, err)

	cached, err := svc.GetWithBalance(ctx, seeded.ID)
	require.NoError(t, err)
	assert.True(t, cached.Balance.Equal(dec("500.00")))
}

func TestGetWithBalance_InvalidatedAfterTransfer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mem := cache.NewMemory()
	accounts := repository.NewAccountRepository(db)
	records := repository.NewTransferRecordRepository(db)
	accountSvc := service.NewAccountService(accounts, mem, time.Minute)
	ledgerSvc := ledger.NewService(accounts, records, mem, db)
	ctx := context.Background()

	sender := testutil.SeedAccount(t, db, "alice", dec("500.00"))
	receiver := testutil.SeedAccount(t, db, "bob", dec("0.00"))

	// Prime both cache entries.
	_, err := accountSvc.GetWithBalance(ctx, sender.ID)
	require.NoError(t, err)
	_, err = accountSvc.GetWithBalance(ctx, receiver.ID)
	require.NoError(t, err)

	_, err = ledgerSvc.Transfer(ctx, "alice", "bob", dec("100.00"))
	require.NoError(t, err)

	got, err := accountSvc.GetWithBalance(ctx, sender.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec("400.00")), "committed transfer must be visible through the cache")

	got, err = accountSvc.GetWithBalance(ctx, receiver.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec("100.00")))
}

func TestGetWithBalance_InvalidatedAfterTopUp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mem := cache.NewMemory()
	accounts := repository.NewAccountRepository(db)
	records := repository.NewTransferRecordRepository(db)
	accountSvc := service.NewAccountService(accounts, mem, time.Minute)
	ledgerSvc := ledger.NewService(accounts, records, mem, db)
	ctx := context.Background()

	seeded := testutil.SeedAccount(t, db, "alice", dec("500.00"))

	_, err := accountSvc.GetWithBalance(ctx, seeded.ID)
	require.NoError(t, err)

	_, err = ledgerSvc.IncrementBalance(ctx, seeded.ID, dec("50.00"))
	require.NoError(t, err)

	got, err := accountSvc.GetWithBalance(ctx, seeded.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec("550.00")))
}

func TestRemove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	accounts := repository.NewAccountRepository(db)
	svc := service.NewAccountService(accounts, cache.NewMemory(), time.Minute)
	ctx := context.Background()

	seeded := testutil.SeedAccount(t, db, "alice", dec("500.00"))

	require.NoError(t, svc.Remove(ctx, seeded.ID))

	_, err := svc.GetWithBalance(ctx, seeded.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	// The row survives the removal; only deleted_at is set.
	var count int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM account WHERE id = $1 AND deleted_at IS NOT NULL`, seeded.ID,
	).Scan(&count))
	assert.Equal(t, 1, count)

	require.ErrorIs(t, svc.Remove(ctx, seeded.ID), domain.ErrNotFound)
}
