package ledger_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwabena-dev/walletapi/internal/domain"
	"github.com/kwabena-dev/walletapi/internal/testutil"
)

func TestListTransfers_Pagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedger(t, db)
	ctx := context.Background()

	sender := testutil.SeedAccount(t, db, "alice", dec("10000.00"))
	testutil.SeedAccount(t, db, "bob", dec("0.00"))

	for range 25 {
		_, err := svc.Transfer(ctx, "alice", "bob", dec("1.00"))
		require.NoError(t, err)
	}

	page, err := svc.ListTransfers(ctx, sender.ID, domain.TransferFilter{}, 2, 10)
	require.NoError(t, err)

	assert.Len(t, page.Records, 10)
	assert.Equal(t, 25, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.TotalPages)

	last, err := svc.ListTransfers(ctx, sender.ID, domain.TransferFilter{}, 3, 10)
	require.NoError(t, err)
	assert.Len(t, last.Records, 5)
}

func TestListTransfers_NewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedger(t, db)
	ctx := context.Background()

	sender := testutil.SeedAccount(t, db, "alice", dec("1000.00"))
	testutil.SeedAccount(t, db, "bob", dec("0.00"))

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := range 3 {
		rec, err := svc.Transfer(ctx, "alice", "bob", dec(fmt.Sprintf("%d.00", i+1)))
		require.NoError(t, err)
		testutil.SetRecordCreatedAt(t, db, rec.ID, base.AddDate(0, 0, i))
	}

	page, err := svc.ListTransfers(ctx, sender.ID, domain.TransferFilter{}, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Records, 3)

	assert.True(t, page.Records[0].Amount.Equal(dec("3.00")))
	assert.True(t, page.Records[1].Amount.Equal(dec("2.00")))
	assert.True(t, page.Records[2].Amount.Equal(dec("1.00")))
}

func TestListTransfers_DirectionFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedger(t, db)
	ctx := context.Background()

	alice := testutil.SeedAccount(t, db, "alice", dec("1000.00"))
	testutil.SeedAccount(t, db, "bob", dec("1000.00"))

	_, err := svc.Transfer(ctx, "alice", "bob", dec("10.00"))
	require.NoError(t, err)
	_, err = svc.Transfer(ctx, "bob", "alice", dec("20.00"))
	require.NoError(t, err)

	sent, err := svc.ListTransfers(ctx, alice.ID, domain.TransferFilter{Direction: domain.DirectionSent}, 1, 10)
	require.NoError(t, err)
	require.Len(t, sent.Records, 1)
	assert.True(t, sent.Records[0].Amount.Equal(dec("10.00")))
	assert.Equal(t, alice.ID, sent.Records[0].SenderID)

	received, err := svc.ListTransfers(ctx, alice.ID, domain.TransferFilter{Direction: domain.DirectionReceived}, 1, 10)
	require.NoError(t, err)
	require.Len(t, received.Records, 1)
	assert.True(t, received.Records[0].Amount.Equal(dec("20.00")))
	assert.Equal(t, alice.ID, received.Records[0].ReceiverID)

	both, err := svc.ListTransfers(ctx, alice.ID, domain.TransferFilter{}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, both.Records, 2)
}

func TestListTransfers_AmountBoundsInclusive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedger(t, db)
	ctx := context.Background()

	alice := testutil.SeedAccount(t, db, "alice", dec("1000.00"))
	testutil.SeedAccount(t, db, "bob", dec("0.00"))

	for _, amount := range []string{"10.00", "20.00", "30.00"} {
		_, err := svc.Transfer(ctx, "alice", "bob", dec(amount))
		require.NoError(t, err)
	}

	min := dec("10.00")
	max := dec("20.00")
	page, err := svc.ListTransfers(ctx, alice.ID, domain.TransferFilter{
		MinAmount: &min,
		MaxAmount: &max,
	}, 1, 10)
	require.NoError(t, err)

	// Both bounds are inclusive.
	assert.Len(t, page.Records, 2)
	assert.Equal(t, 2, page.Total)
}

func TestListTransfers_CounterpartyFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedger(t, db)
	ctx := context.Background()

	alice := testutil.SeedAccount(t, db, "alice", dec("1000.00"))
	testutil.SeedAccount(t, db, "bob", dec("0.00"))
	testutil.SeedAccount(t, db, "carol", dec("0.00"))

	_, err := svc.Transfer(ctx, "alice", "bob", dec("10.00"))
	require.NoError(t, err)
	_, err = svc.Transfer(ctx, "alice", "carol", dec("20.00"))
	require.NoError(t, err)

	page, err := svc.ListTransfers(ctx, alice.ID, domain.TransferFilter{OtherPartyHandle: "carol"}, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "carol", page.Records[0].ReceiverHandle)
}

func TestListTransfers_DateRangeInclusive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedger(t, db)
	ctx := context.Background()

	alice := testutil.SeedAccount(t, db, "alice", dec("1000.00"))
	testutil.SeedAccount(t, db, "bob", dec("0.00"))

	days := []time.Time{
		time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC),
		time.Date(2026, 3, 2, 23, 59, 0, 0, time.UTC),
		time.Date(2026, 3, 5, 0, 1, 0, 0, time.UTC),
	}
	for i, day := range days {
		rec, err := svc.Transfer(ctx, "alice", "bob", dec(fmt.Sprintf("%d.00", i+1)))
		require.NoError(t, err)
		testutil.SetRecordCreatedAt(t, db, rec.ID, day)
	}

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	page, err := svc.ListTransfers(ctx, alice.ID, domain.TransferFilter{
		StartDate: &start,
		EndDate:   &end,
	}, 1, 10)
	require.NoError(t, err)

	// Date matching is day-granular and inclusive: a record late on the
	// end date still matches.
	assert.Len(t, page.Records, 2)

	onlyStart, err := svc.ListTransfers(ctx, alice.ID, domain.TransferFilter{StartDate: &end}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, onlyStart.Records, 2)
}

func TestListTransfers_RoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedger(t, db)
	ctx := context.Background()

	alice := testutil.SeedAccount(t, db, "alice", dec("1000.00"))
	bob := testutil.SeedAccount(t, db, "bob", dec("0.00"))

	created, err := svc.Transfer(ctx, "alice", "bob", dec("123.45"))
	require.NoError(t, err)

	page, err := svc.ListTransfers(ctx, alice.ID, domain.TransferFilter{}, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Records, 1)

	got := page.Records[0]
	assert.Equal(t, created.ID, got.ID)
	assert.True(t, got.Amount.Equal(dec("123.45")))
	assert.Equal(t, alice.ID, got.SenderID)
	assert.Equal(t, bob.ID, got.ReceiverID)
	assert.Equal(t, "alice", got.SenderHandle)
	assert.Equal(t, "bob", got.ReceiverHandle)
	assert.WithinDuration(t, created.CreatedAt, got.CreatedAt, time.Second)
}
