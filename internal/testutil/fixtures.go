package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/kwabena-dev/walletapi/internal/domain"
)

func SeedAccount(t *testing.T, db *sql.DB, handle string, balance decimal.Decimal) *domain.Account {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	a := &domain.Account{
		ID:           uuid.New(),
		Handle:       handle,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: string(hash),
		Balance:      balance,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	_, err = db.Exec(
		`INSERT INTO account (id, handle, first_name, last_name, password_hash, balance, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.Handle, a.FirstName, a.LastName, a.PasswordHash, a.Balance, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seed account %s: %v", handle, err)
	}
	return a
}

func GetBalance(t *testing.T, db *sql.DB, accountID uuid.UUID) decimal.Decimal {
	t.Helper()

	var balance decimal.Decimal
	err := db.QueryRow(`SELECT balance FROM account WHERE id = $1`, accountID).Scan(&balance)
	if err != nil {
		t.Fatalf("get balance %s: %v", accountID, err)
	}
	return balance
}

func CountTransferRecords(t *testing.T, db *sql.DB, accountID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM transfer_record WHERE sender_id = $1 OR receiver_id = $1`,
		accountID,
	).Scan(&count)
	if err != nil {
		t.Fatalf("count transfer records for %s: %v", accountID, err)
	}
	return count
}

// SetRecordCreatedAt backdates a transfer record for date-filter tests.
func SetRecordCreatedAt(t *testing.T, db *sql.DB, recordID uuid.UUID, createdAt time.Time) {
	t.Helper()

	if _, err := db.Exec(
		`UPDATE transfer_record SET created_at = $1 WHERE id = $2`, createdAt, recordID,
	); err != nil {
		t.Fatalf("set record created_at: %v", err)
	}
}
