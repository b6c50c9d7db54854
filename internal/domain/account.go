package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is a user identity plus its wallet balance. Balance is only
// populated by the explicit balance-reading paths (GetWithBalance,
// GetForUpdate); the default projections leave it at zero.
type Account struct {
	ID           uuid.UUID
	Handle       string
	FirstName    string
	LastName     string
	PasswordHash string
	Balance      decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}
