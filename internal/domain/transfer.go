package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransferDirection string

const (
	DirectionSent     TransferDirection = "SENT"
	DirectionReceived TransferDirection = "RECEIVED"
)

func (d TransferDirection) IsValid() bool {
	return d == DirectionSent || d == DirectionReceived
}

// TransferRecord is one completed transfer. Records are append-only: they
// are written once inside the transfer transaction and never mutated.
type TransferRecord struct {
	ID             uuid.UUID
	Amount         decimal.Decimal
	SenderID       uuid.UUID
	ReceiverID     uuid.UUID
	SenderHandle   string
	ReceiverHandle string
	CreatedAt      time.Time
}

// TransferFilter narrows a transfer history query. Zero-valued fields are
// not applied. Amount and date bounds are inclusive; dates match on the
// calendar day of the record's creation time.
type TransferFilter struct {
	Direction        TransferDirection
	OtherPartyHandle string
	MinAmount        *decimal.Decimal
	MaxAmount        *decimal.Decimal
	StartDate        *time.Time
	EndDate          *time.Time
}

// TransferPage is one page of history results, newest first.
type TransferPage struct {
	Records    []TransferRecord
	Total      int
	Page       int
	TotalPages int
}
