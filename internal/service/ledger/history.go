package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kwabena-dev/walletapi/internal/domain"
)

// ListTransfers returns one page of the account's transfer history, newest
// first. Page numbers are 1-indexed.
func (s *Service) ListTransfers(ctx context.Context, accountID uuid.UUID, filter domain.TransferFilter, page, limit int) (*domain.TransferPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	total, err := s.records.Count(ctx, accountID, filter)
	if err != nil {
		return nil, fmt.Errorf("ListTransfers: %w", err)
	}

	records, err := s.records.List(ctx, accountID, filter, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("ListTransfers: %w", err)
	}

	totalPages := (total + limit - 1) / limit

	return &domain.TransferPage{
		Records:    records,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}
