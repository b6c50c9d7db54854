package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kwabena-dev/walletapi/internal/auth"
	"github.com/kwabena-dev/walletapi/internal/domain"
	"github.com/kwabena-dev/walletapi/internal/logging"
)

type ledgerService interface {
	Transfer(ctx context.Context, senderHandle, receiverHandle string, amount decimal.Decimal) (*domain.TransferRecord, error)
	ListTransfers(ctx context.Context, accountID uuid.UUID, filter domain.TransferFilter, page, limit int) (*domain.TransferPage, error)
}

type TransferHandler struct {
	ledger ledgerService
}

func NewTransferHandler(ledger ledgerService) *TransferHandler {
	return &TransferHandler{ledger: ledger}
}

type createTransferRequest struct {
	ReceiverHandle string          `json:"receiver_handle"`
	Amount         decimal.Decimal `json:"amount"`
}

func (r createTransferRequest) Validate() []FieldError {
	var errs []FieldError
	if r.ReceiverHandle == "" {
		errs = append(errs, FieldError{Field: "receiver_handle", Message: "required"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, FieldError{Field: "amount", Message: "must be greater than zero"})
	} else if r.Amount.Exponent() < -2 {
		errs = append(errs, FieldError{Field: "amount", Message: "at most 2 decimal places"})
	}
	return errs
}

type transferDTO struct {
	ID             uuid.UUID `json:"id"`
	Amount         string    `json:"amount"`
	SenderHandle   string    `json:"sender_handle"`
	ReceiverHandle string    `json:"receiver_handle"`
	CreatedAt      time.Time `json:"created_at"`
}

func toTransferDTO(rec *domain.TransferRecord) transferDTO {
	return transferDTO{
		ID:             rec.ID,
		Amount:         rec.Amount.StringFixed(2),
		SenderHandle:   rec.SenderHandle,
		ReceiverHandle: rec.ReceiverHandle,
		CreatedAt:      rec.CreatedAt,
	}
}

func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req createTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	record, err := h.ledger.Transfer(r.Context(), claims.Handle, req.ReceiverHandle, req.Amount)
	if err != nil {
		logging.FromContext(r.Context()).Error("transfer failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toTransferDTO(record))
}

type transferPageDTO struct {
	Records    []transferDTO `json:"records"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
}

func (h *TransferHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	filter, page, limit, fields := parseListQuery(r)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	result, err := h.ledger.ListTransfers(r.Context(), claims.UserID, filter, page, limit)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list transfers", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]transferDTO, len(result.Records))
	for i := range result.Records {
		dtos[i] = toTransferDTO(&result.Records[i])
	}

	RespondSuccess(w, http.StatusOK, transferPageDTO{
		Records:    dtos,
		Total:      result.Total,
		Page:       result.Page,
		TotalPages: result.TotalPages,
	})
}

func parseListQuery(r *http.Request) (domain.TransferFilter, int, int, []FieldError) {
	var (
		filter domain.TransferFilter
		fields []FieldError
	)

	q := r.URL.Query()

	page := 1
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			fields = append(fields, FieldError{Field: "page", Message: "must be a positive integer"})
		} else {
			page = n
		}
	}

	limit := 10
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			fields = append(fields, FieldError{Field: "limit", Message: "must be a positive integer"})
		} else {
			limit = n
		}
	}

	if raw := q.Get("type"); raw != "" {
		direction := domain.TransferDirection(raw)
		if !direction.IsValid() {
			fields = append(fields, FieldError{Field: "type", Message: "must be SENT or RECEIVED"})
		} else {
			filter.Direction = direction
		}
	}

	filter.OtherPartyHandle = q.Get("other_party_handle")

	if raw := q.Get("min_amount"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			fields = append(fields, FieldError{Field: "min_amount", Message: "must be a decimal number"})
		} else {
			filter.MinAmount = &d
		}
	}
	if raw := q.Get("max_amount"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			fields = append(fields, FieldError{Field: "max_amount", Message: "must be a decimal number"})
		} else {
			filter.MaxAmount = &d
		}
	}

	if raw := q.Get("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			fields = append(fields, FieldError{Field: "start_date", Message: "must be YYYY-MM-DD"})
		} else {
			filter.StartDate = &t
		}
	}
	if raw := q.Get("end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			fields = append(fields, FieldError{Field: "end_date", Message: "must be YYYY-MM-DD"})
		} else {
			filter.EndDate = &t
		}
	}

	return filter, page, limit, fields
}
