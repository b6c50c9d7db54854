package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kwabena-dev/walletapi/internal/auth"
	"github.com/kwabena-dev/walletapi/internal/domain"
	"github.com/kwabena-dev/walletapi/internal/logging"
)

type accountService interface {
	GetWithBalance(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

type balanceIncrementer interface {
	IncrementBalance(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (*domain.Account, error)
}

type AccountHandler struct {
	accounts accountService
	ledger   balanceIncrementer
}

func NewAccountHandler(accounts accountService, ledger balanceIncrementer) *AccountHandler {
	return &AccountHandler{accounts: accounts, ledger: ledger}
}

type accountDTO struct {
	ID        uuid.UUID `json:"id"`
	Handle    string    `json:"handle"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

func toAccountDTO(a *domain.Account) accountDTO {
	return accountDTO{
		ID:        a.ID,
		Handle:    a.Handle,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Balance:   a.Balance.StringFixed(2),
		CreatedAt: a.CreatedAt,
	}
}

// Me is the only read path that exposes the balance; it goes through the
// invalidated cache.
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	account, err := h.accounts.GetWithBalance(r.Context(), claims.UserID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to get account", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toAccountDTO(account))
}

type topUpRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (r topUpRequest) Validate() []FieldError {
	var errs []FieldError
	if !r.Amount.IsPositive() {
		errs = append(errs, FieldError{Field: "amount", Message: "must be greater than zero"})
	} else if r.Amount.Exponent() < -2 {
		errs = append(errs, FieldError{Field: "amount", Message: "at most 2 decimal places"})
	}
	return errs
}

func (h *AccountHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req topUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	account, err := h.ledger.IncrementBalance(r.Context(), claims.UserID, req.Amount)
	if err != nil {
		logging.FromContext(r.Context()).Error("top-up failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toAccountDTO(account))
}

func (h *AccountHandler) Remove(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	if err := h.accounts.Remove(r.Context(), claims.UserID); err != nil {
		logging.FromContext(r.Context()).Error("failed to remove account", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]string{"status": "deleted"})
}
