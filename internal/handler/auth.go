package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kwabena-dev/walletapi/internal/auth"
	"github.com/kwabena-dev/walletapi/internal/domain"
	"github.com/kwabena-dev/walletapi/internal/logging"
)

type registrar interface {
	Register(ctx context.Context, handle, firstName, lastName, password string) (*domain.Account, error)
}

type credentialReader interface {
	GetByHandleForAuth(ctx context.Context, handle string) (*domain.Account, error)
}

type AuthHandler struct {
	accounts  registrar
	creds     credentialReader
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthHandler(accounts registrar, creds credentialReader, jwtSecret string, jwtExpiry time.Duration) *AuthHandler {
	return &AuthHandler{
		accounts:  accounts,
		creds:     creds,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

type registerRequest struct {
	Handle    string `json:"handle"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

func (r registerRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Handle == "" {
		errs = append(errs, FieldError{Field: "handle", Message: "required"})
	} else if len(r.Handle) > 14 {
		errs = append(errs, FieldError{Field: "handle", Message: "must be at most 14 characters"})
	}
	if r.FirstName == "" {
		errs = append(errs, FieldError{Field: "first_name", Message: "required"})
	} else if len(r.FirstName) > 30 {
		errs = append(errs, FieldError{Field: "first_name", Message: "must be at most 30 characters"})
	}
	if r.LastName == "" {
		errs = append(errs, FieldError{Field: "last_name", Message: "required"})
	} else if len(r.LastName) > 30 {
		errs = append(errs, FieldError{Field: "last_name", Message: "must be at most 30 characters"})
	}
	if len(r.Password) < 8 {
		errs = append(errs, FieldError{Field: "password", Message: "must be at least 8 characters"})
	}
	return errs
}

type profileDTO struct {
	ID        uuid.UUID `json:"id"`
	Handle    string    `json:"handle"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

func toProfileDTO(a *domain.Account) profileDTO {
	return profileDTO{
		ID:        a.ID,
		Handle:    a.Handle,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		CreatedAt: a.CreatedAt,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	account, err := h.accounts.Register(r.Context(), req.Handle, req.FirstName, req.LastName, req.Password)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to register account", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toProfileDTO(account))
}

type loginRequest struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Handle == "" {
		errs = append(errs, FieldError{Field: "handle", Message: "required"})
	}
	if r.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "required"})
	}
	return errs
}

type loginResponse struct {
	Token   string     `json:"token"`
	Account profileDTO `json:"account"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	account, err := h.creds.GetByHandleForAuth(r.Context(), req.Handle)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			RespondAppError(w, ErrInvalidCredentials, nil)
			return
		}
		RespondDomainError(w, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		RespondAppError(w, ErrInvalidCredentials, nil)
		return
	}

	token, err := auth.GenerateToken(account.ID, account.Handle, h.jwtSecret, h.jwtExpiry)
	if err != nil {
		RespondAppError(w, ErrInternalError, nil)
		return
	}

	RespondSuccess(w, http.StatusOK, loginResponse{
		Token:   token,
		Account: toProfileDTO(account),
	})
}
