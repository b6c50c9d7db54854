package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/kwabena-dev/walletapi/internal/cache"
	"github.com/kwabena-dev/walletapi/internal/domain"
	"github.com/kwabena-dev/walletapi/internal/logging"
)

type accountRepo interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByHandle(ctx context.Context, handle string) (*domain.Account, error)
	GetWithBalance(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type AccountService struct {
	accounts accountRepo
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewAccountService(accounts accountRepo, c cache.Cache, cacheTTL time.Duration) *AccountService {
	return &AccountService{
		accounts: accounts,
		cache:    c,
		cacheTTL: cacheTTL,
	}
}

func (s *AccountService) Register(ctx context.Context, handle, firstName, lastName, password string) (*domain.Account, error) {
	log := logging.FromContext(ctx)

	_, err := s.accounts.GetByHandle(ctx, handle)
	if err == nil {
		return nil, fmt.Errorf("Register: %w", domain.ErrHandleTaken)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("Register: check existing: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("Register: hash password: %w", err)
	}

	nowUTC := time.Now().UTC()
	account := &domain.Account{
		ID:           uuid.New(),
		Handle:       handle,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: string(hash),
		Balance:      decimal.Zero,
		CreatedAt:    nowUTC,
		UpdatedAt:    nowUTC,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}

	log.Info("account registered", "account_id", account.ID, "handle", handle)

	account.PasswordHash = ""
	return account, nil
}

// cachedAccount is the shape stored in the balance cache. The password hash
// never enters the cache.
type cachedAccount struct {
	ID        uuid.UUID       `json:"id"`
	Handle    string          `json:"handle"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// GetWithBalance is the cached balance read path. The ledger deletes the
// key on every committed mutation, so a hit is never stale.
func (s *AccountService) GetWithBalance(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	key := cache.AccountKey(id)

	var cached cachedAccount
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		logging.FromContext(ctx).Warn("balance cache read failed", "error", err, "key", key)
	}
	if hit {
		return &domain.Account{
			ID:        cached.ID,
			Handle:    cached.Handle,
			FirstName: cached.FirstName,
			LastName:  cached.LastName,
			Balance:   cached.Balance,
			CreatedAt: cached.CreatedAt,
			UpdatedAt: cached.UpdatedAt,
		}, nil
	}

	account, err := s.accounts.GetWithBalance(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetWithBalance: %w", err)
	}

	err = s.cache.Set(ctx, key, cachedAccount{
		ID:        account.ID,
		Handle:    account.Handle,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Balance:   account.Balance,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}, s.cacheTTL)
	if err != nil {
		logging.FromContext(ctx).Warn("balance cache write failed", "error", err, "key", key)
	}

	return account, nil
}

func (s *AccountService) Remove(ctx context.Context, id uuid.UUID) error {
	if err := s.accounts.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("Remove: %w", err)
	}
	if err := s.cache.Delete(ctx, cache.AccountKey(id)); err != nil {
		logging.FromContext(ctx).Error("balance cache invalidation failed", "error", err, "account_id", id)
	}
	logging.FromContext(ctx).Info("account removed", "account_id", id)
	return nil
}
