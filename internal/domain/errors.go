package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSelfTransfer      = errors.New("cannot transfer to same account")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrHandleTaken       = errors.New("handle already taken")
)
