// Package store provides the banking backend: accounts, cards, loans and
// transactions persisted in SQLite.
package store

import (
	"context"
	"errors"

	"github.com/rsharan/bankbot/internal/domain"
)

// Sentinel business errors surfaced to the dialogue engine. Callers match
// them with errors.Is.
var (
	// ErrAccountNotFound means the (sender) account does not exist.
	ErrAccountNotFound = errors.New("account not found")
	// ErrRecipientNotFound means the transfer destination does not exist.
	ErrRecipientNotFound = errors.New("recipient account not found")
	// ErrInvalidPIN means the transaction PIN did not verify.
	ErrInvalidPIN = errors.New("invalid transaction pin")
	// ErrInsufficientFunds means the sender balance cannot cover the amount.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrSameAccount means sender and recipient are the same account.
	ErrSameAccount = errors.New("cannot transfer to the same account")
	// ErrAccountExists means the account number is already taken.
	ErrAccountExists = errors.New("account already exists")
)

// Repository defines the persistence interface for the banking backend.
type Repository interface {
	// CreateAccount inserts a new account with a bcrypt-hashed transaction PIN.
	CreateAccount(ctx context.Context, acct *domain.Account, pin string) error

	// GetAccount retrieves an account, or ErrAccountNotFound.
	GetAccount(ctx context.Context, accountNumber string) (*domain.Account, error)

	// ListAccounts returns all accounts.
	ListAccounts(ctx context.Context) ([]*domain.Account, error)

	// GetBalance returns the balance for an account, or ErrAccountNotFound.
	GetBalance(ctx context.Context, accountNumber string) (float64, error)

	// SetTransactionPIN replaces the transaction PIN for an account.
	SetTransactionPIN(ctx context.Context, accountNumber, pin string) error

	// Transfer atomically moves funds and records the transaction, returning
	// the transaction reference. Checks run in a fixed order: sender exists,
	// recipient exists, PIN verifies, funds suffice. A bad recipient is
	// reported before the PIN is ever checked.
	Transfer(ctx context.Context, from, to string, amount float64, pin string) (string, error)

	// BlockCard marks every card on the account as blocked and returns how
	// many were affected, or ErrAccountNotFound.
	BlockCard(ctx context.Context, accountNumber string) (int, error)

	// GetTransactions returns recent transactions touching the account,
	// newest first.
	GetTransactions(ctx context.Context, accountNumber string, limit int) ([]*domain.Transaction, error)

	// GetCards returns the cards attached to an account.
	GetCards(ctx context.Context, accountNumber string) ([]*domain.Card, error)

	// AddCard attaches a card to an account.
	AddCard(ctx context.Context, accountNumber, cardType, lastFour string) error

	// GetLoans returns the loans attached to an account.
	GetLoans(ctx context.Context, accountNumber string) ([]*domain.Loan, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
