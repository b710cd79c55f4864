// Package ledger defines the contract of the authoritative store of users, accounts,
// transactions and voice profiles.
//
// Backends live in memledger (process memory) and pgsledger (PostgreSQL).
package ledger

import (
	"context"

	"github.com/go-petr/voice-bank/internal/domain"
)

// Ledger is implemented by every persistence backend.
//
// Each operation is atomic with respect to concurrent callers. Transfer is the only
// operation that moves money between accounts and it must never lose an update.
type Ledger interface {
	CreateUser(ctx context.Context, arg domain.CreateUserParams) (domain.User, error)
	GetUser(ctx context.Context, id int64) (domain.User, error)
	// GetUserByUsername matches the username exactly and returns active users only.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)

	CreateAccount(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error)
	GetAccount(ctx context.Context, id int64) (domain.Account, error)
	// ListAccounts returns the active accounts of the user in creation order.
	ListAccounts(ctx context.Context, userID int64) ([]domain.Account, error)
	DeactivateAccount(ctx context.Context, id int64) error
	UpdateBalance(ctx context.Context, accountID, newBalance int64) error

	CreateTransaction(ctx context.Context, arg domain.CreateTransactionParams) (domain.Transaction, error)
	GetTransaction(ctx context.Context, id int64) (domain.Transaction, error)
	// SetTransactionStatus only moves a pending transaction to a terminal status.
	// Setting the current status again is a no-op.
	SetTransactionStatus(ctx context.Context, id int64, status domain.TransactionStatus) (domain.Transaction, error)
	// ListTransactions returns the transactions sent or received by the user, newest first.
	// A non-positive limit returns all of them.
	ListTransactions(ctx context.Context, userID int64, limit int) ([]domain.Transaction, error)

	UpsertVoiceProfile(ctx context.Context, userID int64, features []float64) (domain.VoiceProfile, error)
	GetVoiceProfile(ctx context.Context, userID int64) (domain.VoiceProfile, error)

	// Transfer debits amount+fee from the sender account, credits amount to the
	// recipient account and records a completed transaction, all or nothing.
	//
	// Funds are checked again under the backend's lock; a shortfall returns
	// domain.ErrInsufficientBalance without any mutation. When an account vanished
	// after the caller's checks, the transaction is recorded as failed and
	// domain.ErrCommitFailed is returned.
	Transfer(ctx context.Context, arg domain.CreateTransactionParams) (domain.Transaction, error)

	Stats(ctx context.Context) (domain.LedgerStats, error)
}
