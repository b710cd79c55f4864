// Package memledger keeps the ledger in process memory.
//
// A single RWMutex guards all state, so every operation, Transfer included,
// is serialized against writers. Callers always receive copies.
package memledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-petr/voice-bank/internal/domain"
)

// Ledger is an in-memory ledger.Ledger.
type Ledger struct {
	mu sync.RWMutex

	users         map[int64]domain.User
	accounts      map[int64]domain.Account
	transactions  map[int64]domain.Transaction
	voiceProfiles map[int64]domain.VoiceProfile

	userAccounts map[int64][]int64

	nextUserID        int64
	nextAccountID     int64
	nextTransactionID int64

	now func() time.Time
}

// New returns an empty Ledger.
func New() *Ledger {
	return &Ledger{
		users:         make(map[int64]domain.User),
		accounts:      make(map[int64]domain.Account),
		transactions:  make(map[int64]domain.Transaction),
		voiceProfiles: make(map[int64]domain.VoiceProfile),
		userAccounts:  make(map[int64][]int64),
		now:           time.Now,
	}
}

// CreateUser creates the user and then returns it.
func (l *Ledger) CreateUser(_ context.Context, arg domain.CreateUserParams) (domain.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, u := range l.users {
		if u.Username == arg.Username {
			return domain.User{}, domain.ErrUsernameAlreadyExists
		}

		if u.Email == arg.Email {
			return domain.User{}, domain.ErrEmailAlreadyExists
		}
	}

	l.nextUserID++

	u := domain.User{
		ID:             l.nextUserID,
		Username:       arg.Username,
		Email:          arg.Email,
		HashedPassword: arg.HashedPassword,
		PhoneNumber:    arg.PhoneNumber,
		IsActive:       true,
		CreatedAt:      l.now(),
	}
	l.users[u.ID] = u

	return u, nil
}

// GetUser returns the user with the given id.
func (l *Ledger) GetUser(_ context.Context, id int64) (domain.User, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	u, ok := l.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}

	return u, nil
}

// GetUserByUsername returns the active user with the given username.
func (l *Ledger) GetUserByUsername(_ context.Context, username string) (domain.User, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, u := range l.users {
		if u.Username == username && u.IsActive {
			return u, nil
		}
	}

	return domain.User{}, domain.ErrUserNotFound
}

// ListUsers returns the active users ordered by id.
func (l *Ledger) ListUsers(_ context.Context) ([]domain.User, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	users := []domain.User{}

	for _, u := range l.users {
		if u.IsActive {
			users = append(users, u)
		}
	}

	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	return users, nil
}

// CreateAccount creates the account and then returns it.
func (l *Ledger) CreateAccount(_ context.Context, arg domain.CreateAccountParams) (domain.Account, error) {
	if arg.Balance < 0 {
		return domain.Account{}, domain.ErrNegativeBalance
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.users[arg.UserID]; !ok {
		return domain.Account{}, domain.ErrUserNotFound
	}

	for _, a := range l.accounts {
		if a.AccountNumber == arg.AccountNumber {
			return domain.Account{}, domain.ErrAccountNumberExists
		}
	}

	l.nextAccountID++

	a := domain.Account{
		ID:            l.nextAccountID,
		UserID:        arg.UserID,
		AccountNumber: arg.AccountNumber,
		AccountType:   arg.AccountType,
		Balance:       arg.Balance,
		IsActive:      true,
		CreatedAt:     l.now(),
	}
	l.accounts[a.ID] = a
	l.userAccounts[a.UserID] = append(l.userAccounts[a.UserID], a.ID)

	return a, nil
}

// GetAccount returns the account with the given id, active or not.
func (l *Ledger) GetAccount(_ context.Context, id int64) (domain.Account, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	a, ok := l.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	return a, nil
}

// ListAccounts returns the active accounts of the user in creation order.
func (l *Ledger) ListAccounts(_ context.Context, userID int64) ([]domain.Account, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	accounts := []domain.Account{}

	for _, id := range l.userAccounts[userID] {
		if a := l.accounts[id]; a.IsActive {
			accounts = append(accounts, a)
		}
	}

	return accounts, nil
}

// DeactivateAccount hides the account from listings and transfers.
func (l *Ledger) DeactivateAccount(_ context.Context, id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}

	a.IsActive = false
	l.accounts[id] = a

	return nil
}

// UpdateBalance sets the balance of the account.
func (l *Ledger) UpdateBalance(_ context.Context, accountID, newBalance int64) error {
	if newBalance < 0 {
		return domain.ErrNegativeBalance
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.accounts[accountID]
	if !ok {
		return domain.ErrAccountNotFound
	}

	a.Balance = newBalance
	l.accounts[accountID] = a

	return nil
}

// CreateTransaction records a pending transaction.
func (l *Ledger) CreateTransaction(_ context.Context, arg domain.CreateTransactionParams) (domain.Transaction, error) {
	if err := arg.Validate(); err != nil {
		return domain.Transaction{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkOwners(arg); err != nil {
		return domain.Transaction{}, err
	}

	return l.createTransaction(arg), nil
}

// checkOwners requires both accounts to exist and belong to the transaction users.
func (l *Ledger) checkOwners(arg domain.CreateTransactionParams) error {
	from, ok := l.accounts[arg.SenderAccountID]
	if !ok {
		return domain.ErrAccountNotFound
	}

	to, ok := l.accounts[arg.RecipientAccountID]
	if !ok {
		return domain.ErrAccountNotFound
	}

	if from.UserID != arg.SenderID || to.UserID != arg.RecipientID {
		return domain.ErrAccountOwnerMismatch
	}

	return nil
}

func (l *Ledger) createTransaction(arg domain.CreateTransactionParams) domain.Transaction {
	l.nextTransactionID++

	tx := domain.Transaction{
		ID:                 l.nextTransactionID,
		SenderID:           arg.SenderID,
		RecipientID:        arg.RecipientID,
		SenderAccountID:    arg.SenderAccountID,
		RecipientAccountID: arg.RecipientAccountID,
		Amount:             arg.Amount,
		Fee:                arg.Fee,
		Status:             domain.TransactionPending,
		TransactionType:    arg.TransactionType,
		Description:        arg.Description,
		CreatedAt:          l.now(),
	}
	l.transactions[tx.ID] = tx

	return tx
}

// GetTransaction returns the transaction with the given id.
func (l *Ledger) GetTransaction(_ context.Context, id int64) (domain.Transaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	tx, ok := l.transactions[id]
	if !ok {
		return domain.Transaction{}, domain.ErrTransactionNotFound
	}

	return copyTransaction(tx), nil
}

// SetTransactionStatus moves a pending transaction to a terminal status.
func (l *Ledger) SetTransactionStatus(_ context.Context, id int64, status domain.TransactionStatus) (domain.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx, err := l.setTransactionStatus(id, status)
	if err != nil {
		return domain.Transaction{}, err
	}

	return copyTransaction(tx), nil
}

func (l *Ledger) setTransactionStatus(id int64, status domain.TransactionStatus) (domain.Transaction, error) {
	tx, ok := l.transactions[id]
	if !ok {
		return domain.Transaction{}, domain.ErrTransactionNotFound
	}

	if tx.Status == status && status.IsTerminal() {
		return tx, nil
	}

	if tx.Status != domain.TransactionPending || !status.IsTerminal() {
		return domain.Transaction{}, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidStatusTransition, tx.Status, status)
	}

	completedAt := l.now()
	tx.Status = status
	tx.CompletedAt = &completedAt
	l.transactions[id] = tx

	return tx, nil
}

// ListTransactions returns the transactions the user sent or received, newest first.
func (l *Ledger) ListTransactions(_ context.Context, userID int64, limit int) ([]domain.Transaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	items := []domain.Transaction{}

	for _, tx := range l.transactions {
		if tx.SenderID == userID || tx.RecipientID == userID {
			items = append(items, copyTransaction(tx))
		}
	}

	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}

		return items[i].ID > items[j].ID
	})

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	return items, nil
}

// UpsertVoiceProfile creates or replaces the voice profile of the user.
func (l *Ledger) UpsertVoiceProfile(_ context.Context, userID int64, features []float64) (domain.VoiceProfile, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.users[userID]; !ok {
		return domain.VoiceProfile{}, domain.ErrUserNotFound
	}

	now := l.now()

	p, ok := l.voiceProfiles[userID]
	if !ok {
		p = domain.VoiceProfile{UserID: userID, CreatedAt: now}
	}

	p.Features = append([]float64(nil), features...)
	p.IsActive = true
	p.UpdatedAt = now
	l.voiceProfiles[userID] = p

	return copyVoiceProfile(p), nil
}

// GetVoiceProfile returns the active voice profile of the user.
func (l *Ledger) GetVoiceProfile(_ context.Context, userID int64) (domain.VoiceProfile, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	p, ok := l.voiceProfiles[userID]
	if !ok || !p.IsActive {
		return domain.VoiceProfile{}, domain.ErrVoiceProfileNotFound
	}

	return copyVoiceProfile(p), nil
}

// Transfer moves money between two accounts and records the transaction.
func (l *Ledger) Transfer(_ context.Context, arg domain.CreateTransactionParams) (domain.Transaction, error) {
	if err := arg.Validate(); err != nil {
		return domain.Transaction{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	from, ok := l.accounts[arg.SenderAccountID]
	if !ok {
		return domain.Transaction{}, fmt.Errorf("%w: %w", domain.ErrCommitFailed, domain.ErrAccountNotFound)
	}

	to, ok := l.accounts[arg.RecipientAccountID]
	if !ok {
		return domain.Transaction{}, fmt.Errorf("%w: %w", domain.ErrCommitFailed, domain.ErrAccountNotFound)
	}

	if from.UserID != arg.SenderID || to.UserID != arg.RecipientID {
		return domain.Transaction{}, domain.ErrAccountOwnerMismatch
	}

	if from.IsActive && to.IsActive {
		if err := arg.CheckFunds(from.Balance, to.Balance); err != nil {
			return domain.Transaction{}, err
		}
	}

	tx := l.createTransaction(arg)

	if !from.IsActive || !to.IsActive {
		if _, err := l.setTransactionStatus(tx.ID, domain.TransactionFailed); err != nil {
			return domain.Transaction{}, err
		}

		return domain.Transaction{}, fmt.Errorf("%w: %w", domain.ErrCommitFailed, domain.ErrAccountNotFound)
	}

	from.Balance -= arg.Total()
	l.accounts[from.ID] = from

	// Re-read for self transfers, the debit above must not be overwritten.
	to = l.accounts[to.ID]
	to.Balance += arg.Amount
	l.accounts[to.ID] = to

	tx, err := l.setTransactionStatus(tx.ID, domain.TransactionCompleted)
	if err != nil {
		return domain.Transaction{}, err
	}

	return copyTransaction(tx), nil
}

// Stats returns entity counts.
func (l *Ledger) Stats(_ context.Context) (domain.LedgerStats, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var s domain.LedgerStats

	for _, u := range l.users {
		if u.IsActive {
			s.Users++
		}
	}

	for _, a := range l.accounts {
		if a.IsActive {
			s.Accounts++
		}
	}

	s.Transactions = int64(len(l.transactions))

	return s, nil
}

func copyTransaction(tx domain.Transaction) domain.Transaction {
	if tx.CompletedAt != nil {
		completedAt := *tx.CompletedAt
		tx.CompletedAt = &completedAt
	}

	return tx
}

func copyVoiceProfile(p domain.VoiceProfile) domain.VoiceProfile {
	p.Features = append([]float64(nil), p.Features...)
	return p
}
