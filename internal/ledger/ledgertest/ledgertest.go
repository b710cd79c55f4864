// Package ledgertest provides the behaviour suite every ledger backend must pass.
package ledgertest

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/go-petr/voice-bank/internal/domain"
	"github.com/go-petr/voice-bank/internal/ledger"
	"github.com/go-petr/voice-bank/pkg/moneypkg"
	"github.com/go-petr/voice-bank/pkg/randompkg"
	"github.com/stretchr/testify/require"
)

// Run runs the suite against ledgers built by newLedger.
//
// Fixtures use random usernames and account numbers so backends that share
// storage between subtests stay isolated.
func Run(t *testing.T, newLedger func(t *testing.T) ledger.Ledger) {
	t.Helper()

	t.Run("Users", func(t *testing.T) { testUsers(t, newLedger(t)) })
	t.Run("Accounts", func(t *testing.T) { testAccounts(t, newLedger(t)) })
	t.Run("TransactionStatus", func(t *testing.T) { testTransactionStatus(t, newLedger(t)) })
	t.Run("ListTransactions", func(t *testing.T) { testListTransactions(t, newLedger(t)) })
	t.Run("VoiceProfiles", func(t *testing.T) { testVoiceProfiles(t, newLedger(t)) })
	t.Run("Transfer", func(t *testing.T) { testTransfer(t, newLedger(t)) })
	t.Run("TransferInsufficientBalance", func(t *testing.T) { testTransferInsufficientBalance(t, newLedger(t)) })
	t.Run("TransferInactiveAccount", func(t *testing.T) { testTransferInactiveAccount(t, newLedger(t)) })
	t.Run("TransferAmountOverflow", func(t *testing.T) { testTransferAmountOverflow(t, newLedger(t)) })
	t.Run("TransferOwnerMismatch", func(t *testing.T) { testTransferOwnerMismatch(t, newLedger(t)) })
	t.Run("ConcurrentTransfersOneSucceeds", func(t *testing.T) { testConcurrentTransfersOneSucceeds(t, newLedger(t)) })
	t.Run("ConcurrentTransfersConserveMoney", func(t *testing.T) { testConcurrentTransfersConserveMoney(t, newLedger(t)) })
	t.Run("Stats", func(t *testing.T) { testStats(t, newLedger(t)) })
}

// CreateRandomUser creates an active user with random credentials.
func CreateRandomUser(t *testing.T, l ledger.Ledger) domain.User {
	t.Helper()

	arg := domain.CreateUserParams{
		Username:       randompkg.Username(),
		Email:          randompkg.Email(),
		HashedPassword: randompkg.String(20),
		PhoneNumber:    randompkg.PhoneNumber(),
	}

	u, err := l.CreateUser(context.Background(), arg)
	require.NoError(t, err)
	require.NotZero(t, u.ID)
	require.Equal(t, arg.Username, u.Username)
	require.Equal(t, arg.Email, u.Email)
	require.Equal(t, arg.HashedPassword, u.HashedPassword)
	require.Equal(t, arg.PhoneNumber, u.PhoneNumber)
	require.True(t, u.IsActive)
	require.NotZero(t, u.CreatedAt)

	return u
}

// CreateRandomAccount creates an active checking account of the user.
func CreateRandomAccount(t *testing.T, l ledger.Ledger, userID, balance int64) domain.Account {
	t.Helper()

	arg := domain.CreateAccountParams{
		UserID:        userID,
		AccountNumber: randompkg.Digits(16),
		AccountType:   domain.AccountTypeChecking,
		Balance:       balance,
	}

	a, err := l.CreateAccount(context.Background(), arg)
	require.NoError(t, err)
	require.NotZero(t, a.ID)
	require.Equal(t, arg.UserID, a.UserID)
	require.Equal(t, arg.AccountNumber, a.AccountNumber)
	require.Equal(t, arg.AccountType, a.AccountType)
	require.Equal(t, arg.Balance, a.Balance)
	require.True(t, a.IsActive)

	return a
}

func transferArg(from, to domain.Account, amount int64) domain.CreateTransactionParams {
	return domain.CreateTransactionParams{
		SenderID:           from.UserID,
		RecipientID:        to.UserID,
		SenderAccountID:    from.ID,
		RecipientAccountID: to.ID,
		Amount:             amount,
		Fee:                moneypkg.Fee(amount),
		TransactionType:    domain.TransactionTypeVoice,
		Description:        "test transfer",
	}
}

func requireBalance(t *testing.T, l ledger.Ledger, accountID, want int64) {
	t.Helper()

	a, err := l.GetAccount(context.Background(), accountID)
	require.NoError(t, err)
	require.Equal(t, want, a.Balance)
}

func testUsers(t *testing.T, l ledger.Ledger) {
	ctx := context.Background()
	u := CreateRandomUser(t, l)

	got, err := l.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Username, got.Username)
	require.WithinDuration(t, u.CreatedAt, got.CreatedAt, time.Second)

	got, err = l.GetUserByUsername(ctx, u.Username)
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = l.CreateUser(ctx, domain.CreateUserParams{
		Username:       u.Username,
		Email:          randompkg.Email(),
		HashedPassword: "x",
	})
	require.ErrorIs(t, err, domain.ErrUsernameAlreadyExists)

	_, err = l.CreateUser(ctx, domain.CreateUserParams{
		Username:       randompkg.Username(),
		Email:          u.Email,
		HashedPassword: "x",
	})
	require.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = l.GetUserByUsername(ctx, randompkg.Username())
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = l.GetUser(ctx, -1)
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	users, err := l.ListUsers(ctx)
	require.NoError(t, err)

	found := false
	for _, lu := range users {
		if lu.ID == u.ID {
			found = true
		}
	}
	require.True(t, found)
}

func testAccounts(t *testing.T, l ledger.Ledger) {
	ctx := context.Background()
	u := CreateRandomUser(t, l)

	a1 := CreateRandomAccount(t, l, u.ID, 1_000)
	a2 := CreateRandomAccount(t, l, u.ID, 2_000)

	_, err := l.CreateAccount(ctx, domain.CreateAccountParams{
		UserID:        u.ID,
		AccountNumber: a1.AccountNumber,
		AccountType:   domain.AccountTypeSavings,
	})
	require.ErrorIs(t, err, domain.ErrAccountNumberExists)

	_, err = l.CreateAccount(ctx, domain.CreateAccountParams{
		UserID:        u.ID,
		AccountNumber: randompkg.Digits(16),
		AccountType:   domain.AccountTypeChecking,
		Balance:       -1,
	})
	require.ErrorIs(t, err, domain.ErrNegativeBalance)

	accounts, err := l.ListAccounts(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	require.Equal(t, a1.ID, accounts[0].ID)
	require.Equal(t, a2.ID, accounts[1].ID)

	require.NoError(t, l.UpdateBalance(ctx, a1.ID, 5_000))
	requireBalance(t, l, a1.ID, 5_000)

	require.ErrorIs(t, l.UpdateBalance(ctx, a1.ID, -1), domain.ErrNegativeBalance)
	requireBalance(t, l, a1.ID, 5_000)

	require.NoError(t, l.DeactivateAccount(ctx, a1.ID))

	accounts, err = l.ListAccounts(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	require.Equal(t, a2.ID, accounts[0].ID)

	got, err := l.GetAccount(ctx, a1.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)

	_, err = l.GetAccount(ctx, -1)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
	require.ErrorIs(t, l.DeactivateAccount(ctx, -1), domain.ErrAccountNotFound)
	require.ErrorIs(t, l.UpdateBalance(ctx, -1, 10), domain.ErrAccountNotFound)
}

func testTransactionStatus(t *testing.T, l ledger.Ledger) {
	ctx := context.Background()
	u1, u2 := CreateRandomUser(t, l), CreateRandomUser(t, l)
	a1, a2 := CreateRandomAccount(t, l, u1.ID, 0), CreateRandomAccount(t, l, u2.ID, 0)

	tx, err := l.CreateTransaction(ctx, transferArg(a1, a2, 1_000))
	require.NoError(t, err)
	require.NotZero(t, tx.ID)
	require.Equal(t, domain.TransactionPending, tx.Status)
	require.Equal(t, int64(500), tx.Fee)
	require.Nil(t, tx.CompletedAt)

	_, err = l.SetTransactionStatus(ctx, tx.ID, domain.TransactionPending)
	require.ErrorIs(t, err, domain.ErrInvalidStatusTransition)

	completed, err := l.SetTransactionStatus(ctx, tx.ID, domain.TransactionCompleted)
	require.NoError(t, err)
	require.Equal(t, domain.TransactionCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	again, err := l.SetTransactionStatus(ctx, tx.ID, domain.TransactionCompleted)
	require.NoError(t, err)
	require.Equal(t, domain.TransactionCompleted, again.Status)
	require.NotNil(t, again.CompletedAt)
	require.True(t, completed.CompletedAt.Equal(*again.CompletedAt))

	_, err = l.SetTransactionStatus(ctx, tx.ID, domain.TransactionFailed)
	require.ErrorIs(t, err, domain.ErrInvalidStatusTransition)

	got, err := l.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TransactionCompleted, got.Status)

	_, err = l.SetTransactionStatus(ctx, -1, domain.TransactionCompleted)
	require.ErrorIs(t, err, domain.ErrTransactionNotFound)

	_, err = l.GetTransaction(ctx, -1)
	require.ErrorIs(t, err, domain.ErrTransactionNotFound)

	arg := transferArg(a1, a2, 0)
	_, err = l.CreateTransaction(ctx, arg)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func testListTransactions(t *testing.T, l ledger.Ledger) {
	ctx := context.Background()
	u1, u2, u3 := CreateRandomUser(t, l), CreateRandomUser(t, l), CreateRandomUser(t, l)
	a1 := CreateRandomAccount(t, l, u1.ID, 0)
	a2 := CreateRandomAccount(t, l, u2.ID, 0)
	a3 := CreateRandomAccount(t, l, u3.ID, 0)

	var ids []int64

	for _, arg := range []domain.CreateTransactionParams{
		transferArg(a1, a2, 100),
		transferArg(a2, a1, 200),
		transferArg(a2, a3, 300),
		transferArg(a3, a1, 400),
	} {
		tx, err := l.CreateTransaction(ctx, arg)
		require.NoError(t, err)

		ids = append(ids, tx.ID)
	}

	all, err := l.ListTransactions(ctx, u1.ID, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Newest first
	require.Equal(t, ids[3], all[0].ID)
	require.Equal(t, ids[1], all[1].ID)
	require.Equal(t, ids[0], all[2].ID)

	limited, err := l.ListTransactions(ctx, u1.ID, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	require.Equal(t, ids[3], limited[0].ID)

	none, err := l.ListTransactions(ctx, CreateRandomUser(t, l).ID, 10)
	require.NoError(t, err)
	require.Empty(t, none)
}

func testVoiceProfiles(t *testing.T, l ledger.Ledger) {
	ctx := context.Background()
	u := CreateRandomUser(t, l)

	_, err := l.GetVoiceProfile(ctx, u.ID)
	require.ErrorIs(t, err, domain.ErrVoiceProfileNotFound)

	first := []float64{0.1, 0.2, 0.3}

	p, err := l.UpsertVoiceProfile(ctx, u.ID, first)
	require.NoError(t, err)
	require.Equal(t, u.ID, p.UserID)
	require.Equal(t, first, p.Features)
	require.True(t, p.IsActive)

	second := []float64{0.3, 0.2, 0.1}

	_, err = l.UpsertVoiceProfile(ctx, u.ID, second)
	require.NoError(t, err)

	got, err := l.GetVoiceProfile(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, second, got.Features)
	require.WithinDuration(t, p.CreatedAt, got.CreatedAt, time.Second)
}

func testTransfer(t *testing.T, l ledger.Ledger) {
	ctx := context.Background()
	u1, u2 := CreateRandomUser(t, l), CreateRandomUser(t, l)
	from, to := CreateRandomAccount(t, l, u1.ID, 100_000), CreateRandomAccount(t, l, u2.ID, 5_000)

	arg := transferArg(from, to, 50_000)

	tx, err := l.Transfer(ctx, arg)
	require.NoError(t, err)
	require.NotZero(t, tx.ID)
	require.Equal(t, domain.TransactionCompleted, tx.Status)
	require.NotNil(t, tx.CompletedAt)
	require.Equal(t, int64(50_000), tx.Amount)
	require.Equal(t, int64(1_000), tx.Fee)
	require.Equal(t, arg.Description, tx.Description)
	require.Equal(t, domain.TransactionTypeVoice, tx.TransactionType)

	requireBalance(t, l, from.ID, 49_000)
	requireBalance(t, l, to.ID, 55_000)

	got, err := l.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TransactionCompleted, got.Status)

	history, err := l.ListTransactions(ctx, u2.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, tx.ID, history[0].ID)
}

func testTransferInsufficientBalance(t *testing.T, l ledger.Ledger) {
	ctx := context.Background()
	u1, u2 := CreateRandomUser(t, l), CreateRandomUser(t, l)
	from, to := CreateRandomAccount(t, l, u1.ID, 10_000), CreateRandomAccount(t, l, u2.ID, 0)

	// 10,000 + 500 fee exceeds the balance.
	_, err := l.Transfer(ctx, transferArg(from, to, 10_000))
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	requireBalance(t, l, from.ID, 10_000)
	requireBalance(t, l, to.ID, 0)

	history, err := l.ListTransactions(ctx, u1.ID, 0)
	require.NoError(t, err)
	require.Empty(t, history)

	_, err = l.Transfer(ctx, transferArg(from, to, 9_500))
	require.NoError(t, err)
	requireBalance(t, l, from.ID, 0)
	requireBalance(t, l, to.ID, 9_500)
}

func testTransferInactiveAccount(t *testing.T, l ledger.Ledger) {
	ctx := context.Background()
	u1, u2 := CreateRandomUser(t, l), CreateRandomUser(t, l)
	from, to := CreateRandomAccount(t, l, u1.ID, 10_000), CreateRandomAccount(t, l, u2.ID, 0)

	require.NoError(t, l.DeactivateAccount(ctx, to.ID))

	_, err := l.Transfer(ctx, transferArg(from, to, 1_000))
	require.ErrorIs(t, err, domain.ErrCommitFailed)

	requireBalance(t, l, from.ID, 10_000)
	requireBalance(t, l, to.ID, 0)

	history, err := l.ListTransactions(ctx, u1.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, domain.TransactionFailed, history[0].Status)
	require.NotNil(t, history[0].CompletedAt)
}

func testTransferAmountOverflow(t *testing.T, l ledger.Ledger) {
	ctx := context.Background()
	u1, u2 := CreateRandomUser(t, l), CreateRandomUser(t, l)
	from, to := CreateRandomAccount(t, l, u1.ID, 1_000_000), CreateRandomAccount(t, l, u2.ID, 500_000)

	huge := transferArg(from, to, math.MaxInt64)
	require.Equal(t, int64(1_500), huge.Fee)

	_, err := l.Transfer(ctx, huge)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = l.CreateTransaction(ctx, huge)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	requireBalance(t, l, from.ID, 1_000_000)
	requireBalance(t, l, to.ID, 500_000)

	rich := CreateRandomAccount(t, l, u2.ID, math.MaxInt64-100)

	_, err = l.Transfer(ctx, transferArg(from, rich, 1_000))
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	requireBalance(t, l, from.ID, 1_000_000)
	requireBalance(t, l, rich.ID, math.MaxInt64-100)

	history, err := l.ListTransactions(ctx, u1.ID, 0)
	require.NoError(t, err)
	require.Empty(t, history)
}

func testTransferOwnerMismatch(t *testing.T, l ledger.Ledger) {
	ctx := context.Background()
	u1, u2, u3 := CreateRandomUser(t, l), CreateRandomUser(t, l), CreateRandomUser(t, l)
	from, to := CreateRandomAccount(t, l, u1.ID, 100_000), CreateRandomAccount(t, l, u2.ID, 0)

	wrongSender := transferArg(from, to, 1_000)
	wrongSender.SenderID = u3.ID

	wrongRecipient := transferArg(from, to, 1_000)
	wrongRecipient.RecipientID = u3.ID

	for _, arg := range []domain.CreateTransactionParams{wrongSender, wrongRecipient} {
		_, err := l.Transfer(ctx, arg)
		require.ErrorIs(t, err, domain.ErrAccountOwnerMismatch)

		_, err = l.CreateTransaction(ctx, arg)
		require.ErrorIs(t, err, domain.ErrAccountOwnerMismatch)
	}

	requireBalance(t, l, from.ID, 100_000)
	requireBalance(t, l, to.ID, 0)

	for _, u := range []domain.User{u1, u2, u3} {
		history, err := l.ListTransactions(ctx, u.ID, 0)
		require.NoError(t, err)
		require.Empty(t, history)
	}
}

func testConcurrentTransfersOneSucceeds(t *testing.T, l ledger.Ledger) {
	ctx := context.Background()
	u1, u2 := CreateRandomUser(t, l), CreateRandomUser(t, l)
	from, to := CreateRandomAccount(t, l, u1.ID, 10_000), CreateRandomAccount(t, l, u2.ID, 0)

	const n = 2

	errs := make(chan error, n)

	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := l.Transfer(ctx, transferArg(from, to, 6_000))
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)

	var succeeded, rejected int

	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		default:
			require.ErrorIs(t, err, domain.ErrInsufficientBalance)
			rejected++
		}
	}

	require.Equal(t, 1, succeeded)
	require.Equal(t, 1, rejected)
	requireBalance(t, l, from.ID, 3_500)
	requireBalance(t, l, to.ID, 6_000)
}

func testConcurrentTransfersConserveMoney(t *testing.T, l ledger.Ledger) {
	ctx := context.Background()
	u1, u2 := CreateRandomUser(t, l), CreateRandomUser(t, l)
	a1, a2 := CreateRandomAccount(t, l, u1.ID, 100_000), CreateRandomAccount(t, l, u2.ID, 100_000)

	const n = 10

	var wg sync.WaitGroup

	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		from, to := a1, a2
		if i%2 == 1 {
			from, to = a2, a1
		}

		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := l.Transfer(ctx, transferArg(from, to, 1_000))
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	// Each direction ran n/2 times, so only the fees left the two accounts.
	fees := int64(n) * moneypkg.Fee(1_000)
	half := fees / 2

	requireBalance(t, l, a1.ID, 100_000-half)
	requireBalance(t, l, a2.ID, 100_000-half)
}

func testStats(t *testing.T, l ledger.Ledger) {
	ctx := context.Background()

	before, err := l.Stats(ctx)
	require.NoError(t, err)

	u1, u2 := CreateRandomUser(t, l), CreateRandomUser(t, l)
	from, to := CreateRandomAccount(t, l, u1.ID, 10_000), CreateRandomAccount(t, l, u2.ID, 0)

	_, err = l.Transfer(ctx, transferArg(from, to, 1_000))
	require.NoError(t, err)

	after, err := l.Stats(ctx)
	require.NoError(t, err)
	require.GreaterOrEqual(t, after.Users-before.Users, int64(2))
	require.GreaterOrEqual(t, after.Accounts-before.Accounts, int64(2))
	require.GreaterOrEqual(t, after.Transactions-before.Transactions, int64(1))
}
