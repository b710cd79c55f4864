package pgsledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-petr/voice-bank/internal/domain"
	"github.com/go-petr/voice-bank/pkg/errorspkg"
	"github.com/rs/zerolog"
)

// Transfer moves money between two accounts and records the transaction.
//
// Both account rows are locked with SELECT ... FOR UPDATE in id order, so
// concurrent transfers over the same accounts serialize without deadlocks.
func (r *Ledger) Transfer(ctx context.Context, arg domain.CreateTransactionParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	if err := arg.Validate(); err != nil {
		return domain.Transaction{}, err
	}

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.Transaction{}, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			l.Error().Err(err).Send()
		}
	}()

	txLedger := newTx(tx)

	from, to, err := txLedger.lockAccounts(ctx, arg.SenderAccountID, arg.RecipientAccountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.Transaction{}, fmt.Errorf("%w: %w", domain.ErrCommitFailed, err)
		}

		return domain.Transaction{}, err
	}

	if from.UserID != arg.SenderID || to.UserID != arg.RecipientID {
		return domain.Transaction{}, domain.ErrAccountOwnerMismatch
	}

	if from.IsActive && to.IsActive {
		if err := arg.CheckFunds(from.Balance, to.Balance); err != nil {
			return domain.Transaction{}, err
		}
	}

	t, err := txLedger.CreateTransaction(ctx, arg)
	if err != nil {
		return domain.Transaction{}, err
	}

	if !from.IsActive || !to.IsActive {
		if _, err := txLedger.SetTransactionStatus(ctx, t.ID, domain.TransactionFailed); err != nil {
			return domain.Transaction{}, err
		}

		if err := tx.Commit(); err != nil {
			l.Error().Err(err).Send()
			return domain.Transaction{}, errorspkg.ErrInternal
		}

		return domain.Transaction{}, fmt.Errorf("%w: %w", domain.ErrCommitFailed, domain.ErrAccountNotFound)
	}

	if err := txLedger.addBalance(ctx, from.ID, -arg.Total()); err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: %w", domain.ErrCommitFailed, err)
	}

	if err := txLedger.addBalance(ctx, to.ID, arg.Amount); err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: %w", domain.ErrCommitFailed, err)
	}

	t, err = txLedger.SetTransactionStatus(ctx, t.ID, domain.TransactionCompleted)
	if err != nil {
		return domain.Transaction{}, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return domain.Transaction{}, fmt.Errorf("%w: %w", domain.ErrCommitFailed, err)
	}

	return t, nil
}

// lockAccounts locks both accounts in id order and returns them as (from, to).
func (r *Ledger) lockAccounts(ctx context.Context, fromID, toID int64) (domain.Account, domain.Account, error) {
	if fromID == toID {
		a, err := r.getAccount(ctx, getAccountForUpdateQuery, fromID)
		return a, a, err
	}

	firstID, secondID := fromID, toID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}

	first, err := r.getAccount(ctx, getAccountForUpdateQuery, firstID)
	if err != nil {
		return domain.Account{}, domain.Account{}, err
	}

	second, err := r.getAccount(ctx, getAccountForUpdateQuery, secondID)
	if err != nil {
		return domain.Account{}, domain.Account{}, err
	}

	if first.ID == fromID {
		return first, second, nil
	}

	return second, first, nil
}
