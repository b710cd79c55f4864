package pgsledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-petr/voice-bank/internal/domain"
	"github.com/go-petr/voice-bank/pkg/dbpkg"
	"github.com/go-petr/voice-bank/pkg/errorspkg"
	"github.com/rs/zerolog"
)

const transactionColumns = `
    id, sender_id, recipient_id, sender_account_id, recipient_account_id,
    amount, fee, status, transaction_type, description, created_at, completed_at`

func scanTransaction(row scanner) (domain.Transaction, error) {
	var (
		t           domain.Transaction
		completedAt sql.NullTime
	)

	err := row.Scan(
		&t.ID,
		&t.SenderID,
		&t.RecipientID,
		&t.SenderAccountID,
		&t.RecipientAccountID,
		&t.Amount,
		&t.Fee,
		&t.Status,
		&t.TransactionType,
		&t.Description,
		&t.CreatedAt,
		&completedAt,
	)

	if completedAt.Valid {
		t.CompletedAt = &completedAt.Time
	}

	return t, err
}

const createTransactionQuery = `
INSERT INTO transactions (
    sender_id,
    recipient_id,
    sender_account_id,
    recipient_account_id,
    amount,
    fee,
    transaction_type,
    description
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8
) RETURNING ` + transactionColumns

// CreateTransaction records a pending transaction.
func (r *Ledger) CreateTransaction(ctx context.Context, arg domain.CreateTransactionParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	if err := arg.Validate(); err != nil {
		return domain.Transaction{}, err
	}

	if err := r.checkOwners(ctx, arg); err != nil {
		return domain.Transaction{}, err
	}

	row := r.db.QueryRowContext(ctx, createTransactionQuery,
		arg.SenderID,
		arg.RecipientID,
		arg.SenderAccountID,
		arg.RecipientAccountID,
		arg.Amount,
		arg.Fee,
		arg.TransactionType,
		arg.Description,
	)

	t, err := scanTransaction(row)
	if err != nil {
		switch dbpkg.ConstraintName(err) {
		case "transactions_sender_id_fkey", "transactions_recipient_id_fkey":
			return t, domain.ErrUserNotFound
		case "transactions_sender_account_id_fkey", "transactions_recipient_account_id_fkey":
			return t, domain.ErrAccountNotFound
		case "transactions_amount_check", "transactions_fee_check":
			return t, domain.ErrInvalidAmount
		}

		l.Error().Err(err).Msgf("CreateTransaction(ctx, %+v)", arg)

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const countOwnedAccountsQuery = `
SELECT count(*) FROM accounts
WHERE (id = $1 AND user_id = $2) OR (id = $3 AND user_id = $4)`

const countAccountsQuery = `SELECT count(DISTINCT id) FROM accounts WHERE id IN ($1, $2)`

// checkOwners requires both accounts to exist and belong to the transaction users.
func (r *Ledger) checkOwners(ctx context.Context, arg domain.CreateTransactionParams) error {
	l := zerolog.Ctx(ctx)

	want := int64(2)
	if arg.SenderAccountID == arg.RecipientAccountID {
		want = 1
	}

	var found int64
	if err := r.db.QueryRowContext(ctx, countAccountsQuery, arg.SenderAccountID, arg.RecipientAccountID).Scan(&found); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if found != want {
		return domain.ErrAccountNotFound
	}

	var owned int64

	err := r.db.QueryRowContext(ctx, countOwnedAccountsQuery,
		arg.SenderAccountID, arg.SenderID, arg.RecipientAccountID, arg.RecipientID).Scan(&owned)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if owned != want {
		return domain.ErrAccountOwnerMismatch
	}

	return nil
}

const getTransactionQuery = `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

// GetTransaction returns the transaction with the given id.
func (r *Ledger) GetTransaction(ctx context.Context, id int64) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	t, err := scanTransaction(r.db.QueryRowContext(ctx, getTransactionQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return t, domain.ErrTransactionNotFound
		}

		l.Error().Err(err).Send()

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const setTransactionStatusQuery = `
UPDATE transactions
SET status = $2, completed_at = clock_timestamp()
WHERE id = $1 AND status = 'pending'
RETURNING ` + transactionColumns

// SetTransactionStatus moves a pending transaction to a terminal status.
func (r *Ledger) SetTransactionStatus(ctx context.Context, id int64, status domain.TransactionStatus) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	if status.IsTerminal() {
		t, err := scanTransaction(r.db.QueryRowContext(ctx, setTransactionStatusQuery, id, string(status)))
		if err == nil {
			return t, nil
		}

		if !errors.Is(err, sql.ErrNoRows) {
			l.Error().Err(err).Send()
			return t, errorspkg.ErrInternal
		}
	}

	// Nothing was updated, find out why.
	cur, err := r.GetTransaction(ctx, id)
	if err != nil {
		return domain.Transaction{}, err
	}

	if cur.Status == status && status.IsTerminal() {
		return cur, nil
	}

	return domain.Transaction{}, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidStatusTransition, cur.Status, status)
}

const listTransactionsQuery = `
SELECT ` + transactionColumns + `
FROM transactions
WHERE sender_id = $1 OR recipient_id = $1
ORDER BY created_at DESC, id DESC
LIMIT NULLIF($2, 0)
`

// ListTransactions returns the transactions the user sent or received, newest first.
func (r *Ledger) ListTransactions(ctx context.Context, userID int64, limit int) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	if limit < 0 {
		limit = 0
	}

	rows, err := r.db.QueryContext(ctx, listTransactionsQuery, userID, limit)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, t)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
