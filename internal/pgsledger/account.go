package pgsledger

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-petr/voice-bank/internal/domain"
	"github.com/go-petr/voice-bank/pkg/dbpkg"
	"github.com/go-petr/voice-bank/pkg/errorspkg"
	"github.com/rs/zerolog"
)

const accountColumns = `id, user_id, account_number, account_type, balance, is_active, created_at`

func scanAccount(row scanner) (domain.Account, error) {
	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.AccountNumber,
		&a.AccountType,
		&a.Balance,
		&a.IsActive,
		&a.CreatedAt,
	)

	return a, err
}

const createAccountQuery = `
INSERT INTO accounts (
    user_id,
    account_number,
    account_type,
    balance
) VALUES (
    $1, $2, $3, $4
) RETURNING ` + accountColumns

// CreateAccount creates the account and then returns it.
func (r *Ledger) CreateAccount(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createAccountQuery,
		arg.UserID,
		arg.AccountNumber,
		string(arg.AccountType),
		arg.Balance,
	)

	a, err := scanAccount(row)
	if err != nil {
		switch dbpkg.ConstraintName(err) {
		case "accounts_account_number_key":
			return a, domain.ErrAccountNumberExists
		case "accounts_balance_check":
			return a, domain.ErrNegativeBalance
		case "accounts_user_id_fkey":
			return a, domain.ErrUserNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getAccountQuery = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

// GetAccount returns the account with the given id, active or not.
func (r *Ledger) GetAccount(ctx context.Context, id int64) (domain.Account, error) {
	return r.getAccount(ctx, getAccountQuery, id)
}

const getAccountForUpdateQuery = getAccountQuery + ` FOR UPDATE`

func (r *Ledger) getAccount(ctx context.Context, query string, id int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const listAccountsQuery = `
SELECT ` + accountColumns + `
FROM accounts
WHERE user_id = $1 AND is_active
ORDER BY created_at, id
`

// ListAccounts returns the active accounts of the user in creation order.
func (r *Ledger) ListAccounts(ctx context.Context, userID int64) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listAccountsQuery, userID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, a)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const deactivateAccountQuery = `UPDATE accounts SET is_active = false WHERE id = $1`

// DeactivateAccount hides the account from listings and transfers.
func (r *Ledger) DeactivateAccount(ctx context.Context, id int64) error {
	return r.execAccount(ctx, deactivateAccountQuery, id)
}

const updateBalanceQuery = `UPDATE accounts SET balance = $2 WHERE id = $1`

// UpdateBalance sets the balance of the account.
func (r *Ledger) UpdateBalance(ctx context.Context, accountID, newBalance int64) error {
	if newBalance < 0 {
		return domain.ErrNegativeBalance
	}

	return r.execAccount(ctx, updateBalanceQuery, accountID, newBalance)
}

const addBalanceQuery = `UPDATE accounts SET balance = balance + $2 WHERE id = $1`

func (r *Ledger) addBalance(ctx context.Context, accountID, delta int64) error {
	return r.execAccount(ctx, addBalanceQuery, accountID, delta)
}

func (r *Ledger) execAccount(ctx context.Context, query string, args ...any) error {
	l := zerolog.Ctx(ctx)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if dbpkg.ConstraintName(err) == "accounts_balance_check" {
			return domain.ErrNegativeBalance
		}

		l.Error().Err(err).Send()

		return errorspkg.ErrInternal
	}

	n, err := res.RowsAffected()
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}
