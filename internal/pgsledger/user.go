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

const userColumns = `id, username, email, hashed_password, phone_number, is_active, created_at`

func scanUser(row scanner) (domain.User, error) {
	var u domain.User

	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.HashedPassword,
		&u.PhoneNumber,
		&u.IsActive,
		&u.CreatedAt,
	)

	return u, err
}

const createUserQuery = `
INSERT INTO users (
    username,
    email,
    hashed_password,
    phone_number
) VALUES (
    $1, $2, $3, $4
) RETURNING ` + userColumns

// CreateUser creates the user and then returns it.
func (r *Ledger) CreateUser(ctx context.Context, arg domain.CreateUserParams) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createUserQuery,
		arg.Username,
		arg.Email,
		arg.HashedPassword,
		arg.PhoneNumber,
	)

	u, err := scanUser(row)
	if err != nil {
		switch dbpkg.ConstraintName(err) {
		case "users_username_key":
			return u, domain.ErrUsernameAlreadyExists
		case "users_email_key":
			return u, domain.ErrEmailAlreadyExists
		}

		l.Error().Err(err).Send()

		return u, errorspkg.ErrInternal
	}

	return u, nil
}

const getUserQuery = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

// GetUser returns the user with the given id.
func (r *Ledger) GetUser(ctx context.Context, id int64) (domain.User, error) {
	return r.getUser(ctx, getUserQuery, id)
}

const getUserByUsernameQuery = `SELECT ` + userColumns + ` FROM users WHERE username = $1 AND is_active`

// GetUserByUsername returns the active user with the given username.
func (r *Ledger) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.getUser(ctx, getUserByUsernameQuery, username)
}

func (r *Ledger) getUser(ctx context.Context, query string, arg any) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return u, domain.ErrUserNotFound
		}

		l.Error().Err(err).Send()

		return u, errorspkg.ErrInternal
	}

	return u, nil
}

const listUsersQuery = `SELECT ` + userColumns + ` FROM users WHERE is_active ORDER BY id`

// ListUsers returns the active users ordered by id.
func (r *Ledger) ListUsers(ctx context.Context) ([]domain.User, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listUsersQuery)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.User{}

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, u)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
