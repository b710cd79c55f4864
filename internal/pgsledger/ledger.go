// Package pgsledger keeps the ledger in PostgreSQL.
package pgsledger

import (
	"context"
	"database/sql"

	"github.com/go-petr/voice-bank/internal/domain"
	"github.com/go-petr/voice-bank/pkg/dbpkg"
	"github.com/go-petr/voice-bank/pkg/errorspkg"
	"github.com/rs/zerolog"
)

// Ledger is a ledger.Ledger on top of PostgreSQL.
type Ledger struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// New returns Ledger with connection to start transactions.
func New(db *sql.DB) *Ledger {
	return &Ledger{
		db:   db,
		conn: db,
	}
}

// newTx returns Ledger bound to a running transaction.
func newTx(tx *sql.Tx) *Ledger {
	return &Ledger{
		db: tx,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

const statsQuery = `
SELECT
    (SELECT count(*) FROM users WHERE is_active),
    (SELECT count(*) FROM accounts WHERE is_active),
    (SELECT count(*) FROM transactions)
`

// Stats returns entity counts.
func (r *Ledger) Stats(ctx context.Context) (domain.LedgerStats, error) {
	l := zerolog.Ctx(ctx)

	var s domain.LedgerStats

	err := r.db.QueryRowContext(ctx, statsQuery).Scan(&s.Users, &s.Accounts, &s.Transactions)
	if err != nil {
		l.Error().Err(err).Send()
		return s, errorspkg.ErrInternal
	}

	return s, nil
}
