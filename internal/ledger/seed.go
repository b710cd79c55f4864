package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-petr/voice-bank/internal/domain"
	"github.com/go-petr/voice-bank/pkg/passpkg"
	"github.com/rs/zerolog"
)

// DemoPassword is the password of every seeded demo user.
const DemoPassword = "password"

type demoUser struct {
	username      string
	email         string
	phone         string
	accountNumber string
	accountType   domain.AccountType
	balance       int64
}

var demoUsers = []demoUser{
	{"testuser1", "test1@example.com", "010-1234-5678", "1234567890123456", domain.AccountTypeChecking, 1_000_000},
	{"김철수", "kim@example.com", "010-9876-5432", "2345678901234567", domain.AccountTypeSavings, 500_000},
	{"홍길동", "hong@example.com", "010-5555-1234", "3456789012345678", domain.AccountTypeChecking, 750_000},
}

// SeedDemo creates the demo users with one account each.
//
// Users that already exist are skipped, so seeding is safe to repeat.
func SeedDemo(ctx context.Context, l Ledger) error {
	log := zerolog.Ctx(ctx)

	hashedPassword, err := passpkg.Hash(DemoPassword)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	for _, du := range demoUsers {
		u, err := l.CreateUser(ctx, domain.CreateUserParams{
			Username:       du.username,
			Email:          du.email,
			HashedPassword: hashedPassword,
			PhoneNumber:    du.phone,
		})
		if errors.Is(err, domain.ErrUsernameAlreadyExists) || errors.Is(err, domain.ErrEmailAlreadyExists) {
			continue
		}

		if err != nil {
			return fmt.Errorf("seed user %s: %w", du.username, err)
		}

		_, err = l.CreateAccount(ctx, domain.CreateAccountParams{
			UserID:        u.ID,
			AccountNumber: du.accountNumber,
			AccountType:   du.accountType,
			Balance:       du.balance,
		})
		if err != nil {
			return fmt.Errorf("seed account %s: %w", du.accountNumber, err)
		}
	}

	stats, err := l.Stats(ctx)
	if err != nil {
		return err
	}

	log.Info().
		Int64("users", stats.Users).
		Int64("accounts", stats.Accounts).
		Msg("demo data seeded")

	return nil
}
