// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"
	"errors"

	"github.com/go-petr/voice-bank/internal/domain"
	"github.com/go-petr/voice-bank/pkg/errorspkg"
	"github.com/go-petr/voice-bank/pkg/randompkg"
	"github.com/rs/zerolog"
)

// AccountNumberLength is the number of digits of generated account numbers.
const AccountNumberLength = 16

const maxNumberAttempts = 5

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	CreateAccount(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error)
	GetAccount(ctx context.Context, id int64) (domain.Account, error)
	ListAccounts(ctx context.Context, userID int64) ([]domain.Account, error)
	DeactivateAccount(ctx context.Context, id int64) error
}

// Service facilitates account service layer logic.
type Service struct {
	repo      Repo
	newNumber func() string
}

// New returns account service struct to manage account bussines logic.
func New(ar Repo) *Service {
	return &Service{
		repo: ar,
		newNumber: func() string {
			return randompkg.Digits(AccountNumberLength)
		},
	}
}

// Create opens an account of the given type for the user under a fresh account number.
func (s *Service) Create(ctx context.Context, userID int64, accountType domain.AccountType, balance int64) (domain.MaskedAccount, error) {
	l := zerolog.Ctx(ctx)

	if !domain.IsSupportedAccountType(string(accountType)) {
		return domain.MaskedAccount{}, domain.ErrInvalidAccountType
	}

	if balance < 0 {
		return domain.MaskedAccount{}, domain.ErrNegativeBalance
	}

	for i := 0; i < maxNumberAttempts; i++ {
		account, err := s.repo.CreateAccount(ctx, domain.CreateAccountParams{
			UserID:        userID,
			AccountNumber: s.newNumber(),
			AccountType:   accountType,
			Balance:       balance,
		})
		if errors.Is(err, domain.ErrAccountNumberExists) {
			continue
		}

		if err != nil {
			return domain.MaskedAccount{}, err
		}

		l.Info().Int64("user_id", userID).Int64("account_id", account.ID).Msg("account opened")

		return domain.NewMaskedAccount(account), nil
	}

	l.Error().Int("attempts", maxNumberAttempts).Msg("no free account number")

	return domain.MaskedAccount{}, errorspkg.ErrInternal
}

// List returns the active accounts of the user with masked numbers.
func (s *Service) List(ctx context.Context, userID int64) ([]domain.MaskedAccount, error) {
	accounts, err := s.repo.ListAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.MaskedAccount, 0, len(accounts))
	for _, a := range accounts {
		result = append(result, domain.NewMaskedAccount(a))
	}

	return result, nil
}

// Deactivate closes the account when it belongs to the user.
func (s *Service) Deactivate(ctx context.Context, userID, accountID int64) error {
	account, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		return err
	}

	if !account.IsActive {
		return domain.ErrAccountNotFound
	}

	if account.UserID != userID {
		return domain.ErrAccountOwnerMismatch
	}

	return s.repo.DeactivateAccount(ctx, accountID)
}
