package accountservice

import (
	"context"
	"errors"
	"testing"

	"github.com/go-petr/voice-bank/internal/domain"
	"github.com/go-petr/voice-bank/pkg/errorspkg"
	"github.com/go-petr/voice-bank/pkg/randompkg"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func randomAccount(userID int64) domain.Account {
	return domain.Account{
		ID:            randompkg.Int64Between(1, 1000),
		UserID:        userID,
		AccountNumber: randompkg.Digits(AccountNumberLength),
		AccountType:   domain.AccountTypeChecking,
		Balance:       randompkg.Int64Between(0, 1_000_000),
		IsActive:      true,
	}
}

func TestCreate(t *testing.T) {
	t.Parallel()

	const userID = 7

	account := randomAccount(userID)

	testCases := []struct {
		name        string
		accountType domain.AccountType
		balance     int64
		buildStubs  func(repo *MockRepo)
		wantError   error
	}{
		{
			name:        "OK",
			accountType: domain.AccountTypeChecking,
			balance:     account.Balance,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().
					CreateAccount(gomock.Any(), domain.CreateAccountParams{
						UserID:        userID,
						AccountNumber: "0000000000000001",
						AccountType:   domain.AccountTypeChecking,
						Balance:       account.Balance,
					}).
					Times(1).
					Return(account, nil)
			},
		},
		{
			name:        "RetryOnTakenNumber",
			accountType: domain.AccountTypeChecking,
			balance:     account.Balance,
			buildStubs: func(repo *MockRepo) {
				gomock.InOrder(
					repo.EXPECT().
						CreateAccount(gomock.Any(), gomock.Any()).
						Times(2).
						Return(domain.Account{}, domain.ErrAccountNumberExists),
					repo.EXPECT().
						CreateAccount(gomock.Any(), gomock.Any()).
						Times(1).
						Return(account, nil),
				)
			},
		},
		{
			name:        "NoFreeNumber",
			accountType: domain.AccountTypeChecking,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().
					CreateAccount(gomock.Any(), gomock.Any()).
					Times(maxNumberAttempts).
					Return(domain.Account{}, domain.ErrAccountNumberExists)
			},
			wantError: errorspkg.ErrInternal,
		},
		{
			name:        "InvalidType",
			accountType: "brokerage",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).Times(0)
			},
			wantError: domain.ErrInvalidAccountType,
		},
		{
			name:        "NegativeBalance",
			accountType: domain.AccountTypeSavings,
			balance:     -1,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).Times(0)
			},
			wantError: domain.ErrNegativeBalance,
		},
		{
			name:        "RepoErr",
			accountType: domain.AccountTypeChecking,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().
					CreateAccount(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Account{}, domain.ErrUserNotFound)
			},
			wantError: domain.ErrUserNotFound,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			tc.buildStubs(repo)

			s := New(repo)
			s.newNumber = func() string { return "0000000000000001" }

			got, err := s.Create(context.Background(), userID, tc.accountType, tc.balance)
			if tc.wantError != nil {
				require.ErrorIs(t, err, tc.wantError)
				return
			}

			require.NoError(t, err)

			if diff := cmp.Diff(domain.NewMaskedAccount(account), got); diff != "" {
				t.Errorf("s.Create() returned unexpected diff: %v", diff)
			}
		})
	}
}

func TestList(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	a1, a2 := randomAccount(1), randomAccount(1)

	repo := NewMockRepo(ctrl)
	repo.EXPECT().
		ListAccounts(gomock.Any(), int64(1)).
		Times(1).
		Return([]domain.Account{a1, a2}, nil)

	got, err := New(repo).List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, domain.MaskAccountNumber(a1.AccountNumber), got[0].AccountNumber)
	require.Contains(t, got[1].AccountNumber, "****")
}

func TestDeactivate(t *testing.T) {
	t.Parallel()

	owned := randomAccount(1)
	foreign := randomAccount(2)
	inactive := randomAccount(1)
	inactive.IsActive = false

	testCases := []struct {
		name       string
		account    domain.Account
		buildStubs func(repo *MockRepo, a domain.Account)
		wantError  error
	}{
		{
			name:    "OK",
			account: owned,
			buildStubs: func(repo *MockRepo, a domain.Account) {
				repo.EXPECT().GetAccount(gomock.Any(), a.ID).Times(1).Return(a, nil)
				repo.EXPECT().DeactivateAccount(gomock.Any(), a.ID).Times(1).Return(nil)
			},
		},
		{
			name:    "NotOwner",
			account: foreign,
			buildStubs: func(repo *MockRepo, a domain.Account) {
				repo.EXPECT().GetAccount(gomock.Any(), a.ID).Times(1).Return(a, nil)
				repo.EXPECT().DeactivateAccount(gomock.Any(), gomock.Any()).Times(0)
			},
			wantError: domain.ErrAccountOwnerMismatch,
		},
		{
			name:    "AlreadyInactive",
			account: inactive,
			buildStubs: func(repo *MockRepo, a domain.Account) {
				repo.EXPECT().GetAccount(gomock.Any(), a.ID).Times(1).Return(a, nil)
				repo.EXPECT().DeactivateAccount(gomock.Any(), gomock.Any()).Times(0)
			},
			wantError: domain.ErrAccountNotFound,
		},
		{
			name:    "NotFound",
			account: owned,
			buildStubs: func(repo *MockRepo, a domain.Account) {
				repo.EXPECT().GetAccount(gomock.Any(), a.ID).Times(1).Return(domain.Account{}, domain.ErrAccountNotFound)
			},
			wantError: domain.ErrAccountNotFound,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			tc.buildStubs(repo, tc.account)

			err := New(repo).Deactivate(context.Background(), 1, tc.account.ID)
			if !errors.Is(err, tc.wantError) {
				t.Errorf("Deactivate(ctx, 1, %d) = %v, want %v", tc.account.ID, err, tc.wantError)
			}
		})
	}
}
