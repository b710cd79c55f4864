package transferservice

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/go-petr/voice-bank/internal/domain"
	"github.com/go-petr/voice-bank/pkg/errorspkg"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

var (
	testFeatures = []float64{0.3, 0.4, 0.5}

	sender = domain.User{ID: 1, Username: "testuser1", IsActive: true}
	kim    = domain.User{ID: 2, Username: "김철수", IsActive: true}

	senderAccount = domain.Account{
		ID: 10, UserID: sender.ID, AccountNumber: "1234567890123456", Balance: 1_000_000, IsActive: true,
	}
	senderSecondAccount = domain.Account{
		ID: 11, UserID: sender.ID, AccountNumber: "1111222233334444", Balance: 1_000, IsActive: true,
	}
	kimAccount = domain.Account{
		ID: 20, UserID: kim.ID, AccountNumber: "2345678901234567", Balance: 500_000, IsActive: true,
	}
)

type mocks struct {
	repo      *MockRepo
	auth      *MockAuthenticator
	publisher *MockPublisher
}

func authOK(m mocks) {
	m.auth.EXPECT().
		Authenticate(gomock.Any(), sender.ID, testFeatures).
		Times(1).
		Return(domain.VoiceMatch{Authenticated: true, Similarity: 0.97}, nil)
}

func resolveKim(m mocks) {
	m.repo.EXPECT().GetUserByUsername(gomock.Any(), kim.Username).Times(1).Return(kim, nil)
	m.repo.EXPECT().ListAccounts(gomock.Any(), kim.ID).Times(1).Return([]domain.Account{kimAccount}, nil)
}

func senderAccounts(m mocks, accounts ...domain.Account) {
	m.repo.EXPECT().ListAccounts(gomock.Any(), sender.ID).Times(1).Return(accounts, nil)
}

func noCommit(m mocks) {
	m.repo.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(0)
	m.publisher.EXPECT().PublishTransfer(gomock.Any(), gomock.Any()).Times(0)
}

func completedTx(arg domain.CreateTransactionParams) domain.Transaction {
	return domain.Transaction{
		ID:                 100,
		SenderID:           arg.SenderID,
		RecipientID:        arg.RecipientID,
		SenderAccountID:    arg.SenderAccountID,
		RecipientAccountID: arg.RecipientAccountID,
		Amount:             arg.Amount,
		Fee:                arg.Fee,
		Status:             domain.TransactionCompleted,
		TransactionType:    arg.TransactionType,
		Description:        arg.Description,
	}
}

func TestVoiceTransfer(t *testing.T) {
	t.Parallel()

	wantArg := domain.CreateTransactionParams{
		SenderID:           sender.ID,
		RecipientID:        kim.ID,
		SenderAccountID:    senderAccount.ID,
		RecipientAccountID: kimAccount.ID,
		Amount:             50_000,
		Fee:                1_000,
		TransactionType:    domain.TransactionTypeVoice,
		Description:        "voice transfer to 김철수",
	}

	testCases := []struct {
		name       string
		params     domain.VoiceTransferParams
		buildStubs func(m mocks)
		wantError  error
		check      func(t *testing.T, got domain.TransferResult)
	}{
		{
			name: "OK",
			params: domain.VoiceTransferParams{
				UserID: sender.ID, Features: testFeatures, Transcript: "김철수에게 5만원 보내줘",
			},
			buildStubs: func(m mocks) {
				authOK(m)
				resolveKim(m)
				senderAccounts(m, senderAccount, senderSecondAccount)
				m.repo.EXPECT().Transfer(gomock.Any(), wantArg).Times(1).Return(completedTx(wantArg), nil)
				m.publisher.EXPECT().PublishTransfer(gomock.Any(), completedTx(wantArg)).Times(1).Return(nil)
			},
			check: func(t *testing.T, got domain.TransferResult) {
				require.Equal(t, int64(100), got.TransactionID)
				require.Equal(t, int64(50_000), got.Amount)
				require.Equal(t, int64(1_000), got.Fee)
				require.Equal(t, "50,000원 sent to 김철수", got.Message)
			},
		},
		{
			name: "PublishErrorIsNotReturned",
			params: domain.VoiceTransferParams{
				UserID: sender.ID, Features: testFeatures, Transcript: "김철수에게 5만원 보내줘",
			},
			buildStubs: func(m mocks) {
				authOK(m)
				resolveKim(m)
				senderAccounts(m, senderAccount)
				m.repo.EXPECT().Transfer(gomock.Any(), wantArg).Times(1).Return(completedTx(wantArg), nil)
				m.publisher.EXPECT().PublishTransfer(gomock.Any(), gomock.Any()).Times(1).Return(errors.New("broker down"))
			},
			check: func(t *testing.T, got domain.TransferResult) {
				require.Equal(t, int64(100), got.TransactionID)
			},
		},
		{
			name: "ChosenSenderAccountAndMemo",
			params: domain.VoiceTransferParams{
				UserID:      sender.ID,
				Features:    testFeatures,
				Transcript:  "김철수한테 3 천 원",
				FromAccount: senderAccount.AccountNumber,
				Memo:        "lunch",
			},
			buildStubs: func(m mocks) {
				authOK(m)
				resolveKim(m)
				senderAccounts(m, senderSecondAccount, senderAccount)

				arg := wantArg
				arg.Amount, arg.Fee, arg.Description = 3_000, 500, "lunch"

				m.repo.EXPECT().Transfer(gomock.Any(), arg).Times(1).Return(completedTx(arg), nil)
				m.publisher.EXPECT().PublishTransfer(gomock.Any(), gomock.Any()).Times(1).Return(nil)
			},
			check: func(t *testing.T, got domain.TransferResult) {
				require.Equal(t, int64(500), got.Fee)
			},
		},
		{
			name:   "EmptyTranscript",
			params: domain.VoiceTransferParams{UserID: sender.ID, Features: testFeatures, Transcript: "  "},
			buildStubs: func(m mocks) {
				m.auth.EXPECT().Authenticate(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				noCommit(m)
			},
			wantError: domain.ErrEmptyTranscript,
		},
		{
			name: "VoiceMismatch",
			params: domain.VoiceTransferParams{
				UserID: sender.ID, Features: testFeatures, Transcript: "김철수에게 5만원 보내줘",
			},
			buildStubs: func(m mocks) {
				m.auth.EXPECT().
					Authenticate(gomock.Any(), sender.ID, testFeatures).
					Times(1).
					Return(domain.VoiceMatch{Similarity: 0.42}, domain.ErrVoiceMismatch)
				m.repo.EXPECT().GetUserByUsername(gomock.Any(), gomock.Any()).Times(0)
				noCommit(m)
			},
			wantError: domain.ErrVoiceMismatch,
		},
		{
			name: "NotEnrolled",
			params: domain.VoiceTransferParams{
				UserID: sender.ID, Features: testFeatures, Transcript: "김철수에게 5만원 보내줘",
			},
			buildStubs: func(m mocks) {
				m.auth.EXPECT().
					Authenticate(gomock.Any(), sender.ID, testFeatures).
					Times(1).
					Return(domain.VoiceMatch{}, domain.ErrVoiceNotEnrolled)
				noCommit(m)
			},
			wantError: domain.ErrVoiceNotEnrolled,
		},
		{
			name: "NoAmount",
			params: domain.VoiceTransferParams{
				UserID: sender.ID, Features: testFeatures, Transcript: "김철수에게 오만원 보내줘",
			},
			buildStubs: func(m mocks) {
				authOK(m)
				m.repo.EXPECT().GetUserByUsername(gomock.Any(), gomock.Any()).Times(0)
				noCommit(m)
			},
			wantError: domain.ErrUnparsableInstruction,
		},
		{
			name: "NoRecipient",
			params: domain.VoiceTransferParams{
				UserID: sender.ID, Features: testFeatures, Transcript: "10천원 보내줘",
			},
			buildStubs: func(m mocks) {
				authOK(m)
				noCommit(m)
			},
			wantError: domain.ErrUnparsableInstruction,
		},
		{
			name: "UnknownRecipient",
			params: domain.VoiceTransferParams{
				UserID: sender.ID, Features: testFeatures, Transcript: "이영희에게 1만원",
			},
			buildStubs: func(m mocks) {
				authOK(m)
				m.repo.EXPECT().
					GetUserByUsername(gomock.Any(), "이영희").
					Times(1).
					Return(domain.User{}, domain.ErrUserNotFound)
				noCommit(m)
			},
			wantError: domain.ErrRecipientNotFound,
		},
		{
			name: "RecipientWithoutAccounts",
			params: domain.VoiceTransferParams{
				UserID: sender.ID, Features: testFeatures, Transcript: "김철수에게 1만원",
			},
			buildStubs: func(m mocks) {
				authOK(m)
				m.repo.EXPECT().GetUserByUsername(gomock.Any(), kim.Username).Times(1).Return(kim, nil)
				m.repo.EXPECT().ListAccounts(gomock.Any(), kim.ID).Times(1).Return([]domain.Account{}, nil)
				noCommit(m)
			},
			wantError: domain.ErrRecipientNotFound,
		},
		{
			name: "SenderWithoutAccounts",
			params: domain.VoiceTransferParams{
				UserID: sender.ID, Features: testFeatures, Transcript: "김철수에게 1만원",
			},
			buildStubs: func(m mocks) {
				authOK(m)
				resolveKim(m)
				senderAccounts(m)
				noCommit(m)
			},
			wantError: domain.ErrSenderAccountNotFound,
		},
		{
			name: "ForeignSenderAccount",
			params: domain.VoiceTransferParams{
				UserID:      sender.ID,
				Features:    testFeatures,
				Transcript:  "김철수에게 1만원",
				FromAccount: kimAccount.AccountNumber,
			},
			buildStubs: func(m mocks) {
				authOK(m)
				resolveKim(m)
				senderAccounts(m, senderAccount)
				noCommit(m)
			},
			wantError: domain.ErrSenderAccountNotFound,
		},
		{
			name: "InsufficientBalance",
			params: domain.VoiceTransferParams{
				UserID:      sender.ID,
				Features:    testFeatures,
				Transcript:  "김철수에게 1천원",
				FromAccount: senderSecondAccount.AccountNumber,
			},
			buildStubs: func(m mocks) {
				authOK(m)
				resolveKim(m)
				senderAccounts(m, senderAccount, senderSecondAccount)
				noCommit(m)
			},
			wantError: domain.ErrInsufficientBalance,
		},
		{
			name: "AmountOverflowsWithFee",
			params: domain.VoiceTransferParams{
				UserID: sender.ID, Features: testFeatures, Transcript: "김철수에게 9223372036854775807원 보내줘",
			},
			buildStubs: func(m mocks) {
				authOK(m)
				m.repo.EXPECT().GetUserByUsername(gomock.Any(), gomock.Any()).Times(0)
				noCommit(m)
			},
			wantError: domain.ErrUnparsableInstruction,
		},
		{
			name: "AmountFarAboveBalance",
			params: domain.VoiceTransferParams{
				UserID: sender.ID, Features: testFeatures, Transcript: "김철수에게 9223372036854774307원 보내줘",
			},
			buildStubs: func(m mocks) {
				authOK(m)
				resolveKim(m)
				senderAccounts(m, senderAccount)
				noCommit(m)
			},
			wantError: domain.ErrInsufficientBalance,
		},
		{
			name: "RecipientBalanceOverflow",
			params: domain.VoiceTransferParams{
				UserID: sender.ID, Features: testFeatures, Transcript: "김철수에게 5만원 보내줘",
			},
			buildStubs: func(m mocks) {
				authOK(m)
				resolveKim(m)
				senderAccounts(m, senderAccount)
				m.repo.EXPECT().
					Transfer(gomock.Any(), wantArg).
					Times(1).
					Return(domain.Transaction{}, fmt.Errorf("%w: recipient balance would overflow", domain.ErrInvalidAmount))
				m.publisher.EXPECT().PublishTransfer(gomock.Any(), gomock.Any()).Times(0)
			},
			wantError: domain.ErrInvalidAmount,
		},
		{
			name: "AccountOwnerChanged",
			params: domain.VoiceTransferParams{
				UserID: sender.ID, Features: testFeatures, Transcript: "김철수에게 5만원 보내줘",
			},
			buildStubs: func(m mocks) {
				authOK(m)
				resolveKim(m)
				senderAccounts(m, senderAccount)
				m.repo.EXPECT().
					Transfer(gomock.Any(), wantArg).
					Times(1).
					Return(domain.Transaction{}, domain.ErrAccountOwnerMismatch)
				m.publisher.EXPECT().PublishTransfer(gomock.Any(), gomock.Any()).Times(0)
			},
			wantError: domain.ErrAccountOwnerMismatch,
		},
		{
			name: "CommitFailed",
			params: domain.VoiceTransferParams{
				UserID: sender.ID, Features: testFeatures, Transcript: "김철수에게 5만원 보내줘",
			},
			buildStubs: func(m mocks) {
				authOK(m)
				resolveKim(m)
				senderAccounts(m, senderAccount)
				m.repo.EXPECT().Transfer(gomock.Any(), wantArg).Times(1).Return(domain.Transaction{}, errorspkg.ErrInternal)
				m.publisher.EXPECT().PublishTransfer(gomock.Any(), gomock.Any()).Times(0)
			},
			wantError: domain.ErrCommitFailed,
		},
		{
			name: "BalanceChangedBeforeCommit",
			params: domain.VoiceTransferParams{
				UserID: sender.ID, Features: testFeatures, Transcript: "김철수에게 5만원 보내줘",
			},
			buildStubs: func(m mocks) {
				authOK(m)
				resolveKim(m)
				senderAccounts(m, senderAccount)
				m.repo.EXPECT().
					Transfer(gomock.Any(), wantArg).
					Times(1).
					Return(domain.Transaction{}, domain.NewInsufficientBalanceError(51_000, 100))
				m.publisher.EXPECT().PublishTransfer(gomock.Any(), gomock.Any()).Times(0)
			},
			wantError: domain.ErrInsufficientBalance,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := mocks{
				repo:      NewMockRepo(ctrl),
				auth:      NewMockAuthenticator(ctrl),
				publisher: NewMockPublisher(ctrl),
			}
			tc.buildStubs(m)

			svc := New(m.repo, m.auth, m.publisher)

			got, err := svc.VoiceTransfer(context.Background(), tc.params)
			svc.Wait()

			if tc.wantError != nil {
				require.ErrorIs(t, err, tc.wantError)
				require.Zero(t, got.TransactionID)

				return
			}

			require.NoError(t, err)
			tc.check(t, got)
		})
	}
}

type blockingPublisher struct {
	release chan struct{}
	done    chan error
}

func (p blockingPublisher) PublishTransfer(ctx context.Context, _ domain.Transaction) error {
	<-p.release
	p.done <- ctx.Err()

	return nil
}

func TestVoiceTransferDoesNotWaitForPublish(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := mocks{repo: NewMockRepo(ctrl), auth: NewMockAuthenticator(ctrl)}

	authOK(m)
	resolveKim(m)
	senderAccounts(m, senderAccount)
	m.repo.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(1).DoAndReturn(
		func(_ context.Context, arg domain.CreateTransactionParams) (domain.Transaction, error) {
			return completedTx(arg), nil
		})

	pub := blockingPublisher{release: make(chan struct{}), done: make(chan error, 1)}
	svc := New(m.repo, m.auth, pub)

	ctx, cancel := context.WithCancel(context.Background())

	returned := make(chan error, 1)

	go func() {
		_, err := svc.VoiceTransfer(ctx, domain.VoiceTransferParams{
			UserID: sender.ID, Features: testFeatures, Transcript: "김철수에게 5만원 보내줘",
		})
		returned <- err
	}()

	select {
	case err := <-returned:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("VoiceTransfer blocked on the publisher")
	}

	cancel()
	close(pub.release)
	svc.Wait()

	require.NoError(t, <-pub.done, "publish context must outlive the request")
}

func TestVoiceTransferErrorMessages(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := mocks{repo: NewMockRepo(ctrl), auth: NewMockAuthenticator(ctrl)}

	authOK(m)
	m.repo.EXPECT().GetUserByUsername(gomock.Any(), "이영희").Times(1).Return(domain.User{}, domain.ErrUserNotFound)

	_, err := New(m.repo, m.auth, nil).VoiceTransfer(context.Background(), domain.VoiceTransferParams{
		UserID: sender.ID, Features: testFeatures, Transcript: "이영희에게 1만원",
	})
	require.EqualError(t, err, "recipient not found: 이영희")

	authOK(m)
	resolveKim(m)
	senderAccounts(m, senderSecondAccount)

	_, err = New(m.repo, m.auth, nil).VoiceTransfer(context.Background(), domain.VoiceTransferParams{
		UserID: sender.ID, Features: testFeatures, Transcript: "김철수에게 1천원",
	})
	require.EqualError(t, err, "insufficient balance (required: 1,500원, available: 1,000원)")
}

func TestTransfer(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		params     domain.TransferParams
		buildStubs func(m mocks)
		wantError  error
	}{
		{
			name: "OK",
			params: domain.TransferParams{
				UserID: sender.ID, Features: testFeatures, RecipientName: " 김철수 ", Amount: 150_000,
			},
			buildStubs: func(m mocks) {
				authOK(m)
				resolveKim(m)
				senderAccounts(m, senderAccount)

				arg := domain.CreateTransactionParams{
					SenderID:           sender.ID,
					RecipientID:        kim.ID,
					SenderAccountID:    senderAccount.ID,
					RecipientAccountID: kimAccount.ID,
					Amount:             150_000,
					Fee:                1_500,
					TransactionType:    domain.TransactionTypeTransfer,
					Description:        "transfer to 김철수",
				}
				m.repo.EXPECT().Transfer(gomock.Any(), arg).Times(1).Return(completedTx(arg), nil)
			},
		},
		{
			name:   "ZeroAmount",
			params: domain.TransferParams{UserID: sender.ID, Features: testFeatures, RecipientName: "김철수"},
			buildStubs: func(m mocks) {
				m.auth.EXPECT().Authenticate(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantError: domain.ErrInvalidAmount,
		},
		{
			name: "AmountOverflowsWithFee",
			params: domain.TransferParams{
				UserID: sender.ID, Features: testFeatures, RecipientName: "김철수", Amount: math.MaxInt64,
			},
			buildStubs: func(m mocks) {
				m.auth.EXPECT().Authenticate(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				m.repo.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(0)
			},
			wantError: domain.ErrInvalidAmount,
		},
		{
			name:   "NoRecipient",
			params: domain.TransferParams{UserID: sender.ID, Features: testFeatures, Amount: 1_000},
			buildStubs: func(m mocks) {
				m.auth.EXPECT().Authenticate(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantError: domain.ErrInvalidRecipient,
		},
		{
			name: "VoiceMismatch",
			params: domain.TransferParams{
				UserID: sender.ID, Features: testFeatures, RecipientName: "김철수", Amount: 1_000,
			},
			buildStubs: func(m mocks) {
				m.auth.EXPECT().
					Authenticate(gomock.Any(), sender.ID, testFeatures).
					Times(1).
					Return(domain.VoiceMatch{Similarity: 0.1}, domain.ErrVoiceMismatch)
				m.repo.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(0)
			},
			wantError: domain.ErrVoiceMismatch,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := mocks{repo: NewMockRepo(ctrl), auth: NewMockAuthenticator(ctrl)}
			tc.buildStubs(m)

			got, err := New(m.repo, m.auth, nil).Transfer(context.Background(), tc.params)
			if tc.wantError != nil {
				require.ErrorIs(t, err, tc.wantError)
				return
			}

			require.NoError(t, err)
			require.Equal(t, "150,000원 sent to 김철수", got.Message)
		})
	}
}

func TestAuthenticateAndExtract(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		transcript string
		buildStubs func(m mocks)
		want       domain.VoiceAuthResult
		wantError  error
	}{
		{
			name:       "Full",
			transcript: "김철수에게 5만원 보내줘",
			buildStubs: func(m mocks) {
				authOK(m)
				resolveKim(m)
			},
			want: domain.VoiceAuthResult{
				Authenticated: true,
				Similarity:    0.97,
				TransferInfo:  &domain.TransferInfo{Recipient: "김철수", Amount: 50_000},
				RecipientAccount: &domain.RecipientAccount{
					ID:           kimAccount.ID,
					MaskedNumber: "2345****4567",
				},
			},
		},
		{
			name:       "UnknownRecipient",
			transcript: "이영희에게 1만원",
			buildStubs: func(m mocks) {
				authOK(m)
				m.repo.EXPECT().GetUserByUsername(gomock.Any(), "이영희").Times(1).Return(domain.User{}, domain.ErrUserNotFound)
			},
			want: domain.VoiceAuthResult{
				Authenticated: true,
				Similarity:    0.97,
				TransferInfo:  &domain.TransferInfo{Recipient: "이영희", Amount: 10_000},
			},
		},
		{
			name:       "AmountOnly",
			transcript: "5만원",
			buildStubs: func(m mocks) {
				authOK(m)
			},
			want: domain.VoiceAuthResult{
				Authenticated: true,
				Similarity:    0.97,
				TransferInfo:  &domain.TransferInfo{Amount: 50_000},
			},
		},
		{
			name:       "NoTranscript",
			transcript: "",
			buildStubs: func(m mocks) {
				authOK(m)
			},
			want: domain.VoiceAuthResult{Authenticated: true, Similarity: 0.97},
		},
		{
			name:       "Rejected",
			transcript: "김철수에게 5만원 보내줘",
			buildStubs: func(m mocks) {
				m.auth.EXPECT().
					Authenticate(gomock.Any(), sender.ID, testFeatures).
					Times(1).
					Return(domain.VoiceMatch{Similarity: 0.5}, domain.ErrVoiceMismatch)
				m.repo.EXPECT().GetUserByUsername(gomock.Any(), gomock.Any()).Times(0)
			},
			want: domain.VoiceAuthResult{Similarity: 0.5},
		},
		{
			name:       "NotEnrolled",
			transcript: "김철수에게 5만원 보내줘",
			buildStubs: func(m mocks) {
				m.auth.EXPECT().
					Authenticate(gomock.Any(), sender.ID, testFeatures).
					Times(1).
					Return(domain.VoiceMatch{}, domain.ErrVoiceNotEnrolled)
			},
			wantError: domain.ErrVoiceNotEnrolled,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := mocks{repo: NewMockRepo(ctrl), auth: NewMockAuthenticator(ctrl)}
			tc.buildStubs(m)

			got, err := New(m.repo, m.auth, nil).AuthenticateAndExtract(context.Background(), sender.ID, testFeatures, tc.transcript)
			if tc.wantError != nil {
				require.ErrorIs(t, err, tc.wantError)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestHistory(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepo(ctrl)
	repo.EXPECT().ListTransactions(gomock.Any(), sender.ID, DefaultHistoryLimit).Times(1).Return([]domain.Transaction{}, nil)
	repo.EXPECT().ListTransactions(gomock.Any(), sender.ID, 5).Times(1).Return([]domain.Transaction{{ID: 1}}, nil)

	s := New(repo, nil, nil)

	got, err := s.History(context.Background(), sender.ID, 0)
	require.NoError(t, err)
	require.Empty(t, got)

	got, err = s.History(context.Background(), sender.ID, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
}
