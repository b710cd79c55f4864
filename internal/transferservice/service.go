// Package transferservice manages business logic layer of transfers.
//
// A transfer passes through authentication, instruction extraction, recipient and
// sender resolution and a balance check before the ledger commits it. Any failure
// before the commit leaves the ledger untouched.
package transferservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-petr/voice-bank/internal/domain"
	"github.com/go-petr/voice-bank/pkg/moneypkg"
	"github.com/go-petr/voice-bank/pkg/transferparse"
	"github.com/rs/zerolog"
)

// DefaultHistoryLimit is used when History is called without a positive limit.
const DefaultHistoryLimit = 50

// PublishTimeout bounds the announcement of one completed transfer.
const PublishTimeout = 10 * time.Second

// Repo provides data access layer interface needed by transfer service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transferservice
type Repo interface {
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
	ListAccounts(ctx context.Context, userID int64) ([]domain.Account, error)
	Transfer(ctx context.Context, arg domain.CreateTransactionParams) (domain.Transaction, error)
	ListTransactions(ctx context.Context, userID int64, limit int) ([]domain.Transaction, error)
}

// Authenticator verifies that a voice sample belongs to the user.
type Authenticator interface {
	Authenticate(ctx context.Context, userID int64, features []float64) (domain.VoiceMatch, error)
}

// Publisher announces completed transfers.
type Publisher interface {
	PublishTransfer(ctx context.Context, tx domain.Transaction) error
}

// Service facilitates transfer service layer logic.
type Service struct {
	repo      Repo
	auth      Authenticator
	publisher Publisher

	publishing sync.WaitGroup
}

// New return transfer service struct to manage transfer bussines logic.
//
// The publisher is optional. Completed transfers are announced in the background,
// see Wait.
func New(tr Repo, auth Authenticator, pub Publisher) *Service {
	return &Service{
		repo:      tr,
		auth:      auth,
		publisher: pub,
	}
}

// VoiceTransfer authenticates the voice sample, reads the recipient and the amount
// from the transcript and moves the money.
func (s *Service) VoiceTransfer(ctx context.Context, p domain.VoiceTransferParams) (domain.TransferResult, error) {
	l := zerolog.Ctx(ctx)

	if strings.TrimSpace(p.Transcript) == "" {
		return domain.TransferResult{}, domain.ErrEmptyTranscript
	}

	if _, err := s.auth.Authenticate(ctx, p.UserID, p.Features); err != nil {
		l.Info().Err(err).Int64("user_id", p.UserID).Msg("voice transfer rejected")
		return domain.TransferResult{}, err
	}

	info := transferparse.Parse(p.Transcript)
	if !info.Succeeded() {
		l.Info().Str("transcript", p.Transcript).Msg("instruction not understood")
		return domain.TransferResult{}, domain.ErrUnparsableInstruction
	}

	return s.commit(ctx, commitParams{
		userID:          p.UserID,
		recipientName:   info.Recipient,
		amount:          info.Amount,
		fromAccount:     p.FromAccount,
		memo:            p.Memo,
		transactionType: domain.TransactionTypeVoice,
	})
}

// Transfer authenticates the voice sample and moves the given amount to the named recipient.
func (s *Service) Transfer(ctx context.Context, p domain.TransferParams) (domain.TransferResult, error) {
	l := zerolog.Ctx(ctx)

	if p.Amount <= 0 || p.Amount > moneypkg.MaxAmount {
		return domain.TransferResult{}, domain.ErrInvalidAmount
	}

	recipient := strings.TrimSpace(p.RecipientName)
	if recipient == "" {
		return domain.TransferResult{}, domain.ErrInvalidRecipient
	}

	if _, err := s.auth.Authenticate(ctx, p.UserID, p.Features); err != nil {
		l.Info().Err(err).Int64("user_id", p.UserID).Msg("transfer rejected")
		return domain.TransferResult{}, err
	}

	return s.commit(ctx, commitParams{
		userID:          p.UserID,
		recipientName:   recipient,
		amount:          p.Amount,
		fromAccount:     p.FromAccount,
		memo:            p.Memo,
		transactionType: domain.TransactionTypeTransfer,
	})
}

// AuthenticateAndExtract reports what a voice transfer would do without moving money.
//
// A rejected voice sample is a regular result with Authenticated false. The
// transcript is read only for authenticated users and may be empty.
func (s *Service) AuthenticateAndExtract(ctx context.Context, userID int64, features []float64, transcript string) (domain.VoiceAuthResult, error) {
	match, err := s.auth.Authenticate(ctx, userID, features)
	if errors.Is(err, domain.ErrVoiceMismatch) {
		return domain.VoiceAuthResult{Similarity: match.Similarity}, nil
	}

	if err != nil {
		return domain.VoiceAuthResult{}, err
	}

	result := domain.VoiceAuthResult{
		Authenticated: true,
		Similarity:    match.Similarity,
	}

	if strings.TrimSpace(transcript) == "" {
		return result, nil
	}

	info := transferparse.Parse(transcript)
	if !info.HasRecipient && !info.HasAmount {
		return result, nil
	}

	result.TransferInfo = &domain.TransferInfo{
		Recipient: info.Recipient,
		Amount:    info.Amount,
	}

	if !info.HasRecipient {
		return result, nil
	}

	_, account, err := s.resolveRecipient(ctx, info.Recipient)
	switch {
	case errors.Is(err, domain.ErrRecipientNotFound):
	case err != nil:
		return domain.VoiceAuthResult{}, err
	default:
		result.RecipientAccount = &domain.RecipientAccount{
			ID:           account.ID,
			MaskedNumber: domain.MaskAccountNumber(account.AccountNumber),
		}
	}

	return result, nil
}

// History returns the transactions of the user, newest first.
func (s *Service) History(ctx context.Context, userID int64, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	return s.repo.ListTransactions(ctx, userID, limit)
}

type commitParams struct {
	userID          int64
	recipientName   string
	amount          int64
	fromAccount     string
	memo            string
	transactionType string
}

func (s *Service) commit(ctx context.Context, p commitParams) (domain.TransferResult, error) {
	l := zerolog.Ctx(ctx)

	if p.amount <= 0 || p.amount > moneypkg.MaxAmount {
		return domain.TransferResult{}, domain.ErrInvalidAmount
	}

	recipient, recipientAccount, err := s.resolveRecipient(ctx, p.recipientName)
	if err != nil {
		return domain.TransferResult{}, err
	}

	senderAccount, err := s.resolveSender(ctx, p.userID, p.fromAccount)
	if err != nil {
		return domain.TransferResult{}, err
	}

	fee := moneypkg.Fee(p.amount)

	if senderAccount.Balance-fee < p.amount {
		return domain.TransferResult{}, domain.NewInsufficientBalanceError(p.amount+fee, senderAccount.Balance)
	}

	description := p.memo
	if description == "" {
		description = fmt.Sprintf("%s to %s", strings.ReplaceAll(p.transactionType, "_", " "), p.recipientName)
	}

	tx, err := s.repo.Transfer(ctx, domain.CreateTransactionParams{
		SenderID:           p.userID,
		RecipientID:        recipient.ID,
		SenderAccountID:    senderAccount.ID,
		RecipientAccountID: recipientAccount.ID,
		Amount:             p.amount,
		Fee:                fee,
		TransactionType:    p.transactionType,
		Description:        description,
	})
	if err != nil {
		l.Warn().Err(err).Int64("user_id", p.userID).Msg("transfer commit failed")

		switch {
		case errors.Is(err, domain.ErrInsufficientBalance),
			errors.Is(err, domain.ErrInvalidAmount),
			errors.Is(err, domain.ErrAccountOwnerMismatch),
			errors.Is(err, domain.ErrCommitFailed):
			return domain.TransferResult{}, err
		}

		return domain.TransferResult{}, fmt.Errorf("%w: %w", domain.ErrCommitFailed, err)
	}

	l.Info().
		Int64("transaction_id", tx.ID).
		Int64("amount", tx.Amount).
		Int64("fee", tx.Fee).
		Str("recipient", p.recipientName).
		Msg("transfer completed")

	s.publish(ctx, tx)

	return domain.TransferResult{
		TransactionID: tx.ID,
		Amount:        tx.Amount,
		Fee:           tx.Fee,
		Message:       fmt.Sprintf("%s sent to %s", moneypkg.Format(tx.Amount), p.recipientName),
		Transaction:   tx,
	}, nil
}

// publish announces the transfer without holding up the caller. The event outlives
// the request context but not PublishTimeout.
func (s *Service) publish(ctx context.Context, tx domain.Transaction) {
	if s.publisher == nil {
		return
	}

	l := zerolog.Ctx(ctx)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), PublishTimeout)

	s.publishing.Add(1)

	go func() {
		defer s.publishing.Done()
		defer cancel()

		if err := s.publisher.PublishTransfer(ctx, tx); err != nil {
			l.Error().Err(err).Int64("transaction_id", tx.ID).Msg("publish transfer event")
		}
	}()
}

// Wait blocks until every started transfer announcement has finished.
func (s *Service) Wait() {
	s.publishing.Wait()
}

// resolveRecipient finds the user by exact username and picks the first active account.
func (s *Service) resolveRecipient(ctx context.Context, name string) (domain.User, domain.Account, error) {
	u, err := s.repo.GetUserByUsername(ctx, name)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, domain.Account{}, fmt.Errorf("%w: %s", domain.ErrRecipientNotFound, name)
	}

	if err != nil {
		return domain.User{}, domain.Account{}, err
	}

	accounts, err := s.repo.ListAccounts(ctx, u.ID)
	if err != nil {
		return domain.User{}, domain.Account{}, err
	}

	if len(accounts) == 0 {
		return domain.User{}, domain.Account{}, fmt.Errorf("%w: %s", domain.ErrRecipientNotFound, name)
	}

	return u, accounts[0], nil
}

// resolveSender picks the account named by number, or the first active account
// of the user when no number is given.
func (s *Service) resolveSender(ctx context.Context, userID int64, number string) (domain.Account, error) {
	accounts, err := s.repo.ListAccounts(ctx, userID)
	if err != nil {
		return domain.Account{}, err
	}

	if number == "" {
		if len(accounts) == 0 {
			return domain.Account{}, domain.ErrSenderAccountNotFound
		}

		return accounts[0], nil
	}

	for _, a := range accounts {
		if a.AccountNumber == number {
			return a, nil
		}
	}

	return domain.Account{}, domain.ErrSenderAccountNotFound
}
