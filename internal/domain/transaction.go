package domain

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-petr/voice-bank/pkg/moneypkg"
)

var (
	// ErrTransactionNotFound indicates that the transaction is not found.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrInvalidStatusTransition indicates a status change that is not pending -> terminal.
	ErrInvalidStatusTransition = errors.New("invalid transaction status transition")
	// ErrInvalidAmount indicates a non-positive or oversized transfer amount or a negative fee.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrEmptyTranscript indicates a missing transfer instruction.
	ErrEmptyTranscript = errors.New("transcript is required")
	// ErrInvalidRecipient indicates a missing recipient name.
	ErrInvalidRecipient = errors.New("recipient is required")
	// ErrUnparsableInstruction indicates that the recipient or the amount could not be extracted.
	ErrUnparsableInstruction = errors.New("could not understand instruction")
	// ErrRecipientNotFound indicates that the recipient has no active account.
	ErrRecipientNotFound = errors.New("recipient not found")
	// ErrSenderAccountNotFound indicates that the caller has no matching active account.
	ErrSenderAccountNotFound = errors.New("sender account not found")
	// ErrInsufficientBalance indicates that the account does not have sufficient balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrCommitFailed indicates that the ledger could not apply a transfer that passed all checks.
	ErrCommitFailed = errors.New("transfer processing failed")
)

// NewInsufficientBalanceError reports the required and the available amounts.
func NewInsufficientBalanceError(required, available int64) error {
	return fmt.Errorf("%w (required: %s, available: %s)",
		ErrInsufficientBalance, moneypkg.Format(required), moneypkg.Format(available))
}

// TransactionStatus is the lifecycle state of a transaction.
type TransactionStatus string

// Transaction statuses. Completed and failed are terminal.
const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

// Valid reports whether s is a known status.
func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionPending, TransactionCompleted, TransactionFailed:
		return true
	}

	return false
}

// IsTerminal reports whether no further transition is allowed from s.
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionCompleted || s == TransactionFailed
}

// Transaction types.
const (
	TransactionTypeVoice    = "voice_transfer"
	TransactionTypeTransfer = "transfer"
)

// Transaction holds a money movement between two accounts.
//
// Only Status and CompletedAt change after creation.
type Transaction struct {
	ID                 int64             `json:"id"`
	SenderID           int64             `json:"sender_id"`
	RecipientID        int64             `json:"recipient_id"`
	SenderAccountID    int64             `json:"sender_account_id"`
	RecipientAccountID int64             `json:"recipient_account_id"`
	Amount             int64             `json:"amount"`
	Fee                int64             `json:"fee"`
	Status             TransactionStatus `json:"status"`
	TransactionType    string            `json:"transaction_type"`
	Description        string            `json:"description,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	CompletedAt        *time.Time        `json:"completed_at,omitempty"`
}

// CreateTransactionParams is the input data to create a transaction or to commit a transfer.
type CreateTransactionParams struct {
	SenderID           int64  `json:"sender_id"`
	RecipientID        int64  `json:"recipient_id"`
	SenderAccountID    int64  `json:"sender_account_id"`
	RecipientAccountID int64  `json:"recipient_account_id"`
	Amount             int64  `json:"amount"`
	Fee                int64  `json:"fee"`
	TransactionType    string `json:"transaction_type"`
	Description        string `json:"description"`
}

// Validate checks the amounts of the transaction. Amount plus fee must fit in int64.
func (p CreateTransactionParams) Validate() error {
	if p.Amount <= 0 || p.Fee < 0 || p.Amount > math.MaxInt64-p.Fee {
		return ErrInvalidAmount
	}

	return nil
}

// Total is the amount debited from the sender account.
func (p CreateTransactionParams) Total() int64 {
	return p.Amount + p.Fee
}

// CheckFunds reports whether a sender balance covers amount plus fee and the
// recipient balance can take the amount. It must run after Validate.
func (p CreateTransactionParams) CheckFunds(senderBalance, recipientBalance int64) error {
	if senderBalance-p.Fee < p.Amount {
		return NewInsufficientBalanceError(p.Total(), senderBalance)
	}

	if recipientBalance > math.MaxInt64-p.Amount {
		return fmt.Errorf("%w: recipient balance would overflow", ErrInvalidAmount)
	}

	return nil
}

// VoiceTransferParams is the input of a transfer spoken as a transcript.
type VoiceTransferParams struct {
	UserID      int64
	Features    []float64
	Transcript  string
	FromAccount string
	Memo        string
}

// TransferParams is the input of a transfer with an explicit recipient and amount.
type TransferParams struct {
	UserID        int64
	Features      []float64
	RecipientName string
	Amount        int64
	FromAccount   string
	Memo          string
}

// TransferResult is the outcome of a completed transfer.
type TransferResult struct {
	TransactionID int64       `json:"transaction_id"`
	Amount        int64       `json:"amount"`
	Fee           int64       `json:"fee"`
	Message       string      `json:"message"`
	Transaction   Transaction `json:"-"`
}

// TransferInfo is what was extracted from a transcript.
type TransferInfo struct {
	Recipient string `json:"recipient,omitempty"`
	Amount    int64  `json:"amount,omitempty"`
}

// RecipientAccount identifies the account a transfer would be credited to.
type RecipientAccount struct {
	ID           int64  `json:"id"`
	MaskedNumber string `json:"masked_number"`
}

// VoiceAuthResult is the outcome of authenticating a voice sample and reading a transcript
// without moving any money.
type VoiceAuthResult struct {
	Authenticated    bool              `json:"authenticated"`
	Similarity       float64           `json:"similarity"`
	TransferInfo     *TransferInfo     `json:"transfer_info,omitempty"`
	RecipientAccount *RecipientAccount `json:"recipient_account,omitempty"`
}

// LedgerStats holds entity counts.
type LedgerStats struct {
	Users        int64 `json:"users_count"`
	Accounts     int64 `json:"accounts_count"`
	Transactions int64 `json:"transactions_count"`
}
