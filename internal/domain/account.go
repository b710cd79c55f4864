package domain

import (
	"errors"
	"time"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountNumberExists indicates that the account number is already taken.
	ErrAccountNumberExists = errors.New("account number already exists")
	// ErrInvalidAccountType indicates an unsupported account type.
	ErrInvalidAccountType = errors.New("invalid account type")
	// ErrNegativeBalance indicates that the balance would drop below zero.
	ErrNegativeBalance = errors.New("negative balance")
	// ErrAccountOwnerMismatch indicates that the account does not belong to the user.
	ErrAccountOwnerMismatch = errors.New("account owner mismatch")
)

// AccountType enumerates the kinds of accounts.
type AccountType string

// Supported account types.
const (
	AccountTypeChecking AccountType = "checking"
	AccountTypeSavings  AccountType = "savings"
	AccountTypeDeposit  AccountType = "deposit"
	AccountTypeLoan     AccountType = "loan"
)

// AccountTypes holds all the supported account types.
var AccountTypes = []AccountType{
	AccountTypeChecking,
	AccountTypeSavings,
	AccountTypeDeposit,
	AccountTypeLoan,
}

// IsSupportedAccountType returns true if the account type is supported.
func IsSupportedAccountType(t string) bool {
	for _, at := range AccountTypes {
		if string(at) == t {
			return true
		}
	}

	return false
}

// Account holds a balance in minor currency units owned by a single user.
type Account struct {
	ID            int64       `json:"id"`
	UserID        int64       `json:"user_id"`
	AccountNumber string      `json:"account_number"`
	AccountType   AccountType `json:"account_type"`
	Balance       int64       `json:"balance"`
	IsActive      bool        `json:"is_active"`
	CreatedAt     time.Time   `json:"created_at"`
}

// CreateAccountParams is the input data to create an account.
type CreateAccountParams struct {
	UserID        int64       `json:"user_id"`
	AccountNumber string      `json:"account_number"`
	AccountType   AccountType `json:"account_type"`
	Balance       int64       `json:"balance"`
}

// MaskedAccount is the account representation exposed to callers.
type MaskedAccount struct {
	ID            int64       `json:"id"`
	AccountNumber string      `json:"account_number"`
	AccountType   AccountType `json:"account_type"`
	Balance       int64       `json:"balance"`
	CreatedAt     time.Time   `json:"created_at"`
}

// NewMaskedAccount hides the middle of the account number.
func NewMaskedAccount(a Account) MaskedAccount {
	return MaskedAccount{
		ID:            a.ID,
		AccountNumber: MaskAccountNumber(a.AccountNumber),
		AccountType:   a.AccountType,
		Balance:       a.Balance,
		CreatedAt:     a.CreatedAt,
	}
}

const accountNumberMask = "****"

// MaskAccountNumber keeps the first and last 4 characters of numbers that are
// at least 8 characters long and replaces the rest with a fixed-width mask.
func MaskAccountNumber(number string) string {
	r := []rune(number)
	if len(r) < 8 {
		return number
	}

	return string(r[:4]) + accountNumberMask + string(r[len(r)-4:])
}
