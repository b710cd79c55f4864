// Package moneypkg provides fee and formatting helpers for amounts in won.
package moneypkg

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Fee tiers in won.
const (
	smallTransferLimit  = 10_000
	mediumTransferLimit = 100_000

	smallTransferFee  = 500
	mediumTransferFee = 1_000
	largeTransferFee  = 1_500
)

// MaxAmount is the largest transfer amount whose total with the fee fits in int64.
const MaxAmount = math.MaxInt64 - largeTransferFee

// Fee returns the transfer fee charged to the sender for the given amount.
func Fee(amount int64) int64 {
	switch {
	case amount <= smallTransferLimit:
		return smallTransferFee
	case amount <= mediumTransferLimit:
		return mediumTransferFee
	default:
		return largeTransferFee
	}
}

var printer = message.NewPrinter(language.Korean)

// Format renders the amount with digit grouping, e.g. 50000 -> "50,000원".
func Format(amount int64) string {
	return printer.Sprintf("%d원", amount)
}
