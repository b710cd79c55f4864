// Package transferparse extracts a recipient and an amount from a Korean transfer instruction.
//
// Extraction is purely lexical. Patterns are tried in a fixed priority order and the
// first pattern that matches anywhere in the text wins, even when a later pattern
// would have produced a more specific match.
package transferparse

import (
	"regexp"
	"strconv"

	"github.com/go-petr/voice-bank/pkg/moneypkg"
)

// Recipient patterns in priority order. The first capture group is the name.
var recipientPatterns = []*regexp.Regexp{
	regexp.MustCompile(`([가-힣]{2,4})(에게|한테|께)`),
	regexp.MustCompile(`([가-힣]{2,4})\s*(님)?\s*(에게|한테|께)`),
}

type amountPattern struct {
	re         *regexp.Regexp
	multiplier int64
}

// Amount patterns in priority order.
var amountPatterns = []amountPattern{
	{re: regexp.MustCompile(`(\d+)\s*만\s*원`), multiplier: 10_000},
	{re: regexp.MustCompile(`(\d+)\s*천\s*원`), multiplier: 1_000},
	{re: regexp.MustCompile(`(\d+)\s*원`), multiplier: 1},
	{re: regexp.MustCompile(`(\d+)\s*만`), multiplier: 10_000},
	{re: regexp.MustCompile(`(\d+)\s*천`), multiplier: 1_000},
}

// Result holds the extracted fields. Found fields stay populated when the other is missing.
type Result struct {
	Recipient    string `json:"recipient,omitempty"`
	Amount       int64  `json:"amount,omitempty"`
	HasRecipient bool   `json:"-"`
	HasAmount    bool   `json:"-"`
}

// Succeeded reports whether both the recipient and the amount were found.
func (r Result) Succeeded() bool {
	return r.HasRecipient && r.HasAmount
}

// Parse extracts the recipient and the amount from the transcript.
func Parse(transcript string) Result {
	var res Result

	res.Recipient, res.HasRecipient = Recipient(transcript)
	res.Amount, res.HasAmount = Amount(transcript)

	return res
}

// Recipient returns the name followed by a "to" particle.
func Recipient(transcript string) (string, bool) {
	for _, re := range recipientPatterns {
		if m := re.FindStringSubmatch(transcript); m != nil {
			return m[1], true
		}
	}

	return "", false
}

// Amount returns the amount in won of the first matching digit-plus-unit pattern.
//
// Zero amounts and amounts above moneypkg.MaxAmount are treated as absent.
func Amount(transcript string) (int64, bool) {
	for _, p := range amountPatterns {
		m := p.re.FindStringSubmatch(transcript)
		if m == nil {
			continue
		}

		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil || n == 0 || n > moneypkg.MaxAmount/p.multiplier {
			return 0, false
		}

		return n * p.multiplier, true
	}

	return 0, false
}
