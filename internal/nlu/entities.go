package nlu

import (
	"regexp"
	"strconv"
	"strings"
)

// Entities holds candidate values extracted from raw text, before slot
// validation.
type Entities struct {
	Amounts  []float64
	Accounts []string
}

// Money rules run in a fixed order: number-then-currency-word,
// currency-symbol-then-number, dollar-then-number. Bare numbers are handled
// separately because they need the account-shape exclusion.
var (
	reNumberCurrency   = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(?:rupees|rupee|rs\.?|inr|₹)\b`)
	reCurrencyNumber   = regexp.MustCompile(`(?i)(?:₹|rs\.?|inr)\s*(\d+(?:\.\d+)?)\b`)
	reDollarNumber     = regexp.MustCompile(`\$\s?(\d+(?:\.\d+)?)\b`)
	reBareNumber       = regexp.MustCompile(`\b\d+(?:\.\d+)?\b`)
	reKeywordAccount   = regexp.MustCompile(`(?i)(?:account|acc|#|from|to)\s*(\d{4,6})`)
	reStandaloneDigits = regexp.MustCompile(`\b\d{4,6}\b`)
)

// looksLikeAccount reports whether a literal is shaped like an account
// number: a bare 4-6 digit integer. The extractor never treats such a
// literal as an amount; this is the length-based disambiguation inherited
// from the rule set, not a hard guarantee.
func looksLikeAccount(lit string) bool {
	if strings.Contains(lit, ".") {
		return false
	}
	return len(lit) >= 4 && len(lit) <= 6
}

// Extract pulls amount and account-number candidates out of raw text.
//
// Amounts and account numbers overlap syntactically (both are digit runs),
// so extraction order and mutual exclusion are the disambiguation mechanism:
// money rules run first, every claimed literal joins an exclusion set, and
// the account rules skip anything in that set.
func Extract(text string) Entities {
	var out Entities
	if strings.TrimSpace(text) == "" {
		return out
	}

	claimed := make(map[string]bool) // literals claimed as amounts
	seenAmount := make(map[float64]bool)

	addAmount := func(lit string) {
		val, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return
		}
		claimed[lit] = true
		if seenAmount[val] {
			return
		}
		seenAmount[val] = true
		out.Amounts = append(out.Amounts, val)
	}

	for _, re := range []*regexp.Regexp{reNumberCurrency, reCurrencyNumber, reDollarNumber} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			addAmount(m[1])
		}
	}

	// Bare numbers not already claimed and not shaped like an account number.
	for _, lit := range reBareNumber.FindAllString(text, -1) {
		if claimed[lit] || looksLikeAccount(lit) {
			continue
		}
		addAmount(lit)
	}

	seenAcct := make(map[string]bool)
	addAccount := func(lit string) {
		if claimed[lit] || seenAcct[lit] {
			return
		}
		seenAcct[lit] = true
		out.Accounts = append(out.Accounts, lit)
	}

	// partOfDecimal rejects a digit run that is really the integer or
	// fractional part of a larger decimal literal.
	partOfDecimal := func(start, end int) bool {
		if start > 0 && text[start-1] == '.' {
			return true
		}
		return end < len(text) && text[end] == '.'
	}

	for _, m := range reKeywordAccount.FindAllStringSubmatchIndex(text, -1) {
		if partOfDecimal(m[2], m[3]) {
			continue
		}
		addAccount(text[m[2]:m[3]])
	}
	for _, loc := range reStandaloneDigits.FindAllStringIndex(text, -1) {
		if partOfDecimal(loc[0], loc[1]) {
			continue
		}
		addAccount(text[loc[0]:loc[1]])
	}

	return out
}

// ValidAccountNumber reports whether the value has account-number shape:
// 4 to 6 digits.
func ValidAccountNumber(v string) bool {
	v = strings.TrimSpace(v)
	if len(v) < 4 || len(v) > 6 {
		return false
	}
	for _, c := range v {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// ValidAmount reports whether the value is a positive decimal.
func ValidAmount(v float64) bool {
	return v > 0
}

// ParseAmount parses a user-entered amount, tolerating thousands separators.
func ParseAmount(v string) (float64, bool) {
	v = strings.ReplaceAll(strings.TrimSpace(v), ",", "")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ValidPIN reports whether the value is exactly four digits.
func ValidPIN(v string) bool {
	v = strings.TrimSpace(v)
	if len(v) != 4 {
		return false
	}
	for _, c := range v {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
