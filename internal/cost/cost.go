// Package cost turns free-form budget lines into a VND total.
//
// Tokens are typed by organizers ("1.5tr", "200k", "500,000đ") and are never
// rejected: anything that cannot be read as an amount counts as zero.
package cost

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Item is one line of a trip budget.
type Item struct {
	Content   string `json:"content"`
	CostToken string `json:"cost_token"`
}

const (
	million  = 1_000_000
	thousand = 1_000
)

// currencySuffixes are checked longest first.
var currencySuffixes = []string{"vnđ", "vnd", "₫", "đ", "d"}

// ParseMoneyToken reads a cost token as a whole number of đồng.
// Empty or unreadable tokens yield 0.
func ParseMoneyToken(raw string) int64 {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, cases.Fold().String(raw))

	for _, suffix := range currencySuffixes {
		if strings.HasSuffix(s, suffix) {
			s = strings.TrimSuffix(s, suffix)
			break
		}
	}
	if s == "" {
		return 0
	}

	switch {
	case strings.HasSuffix(s, "tr"):
		return scaled(strings.TrimSuffix(s, "tr"), million)
	case strings.HasSuffix(s, "k"):
		return scaled(strings.TrimSuffix(s, "k"), thousand)
	}

	s = strings.NewReplacer(",", "", "_", "").Replace(s)
	if groupedByDots(s) {
		s = strings.ReplaceAll(s, ".", "")
	}
	return scaled(s, 1)
}

// Aggregate sums the parsed cost of every item. The total saturates at
// math.MaxInt64 instead of wrapping.
func Aggregate(items []Item) int64 {
	var total int64
	for _, it := range items {
		v := ParseMoneyToken(it.CostToken)
		if total > math.MaxInt64-v {
			return math.MaxInt64
		}
		total += v
	}
	return total
}

// FormatVND renders amount with Vietnamese digit grouping, e.g. "1.500.000 ₫".
func FormatVND(amount int64) string {
	return message.NewPrinter(language.Vietnamese).Sprintf("%d ₫", amount)
}

// scaled parses a plain decimal, accepting ',' as the decimal mark, and
// multiplies it by unit.
func scaled(num string, unit float64) int64 {
	num = strings.ReplaceAll(num, ",", ".")
	if !plainDecimal(num) {
		return 0
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	v := math.Round(f * unit)
	if v > math.MaxInt64/2 {
		return 0
	}
	return int64(v)
}

// plainDecimal accepts digits with at most one '.', and at least one digit.
func plainDecimal(s string) bool {
	digits, dots := 0, 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}

// groupedByDots reports whether s looks like "1.500.000": every '.' is
// followed by exactly three digits.
func groupedByDots(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) < 2 || len(parts[0]) == 0 || len(parts[0]) > 3 {
		return false
	}
	for _, p := range parts[1:] {
		if len(p) != 3 {
			return false
		}
	}
	return true
}
