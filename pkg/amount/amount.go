// Package amount parses free-form amount strings and formats decimal totals.
package amount

import (
	"errors"
	"regexp"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// ErrInvalid is returned when a string does not hold a number.
var ErrInvalid = errors.New("invalid amount")

var (
	currencyRE     = regexp.MustCompile(`(?i)(₹|rs\.?|inr|\$|usd|€|eur)`)
	decimalCommaRE = regexp.MustCompile(`,\d{1,2}$`)
)

// Parse normalizes strings like "1,234.50", "1.234,50", "₹ 99" or
// "Rs. 1,23,456" into a decimal.
func Parse(s string) (decimal.Decimal, error) {
	s = currencyRE.ReplaceAllString(strings.TrimSpace(s), "")
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return decimal.Zero, ErrInvalid
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if decimalCommaRE.MatchString(s) && strings.Count(s, ",") == 1 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalid
	}
	return d, nil
}

// Sum adds every parseable amount and reports how many were skipped.
func Sum(amounts []string) (total decimal.Decimal, skipped int) {
	total = decimal.Zero
	for _, a := range amounts {
		d, err := Parse(a)
		if err != nil {
			skipped++
			continue
		}
		total = total.Add(d)
	}
	return total, skipped
}

// Format renders d in the currency's display format, e.g. "₹1,234.50".
// Unknown currency codes fall back to INR.
func Format(d decimal.Decimal, currency string) string {
	cur := money.GetCurrency(strings.ToUpper(currency))
	if cur == nil {
		cur = money.GetCurrency(money.INR)
	}
	minor := d.Shift(int32(cur.Fraction)).Round(0)
	if !minor.BigInt().IsInt64() {
		return formatWide(d, cur)
	}
	return money.New(minor.IntPart(), cur.Code).Display()
}

// formatWide renders amounts that do not fit money's int64 minor units,
// without thousands separators.
func formatWide(d decimal.Decimal, cur *money.Currency) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	value := strings.Replace(d.StringFixed(int32(cur.Fraction)), ".", cur.Decimal, 1)
	out := strings.Replace(cur.Template, "1", value, 1)
	return sign + strings.Replace(out, "$", cur.Grapheme, 1)
}
