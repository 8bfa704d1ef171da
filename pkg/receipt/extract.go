package receipt

import (
	"regexp"
	"strings"

	"khaata/pkg/amount"

	"github.com/shopspring/decimal"
)

var (
	numberRE  = regexp.MustCompile(`(?i)(?:₹|rs\.?|inr)?\s*\d[\d.,]*\d|\d`)
	keywordRE = regexp.MustCompile(`(?i)\b(grand\s+total|total|amount|net|payable|paid)\b`)
	dateRE    = regexp.MustCompile(`\d{1,4}[./-]\d{1,2}[./-]\d{1,4}`)
	timeRE    = regexp.MustCompile(`\d{1,2}:\d{2}`)
)

// ExtractAmount picks the most likely payable amount from OCR text. Lines
// carrying a total keyword or a currency marker win over bare numbers; ties go
// to the larger amount.
func ExtractAmount(text string) (decimal.Decimal, string, bool) {
	type cand struct {
		amt   decimal.Decimal
		raw   string
		score int
	}
	var best *cand
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		clean := timeRE.ReplaceAllString(dateRE.ReplaceAllString(line, " "), " ")
		lineScore := 0
		if m := keywordRE.FindString(clean); m != "" {
			lineScore += 8
			if strings.Contains(strings.ToLower(m), "grand") {
				lineScore += 4
			}
		}
		for _, m := range numberRE.FindAllString(clean, -1) {
			if !isPlausible(m) {
				continue
			}
			d, err := amount.Parse(m)
			if err != nil || !d.IsPositive() {
				continue
			}
			c := cand{amt: d, raw: line, score: lineScore + scoreFor(m)}
			if best == nil || c.score > best.score || (c.score == best.score && c.amt.GreaterThan(best.amt)) {
				best = &c
			}
		}
	}
	if best == nil {
		return decimal.Zero, "", false
	}
	return best.amt, best.raw, true
}

func scoreFor(raw string) int {
	s := 0
	low := strings.ToLower(raw)
	if strings.Contains(low, "₹") || strings.Contains(low, "rs") || strings.Contains(low, "inr") {
		s += 10
	}
	if strings.HasSuffix(raw, ".00") || strings.HasSuffix(raw, ",00") {
		s += 3
	}
	if strings.ContainsAny(raw, ".,") {
		s += 2
	}
	return s
}

// isPlausible rejects digit runs that look like phone numbers or ids.
func isPlausible(s string) bool {
	d := onlyDigits(s)
	if d == "" {
		return false
	}
	if len(d) > 9 {
		return false
	}
	if len(d) > 1 && d[0] == '0' && !strings.ContainsAny(s, ".,") {
		return false
	}
	return true
}

func onlyDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
