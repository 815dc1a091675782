package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Deposit dates are written "DD MONTH" with French month names, the way
// the audit team labels deposit slips. Parsing is accent tolerant since
// entries come from hand typing.
var frenchMonths = map[string]time.Month{
	"JANVIER":   time.January,
	"FEVRIER":   time.February,
	"MARS":      time.March,
	"AVRIL":     time.April,
	"MAI":       time.May,
	"JUIN":      time.June,
	"JUILLET":   time.July,
	"AOUT":      time.August,
	"SEPTEMBRE": time.September,
	"OCTOBRE":   time.October,
	"NOVEMBRE":  time.November,
	"DECEMBRE":  time.December,
}

var monthNames = []string{
	"JANVIER", "FÉVRIER", "MARS", "AVRIL", "MAI", "JUIN",
	"JUILLET", "AOÛT", "SEPTEMBRE", "OCTOBRE", "NOVEMBRE", "DÉCEMBRE",
}

var accentReplacer = strings.NewReplacer(
	"É", "E", "È", "E", "Ê", "E", "Ë", "E",
	"À", "A", "Â", "A",
	"Û", "U", "Ù", "U", "Ü", "U",
	"Ô", "O", "Î", "I", "Ï", "I",
	"Ç", "C",
)

// DateString formats a time as a deposit date, e.g. "23 DÉCEMBRE"
func DateString(t time.Time) string {
	return fmt.Sprintf("%d %s", t.Day(), monthNames[t.Month()-1])
}

// ParseDate parses a deposit date like "23 DECEMBRE". It accepts any
// case and accented or plain month spellings.
func ParseDate(s string) (day int, month time.Month, ok bool) {
	parts := strings.Fields(strings.ToUpper(strings.TrimSpace(s)))
	if len(parts) < 2 {
		return 0, 0, false
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil || day < 1 || day > 31 {
		return 0, 0, false
	}
	month, found := frenchMonths[accentReplacer.Replace(parts[1])]
	if !found {
		return 0, 0, false
	}
	return day, month, true
}

// dateLess orders deposit dates chronologically within the year.
// Unparseable dates sort after parseable ones, then by string.
func dateLess(a, b string) bool {
	dayA, monthA, okA := ParseDate(a)
	dayB, monthB, okB := ParseDate(b)
	if okA != okB {
		return okA
	}
	if !okA {
		return a < b
	}
	if monthA != monthB {
		return monthA < monthB
	}
	if dayA != dayB {
		return dayA < dayB
	}
	return a < b
}
