package core

import (
	"fmt"
	"strings"
	"unicode"
)

// ParseAmount converts a decimal string from a form into a dollar
// amount. It accepts both dot (12.34) and comma (12,34) decimal
// separators and rounds half-up on the third decimal place. Only
// positive amounts are valid.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	var cents int64
	for _, r := range intPart {
		cents = cents*10 + int64(r-'0')
		if cents > (1<<62)/100 {
			return 0, ErrInvalidAmount
		}
	}
	cents *= 100
	if len(fracPart) > 0 {
		cents += int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			cents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				cents++
			}
		}
	}
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return float64(cents) / 100.0, nil
}

// FormatCurrency renders a dollar amount as "$1,234.56". Negative
// values keep the sign ahead of the symbol, "-$123.45".
func FormatCurrency(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	// Round to cents before splitting, so 1234.995 groups as 1,235.00.
	cents := int64(v*100 + 0.5)
	whole := cents / 100
	frac := cents % 100

	digits := fmt.Sprintf("%d", whole)
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return fmt.Sprintf("%s$%s.%02d", sign, b.String(), frac)
}

// FormatPercentage renders a percentage with one decimal, "12.5%".
func FormatPercentage(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// PercentOf returns part as a percentage of total, 0 when the total
// is zero so empty breakdowns never divide by zero.
func PercentOf(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}
