package checkout

import "strings"

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatCardNumber normalizes raw card input into groups of four digits
// separated by spaces, capped at 19 characters (16 digits + 3 spaces).
func FormatCardNumber(raw string) string {
	digits := digitsOnly(raw)
	var groups []string
	for i := 0; i < len(digits); i += 4 {
		end := i + 4
		if end > len(digits) {
			end = len(digits)
		}
		groups = append(groups, digits[i:end])
	}
	out := strings.Join(groups, " ")
	if len(out) > 19 {
		out = out[:19]
	}
	return out
}

// FormatExpiry normalizes raw expiry input into MM/YY.
func FormatExpiry(raw string) string {
	digits := digitsOnly(raw)
	if len(digits) > 4 {
		digits = digits[:4]
	}
	if len(digits) >= 3 {
		return digits[:2] + "/" + digits[2:]
	}
	return digits
}

// FormatCVV keeps at most four digits.
func FormatCVV(raw string) string {
	digits := digitsOnly(raw)
	if len(digits) > 4 {
		digits = digits[:4]
	}
	return digits
}
