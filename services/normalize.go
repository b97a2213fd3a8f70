package services

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	nonPriceChars = regexp.MustCompile(`[^\d.,]`)
	firstInt      = regexp.MustCompile(`\d+`)
)

// ParsePrice extracts a numeric value from a locale-formatted price label
// such as "€1.234", "€1,234" or "€1,234.56". The second return value is
// false when the label carries no usable number; callers drop that listing.
//
// Separator rules: with both "," and "." present, whichever appears later is
// the decimal separator and the other is stripped as thousands. A lone comma
// is a thousands separator only when the trailing group has exactly 3 digits.
func ParsePrice(text string) (float64, bool) {
	cleaned := nonPriceChars.ReplaceAllString(text, "")
	if cleaned == "" {
		return 0, false
	}

	hasComma := strings.Contains(cleaned, ",")
	hasDot := strings.Contains(cleaned, ".")

	switch {
	case hasComma && hasDot:
		if strings.LastIndex(cleaned, ",") > strings.LastIndex(cleaned, ".") {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case hasComma:
		parts := strings.Split(cleaned, ",")
		if len(parts[len(parts)-1]) == 3 {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		}
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseStops turns a free-text stops label into a stop count. "Nonstop" and
// direct-language variants mean 0; otherwise the first embedded integer wins.
// Absence of anything recognizable also means 0 — this never fails.
func ParseStops(text string) int {
	s := strings.ToLower(text)
	if s == "" {
		return 0
	}
	if strings.Contains(s, "nonstop") || strings.Contains(s, "dirett") || strings.Contains(s, "direct") {
		return 0
	}
	if m := firstInt.FindString(s); m != "" {
		n, err := strconv.Atoi(m)
		if err == nil && n >= 0 {
			return n
		}
	}
	return 0
}
