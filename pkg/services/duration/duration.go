// Package duration converts the free-form lesson duration strings entered by
// tutors ("1h30", "1:30", "1.5", "90") into hours and back into a
// human-readable label.
package duration

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tutorapp/tutorapp/pkg/models/domain"
)

// ParseToHours never fails: anything it cannot read counts as zero hours.
//
// Grammars are tried in a fixed order. A string containing "h" is hours and
// minutes around the first "h"; otherwise one containing ":" is hours:minutes;
// otherwise one containing "." is decimal hours; otherwise the number is a
// count of minutes. "1.30" is therefore 1.3 hours, not 1h30.
func ParseToHours(raw string) domain.Hours {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0
	}

	var hours float64
	switch {
	case strings.Contains(s, "h"):
		h, m, _ := strings.Cut(s, "h")
		hours = leadingNumber(h) + leadingNumber(m)/60
	case strings.Contains(s, ":"):
		h, m, _ := strings.Cut(s, ":")
		hours = leadingNumber(h) + leadingNumber(m)/60
	case strings.Contains(s, "."):
		hours = leadingNumber(s)
	default:
		hours = leadingNumber(s) / 60
	}

	if hours < 0 || math.IsNaN(hours) || math.IsInf(hours, 0) {
		return 0
	}
	return domain.Hours(hours)
}

// Format renders a raw duration string as "XhYmin".
func Format(raw string) string {
	return FormatHours(ParseToHours(raw))
}

// FormatHours renders hours as "2h", "45min" or "1h30min", rounded to the
// minute. Zero renders as "0h".
func FormatHours(h domain.Hours) string {
	total := int(math.Round(float64(h) * 60))
	if total <= 0 {
		return "0h"
	}

	hours, minutes := total/60, total%60
	switch {
	case minutes == 0:
		return fmt.Sprintf("%dh", hours)
	case hours == 0:
		return fmt.Sprintf("%dmin", minutes)
	default:
		return fmt.Sprintf("%dh%02dmin", hours, minutes)
	}
}

// leadingNumber reads the longest numeric prefix of s ("30min" -> 30) and
// returns 0 when there is none.
func leadingNumber(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	seenDigit, seenDot := false, false
scan:
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
			end = i + 1
		case r == '.' && !seenDot:
			seenDot = true
		case (r == '-' || r == '+') && i == 0:
		default:
			break scan
		}
	}
	if !seenDigit {
		return 0
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return v
}
