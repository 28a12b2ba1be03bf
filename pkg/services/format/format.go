// Package format holds the French display conventions shared by the JSON
// lesson details and the PDF report.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tutorapp/tutorapp/pkg/models/domain"
	"github.com/tutorapp/tutorapp/pkg/services/duration"
)

// Amount renders an amount the French way: "1 234,50 €".
func Amount(v float64) string {
	return Number(v) + " €"
}

// Number renders v with two decimals in French notation. Group separators
// are plain spaces, the PDF fonts have no narrow no-break space.
func Number(v float64) string {
	cents := math.Round(v * 100)
	if cents == 0 {
		// no "-0,00"
		cents = 0
	}
	out := message.NewPrinter(language.French).Sprintf("%.2f", cents/100)
	return spaces.Replace(out)
}

var spaces = strings.NewReplacer("\u202f", " ", "\u00a0", " ")

// Calculation spells out how a lesson amount was obtained, one term per
// participant: "40,00 € × 1h30min + 20,00 € × 1h30min".
func Calculation(r domain.LessonRevenue) string {
	if len(r.PerStudent) == 0 {
		return "-"
	}
	d := duration.FormatHours(r.Lesson.Hours)
	terms := make([]string, 0, len(r.PerStudent))
	for _, c := range r.PerStudent {
		terms = append(terms, fmt.Sprintf("%s × %s", Amount(c.HourlyRate), d))
	}
	return strings.Join(terms, " + ")
}

// Date renders a calendar date as dd/MM/yyyy.
func Date(t time.Time) string {
	return t.Format("02/01/2006")
}

// ISODate renders a calendar date as yyyy-MM-dd.
func ISODate(t time.Time) string {
	return t.Format("2006-01-02")
}
