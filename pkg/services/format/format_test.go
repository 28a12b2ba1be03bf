package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tutorapp/tutorapp/pkg/models/domain"
)

func TestAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0,00 €"},
		{60, "60,00 €"},
		{37.5, "37,50 €"},
		{1234.5, "1 234,50 €"},
		{1234567.891, "1 234 567,89 €"},
		{-12.3, "-12,30 €"},
		{0.004, "0,00 €"},
		{-0.004, "0,00 €"},
		{1000, "1 000,00 €"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Amount(tt.in), "%v", tt.in)
	}
}

func TestCalculation(t *testing.T) {
	r := domain.LessonRevenue{
		Lesson: domain.Lesson{Hours: 1.5},
		PerStudent: []domain.Contribution{
			{StudentID: "s1", HourlyRate: 40},
			{StudentID: "s2", HourlyRate: 20},
		},
	}
	assert.Equal(t, "40,00 € × 1h30min + 20,00 € × 1h30min", Calculation(r))

	assert.Equal(t, "-", Calculation(domain.LessonRevenue{}))
}

func TestDates(t *testing.T) {
	d := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "05/03/2024", Date(d))
	assert.Equal(t, "2024-03-05", ISODate(d))
}
