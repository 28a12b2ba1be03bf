package revenue

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorapp/tutorapp/pkg/models/domain"
)

func rate(v float64) *float64 { return &v }

func lessonWith(hours domain.Hours, participants ...domain.Participant) domain.Lesson {
	return domain.Lesson{
		ID:           "l1",
		Date:         time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Title:        "Algèbre",
		RawDuration:  "1h30",
		Hours:        hours,
		Participants: participants,
	}
}

func TestNewCalculator_DefaultRate(t *testing.T) {
	assert.Equal(t, 30.0, NewCalculator(0).DefaultRate())
	assert.Equal(t, 30.0, NewCalculator(-5).DefaultRate())
	assert.Equal(t, 30.0, NewCalculator(math.NaN()).DefaultRate())
	assert.Equal(t, 45.0, NewCalculator(45).DefaultRate())
}

func TestCalculator_Compute(t *testing.T) {
	paul := domain.Participant{StudentID: "s1", FirstName: "Paul", LastName: "Martin", HourlyRate: rate(40)}
	lea := domain.Participant{StudentID: "s2", FirstName: "Léa", LastName: "Durand", HourlyRate: rate(20)}
	calc := NewCalculator(30)

	t.Run("single participant", func(t *testing.T) {
		res, ok := calc.Compute(lessonWith(1.5, paul), "")
		require.True(t, ok)
		require.Len(t, res.PerStudent, 1)
		assert.InDelta(t, 60.0, res.PerStudent[0].Contribution, 1e-9)
		assert.InDelta(t, 60.0, res.Total, 1e-9)
		assert.Equal(t, "Paul Martin", res.Representative)
	})

	t.Run("participants are billed the full duration each", func(t *testing.T) {
		res, ok := calc.Compute(lessonWith(1.5, paul, lea), "")
		require.True(t, ok)
		require.Len(t, res.PerStudent, 2)
		assert.InDelta(t, 60.0, res.PerStudent[0].Contribution, 1e-9)
		assert.InDelta(t, 30.0, res.PerStudent[1].Contribution, 1e-9)
		assert.InDelta(t, 90.0, res.Total, 1e-9)
		assert.Equal(t, "Paul Martin", res.Representative)
	})

	t.Run("student filter keeps only that contribution", func(t *testing.T) {
		res, ok := calc.Compute(lessonWith(1.5, paul, lea), "s2")
		require.True(t, ok)
		require.Len(t, res.PerStudent, 1)
		assert.Equal(t, "s2", res.PerStudent[0].StudentID)
		assert.InDelta(t, 30.0, res.Total, 1e-9)
		assert.Equal(t, "Léa Durand", res.Representative)
	})

	t.Run("student filter on a lesson the student missed", func(t *testing.T) {
		_, ok := calc.Compute(lessonWith(1.5, paul), "s2")
		assert.False(t, ok)
	})

	t.Run("missing rate uses the default", func(t *testing.T) {
		res, ok := calc.Compute(lessonWith(2, domain.Participant{StudentID: "s3", FirstName: "Noé"}), "")
		require.True(t, ok)
		assert.Equal(t, 30.0, res.PerStudent[0].HourlyRate)
		assert.True(t, res.PerStudent[0].DefaultRate)
		assert.InDelta(t, 60.0, res.Total, 1e-9)
	})

	t.Run("zero rate is kept", func(t *testing.T) {
		res, ok := calc.Compute(lessonWith(2, domain.Participant{StudentID: "s4", HourlyRate: rate(0)}), "")
		require.True(t, ok)
		assert.False(t, res.PerStudent[0].DefaultRate)
		assert.Equal(t, 0.0, res.Total)
	})

	t.Run("no participants", func(t *testing.T) {
		res, ok := calc.Compute(lessonWith(1), "")
		require.True(t, ok)
		assert.Empty(t, res.PerStudent)
		assert.Equal(t, 0.0, res.Total)
		assert.Equal(t, UnknownStudent, res.Representative)
	})

	t.Run("nameless first participant", func(t *testing.T) {
		res, ok := calc.Compute(lessonWith(1, domain.Participant{StudentID: "gone"}), "")
		require.True(t, ok)
		assert.Equal(t, UnknownStudent, res.Representative)
	})

	t.Run("zero duration", func(t *testing.T) {
		res, ok := calc.Compute(lessonWith(0, paul), "")
		require.True(t, ok)
		assert.Equal(t, 0.0, res.Total)
	})
}
