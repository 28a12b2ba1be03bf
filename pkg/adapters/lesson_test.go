package adapters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorapp/tutorapp/pkg/models/domain"
	"github.com/tutorapp/tutorapp/pkg/models/store"
)

func ptr(s string) *string { return &s }

func TestParseRate(t *testing.T) {
	tests := []struct {
		in   string
		want *float64
	}{
		{"40", floatPtr(40)},
		{" 37,5 ", floatPtr(37.5)},
		{"45 €", floatPtr(45)},
		{"0", floatPtr(0)},
		{"", nil},
		{"gratuit", nil},
	}
	for _, tt := range tests {
		got := ParseRate(tt.in)
		if tt.want == nil {
			assert.Nil(t, got, tt.in)
			continue
		}
		require.NotNil(t, got, tt.in)
		assert.Equal(t, *tt.want, *got, tt.in)
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestMapStoreLessonToDomain(t *testing.T) {
	paris := time.FixedZone("CET", 3600)
	legacy := &store.Student{ID: "s1", FirstName: "Paul", LastName: "Martin", HourlyRate: "40"}

	t.Run("legacy single student", func(t *testing.T) {
		l := MapStoreLessonToDomain(store.Lesson{
			ID:        "l1",
			Date:      time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			Duration:  "1h30",
			Course:    &store.Course{ID: "c1", Title: "Maths"},
			StudentID: ptr("s1"),
			Student:   legacy,
		}, paris)

		assert.Equal(t, domain.Hours(1.5), l.Hours)
		assert.Equal(t, "Maths", l.CourseTitle)
		assert.Equal(t, paris, l.Date.Location())
		assert.Equal(t, 10, l.Date.Day())
		require.Len(t, l.Participants, 1)
		assert.Equal(t, "Paul Martin", l.Participants[0].FullName())
		require.NotNil(t, l.Participants[0].HourlyRate)
		assert.Equal(t, 40.0, *l.Participants[0].HourlyRate)
	})

	t.Run("lesson_students wins over legacy", func(t *testing.T) {
		l := MapStoreLessonToDomain(store.Lesson{
			ID:        "l2",
			StudentID: ptr("s1"),
			Student:   legacy,
			LessonStudents: []store.LessonStudent{
				{StudentID: "s2", Student: &store.Student{ID: "s2", FirstName: "Léa", HourlyRate: "20"}},
				{StudentID: "s3"},
			},
		}, time.UTC)

		require.Len(t, l.Participants, 2)
		assert.Equal(t, "s2", l.Participants[0].StudentID)
		assert.Equal(t, "s3", l.Participants[1].StudentID)
		assert.Nil(t, l.Participants[1].HourlyRate)
	})

	t.Run("no participants", func(t *testing.T) {
		l := MapStoreLessonToDomain(store.Lesson{ID: "l3", StudentID: ptr("")}, time.UTC)
		assert.NotNil(t, l.Participants)
		assert.Empty(t, l.Participants)
	})
}

func TestDateRoundTrip(t *testing.T) {
	loc := time.FixedZone("UTC+14", 14*3600)
	d := MapStoreDateToDomain(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), loc)
	back := MapDomainDateToStore(d)
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), back)
}
