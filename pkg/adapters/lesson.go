package adapters

import (
	"strconv"
	"strings"
	"time"

	"github.com/tutorapp/tutorapp/pkg/models/domain"
	"github.com/tutorapp/tutorapp/pkg/models/store"
	"github.com/tutorapp/tutorapp/pkg/services/duration"
)

// MapStoreLessonToDomain resolves the stored lesson into the canonical shape:
// the lesson_students list when it has entries, the legacy single student
// otherwise. The date is re-anchored to midnight in loc and the duration is
// parsed once here.
func MapStoreLessonToDomain(l store.Lesson, loc *time.Location) domain.Lesson {
	lesson := domain.Lesson{
		ID:          l.ID,
		TutorID:     l.TutorID,
		Date:        MapStoreDateToDomain(l.Date, loc),
		Title:       l.Title,
		CourseID:    l.CourseID,
		RawDuration: l.Duration,
		Hours:       duration.ParseToHours(l.Duration),
	}
	if l.Course != nil {
		lesson.CourseTitle = l.Course.Title
	}

	switch {
	case len(l.LessonStudents) > 0:
		lesson.Participants = make([]domain.Participant, 0, len(l.LessonStudents))
		for _, ls := range l.LessonStudents {
			lesson.Participants = append(lesson.Participants, mapParticipant(ls.StudentID, ls.Student))
		}
	case l.StudentID != nil && *l.StudentID != "":
		lesson.Participants = []domain.Participant{mapParticipant(*l.StudentID, l.Student)}
	default:
		lesson.Participants = []domain.Participant{}
	}

	return lesson
}

func MapStoreLessonsToDomain(lessons []store.Lesson, loc *time.Location) []domain.Lesson {
	res := make([]domain.Lesson, 0, len(lessons))
	for _, l := range lessons {
		res = append(res, MapStoreLessonToDomain(l, loc))
	}
	return res
}

// mapParticipant keeps a participant whose student row is gone: the id is
// known, the name is empty and the rate falls back to the default later on.
func mapParticipant(studentID string, s *store.Student) domain.Participant {
	p := domain.Participant{StudentID: studentID}
	if s == nil {
		return p
	}
	p.FirstName = s.FirstName
	p.LastName = s.LastName
	p.HourlyRate = ParseRate(s.HourlyRate)
	return p
}

// ParseRate reads a rate typed into a form ("40", "37,5", "45 €"). It returns
// nil when nothing numeric is there.
func ParseRate(raw string) *float64 {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "€")
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// MapStoreDateToDomain keeps the calendar date of a stored value and anchors
// it at midnight in loc.
func MapStoreDateToDomain(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// MapDomainDateToStore is the inverse of MapStoreDateToDomain: the calendar
// date at UTC midnight.
func MapDomainDateToStore(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func MapStoreTutorToDomain(t *store.Tutor) *domain.Tutor {
	if t == nil {
		return nil
	}
	return &domain.Tutor{ID: t.ID, FirstName: t.FirstName, LastName: t.LastName}
}

func MapStoreStudentToDomain(s *store.Student) *domain.Student {
	if s == nil {
		return nil
	}
	return &domain.Student{ID: s.ID, FirstName: s.FirstName, LastName: s.LastName}
}
