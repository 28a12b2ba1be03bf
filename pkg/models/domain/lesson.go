package domain

import "time"

// Hours is an elapsed time expressed in (possibly fractional) hours.
type Hours float64

type Participant struct {
	StudentID string
	FirstName string
	LastName  string
	// HourlyRate is nil when the stored rate is missing or not a number.
	HourlyRate *float64
}

func (p Participant) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}

// Lesson is the canonical read model of a tutoring session. Participants are
// resolved once from the legacy single-student field or the lesson_students
// list, and the raw duration is parsed into Hours at the same boundary.
type Lesson struct {
	ID           string
	TutorID      string
	Date         time.Time // midnight in the reporting location
	Title        string
	CourseID     string
	CourseTitle  string
	RawDuration  string
	Hours        Hours
	Participants []Participant
}

type Contribution struct {
	StudentID    string
	FirstName    string
	LastName     string
	HourlyRate   float64
	DefaultRate  bool // HourlyRate fell back to the configured default
	Contribution float64
}

// LessonRevenue is the per-lesson breakdown behind a lesson detail row.
type LessonRevenue struct {
	Lesson         Lesson
	PerStudent     []Contribution
	Total          float64
	Representative string
}

type Tutor struct {
	ID        string
	FirstName string
	LastName  string
}

func (t Tutor) FullName() string {
	return Participant{FirstName: t.FirstName, LastName: t.LastName}.FullName()
}

type Student struct {
	ID        string
	FirstName string
	LastName  string
}

func (s Student) FullName() string {
	return Participant{FirstName: s.FirstName, LastName: s.LastName}.FullName()
}
