package revenue

import (
	"math"

	"github.com/tutorapp/tutorapp/pkg/models/domain"
)

const (
	DefaultHourlyRate = 30.0
	UnknownStudent    = "Élève inconnu"
)

// Calculator turns a lesson into per-participant contributions. Every
// participant is billed the full lesson duration at their own rate; nothing is
// split between participants.
type Calculator struct {
	defaultRate float64
}

func NewCalculator(defaultRate float64) *Calculator {
	if defaultRate <= 0 || math.IsNaN(defaultRate) || math.IsInf(defaultRate, 0) {
		defaultRate = DefaultHourlyRate
	}
	return &Calculator{defaultRate: defaultRate}
}

func (c *Calculator) DefaultRate() float64 {
	return c.defaultRate
}

// Compute returns the lesson breakdown. When studentID is set, only that
// student's contribution counts; ok is false if the student did not attend,
// meaning the lesson must be left out of totals and details alike.
func (c *Calculator) Compute(lesson domain.Lesson, studentID string) (domain.LessonRevenue, bool) {
	participants := lesson.Participants
	if studentID != "" {
		participants = make([]domain.Participant, 0, 1)
		for _, p := range lesson.Participants {
			if p.StudentID == studentID {
				participants = append(participants, p)
			}
		}
		if len(participants) == 0 {
			return domain.LessonRevenue{}, false
		}
	}

	res := domain.LessonRevenue{
		Lesson:         lesson,
		PerStudent:     make([]domain.Contribution, 0, len(participants)),
		Representative: UnknownStudent,
	}
	for _, p := range participants {
		rate, fallback := c.rate(p)
		contribution := rate * float64(lesson.Hours)
		res.PerStudent = append(res.PerStudent, domain.Contribution{
			StudentID:    p.StudentID,
			FirstName:    p.FirstName,
			LastName:     p.LastName,
			HourlyRate:   rate,
			DefaultRate:  fallback,
			Contribution: contribution,
		})
		res.Total += contribution
	}

	if len(participants) > 0 {
		if name := participants[0].FullName(); name != "" {
			res.Representative = name
		}
	}

	return res, true
}

func (c *Calculator) rate(p domain.Participant) (float64, bool) {
	if p.HourlyRate == nil {
		return c.defaultRate, true
	}
	r := *p.HourlyRate
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return c.defaultRate, true
	}
	return r, false
}
