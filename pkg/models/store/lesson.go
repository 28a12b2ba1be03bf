package store

import "time"

type Tutor struct {
	ID        string `gorm:"primaryKey"`
	FirstName string
	LastName  string
	CreatedAt time.Time
}

type Course struct {
	ID      string `gorm:"primaryKey"`
	TutorID string `gorm:"index"`
	Title   string
}

type Student struct {
	ID        string `gorm:"primaryKey"`
	TutorID   string `gorm:"index"`
	FirstName string
	LastName  string
	// HourlyRate is kept as entered in the dashboard form, e.g. "40" or "37,5".
	HourlyRate string
}

// Lesson rows carry both participant shapes: the legacy StudentID column and
// the LessonStudents join table used by multi-student lessons.
type Lesson struct {
	ID             string  `gorm:"primaryKey"`
	TutorID        string  `gorm:"index"`
	CourseID       string  `gorm:"index"`
	Course         *Course `gorm:"foreignKey:CourseID"`
	Title          string
	Date           time.Time `gorm:"column:lesson_date;type:date;index"`
	Duration       string
	StudentID      *string
	Student        *Student        `gorm:"foreignKey:StudentID"`
	LessonStudents []LessonStudent `gorm:"foreignKey:LessonID"`
}

type LessonStudent struct {
	LessonID  string `gorm:"primaryKey"`
	StudentID string `gorm:"primaryKey"`
	Position  int
	Student   *Student `gorm:"foreignKey:StudentID"`
}

type LessonFilter struct {
	TutorID  string
	CourseID string
	// From and To are inclusive calendar dates, stored as UTC midnight.
	From time.Time
	To   time.Time
}
