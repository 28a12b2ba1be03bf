package lesson

import (
	"context"
	"errors"
	"fmt"

	"github.com/tutorapp/tutorapp/pkg/models/store"
	"github.com/tutorapp/tutorapp/pkg/store/sqldb"
	"gorm.io/gorm"
)

// Store reads lessons and the people attached to them. The revenue pipeline
// only uses the read methods; Add* exist for fixture imports.
type Store interface {
	ListLessons(ctx context.Context, filter store.LessonFilter) ([]store.Lesson, error)
	// GetTutor and GetStudent return nil, nil for unknown ids.
	GetTutor(ctx context.Context, id string) (*store.Tutor, error)
	GetStudent(ctx context.Context, id string) (*store.Student, error)

	AddTutors(ctx context.Context, tutors []store.Tutor) error
	AddCourses(ctx context.Context, courses []store.Course) error
	AddStudents(ctx context.Context, students []store.Student) error
	AddLessons(ctx context.Context, lessons []store.Lesson) error
}

type lessonStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &lessonStore{db: db}, nil
}

func (s *lessonStore) ListLessons(ctx context.Context, filter store.LessonFilter) ([]store.Lesson, error) {
	q := sqldb.Conn(ctx, s.db).
		Preload("Course").
		Preload("Student").
		Preload("LessonStudents", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("LessonStudents.Student").
		Where("tutor_id = ?", filter.TutorID)

	if filter.CourseID != "" {
		q = q.Where("course_id = ?", filter.CourseID)
	}
	if !filter.From.IsZero() {
		q = q.Where("lesson_date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("lesson_date <= ?", filter.To)
	}

	lessons := make([]store.Lesson, 0)
	if err := q.Order("lesson_date ASC").Order("id ASC").Find(&lessons).Error; err != nil {
		return nil, fmt.Errorf("query lessons: %w", err)
	}
	return lessons, nil
}

func (s *lessonStore) GetTutor(ctx context.Context, id string) (*store.Tutor, error) {
	var tutor store.Tutor
	err := sqldb.Conn(ctx, s.db).Where("id = ?", id).Take(&tutor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tutor: %w", err)
	}
	return &tutor, nil
}

func (s *lessonStore) GetStudent(ctx context.Context, id string) (*store.Student, error) {
	var student store.Student
	err := sqldb.Conn(ctx, s.db).Where("id = ?", id).Take(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	return &student, nil
}

func (s *lessonStore) AddTutors(ctx context.Context, tutors []store.Tutor) error {
	if len(tutors) == 0 {
		return nil
	}
	if err := sqldb.Conn(ctx, s.db).Create(&tutors).Error; err != nil {
		return fmt.Errorf("insert tutors: %w", err)
	}
	return nil
}

func (s *lessonStore) AddCourses(ctx context.Context, courses []store.Course) error {
	if len(courses) == 0 {
		return nil
	}
	if err := sqldb.Conn(ctx, s.db).Create(&courses).Error; err != nil {
		return fmt.Errorf("insert courses: %w", err)
	}
	return nil
}

func (s *lessonStore) AddStudents(ctx context.Context, students []store.Student) error {
	if len(students) == 0 {
		return nil
	}
	if err := sqldb.Conn(ctx, s.db).Create(&students).Error; err != nil {
		return fmt.Errorf("insert students: %w", err)
	}
	return nil
}

// AddLessons inserts lessons with their lesson_students rows. Associated
// students and courses must already exist and are not upserted.
func (s *lessonStore) AddLessons(ctx context.Context, lessons []store.Lesson) error {
	if len(lessons) == 0 {
		return nil
	}

	conn := sqldb.Conn(ctx, s.db)
	for _, l := range lessons {
		links := l.LessonStudents
		l.Course, l.Student, l.LessonStudents = nil, nil, nil

		if err := conn.Create(&l).Error; err != nil {
			return fmt.Errorf("insert lesson %s: %w", l.ID, err)
		}
		for i := range links {
			links[i].LessonID = l.ID
			links[i].Student = nil
		}
		if len(links) > 0 {
			if err := conn.Create(&links).Error; err != nil {
				return fmt.Errorf("insert participants of lesson %s: %w", l.ID, err)
			}
		}
	}
	return nil
}
