package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/tutorapp/tutorapp/pkg/models/store"
	"github.com/tutorapp/tutorapp/pkg/store/sqldb"
	"github.com/tutorapp/tutorapp/pkg/store/sqldb/lesson"
)

// Fixture is the YAML layout accepted by the import command.
type Fixture struct {
	Tutors   []FixtureTutor   `yaml:"tutors"`
	Courses  []FixtureCourse  `yaml:"courses"`
	Students []FixtureStudent `yaml:"students"`
	Lessons  []FixtureLesson  `yaml:"lessons"`
}

type FixtureTutor struct {
	ID        string `yaml:"id"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
}

type FixtureCourse struct {
	ID      string `yaml:"id"`
	TutorID string `yaml:"tutor_id"`
	Title   string `yaml:"title"`
}

type FixtureStudent struct {
	ID         string `yaml:"id"`
	TutorID    string `yaml:"tutor_id"`
	FirstName  string `yaml:"first_name"`
	LastName   string `yaml:"last_name"`
	HourlyRate string `yaml:"hourly_rate"`
}

// FixtureLesson names its participants either with Student (legacy single
// student) or Students (ordered lesson_students rows).
type FixtureLesson struct {
	ID       string   `yaml:"id"`
	TutorID  string   `yaml:"tutor_id"`
	CourseID string   `yaml:"course_id"`
	Title    string   `yaml:"title"`
	Date     string   `yaml:"date"`
	Duration string   `yaml:"duration"`
	Student  string   `yaml:"student"`
	Students []string `yaml:"students"`
}

type ImportCmd struct {
	env *Env
}

func NewImportCmd(env *Env) *cobra.Command {
	ic := &ImportCmd{env: env}
	return &cobra.Command{
		Use:   "import <fixture.yaml>",
		Short: "Load tutors, courses, students and lessons from a YAML fixture",
		Args:  cobra.ExactArgs(1),
		RunE:  ic.run,
	}
}

func (ic *ImportCmd) run(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read fixture: %w", err)
	}
	var fx Fixture
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return fmt.Errorf("failed to parse fixture: %w", err)
	}

	records, err := fx.records()
	if err != nil {
		return err
	}

	cfg, err := ic.env.config()
	if err != nil {
		return err
	}
	db, closeDB, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	lessons, err := lesson.NewStore(db)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return records.insert(sqldb.WithTransaction(ctx, tx), lessons)
	})
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Int("tutors", len(records.tutors)).
		Int("lessons", len(records.lessons)).
		Msg("fixture imported")

	_, err = fmt.Fprintf(ic.env.out(), "Imported %d tutors, %d courses, %d students, %d lessons\n",
		len(records.tutors), len(records.courses), len(records.students), len(records.lessons))
	return err
}

type fixtureRecords struct {
	tutors   []store.Tutor
	courses  []store.Course
	students []store.Student
	lessons  []store.Lesson
}

func (r fixtureRecords) insert(ctx context.Context, s lesson.Store) error {
	if err := s.AddTutors(ctx, r.tutors); err != nil {
		return err
	}
	if err := s.AddCourses(ctx, r.courses); err != nil {
		return err
	}
	if err := s.AddStudents(ctx, r.students); err != nil {
		return err
	}
	return s.AddLessons(ctx, r.lessons)
}

// records converts the fixture to store rows, generating ids where the
// fixture leaves them out.
func (fx Fixture) records() (fixtureRecords, error) {
	var r fixtureRecords
	idOr := func(id string) string {
		if id == "" {
			return uuid.NewString()
		}
		return id
	}

	for _, t := range fx.Tutors {
		r.tutors = append(r.tutors, store.Tutor{ID: idOr(t.ID), FirstName: t.FirstName, LastName: t.LastName})
	}
	for _, c := range fx.Courses {
		r.courses = append(r.courses, store.Course{ID: idOr(c.ID), TutorID: c.TutorID, Title: c.Title})
	}
	for _, s := range fx.Students {
		r.students = append(r.students, store.Student{
			ID:         idOr(s.ID),
			TutorID:    s.TutorID,
			FirstName:  s.FirstName,
			LastName:   s.LastName,
			HourlyRate: s.HourlyRate,
		})
	}

	for i, l := range fx.Lessons {
		if l.TutorID == "" {
			return fixtureRecords{}, fmt.Errorf("lesson %d: tutor_id is required", i)
		}
		date, err := time.Parse(time.DateOnly, l.Date)
		if err != nil {
			return fixtureRecords{}, fmt.Errorf("lesson %d: invalid date %q", i, l.Date)
		}

		rec := store.Lesson{
			ID:       idOr(l.ID),
			TutorID:  l.TutorID,
			CourseID: l.CourseID,
			Title:    l.Title,
			Date:     date,
			Duration: l.Duration,
		}
		if l.Student != "" {
			id := l.Student
			rec.StudentID = &id
		}
		for pos, id := range l.Students {
			rec.LessonStudents = append(rec.LessonStudents, store.LessonStudent{StudentID: id, Position: pos})
		}
		r.lessons = append(r.lessons, rec)
	}

	return r, nil
}
