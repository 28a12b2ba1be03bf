package lesson

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"

	"github.com/tutorapp/tutorapp/pkg/models/store"
	"github.com/tutorapp/tutorapp/pkg/store/sqldb"
)

type fixture struct {
	store Store
}

func ptr(s string) *string { return &s }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func setupFixture(t *testing.T) *fixture {
	db, err := sqldb.NewDB(sqldb.Settings{Driver: sqldb.DriverSQLite, DSN: ":memory:", Migrate: true})
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	s, err := NewStore(db)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.AddTutors(ctx, []store.Tutor{{ID: "t1", FirstName: "Marie", LastName: "Curie"}}))
	require.NoError(t, s.AddCourses(ctx, []store.Course{
		{ID: "c1", TutorID: "t1", Title: "Physique"},
		{ID: "c2", TutorID: "t1", Title: "Chimie"},
	}))
	require.NoError(t, s.AddStudents(ctx, []store.Student{
		{ID: "s1", TutorID: "t1", FirstName: "Paul", LastName: "Langevin", HourlyRate: "40"},
		{ID: "s2", TutorID: "t1", FirstName: "Irène", LastName: "Joliot", HourlyRate: "20"},
	}))
	require.NoError(t, s.AddLessons(ctx, []store.Lesson{
		{ID: "l1", TutorID: "t1", CourseID: "c1", Title: "Optique", Date: day(2024, 3, 10), Duration: "1h30", StudentID: ptr("s1")},
		{
			ID: "l2", TutorID: "t1", CourseID: "c2", Title: "Radioactivité", Date: day(2024, 3, 12), Duration: "2h",
			LessonStudents: []store.LessonStudent{
				{StudentID: "s2", Position: 0},
				{StudentID: "s1", Position: 1},
			},
		},
		{ID: "l3", TutorID: "t1", CourseID: "c1", Title: "Mécanique", Date: day(2024, 4, 2), Duration: "60", StudentID: ptr("s2")},
		{ID: "l4", TutorID: "other", CourseID: "c9", Title: "Ailleurs", Date: day(2024, 3, 11), Duration: "1h"},
	}))

	return &fixture{store: s}
}

func TestNewStore_NilDB(t *testing.T) {
	s, err := NewStore(nil)
	assert.Error(t, err)
	assert.Nil(t, s)
}

func TestStore_ListLessons(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	t.Run("tutor and range filter", func(t *testing.T) {
		lessons, err := f.store.ListLessons(ctx, store.LessonFilter{
			TutorID: "t1",
			From:    day(2024, 3, 1),
			To:      day(2024, 3, 31),
		})
		require.NoError(t, err)
		require.Len(t, lessons, 2)

		assert.Equal(t, "l1", lessons[0].ID)
		require.NotNil(t, lessons[0].Course)
		assert.Equal(t, "Physique", lessons[0].Course.Title)
		require.NotNil(t, lessons[0].Student)
		assert.Equal(t, "Paul", lessons[0].Student.FirstName)
		assert.Empty(t, lessons[0].LessonStudents)

		assert.Equal(t, "l2", lessons[1].ID)
		assert.Nil(t, lessons[1].Student)
		require.Len(t, lessons[1].LessonStudents, 2)
		assert.Equal(t, "s2", lessons[1].LessonStudents[0].StudentID)
		require.NotNil(t, lessons[1].LessonStudents[0].Student)
		assert.Equal(t, "20", lessons[1].LessonStudents[0].Student.HourlyRate)
	})

	t.Run("range bounds are inclusive", func(t *testing.T) {
		lessons, err := f.store.ListLessons(ctx, store.LessonFilter{
			TutorID: "t1",
			From:    day(2024, 3, 10),
			To:      day(2024, 3, 12),
		})
		require.NoError(t, err)
		assert.Len(t, lessons, 2)
	})

	t.Run("course filter", func(t *testing.T) {
		lessons, err := f.store.ListLessons(ctx, store.LessonFilter{TutorID: "t1", CourseID: "c1"})
		require.NoError(t, err)
		require.Len(t, lessons, 2)
		assert.Equal(t, "l1", lessons[0].ID)
		assert.Equal(t, "l3", lessons[1].ID)
	})

	t.Run("unknown tutor yields no lessons", func(t *testing.T) {
		lessons, err := f.store.ListLessons(ctx, store.LessonFilter{TutorID: "nobody"})
		require.NoError(t, err)
		assert.NotNil(t, lessons)
		assert.Empty(t, lessons)
	})
}

func TestStore_GetTutorAndStudent(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	tutor, err := f.store.GetTutor(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, tutor)
	assert.Equal(t, "Curie", tutor.LastName)

	tutor, err = f.store.GetTutor(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, tutor)

	student, err := f.store.GetStudent(ctx, "s2")
	require.NoError(t, err)
	require.NotNil(t, student)
	assert.Equal(t, "Irène", student.FirstName)

	student, err = f.store.GetStudent(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, student)
}

func TestStore_AddLessons_DuplicateFails(t *testing.T) {
	f := setupFixture(t)

	err := f.store.AddLessons(context.Background(), []store.Lesson{
		{ID: "l1", TutorID: "t1", Title: "again", Date: day(2024, 5, 1)},
	})
	assert.Error(t, err)
}

func TestStore_ListLessons_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	gdb, err := sqldb.Open(postgres.New(postgres.Config{Conn: db}), sqldb.Settings{})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "lessons"`).
		WillReturnError(errors.New("connection reset"))

	s, err := NewStore(gdb)
	require.NoError(t, err)

	lessons, err := s.ListLessons(context.Background(), store.LessonFilter{TutorID: "t1"})
	assert.Nil(t, lessons)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query lessons")
	assert.Contains(t, err.Error(), "connection reset")

	assert.NoError(t, mock.ExpectationsWereMet())
}
