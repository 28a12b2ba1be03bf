package revenue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tutorapp/tutorapp/pkg/models/domain"
	"github.com/tutorapp/tutorapp/pkg/models/store"
	"github.com/tutorapp/tutorapp/pkg/store/sqldb"
	"github.com/tutorapp/tutorapp/pkg/store/sqldb/lesson"
)

type mockLessonStore struct {
	mock.Mock
	lesson.Store
}

func (m *mockLessonStore) ListLessons(ctx context.Context, filter store.LessonFilter) ([]store.Lesson, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Lesson), args.Error(1)
}

func (m *mockLessonStore) GetTutor(ctx context.Context, id string) (*store.Tutor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Tutor), args.Error(1)
}

func strPtr(s string) *string { return &s }

func setupManager(t *testing.T) Manager {
	db, err := sqldb.NewDB(sqldb.Settings{Driver: sqldb.DriverSQLite, DSN: ":memory:", Migrate: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	s, err := lesson.NewStore(db)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.AddTutors(ctx, []store.Tutor{{ID: "t1", FirstName: "Claire", LastName: "Moreau"}}))
	require.NoError(t, s.AddCourses(ctx, []store.Course{{ID: "c1", TutorID: "t1", Title: "Maths"}}))
	require.NoError(t, s.AddStudents(ctx, []store.Student{
		{ID: "s1", TutorID: "t1", FirstName: "Paul", LastName: "Martin", HourlyRate: "40"},
		{ID: "s2", TutorID: "t1", FirstName: "Léa", LastName: "Durand", HourlyRate: "20"},
		{ID: "s3", TutorID: "t1", FirstName: "Noé", LastName: "Petit", HourlyRate: "à voir"},
	}))
	require.NoError(t, s.AddLessons(ctx, []store.Lesson{
		{ID: "l1", TutorID: "t1", CourseID: "c1", Title: "Fractions", Date: utcDay(2024, 3, 10), Duration: "1h30", StudentID: strPtr("s1")},
		{
			ID: "l2", TutorID: "t1", CourseID: "c1", Title: "Équations", Date: utcDay(2024, 3, 12), Duration: "1h30",
			LessonStudents: []store.LessonStudent{{StudentID: "s1", Position: 0}, {StudentID: "s2", Position: 1}},
		},
		{ID: "l3", TutorID: "t1", CourseID: "c1", Title: "Géométrie", Date: utcDay(2024, 3, 20), Duration: "2h", StudentID: strPtr("s3")},
	}))

	return NewManager(s, NewCalculator(30))
}

func marchRequest() domain.RevenueRequest {
	return domain.RevenueRequest{
		TutorID:     "t1",
		Granularity: domain.GranularityMonth,
		Period:      domain.TimePeriod{Start: utcDay(2024, 3, 1), End: utcDay(2024, 3, 31)},
		Now:         time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestManager_GetRevenue(t *testing.T) {
	m := setupManager(t)

	res, err := m.GetRevenue(context.Background(), marchRequest())
	require.NoError(t, err)

	assert.Equal(t, "t1", res.Request.TutorID)
	assert.Equal(t, 3, res.Summary.LessonCount)
	// 60 + (60 + 30) + 2h at the default rate
	assert.InDelta(t, 210.0, res.Summary.TotalRevenue, 1e-9)
	assert.InDelta(t, 150.0, res.Summary.RealizedRevenue, 1e-9)
	assert.InDelta(t, 60.0, res.Summary.ProjectedRevenue, 1e-9)
	assert.Equal(t, 2, res.Summary.LessonsCompleted)
	assert.InDelta(t, 5.0, float64(res.Summary.TotalHours), 1e-9)
	assert.InDelta(t, 42.0, res.Summary.AverageHourlyRate, 1e-9)

	require.Len(t, res.Buckets, 1)
	assert.Equal(t, "2024-03", res.Buckets[0].Key)

	require.Len(t, res.LessonDetails, 3)
	assert.Equal(t, "Maths", res.LessonDetails[0].Lesson.CourseTitle)
	assert.True(t, res.LessonDetails[2].PerStudent[0].DefaultRate)
}

func TestManager_GetRevenue_StudentFilter(t *testing.T) {
	m := setupManager(t)

	req := marchRequest()
	req.StudentID = "s2"
	res, err := m.GetRevenue(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, res.LessonDetails, 1)
	assert.Equal(t, "l2", res.LessonDetails[0].Lesson.ID)
	assert.InDelta(t, 30.0, res.Summary.TotalRevenue, 1e-9)
}

func TestManager_GetRevenue_UnknownIdsAreEmpty(t *testing.T) {
	m := setupManager(t)

	for _, req := range []domain.RevenueRequest{
		func() domain.RevenueRequest { r := marchRequest(); r.TutorID = "nobody"; return r }(),
		func() domain.RevenueRequest { r := marchRequest(); r.StudentID = "nobody"; return r }(),
		func() domain.RevenueRequest { r := marchRequest(); r.CourseID = "nothing"; return r }(),
	} {
		res, err := m.GetRevenue(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 0.0, res.Summary.TotalRevenue)
		assert.Empty(t, res.LessonDetails)
	}
}

func TestManager_GetRevenue_InvalidPeriod(t *testing.T) {
	m := setupManager(t)

	req := marchRequest()
	req.Period.Start, req.Period.End = req.Period.End, req.Period.Start
	_, err := m.GetRevenue(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestManager_BuildReport(t *testing.T) {
	m := setupManager(t)

	t.Run("tutor report", func(t *testing.T) {
		report, err := m.BuildReport(context.Background(), marchRequest())
		require.NoError(t, err)
		assert.Equal(t, ReportTitle, report.Title)
		assert.Equal(t, "Claire Moreau", report.TutorName)
		assert.Empty(t, report.StudentName)
		assert.Len(t, report.LessonDetails, 3)
	})

	t.Run("student report", func(t *testing.T) {
		req := marchRequest()
		req.StudentID = "s1"
		report, err := m.BuildReport(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "Paul Martin", report.StudentName)
		assert.Len(t, report.LessonDetails, 2)
	})

	t.Run("unknown tutor falls back to id", func(t *testing.T) {
		req := marchRequest()
		req.TutorID = "ghost"
		report, err := m.BuildReport(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "ghost", report.TutorName)
		assert.Empty(t, report.LessonDetails)
	})
}

func TestManager_StoreErrors(t *testing.T) {
	s := new(mockLessonStore)
	s.On("ListLessons", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))
	s.On("GetTutor", mock.Anything, "t1").Return(nil, nil)

	m := NewManager(s, NewCalculator(30))

	_, err := m.GetRevenue(context.Background(), marchRequest())
	assert.ErrorContains(t, err, "db down")

	_, err = m.BuildReport(context.Background(), marchRequest())
	assert.ErrorContains(t, err, "db down")
}
