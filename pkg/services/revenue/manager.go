package revenue

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tutorapp/tutorapp/pkg/adapters"
	"github.com/tutorapp/tutorapp/pkg/models/domain"
	"github.com/tutorapp/tutorapp/pkg/models/store"
	"github.com/tutorapp/tutorapp/pkg/store/sqldb/lesson"
)

const ReportTitle = "Bilan financier"

var ErrInvalidPeriod = errors.New("invalid period")

// Manager runs the revenue pipeline for one request: read lessons, compute
// contributions, aggregate.
type Manager interface {
	GetRevenue(ctx context.Context, req domain.RevenueRequest) (*domain.RevenueResult, error)
	BuildReport(ctx context.Context, req domain.RevenueRequest) (*domain.Report, error)
}

type manager struct {
	lessons    lesson.Store
	calculator *Calculator
}

func NewManager(lessons lesson.Store, calculator *Calculator) Manager {
	return &manager{
		lessons:    lessons,
		calculator: calculator,
	}
}

func (m *manager) GetRevenue(ctx context.Context, req domain.RevenueRequest) (*domain.RevenueResult, error) {
	if req.Period.End.Before(req.Period.Start) {
		return nil, fmt.Errorf("%w: start date (%s) is after end date (%s)", ErrInvalidPeriod,
			req.Period.Start.Format("2006-01-02"),
			req.Period.End.Format("2006-01-02"))
	}

	records, err := m.lessons.ListLessons(ctx, store.LessonFilter{
		TutorID:  req.TutorID,
		CourseID: req.CourseID,
		From:     adapters.MapDomainDateToStore(req.Period.Start),
		To:       adapters.MapDomainDateToStore(req.Period.End),
	})
	if err != nil {
		return nil, err
	}

	loc := req.Period.Start.Location()
	revenues := make([]domain.LessonRevenue, 0, len(records))
	for _, l := range adapters.MapStoreLessonsToDomain(records, loc) {
		r, ok := m.calculator.Compute(l, req.StudentID)
		if !ok {
			continue
		}
		revenues = append(revenues, r)
	}

	res := Aggregate(revenues, req.Granularity, req.Period, req.Now)
	res.Request = req

	zerolog.Ctx(ctx).Debug().
		Str("tutor", req.TutorID).
		Int("lessons", res.Summary.LessonCount).
		Float64("total", res.Summary.TotalRevenue).
		Msg("revenue computed")

	return &res, nil
}

// BuildReport gathers the revenue result together with the display names the
// document header needs. Unknown tutors or students fall back to their id.
func (m *manager) BuildReport(ctx context.Context, req domain.RevenueRequest) (*domain.Report, error) {
	var (
		result  *domain.RevenueResult
		tutor   *domain.Tutor
		student *domain.Student
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		result, err = m.GetRevenue(gctx, req)
		return err
	})
	g.Go(func() error {
		t, err := m.lessons.GetTutor(gctx, req.TutorID)
		if err != nil {
			return err
		}
		tutor = adapters.MapStoreTutorToDomain(t)
		return nil
	})
	if req.StudentID != "" {
		g.Go(func() error {
			s, err := m.lessons.GetStudent(gctx, req.StudentID)
			if err != nil {
				return err
			}
			student = adapters.MapStoreStudentToDomain(s)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &domain.Report{
		Title:         ReportTitle,
		TutorName:     req.TutorID,
		GeneratedAt:   req.Now,
		Period:        req.Period,
		Summary:       result.Summary,
		LessonDetails: result.LessonDetails,
	}
	if tutor != nil && tutor.FullName() != "" {
		report.TutorName = tutor.FullName()
	}
	if req.StudentID != "" {
		report.StudentName = req.StudentID
		if student != nil && student.FullName() != "" {
			report.StudentName = student.FullName()
		}
	}

	return report, nil
}
