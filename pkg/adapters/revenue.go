package adapters

import (
	"time"

	"github.com/tutorapp/tutorapp/pkg/models/api"
	"github.com/tutorapp/tutorapp/pkg/models/domain"
	"github.com/tutorapp/tutorapp/pkg/services/duration"
	"github.com/tutorapp/tutorapp/pkg/services/format"
)

func MapRevenueResultToApi(res *domain.RevenueResult) api.RevenueResponse {
	today := civilDay(res.Request.Now.In(res.Request.Period.Start.Location()))

	resp := api.RevenueResponse{
		TotalRevenue:      res.Summary.TotalRevenue,
		AverageHourlyRate: res.Summary.AverageHourlyRate,
		LessonsCompleted:  res.Summary.LessonsCompleted,
		ProjectedRevenue:  res.Summary.ProjectedRevenue,
		RealizedRevenue:   res.Summary.RealizedRevenue,
		TotalHours:        float64(res.Summary.TotalHours),
		LessonCount:       res.Summary.LessonCount,
		Granularity:       string(res.Request.Granularity),
		StartDate:         format.ISODate(res.Request.Period.Start),
		EndDate:           format.ISODate(res.Request.Period.End),
		RevenueByPeriod:   make(map[string]float64, len(res.Buckets)),
		Buckets:           make([]api.Bucket, 0, len(res.Buckets)),
		LessonDetails:     make([]api.LessonDetail, 0, len(res.LessonDetails)),
	}

	for _, b := range res.Buckets {
		resp.RevenueByPeriod[b.Key] = b.TotalRevenue
		resp.Buckets = append(resp.Buckets, api.Bucket{
			Key:          b.Key,
			Start:        format.ISODate(b.Start),
			TotalRevenue: b.TotalRevenue,
			LessonCount:  b.LessonCount,
		})
	}

	for _, r := range res.LessonDetails {
		completed := civilDay(r.Lesson.Date) <= today
		resp.LessonDetails = append(resp.LessonDetails, MapLessonRevenueToApi(r, completed))
	}

	return resp
}

func MapLessonRevenueToApi(r domain.LessonRevenue, completed bool) api.LessonDetail {
	detail := api.LessonDetail{
		ID:                r.Lesson.ID,
		Date:              format.ISODate(r.Lesson.Date),
		Title:             r.Lesson.Title,
		CourseID:          r.Lesson.CourseID,
		CourseTitle:       r.Lesson.CourseTitle,
		Duration:          r.Lesson.RawDuration,
		DurationHours:     float64(r.Lesson.Hours),
		FormattedDuration: duration.FormatHours(r.Lesson.Hours),
		StudentName:       r.Representative,
		Students:          make([]api.StudentContribution, 0, len(r.PerStudent)),
		Calculation:       format.Calculation(r),
		Amount:            r.Total,
		Completed:         completed,
	}
	for _, c := range r.PerStudent {
		detail.Students = append(detail.Students, api.StudentContribution{
			StudentID:    c.StudentID,
			FirstName:    c.FirstName,
			LastName:     c.LastName,
			HourlyRate:   c.HourlyRate,
			DefaultRate:  c.DefaultRate,
			Contribution: c.Contribution,
		})
	}
	return detail
}

// civilDay orders calendar dates as yyyymmdd integers.
func civilDay(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
