package revenue

import (
	"sort"
	"time"

	"github.com/tutorapp/tutorapp/pkg/models/domain"
)

// Aggregate filters lesson revenues to the inclusive period, buckets them by
// granularity and summarizes them. now decides which lessons are completed
// and which are projected, independently of the period bounds.
func Aggregate(
	revenues []domain.LessonRevenue,
	g domain.Granularity,
	period domain.TimePeriod,
	now time.Time,
) domain.RevenueResult {
	period = NormalizePeriod(period)
	today := StartOfDay(now.In(period.Start.Location()))

	details := make([]domain.LessonRevenue, 0, len(revenues))
	for _, r := range revenues {
		d := r.Lesson.Date
		if d.Before(period.Start) || d.After(period.End) {
			continue
		}
		details = append(details, r)
	}
	sort.SliceStable(details, func(i, j int) bool {
		a, b := details[i].Lesson, details[j].Lesson
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.ID < b.ID
	})

	var summary domain.Summary
	buckets := make(map[string]*domain.Bucket)
	for _, r := range details {
		summary.LessonCount++
		summary.TotalRevenue += r.Total
		summary.TotalHours += r.Lesson.Hours

		if r.Lesson.Date.After(today) {
			summary.ProjectedRevenue += r.Total
		} else {
			summary.LessonsCompleted++
			summary.RealizedRevenue += r.Total
		}

		key := PeriodKey(r.Lesson.Date, g)
		b, ok := buckets[key]
		if !ok {
			b = &domain.Bucket{Key: key, Start: PeriodStart(r.Lesson.Date, g)}
			buckets[key] = b
		}
		b.TotalRevenue += r.Total
		b.LessonCount++
	}

	if summary.TotalHours > 0 {
		summary.AverageHourlyRate = summary.TotalRevenue / float64(summary.TotalHours)
	}
	if summary.LessonCount > 0 {
		summary.RevenuePerLesson = summary.TotalRevenue / float64(summary.LessonCount)
	}

	ordered := make([]domain.Bucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, *b)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Start.Before(ordered[j].Start) })

	return domain.RevenueResult{
		Summary:       summary,
		Buckets:       ordered,
		LessonDetails: details,
	}
}
