package revenue

import (
	"context"
	"fmt"
	"time"

	"github.com/tutorapp/tutorapp/pkg/models/domain"
	"github.com/tutorapp/tutorapp/pkg/store/cache"
)

const DefaultCacheTTL = 30 * time.Second

type cachedManager struct {
	Manager
	cache *cache.JSON
}

// NewCachedManager serves repeated GetRevenue calls from c for ttl. Reports
// always go to the wrapped manager.
func NewCachedManager(m Manager, c cache.Cache, ttl time.Duration) Manager {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &cachedManager{
		Manager: m,
		cache:   cache.NewJSON(c, ttl),
	}
}

func (m *cachedManager) GetRevenue(ctx context.Context, req domain.RevenueRequest) (*domain.RevenueResult, error) {
	res, err := cache.Fetch(ctx, m.cache, cacheKey(req), func(ctx context.Context) (*domain.RevenueResult, error) {
		return m.Manager.GetRevenue(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return relocate(res, req), nil
}

// relocate returns a copy of res whose times carry the request's location.
// Decoded entries only keep a fixed UTC offset. The copy leaves results
// shared by collapsed loads untouched.
func relocate(res *domain.RevenueResult, req domain.RevenueRequest) *domain.RevenueResult {
	loc := req.Period.Start.Location()
	out := *res
	out.Request = req

	if res.Buckets != nil {
		out.Buckets = make([]domain.Bucket, len(res.Buckets))
		for i, b := range res.Buckets {
			b.Start = b.Start.In(loc)
			out.Buckets[i] = b
		}
	}
	if res.LessonDetails != nil {
		out.LessonDetails = make([]domain.LessonRevenue, len(res.LessonDetails))
		for i, l := range res.LessonDetails {
			l.Lesson.Date = l.Lesson.Date.In(loc)
			out.LessonDetails[i] = l
		}
	}
	return &out
}

// cacheKey includes the current day: the same window must be recomputed once
// lessons move from projected to completed.
func cacheKey(req domain.RevenueRequest) string {
	loc := req.Period.Start.Location()
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s|%s",
		req.TutorID,
		req.CourseID,
		req.StudentID,
		req.Granularity,
		req.Period.Start.Format(time.RFC3339),
		req.Period.End.Format(time.RFC3339),
		req.Now.In(loc).Format("2006-01-02"),
	)
}
