package domain

import (
	"fmt"
	"time"
)

type Granularity string

const (
	GranularityDay     Granularity = "day"
	GranularityWeek    Granularity = "week"
	GranularityMonth   Granularity = "month"
	GranularityQuarter Granularity = "quarter"
	GranularityYear    Granularity = "year"
)

func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(s); g {
	case GranularityDay, GranularityWeek, GranularityMonth, GranularityQuarter, GranularityYear:
		return g, nil
	case "":
		return GranularityMonth, nil
	default:
		return "", fmt.Errorf("unknown granularity %q", s)
	}
}

// TimePeriod represents an inclusive calendar date range
type TimePeriod struct {
	Start time.Time
	End   time.Time
}

// RevenueRequest is the immutable request context threaded through every
// stage of the revenue pipeline.
type RevenueRequest struct {
	TutorID     string
	CourseID    string
	StudentID   string
	Granularity Granularity
	Period      TimePeriod
	Now         time.Time
}

type Bucket struct {
	Key          string
	Start        time.Time
	TotalRevenue float64
	LessonCount  int
}

type Summary struct {
	TotalRevenue      float64
	TotalHours        Hours
	AverageHourlyRate float64
	LessonCount       int
	LessonsCompleted  int
	RealizedRevenue   float64
	ProjectedRevenue  float64
	RevenuePerLesson  float64
}

// RevenueResult is the aggregated answer to a RevenueRequest.
type RevenueResult struct {
	Request       RevenueRequest
	Summary       Summary
	Buckets       []Bucket
	LessonDetails []LessonRevenue
}

// Report represents everything the document exporter needs
type Report struct {
	Title         string
	TutorName     string
	StudentName   string // empty when no student filter is active
	GeneratedAt   time.Time
	Period        TimePeriod
	Summary       Summary
	LessonDetails []LessonRevenue
}
