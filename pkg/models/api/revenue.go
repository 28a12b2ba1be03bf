package api

type StudentContribution struct {
	StudentID    string  `json:"studentId"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	HourlyRate   float64 `json:"hourlyRate"`
	DefaultRate  bool    `json:"defaultRate,omitempty"`
	Contribution float64 `json:"contribution"`
}

type LessonDetail struct {
	ID                string                `json:"id"`
	Date              string                `json:"date"`
	Title             string                `json:"title"`
	CourseID          string                `json:"courseId"`
	CourseTitle       string                `json:"courseTitle"`
	Duration          string                `json:"duration"`
	DurationHours     float64               `json:"durationHours"`
	FormattedDuration string                `json:"formattedDuration"`
	StudentName       string                `json:"studentName"`
	Students          []StudentContribution `json:"students"`
	Calculation       string                `json:"calculation"`
	Amount            float64               `json:"amount"`
	Completed         bool                  `json:"completed"`
}

type Bucket struct {
	Key          string  `json:"key"`
	Start        string  `json:"start"`
	TotalRevenue float64 `json:"totalRevenue"`
	LessonCount  int     `json:"lessonCount"`
}

type RevenueResponse struct {
	TotalRevenue      float64            `json:"totalRevenue"`
	AverageHourlyRate float64            `json:"averageHourlyRate"`
	LessonsCompleted  int                `json:"lessonsCompleted"`
	ProjectedRevenue  float64            `json:"projectedRevenue"`
	RealizedRevenue   float64            `json:"realizedRevenue"`
	TotalHours        float64            `json:"totalHours"`
	LessonCount       int                `json:"lessonCount"`
	Granularity       string             `json:"granularity"`
	StartDate         string             `json:"startDate"`
	EndDate           string             `json:"endDate"`
	RevenueByPeriod   map[string]float64 `json:"revenueByPeriod"`
	Buckets           []Bucket           `json:"buckets"`
	LessonDetails     []LessonDetail     `json:"lessonDetails"`
}

type GeneratePDFRequest struct {
	TutorID   string `json:"tutorId" validate:"required"`
	StartDate string `json:"startDate" validate:"required,isodate"`
	EndDate   string `json:"endDate" validate:"required,isodate"`
	StudentID string `json:"studentId,omitempty"`
}

type GeneratePDFResponse struct {
	Success  bool   `json:"success"`
	PDFData  string `json:"pdfData,omitempty"`
	Filename string `json:"filename,omitempty"`
	Error    string `json:"error,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

// RevenueQuery holds the GET /revenue query parameters.
type RevenueQuery struct {
	TutorID   string `json:"tutorId" validate:"required"`
	Range     string `json:"range" validate:"omitempty,oneof=day week month quarter year"`
	CourseID  string `json:"courseId"`
	StudentID string `json:"studentId"`
	StartDate string `json:"startDate" validate:"omitempty,isodate"`
	EndDate   string `json:"endDate" validate:"omitempty,isodate"`
}
