package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/tutorapp/tutorapp/pkg/models/domain"
	"github.com/tutorapp/tutorapp/pkg/services/duration"
	"github.com/tutorapp/tutorapp/pkg/services/format"
)

type TableConfig struct {
	DateWidth     int
	TitleWidth    int
	StudentWidth  int
	DurationWidth int
	AmountWidth   int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		DateWidth:     10,
		TitleWidth:    32,
		StudentWidth:  24,
		DurationWidth: 9,
		AmountWidth:   14,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

type view struct {
	Title string
	*domain.RevenueResult
}

func (c *Reporter) Handle(title string, result *domain.RevenueResult) error {
	if result == nil {
		return fmt.Errorf("nothing to report")
	}

	cfg := c.config
	funcMap := template.FuncMap{
		"amount": format.Amount,
		"date":   format.Date,
		"hours":  duration.FormatHours,
		"formatRow": func(date, title, student, dur, amount string) string {
			return fmt.Sprintf("| %s | %s | %s | %s | %s |",
				pad(date, cfg.DateWidth),
				pad(title, cfg.TitleWidth),
				pad(student, cfg.StudentWidth),
				pad(dur, cfg.DurationWidth),
				padLeft(amount, cfg.AmountWidth))
		},
		"bucketRow": func(key, count, amount string) string {
			return fmt.Sprintf("| %s | %s | %s |", pad(key, cfg.DateWidth), padLeft(count, 7), padLeft(amount, cfg.AmountWidth))
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+%s+",
				strings.Repeat("-", cfg.DateWidth+2),
				strings.Repeat("-", cfg.TitleWidth+2),
				strings.Repeat("-", cfg.StudentWidth+2),
				strings.Repeat("-", cfg.DurationWidth+2),
				strings.Repeat("-", cfg.AmountWidth+2))
		},
		"bucketSeparator": func() string {
			return fmt.Sprintf("+%s+%s+%s+",
				strings.Repeat("-", cfg.DateWidth+2),
				strings.Repeat("-", 9),
				strings.Repeat("-", cfg.AmountWidth+2))
		},
	}

	tmpl := `
{{.Title}} ({{.Request.Granularity}})

Period: {{date .Request.Period.Start}} to {{date .Request.Period.End}}
Total revenue: {{amount .Summary.TotalRevenue}}
Realized: {{amount .Summary.RealizedRevenue}}
Projected: {{amount .Summary.ProjectedRevenue}}
Hours: {{hours .Summary.TotalHours}}
Average hourly rate: {{amount .Summary.AverageHourlyRate}}
Lessons: {{.Summary.LessonCount}} ({{.Summary.LessonsCompleted}} completed)
{{if .Buckets}}
{{bucketSeparator}}
{{bucketRow "Period" "Lessons" "Revenue"}}
{{bucketSeparator}}
{{range .Buckets}}{{bucketRow .Key (printf "%d" .LessonCount) (amount .TotalRevenue)}}
{{end}}{{bucketSeparator}}
{{end}}{{if .LessonDetails}}
{{separator}}
{{formatRow "Date" "Title" "Student" "Duration" "Amount"}}
{{separator}}
{{range .LessonDetails}}{{formatRow (date .Lesson.Date) .Lesson.Title .Representative (hours .Lesson.Hours) (amount .Total)}}
{{end}}{{separator}}
{{else}}
No lessons in this period.
{{end}}`

	t, err := template.New("revenue").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, view{Title: title, RevenueResult: result})
}

// pad cuts or right-pads s to exactly width runes.
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n > width {
		r := []rune(s)
		return string(r[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-n)
}

func padLeft(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return strings.Repeat(" ", width-n) + s
}
