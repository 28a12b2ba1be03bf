// Package report renders a revenue report as a paginated A4 PDF.
package report

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/tutorapp/tutorapp/pkg/models/domain"
	"github.com/tutorapp/tutorapp/pkg/services/duration"
	"github.com/tutorapp/tutorapp/pkg/services/format"
)

const (
	EmptyMessage = "Aucun cours sur la période sélectionnée."

	captionGenerated = "Document généré automatiquement par TutorApp. Les montants sont indiqués en euros."
	captionFiscal    = "Ce bilan ne constitue pas une facture et n'a pas de valeur fiscale."

	maxTitleRunes   = 38
	maxStudentRunes = 24

	font = "Helvetica"
)

var columnTitles = [6]string{"Date", "Cours", "Élève", "Durée", "Calcul", "Montant"}

// Renderer turns a report into a document.
type Renderer interface {
	Render(report *domain.Report) (*Document, error)
}

type Document struct {
	Filename string
	Data     []byte
}

// DataURI embeds the document in a data URI, the form clients download.
func (d *Document) DataURI() string {
	return "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(d.Data)
}

// Filename follows bilan_financier_dd-MM-yyyy_dd-MM-yyyy.pdf.
func Filename(p domain.TimePeriod) string {
	return fmt.Sprintf("bilan_financier_%s_%s.pdf",
		p.Start.Format("02-01-2006"),
		p.End.Format("02-01-2006"))
}

type Options struct {
	// Compress deflates page streams. Turning it off leaves the page text
	// readable in the output.
	Compress bool
}

type Exporter struct {
	layout   Layout
	compress bool
}

func NewExporter(opts Options) *Exporter {
	return &Exporter{
		layout:   DefaultLayout(),
		compress: opts.Compress,
	}
}

func (e *Exporter) Layout() Layout {
	return e.layout
}

// Render draws the whole report in one pass. The page count is known before
// the first page is drawn, so every footer carries the final total.
func (e *Exporter) Render(report *domain.Report) (*Document, error) {
	if report == nil {
		return nil, fmt.Errorf("report is nil")
	}

	hasStudent := report.StudentName != ""
	pages := e.layout.paginate(len(report.LessonDetails), hasStudent)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(e.compress)
	pdf.SetMargins(e.layout.Margin, e.layout.Margin, e.layout.Margin)
	pdf.SetAutoPageBreak(false, e.layout.Margin)
	pdf.SetCreationDate(report.GeneratedAt)
	pdf.SetTitle(report.Title, true)
	pdf.SetAuthor(report.TutorName, true)
	pdf.SetCreator("TutorApp", false)

	w := &writer{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		layout: e.layout,
		widths: e.layout.columnWidths(),
	}
	pdf.SetFooterFunc(func() {
		w.footer(report, pdf.PageNo(), len(pages))
	})

	for i, p := range pages {
		pdf.AddPage()
		if i == 0 {
			w.intro(report)
			if len(report.LessonDetails) == 0 {
				w.empty()
				continue
			}
		}
		w.tableHeader()
		for j, r := range report.LessonDetails[p.From:p.To] {
			w.row(p.From+j, r)
		}
		if i == len(pages)-1 {
			w.total(report.Summary.TotalRevenue)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	return &Document{
		Filename: Filename(report.Period),
		Data:     buf.Bytes(),
	}, nil
}

type writer struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	layout Layout
	widths [6]float64
}

func (w *writer) cell(width, height float64, text, border, align string, fill bool) {
	w.pdf.CellFormat(width, height, w.tr(text), border, 0, align, fill, 0, "")
}

func (w *writer) line(height float64, text string) {
	w.pdf.CellFormat(w.layout.contentWidth(), height, w.tr(text), "", 1, "L", false, 0, "")
}

func (w *writer) intro(r *domain.Report) {
	l := w.layout
	top := l.Margin

	w.pdf.SetTextColor(33, 37, 41)
	w.pdf.SetFont(font, "B", 18)
	w.line(l.TitleHeight, r.Title)

	w.pdf.SetFont(font, "", 10)
	w.line(l.LineHeight, "Tuteur : "+r.TutorName)
	if r.StudentName != "" {
		w.line(l.LineHeight, "Élève : "+r.StudentName)
	}
	w.line(l.LineHeight, fmt.Sprintf("Période : du %s au %s",
		format.Date(r.Period.Start), format.Date(r.Period.End)))
	w.line(l.LineHeight, "Généré le "+r.GeneratedAt.Format("02/01/2006 à 15:04"))

	lines := 3.0
	if r.StudentName != "" {
		lines++
	}
	w.pdf.SetY(top + l.TitleHeight + lines*l.LineHeight + l.SectionGap)
	w.summary(r.Summary)
	w.pdf.SetY(top + l.introHeight(r.StudentName != ""))
}

func (w *writer) summary(s domain.Summary) {
	l := w.layout
	items := [][2]string{
		{"Chiffre d'affaires total", format.Amount(s.TotalRevenue)},
		{"Revenus réalisés", format.Amount(s.RealizedRevenue)},
		{"Revenus prévisionnels", format.Amount(s.ProjectedRevenue)},
		{"Cours effectués", fmt.Sprintf("%d sur %d", s.LessonsCompleted, s.LessonCount)},
		{"Heures enseignées", duration.FormatHours(s.TotalHours)},
		{"Taux horaire moyen", format.Amount(s.AverageHourlyRate) + "/h"},
		{"Revenu moyen par cours", format.Amount(s.RevenuePerLesson)},
	}
	rowHeight := l.SummaryHeight / float64(len(items))
	half := l.contentWidth() / 2

	w.pdf.SetFillColor(244, 246, 250)
	w.pdf.SetDrawColor(210, 214, 220)
	for i, it := range items {
		border := "LR"
		if i == 0 {
			border = "LRT"
		} else if i == len(items)-1 {
			border = "LRB"
		}
		w.pdf.SetFont(font, "", 10)
		w.cell(half, rowHeight, "  "+it[0], border, "L", true)
		w.pdf.SetFont(font, "B", 10)
		w.pdf.CellFormat(half, rowHeight, w.tr(it[1]+"  "), border, 1, "R", true, 0, "")
	}
}

func (w *writer) empty() {
	w.pdf.SetFont(font, "I", 10)
	w.pdf.SetTextColor(108, 117, 125)
	w.line(w.layout.RowHeight*2, EmptyMessage)
}

func (w *writer) tableHeader() {
	w.pdf.SetFont(font, "B", 9)
	w.pdf.SetFillColor(52, 73, 94)
	w.pdf.SetTextColor(255, 255, 255)
	w.pdf.SetDrawColor(52, 73, 94)
	for i, title := range columnTitles {
		align := "L"
		if i == len(columnTitles)-1 {
			align = "R"
		}
		w.cell(w.widths[i], w.layout.TableHeaderHeight, " "+title+" ", "1", align, true)
	}
	w.pdf.Ln(w.layout.TableHeaderHeight)
	w.pdf.SetTextColor(33, 37, 41)
}

// row draws lesson i of the table; odd rows get a light background.
func (w *writer) row(i int, r domain.LessonRevenue) {
	h := w.layout.RowHeight
	w.pdf.SetFont(font, "", 8)
	w.pdf.SetDrawColor(222, 226, 230)
	striped := i%2 == 1
	if striped {
		w.pdf.SetFillColor(248, 249, 250)
	}

	title := r.Lesson.Title
	if title == "" {
		title = r.Lesson.CourseTitle
	}
	cols := [6]string{
		format.Date(r.Lesson.Date),
		truncate(title, maxTitleRunes),
		truncate(r.Representative, maxStudentRunes),
		duration.FormatHours(r.Lesson.Hours),
		"",
		format.Amount(r.Total),
	}
	cols[4] = w.fit(format.Calculation(r), w.widths[4]-2)

	for c, text := range cols {
		align := "L"
		if c == len(cols)-1 {
			align = "R"
		}
		w.cell(w.widths[c], h, " "+text+" ", "B", align, striped)
	}
	w.pdf.Ln(h)
}

func (w *writer) total(amount float64) {
	h := w.layout.TotalRowHeight
	labelWidth := 0.0
	for _, cw := range w.widths[:5] {
		labelWidth += cw
	}
	w.pdf.SetFont(font, "B", 10)
	w.pdf.SetFillColor(244, 246, 250)
	w.cell(labelWidth, h, " Total", "T", "L", true)
	w.cell(w.widths[5], h, format.Amount(amount)+" ", "T", "R", true)
	w.pdf.Ln(h)
}

func (w *writer) footer(r *domain.Report, pageNo, pageCount int) {
	l := w.layout
	top := l.PageHeight - l.Margin - l.FooterHeight + 4
	third := l.contentWidth() / 3

	w.pdf.SetDrawColor(210, 214, 220)
	w.pdf.Line(l.Margin, top, l.PageWidth-l.Margin, top)

	w.pdf.SetY(top + 1)
	w.pdf.SetFont(font, "", 8)
	w.pdf.SetTextColor(108, 117, 125)
	w.cell(third, 5, r.TutorName, "", "L", false)
	w.cell(third, 5, "Généré le "+format.Date(r.GeneratedAt), "", "C", false)
	w.pdf.CellFormat(third, 5, w.tr(fmt.Sprintf("Page %d sur %d", pageNo, pageCount)), "", 1, "R", false, 0, "")

	w.pdf.SetFont(font, "I", 7)
	w.line(4, captionGenerated)
	w.line(4, captionFiscal)
}

// fit shortens s with an ellipsis until it fits width at the current font.
func (w *writer) fit(s string, width float64) string {
	if w.pdf.GetStringWidth(w.tr(s)) <= width {
		return s
	}
	runes := []rune(s)
	for n := len(runes) - 1; n > 0; n-- {
		candidate := string(runes[:n]) + "…"
		if w.pdf.GetStringWidth(w.tr(candidate)) <= width {
			return candidate
		}
	}
	return "…"
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
