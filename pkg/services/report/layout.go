package report

// Layout holds the fixed geometry of the report, in millimetres. Rows have a
// fixed height because every cell is truncated to a single line, so the page
// breaks can be computed before anything is drawn.
type Layout struct {
	PageWidth    float64
	PageHeight   float64
	Margin       float64
	FooterHeight float64

	TitleHeight   float64
	LineHeight    float64
	SummaryHeight float64
	SectionGap    float64

	TableHeaderHeight float64
	RowHeight         float64
	TotalRowHeight    float64

	// Columns are fractions of the printable width: date, lesson, student,
	// duration, calculation, amount.
	Columns [6]float64
}

func DefaultLayout() Layout {
	return Layout{
		PageWidth:    210,
		PageHeight:   297,
		Margin:       15,
		FooterHeight: 20,

		TitleHeight:   10,
		LineHeight:    6,
		SummaryHeight: 36,
		SectionGap:    5,

		TableHeaderHeight: 8,
		RowHeight:         7,
		TotalRowHeight:    8,

		Columns: [6]float64{0.14, 0.28, 0.20, 0.10, 0.16, 0.12},
	}
}

// page is a half-open range of lesson rows drawn on one page.
type page struct {
	From, To int
}

func (l Layout) contentWidth() float64 {
	return l.PageWidth - 2*l.Margin
}

func (l Layout) columnWidths() [6]float64 {
	var w [6]float64
	for i, c := range l.Columns {
		w[i] = c * l.contentWidth()
	}
	return w
}

// bottom is the lowest y a table row may reach before the footer.
func (l Layout) bottom() float64 {
	return l.PageHeight - l.Margin - l.FooterHeight
}

// introHeight covers the title block, the summary box and the gaps around
// them on the first page.
func (l Layout) introHeight(hasStudent bool) float64 {
	lines := 3.0 // tutor, period, generation date
	if hasStudent {
		lines++
	}
	return l.TitleHeight + lines*l.LineHeight + l.SectionGap + l.SummaryHeight + l.SectionGap
}

// paginate splits rows over pages. The first page starts below the intro,
// continuation pages start with a repeated column header, and the total row
// goes after the last lesson, on a page of its own if it does not fit.
func (l Layout) paginate(rows int, hasStudent bool) []page {
	pages := []page{{}}
	if rows == 0 {
		return pages
	}

	bottom := l.bottom()
	y := l.Margin + l.introHeight(hasStudent) + l.TableHeaderHeight
	for i := 0; i < rows; i++ {
		if y+l.RowHeight > bottom {
			pages = append(pages, page{From: i, To: i})
			y = l.Margin + l.TableHeaderHeight
		}
		pages[len(pages)-1].To = i + 1
		y += l.RowHeight
	}
	if y+l.TotalRowHeight > bottom {
		pages = append(pages, page{From: rows, To: rows})
	}
	return pages
}

// PageCount is the number of pages a report with that many lesson rows takes.
func (l Layout) PageCount(rows int, hasStudent bool) int {
	return len(l.paginate(rows, hasStudent))
}
