package pdf

import (
	"bytes"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"crmdashboard/internal/models"
)

// ReportGenerator renders the deals report.
type ReportGenerator struct {
	FontPath string // UTF-8 TTF, e.g. "assets/fonts/NanumGothic.ttf"; empty means core Helvetica
	Title    string
	Now      func() time.Time
	fontName string
}

func NewReportGenerator(fontPath, title string) *ReportGenerator {
	if title == "" {
		title = "Deals report"
	}
	fontName := "Helvetica"
	if fontPath != "" {
		fontName = "ReportFont"
	}
	return &ReportGenerator{
		FontPath: fontPath,
		Title:    title,
		Now:      time.Now,
		fontName: fontName,
	}
}

var dealColumns = []struct {
	title string
	width float64
}{
	{"ID", 15},
	{"Staff", 40},
	{"Status", 35},
	{"Created", 35},
	{"Category", 45},
}

func (g *ReportGenerator) Render(summary models.DealSummary, deals []models.Deal) ([]byte, error) {
	fontDir, fontFile := "", ""
	if g.FontPath != "" {
		fontDir, fontFile = filepath.Split(g.FontPath)
	}

	pdf := gofpdf.New("P", "mm", "A4", fontDir)
	pdf.SetTitle(g.Title, true)
	pdf.SetAuthor("CRM dashboard", true)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	tr := func(s string) string { return s }
	if g.FontPath != "" {
		pdf.AddUTF8Font(g.fontName, "", fontFile)
		pdf.AddUTF8Font(g.fontName, "B", fontFile)
	} else {
		tr = pdf.UnicodeTranslatorFromDescriptor("")
	}

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 9)
		pdf.CellFormat(0, 10, fmt.Sprintf("%d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, tr(g.Title), "", 1, "C", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 7, g.Now().Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	g.hr(pdf)

	g.sectionTitle(pdf, "Summary")
	g.kvLine(pdf, "Total", fmt.Sprintf("%d", summary.Total))
	g.kvLine(pdf, "Won", fmt.Sprintf("%d", summary.Won))
	g.kvLine(pdf, "Conversion", fmt.Sprintf("%.1f%%", summary.ConversionRate))
	pdf.Ln(2)

	if len(summary.Staff) > 0 {
		g.sectionTitle(pdf, "By staff")
		for _, st := range summary.Staff {
			g.kvLine(pdf, tr(st.Staff), fmt.Sprintf("%d / %d (%.1f%%)", st.Success, st.Total, st.Rate))
		}
		pdf.Ln(2)
	}

	if len(summary.Monthly) > 0 {
		g.sectionTitle(pdf, "Monthly")
		for _, m := range summary.Monthly {
			g.kvLine(pdf, m.Month, fmt.Sprintf("%d", m.Count))
		}
		pdf.Ln(2)
	}
	g.hr(pdf)

	g.sectionTitle(pdf, "Deals")
	pdf.SetFont(g.fontName, "B", 10)
	for _, col := range dealColumns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(g.fontName, "", 10)
	for _, d := range deals {
		id := ""
		if d.ID != nil {
			id = fmt.Sprintf("%d", *d.ID)
		}
		cells := []string{id, d.StaffName(), d.StatusName(), d.Created(), d.CategoryName()}
		for i, col := range dealColumns {
			pdf.CellFormat(col.width, 6, tr(cells[i]), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *ReportGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *ReportGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}
