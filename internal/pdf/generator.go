package pdf

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/transvia/fleet-office/internal/format"
	"github.com/transvia/fleet-office/internal/model"
)

const (
	fontName   = "Helvetica"
	pageMargin = 12.0
	rowHeight  = 7.0
)

// Generator renders tabular reports on landscape A4 with the core Helvetica font.
// Text goes through a cp1252 translator so Portuguese accents survive.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(report model.TabularReport) ([]byte, error) {
	if len(report.Headers) == 0 {
		return nil, fmt.Errorf("report has no columns")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("cp1252")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("{nb}")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(fontName, "", 8)
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("Página %d de {nb}", pdf.PageNo())), "", 0, "C", false, 0, "")
	})

	widths := columnWidths(pdf, report)
	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			drawRow(pdf, tr, report.Headers, widths, true)
		}
	})

	pdf.AddPage()
	writeHeading(pdf, tr, report)
	drawRow(pdf, tr, report.Headers, widths, true)
	for _, row := range report.Rows {
		drawRow(pdf, tr, row, widths, false)
	}
	if len(report.Rows) == 0 {
		pdf.SetFont(fontName, "I", 9)
		pdf.CellFormat(0, rowHeight, tr("Nenhum registro encontrado."), "", 1, "L", false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeHeading(pdf *gofpdf.Fpdf, tr func(string) string, report model.TabularReport) {
	top := pdf.GetY()
	textX := pageMargin
	if logo := strings.TrimSpace(report.LogoPath); logo != "" {
		if _, err := os.Stat(logo); err == nil {
			pdf.ImageOptions(logo, pageMargin, top, 0, 14, false, gofpdf.ImageOptions{ReadDpi: true}, 0, "")
			textX = pageMargin + 40
		}
	}

	pdf.SetXY(textX, top)
	if company := strings.TrimSpace(report.CompanyName); company != "" {
		pdf.SetFont(fontName, "B", 11)
		pdf.CellFormat(0, 6, tr(company), "", 1, "L", false, 0, "")
		pdf.SetX(textX)
	}
	pdf.SetFont(fontName, "", 8)
	pdf.CellFormat(0, 5, tr("Emitido em "+format.DateTime(report.GeneratedAt)), "", 1, "L", false, 0, "")
	if pdf.GetY() < top+16 {
		pdf.SetY(top + 16)
	}

	pdf.SetFont(fontName, "B", 14)
	pdf.CellFormat(0, 9, tr(report.Title), "", 1, "C", false, 0, "")
	if report.Subtitle != "" {
		pdf.SetFont(fontName, "", 10)
		pdf.CellFormat(0, 6, tr(report.Subtitle), "", 1, "C", false, 0, "")
	}
	pdf.Ln(3)
}

// columnWidths uses the report widths when they match the header count, otherwise splits the page evenly.
func columnWidths(pdf *gofpdf.Fpdf, report model.TabularReport) []float64 {
	if len(report.Widths) == len(report.Headers) {
		return report.Widths
	}
	pageWidth, _ := pdf.GetPageSize()
	each := (pageWidth - 2*pageMargin) / float64(len(report.Headers))
	widths := make([]float64, len(report.Headers))
	for i := range widths {
		widths[i] = each
	}
	return widths
}

func drawRow(pdf *gofpdf.Fpdf, tr func(string) string, cols []string, widths []float64, header bool) {
	style := ""
	fill := false
	if header {
		style = "B"
		fill = true
		pdf.SetFillColor(230, 230, 230)
	}
	pdf.SetFont(fontName, style, 9)
	for i, width := range widths {
		value := ""
		if i < len(cols) {
			value = fitCell(pdf, tr(cols[i]), width-2)
		}
		pdf.CellFormat(width, rowHeight, value, "1", 0, "L", fill, 0, "")
	}
	pdf.Ln(-1)
}

// fitCell truncates text that does not fit the column and marks the cut with "...".
func fitCell(pdf *gofpdf.Fpdf, value string, width float64) string {
	if pdf.GetStringWidth(value) <= width {
		return value
	}
	runes := []rune(value)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
