package export

import (
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"
)

type pdfExporter struct{}

func (pdfExporter) ContentType() string { return "application/pdf" }
func (pdfExporter) Extension() string   { return "pdf" }

// Write lays the table out on landscape A4 with equal column widths.
func (pdfExporter) Write(w io.Writer, t Table) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(t.Title, false)
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	colW := pageW - 20
	if n := len(t.Headers); n > 0 {
		colW /= float64(n)
	}

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for _, h := range t.Headers {
			pdf.CellFormat(colW, 7, tr(fit(h, colW)), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
	}

	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			header()
		}
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont("Helvetica", "I", 7)
		pdf.CellFormat(0, 5, time.Now().UTC().Format("2006-01-02 15:04 MST"), "", 0, "L", false, 0, "")
		pdf.SetX(10)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, tr(t.Title))
	pdf.Ln(12)
	header()

	for _, row := range t.Rows {
		for i := range t.Headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pdf.CellFormat(colW, 6, tr(fit(cell, colW)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}

// fit truncates s to roughly what a column of width mm holds at 8pt.
func fit(s string, width float64) string {
	limit := int(width / 1.8)
	r := []rune(s)
	if limit < 4 || len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "~"
}
