// Package export renders a Table as CSV, XLSX or PDF.
package export

import (
	"fmt"
	"io"
	"strings"
)

// Table is a titled grid of already formatted cells.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
	PDF  Format = "pdf"
)

// Exporter writes a table in one format.
type Exporter interface {
	ContentType() string
	Extension() string
	Write(w io.Writer, t Table) error
}

// ParseFormat accepts csv, xlsx (or excel) and pdf; empty means csv.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return CSV, nil
	case "xlsx", "excel":
		return XLSX, nil
	case "pdf":
		return PDF, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// For returns the exporter for f.
func For(f Format) Exporter {
	switch f {
	case XLSX:
		return xlsxExporter{}
	case PDF:
		return pdfExporter{}
	default:
		return csvExporter{}
	}
}

// Filename builds "<title>-<stamp>.<ext>" with a filesystem safe title.
func Filename(title, stamp string, e Exporter) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, strings.TrimSpace(title))
	if name == "" {
		name = "export"
	}
	return name + "-" + stamp + "." + e.Extension()
}
