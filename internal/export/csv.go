package export

import (
	"encoding/csv"
	"io"
)

type csvExporter struct{}

func (csvExporter) ContentType() string { return "text/csv; charset=utf-8" }
func (csvExporter) Extension() string   { return "csv" }

func (csvExporter) Write(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}
