package app

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/hyperifyio/pricetracker/internal/extract"
)

// renderRecord serializes rec in the requested format, newline terminated.
func renderRecord(rec extract.ProductRecord, format string) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		b, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode record: %w", err)
		}
		return append(b, '\n'), nil
	case FormatTable:
		return []byte(renderTable(rec) + "\n"), nil
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

func renderTable(rec extract.ProductRecord) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Field", "Value"})
	for _, f := range extract.Fields() {
		v, ok := rec.Get(f)
		if !ok {
			v = "-"
		}
		tw.AppendRow(table.Row{string(f), v})
	}
	return tw.Render()
}
