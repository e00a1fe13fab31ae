package app

import (
	"bytes"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/hyperifyio/pricetracker/internal/extract"
)

// renderProductPDF renders a one-page product sheet: the record as a two
// column table followed by the page source and extraction time.
func renderProductPDF(rec extract.ProductRecord, source string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Product sheet", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	heading := "Product sheet"
	if title, ok := rec.Get(extract.FieldTitle); ok {
		heading = title
	}
	pdf.MultiCell(0, 8, tr(heading), "", "L", false)
	pdf.Ln(4)

	for _, f := range extract.Fields() {
		v, ok := rec.Get(f)
		if !ok {
			v = "-"
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(35, 8, strings.ToUpper(string(f[:1]))+string(f[1:]), "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, tr(v), "1", 1, "L", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 9)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		pdf.WriteLinkString(5, tr(source), source)
	} else {
		pdf.Write(5, tr(source))
	}
	pdf.Ln(5)
	pdf.Write(5, "Extracted "+time.Now().UTC().Format(time.RFC3339)+" by pricetracker "+BuildVersion)
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
