package export

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/ekoseoglu/takip/internal/i18n"
	"github.com/ekoseoglu/takip/internal/store"
)

// Core fonts are single-byte; cp1254 covers Turkish. The library only
// embeds cp1250/cp1252, so we carry the map ourselves.
//
//go:embed cp1254.map
var cp1254Map []byte

// Column widths in millimetres, landscape A4.
var colWidths = []float64{10, 45, 45, 28, 35, 30, 30, 54}

// PDF renders the record list as a styled table with a fixed page title.
func PDF(apps []store.Application, lang i18n.Lang) ([]byte, error) {
	tr, err := fpdf.UnicodeTranslator(bytes.NewReader(cp1254Map))
	if err != nil {
		return nil, fmt.Errorf("loading code page: %w", err)
	}

	doc := fpdf.New("L", "mm", "A4", "")
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 12, tr(i18n.T(lang, "export.title")), "", 1, "C", false, 0, "")
	doc.Ln(2)

	doc.SetFont("Helvetica", "B", 9)
	doc.SetFillColor(230, 230, 230)
	for i, h := range headers(lang) {
		doc.CellFormat(colWidths[i], 8, tr(h), "1", 0, "L", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 9)
	for _, a := range apps {
		for i, v := range row(a, lang) {
			doc.CellFormat(colWidths[i], 7, tr(fmt.Sprintf("%v", v)), "1", 0, "L", false, 0, "")
		}
		doc.Ln(-1)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("serializing pdf: %w", err)
	}
	return buf.Bytes(), nil
}
