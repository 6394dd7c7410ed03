package service

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMarginLeft  = 80.0
	pdfMarginTop   = 80.0
	pdfPageBottom  = 780.0
	pdfLineSpacing = 25.0
	pdfTitleSize   = 28.0
	pdfLineSize    = 16.0
)

// PDFRenderer turns an aggregated shopping list into a downloadable PDF.
// With no font configured it uses the built-in Helvetica, which covers
// latin ingredient names; a UTF-8 TTF can be supplied for anything else.
type PDFRenderer struct {
	fontPath string
}

func NewPDFRenderer(fontPath string) *PDFRenderer {
	return &PDFRenderer{fontPath: fontPath}
}

// Render lays the rows out top to bottom with fixed line spacing and
// starts a new page whenever the cursor passes the bottom margin.
func (r *PDFRenderer) Render(items []ShoppingListItem) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")

	font := "Helvetica"
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	if r.fontPath != "" {
		font = "shoppinglist"
		pdf.AddUTF8Font(font, "", r.fontPath)
		translate = func(s string) string { return s }
	}
	pdf.SetAutoPageBreak(false, 0)

	pdf.AddPage()
	pdf.SetFont(font, "", pdfTitleSize)
	pdf.Text(pdfMarginLeft, pdfMarginTop, translate("Shopping list"))

	pdf.SetFont(font, "", pdfLineSize)
	y := pdfMarginTop + 2*pdfLineSpacing
	for _, item := range items {
		if y > pdfPageBottom {
			pdf.AddPage()
			pdf.SetFont(font, "", pdfLineSize)
			y = pdfMarginTop
		}
		line := fmt.Sprintf("• %s, %s   %d", item.Name, item.MeasurementUnit, item.Amount)
		pdf.Text(pdfMarginLeft, y, translate(line))
		y += pdfLineSpacing
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render shopping list: %w", err)
	}
	return buf.Bytes(), nil
}
