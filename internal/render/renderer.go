// Package render turns a render payload into PDF bytes.
package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"docmint/internal/documents/models"
)

// PDFRenderer lays out the payload bindings on an A4 page: a title from the
// template name, scalar bindings as label/value lines, table bindings as
// grids and the QR binding as a framed footer block with the encoded value
// printed beneath it.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render produces the PDF for a validated payload.
func (r *PDFRenderer) Render(ctx context.Context, payload models.RenderPayload) ([]byte, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 14, title(payload.Template.Name), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	var qr *models.FieldBinding
	for i := range payload.Bindings {
		binding := payload.Bindings[i]
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		switch binding.Kind {
		case models.BindingTable:
			r.renderTable(pdf, binding)
		case models.BindingQR:
			qr = &payload.Bindings[i] // rendered last, at the footer
		default:
			r.renderScalar(pdf, binding)
		}
	}

	if qr != nil {
		r.renderQRBlock(pdf, *qr)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("emit pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) renderScalar(pdf *fpdf.Fpdf, binding models.FieldBinding) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(50, 8, title(binding.Name)+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 8, binding.Value, "", "L", false)
	pdf.Ln(1)
}

func (r *PDFRenderer) renderTable(pdf *fpdf.Fpdf, binding models.FieldBinding) {
	if len(binding.Columns) == 0 {
		return
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, title(binding.Name), "", 1, "L", false, 0, "")

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colWidth := (pageWidth - left - right) / float64(len(binding.Columns))

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range binding.Columns {
		pdf.CellFormat(colWidth, 7, col, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range binding.Rows {
		for i := range binding.Columns {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pdf.CellFormat(colWidth, 7, cell, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

func (r *PDFRenderer) renderQRBlock(pdf *fpdf.Fpdf, binding models.FieldBinding) {
	pdf.Ln(8)
	pdf.SetDrawColor(60, 60, 60)
	x := pdf.GetX()
	y := pdf.GetY()
	pdf.Rect(x, y, 30, 30, "D")
	pdf.SetXY(x, y+32)
	pdf.SetFont("Helvetica", "", 8)
	pdf.MultiCell(80, 4, "Scan to verify: "+binding.Value, "", "L", false)
}

func title(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
