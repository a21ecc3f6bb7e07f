package infra

// pdf.go — stock report generation using go-pdf/fpdf.
// Renders the full stock board as an A4 table grouped by sección, one row
// per (montura, tipo de compra) with the period counters. Attached to
// low-stock alert emails and downloadable from the reports endpoint.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/JohnDGC/oh-my-glasses/internal/model"

	"github.com/go-pdf/fpdf"
)

// PDFGenerator writes inventory reports under storagePath.
type PDFGenerator struct {
	storagePath string
}

func NewPDFGenerator(storagePath string) *PDFGenerator {
	return &PDFGenerator{storagePath: storagePath}
}

// GenerarInformeStock renders the current stock board to a PDF file and
// returns its absolute path.
func (g *PDFGenerator) GenerarInformeStock(rows []model.InventarioStock) (string, error) {
	if err := os.MkdirAll(g.storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("stock_%s.pdf", time.Now().Format("20060102_150405"))
	filePath := filepath.Join(g.storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Oh My Glasses", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Informe de inventario", "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 5, time.Now().Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Column layout: montura, tipo, inicial, agregado, salidas, actual, mínimo
	col1 := contentW * 0.24
	col2 := contentW * 0.22
	colN := contentW * 0.108

	seccionActual := ""
	for i := range rows {
		row := &rows[i]

		if row.Seccion != seccionActual {
			seccionActual = row.Seccion
			pdf.Ln(2)
			pdf.SetFont("Helvetica", "B", 10)
			pdf.CellFormat(contentW, 6, seccionActual, "", 1, "L", false, 0, "")

			pdf.SetFont("Helvetica", "B", 8)
			pdf.CellFormat(col1, 5, "Montura", "B", 0, "L", false, 0, "")
			pdf.CellFormat(col2, 5, "Tipo", "B", 0, "L", false, 0, "")
			pdf.CellFormat(colN, 5, "Inicial", "B", 0, "R", false, 0, "")
			pdf.CellFormat(colN, 5, "Agregado", "B", 0, "R", false, 0, "")
			pdf.CellFormat(colN, 5, "Salidas", "B", 0, "R", false, 0, "")
			pdf.CellFormat(colN, 5, "Actual", "B", 0, "R", false, 0, "")
			pdf.CellFormat(colN, 5, "Mínimo", "B", 1, "R", false, 0, "")
		}

		style := ""
		if row.BajoMinimo() {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 8)
		pdf.CellFormat(col1, 5, row.TipoMontura, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, row.TipoCompra, "", 0, "L", false, 0, "")
		pdf.CellFormat(colN, 5, fmt.Sprintf("%d", row.StockInicial), "", 0, "R", false, 0, "")
		pdf.CellFormat(colN, 5, fmt.Sprintf("%d", row.StockAgregado), "", 0, "R", false, 0, "")
		pdf.CellFormat(colN, 5, fmt.Sprintf("%d", row.StockSalidas), "", 0, "R", false, 0, "")
		pdf.CellFormat(colN, 5, fmt.Sprintf("%d", row.StockActual), "", 0, "R", false, 0, "")
		pdf.CellFormat(colN, 5, fmt.Sprintf("%d", row.StockMinimo), "", 1, "R", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}
