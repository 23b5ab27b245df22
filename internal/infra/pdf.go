package infra

// pdf.go — receipt PDF generation using go-pdf/fpdf.
// Generates A7-size thermal receipt-style tickets with:
//   - Store name header
//   - Receipt number and timestamp
//   - Item table (product name, quantity, line total)
//   - Discount and delivery lines (when applicable)
//   - Bold total and payment method
//
// The output file is saved to storagePath/receipt_{number}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"counterpos/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateReceiptPDF renders a completed Sale as a PDF receipt.
// storagePath is the directory where the PDF will be written (created if
// needed). Returns the absolute path to the generated file.
func GenerateReceiptPDF(sale *model.Sale, storeName, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("receipt_%d.pdf", sale.ReceiptNumber)
	filePath := filepath.Join(storagePath, fileName)

	// A7 ≈ 74mm × 105mm — close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, storeName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Sales Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Receipt info ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Receipt #%d", sale.ReceiptNumber), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, sale.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Items ────────────────────────────────────────────────────────────────
	col1 := contentW * 0.52 // product name
	col2 := contentW * 0.16 // qty
	col3 := contentW * 0.32 // line total

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 4, "Item", "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 4, "Qty", "", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 4, "Total", "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range sale.Items {
		name := item.Name
		if len(name) > 24 {
			name = name[:21] + "..."
		}
		pdf.CellFormat(col1, 4, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 4, fmt.Sprintf("%d", item.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 4, item.LineTotal.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.Ln(1)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	labelW := contentW * 0.6
	valueW := contentW * 0.4

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(labelW, 4, "Subtotal", "", 0, "L", false, 0, "")
	pdf.CellFormat(valueW, 4, sale.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")

	// Item discounts are already inside the line totals and the subtotal;
	// only the global discount appears as its own line so the printed
	// arithmetic adds up.
	globalDiscount := sale.Subtotal.Add(sale.DeliveryFee).Sub(sale.Total)
	if globalDiscount.IsPositive() {
		pdf.CellFormat(labelW, 4, "Discount", "", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, 4, "-"+globalDiscount.StringFixed(2), "", 1, "R", false, 0, "")
	}
	if sale.DeliveryFee.IsPositive() {
		pdf.CellFormat(labelW, 4, "Delivery", "", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, 4, sale.DeliveryFee.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(labelW, 6, "TOTAL", "", 0, "L", false, 0, "")
	pdf.CellFormat(valueW, 6, sale.Total.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, "Paid by "+sale.PaymentMethod, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "I", 6)
	pdf.CellFormat(contentW, 4, "Thank you for your purchase", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}
