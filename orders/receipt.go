package orders

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"shoestore/cart"
	"shoestore/models"
)

const receiptFont = "receipt"

// ReceiptRenderer draws an order as a one-page A4 PDF with a QR code that
// links back to the order page.
type ReceiptRenderer struct {
	PublicURL string
	// FontPath is a TTF with Arabic glyphs. Without it the core Arial font
	// is used and non-Latin text degrades to placeholders.
	FontPath string
}

func NewReceiptRenderer(publicURL, fontPath string) *ReceiptRenderer {
	return &ReceiptRenderer{PublicURL: strings.TrimRight(publicURL, "/"), FontPath: fontPath}
}

// OrderURL is the storefront page the receipt QR code points at.
func (rr *ReceiptRenderer) OrderURL(id string) string {
	return rr.PublicURL + "/orders/" + id
}

func (rr *ReceiptRenderer) Render(o *models.Order) ([]byte, error) {
	qrPNG, err := qrcode.Encode(rr.OrderURL(o.ID), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode receipt qr: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	family, tr := "Arial", pdf.UnicodeTranslatorFromDescriptor("")
	if rr.FontPath != "" {
		pdf.AddUTF8Font(receiptFont, "", rr.FontPath)
		pdf.AddUTF8Font(receiptFont, "B", rr.FontPath)
		family, tr = receiptFont, func(s string) string { return s }
	}
	pdf.AddPage()

	pdf.SetFont(family, "B", 16)
	pdf.Cell(0, 10, tr("Order Receipt / إيصال الطلب"))
	pdf.Ln(12)

	pdf.SetFont(family, "", 11)
	header := []string{
		"Order: " + o.ID,
		"Date: " + o.CreatedAt.Format("2006-01-02 15:04"),
		"Status: " + Label(o.Status),
		"Customer: " + o.CustomerInfo.Name,
		"Phone: " + phones(o.CustomerInfo),
		"Address: " + strings.Join(nonEmpty(o.CustomerInfo.City, o.CustomerInfo.Address, o.CustomerInfo.Street), ", "),
	}
	for _, line := range header {
		pdf.Cell(0, 7, tr(line))
		pdf.Ln(7)
	}

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 160, 20, 35, 35, false, imageOpts, 0, "")

	pdf.Ln(6)
	pdf.SetFont(family, "B", 11)
	widths := []float64{80, 20, 25, 20, 35}
	for i, h := range []string{"Item", "Size", "Color", "Qty", "Subtotal"} {
		pdf.CellFormat(widths[i], 8, tr(h), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(family, "", 10)
	for _, it := range o.Items {
		cells := []string{
			it.Name,
			fmt.Sprint(it.Size),
			it.Color,
			fmt.Sprint(it.Quantity),
			money(cart.Subtotal(it)),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 7, tr(c), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont(family, "B", 12)
	pdf.CellFormat(145, 9, tr("Total"), "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 9, money(o.Total), "1", 0, "C", false, 0, "")
	pdf.Ln(-1)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func phones(info models.CustomerInfo) string {
	return strings.Join(nonEmpty(info.Phone1, info.Phone2), " / ")
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
