package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/xenz/backend/internal/config"
	"github.com/xenz/backend/internal/models"
)

// ReceiptService renders enrollment receipts as PDFs for the admin panel.
type ReceiptService struct {
	cfg      *config.Config
	whatsapp *WhatsAppService
}

func NewReceiptService(cfg *config.Config, whatsapp *WhatsAppService) *ReceiptService {
	return &ReceiptService{cfg: cfg, whatsapp: whatsapp}
}

// GenerateReceiptPDF renders an A4 receipt for the record with a QR code of
// the WhatsApp confirmation link.
func (s *ReceiptService) GenerateReceiptPDF(record *models.EnrollmentRecord) ([]byte, error) {
	waURL := s.whatsapp.PaymentDoneLink(record)

	// Create QR PNG in memory
	var qrBuf bytes.Buffer
	png, err := qrcode.Encode(waURL, qrcode.Medium, 512)
	if err != nil {
		return nil, err
	}
	qrBuf.Write(png)

	email := "-"
	if record.Email != nil {
		email = *record.Email
	}
	coupon := "-"
	if record.Coupon != nil {
		coupon = *record.Coupon
	}
	paymentID := "-"
	if record.PaymentID != nil {
		paymentID = *record.PaymentID
	}

	// Create PDF
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, "XenZ Enrollment Receipt")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.MultiCell(0, 6, fmt.Sprintf(
		"Name: %s\nMobile: %s\nEmail: %s\nAmount: INR %v\nCoupon: %s\nPayment ID: %s\nStatus: %s\nDate: %s",
		record.Name, record.Mobile, email, record.Amount, coupon, paymentID,
		record.Status, record.Date.Format(time.RFC1123),
	), "", "L", false)

	if record.VerifiedAt != nil {
		pdf.MultiCell(0, 6, fmt.Sprintf("Verified: %s", record.VerifiedAt.Format(time.RFC1123)), "", "L", false)
	}

	// Register image from reader
	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	pdf.RegisterImageOptionsReader("qr", opt, bytes.NewReader(qrBuf.Bytes()))

	// Center QR on the page
	x := (210.0 - 100.0) / 2.0 // A4 width 210mm, QR size 100mm
	y := pdf.GetY() + 10
	pdf.ImageOptions("qr", x, y, 100, 100, false, opt, 0, "")

	pdf.SetY(y + 105)
	pdf.SetFont("Arial", "I", 10)
	pdf.Cell(0, 6, "Scan to request the Google Meet link via WhatsApp")

	// Output to buffer
	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
