package services

import (
	"fmt"
	"net/url"

	"github.com/xenz/backend/internal/config"
	"github.com/xenz/backend/internal/models"
)

// WhatsAppService builds wa.me deep links with a pre-filled message. The link
// is handed to the client as a manual notification channel; nothing is sent
// from the server.
type WhatsAppService struct {
	cfg *config.Config
}

func NewWhatsAppService(cfg *config.Config) *WhatsAppService {
	return &WhatsAppService{cfg: cfg}
}

// PaymentDoneLink returns the deep link asking the team to share the meeting
// link for a paid enrollment.
func (s *WhatsAppService) PaymentDoneLink(record *models.EnrollmentRecord) string {
	message := fmt.Sprintf(
		"Hi XenZ Team,\n\nPayment of ₹%v is done.\nPlease share the Google Meet link.\n\nMobile: %s",
		record.Amount, record.Mobile,
	)
	return fmt.Sprintf("https://wa.me/%s?text=%s", s.cfg.WhatsAppNumber, url.QueryEscape(message))
}
