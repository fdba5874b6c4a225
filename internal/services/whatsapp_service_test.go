package services

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenz/backend/internal/config"
	"github.com/xenz/backend/internal/models"
)

func TestPaymentDoneLink(t *testing.T) {
	svc := NewWhatsAppService(&config.Config{WhatsAppNumber: "919640084068"})

	link := svc.PaymentDoneLink(&models.EnrollmentRecord{
		Mobile: "+919999999999",
		Amount: 28,
	})

	require.True(t, strings.HasPrefix(link, "https://wa.me/919640084068?text="))

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	text := parsed.Query().Get("text")
	assert.Contains(t, text, "Payment of ₹28 is done.")
	assert.Contains(t, text, "Please share the Google Meet link.")
	assert.Contains(t, text, "Mobile: +919999999999")
}
