package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/xenz/backend/internal/services"
	"github.com/xenz/backend/internal/store"
)

// PaymentHandler drives the gateway leg of the flow: order creation, checkout
// signature verification and the asynchronous webhook.
type PaymentHandler struct {
	provider          services.PaymentProvider
	enrollmentService *services.EnrollmentService
	whatsappService   *services.WhatsAppService
}

func NewPaymentHandler(
	provider services.PaymentProvider,
	enrollmentService *services.EnrollmentService,
	whatsappService *services.WhatsAppService,
) *PaymentHandler {
	return &PaymentHandler{
		provider:          provider,
		enrollmentService: enrollmentService,
		whatsappService:   whatsappService,
	}
}

// CreateOrder creates a gateway order and returns the handle plus the public
// key the checkout widget needs.
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var req struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
		Name     string  `json:"name"`
		Mobile   string  `json:"mobile"`
		Email    string  `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}
	if req.Amount <= 0 {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Amount required"})
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}

	notes := map[string]string{}
	if req.Mobile != "" {
		notes["mobile"] = req.Mobile
	}
	if req.Name != "" {
		notes["name"] = req.Name
	}
	if req.Email != "" {
		notes["email"] = req.Email
	}

	receipt := "enroll_" + strings.Split(uuid.New().String(), "-")[0]
	amount := int64(math.Round(req.Amount * 100))

	order, err := h.provider.CreateOrder(c.Request.Context(), amount, currency, receipt, notes)
	if err != nil {
		log.Printf("ERROR: Failed to create %s order: %v", h.provider.GetProviderName(), err)
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Failed to create payment order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"orderId":  order.ID,
		"amount":   order.Amount,
		"currency": order.Currency,
		"keyId":    h.provider.KeyID(),
	})
}

// VerifyPayment checks the checkout callback signature and, when it matches,
// marks the enrollment for the mobile number as VERIFIED. A signature
// mismatch is terminal for the request and never touches a record.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req struct {
		OrderID   string `json:"orderId"`
		PaymentID string `json:"paymentId"`
		Signature string `json:"signature"`
		Mobile    string `json:"mobile"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	if !h.provider.VerifyPaymentSignature(req.OrderID, req.PaymentID, req.Signature) {
		log.Printf("WARN: Payment signature mismatch for order %s", req.OrderID)
		c.JSON(http.StatusOK, gin.H{"success": false, "verified": false, "message": "Signature mismatch"})
		return
	}

	record, err := h.enrollmentService.MarkVerified(c.Request.Context(), req.Mobile)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"success": false, "verified": true, "message": "Enrollment not found"})
			return
		}
		log.Printf("ERROR: Failed to mark enrollment verified: %v", err)
		c.JSON(http.StatusOK, gin.H{"success": false, "verified": true, "message": "Failed to update enrollment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"verified":    true,
		"whatsappUrl": h.whatsappService.PaymentDoneLink(record),
	})
}

// razorpayWebhookEvent is the slice of the webhook payload this service needs.
type razorpayWebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string            `json:"id"`
				OrderID string            `json:"order_id"`
				Notes   map[string]string `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandleWebhook verifies the gateway webhook signature over the raw body and
// marks the enrollment VERIFIED on payment.captured events.
func (h *PaymentHandler) HandleWebhook(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Printf("ERROR: Failed to read webhook request body: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "message": "Error reading request body"})
		return
	}

	signature := c.GetHeader("X-Razorpay-Signature")
	if !h.provider.VerifyWebhookSignature(payload, signature) {
		log.Printf("ERROR: Webhook signature verification failed")
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "Invalid signature"})
		return
	}

	var event razorpayWebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		log.Printf("ERROR: Failed to parse webhook JSON: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "Error parsing webhook JSON"})
		return
	}

	log.Printf("INFO: Received %s webhook event: %s", h.provider.GetProviderName(), event.Event)

	switch event.Event {
	case "payment.captured":
		mobile := event.Payload.Payment.Entity.Notes["mobile"]
		if mobile == "" {
			log.Printf("WARN: payment.captured without mobile note, payment %s", event.Payload.Payment.Entity.ID)
			c.JSON(http.StatusOK, gin.H{"ok": true})
			return
		}
		if _, err := h.enrollmentService.MarkVerified(c.Request.Context(), mobile); err != nil {
			log.Printf("ERROR: Failed to confirm payment for %s: %v", mobile, err)
			c.JSON(http.StatusOK, gin.H{"ok": true})
			return
		}
		log.Printf("INFO: Payment confirmed via webhook for %s (payment %s)", mobile, event.Payload.Payment.Entity.ID)

	case "payment.failed":
		log.Printf("WARN: Payment failed for order %s", event.Payload.Payment.Entity.OrderID)

	default:
		log.Printf("INFO: Unhandled webhook event type: %s", event.Event)
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
