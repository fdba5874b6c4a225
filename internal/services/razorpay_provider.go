package services

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"

	"github.com/xenz/backend/internal/config"
)

// RazorpayProvider implements PaymentProvider for Razorpay
type RazorpayProvider struct {
	client        *razorpay.Client
	keyID         string
	keySecret     string
	webhookSecret string
}

// NewRazorpayProvider creates a new Razorpay payment provider
func NewRazorpayProvider(cfg *config.Config) *RazorpayProvider {
	client := razorpay.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	client.SetTimeout(int16(cfg.RazorpayTimeout.Seconds()))
	return &RazorpayProvider{
		client:        client,
		keyID:         cfg.RazorpayKeyID,
		keySecret:     cfg.RazorpayKeySecret,
		webhookSecret: cfg.RazorpayWebhookSecret,
	}
}

// GetProviderName returns "razorpay"
func (p *RazorpayProvider) GetProviderName() string {
	return "razorpay"
}

// KeyID returns the public key ID for checkout
func (p *RazorpayProvider) KeyID() string {
	return p.keyID
}

// CreateOrder creates a Razorpay order
func (p *RazorpayProvider) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*Order, error) {
	data := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		noteData := make(map[string]interface{}, len(notes))
		for k, v := range notes {
			noteData[k] = v
		}
		data["notes"] = noteData
	}

	body, err := p.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Razorpay order: %w", err)
	}

	id, ok := body["id"].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("razorpay order response missing id")
	}

	order := &Order{ID: id, Amount: amount, Currency: currency}
	if amt, ok := body["amount"].(float64); ok {
		order.Amount = int64(amt)
	}
	if cur, ok := body["currency"].(string); ok {
		order.Currency = cur
	}
	return order, nil
}

// VerifyPaymentSignature checks the checkout callback signature
func (p *RazorpayProvider) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	params := map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}
	return utils.VerifyPaymentSignature(params, signature, p.keySecret)
}

// VerifyWebhookSignature checks the webhook signature over the raw body
func (p *RazorpayProvider) VerifyWebhookSignature(body []byte, signature string) bool {
	return utils.VerifyWebhookSignature(string(body), signature, p.webhookSecret)
}
