package services

import "context"

// Order is a payment-gateway order handle.
type Order struct {
	ID       string
	Amount   int64 // smallest currency unit
	Currency string
}

// PaymentProvider defines the interface to the payment gateway so handlers and
// tests never depend on the SDK directly.
type PaymentProvider interface {
	// CreateOrder creates a gateway order for the amount in the smallest
	// currency unit. Notes travel to the gateway and come back in webhooks.
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*Order, error)

	// VerifyPaymentSignature checks the checkout callback signature
	// (HMAC-SHA256 of "orderID|paymentID" under the key secret).
	VerifyPaymentSignature(orderID, paymentID, signature string) bool

	// VerifyWebhookSignature checks the webhook signature over the raw body.
	VerifyWebhookSignature(body []byte, signature string) bool

	// KeyID returns the public key the frontend needs for checkout.
	KeyID() string

	// GetProviderName returns the name of the provider ("razorpay")
	GetProviderName() string
}
