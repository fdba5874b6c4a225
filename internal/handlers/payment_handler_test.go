package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenz/backend/internal/config"
	"github.com/xenz/backend/internal/models"
	"github.com/xenz/backend/internal/services"
	"github.com/xenz/backend/internal/store"
)

// fakeProvider stands in for the gateway: signatures match when they equal the
// configured value.
type fakeProvider struct {
	order         *services.Order
	orderErr      error
	paymentSig    string
	webhookSig    string
	createdAmount int64
	createdNotes  map[string]string
}

func (f *fakeProvider) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*services.Order, error) {
	f.createdAmount = amount
	f.createdNotes = notes
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	if f.order != nil {
		return f.order, nil
	}
	return &services.Order{ID: "order_test123", Amount: amount, Currency: currency}, nil
}

func (f *fakeProvider) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	return signature != "" && signature == f.paymentSig
}

func (f *fakeProvider) VerifyWebhookSignature(body []byte, signature string) bool {
	return signature != "" && signature == f.webhookSig
}

func (f *fakeProvider) KeyID() string { return "rzp_test_key" }

func (f *fakeProvider) GetProviderName() string { return "razorpay" }

func newPaymentRouter(t *testing.T) (*gin.Engine, *fakeProvider, *store.MemoryStore) {
	t.Helper()

	memStore := store.NewMemoryStore()
	provider := &fakeProvider{paymentSig: "good-signature", webhookSig: "good-webhook-signature"}
	enrollmentService := services.NewEnrollmentService(memStore)
	whatsappService := services.NewWhatsAppService(&config.Config{WhatsAppNumber: "919640084068"})

	h := NewPaymentHandler(provider, enrollmentService, whatsappService)

	router := gin.New()
	router.POST("/create-order", h.CreateOrder)
	router.POST("/verify-payment", h.VerifyPayment)
	router.POST("/payment/webhook", h.HandleWebhook)
	return router, provider, memStore
}

func seedPendingRecord(t *testing.T, memStore *store.MemoryStore, mobile string) {
	t.Helper()
	_, err := services.NewEnrollmentService(memStore).Save(context.Background(), services.SaveEnrollmentInput{
		Name:   "Asha",
		Mobile: mobile,
		Amount: 499,
	})
	require.NoError(t, err)
}

func TestCreateOrder(t *testing.T) {
	router, provider, _ := newPaymentRouter(t)

	w, resp := performJSON(t, router, http.MethodPost, "/create-order", gin.H{
		"amount": 499, "name": "Asha", "mobile": "+919999999999",
	}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "order_test123", resp["orderId"])
	assert.Equal(t, "rzp_test_key", resp["keyId"])
	assert.Equal(t, "INR", resp["currency"])

	// Amount converted to the smallest currency unit
	assert.Equal(t, int64(49900), provider.createdAmount)
	assert.Equal(t, "+919999999999", provider.createdNotes["mobile"])
	assert.Equal(t, "Asha", provider.createdNotes["name"])
}

func TestCreateOrderRequiresAmount(t *testing.T) {
	router, _, _ := newPaymentRouter(t)

	w, resp := performJSON(t, router, http.MethodPost, "/create-order", gin.H{"amount": 0}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Amount required", resp["message"])
}

func TestCreateOrderProviderFailure(t *testing.T) {
	router, provider, _ := newPaymentRouter(t)
	provider.orderErr = assert.AnError

	w, resp := performJSON(t, router, http.MethodPost, "/create-order", gin.H{"amount": 499}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Failed to create payment order", resp["message"])
}

func TestVerifyPaymentSignatureMismatch(t *testing.T) {
	router, _, memStore := newPaymentRouter(t)
	seedPendingRecord(t, memStore, "+919999999999")

	w, resp := performJSON(t, router, http.MethodPost, "/verify-payment", gin.H{
		"orderId": "order_test123", "paymentId": "pay_abc",
		"signature": "bad-signature", "mobile": "+919999999999",
	}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, false, resp["verified"])
	assert.Equal(t, "Signature mismatch", resp["message"])

	// The record was never touched
	record, err := memStore.FindByMobile(context.Background(), "+919999999999")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, record.Status)
	assert.Nil(t, record.VerifiedAt)
}

func TestVerifyPaymentSuccess(t *testing.T) {
	router, _, memStore := newPaymentRouter(t)
	seedPendingRecord(t, memStore, "+919999999999")

	w, resp := performJSON(t, router, http.MethodPost, "/verify-payment", gin.H{
		"orderId": "order_test123", "paymentId": "pay_abc",
		"signature": "good-signature", "mobile": "+919999999999",
	}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, true, resp["verified"])
	assert.Contains(t, resp["whatsappUrl"], "https://wa.me/919640084068")

	record, err := memStore.FindByMobile(context.Background(), "+919999999999")
	require.NoError(t, err)
	assert.Equal(t, models.StatusVerified, record.Status)
	assert.NotNil(t, record.VerifiedAt)
}

func TestVerifyPaymentUnknownMobile(t *testing.T) {
	router, _, _ := newPaymentRouter(t)

	w, resp := performJSON(t, router, http.MethodPost, "/verify-payment", gin.H{
		"orderId": "order_test123", "paymentId": "pay_abc",
		"signature": "good-signature", "mobile": "+910000000000",
	}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, true, resp["verified"])
	assert.Equal(t, "Enrollment not found", resp["message"])
}

func TestWebhookInvalidSignature(t *testing.T) {
	router, _, _ := newPaymentRouter(t)

	w, _ := performJSON(t, router, http.MethodPost, "/payment/webhook",
		gin.H{"event": "payment.captured"},
		map[string]string{"X-Razorpay-Signature": "bad-webhook-signature"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookPaymentCaptured(t *testing.T) {
	router, _, memStore := newPaymentRouter(t)
	seedPendingRecord(t, memStore, "+919999999999")

	event := gin.H{
		"event": "payment.captured",
		"payload": gin.H{
			"payment": gin.H{
				"entity": gin.H{
					"id":       "pay_abc",
					"order_id": "order_test123",
					"notes":    gin.H{"mobile": "+919999999999"},
				},
			},
		},
	}
	w, resp := performJSON(t, router, http.MethodPost, "/payment/webhook", event,
		map[string]string{"X-Razorpay-Signature": "good-webhook-signature"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["ok"])

	record, err := memStore.FindByMobile(context.Background(), "+919999999999")
	require.NoError(t, err)
	assert.Equal(t, models.StatusVerified, record.Status)
}

func TestWebhookPaymentFailed(t *testing.T) {
	router, _, memStore := newPaymentRouter(t)
	seedPendingRecord(t, memStore, "+919999999999")

	event := gin.H{
		"event": "payment.failed",
		"payload": gin.H{
			"payment": gin.H{"entity": gin.H{"id": "pay_abc", "order_id": "order_test123"}},
		},
	}
	w, resp := performJSON(t, router, http.MethodPost, "/payment/webhook", event,
		map[string]string{"X-Razorpay-Signature": "good-webhook-signature"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["ok"])

	record, err := memStore.FindByMobile(context.Background(), "+919999999999")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, record.Status)
}
