package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xenz/backend/internal/services"
	"github.com/xenz/backend/pkg/validation"
)

// EnrollmentHandler serves the user-facing enrollment flow: send-otp,
// verify-otp, validate-coupon and save-enrollment. Domain failures keep
// HTTP 200 with success:false, matching what the legacy frontend expects;
// only malformed JSON gets a 4xx.
type EnrollmentHandler struct {
	otpService        *services.OTPService
	couponService     *services.CouponService
	enrollmentService *services.EnrollmentService
	otpSender         services.OTPSender
}

func NewEnrollmentHandler(
	otpService *services.OTPService,
	couponService *services.CouponService,
	enrollmentService *services.EnrollmentService,
	otpSender services.OTPSender,
) *EnrollmentHandler {
	return &EnrollmentHandler{
		otpService:        otpService,
		couponService:     couponService,
		enrollmentService: enrollmentService,
		otpSender:         otpSender,
	}
}

// SendOTP issues a fresh code for the mobile number and hands it to the
// out-of-band sender.
func (h *EnrollmentHandler) SendOTP(c *gin.Context) {
	var req struct {
		Mobile string `json:"mobile"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	code, err := h.otpService.Issue(req.Mobile)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Mobile required"})
		return
	}

	if err := h.otpSender.SendOTP(req.Mobile, code); err != nil {
		log.Printf("ERROR: Failed to deliver OTP to %s: %v", req.Mobile, err)
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Failed to send OTP"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP sent successfully"})
}

// VerifyOTP checks the submitted code against the ledger.
func (h *EnrollmentHandler) VerifyOTP(c *gin.Context) {
	var req struct {
		Mobile string `json:"mobile"`
		OTP    string `json:"otp"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	switch h.otpService.Verify(req.Mobile, req.OTP) {
	case services.VerifyNotFound:
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "OTP not found"})
	case services.VerifyExpired:
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "OTP expired"})
	case services.VerifyMismatch:
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Invalid OTP"})
	case services.VerifySuccess:
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// ValidateCoupon applies the one-time-per-mobile coupon check. The returned
// amount is what the client should charge.
func (h *EnrollmentHandler) ValidateCoupon(c *gin.Context) {
	var req struct {
		Mobile     string  `json:"mobile"`
		Coupon     string  `json:"coupon"`
		PlanAmount float64 `json:"planAmount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	result, amount, err := h.couponService.Validate(c.Request.Context(), req.Mobile, req.Coupon, req.PlanAmount)
	if err != nil {
		log.Printf("ERROR: Coupon validation failed: %v", err)
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Could not validate coupon", "amount": req.PlanAmount})
		return
	}

	switch result {
	case services.CouponInvalid:
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Invalid coupon", "amount": amount})
	case services.CouponAlreadyUsed:
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Coupon already used for this mobile", "amount": amount})
	case services.CouponApplied:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Coupon applied", "amount": amount})
	}
}

// SaveEnrollment persists a new enrollment attempt (status defaults to
// PENDING). Earlier flow steps are not enforced here.
func (h *EnrollmentHandler) SaveEnrollment(c *gin.Context) {
	var req struct {
		Name      string  `json:"name"`
		Mobile    string  `json:"mobile"`
		Email     string  `json:"email"`
		Amount    float64 `json:"amount"`
		Coupon    string  `json:"coupon"`
		Status    string  `json:"status"`
		PaymentID string  `json:"paymentId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	if req.Name == "" || req.Mobile == "" || !validation.ValidateAmount(req.Amount) {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Missing fields"})
		return
	}

	_, err := h.enrollmentService.Save(c.Request.Context(), services.SaveEnrollmentInput{
		Name:      validation.SanitizeString(req.Name),
		Mobile:    req.Mobile,
		Email:     validation.SanitizeString(req.Email),
		Amount:    req.Amount,
		Coupon:    req.Coupon,
		Status:    req.Status,
		PaymentID: req.PaymentID,
	})
	if err != nil {
		if errors.Is(err, services.ErrMissingFields) {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Missing fields"})
			return
		}
		log.Printf("ERROR: Failed to save enrollment: %v", err)
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Failed to save enrollment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
