package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xenz/backend/internal/services"
	"github.com/xenz/backend/internal/store"
)

// AdminHandler serves the admin surface: listing, export, manual payment
// verification and receipts.
type AdminHandler struct {
	adminService      *services.AdminService
	enrollmentService *services.EnrollmentService
	whatsappService   *services.WhatsAppService
	receiptService    *services.ReceiptService
}

func NewAdminHandler(
	adminService *services.AdminService,
	enrollmentService *services.EnrollmentService,
	whatsappService *services.WhatsAppService,
	receiptService *services.ReceiptService,
) *AdminHandler {
	return &AdminHandler{
		adminService:      adminService,
		enrollmentService: enrollmentService,
		whatsappService:   whatsappService,
		receiptService:    receiptService,
	}
}

// Login exchanges the admin password for an access token.
func (h *AdminHandler) Login(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	token, err := h.adminService.Login(req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "access_token": token})
}

// ListEnrollments returns every enrollment record.
func (h *AdminHandler) ListEnrollments(c *gin.Context) {
	records, err := h.enrollmentService.List(c.Request.Context())
	if err != nil {
		log.Printf("ERROR: Failed to list enrollments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to list enrollments"})
		return
	}
	c.JSON(http.StatusOK, records)
}

// ExportCSV streams the collection as a CSV attachment.
func (h *AdminHandler) ExportCSV(c *gin.Context) {
	filename := fmt.Sprintf("enrollments_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.enrollmentService.WriteCSV(c.Request.Context(), c.Writer); err != nil {
		log.Printf("ERROR: Failed to export enrollments CSV: %v", err)
	}
}

// VerifyEnrollment is the manual flow: mark the first record for the mobile
// number VERIFIED and hand back the WhatsApp confirmation link.
func (h *AdminHandler) VerifyEnrollment(c *gin.Context) {
	var req struct {
		Mobile string `json:"mobile"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}
	if req.Mobile == "" {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Mobile required"})
		return
	}

	record, err := h.enrollmentService.MarkVerified(c.Request.Context(), req.Mobile)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Student not found"})
			return
		}
		log.Printf("ERROR: Failed to verify enrollment for %s: %v", req.Mobile, err)
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Failed to verify enrollment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"whatsappUrl": h.whatsappService.PaymentDoneLink(record),
	})
}

// Receipt renders the PDF receipt for the first record of a mobile number.
func (h *AdminHandler) Receipt(c *gin.Context) {
	mobile := c.Param("mobile")

	record, err := h.enrollmentService.FindByMobile(c.Request.Context(), mobile)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Student not found"})
			return
		}
		log.Printf("ERROR: Failed to load enrollment for receipt: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load enrollment"})
		return
	}

	pdf, err := h.receiptService.GenerateReceiptPDF(record)
	if err != nil {
		log.Printf("ERROR: Failed to generate receipt PDF: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to generate receipt"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "receipt_"+mobile+".pdf"))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
