package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/xenz/backend/internal/config"
	"github.com/xenz/backend/internal/handlers"
	"github.com/xenz/backend/internal/middleware"
	"github.com/xenz/backend/internal/services"
	"github.com/xenz/backend/internal/store"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.New()

	// Pick the record store backend
	recordStore := newRecordStore(cfg)

	// Redis backs the rate limiter; requests pass through when it is down
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	// Initialize services
	otpService := services.NewOTPService(cfg.OTPTTL)
	smsService := services.NewSMSService(cfg)
	couponService := services.NewCouponService(recordStore, cfg.CouponCode, cfg.CouponDiscount)
	enrollmentService := services.NewEnrollmentService(recordStore)
	whatsappService := services.NewWhatsAppService(cfg)
	receiptService := services.NewReceiptService(cfg, whatsappService)
	adminService := services.NewAdminService(cfg)
	paymentProvider := services.NewRazorpayProvider(cfg)

	// Reclaim OTP entries for mobiles that never retry
	sweeper := cron.New()
	if _, err := sweeper.AddFunc(cfg.OTPSweepSchedule, func() {
		if removed := otpService.SweepExpired(); removed > 0 {
			log.Printf("INFO: OTP sweep removed %d expired entries", removed)
		}
	}); err != nil {
		log.Fatalf("Invalid OTP sweep schedule %q: %v", cfg.OTPSweepSchedule, err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	// Setup Gin router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.RateLimiter(redisClient, cfg))

	// Initialize handlers
	enrollmentHandler := handlers.NewEnrollmentHandler(otpService, couponService, enrollmentService, smsService)
	paymentHandler := handlers.NewPaymentHandler(paymentProvider, enrollmentService, whatsappService)
	adminHandler := handlers.NewAdminHandler(adminService, enrollmentService, whatsappService, receiptService)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Setup routes
	api := router.Group("/api/v1")
	{
		// Enrollment flow
		api.POST("/send-otp", enrollmentHandler.SendOTP)
		api.POST("/verify-otp", enrollmentHandler.VerifyOTP)
		api.POST("/validate-coupon", enrollmentHandler.ValidateCoupon)
		api.POST("/save-enrollment", enrollmentHandler.SaveEnrollment)

		// Payment gateway
		api.POST("/create-order", paymentHandler.CreateOrder)
		api.POST("/verify-payment", paymentHandler.VerifyPayment)
		api.POST("/payment/webhook", paymentHandler.HandleWebhook)

		// Admin surface
		api.POST("/admin/login", adminHandler.Login)

		admin := api.Group("/admin")
		admin.Use(middleware.AdminAuth(adminService))
		{
			admin.GET("/enrollments", adminHandler.ListEnrollments)
			admin.GET("/enrollments/export.csv", adminHandler.ExportCSV)
			admin.POST("/enrollments/verify", adminHandler.VerifyEnrollment)
			admin.GET("/enrollments/:mobile/receipt.pdf", adminHandler.Receipt)
		}
	}

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// newRecordStore selects the store backend from configuration. The sheet
// backend needs working credentials; when it cannot start, the file store
// keeps the service usable.
func newRecordStore(cfg *config.Config) store.RecordStore {
	switch cfg.StoreBackend {
	case "memory":
		log.Println("Using in-memory record store")
		return store.NewMemoryStore()
	case "sheet":
		sheetStore, err := store.NewSheetStore(context.Background(), cfg)
		if err == nil {
			log.Println("Using Google Sheets record store")
			return sheetStore
		}
		log.Printf("WARN: Sheets store unavailable (%v), falling back to file store", err)
		fallthrough
	default:
		fileStore, err := store.NewFileStore(cfg.DataFile)
		if err != nil {
			log.Fatalf("Failed to open data file %s: %v", cfg.DataFile, err)
		}
		log.Printf("Using file record store at %s", cfg.DataFile)
		return fileStore
	}
}
