package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port        string
	Env         string
	FrontendURL string

	// Record store
	StoreBackend string // "file" | "memory" | "sheet"
	DataFile     string

	// Google Sheets (sheet backend)
	SheetsSpreadsheetID   string
	SheetsCredentialsFile string
	SheetsName            string
	SheetsTimeout         time.Duration

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT
	JWTSecret              string
	JWTAccessTokenDuration time.Duration

	// Admin
	AdminPassword string

	// Razorpay
	RazorpayKeyID         string
	RazorpayKeySecret     string
	RazorpayWebhookSecret string
	RazorpayTimeout       time.Duration

	// Coupon
	CouponCode     string
	CouponDiscount float64

	// OTP
	OTPTTL           time.Duration
	OTPSweepSchedule string

	// WhatsApp confirmation deep link
	WhatsAppNumber string

	// Security
	BcryptCost        int
	RateLimitRequests int
	RateLimitDuration time.Duration

	// CORS
	AllowedOrigins []string

	// SMS delivery
	SMSDeliveryEnabled bool
	SMSProvider        string // "seven" | "clicksend"
	SMSFrom            string
	SevenAPIKey        string

	// Legacy ClickSend (optional for backwards compat)
	ClickSendUsername string
	ClickSendAPIKey   string
	ClickSendFrom     string
}

func New() *Config {
	return &Config{
		// Server
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		// Record store
		StoreBackend: getEnv("STORE_BACKEND", "file"),
		DataFile:     getEnv("DATA_FILE", "students.json"),

		// Google Sheets
		SheetsSpreadsheetID:   getEnv("SHEETS_SPREADSHEET_ID", ""),
		SheetsCredentialsFile: getEnv("SHEETS_CREDENTIALS_FILE", "credentials.json"),
		SheetsName:            getEnv("SHEETS_NAME", "Enrollments"),
		SheetsTimeout:         getEnvAsDuration("SHEETS_TIMEOUT", "10s"),

		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// JWT
		JWTSecret:              getEnv("JWT_SECRET", "your-secret-key"),
		JWTAccessTokenDuration: getEnvAsDuration("JWT_ACCESS_TOKEN_DURATION", "12h"),

		// Admin
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),

		// Razorpay
		RazorpayKeyID:         getEnv("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret:     getEnv("RAZORPAY_KEY_SECRET", ""),
		RazorpayWebhookSecret: getEnv("RAZORPAY_WEBHOOK_SECRET", ""),
		RazorpayTimeout:       getEnvAsDuration("RAZORPAY_TIMEOUT", "10s"),

		// Coupon
		CouponCode:     getEnv("COUPON_CODE", "M09B84"),
		CouponDiscount: getEnvAsFloat("COUPON_DISCOUNT_AMOUNT", 28),

		// OTP
		OTPTTL:           getEnvAsDuration("OTP_TTL", "5m"),
		OTPSweepSchedule: getEnv("OTP_SWEEP_SCHEDULE", "@every 10m"),

		// WhatsApp
		WhatsAppNumber: getEnv("WHATSAPP_NUMBER", "919640084068"),

		// Security
		BcryptCost:        getEnvAsInt("BCRYPT_COST", 12),
		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitDuration: getEnvAsDuration("RATE_LIMIT_DURATION", "1m"),

		// CORS
		AllowedOrigins: getEnvAsSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		// SMS delivery
		SMSDeliveryEnabled: getEnv("SMS_DELIVERY_ENABLED", "false") == "true",
		SMSProvider:        getEnv("SMS_PROVIDER", "seven"),
		SMSFrom:            getEnv("SMS_FROM", "XenZ"),
		SevenAPIKey:        getEnv("SEVEN_API_KEY", ""),

		// Legacy ClickSend
		ClickSendUsername: getEnv("CLICKSEND_USERNAME", ""),
		ClickSendAPIKey:   getEnv("CLICKSEND_API_KEY", ""),
		ClickSendFrom:     getEnv("CLICKSEND_FROM", "XenZ"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	if duration, err := time.ParseDuration(defaultValue); err == nil {
		return duration
	}
	return time.Hour
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
