package models

import (
	"time"

	"github.com/google/uuid"
)

// Enrollment statuses
const (
	StatusPending  = "PENDING"
	StatusVerified = "VERIFIED"
)

// EnrollmentRecord is one enrollment attempt. A mobile number may own several
// records over time (retried or abandoned payments); records are never deleted.
// JSON field names match the legacy students.json schema.
type EnrollmentRecord struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Mobile     string     `json:"mobile"`
	Email      *string    `json:"email"`
	Amount     float64    `json:"amount"`
	Coupon     *string    `json:"coupon"`
	PaymentID  *string    `json:"paymentId"`
	Status     string     `json:"status"`
	Date       time.Time  `json:"date"`
	VerifiedAt *time.Time `json:"verifiedAt,omitempty"`
}

// HasCoupon reports whether this record was saved with the given coupon code.
func (r *EnrollmentRecord) HasCoupon(code string) bool {
	return r.Coupon != nil && *r.Coupon == code
}
