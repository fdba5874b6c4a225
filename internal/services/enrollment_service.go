package services

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/xenz/backend/internal/models"
	"github.com/xenz/backend/internal/store"
)

// SaveEnrollmentInput carries the fields of the save operation. Email, coupon
// and payment ID are optional; status defaults to PENDING.
type SaveEnrollmentInput struct {
	Name      string
	Mobile    string
	Email     string
	Amount    float64
	Coupon    string
	Status    string
	PaymentID string
}

var ErrMissingFields = errors.New("name, mobile and amount are required")

// EnrollmentService owns all reads and writes of the enrollment collection.
// Handlers never touch the store directly.
type EnrollmentService struct {
	store store.RecordStore
}

func NewEnrollmentService(recordStore store.RecordStore) *EnrollmentService {
	return &EnrollmentService{store: recordStore}
}

// Save persists a new enrollment attempt.
func (s *EnrollmentService) Save(ctx context.Context, input SaveEnrollmentInput) (*models.EnrollmentRecord, error) {
	if input.Name == "" || input.Mobile == "" || input.Amount == 0 {
		return nil, ErrMissingFields
	}

	status := input.Status
	if status == "" {
		status = models.StatusPending
	}

	record := &models.EnrollmentRecord{
		ID:        uuid.New(),
		Name:      input.Name,
		Mobile:    input.Mobile,
		Email:     optional(input.Email),
		Amount:    input.Amount,
		Coupon:    optional(input.Coupon),
		PaymentID: optional(input.PaymentID),
		Status:    status,
		Date:      time.Now().UTC(),
	}

	if err := s.store.Append(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// List returns every enrollment record.
func (s *EnrollmentService) List(ctx context.Context) ([]models.EnrollmentRecord, error) {
	return s.store.All(ctx)
}

// MarkVerified transitions the first record for the mobile number to VERIFIED.
func (s *EnrollmentService) MarkVerified(ctx context.Context, mobile string) (*models.EnrollmentRecord, error) {
	return s.store.UpdateStatus(ctx, mobile, models.StatusVerified)
}

// FindByMobile returns the first record for the mobile number.
func (s *EnrollmentService) FindByMobile(ctx context.Context, mobile string) (*models.EnrollmentRecord, error) {
	return s.store.FindByMobile(ctx, mobile)
}

// WriteCSV streams the whole collection as CSV rows.
func (s *EnrollmentService) WriteCSV(ctx context.Context, w io.Writer) error {
	records, err := s.store.All(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ID", "Name", "Mobile", "Email", "Amount", "Coupon", "PaymentID", "Status", "Date", "VerifiedAt"}); err != nil {
		return err
	}
	for i := range records {
		r := &records[i]
		row := []string{
			r.ID.String(),
			r.Name,
			r.Mobile,
			stringOrEmpty(r.Email),
			strconv.FormatFloat(r.Amount, 'f', -1, 64),
			stringOrEmpty(r.Coupon),
			stringOrEmpty(r.PaymentID),
			r.Status,
			r.Date.UTC().Format(time.RFC3339),
		}
		if r.VerifiedAt != nil {
			row = append(row, r.VerifiedAt.UTC().Format(time.RFC3339))
		} else {
			row = append(row, "")
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
