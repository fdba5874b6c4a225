package store

import (
	"context"
	"errors"

	"github.com/xenz/backend/internal/models"
)

// ErrNotFound is returned when no enrollment record matches the lookup.
var ErrNotFound = errors.New("enrollment record not found")

// RecordStore is the durable collection of enrollment attempts. The backing
// medium is interchangeable (flat file, in-memory list, remote sheet); callers
// must not assume in-process caching semantics.
type RecordStore interface {
	// Append adds a new record to the collection.
	Append(ctx context.Context, record *models.EnrollmentRecord) error

	// All returns every record in insertion order.
	All(ctx context.Context) ([]models.EnrollmentRecord, error)

	// FindByMobile returns the first record for the given mobile number,
	// or ErrNotFound.
	FindByMobile(ctx context.Context, mobile string) (*models.EnrollmentRecord, error)

	// UpdateStatus transitions the first record for the given mobile number
	// to the new status and returns the updated record. Transitioning to
	// VERIFIED stamps VerifiedAt. Returns ErrNotFound when no record matches.
	UpdateStatus(ctx context.Context, mobile, status string) (*models.EnrollmentRecord, error)
}
