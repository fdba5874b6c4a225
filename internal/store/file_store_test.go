package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenz/backend/internal/models"
)

func newTestFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "students.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)
	return s, path
}

func sampleRecord(mobile string) *models.EnrollmentRecord {
	email := "asha@example.com"
	coupon := "M09B84"
	return &models.EnrollmentRecord{
		ID:     uuid.New(),
		Name:   "Asha",
		Mobile: mobile,
		Email:  &email,
		Amount: 28,
		Coupon: &coupon,
		Status: models.StatusPending,
		Date:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestFileStoreStartsEmpty(t *testing.T) {
	s, _ := newTestFileStore(t)

	records, err := s.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFileStoreAppendRoundTrip(t *testing.T) {
	s, _ := newTestFileStore(t)
	ctx := context.Background()

	want := sampleRecord("+919999999999")
	require.NoError(t, s.Append(ctx, want))

	records, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)

	got := records[0]
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, "Asha", got.Name)
	assert.Equal(t, "+919999999999", got.Mobile)
	require.NotNil(t, got.Email)
	assert.Equal(t, "asha@example.com", *got.Email)
	assert.Equal(t, float64(28), got.Amount)
	require.NotNil(t, got.Coupon)
	assert.Equal(t, "M09B84", *got.Coupon)
	assert.Nil(t, got.PaymentID)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.True(t, got.Date.Equal(want.Date))
	assert.Nil(t, got.VerifiedAt)
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	s, path := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, sampleRecord("+919999999999")))

	reopened, err := NewFileStore(path)
	require.NoError(t, err)

	records, err := reopened.All(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "+919999999999", records[0].Mobile)
}

func TestFileStoreFindByMobileFirstMatch(t *testing.T) {
	s, _ := newTestFileStore(t)
	ctx := context.Background()

	first := sampleRecord("+919999999999")
	second := sampleRecord("+919999999999")
	require.NoError(t, s.Append(ctx, first))
	require.NoError(t, s.Append(ctx, second))

	got, err := s.FindByMobile(ctx, "+919999999999")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}

func TestFileStoreFindByMobileNotFound(t *testing.T) {
	s, _ := newTestFileStore(t)

	_, err := s.FindByMobile(context.Background(), "+910000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreUpdateStatus(t *testing.T) {
	s, _ := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, sampleRecord("+919999999999")))

	updated, err := s.UpdateStatus(ctx, "+919999999999", models.StatusVerified)
	require.NoError(t, err)
	assert.Equal(t, models.StatusVerified, updated.Status)
	require.NotNil(t, updated.VerifiedAt)

	// The transition is persisted, not just returned
	records, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.StatusVerified, records[0].Status)
	assert.NotNil(t, records[0].VerifiedAt)
}

func TestFileStoreUpdateStatusFirstMatchOnly(t *testing.T) {
	s, _ := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, sampleRecord("+919999999999")))
	require.NoError(t, s.Append(ctx, sampleRecord("+919999999999")))

	_, err := s.UpdateStatus(ctx, "+919999999999", models.StatusVerified)
	require.NoError(t, err)

	records, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, models.StatusVerified, records[0].Status)
	assert.Equal(t, models.StatusPending, records[1].Status)
}

func TestFileStoreUpdateStatusNotFound(t *testing.T) {
	s, _ := newTestFileStore(t)

	_, err := s.UpdateStatus(context.Background(), "+910000000000", models.StatusVerified)
	assert.ErrorIs(t, err, ErrNotFound)
}
