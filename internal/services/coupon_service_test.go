package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenz/backend/internal/store"
)

func newTestCouponService(t *testing.T) (*CouponService, *EnrollmentService) {
	t.Helper()
	memStore := store.NewMemoryStore()
	return NewCouponService(memStore, "M09B84", 28), NewEnrollmentService(memStore)
}

func TestValidateCouponApplied(t *testing.T) {
	coupons, _ := newTestCouponService(t)

	result, amount, err := coupons.Validate(context.Background(), "+919999999999", "M09B84", 499)
	require.NoError(t, err)
	assert.Equal(t, CouponApplied, result)
	assert.Equal(t, float64(28), amount)
}

func TestValidateCouponInvalidCode(t *testing.T) {
	coupons, _ := newTestCouponService(t)

	result, amount, err := coupons.Validate(context.Background(), "+919999999999", "WRONG1", 499)
	require.NoError(t, err)
	assert.Equal(t, CouponInvalid, result)
	assert.Equal(t, float64(499), amount)
}

func TestValidateCouponCodeIsCaseSensitive(t *testing.T) {
	coupons, _ := newTestCouponService(t)

	result, _, err := coupons.Validate(context.Background(), "+919999999999", "m09b84", 499)
	require.NoError(t, err)
	assert.Equal(t, CouponInvalid, result)
}

func TestValidateCouponAlreadyUsed(t *testing.T) {
	coupons, enrollments := newTestCouponService(t)

	_, err := enrollments.Save(context.Background(), SaveEnrollmentInput{
		Name:   "Asha",
		Mobile: "+919999999999",
		Amount: 28,
		Coupon: "M09B84",
	})
	require.NoError(t, err)

	result, amount, err := coupons.Validate(context.Background(), "+919999999999", "M09B84", 499)
	require.NoError(t, err)
	assert.Equal(t, CouponAlreadyUsed, result)
	assert.Equal(t, float64(499), amount)

	// A different mobile can still redeem the same code
	result, amount, err = coupons.Validate(context.Background(), "+918888888888", "M09B84", 499)
	require.NoError(t, err)
	assert.Equal(t, CouponApplied, result)
	assert.Equal(t, float64(28), amount)
}

func TestValidateCouponIgnoresRecordsWithoutCoupon(t *testing.T) {
	coupons, enrollments := newTestCouponService(t)

	// A prior full-price enrollment does not burn the coupon
	_, err := enrollments.Save(context.Background(), SaveEnrollmentInput{
		Name:   "Asha",
		Mobile: "+919999999999",
		Amount: 499,
	})
	require.NoError(t, err)

	result, amount, err := coupons.Validate(context.Background(), "+919999999999", "M09B84", 499)
	require.NoError(t, err)
	assert.Equal(t, CouponApplied, result)
	assert.Equal(t, float64(28), amount)
}
