package services

import (
	"context"

	"github.com/xenz/backend/internal/store"
)

// CouponResult is the outcome of a coupon validation.
type CouponResult int

const (
	CouponInvalid CouponResult = iota
	CouponAlreadyUsed
	CouponApplied
)

// CouponService enforces the single-use-per-mobile redemption rule for the one
// recognized coupon code. The check is advisory: nothing is reserved here, and
// the code only counts as used once a record carrying it is persisted.
type CouponService struct {
	store    store.RecordStore
	code     string
	discount float64
}

func NewCouponService(recordStore store.RecordStore, code string, discount float64) *CouponService {
	return &CouponService{
		store:    recordStore,
		code:     code,
		discount: discount,
	}
}

// Validate returns the result plus the amount the caller should charge: the
// flat discounted amount when applied, otherwise the plan amount unchanged.
func (s *CouponService) Validate(ctx context.Context, mobile, coupon string, planAmount float64) (CouponResult, float64, error) {
	records, err := s.store.All(ctx)
	if err != nil {
		return CouponInvalid, planAmount, err
	}

	alreadyUsed := false
	for i := range records {
		if records[i].Mobile == mobile && records[i].HasCoupon(s.code) {
			alreadyUsed = true
			break
		}
	}

	if coupon != s.code {
		return CouponInvalid, planAmount, nil
	}
	if alreadyUsed {
		return CouponAlreadyUsed, planAmount, nil
	}
	return CouponApplied, s.discount, nil
}
