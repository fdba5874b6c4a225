package services

import (
	"crypto/rand"
	"errors"
	"math/big"
	"sync"
	"time"
)

// VerifyResult is the outcome of an OTP verification attempt.
type VerifyResult int

const (
	VerifyNotFound VerifyResult = iota
	VerifyExpired
	VerifyMismatch
	VerifySuccess
)

type otpEntry struct {
	code      string
	expiresAt time.Time
}

// OTPService is the process-lifetime ledger of pending one-time codes, keyed
// by mobile number. At most one live entry exists per mobile; issuing again
// replaces the previous entry. Entries are never persisted and are lost on
// restart. Expiry is checked lazily at verify time; SweepExpired exists so a
// scheduler can reclaim entries for mobiles that never retry.
type OTPService struct {
	mu      sync.Mutex
	entries map[string]otpEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewOTPService(ttl time.Duration) *OTPService {
	return NewOTPServiceWithClock(ttl, time.Now)
}

// NewOTPServiceWithClock is NewOTPService with an injected clock, so expiry
// can be tested without real time.
func NewOTPServiceWithClock(ttl time.Duration, now func() time.Time) *OTPService {
	return &OTPService{
		entries: make(map[string]otpEntry),
		ttl:     ttl,
		now:     now,
	}
}

// Issue generates a fresh 6-digit code for the mobile number, replacing any
// existing entry. The code is returned for out-of-band delivery (SMS or log).
func (s *OTPService) Issue(mobile string) (string, error) {
	if mobile == "" {
		return "", errors.New("mobile is required")
	}

	code, err := generateCode()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[mobile] = otpEntry{
		code:      code,
		expiresAt: s.now().Add(s.ttl),
	}
	return code, nil
}

// Verify checks the submitted code against the ledger. Expired and successful
// verifications remove the entry; a mismatch keeps it so the user can retry
// within the expiry window.
func (s *OTPService) Verify(mobile, submitted string) VerifyResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[mobile]
	if !ok {
		return VerifyNotFound
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, mobile)
		return VerifyExpired
	}
	if entry.code != submitted {
		return VerifyMismatch
	}
	delete(s.entries, mobile)
	return VerifySuccess
}

// SweepExpired removes every expired entry and returns how many were removed.
func (s *OTPService) SweepExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for mobile, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, mobile)
			removed++
		}
	}
	return removed
}

// generateCode returns a uniformly random 6-digit numeric string.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return big.NewInt(100000 + n.Int64()).String(), nil
}
