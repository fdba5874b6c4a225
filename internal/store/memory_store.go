package store

import (
	"context"
	"sync"
	"time"

	"github.com/xenz/backend/internal/models"
)

// MemoryStore keeps the collection in a slice. Used for ephemeral deployments
// and tests, and as the degradation target of the sheet backend.
type MemoryStore struct {
	mu      sync.RWMutex
	records []models.EnrollmentRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(ctx context.Context, record *models.EnrollmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, *record)
	return nil
}

func (s *MemoryStore) All(ctx context.Context) ([]models.EnrollmentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.EnrollmentRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *MemoryStore) FindByMobile(ctx context.Context, mobile string) (*models.EnrollmentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.records {
		if s.records[i].Mobile == mobile {
			record := s.records[i]
			return &record, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UpdateStatus(ctx context.Context, mobile, status string) (*models.EnrollmentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].Mobile == mobile {
			s.records[i].Status = status
			if status == models.StatusVerified {
				now := time.Now().UTC()
				s.records[i].VerifiedAt = &now
			}
			record := s.records[i]
			return &record, nil
		}
	}
	return nil, ErrNotFound
}
