package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/xenz/backend/internal/models"
)

// FileStore keeps the collection in a single JSON array file. Every call reads
// the whole file fresh; writes go to a temp file in the same directory and are
// renamed into place so a crash mid-write never truncates the collection. A
// mutex serializes read-modify-write cycles against concurrent requests.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore opens (or creates) the JSON file at path.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.write([]models.EnrollmentRecord{}); err != nil {
			return nil, fmt.Errorf("failed to initialize data file: %w", err)
		}
	} else if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) Append(ctx context.Context, record *models.EnrollmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return err
	}
	records = append(records, *record)
	return s.write(records)
}

func (s *FileStore) All(ctx context.Context) ([]models.EnrollmentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *FileStore) FindByMobile(ctx context.Context, mobile string) (*models.EnrollmentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].Mobile == mobile {
			return &records[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *FileStore) UpdateStatus(ctx context.Context, mobile, status string) (*models.EnrollmentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].Mobile == mobile {
			records[i].Status = status
			if status == models.StatusVerified {
				now := time.Now().UTC()
				records[i].VerifiedAt = &now
			}
			if err := s.write(records); err != nil {
				return nil, err
			}
			updated := records[i]
			return &updated, nil
		}
	}
	return nil, ErrNotFound
}

func (s *FileStore) read() ([]models.EnrollmentRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}
	var records []models.EnrollmentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse data file: %w", err)
	}
	return records, nil
}

// write replaces the file atomically (temp file + rename).
func (s *FileStore) write(records []models.EnrollmentRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
