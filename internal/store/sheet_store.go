package store

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/xenz/backend/internal/config"
	"github.com/xenz/backend/internal/models"
)

// SheetStore persists records as rows of a Google Sheet (columns A:J, one row
// per record, no header). When the Sheets API fails, writes land in an
// in-memory fallback list instead of failing the request; those rows are only
// visible to this process and are lost on restart. Callers are not told that
// persistence degraded. Every API call carries a deadline so a hung call
// degrades like a failed one instead of blocking the request.
type SheetStore struct {
	mu            sync.Mutex
	srv           *sheets.Service
	spreadsheetID string
	sheetName     string
	timeout       time.Duration
	fallback      *MemoryStore
}

func NewSheetStore(ctx context.Context, cfg *config.Config) (*SheetStore, error) {
	if cfg.SheetsSpreadsheetID == "" {
		return nil, fmt.Errorf("sheets spreadsheet id missing")
	}
	srv, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.SheetsCredentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to init sheets client: %w", err)
	}
	return &SheetStore{
		srv:           srv,
		spreadsheetID: cfg.SheetsSpreadsheetID,
		sheetName:     cfg.SheetsName,
		timeout:       cfg.SheetsTimeout,
		fallback:      NewMemoryStore(),
	}, nil
}

func (s *SheetStore) Append(ctx context.Context, record *models.EnrollmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	vr := &sheets.ValueRange{Values: [][]interface{}{recordToRow(record)}}
	_, err := s.srv.Spreadsheets.Values.
		Append(s.spreadsheetID, s.dataRange(), vr).
		ValueInputOption("RAW").
		Context(callCtx).Do()
	if err != nil {
		log.Printf("WARN: Sheets append failed, keeping record in memory: %v", err)
		return s.fallback.Append(ctx, record)
	}
	return nil
}

func (s *SheetStore) All(ctx context.Context) ([]models.EnrollmentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, _, err := s.readAll(ctx)
	if err != nil {
		log.Printf("WARN: Sheets read failed, serving in-memory records: %v", err)
		return s.fallback.All(ctx)
	}
	local, _ := s.fallback.All(ctx)
	return append(records, local...), nil
}

func (s *SheetStore) FindByMobile(ctx context.Context, mobile string) (*models.EnrollmentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, _, err := s.readAll(ctx)
	if err != nil {
		log.Printf("WARN: Sheets read failed, searching in-memory records: %v", err)
		return s.fallback.FindByMobile(ctx, mobile)
	}
	for i := range records {
		if records[i].Mobile == mobile {
			return &records[i], nil
		}
	}
	return s.fallback.FindByMobile(ctx, mobile)
}

func (s *SheetStore) UpdateStatus(ctx context.Context, mobile, status string) (*models.EnrollmentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, rows, err := s.readAll(ctx)
	if err != nil {
		log.Printf("WARN: Sheets read failed, updating in-memory records: %v", err)
		return s.fallback.UpdateStatus(ctx, mobile, status)
	}
	for i := range records {
		if records[i].Mobile != mobile {
			continue
		}
		records[i].Status = status
		if status == models.StatusVerified {
			now := time.Now().UTC()
			records[i].VerifiedAt = &now
		}
		callCtx, cancel := s.callContext(ctx)
		defer cancel()

		rowRange := fmt.Sprintf("%s!A%d:J%d", s.sheetName, rows[i], rows[i])
		vr := &sheets.ValueRange{Values: [][]interface{}{recordToRow(&records[i])}}
		_, err := s.srv.Spreadsheets.Values.
			Update(s.spreadsheetID, rowRange, vr).
			ValueInputOption("RAW").
			Context(callCtx).Do()
		if err != nil {
			return nil, fmt.Errorf("failed to update sheet row: %w", err)
		}
		updated := records[i]
		return &updated, nil
	}
	return s.fallback.UpdateStatus(ctx, mobile, status)
}

// callContext bounds a single Sheets API call.
func (s *SheetStore) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// readAll returns the parsed records plus the 1-based sheet row of each.
func (s *SheetStore) readAll(ctx context.Context) ([]models.EnrollmentRecord, []int, error) {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	resp, err := s.srv.Spreadsheets.Values.
		Get(s.spreadsheetID, s.dataRange()).
		Context(callCtx).Do()
	if err != nil {
		return nil, nil, err
	}
	var records []models.EnrollmentRecord
	var rows []int
	for i, row := range resp.Values {
		record, ok := rowToRecord(row)
		if !ok {
			continue
		}
		records = append(records, record)
		rows = append(rows, i+1)
	}
	return records, rows, nil
}

func (s *SheetStore) dataRange() string {
	return fmt.Sprintf("%s!A:J", s.sheetName)
}

func recordToRow(r *models.EnrollmentRecord) []interface{} {
	return []interface{}{
		r.ID.String(),
		r.Name,
		r.Mobile,
		deref(r.Email),
		strconv.FormatFloat(r.Amount, 'f', -1, 64),
		deref(r.Coupon),
		deref(r.PaymentID),
		r.Status,
		r.Date.UTC().Format(time.RFC3339),
		formatTimePtr(r.VerifiedAt),
	}
}

func rowToRecord(row []interface{}) (models.EnrollmentRecord, bool) {
	cells := make([]string, 10)
	for i := 0; i < len(row) && i < 10; i++ {
		if s, ok := row[i].(string); ok {
			cells[i] = s
		}
	}
	if cells[2] == "" {
		return models.EnrollmentRecord{}, false
	}

	var record models.EnrollmentRecord
	record.ID, _ = uuid.Parse(cells[0])
	record.Name = cells[1]
	record.Mobile = cells[2]
	record.Email = ref(cells[3])
	record.Amount, _ = strconv.ParseFloat(cells[4], 64)
	record.Coupon = ref(cells[5])
	record.PaymentID = ref(cells[6])
	record.Status = cells[7]
	record.Date, _ = time.Parse(time.RFC3339, cells[8])
	if t, err := time.Parse(time.RFC3339, cells[9]); err == nil {
		record.VerifiedAt = &t
	}
	return record, true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ref(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
