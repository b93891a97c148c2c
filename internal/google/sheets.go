package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"siruang/internal/models"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	sheetName = "Peminjaman"
	opTimeout = 30 * time.Second
)

var errRowNotFound = errors.New("reservation row not found")

// SheetsService mirrors reservations into a Google spreadsheet so the
// facilities office can keep working from Sheets. Column A holds the
// reservation ID and drives the row index cache.
type SheetsService struct {
	service       *sheets.Service
	spreadsheetID string
	rowCache      map[int64]int
	cacheMu       sync.RWMutex
}

func NewSheetsService(credentialsFile, spreadsheetID string) (*SheetsService, error) {
	ctx := context.Background()

	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %w", err)
	}

	s := &SheetsService{
		service:       srv,
		spreadsheetID: spreadsheetID,
		rowCache:      make(map[int64]int),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		_ = s.warmUpCache(ctx)
	}()

	return s, nil
}

// TestConnection reads a single cell to verify credentials and sharing.
func (s *SheetsService) TestConnection(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, sheetName+"!A1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}
	return nil
}

// UpsertReservation updates the reservation's row or appends a new one.
func (s *SheetsService) UpsertReservation(p *models.Peminjaman) error {
	if p == nil {
		return errors.New("peminjaman is nil")
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rowIdx, err := s.findRow(ctx, p.ID)
	if errors.Is(err, errRowNotFound) {
		return s.appendReservation(ctx, p)
	}
	if err != nil {
		return err
	}

	rangeData := fmt.Sprintf("%s!A%d:J%d", sheetName, rowIdx, rowIdx)
	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, rangeData, &sheets.ValueRange{
		Values: [][]interface{}{reservationRowValues(p)},
	}).ValueInputOption("RAW").Context(ctx).Do()
	return err
}

// UpdateReservationStatus rewrites the status column of the mirrored row.
func (s *SheetsService) UpdateReservationStatus(peminjamanID int64, status string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rowIdx, err := s.findRow(ctx, peminjamanID)
	if err != nil {
		return err
	}

	statusRange := fmt.Sprintf("%s!I%d:J%d", sheetName, rowIdx, rowIdx)
	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, statusRange, &sheets.ValueRange{
		Values: [][]interface{}{{status, time.Now().Format("2006-01-02 15:04:05")}},
	}).ValueInputOption("RAW").Context(ctx).Do()
	return err
}

func (s *SheetsService) appendReservation(ctx context.Context, p *models.Peminjaman) error {
	_, err := s.service.Spreadsheets.Values.Append(s.spreadsheetID, sheetName+"!A:A", &sheets.ValueRange{
		Values: [][]interface{}{reservationRowValues(p)},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	return err
}

// findRow locates the 1-based row index for a reservation ID in column A.
func (s *SheetsService) findRow(ctx context.Context, peminjamanID int64) (int, error) {
	if peminjamanID == 0 {
		return 0, errors.New("peminjaman id is required")
	}

	if row, ok := s.getCachedRow(peminjamanID); ok {
		return row, nil
	}

	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, sheetName+"!A:A").Context(ctx).Do()
	if err != nil {
		return 0, err
	}

	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		var id int64
		switch v := row[0].(type) {
		case float64:
			id = int64(v)
		case string:
			fmt.Sscanf(v, "%d", &id)
		}
		if id == peminjamanID {
			rowIdx := i + 1
			s.setCachedRow(peminjamanID, rowIdx)
			return rowIdx, nil
		}
	}

	return 0, errRowNotFound
}

func (s *SheetsService) warmUpCache(ctx context.Context) error {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, sheetName+"!A:A").Context(ctx).Do()
	if err != nil {
		return err
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.rowCache = make(map[int64]int)

	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		var id int64
		switch v := row[0].(type) {
		case float64:
			id = int64(v)
		case string:
			fmt.Sscanf(v, "%d", &id)
		}
		if id > 0 {
			s.rowCache[id] = i + 1
		}
	}
	return nil
}

func (s *SheetsService) getCachedRow(id int64) (int, bool) {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	row, ok := s.rowCache[id]
	return row, ok
}

func (s *SheetsService) setCachedRow(id int64, row int) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.rowCache[id] = row
}

func reservationRowValues(p *models.Peminjaman) []interface{} {
	return []interface{}{
		p.ID,
		p.Tanggal,
		p.WaktuMulai,
		p.WaktuSelesai,
		p.GedungNama,
		p.RuanganNama,
		p.UserUsername,
		p.Keperluan,
		p.Status,
		p.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
