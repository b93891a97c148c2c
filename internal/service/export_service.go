package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"siruang/internal/domain"

	"github.com/xuri/excelize/v2"
)

// ExportService writes reservations for a date range into an XLSX workbook
// for the administration office.
type ExportService struct {
	store domain.Store
	path  string
}

func NewExportService(store domain.Store, exportPath string) *ExportService {
	return &ExportService{store: store, path: exportPath}
}

var exportHeaders = []string{
	"ID", "Tanggal", "Waktu Mulai", "Waktu Selesai", "Gedung", "Ruangan",
	"Peminjam", "Keperluan", "Jumlah Peserta", "Status", "Catatan",
}

// Export builds the workbook and returns the file path.
func (s *ExportService) Export(ctx context.Context, start, end string) (string, error) {
	if err := os.MkdirAll(s.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	list, err := s.store.ListPeminjamanByDateRange(ctx, start, end)
	if err != nil {
		return "", fmt.Errorf("error getting reservations: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Peminjaman"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Periode: %s - %s", start, end))

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	for rowIdx, p := range list {
		values := []any{
			p.ID, p.Tanggal, p.WaktuMulai, p.WaktuSelesai, p.GedungNama, p.RuanganNama,
			p.UserUsername, p.Keperluan, p.JumlahPeserta, p.Status, p.Catatan,
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+3)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "B", "D", 14)
	_ = f.SetColWidth(sheetName, "E", "H", 24)

	fileName := fmt.Sprintf("peminjaman_%s_%s_%s.xlsx", start, end, time.Now().Format("20060102_150405"))
	outPath := filepath.Join(s.path, fileName)
	if err := f.SaveAs(outPath); err != nil {
		return "", fmt.Errorf("error saving export: %w", err)
	}

	return outPath, nil
}
