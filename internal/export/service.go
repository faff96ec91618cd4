package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/akozyrev/invoice-scanner/internal/invoice"
	"github.com/akozyrev/invoice-scanner/internal/repository"
)

// Service produces XLSX bytes from stored scans.
type Service struct {
	scans  repository.ScanRepo
	logger *slog.Logger
}

func NewService(scans repository.ScanRepo, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{scans: scans, logger: logger}
}

// ExportScansXLSX returns a workbook with one row per stored scan.
// limit <= 0 exports everything.
func (s *Service) ExportScansXLSX(ctx context.Context, limit int) ([]byte, error) {
	start := time.Now()

	scans, err := s.scans.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("query scans: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Scans"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Файл",
		"Тип документа",
		"Номер",
		"Дата",
		"Поставщик",
		"ИНН поставщика",
		"Покупатель",
		"ИНН покупателя",
		"Сумма",
		"НДС",
		"Ставка НДС",
		"Статус",
		"Проверить",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, sc := range scans {
		var rec invoice.Record
		if len(sc.RecordJSON) > 0 {
			if err := json.Unmarshal(sc.RecordJSON, &rec); err != nil {
				s.logger.Warn("export.record.unparsable", "scan_id", sc.ID, "err", err)
			}
		}

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, sc.Filename)
		write(2, orDash(rec.DocumentType))
		write(3, orDash(rec.DocumentNumber))
		write(4, orDash(rec.DocumentDate))
		write(5, orDash(rec.Supplier.Name))
		write(6, orDash(rec.Supplier.INN))
		write(7, orDash(rec.Buyer.Name))
		write(8, orDash(rec.Buyer.INN))
		write(9, orDash(rec.TotalAmount))
		write(10, orDash(rec.VATAmount))
		write(11, rec.VATRate)
		write(12, string(sc.Status))
		if sc.NeedsReview {
			write(13, "да")
		} else {
			write(13, "")
		}

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 32) // filename
	_ = f.SetColWidth(sheet, "B", "B", 22) // document type
	_ = f.SetColWidth(sheet, "C", "D", 14) // number, date
	_ = f.SetColWidth(sheet, "E", "E", 34) // supplier
	_ = f.SetColWidth(sheet, "G", "G", 34) // buyer
	_ = f.SetColWidth(sheet, "I", "K", 14) // amounts

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(scans),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func orDash(p *string) string {
	if p == nil || *p == "" {
		return "—"
	}
	return *p
}
