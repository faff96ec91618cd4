package export

import (
	"bytes"
	"context"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/akozyrev/invoice-scanner/internal/common"
	"github.com/akozyrev/invoice-scanner/internal/repository"
)

func TestExportScansXLSX(t *testing.T) {
	db, err := repository.OpenDB(common.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	repo := repository.NewScanRepo(db)
	ctx := context.Background()

	scan := &repository.Scan{
		Filename:   "invoice.pdf",
		RecordJSON: []byte(`{"document_number":"45/А","supplier":{"name":"ООО Ромашка","inn":"7701234567"},"buyer":{},"total_amount":"12345.67","vat_rate":"20%","items":null}`),
	}
	if err := repo.Create(ctx, scan); err != nil {
		t.Fatalf("Create: %v", err)
	}

	data, err := NewService(repo, nil).ExportScansXLSX(ctx, 0)
	if err != nil {
		t.Fatalf("ExportScansXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Scans")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header + 1", len(rows))
	}
	if rows[0][0] != "Файл" {
		t.Errorf("header[0] = %q", rows[0][0])
	}
	got := rows[1]
	if got[0] != "invoice.pdf" {
		t.Errorf("filename cell = %q", got[0])
	}
	if got[2] != "45/А" {
		t.Errorf("number cell = %q", got[2])
	}
	if got[5] != "7701234567" {
		t.Errorf("supplier inn cell = %q", got[5])
	}
	if got[8] != "12345.67" {
		t.Errorf("total cell = %q", got[8])
	}
	// Absent fields render as the placeholder, not as empty cells.
	if got[1] != "—" {
		t.Errorf("document type cell = %q, want placeholder", got[1])
	}
}
