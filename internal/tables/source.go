// Package tables pulls table grids out of PDF files. Grids are the raw
// material for line-item extraction; the cell texts are passed on untouched
// so the downstream rules see exactly what the document contains.
package tables

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/tsawler/tabula"
	"github.com/tsawler/tabula/model"

	"github.com/akozyrev/invoice-scanner/constants"
	"github.com/akozyrev/invoice-scanner/internal/extract"
)

// Source reads tables from PDF documents. Image sources have no table
// structure to speak of, so Tables returns nothing for them and the caller
// falls back to text-only extraction.
type Source struct {
	logger *slog.Logger
}

func NewSource(logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{logger: logger}
}

var _ extract.TableSource = (*Source)(nil)

func (s *Source) Tables(ctx context.Context, path string) ([]extract.PageTables, error) {
	ext := constants.NormalizeExt(filepath.Ext(path))
	if constants.MapExtToFormat(ext) != constants.PDF {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, warnings, err := tabula.Open(path).Document()
	if err != nil {
		return nil, err
	}
	if len(warnings) > 0 {
		s.logger.Warn("table detection warnings",
			"path", path,
			"details", tabula.FormatWarnings(warnings),
		)
	}

	var out []extract.PageTables
	for _, page := range doc.Pages {
		tbls := page.ExtractTables()
		if len(tbls) == 0 {
			continue
		}
		pt := extract.PageTables{Page: page.Number}
		for _, t := range tbls {
			pt.Tables = append(pt.Tables, gridFrom(t.Rows))
		}
		out = append(out, pt)
	}

	s.logger.Debug("tables extracted", "path", path, "pages_with_tables", len(out))
	return out, nil
}

func gridFrom(rows [][]model.Cell) extract.Grid {
	grid := make(extract.Grid, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, 0, len(row))
		for _, c := range row {
			cells = append(cells, c.Text)
		}
		grid = append(grid, cells)
	}
	return grid
}
