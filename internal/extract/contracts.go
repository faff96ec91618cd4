package extract

import (
	"context"
	"time"

	"github.com/akozyrev/invoice-scanner/internal/invoice"
)

// TextExtractor is Stage 1: file -> plain text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text       string
	Pages      int
	SourceType string // constants.PDF | constants.IMAGE
	Method     string // "pdf-text" | "pdf-ocr" | "image-ocr"
	Language   string
	Duration   time.Duration
	Warnings   []string
	Confidence float32
}

// Grid is one table as a rectangular array of cell texts, header row first.
type Grid [][]string

// PageTables holds the tables found on a single page, in reading order.
type PageTables struct {
	Page   int // 1-based
	Tables []Grid
}

// TableSource is Stage 1b: file -> page-ordered table grids.
// Implementations return (nil, nil) for sources that carry no tables,
// e.g. raster images.
type TableSource interface {
	Tables(ctx context.Context, path string) ([]PageTables, error)
}

// FieldExtractor is Stage 2: text + grids -> structured record.
// Implementations never fail on unrecognized content; a field the rules
// cannot locate is simply absent from the record.
type FieldExtractor interface {
	ExtractFields(text string, tables []PageTables) *invoice.Record
}
