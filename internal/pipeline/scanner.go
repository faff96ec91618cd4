// Package pipeline coordinates the scan stages: text extraction, table
// detection, and rule-based field extraction. Only the text stage can fail
// a scan; missing tables or unmatched fields degrade the result instead.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/akozyrev/invoice-scanner/internal/common"
	"github.com/akozyrev/invoice-scanner/internal/extract"
	"github.com/akozyrev/invoice-scanner/internal/invoice"
)

// ScanResult is the outcome of a single document scan.
type ScanResult struct {
	Record     *invoice.Record
	RecordJSON []byte

	Text       string
	Pages      int
	SourceType string
	Method     string
	Confidence float32
	Duration   time.Duration

	// NeedsReview is set when the extracted record failed shape
	// validation; Issues lists the violations.
	NeedsReview bool
	Issues      []string
	Warnings    []string
}

// Scanner runs the stages in order and assembles the result.
type Scanner struct {
	logger *slog.Logger
	text   extract.TextExtractor
	tables extract.TableSource
	fields extract.FieldExtractor
}

func NewScanner(logger *slog.Logger, text extract.TextExtractor, tables extract.TableSource, fields extract.FieldExtractor) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{logger: logger, text: text, tables: tables, fields: fields}
}

// Scan extracts a structured record from the document at path.
func (s *Scanner) Scan(ctx context.Context, path string) (*ScanResult, error) {
	start := time.Now()

	textRes, err := s.text.Extract(ctx, path)
	if err != nil {
		s.logger.Error("scan.text.failed", "path", path, "err", err)
		return nil, fmt.Errorf("%w: %v", common.ErrSourceUnreadable, err)
	}
	s.logger.Info("scan.text.ok",
		"path", path,
		"method", textRes.Method,
		"pages", textRes.Pages,
		"confidence", textRes.Confidence,
	)

	warnings := append([]string(nil), textRes.Warnings...)

	var grids []extract.PageTables
	if s.tables != nil {
		grids, err = s.tables.Tables(ctx, path)
		if err != nil {
			// Tables are an enrichment; the text path still yields
			// header fields and amounts.
			s.logger.Warn("scan.tables.failed", "path", path, "err", err)
			warnings = append(warnings, fmt.Sprintf("table detection: %v", err))
			grids = nil
		}
	}

	rec := s.fields.ExtractFields(textRes.Text, grids)

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, common.WrapError(err, "marshal record")
	}
	issues, err := validateRecordJSON(data)
	if err != nil {
		return nil, common.WrapError(err, "validate record")
	}
	if len(issues) > 0 {
		s.logger.Warn("scan.validation.flagged", "path", path, "issues", issues)
	}

	res := &ScanResult{
		Record:      rec,
		RecordJSON:  data,
		Text:        textRes.Text,
		Pages:       textRes.Pages,
		SourceType:  textRes.SourceType,
		Method:      textRes.Method,
		Confidence:  textRes.Confidence,
		Duration:    time.Since(start),
		NeedsReview: len(issues) > 0,
		Issues:      issues,
		Warnings:    warnings,
	}
	s.logger.Info("scan.ok",
		"path", path,
		"items", len(rec.Items),
		"needs_review", res.NeedsReview,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}
