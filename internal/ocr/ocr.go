// Package ocr turns source documents into plain text using external
// binaries: pdftotext for PDFs with a text layer, pdftoppm + tesseract for
// scanned ones, tesseract alone for raster images. The extraction pipeline
// treats this package as an injected collaborator; its failures are the
// only genuine errors the pipeline can hit.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/akozyrev/invoice-scanner/constants"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "rus"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
	MaxPages      int    // 0 = no limit

	TessdataDir string

	// MinTextLayerChars is the threshold below which a pdftotext result is
	// considered a scan without a text layer and OCR kicks in.
	MinTextLayerChars int
}

type ExtractionResult struct {
	Text       string
	Pages      int
	SourceType string // constants.PDF | constants.IMAGE
	Method     string // "pdf-text" | "pdf-ocr" | "image-ocr"
	Language   string
	Duration   time.Duration
	Warnings   []string
	Confidence float32
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "rus"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.MinTextLayerChars <= 0 {
		cfg.MinTextLayerChars = 64
	}
	return &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// Extract picks a strategy based on file extension.
func (e *Extractor) Extract(ctx context.Context, path string) (ExtractionResult, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("starting text extraction", "path", path, "ext", ext)
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		res, err := e.extractPDF(ctx, path)
		res.Duration = time.Since(start)
		return res, err
	case constants.IMAGE:
		res, err := e.extractImage(ctx, path)
		res.Duration = time.Since(start)
		return res, err
	default:
		e.logger.Error("unsupported extension", "extension", ext)
		return ExtractionResult{}, fmt.Errorf("unsupported extension: %q", ext)
	}
}

// extractPDF tries the embedded text layer first; when the layer is absent
// or too thin, the pages get rasterized and OCR'd instead.
func (e *Extractor) extractPDF(ctx context.Context, path string) (ExtractionResult, error) {
	text, pages, warns, err := e.pdfToText(ctx, path)
	if err == nil && countLetters(text) >= e.cfg.MinTextLayerChars {
		return ExtractionResult{
			Text:       text,
			Pages:      pages,
			SourceType: constants.PDF,
			Method:     "pdf-text",
			Language:   e.cfg.TesseractLang,
			Warnings:   warns,
			Confidence: 0.95, // text layer, not recognition
		}, nil
	}
	if err != nil {
		warns = append(warns, err.Error())
	}

	text, pages, ocrWarns, err := e.pdfToOCR(ctx, path)
	warns = append(warns, ocrWarns...)
	if err != nil {
		return ExtractionResult{SourceType: constants.PDF, Warnings: warns}, err
	}
	return ExtractionResult{
		Text:       text,
		Pages:      pages,
		SourceType: constants.PDF,
		Method:     "pdf-ocr",
		Language:   e.cfg.TesseractLang,
		Warnings:   warns,
		Confidence: heuristicConfidence(text),
	}, nil
}

func (e *Extractor) extractImage(ctx context.Context, path string) (ExtractionResult, error) {
	text, warns, err := e.tesseractOCR(ctx, path)
	if err != nil {
		return ExtractionResult{SourceType: constants.IMAGE, Warnings: warns}, err
	}
	return ExtractionResult{
		Text:       text,
		Pages:      1,
		SourceType: constants.IMAGE,
		Method:     "image-ocr",
		Language:   e.cfg.TesseractLang,
		Warnings:   warns,
		Confidence: heuristicConfidence(text),
	}, nil
}
