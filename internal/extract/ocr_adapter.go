package extract

import (
	"context"

	"github.com/akozyrev/invoice-scanner/internal/ocr"
)

// OCRAdapter plugs the ocr package in as the pipeline's TextExtractor.
type OCRAdapter struct {
	Inner *ocr.Extractor
}

var _ TextExtractor = (*OCRAdapter)(nil)

func (a *OCRAdapter) Extract(ctx context.Context, path string) (TextExtractionResult, error) {
	res, err := a.Inner.Extract(ctx, path)
	if err != nil {
		return TextExtractionResult{}, err
	}
	return TextExtractionResult{
		Text:       res.Text,
		Pages:      res.Pages,
		SourceType: res.SourceType,
		Method:     res.Method,
		Language:   res.Language,
		Duration:   res.Duration,
		Warnings:   res.Warnings,
		Confidence: res.Confidence,
	}, nil
}
