// scanfile extracts fields from a single document and prints the record
// as JSON. Useful for checking the rules against a real счёт without
// running the full service.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/akozyrev/invoice-scanner/internal/common"
	"github.com/akozyrev/invoice-scanner/internal/extract"
	"github.com/akozyrev/invoice-scanner/internal/ocr"
	"github.com/akozyrev/invoice-scanner/internal/pipeline"
	"github.com/akozyrev/invoice-scanner/internal/rules"
	"github.com/akozyrev/invoice-scanner/internal/tables"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: scanfile <file.pdf|file.png|file.jpg>")
		os.Exit(2)
	}
	path := os.Args[1]

	cfg := common.LoadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	textExtractor := &extract.OCRAdapter{Inner: ocr.NewExtractor(ocr.Config{
		Pdftotext:     cfg.OCR.Pdftotext,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		TessdataDir:   cfg.OCR.TessdataDir,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
	}, logger)}
	scanner := pipeline.NewScanner(logger, textExtractor, tables.NewSource(logger), rules.NewExtractor(logger))

	res, err := scanner.Scan(ctx, path)
	if err != nil {
		logger.Error("scan failed", "path", path, "error", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(res.Record, "", "  ")
	if err != nil {
		logger.Error("marshal record", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))

	if res.NeedsReview {
		fmt.Fprintln(os.Stderr, "needs review:")
		for _, issue := range res.Issues {
			fmt.Fprintln(os.Stderr, "  "+issue)
		}
	}
}
