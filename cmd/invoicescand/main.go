package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/akozyrev/invoice-scanner/internal/bot"
	"github.com/akozyrev/invoice-scanner/internal/common"
	"github.com/akozyrev/invoice-scanner/internal/export"
	"github.com/akozyrev/invoice-scanner/internal/extract"
	"github.com/akozyrev/invoice-scanner/internal/ocr"
	"github.com/akozyrev/invoice-scanner/internal/pipeline"
	"github.com/akozyrev/invoice-scanner/internal/repository"
	"github.com/akozyrev/invoice-scanner/internal/rules"
	"github.com/akozyrev/invoice-scanner/internal/server"
	"github.com/akozyrev/invoice-scanner/internal/tables"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file", "error", err)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.OpenDB(cfg.Database)
	if err != nil {
		logger.Error("open db", "error", err)
		os.Exit(1)
	}
	scans := repository.NewScanRepo(db)

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

	exportSvc := export.NewService(scans, logger)
	srv := server.New(cfg.Server, scanner, scans, exportSvc, logger)

	httpServer := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: srv.Router(),
	}
	go func() {
		logger.Info("http.serving", "addr", cfg.Server.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	if cfg.Bot.Token != "" {
		tg, err := bot.New(cfg.Bot, scanner, scans, logger)
		if err != nil {
			logger.Error("bot init", "error", err)
			os.Exit(1)
		}
		go func() {
			if err := tg.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("bot run", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	logger.Info("stopped")
}
