// Package server exposes the scan pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/akozyrev/invoice-scanner/constants"
	"github.com/akozyrev/invoice-scanner/internal/common"
	"github.com/akozyrev/invoice-scanner/internal/export"
	"github.com/akozyrev/invoice-scanner/internal/pipeline"
	"github.com/akozyrev/invoice-scanner/internal/repository"
)

// DocumentScanner is what the handlers need from the pipeline.
type DocumentScanner interface {
	Scan(ctx context.Context, path string) (*pipeline.ScanResult, error)
}

type Server struct {
	cfg     common.ServerConfig
	scanner DocumentScanner
	scans   repository.ScanRepo
	export  *export.Service
	logger  *slog.Logger
}

func New(cfg common.ServerConfig, scanner DocumentScanner, scans repository.ScanRepo, exportSvc *export.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{cfg: cfg, scanner: scanner, scans: scans, export: exportSvc, logger: logger}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.MaxMultipartMemory = s.cfg.MaxUploadBytes

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/scan", s.handleScan)
	r.GET("/scans", s.handleListScans)
	r.GET("/scans/export", s.handleExportScans)
	r.GET("/scans/:id", s.handleGetScan)
	return r
}

func (s *Server) handleScan(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	ext := constants.NormalizeExt(filepath.Ext(file.Filename))
	if _, ok := constants.AllowedExtensions[ext]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported file type: %q", ext)})
		return
	}
	if s.cfg.MaxUploadBytes > 0 && file.Size > s.cfg.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	dst := filepath.Join(s.cfg.UploadDir, uuid.NewString()+"."+ext)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		s.logger.Error("upload.save.failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store upload"})
		return
	}
	defer func() {
		if err := os.Remove(dst); err != nil {
			s.logger.Warn("upload.cleanup.failed", "path", dst, "err", err)
		}
	}()

	res, err := s.scanner.Scan(c.Request.Context(), dst)
	if err != nil {
		scan := &repository.Scan{
			Filename: file.Filename,
			Status:   constants.ScanStatusFailed,
			Error:    err.Error(),
		}
		if dberr := s.scans.Create(c.Request.Context(), scan); dberr != nil {
			s.logger.Error("scan.persist.failed", "err", dberr)
		}
		if errors.Is(err, common.ErrSourceUnreadable) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "scan_id": scan.ID})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "scan_id": scan.ID})
		return
	}

	scan := &repository.Scan{
		Filename:    file.Filename,
		SourceType:  res.SourceType,
		Method:      res.Method,
		Status:      constants.ScanStatusOK,
		Confidence:  res.Confidence,
		Pages:       res.Pages,
		RecordJSON:  res.RecordJSON,
		NeedsReview: res.NeedsReview,
		Issues:      strings.Join(res.Issues, "\n"),
	}
	if err := s.scans.Create(c.Request.Context(), scan); err != nil {
		s.logger.Error("scan.persist.failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store scan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scan_id":      scan.ID,
		"record":       res.Record,
		"needs_review": res.NeedsReview,
		"issues":       res.Issues,
		"method":       res.Method,
		"pages":        res.Pages,
		"confidence":   res.Confidence,
		"duration_ms":  res.Duration.Milliseconds(),
	})
}

func (s *Server) handleListScans(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = v
	}

	var (
		scans []repository.Scan
		err   error
	)
	if c.Query("needs_review") == "true" {
		scans, err = s.scans.ListNeedsReview(c.Request.Context(), limit)
	} else {
		scans, err = s.scans.List(c.Request.Context(), limit)
	}
	if err != nil {
		s.logger.Error("scans.list.failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list scans"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"scans": scans, "count": len(scans)})
}

func (s *Server) handleGetScan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a UUID"})
		return
	}
	scan, err := s.scans.GetByID(c.Request.Context(), id)
	if errors.Is(err, common.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "scan not found"})
		return
	}
	if err != nil {
		s.logger.Error("scans.get.failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load scan"})
		return
	}
	c.JSON(http.StatusOK, scan)
}

func (s *Server) handleExportScans(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = v
	}

	data, err := s.export.ExportScansXLSX(c.Request.Context(), limit)
	if err != nil {
		s.logger.Error("scans.export.failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export scans"})
		return
	}
	filename := "scans-" + time.Now().Format("2006-01-02") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
