package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/akozyrev/invoice-scanner/internal/common"
)

type ScanRepo interface {
	Create(ctx context.Context, scan *Scan) error
	GetByID(ctx context.Context, id uuid.UUID) (*Scan, error)
	List(ctx context.Context, limit int) ([]Scan, error)
	ListNeedsReview(ctx context.Context, limit int) ([]Scan, error)
}

type scanRepo struct {
	db *gorm.DB
}

func NewScanRepo(db *gorm.DB) ScanRepo {
	return &scanRepo{db: db}
}

func (r *scanRepo) Create(ctx context.Context, scan *Scan) error {
	if err := r.db.WithContext(ctx).Create(scan).Error; err != nil {
		return common.WrapError(err, "create scan")
	}
	return nil
}

func (r *scanRepo) GetByID(ctx context.Context, id uuid.UUID) (*Scan, error) {
	var scan Scan
	err := r.db.WithContext(ctx).First(&scan, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.WrapError(err, "get scan")
	}
	return &scan, nil
}

func (r *scanRepo) List(ctx context.Context, limit int) ([]Scan, error) {
	var scans []Scan
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&scans).Error; err != nil {
		return nil, common.WrapError(err, "list scans")
	}
	return scans, nil
}

func (r *scanRepo) ListNeedsReview(ctx context.Context, limit int) ([]Scan, error) {
	var scans []Scan
	query := r.db.WithContext(ctx).Where("needs_review = ?", true).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&scans).Error; err != nil {
		return nil, common.WrapError(err, "list scans for review")
	}
	return scans, nil
}
