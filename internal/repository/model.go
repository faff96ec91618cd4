// Package repository persists scan results. One row per processed document;
// the extracted record is stored as its canonical JSON so the API and the
// export layer serve exactly what the pipeline produced.
package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/akozyrev/invoice-scanner/constants"
)

// Scan is one processed document.
type Scan struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Filename   string    `gorm:"not null" json:"filename"`
	SourceType string    `json:"source_type"` // constants.PDF | constants.IMAGE
	Method     string    `json:"method"`
	Status     constants.ScanStatus `gorm:"not null;index" json:"status"`
	Confidence float32   `json:"confidence"`
	Pages      int       `json:"pages"`

	// RecordJSON is the extracted record, serialized once by the pipeline.
	RecordJSON  []byte `gorm:"type:jsonb" json:"record"`
	NeedsReview bool   `gorm:"index" json:"needs_review"`
	Issues      string `json:"issues,omitempty"` // newline-joined validation issues
	Error       string `json:"error,omitempty"`  // set when Status == FAILED

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating
func (s *Scan) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Status == "" {
		s.Status = constants.ScanStatusOK
	}
	return nil
}
