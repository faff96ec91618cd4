package constants

// ScanStatus is the canonical status for stored scan rows.
type ScanStatus string

// Stable values (these exact strings go to the database).
const (
	ScanStatusOK     ScanStatus = "OK"     // pipeline completed, record stored
	ScanStatusFailed ScanStatus = "FAILED" // source unreadable or pipeline error
)
