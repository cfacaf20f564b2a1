package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Status represents the precedential standing of a judgment
type Status string

const (
	StatusGoodLaw       Status = "good_law"
	StatusDistinguished Status = "distinguished"
	StatusOverruled     Status = "overruled"
)

// AllStatuses lists the valid statuses in display order
var AllStatuses = []Status{StatusGoodLaw, StatusDistinguished, StatusOverruled}

// ParseStatus validates a status value. An empty input defaults to
// StatusGoodLaw; anything outside the closed set is rejected.
func ParseStatus(s string) (Status, error) {
	if strings.TrimSpace(s) == "" {
		return StatusGoodLaw, nil
	}
	status := Status(s)
	switch status {
	case StatusGoodLaw, StatusDistinguished, StatusOverruled:
		return status, nil
	}
	return "", fmt.Errorf("invalid status %q", s)
}

// PDFRefs represents the blob references attached to a judgment,
// stored as a comma-joined text column
type PDFRefs []string

// Value implements driver.Valuer
func (r PDFRefs) Value() (driver.Value, error) {
	return strings.Join(r, ","), nil
}

// Scan implements sql.Scanner
func (r *PDFRefs) Scan(value interface{}) error {
	if value == nil {
		*r = nil
		return nil
	}

	var s string
	switch v := value.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return nil
	}

	if s == "" {
		*r = nil
		return nil
	}
	*r = strings.Split(s, ",")
	return nil
}

// Judgment represents a stored court judgment record
type Judgment struct {
	ID            string  `json:"id" gorm:"primaryKey"`
	CaseName      string  `json:"case_name"`
	ActName       string  `json:"act_name"`
	SectionNumber string  `json:"section_number"`
	Authority     string  `json:"authority"`
	BriefFacts    string  `json:"brief_facts"`
	DecisionHeld  string  `json:"decision_held"`
	PDFRefs       PDFRefs `json:"pdf_file_ids" gorm:"column:pdf_file_ids;type:text"`
	AINotes       string  `json:"ai_notes"`
	Status        Status  `json:"status"`

	CreatedAt time.Time `json:"created_at"`
}
