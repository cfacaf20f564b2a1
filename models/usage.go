package models

import "time"

// InternalUsage represents a link between a stored judgment and an
// internal client matter where it was relied on. JudgmentID is a plain
// string reference; referential integrity is not enforced and dangling
// references are tolerated.
type InternalUsage struct {
	ID                 string `json:"id" gorm:"primaryKey"`
	JudgmentID         string `json:"judgment_id"`
	InternalMatterName string `json:"internal_matter_name"`
	InternalNotice     string `json:"internal_notice"`
	UsageNotes         string `json:"usage_notes"`
	AIBrief            string `json:"ai_brief"`

	CreatedAt time.Time `json:"created_at"`
}
