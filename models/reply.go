package models

import "time"

// NoticeReply represents a drafted reply to a legal notice.
// InternalJudgmentsUsed is a comma-joined list of judgment case names,
// not IDs, so later renames of a judgment break the association.
type NoticeReply struct {
	ID                    string `json:"id" gorm:"primaryKey"`
	MatterName            string `json:"matter_name"`
	NoticeText            string `json:"notice_text"`
	InternalJudgmentsUsed string `json:"internal_judgments_used"`
	ExternalReferences    string `json:"external_references"`
	FinalReply            string `json:"final_reply"`

	CreatedAt time.Time `json:"created_at"`
}
