package models

import (
	"time"
)

// ComplaintUpdate is an append-only administrative status entry attached to a
// complaint. There is no code path that edits or deletes one; the latest entry
// (created_at, then id as tie-break) dictates the parent complaint's status
// and admin comment.
type ComplaintUpdate struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	ComplaintID uint            `json:"complaintId" gorm:"not null;index"`
	Complaint   Complaint       `json:"-" gorm:"foreignKey:ComplaintID"`
	Remark      string          `json:"remark" gorm:"type:text;not null"`
	Status      ComplaintStatus `json:"status" gorm:"not null"`
	Media       *string         `json:"media"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func (ComplaintUpdate) TableName() string {
	return "complaint_updates"
}
