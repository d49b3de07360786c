package models

import (
	"time"
)

type ComplaintStatus string
type ComplaintPriority string
type ComplaintCategory string

const (
	StatusPending    ComplaintStatus = "Pending"
	StatusInProgress ComplaintStatus = "In Progress"
	StatusResolved   ComplaintStatus = "Resolved"
)

const (
	PriorityLow    ComplaintPriority = "Low"
	PriorityMedium ComplaintPriority = "Medium"
	PriorityHigh   ComplaintPriority = "High"
)

const (
	CategoryRoad        ComplaintCategory = "Road"
	CategoryWater       ComplaintCategory = "Water"
	CategoryElectricity ComplaintCategory = "Electricity"
	CategoryGarbage     ComplaintCategory = "Garbage"
	CategoryOther       ComplaintCategory = "Other"
)

// ValidStatus reports whether s is one of the three complaint states.
func ValidStatus(s ComplaintStatus) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// ValidCategory reports whether c is one of the fixed complaint categories.
func ValidCategory(c ComplaintCategory) bool {
	switch c {
	case CategoryRoad, CategoryWater, CategoryElectricity, CategoryGarbage, CategoryOther:
		return true
	}
	return false
}

// Complaint is a citizen-filed grievance. Rows are never deleted; after
// creation only Status, AdminComment, AfterImage, ResolvedAt and IsOverdue
// may change.
type Complaint struct {
	ID            uint              `json:"id" gorm:"primaryKey"`
	Reference     string            `json:"reference" gorm:"uniqueIndex;not null"`
	UserID        uint              `json:"userId" gorm:"not null;index"`
	User          User              `json:"user" gorm:"foreignKey:UserID"`
	Category      ComplaintCategory `json:"category" gorm:"not null"`
	OtherCategory string            `json:"otherCategory"`
	Location      string            `json:"location"`
	Description   string            `json:"description" gorm:"type:text;not null"`
	Priority      ComplaintPriority `json:"priority" gorm:"not null"`
	Status        ComplaintStatus   `json:"status" gorm:"not null;default:'Pending'"`
	SLADeadline   time.Time         `json:"slaDeadline" gorm:"not null"`
	IsOverdue     bool              `json:"isOverdue" gorm:"not null;default:false"`
	BeforeImage   *string           `json:"beforeImage"`
	AfterImage    *string           `json:"afterImage"`
	AdminComment  *string           `json:"adminComment" gorm:"type:text"`
	ResolvedAt    *time.Time        `json:"resolvedAt"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`

	Updates []ComplaintUpdate `json:"updates,omitempty" gorm:"foreignKey:ComplaintID"`
}

func (Complaint) TableName() string {
	return "complaints"
}
