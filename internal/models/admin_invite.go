package models

import "time"

// AdminInvite is a shareable dashboard invitation, addressed by its code
// rather than its row id.
type AdminInvite struct {
	BaseModel

	Code       string     `gorm:"type:varchar(40);not null;uniqueIndex" json:"code"`
	Role       string     `gorm:"type:varchar(40);not null" json:"role"`
	InvitedBy  string     `gorm:"type:varchar(120)" json:"invited_by"`
	RedeemedAt *time.Time `json:"redeemed_at,omitempty"`
}
