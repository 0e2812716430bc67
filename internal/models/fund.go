package models

// Fund is a crowdfunding campaign collecting contributions toward a target.
// CurrentCents moves on every contribution; share cards display its progress
// quantized to 10% buckets so the card cache is not invalidated per write.
type Fund struct {
	BaseModel

	Title            string  `gorm:"type:varchar(160);not null" json:"title"`
	BeneficiaryName  string  `gorm:"type:varchar(120)" json:"beneficiary_name"`
	CoverURL         *string `gorm:"type:varchar(512)" json:"cover_url,omitempty"`
	TargetCents      int64   `gorm:"not null" json:"target_cents"`
	CurrentCents     int64   `gorm:"not null;default:0" json:"current_cents"`
	Currency         string  `gorm:"type:varchar(3);not null;default:EUR" json:"currency"`
	ContributorCount int     `json:"contributor_count"`
}
