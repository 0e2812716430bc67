package models

// Product is a marketplace listing offered by a business.
type Product struct {
	BaseModel

	BusinessID  *string `gorm:"type:uuid;index" json:"business_id,omitempty"`
	Name        string  `gorm:"type:varchar(160);not null" json:"name"`
	ImageURL    *string `gorm:"type:varchar(512)" json:"image_url,omitempty"`
	PriceCents  int64   `gorm:"not null" json:"price_cents"`
	Currency    string  `gorm:"type:varchar(3);not null;default:EUR" json:"currency"`
	RatingAvg   float64 `json:"rating_avg"`
	RatingCount int     `json:"rating_count"`
}
