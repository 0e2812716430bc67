package models

// Business is a seller profile on the marketplace.
type Business struct {
	BaseModel

	Name         string  `gorm:"type:varchar(160);not null" json:"name"`
	Tagline      string  `gorm:"type:varchar(200)" json:"tagline"`
	City         string  `gorm:"type:varchar(80)" json:"city"`
	LogoURL      *string `gorm:"type:varchar(512)" json:"logo_url,omitempty"`
	ProductCount int     `json:"product_count"`
}
