package models

import "time"

// ShareCardCache records one cached share-card render per cache key.
//
// CacheKey is the canonical lookup handle; writes upsert on it so at most
// one row exists per key. StoragePath embeds the data hash, making the blob
// content-addressed: a stale row is superseded by pointing at a new path,
// never by deleting the old blob.
type ShareCardCache struct {
	BaseModel

	EntityType  string    `gorm:"type:varchar(32);not null;index:idx_share_card_entity" json:"entity_type"`
	EntityID    string    `gorm:"type:varchar(64);not null;index:idx_share_card_entity" json:"entity_id"`
	CacheKey    string    `gorm:"type:varchar(160);not null;uniqueIndex" json:"cache_key"`
	StoragePath string    `gorm:"type:varchar(255);not null" json:"storage_path"`
	DataHash    string    `gorm:"type:varchar(32);not null" json:"data_hash"`
	ExpiresAt   time.Time `gorm:"index" json:"expires_at"`
}

// Expired reports whether the entry must be treated as absent.
func (c *ShareCardCache) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}
