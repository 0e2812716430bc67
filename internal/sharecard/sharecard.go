package sharecard

// EntityType identifies which renderer/template family a share card belongs to.
type EntityType string

const (
	EntityProduct     EntityType = "product"
	EntityFund        EntityType = "fund"
	EntityBusiness    EntityType = "business"
	EntityAdminInvite EntityType = "admin-invite"
)

// Valid reports whether the entity type is one of the known families.
func (t EntityType) Valid() bool {
	switch t {
	case EntityProduct, EntityFund, EntityBusiness, EntityAdminInvite:
		return true
	}
	return false
}

// Bucketed reports whether cache keys for this family carry a progress
// bucket suffix. Only funds do: their numeric state moves on nearly every
// contribution and would otherwise thrash the cache.
func (t EntityType) Bucketed() bool {
	return t == EntityFund
}

// Payload carries the subset of entity fields that affect rendered pixels.
// It is assembled per request, hashed for change detection, handed to the
// renderer, and never persisted.
//
// The shape is fixed so the hash covers every field in a stable order. For
// funds the raw current amount is deliberately absent: the card displays
// progress rounded to the bucket, so only ProgressBucket participates.
type Payload struct {
	EntityType EntityType
	EntityID   string

	Title    string
	Subtitle string

	// ImageURL is nil when the entity has no image. Absence must hash
	// distinctly from an empty string.
	ImageURL *string

	// AmountCents holds the product price or the fund target amount.
	AmountCents int64
	Currency    string

	RatingAvg   float64
	RatingCount int

	// ProgressBucket is the quantized funding ratio in {0,10,...,100}.
	// Zero for non-fund families.
	ProgressBucket int
}

// CacheKey returns the canonical cache key for this payload, including the
// progress bucket suffix for bucketed families.
func (p Payload) CacheKey() string {
	if p.EntityType.Bucketed() {
		return CacheKey(p.EntityType, p.EntityID, p.ProgressBucket)
	}
	return CacheKey(p.EntityType, p.EntityID)
}
