package sharecard

import "fmt"

// CacheKey composes the unique lookup key for a cached card. Keys are
// prefixed with the entity type so ids cannot collide across families.
// Bucketed families append a progress suffix.
func CacheKey(entity EntityType, id string, bucket ...int) string {
	if len(bucket) > 0 {
		return fmt.Sprintf("%s_%s_progress%d", entity, id, bucket[0])
	}
	return fmt.Sprintf("%s_%s", entity, id)
}

// StoragePath derives the content-addressed blob location. The hash is part
// of the name, so distinct renders never collide and re-uploading the same
// render overwrites identical bytes.
func StoragePath(entity EntityType, id, hash string) string {
	return fmt.Sprintf("cards/%s/%s_%s.png", entity, id, hash)
}
