package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ecacertified-jpg/pixl-parade-page-sub001/internal/models"
)

// CardCacheStore wraps the relational store holding share-card cache
// metadata. Expiry is not filtered here: the orchestrator owns the freshness
// decision, the store only answers "what is recorded for this key".
type CardCacheStore struct {
	db *gorm.DB
}

// NewCardCacheStore constructs the metadata client.
func NewCardCacheStore(db *gorm.DB) (*CardCacheStore, error) {
	if db == nil {
		return nil, errors.New("card cache store: db is required")
	}
	return &CardCacheStore{db: db}, nil
}

// Lookup fetches the entry recorded for a cache key. Absence is not an
// error: the second return is false when no row exists.
func (s *CardCacheStore) Lookup(ctx context.Context, cacheKey string) (*models.ShareCardCache, bool, error) {
	if s == nil {
		return nil, false, errors.New("card cache store: not initialised")
	}
	ctx = ensuredContext(ctx)

	var entry models.ShareCardCache
	err := s.db.WithContext(ctx).Take(&entry, "cache_key = ?", cacheKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return &entry, true, nil
}

// Upsert records an entry, overwriting whatever was stored under the same
// cache key. Last writer wins: concurrent writers for one key either carry
// equivalent values or the later one observed fresher entity state.
func (s *CardCacheStore) Upsert(ctx context.Context, entry *models.ShareCardCache) error {
	if s == nil {
		return errors.New("card cache store: not initialised")
	}
	if entry == nil {
		return errors.New("card cache store: entry is required")
	}
	ctx = ensuredContext(ctx)

	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cache_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"storage_path", "data_hash", "expires_at", "updated_at"}),
		}).Create(entry).Error
}

// DeleteExpired removes rows whose expiry has passed. Used by the
// maintenance sweeper to bound table growth; readers already treat expired
// rows as absent, so this is never required for correctness.
func (s *CardCacheStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if s == nil {
		return 0, errors.New("card cache store: not initialised")
	}
	ctx = ensuredContext(ctx)

	result := s.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&models.ShareCardCache{})
	return result.RowsAffected, result.Error
}

func ensuredContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
