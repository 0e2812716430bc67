package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ecacertified-jpg/pixl-parade-page-sub001/internal/models"
	"github.com/ecacertified-jpg/pixl-parade-page-sub001/internal/render"
	"github.com/ecacertified-jpg/pixl-parade-page-sub001/internal/sharecard"
	"github.com/ecacertified-jpg/pixl-parade-page-sub001/internal/storage"
	"github.com/ecacertified-jpg/pixl-parade-page-sub001/pkg/logger"
	"github.com/ecacertified-jpg/pixl-parade-page-sub001/pkg/metrics"
)

// DefaultRetention is how long a cache entry stays valid after a write.
// There is no touch-on-read refresh: staleness is hash-driven, expiry only
// bounds how long an untouched entry may be served.
const DefaultRetention = 7 * 24 * time.Hour

// Outcome classifies how a share-card request was satisfied.
type Outcome string

const (
	OutcomeHit     Outcome = "hit"
	OutcomeMiss    Outcome = "miss"
	OutcomeStale   Outcome = "stale"
	OutcomeRefresh Outcome = "refresh"
)

// Result is what a resolved request responds with. URL points at the blob;
// Data is only populated on the uncached direct-serve fallback, when the
// blob could not be stored but the render succeeded.
type Result struct {
	URL     string
	Data    []byte
	Outcome Outcome
}

// RenderError marks a render-collaborator failure. Fatal for the request:
// nothing was written to either store.
type RenderError struct{ Err error }

func (e *RenderError) Error() string { return fmt.Sprintf("share card: render failed: %v", e.Err) }
func (e *RenderError) Unwrap() error { return e.Err }

// ShareCardService is the cache orchestrator: it decides per request whether
// the stored card is still current, and renders/publishes when it is not.
type ShareCardService struct {
	payloads *PayloadService
	cache    *CardCacheStore
	store    storage.ObjectStore
	renderer render.Renderer

	retention time.Duration
	now       func() time.Time
	log       *zap.Logger
}

// ShareCardOption customises the orchestrator.
type ShareCardOption func(*ShareCardService)

// WithRetention overrides the cache entry lifetime.
func WithRetention(d time.Duration) ShareCardOption {
	return func(s *ShareCardService) {
		if d > 0 {
			s.retention = d
		}
	}
}

// WithClock overrides the clock, primarily for tests.
func WithClock(now func() time.Time) ShareCardOption {
	return func(s *ShareCardService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewShareCardService wires the orchestrator.
func NewShareCardService(
	payloads *PayloadService,
	cache *CardCacheStore,
	store storage.ObjectStore,
	renderer render.Renderer,
	opts ...ShareCardOption,
) (*ShareCardService, error) {
	if payloads == nil {
		return nil, errors.New("share card service: payload service is required")
	}
	if cache == nil {
		return nil, errors.New("share card service: cache store is required")
	}
	if store == nil {
		return nil, errors.New("share card service: object store is required")
	}
	if renderer == nil {
		return nil, errors.New("share card service: renderer is required")
	}

	svc := &ShareCardService{
		payloads:  payloads,
		cache:     cache,
		store:     store,
		renderer:  renderer,
		retention: DefaultRetention,
		now:       time.Now,
		log:       logger.WithModule("sharecard"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Resolve runs the read/write protocol for one request.
//
// The current entity state is fetched first: the cache key itself can depend
// on it (fund progress buckets), and the stored hash is compared against a
// hash of exactly this state. A hit performs no render and no writes. A
// metadata read error degrades to a miss rather than serving a row that may
// not reflect reality.
func (s *ShareCardService) Resolve(ctx context.Context, entity sharecard.EntityType, id string, forceRefresh bool) (Result, error) {
	if s == nil {
		return Result{}, errors.New("share card service: not initialised")
	}
	if !entity.Valid() {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownEntityType, entity)
	}
	ctx = ensuredContext(ctx)

	payload, err := s.payloads.Assemble(ctx, entity, id)
	if err != nil {
		return Result{}, err
	}

	cacheKey := payload.CacheKey()
	dataHash := payload.Hash()

	outcome := OutcomeMiss
	if forceRefresh {
		outcome = OutcomeRefresh
	} else {
		entry, found, err := s.cache.Lookup(ctx, cacheKey)
		switch {
		case err != nil:
			// Fail open toward a correct-but-slower miss, never toward a
			// possibly wrong cached artifact.
			metrics.MetadataFailures.WithLabelValues("read").Inc()
			s.log.Warn("cache metadata lookup failed, treating as miss",
				zap.String("cache_key", cacheKey), zap.Error(err))
		case found && !entry.Expired(s.now()):
			if entry.DataHash == dataHash {
				metrics.ShareCardRequests.WithLabelValues(string(entity), string(OutcomeHit)).Inc()
				return Result{URL: s.store.PublicURL(entry.StoragePath), Outcome: OutcomeHit}, nil
			}
			outcome = OutcomeStale
		}
	}

	data, err := s.renderCard(ctx, payload)
	if err != nil {
		metrics.Renders.WithLabelValues(string(entity), "failure").Inc()
		return Result{}, &RenderError{Err: err}
	}
	metrics.Renders.WithLabelValues(string(entity), "success").Inc()
	metrics.ShareCardRequests.WithLabelValues(string(entity), string(outcome)).Inc()

	storagePath := sharecard.StoragePath(entity, payload.EntityID, dataHash)
	if err := s.store.Upload(ctx, storagePath, data, "image/png"); err != nil {
		// The render is good even though it could not be stored: serve it
		// directly this one time and let a later request publish. No
		// metadata is written, it would point at a missing blob.
		s.log.Error("card upload failed, serving render directly",
			zap.String("storage_path", storagePath), zap.Error(err))
		return Result{Data: data, Outcome: outcome}, nil
	}

	entry := &models.ShareCardCache{
		EntityType:  string(entity),
		EntityID:    payload.EntityID,
		CacheKey:    cacheKey,
		StoragePath: storagePath,
		DataHash:    dataHash,
		ExpiresAt:   s.now().Add(s.retention),
	}
	if err := s.cache.Upsert(ctx, entry); err != nil {
		// Non-fatal: the blob is already published, the response stands.
		// Cost is a likely duplicate render on the next request.
		metrics.MetadataFailures.WithLabelValues("write").Inc()
		s.log.Error("cache metadata upsert failed",
			zap.String("cache_key", cacheKey), zap.Error(err))
	}

	return Result{URL: s.store.PublicURL(storagePath), Outcome: outcome}, nil
}

func (s *ShareCardService) renderCard(ctx context.Context, payload sharecard.Payload) ([]byte, error) {
	start := time.Now()
	data, err := s.renderer.Render(ctx, payload)
	metrics.RenderDuration.Observe(time.Since(start).Seconds())
	return data, err
}
