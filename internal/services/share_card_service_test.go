package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ecacertified-jpg/pixl-parade-page-sub001/internal/database/testutil"
	"github.com/ecacertified-jpg/pixl-parade-page-sub001/internal/models"
	"github.com/ecacertified-jpg/pixl-parade-page-sub001/internal/sharecard"
	"github.com/ecacertified-jpg/pixl-parade-page-sub001/internal/storage"
)

// countingRenderer stands in for the external render collaborator. Output
// depends on the payload hash so distinct entity states produce distinct
// bytes.
type countingRenderer struct {
	calls int
	err   error
}

func (r *countingRenderer) Render(ctx context.Context, payload sharecard.Payload) ([]byte, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return []byte("png:" + payload.Hash()), nil
}

type failingUploadStore struct {
	storage.ObjectStore
}

func (s *failingUploadStore) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	return errors.New("bucket unavailable")
}

type cardTestEnv struct {
	db       *gorm.DB
	store    *storage.LocalStore
	renderer *countingRenderer
	svc      *ShareCardService
	cache    *CardCacheStore
}

func newCardTestEnv(t *testing.T, opts ...ShareCardOption) *cardTestEnv {
	t.Helper()

	db := testutil.MustOpenTestDB(t)

	objectStore, err := storage.NewLocalStore(t.TempDir(), "https://cdn.example.com")
	require.NoError(t, err)

	payloads, err := NewPayloadService(db)
	require.NoError(t, err)
	cache, err := NewCardCacheStore(db)
	require.NoError(t, err)

	renderer := &countingRenderer{}
	svc, err := NewShareCardService(payloads, cache, objectStore, renderer, opts...)
	require.NoError(t, err)

	return &cardTestEnv{db: db, store: objectStore, renderer: renderer, svc: svc, cache: cache}
}

func (e *cardTestEnv) createProduct(t *testing.T) models.Product {
	t.Helper()
	product := models.Product{Name: "Handmade Mug", PriceCents: 2450, Currency: "EUR"}
	require.NoError(t, e.db.Create(&product).Error)
	return product
}

func (e *cardTestEnv) createFund(t *testing.T, current, target int64) models.Fund {
	t.Helper()
	fund := models.Fund{Title: "School Garden", TargetCents: target, CurrentCents: current, Currency: "EUR"}
	require.NoError(t, e.db.Create(&fund).Error)
	return fund
}

func TestResolveMissRendersAndPublishes(t *testing.T) {
	env := newCardTestEnv(t)
	product := env.createProduct(t)
	ctx := context.Background()

	result, err := env.svc.Resolve(ctx, sharecard.EntityProduct, product.ID, false)
	require.NoError(t, err)
	require.Equal(t, OutcomeMiss, result.Outcome)
	require.Equal(t, 1, env.renderer.calls)
	require.Nil(t, result.Data)

	entry, found, err := env.cache.Lookup(ctx, "product_"+product.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, entry.ExpiresAt.After(time.Now()), "fresh entry must expire in the future")
	require.Contains(t, result.URL, entry.DataHash, "blob URL is content-addressed")

	blob, err := env.store.Read(ctx, entry.StoragePath)
	require.NoError(t, err)
	require.Equal(t, []byte("png:"+entry.DataHash), blob)
}

func TestResolveHitAvoidsRender(t *testing.T) {
	env := newCardTestEnv(t)
	product := env.createProduct(t)
	ctx := context.Background()

	first, err := env.svc.Resolve(ctx, sharecard.EntityProduct, product.ID, false)
	require.NoError(t, err)

	second, err := env.svc.Resolve(ctx, sharecard.EntityProduct, product.ID, false)
	require.NoError(t, err)

	require.Equal(t, OutcomeHit, second.Outcome)
	require.Equal(t, first.URL, second.URL)
	require.Equal(t, 1, env.renderer.calls, "a fresh hash-matching entry must not re-render")
}

func TestResolveForceRefreshAlwaysRenders(t *testing.T) {
	env := newCardTestEnv(t)
	product := env.createProduct(t)
	ctx := context.Background()

	_, err := env.svc.Resolve(ctx, sharecard.EntityProduct, product.ID, false)
	require.NoError(t, err)

	result, err := env.svc.Resolve(ctx, sharecard.EntityProduct, product.ID, true)
	require.NoError(t, err)

	require.Equal(t, OutcomeRefresh, result.Outcome)
	require.Equal(t, 2, env.renderer.calls, "forced refresh must bypass the lookup")
}

func TestResolveExpiredEntryForcesMiss(t *testing.T) {
	now := time.Now()
	env := newCardTestEnv(t, WithClock(func() time.Time { return now }))
	product := env.createProduct(t)
	ctx := context.Background()

	_, err := env.svc.Resolve(ctx, sharecard.EntityProduct, product.ID, false)
	require.NoError(t, err)
	require.Equal(t, 1, env.renderer.calls)

	// Jump past the retention window; the otherwise-matching entry is now
	// logically absent.
	now = now.Add(DefaultRetention + time.Minute)

	result, err := env.svc.Resolve(ctx, sharecard.EntityProduct, product.ID, false)
	require.NoError(t, err)
	require.Equal(t, OutcomeMiss, result.Outcome)
	require.Equal(t, 2, env.renderer.calls)

	entry, found, err := env.cache.Lookup(ctx, "product_"+product.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, entry.ExpiresAt.After(now), "re-render must extend the expiry")
}

func TestResolveStaleOnChangeKeepsOldBlob(t *testing.T) {
	env := newCardTestEnv(t)
	product := env.createProduct(t)
	ctx := context.Background()

	_, err := env.svc.Resolve(ctx, sharecard.EntityProduct, product.ID, false)
	require.NoError(t, err)

	oldEntry, found, err := env.cache.Lookup(ctx, "product_"+product.ID)
	require.NoError(t, err)
	require.True(t, found)

	require.NoError(t, env.db.Model(&product).Update("name", "Handmade Mug v2").Error)

	result, err := env.svc.Resolve(ctx, sharecard.EntityProduct, product.ID, false)
	require.NoError(t, err)
	require.Equal(t, OutcomeStale, result.Outcome)
	require.Equal(t, 2, env.renderer.calls)

	newEntry, found, err := env.cache.Lookup(ctx, "product_"+product.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.NotEqual(t, oldEntry.DataHash, newEntry.DataHash)
	require.Contains(t, result.URL, newEntry.DataHash)

	// The superseded blob is not deleted, only no longer referenced.
	_, err = env.store.Read(ctx, oldEntry.StoragePath)
	require.NoError(t, err)
}

func TestResolveIdempotentPublish(t *testing.T) {
	env := newCardTestEnv(t)
	product := env.createProduct(t)
	ctx := context.Background()

	first, err := env.svc.Resolve(ctx, sharecard.EntityProduct, product.ID, true)
	require.NoError(t, err)
	second, err := env.svc.Resolve(ctx, sharecard.EntityProduct, product.ID, true)
	require.NoError(t, err)

	require.Equal(t, first.URL, second.URL, "same entity state publishes to the same path")

	var count int64
	require.NoError(t, env.db.Model(&models.ShareCardCache{}).Count(&count).Error)
	require.EqualValues(t, 1, count, "re-publishing must not create divergent rows")
}

func TestResolveFundProgressBuckets(t *testing.T) {
	env := newCardTestEnv(t)
	fund := env.createFund(t, 45000, 100000)
	ctx := context.Background()

	result, err := env.svc.Resolve(ctx, sharecard.EntityFund, fund.ID, false)
	require.NoError(t, err)
	require.Equal(t, OutcomeMiss, result.Outcome)
	require.Equal(t, 1, env.renderer.calls)

	key40 := fmt.Sprintf("fund_%s_progress40", fund.ID)
	_, found, err := env.cache.Lookup(ctx, key40)
	require.NoError(t, err)
	require.True(t, found)

	// 48% is still bucket 40: same key, same hash, no render.
	require.NoError(t, env.db.Model(&fund).Update("current_cents", 48000).Error)
	result, err = env.svc.Resolve(ctx, sharecard.EntityFund, fund.ID, false)
	require.NoError(t, err)
	require.Equal(t, OutcomeHit, result.Outcome)
	require.Equal(t, 1, env.renderer.calls)

	// 50% crosses into bucket 50: fresh key, fresh render.
	require.NoError(t, env.db.Model(&fund).Update("current_cents", 50000).Error)
	result, err = env.svc.Resolve(ctx, sharecard.EntityFund, fund.ID, false)
	require.NoError(t, err)
	require.Equal(t, OutcomeMiss, result.Outcome)
	require.Equal(t, 2, env.renderer.calls)

	key50 := fmt.Sprintf("fund_%s_progress50", fund.ID)
	_, found, err = env.cache.Lookup(ctx, key50)
	require.NoError(t, err)
	require.True(t, found)

	// The bucket-40 row is untouched until it expires.
	_, found, err = env.cache.Lookup(ctx, key40)
	require.NoError(t, err)
	require.True(t, found)
}

func TestResolveRenderFailurePropagates(t *testing.T) {
	env := newCardTestEnv(t)
	product := env.createProduct(t)
	env.renderer.err = errors.New("bad font")

	_, err := env.svc.Resolve(context.Background(), sharecard.EntityProduct, product.ID, false)

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)

	var count int64
	require.NoError(t, env.db.Model(&models.ShareCardCache{}).Count(&count).Error)
	require.Zero(t, count, "a failed render must not write metadata")
}

func TestResolveUploadFailureServesDirectly(t *testing.T) {
	env := newCardTestEnv(t)
	product := env.createProduct(t)

	payloads, err := NewPayloadService(env.db)
	require.NoError(t, err)
	svc, err := NewShareCardService(payloads, env.cache, &failingUploadStore{ObjectStore: env.store}, env.renderer)
	require.NoError(t, err)

	result, err := svc.Resolve(context.Background(), sharecard.EntityProduct, product.ID, false)
	require.NoError(t, err, "a successful render is still served when storage is down")
	require.NotEmpty(t, result.Data)
	require.Empty(t, result.URL)

	var count int64
	require.NoError(t, env.db.Model(&models.ShareCardCache{}).Count(&count).Error)
	require.Zero(t, count, "no metadata may reference a blob that was never stored")
}

func TestResolveMetadataFailuresFailOpen(t *testing.T) {
	env := newCardTestEnv(t)
	product := env.createProduct(t)

	// A cache store on a dead connection: every lookup and upsert errors.
	deadDB := testutil.MustOpenTestDB(t)
	sqlDB, err := deadDB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	deadCache, err := NewCardCacheStore(deadDB)
	require.NoError(t, err)
	payloads, err := NewPayloadService(env.db)
	require.NoError(t, err)
	svc, err := NewShareCardService(payloads, deadCache, env.store, env.renderer)
	require.NoError(t, err)

	result, err := svc.Resolve(context.Background(), sharecard.EntityProduct, product.ID, false)
	require.NoError(t, err, "metadata outage must degrade to always-miss, not fail requests")
	require.Equal(t, OutcomeMiss, result.Outcome)
	require.NotEmpty(t, result.URL)
	require.Equal(t, 1, env.renderer.calls)
}

func TestResolveUnknownEntityAndMissingEntity(t *testing.T) {
	env := newCardTestEnv(t)

	_, err := env.svc.Resolve(context.Background(), "order", "x", false)
	require.ErrorIs(t, err, ErrUnknownEntityType)

	_, err = env.svc.Resolve(context.Background(), sharecard.EntityProduct, "missing", false)
	require.ErrorIs(t, err, ErrEntityNotFound)
	require.Zero(t, env.renderer.calls, "a missing entity must not reach the renderer")
}
