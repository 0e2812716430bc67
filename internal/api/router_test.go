package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ecacertified-jpg/pixl-parade-page-sub001/internal/app"
	testutil "github.com/ecacertified-jpg/pixl-parade-page-sub001/internal/database/testutil"
	"github.com/ecacertified-jpg/pixl-parade-page-sub001/internal/models"
	"github.com/ecacertified-jpg/pixl-parade-page-sub001/internal/sharecard"
	"github.com/ecacertified-jpg/pixl-parade-page-sub001/internal/storage"
)

type staticRenderer struct{}

func (staticRenderer) Render(_ context.Context, payload sharecard.Payload) ([]byte, error) {
	return []byte("png:" + payload.Title), nil
}

func testConfig() *app.Config {
	cfg := &app.Config{}
	cfg.Server.Port = 8000
	cfg.Server.PublicURL = "http://cards.test"
	cfg.Cards.Retention = time.Hour
	cfg.Monitoring.Prometheus.Enabled = true
	cfg.Monitoring.Prometheus.Endpoint = "/metrics"
	cfg.Monitoring.Health.Enabled = true
	return cfg
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t)
	product := models.Product{Name: "Walnut Chess Set", PriceCents: 12500, Currency: "USD"}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	store, err := storage.NewLocalStore(t.TempDir(), "http://cards.test")
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	router, err := NewRouter(db, store, staticRenderer{}, testConfig())
	if err != nil {
		t.Fatalf("router: %v", err)
	}

	// Stash the seeded product id on the engine for the test to read back.
	router.GET("/__test/product-id", func(c *gin.Context) {
		c.String(http.StatusOK, product.ID)
	})
	return router
}

func TestRouterCoreRoutes(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for /health, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/metrics", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for /metrics, got %d", w.Code)
	}

	// Unknown share route
	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/share/unknown", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown route, got %d", w.Code)
	}
}

func TestRouterShareCardFlow(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/__test/product-id", nil)
	router.ServeHTTP(w, req)
	productID := w.Body.String()

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/share/products?id="+productID, nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302 redirect, got %d: %s", w.Code, w.Body.String())
	}
	location := w.Header().Get("Location")
	if !strings.HasPrefix(location, "http://cards.test/cards/product/") {
		t.Fatalf("unexpected redirect target %q", location)
	}

	// The blob route serves what the redirect points at.
	blobPath := strings.TrimPrefix(location, "http://cards.test")
	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, blobPath, nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for blob, got %d", w.Code)
	}
	if got := w.Body.String(); !strings.HasPrefix(got, "png:") {
		t.Fatalf("unexpected blob body %q", got)
	}

	// Missing id is a 400.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/share/products", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing id, got %d", w.Code)
	}

	// Unknown entity id is a 404.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/share/funds?id=missing", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown fund, got %d", w.Code)
	}
}
