package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/ecacertified-jpg/pixl-parade-page-sub001/internal/app"
	"github.com/ecacertified-jpg/pixl-parade-page-sub001/internal/handlers"
	"github.com/ecacertified-jpg/pixl-parade-page-sub001/internal/middleware"
	"github.com/ecacertified-jpg/pixl-parade-page-sub001/internal/render"
	"github.com/ecacertified-jpg/pixl-parade-page-sub001/internal/services"
	"github.com/ecacertified-jpg/pixl-parade-page-sub001/internal/storage"
)

// NewRouter builds the Gin engine, wires middleware and registers the share
// card routes.
func NewRouter(db *gorm.DB, store storage.ObjectStore, renderer render.Renderer, cfg *app.Config) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if store == nil {
		return nil, fmt.Errorf("object store must be provided")
	}
	if renderer == nil {
		return nil, fmt.Errorf("renderer must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	if cfg.Monitoring.Health.Enabled {
		r.GET("/health", handlers.Health())
	}
	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := cfg.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	payloads, err := services.NewPayloadService(db)
	if err != nil {
		return nil, err
	}
	cache, err := services.NewCardCacheStore(db)
	if err != nil {
		return nil, err
	}
	cards, err := services.NewShareCardService(payloads, cache, store, renderer,
		services.WithRetention(cfg.Cards.Retention))
	if err != nil {
		return nil, err
	}
	cardHandler, err := handlers.NewShareCardHandler(cards)
	if err != nil {
		return nil, err
	}

	share := r.Group("/share")
	{
		share.GET("/products", cardHandler.Product)
		share.GET("/funds", cardHandler.Fund)
		share.GET("/businesses", cardHandler.Business)
		share.GET("/admin-invites", cardHandler.AdminInvite)
	}

	// Rendered blobs are served straight from the object store.
	r.GET("/cards/*path", handlers.Blobs(store))

	return r, nil
}
