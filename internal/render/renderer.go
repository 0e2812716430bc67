package render

import (
	"context"

	"github.com/ecacertified-jpg/pixl-parade-page-sub001/internal/sharecard"
)

// Renderer turns a share-card payload into image bytes. The cache
// orchestrator treats it as opaque: any implementation that is deterministic
// for a given payload works, since the payload hash decides reuse.
type Renderer interface {
	Render(ctx context.Context, payload sharecard.Payload) ([]byte, error)
}
