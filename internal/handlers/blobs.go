package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ecacertified-jpg/pixl-parade-page-sub001/internal/storage"
	apperrors "github.com/ecacertified-jpg/pixl-parade-page-sub001/pkg/errors"
	"github.com/ecacertified-jpg/pixl-parade-page-sub001/pkg/response"
)

// Blobs serves stored card images for deployments where the object store's
// public URL points back at this service.
func Blobs(store storage.ObjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := strings.TrimLeft(c.Param("path"), "/")
		if path == "" {
			response.Error(c, apperrors.ErrBadRequest)
			return
		}

		data, err := store.Read(c.Request.Context(), "cards/"+path)
		if errors.Is(err, storage.ErrNotFound) {
			response.Error(c, apperrors.ErrNotFound)
			return
		}
		if err != nil {
			response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
			return
		}

		response.PNG(c, data)
	}
}
