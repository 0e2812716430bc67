package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/ecacertified-jpg/pixl-parade-page-sub001/pkg/errors"
)

const (
	// RedirectMaxAge bounds how long browsers may cache the redirect itself.
	// Shorter than the blob retention because the pointer can move when the
	// underlying entity changes.
	RedirectMaxAge = 3600

	// BlobMaxAge matches the 7-day server-side retention. Blob paths are
	// content-addressed, so the bytes at a path never change.
	BlobMaxAge = 604800
)

// Response defines the base API payload.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo holds error details to send to clients.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success writes a JSON success response.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Data:    data,
	})
}

// Error writes a JSON error response derived from an AppError.
func Error(c *gin.Context, err error) {
	if err == nil {
		err = appErrors.ErrInternalServer
	}

	appErr := appErrors.FromError(err)
	status := appErr.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}

	c.JSON(status, Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    appErr.Code,
			Message: appErr.Message,
		},
	})
}

// Redirect points the client at a resolved share-card blob URL. Preview
// images are embedded cross-origin by social crawlers, so CORS is permissive.
func Redirect(c *gin.Context, url string) {
	c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", RedirectMaxAge))
	c.Header("Access-Control-Allow-Origin", "*")
	c.Redirect(http.StatusFound, url)
}

// PNG serves image bytes directly with the long immutable blob lifetime.
// Used both for stored blobs and for the uncached direct-serve fallback.
func PNG(c *gin.Context, data []byte) {
	c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d, immutable", BlobMaxAge))
	c.Header("Access-Control-Allow-Origin", "*")
	c.Data(http.StatusOK, "image/png", data)
}
