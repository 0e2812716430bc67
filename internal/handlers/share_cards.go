package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/ecacertified-jpg/pixl-parade-page-sub001/internal/services"
	"github.com/ecacertified-jpg/pixl-parade-page-sub001/internal/sharecard"
	apperrors "github.com/ecacertified-jpg/pixl-parade-page-sub001/pkg/errors"
	"github.com/ecacertified-jpg/pixl-parade-page-sub001/pkg/response"
)

// ShareCardHandler exposes the share-card endpoints, one per entity family.
type ShareCardHandler struct {
	svc *services.ShareCardService
}

// NewShareCardHandler wires the handler.
func NewShareCardHandler(svc *services.ShareCardService) (*ShareCardHandler, error) {
	if svc == nil {
		return nil, errors.New("share card handler: service is required")
	}
	return &ShareCardHandler{svc: svc}, nil
}

type shareCardQuery struct {
	ID      string `form:"id" binding:"required"`
	Refresh bool   `form:"refresh"`
}

type inviteCardQuery struct {
	Code    string `form:"code" binding:"required"`
	Refresh bool   `form:"refresh"`
}

// Product resolves the share card for a product listing.
func (h *ShareCardHandler) Product(c *gin.Context) {
	h.resolve(c, sharecard.EntityProduct)
}

// Fund resolves the share card for a crowdfunding campaign.
func (h *ShareCardHandler) Fund(c *gin.Context) {
	h.resolve(c, sharecard.EntityFund)
}

// Business resolves the share card for a seller profile.
func (h *ShareCardHandler) Business(c *gin.Context) {
	h.resolve(c, sharecard.EntityBusiness)
}

// AdminInvite resolves the share card for a dashboard invite link,
// addressed by code.
func (h *ShareCardHandler) AdminInvite(c *gin.Context) {
	var query inviteCardQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, apperrors.NewBadRequest("code parameter is required"))
		return
	}

	h.respond(c, sharecard.EntityAdminInvite, query.Code, query.Refresh)
}

func (h *ShareCardHandler) resolve(c *gin.Context, entity sharecard.EntityType) {
	var query shareCardQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, apperrors.NewBadRequest("id parameter is required"))
		return
	}

	h.respond(c, entity, query.ID, query.Refresh)
}

func (h *ShareCardHandler) respond(c *gin.Context, entity sharecard.EntityType, id string, refresh bool) {
	result, err := h.svc.Resolve(c.Request.Context(), entity, id, refresh)
	if err != nil {
		response.Error(c, mapResolveError(err))
		return
	}

	// Direct-serve fallback: the render succeeded but could not be stored.
	if len(result.Data) > 0 {
		response.PNG(c, result.Data)
		return
	}

	response.Redirect(c, result.URL)
}

func mapResolveError(err error) error {
	switch {
	case errors.Is(err, services.ErrEntityNotFound):
		return apperrors.ErrNotFound
	case errors.Is(err, services.ErrUnknownEntityType):
		return apperrors.ErrBadRequest
	default:
		var renderErr *services.RenderError
		if errors.As(err, &renderErr) {
			return apperrors.ErrRenderFailed.WithInternal(err)
		}
		return apperrors.ErrInternalServer.WithInternal(err)
	}
}
