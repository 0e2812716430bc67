package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ecacertified-jpg/pixl-parade-page-sub001/internal/models"
	"github.com/ecacertified-jpg/pixl-parade-page-sub001/internal/sharecard"
)

var (
	// ErrEntityNotFound indicates the referenced entity does not exist.
	ErrEntityNotFound = errors.New("share card: entity not found")

	// ErrUnknownEntityType indicates an unrecognised entity family.
	ErrUnknownEntityType = errors.New("share card: unknown entity type")
)

// PayloadService assembles the fixed-shape render payload for each entity
// family. It is the subsystem's view of the marketplace data source: only
// fields that reach the rendered pixels are loaded.
type PayloadService struct {
	db *gorm.DB
}

// NewPayloadService constructs the payload assembler.
func NewPayloadService(db *gorm.DB) (*PayloadService, error) {
	if db == nil {
		return nil, errors.New("payload service: db is required")
	}
	return &PayloadService{db: db}, nil
}

// Assemble loads the entity and maps it to a render payload. Admin invites
// are addressed by code instead of row id.
func (s *PayloadService) Assemble(ctx context.Context, entity sharecard.EntityType, id string) (sharecard.Payload, error) {
	if s == nil {
		return sharecard.Payload{}, errors.New("payload service: not initialised")
	}
	ctx = ensuredContext(ctx)

	switch entity {
	case sharecard.EntityProduct:
		return s.productPayload(ctx, id)
	case sharecard.EntityFund:
		return s.fundPayload(ctx, id)
	case sharecard.EntityBusiness:
		return s.businessPayload(ctx, id)
	case sharecard.EntityAdminInvite:
		return s.invitePayload(ctx, id)
	default:
		return sharecard.Payload{}, fmt.Errorf("%w: %q", ErrUnknownEntityType, entity)
	}
}

func (s *PayloadService) productPayload(ctx context.Context, id string) (sharecard.Payload, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).Take(&product, "id = ?", id).Error; err != nil {
		return sharecard.Payload{}, wrapLookupError(err)
	}

	subtitle := ""
	if product.BusinessID != nil {
		var business models.Business
		err := s.db.WithContext(ctx).Take(&business, "id = ?", *product.BusinessID).Error
		if err == nil {
			subtitle = business.Name
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return sharecard.Payload{}, err
		}
	}

	return sharecard.Payload{
		EntityType:  sharecard.EntityProduct,
		EntityID:    product.ID,
		Title:       product.Name,
		Subtitle:    subtitle,
		ImageURL:    product.ImageURL,
		AmountCents: product.PriceCents,
		Currency:    product.Currency,
		RatingAvg:   product.RatingAvg,
		RatingCount: product.RatingCount,
	}, nil
}

// fundPayload carries the bucketed progress instead of the raw contribution
// total: the card rounds progress to 10% anyway, and hashing the raw amount
// would invalidate the cache on every contribution.
func (s *PayloadService) fundPayload(ctx context.Context, id string) (sharecard.Payload, error) {
	var fund models.Fund
	if err := s.db.WithContext(ctx).Take(&fund, "id = ?", id).Error; err != nil {
		return sharecard.Payload{}, wrapLookupError(err)
	}

	return sharecard.Payload{
		EntityType:     sharecard.EntityFund,
		EntityID:       fund.ID,
		Title:          fund.Title,
		Subtitle:       fund.BeneficiaryName,
		ImageURL:       fund.CoverURL,
		AmountCents:    fund.TargetCents,
		Currency:       fund.Currency,
		ProgressBucket: sharecard.ProgressBucket(fund.CurrentCents, fund.TargetCents),
	}, nil
}

func (s *PayloadService) businessPayload(ctx context.Context, id string) (sharecard.Payload, error) {
	var business models.Business
	if err := s.db.WithContext(ctx).Take(&business, "id = ?", id).Error; err != nil {
		return sharecard.Payload{}, wrapLookupError(err)
	}

	subtitle := business.Tagline
	if subtitle == "" {
		subtitle = business.City
	}

	return sharecard.Payload{
		EntityType: sharecard.EntityBusiness,
		EntityID:   business.ID,
		Title:      business.Name,
		Subtitle:   subtitle,
		ImageURL:   business.LogoURL,
	}, nil
}

func (s *PayloadService) invitePayload(ctx context.Context, code string) (sharecard.Payload, error) {
	var invite models.AdminInvite
	if err := s.db.WithContext(ctx).Take(&invite, "code = ?", code).Error; err != nil {
		return sharecard.Payload{}, wrapLookupError(err)
	}

	subtitle := invite.Role
	if invite.InvitedBy != "" {
		subtitle = fmt.Sprintf("%s · invited by %s", invite.Role, invite.InvitedBy)
	}

	return sharecard.Payload{
		EntityType: sharecard.EntityAdminInvite,
		EntityID:   invite.Code,
		Title:      "You're invited to the dashboard",
		Subtitle:   subtitle,
	}, nil
}

func wrapLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrEntityNotFound
	}
	return err
}
