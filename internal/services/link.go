package services

import (
	"context"

	"github.com/alphafinance/backend/internal/errs"
	"github.com/alphafinance/backend/internal/models"
	"github.com/alphafinance/backend/pkg/logger"
)

// --- Dependencies (minimal interfaces scoped to this service) ---

type linkProvider interface {
	CreateLinkToken(ctx context.Context, uid string) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (itemID, accessToken string, err error)
}

type itemLSStore interface {
	Create(ctx context.Context, uid string, item *models.Item, accessToken string) error
	List(ctx context.Context, uid string) ([]*models.Item, error)
}

type linkService struct {
	provider linkProvider
	items    itemLSStore
}

func NewLinkService(provider linkProvider, items itemLSStore) *linkService {
	return &linkService{provider: provider, items: items}
}

func (s *linkService) CreateLinkToken(ctx context.Context, uid string) (string, error) {
	return s.provider.CreateLinkToken(ctx, uid)
}

// Link exchanges the public token from the client-side link flow and stores
// the resulting item with its access token encrypted.
func (s *linkService) Link(ctx context.Context, uid, publicToken, institution string) (*models.Item, error) {
	if publicToken == "" {
		return nil, errs.NewValidationError("public token is required")
	}

	itemID, accessToken, err := s.provider.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return nil, err
	}

	item := &models.Item{
		ItemID:      itemID,
		Institution: institution,
		Status:      "active",
	}
	if err := s.items.Create(ctx, uid, item, accessToken); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("bank linked", "item_id", itemID, "institution", institution)
	return item, nil
}

// Items lists the user's linked institutions. Tokens never appear in the
// response model.
func (s *linkService) Items(ctx context.Context, uid string) ([]*models.Item, error) {
	return s.items.List(ctx, uid)
}
