package services

import (
	"context"

	"github.com/alphafinance/backend/internal/dto"
	"github.com/alphafinance/backend/internal/errs"
	"github.com/alphafinance/backend/internal/models"
	"github.com/alphafinance/backend/pkg/logger"
)

// --- Dependencies (minimal interfaces scoped to this service) ---

type accountRSStore interface {
	UpsertAll(ctx context.Context, uid string, accounts []models.Account) error
	List(ctx context.Context, uid string) ([]*models.Account, error)
	Get(ctx context.Context, uid, providerAccountID string) (*models.Account, error)
}

type accountLister interface {
	ListAccounts(ctx context.Context, accessToken string) ([]dto.ProviderAccount, error)
}

type reconcileService struct {
	provider accountLister
	accounts accountRSStore
}

func NewReconcileService(provider accountLister, accounts accountRSStore) *reconcileService {
	return &reconcileService{provider: provider, accounts: accounts}
}

// Reconcile fetches the provider's account list and mirrors it into storage
// in a single atomic pass. Accounts the provider no longer reports are left
// in place; their history stays queryable. A malformed snapshot fails the
// whole pass so storage never reflects a partial provider response.
func (s *reconcileService) Reconcile(ctx context.Context, uid, itemID, accessToken string) (int, error) {
	snapshots, err := s.provider.ListAccounts(ctx, accessToken)
	if err != nil {
		return 0, err
	}

	accounts := make([]models.Account, 0, len(snapshots))
	for _, snap := range snapshots {
		if err := snap.Validate(); err != nil {
			return 0, errs.NewProviderError("malformed account snapshot: "+err.Error(), false, err)
		}
		accounts = append(accounts, models.Account{
			ProviderAccountID: snap.ProviderAccountID,
			ItemID:            itemID,
			Name:              snap.Name,
			Balance:           snap.Balance,
			Type:              snap.Type,
			Subtype:           snap.Subtype,
			Currency:          snap.Currency,
		})
	}

	if err := s.accounts.UpsertAll(ctx, uid, accounts); err != nil {
		return 0, err
	}

	logger.FromContext(ctx).Info("accounts reconciled", "count", len(accounts))
	return len(accounts), nil
}

func (s *reconcileService) List(ctx context.Context, uid string) ([]*models.Account, error) {
	return s.accounts.List(ctx, uid)
}

func (s *reconcileService) Get(ctx context.Context, uid, providerAccountID string) (*models.Account, error) {
	return s.accounts.Get(ctx, uid, providerAccountID)
}
