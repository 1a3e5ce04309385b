package services

import (
	"context"
	"fmt"

	"github.com/alphafinance/backend/internal/dto"
	"github.com/alphafinance/backend/internal/errs"
	"github.com/alphafinance/backend/internal/models"
	"github.com/alphafinance/backend/pkg/logger"
)

// maxTransactionPages bounds the provider pagination loop. 32 pages at 500
// rows each is far beyond any real feed; hitting it means the provider's
// total count is lying.
const maxTransactionPages = 32

// --- Dependencies (minimal interfaces scoped to this service) ---

type transactionISStore interface {
	Existing(ctx context.Context, uid string, providerIDs []string) (map[string]struct{}, error)
	CreateBatch(ctx context.Context, uid string, txs []models.Transaction) error
}

type accountISStore interface {
	List(ctx context.Context, uid string) ([]*models.Account, error)
}

type transactionLister interface {
	ListTransactions(ctx context.Context, accessToken, startDate, endDate string, offset int) (dto.ProviderTransactionsPage, error)
}

type categoryResolver interface {
	Resolve(ctx context.Context, uid, transactionName string) string
}

type ingestService struct {
	provider   transactionLister
	txs        transactionISStore
	accounts   accountISStore
	categories categoryResolver
}

func NewIngestService(provider transactionLister, txs transactionISStore, accounts accountISStore, categories categoryResolver) *ingestService {
	return &ingestService{
		provider:   provider,
		txs:        txs,
		accounts:   accounts,
		categories: categories,
	}
}

// Ingest pulls the provider's transaction feed for the date window and
// stores the rows not seen before. The whole batch commits atomically, so a
// failed run leaves no partial state and the next run re-ingests cleanly.
// Returns the number of rows stored.
//
// Amounts are inverted on the way in: the provider reports outflows as
// positive, storage keeps them negative.
func (s *ingestService) Ingest(ctx context.Context, uid, accessToken, startDate, endDate string) (int, error) {
	log := logger.FromContext(ctx)

	var fetched []dto.ProviderTransaction
	offset := 0
	for page := 0; ; page++ {
		if page >= maxTransactionPages {
			return 0, errs.NewProviderError(
				fmt.Sprintf("transaction feed exceeded %d pages", maxTransactionPages), false, nil)
		}
		resp, err := s.provider.ListTransactions(ctx, accessToken, startDate, endDate, offset)
		if err != nil {
			return 0, err
		}
		fetched = append(fetched, resp.Transactions...)
		offset = len(fetched)
		if offset >= resp.Total {
			break
		}
		// An empty page short of the reported total means the feed is
		// incomplete; committing it would look like a successful sync.
		if len(resp.Transactions) == 0 {
			return 0, errs.NewProviderError(
				fmt.Sprintf("transaction feed ended at %d of %d reported rows", offset, resp.Total), false, nil)
		}
	}
	if len(fetched) == 0 {
		return 0, nil
	}

	for _, tx := range fetched {
		if err := tx.Validate(); err != nil {
			return 0, errs.NewProviderError("malformed transaction: "+err.Error(), false, err)
		}
	}

	ids := make([]string, len(fetched))
	for i, tx := range fetched {
		ids[i] = tx.ProviderTransactionID
	}
	existing, err := s.txs.Existing(ctx, uid, ids)
	if err != nil {
		return 0, err
	}

	stored, err := s.accounts.List(ctx, uid)
	if err != nil {
		return 0, err
	}
	known := make(map[string]struct{}, len(stored))
	for _, a := range stored {
		known[a.ProviderAccountID] = struct{}{}
	}

	rows := make([]models.Transaction, 0, len(fetched))
	for _, tx := range fetched {
		if _, seen := existing[tx.ProviderTransactionID]; seen {
			continue
		}
		if _, ok := known[tx.ProviderAccountID]; !ok {
			log.Warn("skipping transaction for unknown account",
				"provider_transaction_id", tx.ProviderTransactionID,
				"provider_account_id", tx.ProviderAccountID)
			continue
		}

		category := tx.Category
		if category == "" {
			category = s.categories.Resolve(ctx, uid, tx.Name)
		}

		rows = append(rows, models.Transaction{
			TransactionID:         tx.ProviderTransactionID,
			ProviderTransactionID: tx.ProviderTransactionID,
			AccountID:             tx.ProviderAccountID,
			Name:                  tx.Name,
			Amount:                -tx.Amount,
			Currency:              tx.Currency,
			Pending:               tx.Pending,
			Date:                  tx.Date,
			AuthorizedDate:        tx.AuthorizedDate,
			Category:              category,
			Subcategory:           tx.Subcategory,
			MerchantName:          tx.MerchantName,
			PaymentChannel:        tx.PaymentChannel,
			LocationCity:          tx.LocationCity,
			LocationRegion:        tx.LocationRegion,
			LocationCountry:       tx.LocationCountry,
			LogoURL:               tx.LogoURL,
			Website:               tx.Website,
		})
	}

	if len(rows) == 0 {
		log.Info("transaction feed ingested", "fetched", len(fetched), "stored", 0)
		return 0, nil
	}
	if err := s.txs.CreateBatch(ctx, uid, rows); err != nil {
		return 0, err
	}
	log.Info("transaction feed ingested", "fetched", len(fetched), "stored", len(rows))
	return len(rows), nil
}
