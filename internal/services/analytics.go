package services

import (
	"context"

	"github.com/alphafinance/backend/internal/dto"
	"github.com/alphafinance/backend/internal/models"
)

// spendAmount converts a stored amount total into a spend magnitude.
// Storage keeps outflows negative, so spend is the negated sum. Every spend
// figure in the system (budget positions, trends, summaries) goes through
// this one derivation.
func spendAmount(total float64) float64 {
	return -total
}

// --- Dependencies (minimal interfaces scoped to this service) ---

type transactionASStore interface {
	Query(ctx context.Context, uid string, q dto.TransactionQuery, fn func(*models.Transaction) error) error
}

type accountASStore interface {
	List(ctx context.Context, uid string) ([]*models.Account, error)
}

type analyticsService struct {
	txs      transactionASStore
	accounts accountASStore
}

func NewAnalyticsService(txs transactionASStore, accounts accountASStore) *analyticsService {
	return &analyticsService{txs: txs, accounts: accounts}
}

// Trends aggregates spend per category over an inclusive date range.
// Categories whose transactions net to an inflow are dropped.
func (s *analyticsService) Trends(ctx context.Context, uid, dateFrom, dateTo string) (dto.TrendsResult, error) {
	totals := map[string]float64{}
	err := s.txs.Query(ctx, uid, dto.TransactionQuery{
		DateFrom: &dateFrom,
		DateTo:   &dateTo,
	}, func(t *models.Transaction) error {
		totals[t.Category] += t.Amount
		return nil
	})
	if err != nil {
		return dto.TrendsResult{}, err
	}

	categories := make(map[string]float64, len(totals))
	for category, total := range totals {
		if spend := spendAmount(total); spend > 0 {
			categories[category] = spend
		}
	}
	return dto.TrendsResult{
		From:       dateFrom,
		To:         dateTo,
		Categories: categories,
	}, nil
}

// Summary totals balances across every stored account.
func (s *analyticsService) Summary(ctx context.Context, uid string) (dto.AccountsSummary, error) {
	accounts, err := s.accounts.List(ctx, uid)
	if err != nil {
		return dto.AccountsSummary{}, err
	}
	summary := dto.AccountsSummary{NumberOfAccounts: len(accounts)}
	for _, a := range accounts {
		summary.TotalBalance += a.Balance
	}
	return summary, nil
}
