package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/alphafinance/backend/internal/dto"
	"github.com/alphafinance/backend/internal/errs"
	"github.com/alphafinance/backend/internal/models"
)

// --- Dependencies (minimal interfaces scoped to this service) ---

type transactionTSStore interface {
	Query(ctx context.Context, uid string, q dto.TransactionQuery, fn func(*models.Transaction) error) error
	Get(ctx context.Context, uid, transactionID string) (*models.Transaction, error)
	Create(ctx context.Context, uid string, t *models.Transaction) error
	UpdateCategory(ctx context.Context, uid, transactionID, category string) error
	BulkUpdateCategory(ctx context.Context, uid string, transactionIDs []string, category string) (int, error)
	DeleteByAccount(ctx context.Context, uid, providerAccountID string) error
}

type accountTSStore interface {
	Get(ctx context.Context, uid, providerAccountID string) (*models.Account, error)
	Delete(ctx context.Context, uid, providerAccountID string) error
	AdjustBalance(ctx context.Context, uid, providerAccountID string, delta float64) error
}

type categoryLearner interface {
	Resolve(ctx context.Context, uid, transactionName string) string
	Learn(ctx context.Context, uid, category, transactionName string) error
}

type transactionService struct {
	txs        transactionTSStore
	accounts   accountTSStore
	categories categoryLearner
	alerts     alertEvaluator
	clockNow   func() time.Time
}

func NewTransactionService(txs transactionTSStore, accounts accountTSStore, categories categoryLearner, alerts alertEvaluator) *transactionService {
	return &transactionService{
		txs:        txs,
		accounts:   accounts,
		categories: categories,
		alerts:     alerts,
		clockNow:   time.Now,
	}
}

// List returns one page of stored transactions. Filters apply in storage;
// paging happens here so the total count covers the whole filtered set.
func (s *transactionService) List(ctx context.Context, uid string, q dto.TransactionQuery, page, perPage int) (dto.TransactionPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	filters := q
	filters.Limit = 0
	filters.Offset = 0
	if filters.OrderBy == "" {
		filters.OrderBy = "date"
		filters.Desc = true
	}

	var all []models.Transaction
	err := s.txs.Query(ctx, uid, filters, func(t *models.Transaction) error {
		all = append(all, *t)
		return nil
	})
	if err != nil {
		return dto.TransactionPage{}, err
	}

	total := len(all)
	pages := (total + perPage - 1) / perPage
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	return dto.TransactionPage{
		Transactions: all[start:end],
		Total:        total,
		Page:         page,
		Pages:        pages,
	}, nil
}

// AddManual stores a hand-entered transaction, adjusts the owning account's
// balance, and re-evaluates budgets. The caller's sign convention matches
// storage: outflows negative.
func (s *transactionService) AddManual(ctx context.Context, uid string, args dto.AddTransactionArgs) (*models.Transaction, []models.BudgetAlert, error) {
	if args.AccountID == "" {
		return nil, nil, errs.NewValidationError("account id is required")
	}
	if args.Name == "" {
		return nil, nil, errs.NewValidationError("transaction name is required")
	}
	if args.Date == "" {
		args.Date = s.clockNow().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, args.Date); err != nil {
		return nil, nil, errs.NewValidationError("date must be YYYY-MM-DD")
	}

	if _, err := s.accounts.Get(ctx, uid, args.AccountID); err != nil {
		return nil, nil, err
	}

	category := args.Category
	if category == "" {
		category = s.categories.Resolve(ctx, uid, args.Name)
	}

	tx := &models.Transaction{
		TransactionID: uuid.NewString(),
		AccountID:     args.AccountID,
		Name:          args.Name,
		Amount:        args.Amount,
		Date:          args.Date,
		Category:      category,
	}
	if err := s.txs.Create(ctx, uid, tx); err != nil {
		return nil, nil, err
	}
	if err := s.accounts.AdjustBalance(ctx, uid, args.AccountID, args.Amount); err != nil {
		return nil, nil, err
	}

	alerts, err := s.alerts.Evaluate(ctx, uid)
	if err != nil {
		return nil, nil, err
	}
	return tx, alerts, nil
}

// UpdateCategory re-labels one transaction and teaches the resolver its
// name so future syncs categorize it directly.
func (s *transactionService) UpdateCategory(ctx context.Context, uid, transactionID, category string) (*models.Transaction, error) {
	if category == "" {
		return nil, errs.NewValidationError("category is required")
	}
	tx, err := s.txs.Get(ctx, uid, transactionID)
	if err != nil {
		return nil, err
	}
	if err := s.txs.UpdateCategory(ctx, uid, transactionID, category); err != nil {
		return nil, err
	}
	if err := s.categories.Learn(ctx, uid, category, tx.Name); err != nil {
		return nil, err
	}
	tx.Category = category
	return tx, nil
}

// BulkUpdateCategory re-labels many transactions. Returns the number of
// rows actually updated; missing rows are skipped.
func (s *transactionService) BulkUpdateCategory(ctx context.Context, uid string, transactionIDs []string, category string) (int, error) {
	if category == "" {
		return 0, errs.NewValidationError("category is required")
	}
	if len(transactionIDs) == 0 {
		return 0, errs.NewValidationError("transaction ids are required")
	}
	return s.txs.BulkUpdateCategory(ctx, uid, transactionIDs, category)
}

// DeleteAccount removes an account and all its transactions.
func (s *transactionService) DeleteAccount(ctx context.Context, uid, providerAccountID string) error {
	if _, err := s.accounts.Get(ctx, uid, providerAccountID); err != nil {
		return err
	}
	if err := s.txs.DeleteByAccount(ctx, uid, providerAccountID); err != nil {
		return err
	}
	return s.accounts.Delete(ctx, uid, providerAccountID)
}
