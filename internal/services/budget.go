package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/alphafinance/backend/internal/dto"
	"github.com/alphafinance/backend/internal/errs"
	"github.com/alphafinance/backend/internal/models"
	"github.com/alphafinance/backend/pkg/helpers"
	"github.com/alphafinance/backend/pkg/logger"
)

const dateLayout = "2006-01-02"

// --- Dependencies (minimal interfaces scoped to this service) ---

type budgetBSStore interface {
	Create(ctx context.Context, uid string, b *models.Budget) error
	Get(ctx context.Context, uid, budgetID string) (*models.Budget, error)
	List(ctx context.Context, uid string) ([]*models.Budget, error)
	ListRecurring(ctx context.Context, uid string) ([]*models.Budget, error)
	ListRecurringEndingOn(ctx context.Context, uid, date string) ([]*models.Budget, error)
	Update(ctx context.Context, uid string, b *models.Budget) error
	Delete(ctx context.Context, uid, budgetID string) error
}

type alertBSStore interface {
	DeleteByBudget(ctx context.Context, uid, budgetID string) error
}

type budgetService struct {
	budgets  budgetBSStore
	alerts   alertBSStore
	txs      spendSummer
	clockNow func() time.Time
}

func NewBudgetService(budgets budgetBSStore, alerts alertBSStore, txs spendSummer) *budgetService {
	return &budgetService{
		budgets:  budgets,
		alerts:   alerts,
		txs:      txs,
		clockNow: time.Now,
	}
}

// Create stores a new budget. Empty dates default to a 30-day window
// starting today.
func (s *budgetService) Create(ctx context.Context, uid string, args dto.BudgetArgs) (*models.Budget, error) {
	if args.Category == "" {
		return nil, errs.NewValidationError("budget category is required")
	}
	if args.Limit <= 0 {
		return nil, errs.NewValidationError("budget limit must be positive")
	}

	today := s.clockNow().Format(dateLayout)
	startDate := args.StartDate
	if startDate == "" {
		startDate = today
	}
	endDate := args.EndDate
	if endDate == "" {
		endDate = s.clockNow().AddDate(0, 0, 30).Format(dateLayout)
	}
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, errs.NewValidationError("start date must be YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return nil, errs.NewValidationError("end date must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, errs.NewValidationError("end date precedes start date")
	}

	budget := &models.Budget{
		BudgetID:         uuid.NewString(),
		Category:         args.Category,
		Limit:            args.Limit,
		StartDate:        startDate,
		EndDate:          endDate,
		IsRecurring:      helpers.Value(args.IsRecurring),
		RecurrencePeriod: helpers.Value(args.RecurrencePeriod),
	}
	if err := s.budgets.Create(ctx, uid, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

func (s *budgetService) List(ctx context.Context, uid string) ([]*models.Budget, error) {
	return s.budgets.List(ctx, uid)
}

func (s *budgetService) Recurring(ctx context.Context, uid string) ([]*models.Budget, error) {
	return s.budgets.ListRecurring(ctx, uid)
}

// StopRecurring keeps the budget through its current window but stops the
// roll-forward from spawning successors.
func (s *budgetService) StopRecurring(ctx context.Context, uid, budgetID string) (*models.Budget, error) {
	budget, err := s.budgets.Get(ctx, uid, budgetID)
	if err != nil {
		return nil, err
	}
	if !budget.IsRecurring {
		return nil, errs.NewValidationError("budget is not recurring")
	}
	budget.IsRecurring = false
	budget.RecurrencePeriod = ""
	if err := s.budgets.Update(ctx, uid, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

func (s *budgetService) Update(ctx context.Context, uid, budgetID string, args dto.BudgetArgs) (*models.Budget, error) {
	budget, err := s.budgets.Get(ctx, uid, budgetID)
	if err != nil {
		return nil, err
	}
	if args.Category != "" {
		budget.Category = args.Category
	}
	if args.Limit > 0 {
		budget.Limit = args.Limit
	}
	if args.StartDate != "" {
		budget.StartDate = args.StartDate
	}
	if args.EndDate != "" {
		budget.EndDate = args.EndDate
	}
	if args.IsRecurring != nil {
		budget.IsRecurring = *args.IsRecurring
	}
	if args.RecurrencePeriod != nil {
		budget.RecurrencePeriod = *args.RecurrencePeriod
	}
	if err := s.budgets.Update(ctx, uid, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// Delete removes the budget and its attached alerts.
func (s *budgetService) Delete(ctx context.Context, uid, budgetID string) error {
	if _, err := s.budgets.Get(ctx, uid, budgetID); err != nil {
		return err
	}
	if err := s.alerts.DeleteByBudget(ctx, uid, budgetID); err != nil {
		return err
	}
	return s.budgets.Delete(ctx, uid, budgetID)
}

// Status returns every budget with its spend position recomputed from
// stored transactions, not from the cached currentSpending.
func (s *budgetService) Status(ctx context.Context, uid string) ([]dto.BudgetStatus, error) {
	budgets, err := s.budgets.List(ctx, uid)
	if err != nil {
		return nil, err
	}
	statuses := make([]dto.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		total, err := s.txs.SumByCategoryRange(ctx, uid, b.Category, b.StartDate, b.EndDate)
		if err != nil {
			return nil, err
		}
		spent := spendAmount(total)
		remaining := b.Limit - spent
		status := "On Track"
		if remaining <= 0 {
			status = "Over Budget"
		}
		statuses = append(statuses, dto.BudgetStatus{
			BudgetID:         b.BudgetID,
			Category:         b.Category,
			Limit:            b.Limit,
			Spent:            spent,
			Remaining:        remaining,
			Status:           status,
			StartDate:        b.StartDate,
			EndDate:          b.EndDate,
			IsRecurring:      b.IsRecurring,
			RecurrencePeriod: b.RecurrencePeriod,
		})
	}
	return statuses, nil
}

// Summary totals limits and cached spend across all budgets.
func (s *budgetService) Summary(ctx context.Context, uid string) (dto.BudgetSummary, error) {
	budgets, err := s.budgets.List(ctx, uid)
	if err != nil {
		return dto.BudgetSummary{}, err
	}
	var summary dto.BudgetSummary
	for _, b := range budgets {
		summary.TotalBudget += b.Limit
		summary.TotalSpent += b.CurrentSpending
	}
	summary.Remaining = summary.TotalBudget - summary.TotalSpent
	return summary, nil
}

// RollForward creates successors for recurring budgets whose window closes
// on the given day. The successor starts the next day, spans the same
// number of days, and begins with zero spend.
func (s *budgetService) RollForward(ctx context.Context, uid string, now time.Time) (int, error) {
	today := now.Format(dateLayout)
	ending, err := s.budgets.ListRecurringEndingOn(ctx, uid, today)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, b := range ending {
		start, err := time.Parse(dateLayout, b.StartDate)
		if err != nil {
			logger.FromContext(ctx).Error("recurring budget has bad start date",
				"budget_id", b.BudgetID, "start_date", b.StartDate)
			continue
		}
		end, err := time.Parse(dateLayout, b.EndDate)
		if err != nil {
			logger.FromContext(ctx).Error("recurring budget has bad end date",
				"budget_id", b.BudgetID, "end_date", b.EndDate)
			continue
		}

		windowDays := int(end.Sub(start).Hours() / 24)
		newStart := end.AddDate(0, 0, 1)
		newEnd := newStart.AddDate(0, 0, windowDays)

		successor := &models.Budget{
			BudgetID:         uuid.NewString(),
			Category:         b.Category,
			Limit:            b.Limit,
			StartDate:        newStart.Format(dateLayout),
			EndDate:          newEnd.Format(dateLayout),
			IsRecurring:      true,
			RecurrencePeriod: b.RecurrencePeriod,
		}
		if err := s.budgets.Create(ctx, uid, successor); err != nil {
			return created, err
		}
		created++
	}
	if created > 0 {
		logger.FromContext(ctx).Info("recurring budgets rolled forward", "count", created)
	}
	return created, nil
}
