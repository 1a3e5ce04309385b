package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alphafinance/backend/internal/models"
	"github.com/alphafinance/backend/pkg/logger"
)

// --- Dependencies (minimal interfaces scoped to this service) ---

type budgetALStore interface {
	List(ctx context.Context, uid string) ([]*models.Budget, error)
	SetSpending(ctx context.Context, uid, budgetID string, spending float64) error
}

type alertALStore interface {
	CreateIfNone(ctx context.Context, uid string, alert *models.BudgetAlert) (bool, error)
	ListUnread(ctx context.Context, uid string) ([]*models.BudgetAlert, error)
	MarkRead(ctx context.Context, uid, alertID string) error
}

type spendSummer interface {
	SumByCategoryRange(ctx context.Context, uid, category, dateFrom, dateTo string) (float64, error)
}

type alertService struct {
	budgets  budgetALStore
	alerts   alertALStore
	txs      spendSummer
	clockNow func() time.Time
}

func NewAlertService(budgets budgetALStore, alerts alertALStore, txs spendSummer) *alertService {
	return &alertService{
		budgets:  budgets,
		alerts:   alerts,
		txs:      txs,
		clockNow: time.Now,
	}
}

// Evaluate recomputes every budget's spend position from stored transactions
// and fires threshold alerts. An alert fires once per unread (budget, type)
// pair; marking it read arms the threshold again. A failure on one budget is
// logged and does not stop the others. Returns the alerts created this pass.
func (s *alertService) Evaluate(ctx context.Context, uid string) ([]models.BudgetAlert, error) {
	log := logger.FromContext(ctx)

	budgets, err := s.budgets.List(ctx, uid)
	if err != nil {
		return nil, err
	}

	var created []models.BudgetAlert
	for _, b := range budgets {
		alert, err := s.evaluateOne(ctx, uid, b)
		if err != nil {
			log.Error("budget evaluation failed", "budget_id", b.BudgetID, "error", err)
			continue
		}
		if alert != nil {
			created = append(created, *alert)
		}
	}
	return created, nil
}

func (s *alertService) evaluateOne(ctx context.Context, uid string, b *models.Budget) (*models.BudgetAlert, error) {
	if b.Limit <= 0 {
		return nil, nil
	}

	total, err := s.txs.SumByCategoryRange(ctx, uid, b.Category, b.StartDate, b.EndDate)
	if err != nil {
		return nil, err
	}
	spending := spendAmount(total)
	if err := s.budgets.SetSpending(ctx, uid, b.BudgetID, spending); err != nil {
		return nil, err
	}

	percentage := spending / b.Limit * 100
	var alertType, message string
	switch {
	case percentage >= 100:
		alertType = models.AlertTypeOver
		message = fmt.Sprintf("You've exceeded your %s budget by %.1f%%.", b.Category, percentage-100)
	case percentage >= 80:
		alertType = models.AlertTypeEighty
		message = fmt.Sprintf("You've spent %.1f%% of your %s budget.", percentage, b.Category)
	default:
		return nil, nil
	}

	alert := &models.BudgetAlert{
		AlertID:   uuid.NewString(),
		BudgetID:  b.BudgetID,
		Category:  b.Category,
		AlertType: alertType,
		Message:   message,
		IsRead:    false,
		CreatedAt: s.clockNow(),
	}
	stored, err := s.alerts.CreateIfNone(ctx, uid, alert)
	if err != nil {
		return nil, err
	}
	if !stored {
		return nil, nil
	}
	return alert, nil
}

func (s *alertService) Unread(ctx context.Context, uid string) ([]*models.BudgetAlert, error) {
	return s.alerts.ListUnread(ctx, uid)
}

func (s *alertService) MarkRead(ctx context.Context, uid, alertID string) error {
	return s.alerts.MarkRead(ctx, uid, alertID)
}
