package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alphafinance/backend/internal/models"
	"github.com/alphafinance/backend/pkg/helpers"
)

// --- fakes ---

type fakeBudgetAlertStore struct {
	budgets  []*models.Budget
	spending map[string]float64
	listErr  error
}

func (f *fakeBudgetAlertStore) List(ctx context.Context, uid string) ([]*models.Budget, error) {
	return f.budgets, f.listErr
}

func (f *fakeBudgetAlertStore) SetSpending(ctx context.Context, uid, budgetID string, spending float64) error {
	if f.spending == nil {
		f.spending = map[string]float64{}
	}
	f.spending[budgetID] = spending
	return nil
}

type fakeAlertStore struct {
	unread    map[string]bool // budgetID|alertType -> unread alert exists
	created   []*models.BudgetAlert
	createErr error
}

func (f *fakeAlertStore) CreateIfNone(ctx context.Context, uid string, alert *models.BudgetAlert) (bool, error) {
	if f.createErr != nil {
		return false, f.createErr
	}
	key := alert.BudgetID + "|" + alert.AlertType
	if f.unread[key] {
		return false, nil
	}
	if f.unread == nil {
		f.unread = map[string]bool{}
	}
	f.unread[key] = true
	f.created = append(f.created, alert)
	return true, nil
}

func (f *fakeAlertStore) ListUnread(ctx context.Context, uid string) ([]*models.BudgetAlert, error) {
	return f.created, nil
}

func (f *fakeAlertStore) MarkRead(ctx context.Context, uid, alertID string) error {
	for _, a := range f.created {
		if a.AlertID == alertID {
			a.IsRead = true
			f.unread[a.BudgetID+"|"+a.AlertType] = false
			return nil
		}
	}
	return nil
}

type fakeSummer struct {
	totals map[string]float64 // category -> stored sum
	err    error
}

func (f *fakeSummer) SumByCategoryRange(ctx context.Context, uid, category, dateFrom, dateTo string) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.totals[category], nil
}

func budgetFixture(id, category string, limit float64) *models.Budget {
	return &models.Budget{
		BudgetID:  id,
		Category:  category,
		Limit:     limit,
		StartDate: "2025-01-01",
		EndDate:   "2025-01-31",
	}
}

// --- tests ---

func TestEvaluateFiresEightyPercentAlert(t *testing.T) {
	budgets := &fakeBudgetAlertStore{budgets: []*models.Budget{budgetFixture("b1", "Food", 100)}}
	alerts := &fakeAlertStore{}
	// Stored sum -85 means 85 spent.
	txs := &fakeSummer{totals: map[string]float64{"Food": -85}}

	svc := NewAlertService(budgets, alerts, txs)
	svc.clockNow = func() time.Time { return time.Unix(1000, 0) }

	created, err := svc.Evaluate(helpers.TestCtx(), "uid-1")
	if err != nil {
		t.Fatalf("evaluate error: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("created %d alerts, want 1", len(created))
	}
	a := created[0]
	if a.AlertType != models.AlertTypeEighty {
		t.Fatalf("alert type = %q, want %q", a.AlertType, models.AlertTypeEighty)
	}
	if a.Message != "You've spent 85.0% of your Food budget." {
		t.Fatalf("unexpected message: %q", a.Message)
	}
	if budgets.spending["b1"] != 85 {
		t.Fatalf("cached spending = %v, want 85", budgets.spending["b1"])
	}
}

func TestEvaluateFiresOverBudgetAlert(t *testing.T) {
	budgets := &fakeBudgetAlertStore{budgets: []*models.Budget{budgetFixture("b1", "Food", 100)}}
	alerts := &fakeAlertStore{}
	txs := &fakeSummer{totals: map[string]float64{"Food": -112.5}}

	svc := NewAlertService(budgets, alerts, txs)
	created, err := svc.Evaluate(helpers.TestCtx(), "uid-1")
	if err != nil {
		t.Fatalf("evaluate error: %v", err)
	}
	if len(created) != 1 || created[0].AlertType != models.AlertTypeOver {
		t.Fatalf("expected one over-budget alert, got %+v", created)
	}
	if !strings.Contains(created[0].Message, "exceeded your Food budget by 12.5%") {
		t.Fatalf("unexpected message: %q", created[0].Message)
	}
}

func TestEvaluateDoesNotDuplicateUnreadAlert(t *testing.T) {
	budgets := &fakeBudgetAlertStore{budgets: []*models.Budget{budgetFixture("b1", "Food", 100)}}
	alerts := &fakeAlertStore{}
	txs := &fakeSummer{totals: map[string]float64{"Food": -85}}

	svc := NewAlertService(budgets, alerts, txs)
	ctx := helpers.TestCtx()

	first, _ := svc.Evaluate(ctx, "uid-1")
	second, _ := svc.Evaluate(ctx, "uid-1")
	if len(first) != 1 {
		t.Fatalf("first pass created %d, want 1", len(first))
	}
	if len(second) != 0 {
		t.Fatalf("second pass created %d, want 0", len(second))
	}
}

func TestEvaluateRefiresAfterAlertRead(t *testing.T) {
	budgets := &fakeBudgetAlertStore{budgets: []*models.Budget{budgetFixture("b1", "Food", 100)}}
	alerts := &fakeAlertStore{}
	txs := &fakeSummer{totals: map[string]float64{"Food": -90}}

	svc := NewAlertService(budgets, alerts, txs)
	ctx := helpers.TestCtx()

	first, _ := svc.Evaluate(ctx, "uid-1")
	if len(first) != 1 {
		t.Fatalf("first pass created %d, want 1", len(first))
	}
	if err := svc.MarkRead(ctx, "uid-1", first[0].AlertID); err != nil {
		t.Fatalf("mark read error: %v", err)
	}
	again, _ := svc.Evaluate(ctx, "uid-1")
	if len(again) != 1 {
		t.Fatalf("post-read pass created %d, want 1", len(again))
	}
}

func TestEvaluateSkipsNonPositiveLimit(t *testing.T) {
	budgets := &fakeBudgetAlertStore{budgets: []*models.Budget{budgetFixture("b1", "Food", 0)}}
	alerts := &fakeAlertStore{}
	txs := &fakeSummer{totals: map[string]float64{"Food": -500}}

	svc := NewAlertService(budgets, alerts, txs)
	created, err := svc.Evaluate(helpers.TestCtx(), "uid-1")
	if err != nil {
		t.Fatalf("evaluate error: %v", err)
	}
	if len(created) != 0 {
		t.Fatalf("created %d alerts for zero-limit budget, want 0", len(created))
	}
}

func TestEvaluateIsolatesPerBudgetFailures(t *testing.T) {
	budgets := &fakeBudgetAlertStore{budgets: []*models.Budget{
		budgetFixture("b1", "Broken", 100),
		budgetFixture("b2", "Food", 100),
	}}
	alerts := &fakeAlertStore{}
	txs := &brokenSummer{failCategory: "Broken", totals: map[string]float64{"Food": -85}}

	svc := NewAlertService(budgets, alerts, txs)
	created, err := svc.Evaluate(helpers.TestCtx(), "uid-1")
	if err != nil {
		t.Fatalf("evaluate error: %v", err)
	}
	if len(created) != 1 || created[0].BudgetID != "b2" {
		t.Fatalf("expected the healthy budget's alert, got %+v", created)
	}
}

type brokenSummer struct {
	failCategory string
	totals       map[string]float64
}

func (f *brokenSummer) SumByCategoryRange(ctx context.Context, uid, category, dateFrom, dateTo string) (float64, error) {
	if category == f.failCategory {
		return 0, errors.New("query failed")
	}
	return f.totals[category], nil
}
