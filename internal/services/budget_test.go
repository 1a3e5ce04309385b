package services

import (
	"context"
	"testing"
	"time"

	"github.com/alphafinance/backend/internal/dto"
	"github.com/alphafinance/backend/internal/errs"
	"github.com/alphafinance/backend/internal/models"
	"github.com/alphafinance/backend/pkg/helpers"
)

// --- fakes ---

type fakeBudgetStore struct {
	budgets []*models.Budget
	deleted []string
}

func (f *fakeBudgetStore) Create(ctx context.Context, uid string, b *models.Budget) error {
	f.budgets = append(f.budgets, b)
	return nil
}

func (f *fakeBudgetStore) Get(ctx context.Context, uid, budgetID string) (*models.Budget, error) {
	for _, b := range f.budgets {
		if b.BudgetID == budgetID {
			return b, nil
		}
	}
	return nil, errs.NewNotFoundError("budget not found")
}

func (f *fakeBudgetStore) List(ctx context.Context, uid string) ([]*models.Budget, error) {
	return f.budgets, nil
}

func (f *fakeBudgetStore) ListRecurring(ctx context.Context, uid string) ([]*models.Budget, error) {
	var out []*models.Budget
	for _, b := range f.budgets {
		if b.IsRecurring {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBudgetStore) ListRecurringEndingOn(ctx context.Context, uid, date string) ([]*models.Budget, error) {
	var out []*models.Budget
	for _, b := range f.budgets {
		if b.IsRecurring && b.EndDate == date {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBudgetStore) Update(ctx context.Context, uid string, b *models.Budget) error {
	for i, existing := range f.budgets {
		if existing.BudgetID == b.BudgetID {
			f.budgets[i] = b
			return nil
		}
	}
	return errs.NewNotFoundError("budget not found")
}

func (f *fakeBudgetStore) Delete(ctx context.Context, uid, budgetID string) error {
	f.deleted = append(f.deleted, budgetID)
	return nil
}

type fakeAlertCascade struct {
	deletedFor []string
}

func (f *fakeAlertCascade) DeleteByBudget(ctx context.Context, uid, budgetID string) error {
	f.deletedFor = append(f.deletedFor, budgetID)
	return nil
}

// --- tests ---

func TestCreateBudgetDefaultsDates(t *testing.T) {
	store := &fakeBudgetStore{}
	svc := NewBudgetService(store, &fakeAlertCascade{}, &fakeSummer{})
	svc.clockNow = func() time.Time { return time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC) }

	b, err := svc.Create(helpers.TestCtx(), "uid-1", dto.BudgetArgs{Category: "Food", Limit: 200})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if b.StartDate != "2025-03-01" {
		t.Fatalf("start date = %q", b.StartDate)
	}
	if b.EndDate != "2025-03-31" {
		t.Fatalf("end date = %q", b.EndDate)
	}
	if b.BudgetID == "" {
		t.Fatal("budget id not assigned")
	}
}

func TestCreateBudgetValidation(t *testing.T) {
	svc := NewBudgetService(&fakeBudgetStore{}, &fakeAlertCascade{}, &fakeSummer{})
	ctx := helpers.TestCtx()

	if _, err := svc.Create(ctx, "uid-1", dto.BudgetArgs{Limit: 100}); err == nil {
		t.Fatal("expected error for missing category")
	}
	if _, err := svc.Create(ctx, "uid-1", dto.BudgetArgs{Category: "Food"}); err == nil {
		t.Fatal("expected error for non-positive limit")
	}
	if _, err := svc.Create(ctx, "uid-1", dto.BudgetArgs{
		Category: "Food", Limit: 100, StartDate: "2025-02-01", EndDate: "2025-01-01",
	}); err == nil {
		t.Fatal("expected error for inverted date range")
	}
}

func TestBudgetStatusRecomputesSpend(t *testing.T) {
	store := &fakeBudgetStore{budgets: []*models.Budget{
		{BudgetID: "b1", Category: "Food", Limit: 100, StartDate: "2025-01-01", EndDate: "2025-01-31"},
		{BudgetID: "b2", Category: "Shopping", Limit: 50, StartDate: "2025-01-01", EndDate: "2025-01-31"},
	}}
	txs := &fakeSummer{totals: map[string]float64{"Food": -40, "Shopping": -75}}
	svc := NewBudgetService(store, &fakeAlertCascade{}, txs)

	statuses, err := svc.Status(helpers.TestCtx(), "uid-1")
	if err != nil {
		t.Fatalf("status error: %v", err)
	}
	if statuses[0].Spent != 40 || statuses[0].Status != "On Track" {
		t.Fatalf("unexpected food status: %+v", statuses[0])
	}
	if statuses[1].Spent != 75 || statuses[1].Status != "Over Budget" {
		t.Fatalf("unexpected shopping status: %+v", statuses[1])
	}
	if statuses[1].Remaining != -25 {
		t.Fatalf("remaining = %v, want -25", statuses[1].Remaining)
	}
}

func TestDeleteBudgetCascadesAlerts(t *testing.T) {
	store := &fakeBudgetStore{budgets: []*models.Budget{
		{BudgetID: "b1", Category: "Food", Limit: 100},
	}}
	alerts := &fakeAlertCascade{}
	svc := NewBudgetService(store, alerts, &fakeSummer{})

	if err := svc.Delete(helpers.TestCtx(), "uid-1", "b1"); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if len(alerts.deletedFor) != 1 || alerts.deletedFor[0] != "b1" {
		t.Fatalf("alerts not cascaded: %v", alerts.deletedFor)
	}
	if len(store.deleted) != 1 {
		t.Fatal("budget not deleted")
	}
}

func TestRollForwardCreatesSuccessor(t *testing.T) {
	store := &fakeBudgetStore{budgets: []*models.Budget{
		{
			BudgetID:        "b1",
			Category:        "Food",
			Limit:           300,
			CurrentSpending: 250,
			StartDate:       "2024-01-01",
			EndDate:         "2024-01-31",
			IsRecurring:     true,
		},
	}}
	svc := NewBudgetService(store, &fakeAlertCascade{}, &fakeSummer{})

	now := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	created, err := svc.RollForward(helpers.TestCtx(), "uid-1", now)
	if err != nil {
		t.Fatalf("roll forward error: %v", err)
	}
	if created != 1 {
		t.Fatalf("created %d, want 1", created)
	}

	successor := store.budgets[1]
	if successor.StartDate != "2024-02-01" {
		t.Fatalf("successor start = %q, want 2024-02-01", successor.StartDate)
	}
	if successor.EndDate != "2024-03-02" {
		t.Fatalf("successor end = %q, want 2024-03-02 (same 30-day span)", successor.EndDate)
	}
	if !successor.IsRecurring {
		t.Fatal("successor should stay recurring")
	}
	if successor.CurrentSpending != 0 {
		t.Fatalf("successor spending = %v, want 0", successor.CurrentSpending)
	}
	if successor.BudgetID == "b1" {
		t.Fatal("successor must be a new budget")
	}
}

func TestRollForwardIgnoresNonMatchingBudgets(t *testing.T) {
	store := &fakeBudgetStore{budgets: []*models.Budget{
		{BudgetID: "b1", Category: "Food", StartDate: "2024-01-01", EndDate: "2024-01-31", IsRecurring: false},
		{BudgetID: "b2", Category: "Food", StartDate: "2024-01-01", EndDate: "2024-02-15", IsRecurring: true},
	}}
	svc := NewBudgetService(store, &fakeAlertCascade{}, &fakeSummer{})

	now := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	created, err := svc.RollForward(helpers.TestCtx(), "uid-1", now)
	if err != nil {
		t.Fatalf("roll forward error: %v", err)
	}
	if created != 0 {
		t.Fatalf("created %d, want 0", created)
	}
}

func TestBudgetSummaryTotals(t *testing.T) {
	store := &fakeBudgetStore{budgets: []*models.Budget{
		{BudgetID: "b1", Limit: 100, CurrentSpending: 60},
		{BudgetID: "b2", Limit: 50, CurrentSpending: 10},
	}}
	svc := NewBudgetService(store, &fakeAlertCascade{}, &fakeSummer{})

	summary, err := svc.Summary(helpers.TestCtx(), "uid-1")
	if err != nil {
		t.Fatalf("summary error: %v", err)
	}
	if summary.TotalBudget != 150 || summary.TotalSpent != 70 || summary.Remaining != 80 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestUpdateBudgetPreservesRecurrenceWhenOmitted(t *testing.T) {
	store := &fakeBudgetStore{budgets: []*models.Budget{
		{BudgetID: "b1", Category: "Food", Limit: 100, IsRecurring: true, RecurrencePeriod: "monthly"},
	}}
	svc := NewBudgetService(store, &fakeAlertCascade{}, &fakeSummer{})

	b, err := svc.Update(helpers.TestCtx(), "uid-1", "b1", dto.BudgetArgs{Limit: 150})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if b.Limit != 150 {
		t.Fatalf("limit = %v, want 150", b.Limit)
	}
	if !b.IsRecurring || b.RecurrencePeriod != "monthly" {
		t.Fatalf("omitted recurrence fields were overwritten: %+v", b)
	}

	// An explicit false still takes effect.
	b, err = svc.Update(helpers.TestCtx(), "uid-1", "b1", dto.BudgetArgs{
		IsRecurring:      helpers.Ptr(false),
		RecurrencePeriod: helpers.Ptr(""),
	})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if b.IsRecurring || b.RecurrencePeriod != "" {
		t.Fatalf("explicit recurrence update not applied: %+v", b)
	}
}

func TestStopRecurring(t *testing.T) {
	store := &fakeBudgetStore{budgets: []*models.Budget{
		{BudgetID: "b1", Category: "Food", IsRecurring: true, RecurrencePeriod: "monthly"},
	}}
	svc := NewBudgetService(store, &fakeAlertCascade{}, &fakeSummer{})

	b, err := svc.StopRecurring(helpers.TestCtx(), "uid-1", "b1")
	if err != nil {
		t.Fatalf("stop recurring error: %v", err)
	}
	if b.IsRecurring || b.RecurrencePeriod != "" {
		t.Fatalf("recurrence not cleared: %+v", b)
	}

	if _, err := svc.StopRecurring(helpers.TestCtx(), "uid-1", "b1"); err == nil {
		t.Fatal("expected error for already non-recurring budget")
	}
}
