package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alphafinance/backend/internal/dto"
	"github.com/alphafinance/backend/internal/errs"
	"github.com/alphafinance/backend/internal/models"
)

type stubBudgetService struct {
	createdArgs dto.BudgetArgs
	budget      *models.Budget
	err         error
}

func (s *stubBudgetService) Create(ctx context.Context, uid string, args dto.BudgetArgs) (*models.Budget, error) {
	s.createdArgs = args
	return s.budget, s.err
}

func (s *stubBudgetService) List(ctx context.Context, uid string) ([]*models.Budget, error) {
	return []*models.Budget{s.budget}, s.err
}

func (s *stubBudgetService) Recurring(ctx context.Context, uid string) ([]*models.Budget, error) {
	return []*models.Budget{s.budget}, s.err
}

func (s *stubBudgetService) StopRecurring(ctx context.Context, uid, budgetID string) (*models.Budget, error) {
	return s.budget, s.err
}

func (s *stubBudgetService) Update(ctx context.Context, uid, budgetID string, args dto.BudgetArgs) (*models.Budget, error) {
	return s.budget, s.err
}

func (s *stubBudgetService) Delete(ctx context.Context, uid, budgetID string) error {
	return s.err
}

func (s *stubBudgetService) Status(ctx context.Context, uid string) ([]dto.BudgetStatus, error) {
	return nil, s.err
}

func (s *stubBudgetService) Summary(ctx context.Context, uid string) (dto.BudgetSummary, error) {
	return dto.BudgetSummary{}, s.err
}

type stubAlertService struct {
	evaluated bool
	marked    string
	alerts    []models.BudgetAlert
	err       error
}

func (s *stubAlertService) Evaluate(ctx context.Context, uid string) ([]models.BudgetAlert, error) {
	s.evaluated = true
	return s.alerts, s.err
}

func (s *stubAlertService) Unread(ctx context.Context, uid string) ([]*models.BudgetAlert, error) {
	return nil, s.err
}

func (s *stubAlertService) MarkRead(ctx context.Context, uid, alertID string) error {
	s.marked = alertID
	return s.err
}

func TestCreateBudgetHandlerSuccess(t *testing.T) {
	budgetSvc := &stubBudgetService{budget: &models.Budget{BudgetID: "b1", Category: "Food", Limit: 200}}
	resp := &stubResponseHandler{}
	h := NewBudgetHandlers(&Deps{ResponseHandler: resp, BudgetSvc: budgetSvc, AlertSvc: &stubAlertService{}})

	body := `{"category":"Food","limit":200,"isRecurring":true,"recurrencePeriod":"monthly"}`
	req := authedRequest(http.MethodPost, "/budgets", body, "uid-123")
	rr := httptest.NewRecorder()

	h.CreateBudget(rr, req)

	if budgetSvc.createdArgs.Category != "Food" || budgetSvc.createdArgs.Limit != 200 {
		t.Fatalf("unexpected args: %+v", budgetSvc.createdArgs)
	}
	if budgetSvc.createdArgs.IsRecurring == nil || !*budgetSvc.createdArgs.IsRecurring {
		t.Fatalf("recurrence not decoded: %+v", budgetSvc.createdArgs)
	}
	if budgetSvc.createdArgs.RecurrencePeriod == nil || *budgetSvc.createdArgs.RecurrencePeriod != "monthly" {
		t.Fatalf("recurrence period not decoded: %+v", budgetSvc.createdArgs)
	}
	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusCreated {
		t.Fatalf("expected 201 success write, got %d", resp.writeSuccessStatus)
	}
}

func TestCreateBudgetHandlerInvalidBody(t *testing.T) {
	resp := &stubResponseHandler{}
	h := NewBudgetHandlers(&Deps{ResponseHandler: resp, BudgetSvc: &stubBudgetService{}, AlertSvc: &stubAlertService{}})

	req := authedRequest(http.MethodPost, "/budgets", `{`, "uid-123")
	rr := httptest.NewRecorder()

	h.CreateBudget(rr, req)

	var ve *errs.ValidationError
	if !errors.As(resp.handleError, &ve) {
		t.Fatalf("expected ValidationError, got %v", resp.handleError)
	}
}

func TestCheckAlertsHandlerEvaluates(t *testing.T) {
	alertSvc := &stubAlertService{alerts: []models.BudgetAlert{{AlertID: "a1"}}}
	resp := &stubResponseHandler{}
	h := NewBudgetHandlers(&Deps{ResponseHandler: resp, BudgetSvc: &stubBudgetService{}, AlertSvc: alertSvc})

	req := authedRequest(http.MethodPost, "/budgets/alerts/check", "", "uid-123")
	rr := httptest.NewRecorder()

	h.CheckAlerts(rr, req)

	if !alertSvc.evaluated {
		t.Fatalf("expected evaluate to be called")
	}
	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected 200 success write, got %d", resp.writeSuccessStatus)
	}
}
