package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alphafinance/backend/internal/dto"
	"github.com/alphafinance/backend/internal/errs"
	"github.com/alphafinance/backend/internal/middleware"
	"github.com/alphafinance/backend/internal/models"
	"github.com/alphafinance/backend/internal/response"
)

type BudgetService interface {
	Create(ctx context.Context, uid string, args dto.BudgetArgs) (*models.Budget, error)
	List(ctx context.Context, uid string) ([]*models.Budget, error)
	Recurring(ctx context.Context, uid string) ([]*models.Budget, error)
	StopRecurring(ctx context.Context, uid, budgetID string) (*models.Budget, error)
	Update(ctx context.Context, uid, budgetID string, args dto.BudgetArgs) (*models.Budget, error)
	Delete(ctx context.Context, uid, budgetID string) error
	Status(ctx context.Context, uid string) ([]dto.BudgetStatus, error)
	Summary(ctx context.Context, uid string) (dto.BudgetSummary, error)
}

type AlertService interface {
	Evaluate(ctx context.Context, uid string) ([]models.BudgetAlert, error)
	Unread(ctx context.Context, uid string) ([]*models.BudgetAlert, error)
	MarkRead(ctx context.Context, uid, alertID string) error
}

type budgetHandlers struct {
	ResponseHandler response.ResponseHandler
	BudgetSvc       BudgetService
	AlertSvc        AlertService
}

func NewBudgetHandlers(deps *Deps) *budgetHandlers {
	return &budgetHandlers{
		ResponseHandler: deps.ResponseHandler,
		BudgetSvc:       deps.BudgetSvc,
		AlertSvc:        deps.AlertSvc,
	}
}

func (h *budgetHandlers) BudgetRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateBudget)
	r.Get("/", h.ListBudgets)
	r.Put("/{budgetId}", h.UpdateBudget)
	r.Delete("/{budgetId}", h.DeleteBudget)
	r.Get("/status", h.BudgetStatus)
	r.Get("/summary", h.BudgetSummary)
	r.Get("/recurring", h.RecurringBudgets)
	r.Post("/{budgetId}/stop-recurring", h.StopRecurring)
	r.Route("/alerts", func(r chi.Router) {
		r.Get("/", h.UnreadAlerts)
		r.Post("/check", h.CheckAlerts)
		r.Put("/{alertId}/read", h.MarkAlertRead)
	})
	return r
}

func decodeBudgetArgs(r *http.Request) (dto.BudgetArgs, error) {
	var body struct {
		Category         string  `json:"category"`
		Limit            float64 `json:"limit"`
		StartDate        string  `json:"startDate,omitempty"`
		EndDate          string  `json:"endDate,omitempty"`
		IsRecurring      *bool   `json:"isRecurring,omitempty"`
		RecurrencePeriod *string `json:"recurrencePeriod,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return dto.BudgetArgs{}, errs.NewValidationError("invalid request body")
	}
	return dto.BudgetArgs{
		Category:         body.Category,
		Limit:            body.Limit,
		StartDate:        body.StartDate,
		EndDate:          body.EndDate,
		IsRecurring:      body.IsRecurring,
		RecurrencePeriod: body.RecurrencePeriod,
	}, nil
}

func (h *budgetHandlers) CreateBudget(w http.ResponseWriter, r *http.Request) {
	args, err := decodeBudgetArgs(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	uid := middleware.UID(r.Context())
	budget, err := h.BudgetSvc.Create(r.Context(), uid, args)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, http.StatusCreated, budget)
}

func (h *budgetHandlers) ListBudgets(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())

	budgets, err := h.BudgetSvc.List(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, http.StatusOK, budgets)
}

func (h *budgetHandlers) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	args, err := decodeBudgetArgs(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	uid := middleware.UID(r.Context())
	budgetID := chi.URLParam(r, "budgetId")

	budget, err := h.BudgetSvc.Update(r.Context(), uid, budgetID, args)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, http.StatusOK, budget)
}

func (h *budgetHandlers) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	budgetID := chi.URLParam(r, "budgetId")

	if err := h.BudgetSvc.Delete(r.Context(), uid, budgetID); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, http.StatusOK, nil)
}

func (h *budgetHandlers) RecurringBudgets(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())

	budgets, err := h.BudgetSvc.Recurring(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, http.StatusOK, budgets)
}

func (h *budgetHandlers) StopRecurring(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	budgetID := chi.URLParam(r, "budgetId")

	budget, err := h.BudgetSvc.StopRecurring(r.Context(), uid, budgetID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, http.StatusOK, budget)
}

func (h *budgetHandlers) BudgetStatus(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())

	statuses, err := h.BudgetSvc.Status(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, http.StatusOK, statuses)
}

func (h *budgetHandlers) BudgetSummary(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())

	summary, err := h.BudgetSvc.Summary(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, http.StatusOK, summary)
}

func (h *budgetHandlers) UnreadAlerts(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())

	alerts, err := h.AlertSvc.Unread(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, http.StatusOK, alerts)
}

func (h *budgetHandlers) CheckAlerts(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())

	created, err := h.AlertSvc.Evaluate(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, http.StatusOK, created)
}

func (h *budgetHandlers) MarkAlertRead(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	alertID := chi.URLParam(r, "alertId")

	if err := h.AlertSvc.MarkRead(r.Context(), uid, alertID); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, http.StatusOK, nil)
}
