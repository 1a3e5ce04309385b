package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alphafinance/backend/internal/dto"
	"github.com/alphafinance/backend/internal/middleware"
	"github.com/alphafinance/backend/internal/models"
	"github.com/alphafinance/backend/internal/response"
)

type AccountService interface {
	List(ctx context.Context, uid string) ([]*models.Account, error)
	Get(ctx context.Context, uid, providerAccountID string) (*models.Account, error)
}

type AnalyticsService interface {
	Trends(ctx context.Context, uid, dateFrom, dateTo string) (dto.TrendsResult, error)
	Summary(ctx context.Context, uid string) (dto.AccountsSummary, error)
}

type accountHandlers struct {
	ResponseHandler response.ResponseHandler
	AccountSvc      AccountService
	AnalyticsSvc    AnalyticsService
	TransactionSvc  TransactionService
}

func NewAccountHandlers(deps *Deps) *accountHandlers {
	return &accountHandlers{
		ResponseHandler: deps.ResponseHandler,
		AccountSvc:      deps.AccountSvc,
		AnalyticsSvc:    deps.AnalyticsSvc,
		TransactionSvc:  deps.TransactionSvc,
	}
}

func (h *accountHandlers) AccountRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListAccounts)
	r.Get("/summary", h.AccountsSummary)
	r.Get("/{accountId}", h.GetAccount)
	r.Delete("/{accountId}", h.DeleteAccount)
	return r
}

func (h *accountHandlers) ListAccounts(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())

	accounts, err := h.AccountSvc.List(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, http.StatusOK, accounts)
}

func (h *accountHandlers) AccountsSummary(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())

	summary, err := h.AnalyticsSvc.Summary(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, http.StatusOK, summary)
}

func (h *accountHandlers) GetAccount(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	accountID := chi.URLParam(r, "accountId")

	account, err := h.AccountSvc.Get(r.Context(), uid, accountID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, http.StatusOK, account)
}

func (h *accountHandlers) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	accountID := chi.URLParam(r, "accountId")

	if err := h.TransactionSvc.DeleteAccount(r.Context(), uid, accountID); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, http.StatusOK, nil)
}
