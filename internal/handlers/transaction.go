package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/alphafinance/backend/internal/dto"
	"github.com/alphafinance/backend/internal/errs"
	"github.com/alphafinance/backend/internal/middleware"
	"github.com/alphafinance/backend/internal/models"
	"github.com/alphafinance/backend/internal/response"
)

type TransactionService interface {
	List(ctx context.Context, uid string, q dto.TransactionQuery, page, perPage int) (dto.TransactionPage, error)
	AddManual(ctx context.Context, uid string, args dto.AddTransactionArgs) (*models.Transaction, []models.BudgetAlert, error)
	UpdateCategory(ctx context.Context, uid, transactionID, category string) (*models.Transaction, error)
	BulkUpdateCategory(ctx context.Context, uid string, transactionIDs []string, category string) (int, error)
	DeleteAccount(ctx context.Context, uid, providerAccountID string) error
}

type transactionHandlers struct {
	ResponseHandler response.ResponseHandler
	TransactionSvc  TransactionService
}

func NewTransactionHandlers(deps *Deps) *transactionHandlers {
	return &transactionHandlers{
		ResponseHandler: deps.ResponseHandler,
		TransactionSvc:  deps.TransactionSvc,
	}
}

func (h *transactionHandlers) TransactionRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListTransactions)
	r.Post("/", h.AddTransaction)
	r.Put("/{transactionId}/category", h.UpdateCategory)
	r.Put("/categories", h.BulkUpdateCategory)
	return r
}

func (h *transactionHandlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())

	q := dto.TransactionQuery{}
	params := r.URL.Query()
	if v := params.Get("category"); v != "" {
		q.Category = &v
	}
	if v := params.Get("accountId"); v != "" {
		q.AccountID = &v
	}
	if v := params.Get("dateFrom"); v != "" {
		q.DateFrom = &v
	}
	if v := params.Get("dateTo"); v != "" {
		q.DateTo = &v
	}

	page := queryInt(params.Get("page"), 1)
	perPage := queryInt(params.Get("perPage"), 20)

	result, err := h.TransactionSvc.List(r.Context(), uid, q, page, perPage)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, http.StatusOK, result)
}

func (h *transactionHandlers) AddTransaction(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AccountID string  `json:"accountId"`
		Amount    float64 `json:"amount"`
		Date      string  `json:"date,omitempty"`
		Name      string  `json:"name"`
		Category  string  `json:"category,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}

	uid := middleware.UID(r.Context())
	tx, alerts, err := h.TransactionSvc.AddManual(r.Context(), uid, dto.AddTransactionArgs{
		AccountID: body.AccountID,
		Amount:    body.Amount,
		Date:      body.Date,
		Name:      body.Name,
		Category:  body.Category,
	})
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, http.StatusCreated, map[string]any{
		"transaction":  tx,
		"budgetAlerts": alerts,
	})
}

func (h *transactionHandlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}

	uid := middleware.UID(r.Context())
	transactionID := chi.URLParam(r, "transactionId")

	tx, err := h.TransactionSvc.UpdateCategory(r.Context(), uid, transactionID, body.Category)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, http.StatusOK, tx)
}

func (h *transactionHandlers) BulkUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TransactionIDs []string `json:"transactionIds"`
		Category       string   `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}

	uid := middleware.UID(r.Context())
	updated, err := h.TransactionSvc.BulkUpdateCategory(r.Context(), uid, body.TransactionIDs, body.Category)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, http.StatusOK, map[string]int{"updated": updated})
}

func queryInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
