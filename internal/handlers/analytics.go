package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/alphafinance/backend/internal/middleware"
	"github.com/alphafinance/backend/internal/response"
)

type InsightsService interface {
	SpendingInsights(ctx context.Context, uid string) (string, error)
}

type analyticsHandlers struct {
	ResponseHandler response.ResponseHandler
	AnalyticsSvc    AnalyticsService
	InsightsSvc     InsightsService
}

func NewAnalyticsHandlers(deps *Deps) *analyticsHandlers {
	return &analyticsHandlers{
		ResponseHandler: deps.ResponseHandler,
		AnalyticsSvc:    deps.AnalyticsSvc,
		InsightsSvc:     deps.InsightsSvc,
	}
}

func (h *analyticsHandlers) AnalyticsRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/trends", h.SpendingTrends)
	r.Get("/insights", h.SpendingInsights)
	return r
}

func (h *analyticsHandlers) SpendingTrends(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())

	// Default window: trailing 30 days.
	now := time.Now()
	dateFrom := r.URL.Query().Get("dateFrom")
	if dateFrom == "" {
		dateFrom = now.AddDate(0, 0, -30).Format("2006-01-02")
	}
	dateTo := r.URL.Query().Get("dateTo")
	if dateTo == "" {
		dateTo = now.Format("2006-01-02")
	}

	trends, err := h.AnalyticsSvc.Trends(r.Context(), uid, dateFrom, dateTo)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, http.StatusOK, trends)
}

func (h *analyticsHandlers) SpendingInsights(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())

	insights, err := h.InsightsSvc.SpendingInsights(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, http.StatusOK, map[string]string{"insights": insights})
}
