package handlers

import (
	"log/slog"

	"firebase.google.com/go/v4/auth"

	"github.com/alphafinance/backend/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	Firebase        *auth.Client

	UserSvc        UserService
	LinkSvc        LinkService
	SyncSvc        SyncService
	AccountSvc     AccountService
	TransactionSvc TransactionService
	BudgetSvc      BudgetService
	AlertSvc       AlertService
	CategorySvc    CategoryService
	AnalyticsSvc   AnalyticsService
	InsightsSvc    InsightsService
}
