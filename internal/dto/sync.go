package dto

import (
	"github.com/alphafinance/backend/internal/models"
)

// SyncResult summarizes one full pipeline run for a user.
type SyncResult struct {
	AccountsReconciled   int                  `json:"accountsReconciled"`
	TransactionsIngested int                  `json:"transactionsIngested"`
	AlertsCreated        []models.BudgetAlert `json:"alertsCreated,omitempty"`
}
