package models

import (
	"time"
)

// Alert types for budget threshold crossings.
const (
	AlertTypeEighty = "80%"
	AlertTypeOver   = "over"
)

type BudgetAlert struct {
	AlertID   string    `firestore:"alertId" json:"alertId"`
	BudgetID  string    `firestore:"budgetId" json:"budgetId"`
	Category  string    `firestore:"category" json:"category"`
	AlertType string    `firestore:"alertType" json:"alertType"`
	Message   string    `firestore:"message" json:"message"`
	IsRead    bool      `firestore:"isRead" json:"isRead"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
}
