package models

import (
	"time"
)

type Budget struct {
	BudgetID         string    `firestore:"budgetId" json:"budgetId"`
	Category         string    `firestore:"category" json:"category"`
	Limit            float64   `firestore:"limit" json:"limit"`
	CurrentSpending  float64   `firestore:"currentSpending" json:"currentSpending"` // derived cache, recomputed on every evaluation
	StartDate        string    `firestore:"startDate" json:"startDate"`             // YYYY-MM-DD inclusive
	EndDate          string    `firestore:"endDate" json:"endDate"`                 // YYYY-MM-DD inclusive
	IsRecurring      bool      `firestore:"isRecurring" json:"isRecurring"`
	RecurrencePeriod string    `firestore:"recurrencePeriod" json:"recurrencePeriod,omitempty"` // e.g. "weekly", "monthly", "yearly"
	CreatedAt        time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time `firestore:"updatedAt" json:"updatedAt"`
}
