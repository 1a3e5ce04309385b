package dto

// BudgetArgs carries budget fields from the request layer; zero-value dates
// are defaulted by the service. The recurrence fields are pointers so a
// partial update can leave them untouched.
type BudgetArgs struct {
	Category         string
	Limit            float64
	StartDate        string
	EndDate          string
	IsRecurring      *bool
	RecurrencePeriod *string
}

// BudgetStatus is one budget with its recomputed spend position.
type BudgetStatus struct {
	BudgetID         string  `json:"budgetId"`
	Category         string  `json:"category"`
	Limit            float64 `json:"limit"`
	Spent            float64 `json:"spent"`
	Remaining        float64 `json:"remaining"`
	Status           string  `json:"status"` // "On Track" or "Over Budget"
	StartDate        string  `json:"startDate"`
	EndDate          string  `json:"endDate"`
	IsRecurring      bool    `json:"isRecurring"`
	RecurrencePeriod string  `json:"recurrencePeriod,omitempty"`
}

type BudgetSummary struct {
	TotalBudget float64 `json:"totalBudget"`
	TotalSpent  float64 `json:"totalSpent"`
	Remaining   float64 `json:"remaining"`
}
