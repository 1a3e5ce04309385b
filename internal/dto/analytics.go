package dto

// TrendsResult maps category to total spend over the requested range.
// Spend figures are positive magnitudes (see the analytics service for the
// sign convention).
type TrendsResult struct {
	From       string             `json:"from"`
	To         string             `json:"to"`
	Categories map[string]float64 `json:"categories"`
}

type AccountsSummary struct {
	TotalBalance     float64 `json:"totalBalance"`
	NumberOfAccounts int     `json:"numberOfAccounts"`
}
