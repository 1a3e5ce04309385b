package dto

import (
	"github.com/alphafinance/backend/internal/models"
)

type TransactionQuery struct {
	Category  *string
	AccountID *string
	DateFrom  *string
	DateTo    *string
	OrderBy   string
	Desc      bool
	Limit     int
	Offset    int
}

// TransactionPage is one page of stored transactions plus paging metadata.
type TransactionPage struct {
	Transactions []models.Transaction `json:"transactions"`
	Total        int                  `json:"total"`
	Page         int                  `json:"page"`
	Pages        int                  `json:"pages"`
}

// AddTransactionArgs is a manually entered row from the request layer.
type AddTransactionArgs struct {
	AccountID string
	Amount    float64
	Date      string
	Name      string
	Category  string // empty means auto-categorize
}
