package models

import (
	"time"
)

type Account struct {
	ProviderAccountID string    `firestore:"providerAccountId" json:"providerAccountId"` // Plaid account_id (doc ID)
	ItemID            string    `firestore:"itemId" json:"itemId"`                       // Plaid item backing this account
	Name              string    `firestore:"name" json:"name"`
	Balance           float64   `firestore:"balance" json:"balance"`
	Type              string    `firestore:"type" json:"type"` // e.g. "depository", "credit"
	Subtype           string    `firestore:"subtype" json:"subtype,omitempty"`
	Currency          string    `firestore:"currency" json:"currency,omitempty"`
	CreatedAt         time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time `firestore:"updatedAt" json:"updatedAt"`
}
