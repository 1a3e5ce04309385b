package models

import (
	"time"
)

// Transaction is a stored ledger row. Amounts are signed: money leaving the
// account is negative. Rows synced from the provider carry a
// ProviderTransactionID and use it as the document ID; manually entered rows
// get a generated ID and leave the provider ID empty.
type Transaction struct {
	TransactionID         string    `firestore:"transactionId" json:"transactionId"`
	ProviderTransactionID string    `firestore:"providerTransactionId" json:"providerTransactionId,omitempty"`
	AccountID             string    `firestore:"accountId" json:"accountId"` // provider account ID of the owning account
	Name                  string    `firestore:"name" json:"name"`
	Amount                float64   `firestore:"amount" json:"amount"`
	Currency              string    `firestore:"currency" json:"currency,omitempty"`
	Pending               bool      `firestore:"pending" json:"pending"`
	Date                  string    `firestore:"date" json:"date"` // YYYY-MM-DD
	AuthorizedDate        string    `firestore:"authorizedDate" json:"authorizedDate,omitempty"`
	Category              string    `firestore:"category" json:"category"`
	Subcategory           string    `firestore:"subcategory" json:"subcategory,omitempty"`
	MerchantName          string    `firestore:"merchantName" json:"merchantName,omitempty"`
	PaymentChannel        string    `firestore:"paymentChannel" json:"paymentChannel,omitempty"`
	LocationCity          string    `firestore:"locationCity" json:"locationCity,omitempty"`
	LocationRegion        string    `firestore:"locationRegion" json:"locationRegion,omitempty"`
	LocationCountry       string    `firestore:"locationCountry" json:"locationCountry,omitempty"`
	LogoURL               string    `firestore:"logoUrl" json:"logoUrl,omitempty"`
	Website               string    `firestore:"website" json:"website,omitempty"`
	CreatedAt             time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time `firestore:"updatedAt" json:"updatedAt"`
}
