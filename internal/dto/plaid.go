package dto

import (
	"fmt"
)

// ProviderAccount is one account snapshot as reported by the aggregator,
// already lifted out of the SDK's response types.
type ProviderAccount struct {
	ProviderAccountID string
	Name              string
	Balance           float64
	Type              string
	Subtype           string
	Currency          string
}

// Validate rejects snapshots missing fields the store keys on.
func (a ProviderAccount) Validate() error {
	if a.ProviderAccountID == "" {
		return fmt.Errorf("provider account missing account id")
	}
	if a.Name == "" {
		return fmt.Errorf("provider account %s missing name", a.ProviderAccountID)
	}
	return nil
}

// ProviderTransaction is one transaction as reported by the aggregator. The
// amount keeps the provider's convention here (outflows positive); inversion
// happens at ingestion.
type ProviderTransaction struct {
	ProviderTransactionID string
	ProviderAccountID     string
	Name                  string
	Amount                float64
	Currency              string
	Pending               bool
	Date                  string
	AuthorizedDate        string
	Category              string
	Subcategory           string
	MerchantName          string
	PaymentChannel        string
	LocationCity          string
	LocationRegion        string
	LocationCountry       string
	LogoURL               string
	Website               string
}

// Validate rejects rows missing the fields every stored transaction needs.
func (t ProviderTransaction) Validate() error {
	if t.ProviderTransactionID == "" {
		return fmt.Errorf("provider transaction missing transaction id")
	}
	if t.ProviderAccountID == "" {
		return fmt.Errorf("provider transaction %s missing account id", t.ProviderTransactionID)
	}
	if t.Date == "" {
		return fmt.Errorf("provider transaction %s missing date", t.ProviderTransactionID)
	}
	return nil
}

// ProviderTransactionsPage is one page of the provider's transaction feed.
type ProviderTransactionsPage struct {
	Transactions []ProviderTransaction
	Total        int
}

type PlaidEnvironment string

const (
	PlaidSandbox     PlaidEnvironment = "sandbox"
	PlaidDevelopment PlaidEnvironment = "development"
	PlaidProduction  PlaidEnvironment = "production"
)
