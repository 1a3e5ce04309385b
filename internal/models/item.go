package models

import (
	"time"
)

// Item is one user-institution link. The Plaid access token is stored
// KMS-encrypted; it never leaves the store layer in plaintext except to the
// provider adapter. An item outlives the accounts it backs.
type Item struct {
	ItemID         string    `firestore:"itemId" json:"itemId"` // Plaid item_id (doc ID)
	Institution    string    `firestore:"institution" json:"institution"`
	Status         string    `firestore:"status" json:"status"` // e.g. "active", "inactive"
	EncryptedToken string    `firestore:"encryptedToken" json:"-"`
	CreatedAt      time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `firestore:"updatedAt" json:"updatedAt"`
}
