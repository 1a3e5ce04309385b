package models

import (
	"time"
)

// CustomCategory is a user-defined category with its learned keyword set.
// CreatedAt fixes the overlay order over the default taxonomy so matching
// stays deterministic.
type CustomCategory struct {
	Name      string    `firestore:"name" json:"name"` // doc ID
	Keywords  []string  `firestore:"keywords" json:"keywords"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}
