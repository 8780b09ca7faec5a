// Package supplies manages the clinic's stock records: what is on the
// shelf, how much of it, who sells it, and when to reorder. Every route
// requires an authenticated session.
package supplies

import (
	"time"
)

// Supply is one stocked item.
type Supply struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	Quantity  int       `json:"quantity"`
	Unit      string    `json:"unit,omitempty"`
	Threshold int       `json:"threshold"`
	Supplier  string    `json:"supplier,omitempty"`
	Price     *float64  `json:"price,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// LowStock is derived on read, never stored.
	LowStock bool `json:"lowStock"`
}

// IsLowStock reports whether the item has reached its restock threshold.
// A zero threshold means "never warn".
func (s *Supply) IsLowStock() bool {
	return s.Threshold > 0 && s.Quantity <= s.Threshold
}

// ListFilter narrows List results. Empty fields match everything.
type ListFilter struct {
	// Name and Supplier are case-insensitive substring matches.
	Name     string
	Supplier string

	// LowStockOnly keeps items at or below a positive threshold.
	LowStockOnly bool
}

// --- Request DTOs (bound from HTTP requests) ---

// SupplyRequest is the body of POST and PUT /api/supplies. Fields left out
// of a PUT keep their stored value. Quantity and Threshold bind as numbers
// of any kind so fractional values get a field-level validation message.
type SupplyRequest struct {
	Name      *string  `json:"name"`
	Category  *string  `json:"category"`
	Quantity  *float64 `json:"quantity"`
	Unit      *string  `json:"unit"`
	Threshold *float64 `json:"threshold"`
	Supplier  *string  `json:"supplier"`
	Price     *float64 `json:"price"`
	Notes     *string  `json:"notes"`
}

// Patch is a validated, normalized set of field changes. Nil fields are
// left untouched by the repository.
type Patch struct {
	Name      *string
	Category  *string
	Quantity  *int
	Unit      *string
	Threshold *int
	Supplier  *string
	Price     *float64
	Notes     *string
}

// --- Response DTOs ---

// DeleteResponse is returned after a supply is removed.
type DeleteResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}
