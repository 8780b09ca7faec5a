// Package suppliestest provides an in-memory supplies.SupplyRepository with
// the same filter, ordering and id semantics as the MongoDB implementation.
package suppliestest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dentalsupply/inventory/internal/plugins/supplies"
)

// SupplyRepository stores supplies in memory.
type SupplyRepository struct {
	mu    sync.Mutex
	items map[string]supplies.Supply
}

// NewSupplyRepository returns an empty repository.
func NewSupplyRepository() *SupplyRepository {
	return &SupplyRepository{items: make(map[string]supplies.Supply)}
}

// List filters and sorts by updatedAt descending.
func (r *SupplyRepository) List(_ context.Context, f supplies.ListFilter) ([]supplies.Supply, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]supplies.Supply, 0, len(r.items))
	for _, s := range r.items {
		if f.Name != "" && !containsFold(s.Name, f.Name) {
			continue
		}
		if f.Supplier != "" && !containsFold(s.Supplier, f.Supplier) {
			continue
		}
		if f.LowStockOnly && !s.IsLowStock() {
			continue
		}
		result = append(result, s)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

// FindByID returns a copy of the stored supply.
func (r *SupplyRepository) FindByID(_ context.Context, id string) (*supplies.Supply, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, supplies.ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.items[id]
	if !ok {
		return nil, supplies.ErrNotFound
	}
	return &s, nil
}

// Create stores s under a fresh ObjectID hex id.
func (r *SupplyRepository) Create(_ context.Context, s *supplies.Supply) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s.ID = primitive.NewObjectID().Hex()
	stored := *s
	stored.LowStock = false
	r.items[s.ID] = stored
	return nil
}

// Update applies the non-nil patch fields.
func (r *SupplyRepository) Update(_ context.Context, id string, p supplies.Patch, updatedAt time.Time) (*supplies.Supply, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, supplies.ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.items[id]
	if !ok {
		return nil, supplies.ErrNotFound
	}

	set(&s.Name, p.Name)
	set(&s.Category, p.Category)
	set(&s.Quantity, p.Quantity)
	set(&s.Unit, p.Unit)
	set(&s.Threshold, p.Threshold)
	set(&s.Supplier, p.Supplier)
	set(&s.Notes, p.Notes)
	if p.Price != nil {
		price := *p.Price
		s.Price = &price
	}
	s.UpdatedAt = updatedAt

	r.items[id] = s
	return &s, nil
}

// Delete removes a supply.
func (r *SupplyRepository) Delete(_ context.Context, id string) error {
	if !primitive.IsValidObjectID(id) {
		return supplies.ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return supplies.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// Len returns the number of stored supplies.
func (r *SupplyRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
