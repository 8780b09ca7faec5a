package supplies

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/dentalsupply/inventory/internal/apperror"
	"github.com/dentalsupply/inventory/internal/sanitize"
)

// SupplyService defines the business logic contract for supplies.
type SupplyService interface {
	List(ctx context.Context, filter ListFilter) ([]Supply, error)
	Get(ctx context.Context, id string) (*Supply, error)
	Create(ctx context.Context, req SupplyRequest) (*Supply, error)
	Update(ctx context.Context, id string, req SupplyRequest) (*Supply, error)
	Delete(ctx context.Context, id string) error
}

// supplyService implements SupplyService.
type supplyService struct {
	repo SupplyRepository
	now  func() time.Time
}

// NewSupplyService creates a new supply service.
func NewSupplyService(repo SupplyRepository) SupplyService {
	return &supplyService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// List returns the supplies matching filter.
func (s *supplyService) List(ctx context.Context, filter ListFilter) ([]Supply, error) {
	filter.Name = strings.TrimSpace(filter.Name)
	filter.Supplier = strings.TrimSpace(filter.Supplier)

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperror.Wrap(err, "listing supplies")
	}
	for i := range items {
		items[i].LowStock = items[i].IsLowStock()
	}
	return items, nil
}

// Get returns a single supply.
func (s *supplyService) Get(ctx context.Context, id string) (*Supply, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "finding supply")
	}
	item.LowStock = item.IsLowStock()
	return item, nil
}

// Create validates req and stores a new supply. Name is required; quantity
// and threshold default to zero.
func (s *supplyService) Create(ctx context.Context, req SupplyRequest) (*Supply, error) {
	patch, err := normalize(req)
	if err != nil {
		return nil, err
	}
	if patch.Name == nil || *patch.Name == "" {
		return nil, apperror.NewValidation("name is required")
	}

	now := s.now()
	item := &Supply{
		Name:      *patch.Name,
		Category:  deref(patch.Category),
		Quantity:  deref(patch.Quantity),
		Unit:      deref(patch.Unit),
		Threshold: deref(patch.Threshold),
		Supplier:  deref(patch.Supplier),
		Price:     patch.Price,
		Notes:     deref(patch.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, apperror.Wrap(err, "creating supply")
	}

	slog.Info("supply created",
		slog.String("supply_id", item.ID),
		slog.String("name", item.Name),
	)

	item.LowStock = item.IsLowStock()
	return item, nil
}

// Update applies the fields present in req. A present name must not be
// blank.
func (s *supplyService) Update(ctx context.Context, id string, req SupplyRequest) (*Supply, error) {
	patch, err := normalize(req)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil && *patch.Name == "" {
		return nil, apperror.NewValidation("name is required")
	}

	item, err := s.repo.Update(ctx, id, patch, s.now())
	if err != nil {
		return nil, apperror.Wrap(err, "updating supply")
	}

	slog.Info("supply updated", slog.String("supply_id", item.ID))

	item.LowStock = item.IsLowStock()
	return item, nil
}

// Delete removes a supply.
func (s *supplyService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperror.Wrap(err, "deleting supply")
	}
	slog.Info("supply deleted", slog.String("supply_id", id))
	return nil
}

// --- Validation helpers ---

// maxCount bounds quantity and threshold.
const maxCount = math.MaxInt32

// normalize strips markup from text fields and rejects negative or
// fractional counts and negative prices.
func normalize(req SupplyRequest) (Patch, error) {
	quantity, err := wholeCount("quantity", req.Quantity)
	if err != nil {
		return Patch{}, err
	}
	threshold, err := wholeCount("threshold", req.Threshold)
	if err != nil {
		return Patch{}, err
	}
	if req.Price != nil && *req.Price < 0 {
		return Patch{}, apperror.NewValidation("price must not be negative")
	}

	return Patch{
		Name:      trimmed(req.Name),
		Category:  trimmed(req.Category),
		Quantity:  quantity,
		Unit:      trimmed(req.Unit),
		Threshold: threshold,
		Supplier:  trimmed(req.Supplier),
		Price:     req.Price,
		Notes:     trimmed(req.Notes),
	}, nil
}

// wholeCount converts a bound JSON number to a non-negative int.
func wholeCount(field string, v *float64) (*int, error) {
	if v == nil {
		return nil, nil
	}
	switch {
	case *v < 0:
		return nil, apperror.NewValidation(field + " must not be negative")
	case *v != math.Trunc(*v):
		return nil, apperror.NewValidation(field + " must be a whole number")
	case *v > maxCount:
		return nil, apperror.NewValidation(fmt.Sprintf("%s must be at most %d", field, maxCount))
	}
	n := int(*v)
	return &n, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := sanitize.Text(*s)
	return &t
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
