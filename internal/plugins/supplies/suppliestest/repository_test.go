package suppliestest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalsupply/inventory/internal/plugins/supplies"
)

func TestList_NewestFirst(t *testing.T) {
	repo := NewSupplyRepository()
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	for i, name := range []string{"oldest", "middle", "newest"} {
		ts := base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repo.Create(ctx, &supplies.Supply{Name: name, CreatedAt: ts, UpdatedAt: ts}))
	}

	items, err := repo.List(ctx, supplies.ListFilter{})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "newest", items[0].Name)
	assert.Equal(t, "oldest", items[2].Name)

	// Touching the oldest moves it to the front.
	name := "oldest"
	filter := supplies.ListFilter{Name: name}
	found, err := repo.List(ctx, filter)
	require.NoError(t, err)
	require.Len(t, found, 1)

	_, err = repo.Update(ctx, found[0].ID, supplies.Patch{}, base.Add(24*time.Hour))
	require.NoError(t, err)

	items, err = repo.List(ctx, supplies.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, "oldest", items[0].Name)
}

func TestIDSemantics(t *testing.T) {
	repo := NewSupplyRepository()
	ctx := context.Background()

	_, err := repo.FindByID(ctx, "nope")
	assert.ErrorIs(t, err, supplies.ErrInvalidID)

	_, err = repo.FindByID(ctx, "665f1c2e8b3a4d00ffffffff")
	assert.ErrorIs(t, err, supplies.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "665f1c2e8b3a4d00ffffffff"), supplies.ErrNotFound)
}
