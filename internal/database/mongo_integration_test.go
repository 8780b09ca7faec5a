//go:build integration

package database_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/dentalsupply/inventory/internal/apperror"
	"github.com/dentalsupply/inventory/internal/config"
	"github.com/dentalsupply/inventory/internal/database"
	"github.com/dentalsupply/inventory/internal/plugins/auth"
	"github.com/dentalsupply/inventory/internal/plugins/supplies"
)

func startMongo(t *testing.T) config.DatabaseConfig {
	t.Helper()
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	return config.DatabaseConfig{
		URI:            uri,
		Name:           "inventory_test",
		ConnectTimeout: 10 * time.Second,
		QueryTimeout:   5 * time.Second,
	}
}

func TestMigrator_FullCycle(t *testing.T) {
	ctx := context.Background()
	cfg := startMongo(t)

	migrator, err := database.NewMigrator(ctx, cfg)
	require.NoError(t, err)
	defer migrator.Close()

	version, dirty, err := migrator.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)
	assert.False(t, dirty)

	require.NoError(t, migrator.Up())
	latest, dirty, err := migrator.Version()
	require.NoError(t, err)
	assert.Greater(t, latest, uint(0))
	assert.False(t, dirty)

	require.NoError(t, migrator.Steps(-1))
	version, _, err = migrator.Version()
	require.NoError(t, err)
	assert.Equal(t, latest-1, version)

	require.NoError(t, migrator.Up())
	require.NoError(t, migrator.Up(), "second Up is a no-op")

	require.NoError(t, migrator.Down())
	version, _, err = migrator.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)
}

func TestMongo_StoresAgainstMigratedSchema(t *testing.T) {
	ctx := context.Background()
	cfg := startMongo(t)

	require.NoError(t, database.RunMigrations(ctx, cfg))

	client, err := database.NewMongo(ctx, cfg)
	require.NoError(t, err)
	defer client.Disconnect(context.Background())

	require.NoError(t, database.NewPinger(client).Ping(ctx))

	db := client.Database(cfg.Name)

	t.Run("user email is unique", func(t *testing.T) {
		users := auth.NewUserRepository(db, cfg.QueryTimeout)
		now := time.Now().UTC()

		first := &auth.User{Email: "a@clinic.test", PasswordHash: "h", CreatedAt: now, UpdatedAt: now}
		require.NoError(t, users.Create(ctx, first))
		assert.NotEmpty(t, first.ID)

		dup := &auth.User{Email: "a@clinic.test", PasswordHash: "h", CreatedAt: now, UpdatedAt: now}
		err := users.Create(ctx, dup)
		assert.True(t, apperror.IsCode(err, http.StatusConflict))

		found, err := users.FindByEmail(ctx, "a@clinic.test")
		require.NoError(t, err)
		assert.Equal(t, first.ID, found.ID)

		_, err = users.FindByID(ctx, "not-an-id")
		assert.True(t, apperror.IsCode(err, http.StatusNotFound))
	})

	t.Run("supplies crud", func(t *testing.T) {
		repo := supplies.NewSupplyRepository(db, cfg.QueryTimeout)
		now := time.Now().UTC().Truncate(time.Millisecond)

		gloves := &supplies.Supply{Name: "Nitrile gloves", Quantity: 2, Threshold: 5, Supplier: "Henry Schein", CreatedAt: now, UpdatedAt: now}
		require.NoError(t, repo.Create(ctx, gloves))
		masks := &supplies.Supply{Name: "Masks", Quantity: 50, Threshold: 10, CreatedAt: now, UpdatedAt: now.Add(time.Second)}
		require.NoError(t, repo.Create(ctx, masks))

		all, err := repo.List(ctx, supplies.ListFilter{})
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, masks.ID, all[0].ID, "newest update first")

		low, err := repo.List(ctx, supplies.ListFilter{LowStockOnly: true})
		require.NoError(t, err)
		require.Len(t, low, 1)
		assert.Equal(t, gloves.ID, low[0].ID)

		bySupplier, err := repo.List(ctx, supplies.ListFilter{Supplier: "schein"})
		require.NoError(t, err)
		assert.Len(t, bySupplier, 1)

		qty := 40
		updated, err := repo.Update(ctx, gloves.ID, supplies.Patch{Quantity: &qty}, now.Add(2*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 40, updated.Quantity)
		assert.Equal(t, "Nitrile gloves", updated.Name)

		require.NoError(t, repo.Delete(ctx, gloves.ID))
		err = repo.Delete(ctx, gloves.ID)
		assert.True(t, apperror.IsCode(err, http.StatusNotFound))

		n, err := db.Collection(supplies.SuppliesCollection).CountDocuments(ctx, bson.M{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}
