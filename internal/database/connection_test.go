package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/javajoker/product-inventory/internal/config"
	"github.com/javajoker/product-inventory/internal/metrics"
	"github.com/javajoker/product-inventory/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Initialize(config.DatabaseConfig{
		Driver:   "sqlite",
		Path:     fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, RunMigrations(db))
	t.Cleanup(func() { Close(db) })
	return db
}

func TestInitializeRejectsUnknownDriver(t *testing.T) {
	_, err := Initialize(config.DatabaseConfig{Driver: "oracle"})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestRunMigrationsCreatesEveryTable(t *testing.T) {
	db := openTestDB(t)

	for _, model := range []interface{}{&models.User{}, &models.Product{}, &models.AuditLog{}} {
		assert.True(t, db.Migrator().HasTable(model), "%T", model)
	}

	userID := uint(3)
	entry := models.AuditLog{
		UserID:       &userID,
		Action:       "POST /products",
		ResourceType: "products",
		StatusCode:   201,
		NewValues:    models.JSONB{"name": "Widget", "quantity": float64(2)},
	}
	require.NoError(t, db.Create(&entry).Error)

	var stored models.AuditLog
	require.NoError(t, db.First(&stored, entry.ID).Error)
	assert.Equal(t, entry.NewValues, stored.NewValues)

	// Migrating an up-to-date schema is a no-op.
	assert.NoError(t, RunMigrations(db))
}

func TestUniqueViolationIsTranslated(t *testing.T) {
	db := openTestDB(t)

	first := models.Product{Name: "Widget", SKU: "W-1", Barcode: "111", Price: decimal.NewFromInt(1), UserID: 1}
	require.NoError(t, db.Create(&first).Error)

	second := models.Product{Name: "Gadget", SKU: "W-1", Barcode: "222", Price: decimal.NewFromInt(1), UserID: 1}
	err := db.Create(&second).Error
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "got %v", err)
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	boom := errors.New("boom")

	err := WithTransaction(context.Background(), db, func(tx *gorm.DB) error {
		product := models.Product{Name: "Widget", SKU: "W-1", Barcode: "111", UserID: 1}
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestWithTransactionCommits(t *testing.T) {
	db := openTestDB(t)

	err := WithTransaction(context.Background(), db, func(tx *gorm.DB) error {
		return tx.Create(&models.Product{Name: "Widget", SKU: "W-1", Barcode: "111", UserID: 1}).Error
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSeedProducts(t *testing.T) {
	db := openTestDB(t)

	inserted, err := SeedProducts(context.Background(), db, 42, 25)
	require.NoError(t, err)
	assert.Equal(t, int64(25), inserted)

	var products []models.Product
	require.NoError(t, db.Find(&products).Error)
	require.Len(t, products, 25)
	for _, p := range products {
		assert.Equal(t, uint(42), p.UserID)
		assert.NotEmpty(t, p.SKU)
		assert.Len(t, p.Barcode, 12)
		assert.True(t, p.Price.GreaterThanOrEqual(decimal.Zero))
		assert.GreaterOrEqual(t, p.Quantity, 0)
	}

	inserted, err = SeedProducts(context.Background(), db, 42, 0)
	require.NoError(t, err)
	assert.Zero(t, inserted)
}

func TestQueriesAreInstrumented(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.Create(&models.Product{Name: "Widget", SKU: "W-1", Barcode: "111", UserID: 1}).Error)
	var found models.Product
	require.NoError(t, db.First(&found).Error)

	assert.Positive(t, testutil.CollectAndCount(metrics.DBQueryDuration, "inventory_db_query_duration_seconds"))
}
