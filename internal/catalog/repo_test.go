package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mlindenberg/gastlink-backend/pkg/db/models"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS supplier_accounts (
  id TEXT PRIMARY KEY,
  owner_user_id TEXT NOT NULL UNIQUE,
  company_name TEXT NOT NULL,
  description TEXT,
  phone TEXT,
  email TEXT,
  logo_url TEXT,
  min_order_amount_cents INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_active_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  supplier_id TEXT NOT NULL,
  sku TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  unit TEXT NOT NULL,
  unit_price_cents INTEGER NOT NULL,
  image_url TEXT,
  is_available INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedSupplier(t *testing.T, db *gorm.DB, name string, active bool) *models.SupplierAccount {
	t.Helper()

	supplier := &models.SupplierAccount{
		ID:          uuid.New(),
		OwnerUserID: uuid.New(),
		CompanyName: name,
		IsActive:    active,
	}
	require.NoError(t, db.Create(supplier).Error)
	return supplier
}

func seedProduct(t *testing.T, db *gorm.DB, supplierID uuid.UUID, name string, available bool) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:             uuid.New(),
		SupplierID:     supplierID,
		SKU:            "SKU-" + name,
		Name:           name,
		Unit:           "kg",
		UnitPriceCents: 100,
		IsAvailable:    available,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestRepositoryListActiveSuppliers(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	seedSupplier(t, db, "Beta Gemüse", true)
	seedSupplier(t, db, "Alpha Fisch", true)
	seedSupplier(t, db, "Zeta Ruht", false)

	suppliers, err := repo.ListActiveSuppliers(context.Background())
	require.NoError(t, err)
	require.Len(t, suppliers, 2)
	assert.Equal(t, "Alpha Fisch", suppliers[0].CompanyName)
	assert.Equal(t, "Beta Gemüse", suppliers[1].CompanyName)
}

func TestRepositoryListSupplierProducts(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	supplier := seedSupplier(t, db, "Frischdienst", true)
	seedProduct(t, db, supplier.ID, "Kartoffeln", true)
	seedProduct(t, db, supplier.ID, "Altware", false)
	seedProduct(t, db, uuid.New(), "Fremd", true)

	all, err := repo.ListSupplierProducts(context.Background(), supplier.ID, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	available, err := repo.ListSupplierProducts(context.Background(), supplier.ID, true)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "Kartoffeln", available[0].Name)
}

func TestSeedFlagsRoundTripFalse(t *testing.T) {
	db := setupCatalogTestDB(t)

	supplier := seedSupplier(t, db, "Zeta Ruht", false)
	product := seedProduct(t, db, supplier.ID, "Altware", false)

	var reloadedSupplier models.SupplierAccount
	require.NoError(t, db.First(&reloadedSupplier, "id = ?", supplier.ID).Error)
	assert.False(t, reloadedSupplier.IsActive, "inactive supplier must not be revived by a column default")

	var reloadedProduct models.Product
	require.NoError(t, db.First(&reloadedProduct, "id = ?", product.ID).Error)
	assert.False(t, reloadedProduct.IsAvailable, "unavailable product must not be revived by a column default")
}

func TestRepositoryFindSupplierProductScope(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	supplier := seedSupplier(t, db, "Frischdienst", true)
	product := seedProduct(t, db, supplier.ID, "Kartoffeln", true)

	found, err := repo.FindSupplierProduct(context.Background(), supplier.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, found.ID)

	_, err = repo.FindSupplierProduct(context.Background(), uuid.New(), product.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRepositoryDeleteProductScope(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	supplier := seedSupplier(t, db, "Frischdienst", true)
	product := seedProduct(t, db, supplier.ID, "Kartoffeln", true)

	ok, err := repo.DeleteProduct(context.Background(), uuid.New(), product.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.DeleteProduct(context.Background(), supplier.ID, product.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}
