package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mlindenberg/gastlink-backend/pkg/db/models"
)

// Repository exposes catalog persistence for products and supplier browsing.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateSupplier persists a new supplier account during registration.
func (r *Repository) CreateSupplier(ctx context.Context, supplier *models.SupplierAccount) (*models.SupplierAccount, error) {
	if err := r.db.WithContext(ctx).Create(supplier).Error; err != nil {
		return nil, err
	}
	return supplier, nil
}

// FindSupplier loads a supplier account by ID.
func (r *Repository) FindSupplier(ctx context.Context, id uuid.UUID) (*models.SupplierAccount, error) {
	var supplier models.SupplierAccount
	if err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

// ListActiveSuppliers returns the suppliers customers may browse.
func (r *Repository) ListActiveSuppliers(ctx context.Context) ([]models.SupplierAccount, error) {
	var suppliers []models.SupplierAccount
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("company_name").
		Find(&suppliers).Error
	if err != nil {
		return nil, err
	}
	return suppliers, nil
}

// FindProduct loads a product by ID regardless of availability.
func (r *Repository) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindSupplierProduct loads a product scoped to the owning supplier.
func (r *Repository) FindSupplierProduct(ctx context.Context, supplierID, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND supplier_id = ?", productID, supplierID).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a new catalog entry.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct saves the mutated product.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// DeleteProduct removes a product, scoped to the owning supplier. A false
// return means the product did not belong to the supplier.
func (r *Repository) DeleteProduct(ctx context.Context, supplierID, productID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND supplier_id = ?", productID, supplierID).
		Delete(&models.Product{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListSupplierProducts returns the supplier's catalog. availableOnly hides
// delisted products for the customer-facing view.
func (r *Repository) ListSupplierProducts(ctx context.Context, supplierID uuid.UUID, availableOnly bool) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Where("supplier_id = ?", supplierID)
	if availableOnly {
		query = query.Where("is_available = ?", true)
	}

	var products []models.Product
	if err := query.Order("name").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
