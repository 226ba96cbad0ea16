package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mlindenberg/gastlink-backend/internal/access"
	"github.com/mlindenberg/gastlink-backend/pkg/db"
	"github.com/mlindenberg/gastlink-backend/pkg/db/models"
	pkgerrors "github.com/mlindenberg/gastlink-backend/pkg/errors"
)

type catalogRepository interface {
	FindSupplier(ctx context.Context, id uuid.UUID) (*models.SupplierAccount, error)
	ListActiveSuppliers(ctx context.Context) ([]models.SupplierAccount, error)
	FindSupplierProduct(ctx context.Context, supplierID, productID uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, supplierID, productID uuid.UUID) (bool, error)
	ListSupplierProducts(ctx context.Context, supplierID uuid.UUID, availableOnly bool) ([]models.Product, error)
}

// Service exposes catalog management and customer browsing.
type Service interface {
	CreateProduct(ctx context.Context, cap *access.Capability, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, cap *access.Capability, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, cap *access.Capability, productID uuid.UUID) error
	ListOwnProducts(ctx context.Context, cap *access.Capability) ([]ProductDTO, error)

	ListSuppliers(ctx context.Context) ([]SupplierDTO, error)
	ListSupplierProducts(ctx context.Context, supplierID uuid.UUID) ([]ProductDTO, error)
}

type service struct {
	repo catalogRepository
}

// NewService builds the catalog service.
func NewService(repo catalogRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func requireCatalogManager(cap *access.Capability) error {
	if cap == nil {
		return pkgerrors.New(pkgerrors.CodeNotAffiliated, "no supplier affiliation")
	}
	if !cap.CanManageCatalog() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "catalog management requires the account owner")
	}
	return nil
}

func validateProductFields(sku, name, unit string, priceCents int) error {
	if strings.TrimSpace(sku) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(unit) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit is required")
	}
	if priceCents <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit price must be positive")
	}
	return nil
}

func (s *service) CreateProduct(ctx context.Context, cap *access.Capability, input CreateProductInput) (*ProductDTO, error) {
	if err := requireCatalogManager(cap); err != nil {
		return nil, err
	}
	if err := validateProductFields(input.SKU, input.Name, input.Unit, input.UnitPriceCents); err != nil {
		return nil, err
	}

	product := &models.Product{
		SupplierID:     cap.SupplierID,
		SKU:            strings.TrimSpace(input.SKU),
		Name:           strings.TrimSpace(input.Name),
		Description:    input.Description,
		Unit:           strings.TrimSpace(input.Unit),
		UnitPriceCents: input.UnitPriceCents,
		ImageURL:       input.ImageURL,
		IsAvailable:    input.IsAvailable,
	}
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err, "ux_products_supplier_sku") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a product with this SKU already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert product")
	}
	return FromProductModel(created), nil
}

func (s *service) UpdateProduct(ctx context.Context, cap *access.Capability, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	if err := requireCatalogManager(cap); err != nil {
		return nil, err
	}

	product, err := s.repo.FindSupplierProduct(ctx, cap.SupplierID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if input.SKU != nil {
		product.SKU = strings.TrimSpace(*input.SKU)
	}
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Unit != nil {
		product.Unit = strings.TrimSpace(*input.Unit)
	}
	if input.UnitPriceCents != nil {
		product.UnitPriceCents = *input.UnitPriceCents
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}
	if input.IsAvailable != nil {
		product.IsAvailable = *input.IsAvailable
	}

	if err := validateProductFields(product.SKU, product.Name, product.Unit, product.UnitPriceCents); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return FromProductModel(product), nil
}

func (s *service) DeleteProduct(ctx context.Context, cap *access.Capability, productID uuid.UUID) error {
	if err := requireCatalogManager(cap); err != nil {
		return err
	}

	ok, err := s.repo.DeleteProduct(ctx, cap.SupplierID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

// ListOwnProducts returns the supplier's full catalog including delisted
// products. Any affiliated member may read it.
func (s *service) ListOwnProducts(ctx context.Context, cap *access.Capability) ([]ProductDTO, error) {
	if cap == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotAffiliated, "no supplier affiliation")
	}

	products, err := s.repo.ListSupplierProducts(ctx, cap.SupplierID, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return toProductDTOs(products), nil
}

func (s *service) ListSuppliers(ctx context.Context) ([]SupplierDTO, error) {
	suppliers, err := s.repo.ListActiveSuppliers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list suppliers")
	}

	dtos := make([]SupplierDTO, 0, len(suppliers))
	for i := range suppliers {
		dtos = append(dtos, *FromSupplierModel(&suppliers[i]))
	}
	return dtos, nil
}

// ListSupplierProducts is the customer-facing browse view: available products
// of an active supplier only.
func (s *service) ListSupplierProducts(ctx context.Context, supplierID uuid.UUID) ([]ProductDTO, error) {
	supplier, err := s.repo.FindSupplier(ctx, supplierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
	}
	if !supplier.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
	}

	products, err := s.repo.ListSupplierProducts(ctx, supplierID, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return toProductDTOs(products), nil
}

func toProductDTOs(products []models.Product) []ProductDTO {
	dtos := make([]ProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, *FromProductModel(&products[i]))
	}
	return dtos
}
