package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/mlindenberg/gastlink-backend/pkg/db/models"
)

// ProductDTO represents the catalog product payload returned to clients.
type ProductDTO struct {
	ID             uuid.UUID `json:"id"`
	SupplierID     uuid.UUID `json:"supplier_id"`
	SKU            string    `json:"sku"`
	Name           string    `json:"name"`
	Description    *string   `json:"description,omitempty"`
	Unit           string    `json:"unit"`
	UnitPriceCents int       `json:"unit_price_cents"`
	ImageURL       *string   `json:"image_url,omitempty"`
	IsAvailable    bool      `json:"is_available"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SupplierDTO surfaces the supplier data customers see while browsing.
type SupplierDTO struct {
	ID                  uuid.UUID `json:"id"`
	CompanyName         string    `json:"company_name"`
	Description         *string   `json:"description,omitempty"`
	Phone               *string   `json:"phone,omitempty"`
	Email               *string   `json:"email,omitempty"`
	LogoURL             *string   `json:"logo_url,omitempty"`
	MinOrderAmountCents int       `json:"min_order_amount_cents"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	SKU            string
	Name           string
	Description    *string
	Unit           string
	UnitPriceCents int
	ImageURL       *string
	IsAvailable    bool
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	SKU            *string
	Name           *string
	Description    *string
	Unit           *string
	UnitPriceCents *int
	ImageURL       *string
	IsAvailable    *bool
}

// FromProductModel builds a DTO from the persisted model.
func FromProductModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:             p.ID,
		SupplierID:     p.SupplierID,
		SKU:            p.SKU,
		Name:           p.Name,
		Description:    p.Description,
		Unit:           p.Unit,
		UnitPriceCents: p.UnitPriceCents,
		ImageURL:       p.ImageURL,
		IsAvailable:    p.IsAvailable,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// FromSupplierModel builds the browse shape for a supplier account.
func FromSupplierModel(s *models.SupplierAccount) *SupplierDTO {
	if s == nil {
		return nil
	}
	return &SupplierDTO{
		ID:                  s.ID,
		CompanyName:         s.CompanyName,
		Description:         s.Description,
		Phone:               s.Phone,
		Email:               s.Email,
		LogoURL:             s.LogoURL,
		MinOrderAmountCents: s.MinOrderAmountCents,
	}
}
