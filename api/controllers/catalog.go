package controllers

import (
	"net/http"

	"github.com/mlindenberg/gastlink-backend/api/middleware"
	"github.com/mlindenberg/gastlink-backend/api/responses"
	"github.com/mlindenberg/gastlink-backend/api/validators"
	"github.com/mlindenberg/gastlink-backend/internal/catalog"
	pkgerrors "github.com/mlindenberg/gastlink-backend/pkg/errors"
	"github.com/mlindenberg/gastlink-backend/pkg/logger"
)

type createProductRequest struct {
	SKU            string  `json:"sku" validate:"required"`
	Name           string  `json:"name" validate:"required"`
	Description    *string `json:"description,omitempty"`
	Unit           string  `json:"unit" validate:"required"`
	UnitPriceCents int     `json:"unit_price_cents" validate:"required,min=1"`
	ImageURL       *string `json:"image_url,omitempty"`
	IsAvailable    *bool   `json:"is_available,omitempty"`
}

type updateProductRequest struct {
	SKU            *string `json:"sku,omitempty"`
	Name           *string `json:"name,omitempty"`
	Description    *string `json:"description,omitempty"`
	Unit           *string `json:"unit,omitempty"`
	UnitPriceCents *int    `json:"unit_price_cents,omitempty"`
	ImageURL       *string `json:"image_url,omitempty"`
	IsAvailable    *bool   `json:"is_available,omitempty"`
}

// SupplierList is the customer-facing supplier directory.
func SupplierList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		suppliers, err := svc.ListSuppliers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, suppliers)
	}
}

// SupplierProducts lists the orderable products of one supplier.
func SupplierProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		supplierID, err := uuidParam(r, "supplierId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.ListSupplierProducts(r.Context(), supplierID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// ProductList returns the supplier's full catalog, delisted items included.
func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		products, err := svc.ListOwnProducts(r.Context(), middleware.CapabilityFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

func ProductCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		available := true
		if body.IsAvailable != nil {
			available = *body.IsAvailable
		}

		product, err := svc.CreateProduct(r.Context(), middleware.CapabilityFromContext(r.Context()), catalog.CreateProductInput{
			SKU:            body.SKU,
			Name:           body.Name,
			Description:    body.Description,
			Unit:           body.Unit,
			UnitPriceCents: body.UnitPriceCents,
			ImageURL:       body.ImageURL,
			IsAvailable:    available,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func ProductUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), middleware.CapabilityFromContext(r.Context()), productID, catalog.UpdateProductInput{
			SKU:            body.SKU,
			Name:           body.Name,
			Description:    body.Description,
			Unit:           body.Unit,
			UnitPriceCents: body.UnitPriceCents,
			ImageURL:       body.ImageURL,
			IsAvailable:    body.IsAvailable,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ProductDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), middleware.CapabilityFromContext(r.Context()), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
