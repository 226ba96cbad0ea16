package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mlindenberg/gastlink-backend/pkg/db/models"
	"github.com/mlindenberg/gastlink-backend/pkg/enums"
)

// OrderLineDTO is the transport shape of one order line.
type OrderLineDTO struct {
	ID             uuid.UUID  `json:"id"`
	ProductID      *uuid.UUID `json:"product_id,omitempty"`
	Name           string     `json:"name"`
	Unit           string     `json:"unit"`
	UnitPriceCents int        `json:"unit_price_cents"`
	Qty            int        `json:"qty"`
	TotalCents     int        `json:"total_cents"`
	Packed         bool       `json:"packed"`
	PackedAt       *time.Time `json:"packed_at,omitempty"`
}

// OrderDTO is the transport shape of an order with its lines.
type OrderDTO struct {
	ID             uuid.UUID           `json:"id"`
	SupplierID     uuid.UUID           `json:"supplier_id"`
	RestaurantID   uuid.UUID           `json:"restaurant_id"`
	PlacedByUserID uuid.UUID           `json:"placed_by_user_id"`
	Status         enums.OrderStatus   `json:"status"`
	PaymentMethod  enums.PaymentMethod `json:"payment_method"`
	TotalCents     int                 `json:"total_cents"`
	OrderNumber    int64               `json:"order_number"`
	Notes          *string             `json:"notes,omitempty"`
	StripeIntentID *string             `json:"stripe_intent_id,omitempty"`
	ConfirmedAt    *time.Time          `json:"confirmed_at,omitempty"`
	ShippedAt      *time.Time          `json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time          `json:"delivered_at,omitempty"`
	CancelledAt    *time.Time          `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	Lines          []OrderLineDTO      `json:"lines"`
}

// OrderList carries one page of orders plus the cursor for the next page.
type OrderList struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// SupplierOrderFilters narrows the supplier-side order list.
type SupplierOrderFilters struct {
	Status       *enums.OrderStatus
	RestaurantID *uuid.UUID
	// AssignedSalesUserID restricts the list to orders of customers assigned
	// to this sales user. Set by the service for non-chief sales members.
	AssignedSalesUserID *uuid.UUID
}

// AccountingSummary aggregates order revenue for the accounting view.
type AccountingSummary struct {
	SupplierID     uuid.UUID       `json:"supplier_id"`
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	OrderCount     int64           `json:"order_count"`
	DeliveredCount int64           `json:"delivered_count"`
	CancelledCount int64           `json:"cancelled_count"`
	OpenCents      int64           `json:"open_cents"`
	DeliveredCents int64           `json:"delivered_cents"`
	Revenue        decimal.Decimal `json:"revenue"`
}

// ToOrderDTO converts an order model to the external DTO.
func ToOrderDTO(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}

	lines := make([]OrderLineDTO, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, OrderLineDTO{
			ID:             line.ID,
			ProductID:      line.ProductID,
			Name:           line.Name,
			Unit:           line.Unit,
			UnitPriceCents: line.UnitPriceCents,
			Qty:            line.Qty,
			TotalCents:     line.TotalCents,
			Packed:         line.Packed,
			PackedAt:       line.PackedAt,
		})
	}

	return &OrderDTO{
		ID:             order.ID,
		SupplierID:     order.SupplierID,
		RestaurantID:   order.RestaurantID,
		PlacedByUserID: order.PlacedByUserID,
		Status:         order.Status,
		PaymentMethod:  order.PaymentMethod,
		TotalCents:     order.TotalCents,
		OrderNumber:    order.OrderNumber,
		Notes:          order.Notes,
		StripeIntentID: order.StripeIntentID,
		ConfirmedAt:    order.ConfirmedAt,
		ShippedAt:      order.ShippedAt,
		DeliveredAt:    order.DeliveredAt,
		CancelledAt:    order.CancelledAt,
		CreatedAt:      order.CreatedAt,
		Lines:          lines,
	}
}
