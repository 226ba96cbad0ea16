package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/mlindenberg/gastlink-backend/pkg/enums"
)

// OrderCreatedEvent signals a new order placed at checkout.
type OrderCreatedEvent struct {
	OrderID      uuid.UUID `json:"order_id"`
	SupplierID   uuid.UUID `json:"supplier_id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	TotalCents   int       `json:"total_cents"`
}

// OrderStateChangedEvent is emitted on every status transition.
type OrderStateChangedEvent struct {
	OrderID      uuid.UUID         `json:"order_id"`
	SupplierID   uuid.UUID         `json:"supplier_id"`
	RestaurantID uuid.UUID         `json:"restaurant_id"`
	FromStatus   enums.OrderStatus `json:"from_status"`
	ToStatus     enums.OrderStatus `json:"to_status"`
}

// OrderCancelledEvent is emitted whenever a pre-shipment order is cancelled.
type OrderCancelledEvent struct {
	OrderID           uuid.UUID `json:"order_id"`
	SupplierID        uuid.UUID `json:"supplier_id"`
	RestaurantID      uuid.UUID `json:"restaurant_id"`
	CancelledByUserID uuid.UUID `json:"cancelled_by_user_id"`
	CancelledAt       time.Time `json:"cancelled_at"`
}

// LinePackedChangedEvent reports a packing toggle on an order line.
type LinePackedChangedEvent struct {
	OrderID    uuid.UUID `json:"order_id"`
	LineID     uuid.UUID `json:"line_id"`
	SupplierID uuid.UUID `json:"supplier_id"`
	Packed     bool      `json:"packed"`
}

// MemberInvitedEvent signals a new pending team invitation.
type MemberInvitedEvent struct {
	SupplierID uuid.UUID      `json:"supplier_id"`
	TeamID     uuid.UUID      `json:"team_id"`
	UserID     uuid.UUID      `json:"user_id"`
	TeamKind   enums.TeamKind `json:"team_kind"`
	StaffCode  string         `json:"staff_code"`
}

// MemberAcceptedEvent signals an invitation was accepted.
type MemberAcceptedEvent struct {
	SupplierID uuid.UUID `json:"supplier_id"`
	TeamID     uuid.UUID `json:"team_id"`
	UserID     uuid.UUID `json:"user_id"`
	AcceptedAt time.Time `json:"accepted_at"`
}
