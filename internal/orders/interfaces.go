package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mlindenberg/gastlink-backend/pkg/db/models"
	"github.com/mlindenberg/gastlink-backend/pkg/enums"
	"github.com/mlindenberg/gastlink-backend/pkg/pagination"
)

// Repository defines persistence operations for orders and their lines.
// Status changes go through conditional updates guarded on the current
// status so concurrent transitions resolve at the database, not in memory.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateOrderLines(ctx context.Context, lines []models.OrderLine) error
	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindOrderLine(ctx context.Context, lineID uuid.UUID) (*models.OrderLine, error)
	ListSupplierOrders(ctx context.Context, supplierID uuid.UUID, params pagination.Params, filters SupplierOrderFilters) (*OrderList, error)
	ListRestaurantOrders(ctx context.Context, restaurantID uuid.UUID, params pagination.Params) (*OrderList, error)
	IsRestaurantAssigned(ctx context.Context, supplierID, restaurantID, salesUserID uuid.UUID) (bool, error)
	CountUnpackedLines(ctx context.Context, orderID uuid.UUID) (int64, error)
	UpdateStatusConditional(ctx context.Context, orderID uuid.UUID, from, to enums.OrderStatus) (bool, error)
	ShipConditional(ctx context.Context, orderID uuid.UUID) (bool, error)
	CancelConditional(ctx context.Context, orderID, cancelledBy uuid.UUID) (bool, error)
	SetLinePackedConditional(ctx context.Context, lineID uuid.UUID, packed bool, packedBy uuid.UUID) (bool, error)
	AccountingSummary(ctx context.Context, supplierID uuid.UUID, from, to time.Time) (*AccountingSummary, error)
}
