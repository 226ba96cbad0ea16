package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mlindenberg/gastlink-backend/pkg/db/models"
	"github.com/mlindenberg/gastlink-backend/pkg/enums"
	"github.com/mlindenberg/gastlink-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) CreateOrderLines(ctx context.Context, lines []models.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&lines).Error
}

func (r *repository) UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates).Error
}

func (r *repository) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_lines.created_at ASC")
		}).
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindOrderLine(ctx context.Context, lineID uuid.UUID) (*models.OrderLine, error) {
	var line models.OrderLine
	err := r.db.WithContext(ctx).
		Where("id = ?", lineID).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *repository) ListSupplierOrders(ctx context.Context, supplierID uuid.UUID, params pagination.Params, filters SupplierOrderFilters) (*OrderList, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("supplier_id = ?", supplierID)

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.RestaurantID != nil {
		query = query.Where("restaurant_id = ?", *filters.RestaurantID)
	}
	if filters.AssignedSalesUserID != nil {
		query = query.Where(
			"restaurant_id IN (SELECT restaurant_id FROM customer_assignments WHERE supplier_id = ? AND sales_user_id = ?)",
			supplierID, *filters.AssignedSalesUserID,
		)
	}

	return r.listPage(query, params)
}

func (r *repository) ListRestaurantOrders(ctx context.Context, restaurantID uuid.UUID, params pagination.Params) (*OrderList, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("restaurant_id = ?", restaurantID)

	return r.listPage(query, params)
}

func (r *repository) listPage(query *gorm.DB, params pagination.Params) (*OrderList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	limit := pagination.NormalizeLimit(params.Limit)

	var rows []models.Order
	err = query.
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_lines.created_at ASC")
		}).
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	list := &OrderList{Orders: make([]OrderDTO, 0, len(rows))}
	if len(rows) > limit {
		last := rows[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
		rows = rows[:limit]
	}
	for i := range rows {
		list.Orders = append(list.Orders, *ToOrderDTO(&rows[i]))
	}
	return list, nil
}

func (r *repository) IsRestaurantAssigned(ctx context.Context, supplierID, restaurantID, salesUserID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CustomerAssignment{}).
		Where("supplier_id = ? AND restaurant_id = ? AND sales_user_id = ?", supplierID, restaurantID, salesUserID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) CountUnpackedLines(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderLine{}).
		Where("order_id = ? AND packed = ?", orderID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

var statusTimestampColumns = map[enums.OrderStatus]string{
	enums.OrderStatusConfirmed: "confirmed_at",
	enums.OrderStatusShipped:   "shipped_at",
	enums.OrderStatusDelivered: "delivered_at",
	enums.OrderStatusCancelled: "cancelled_at",
}

// UpdateStatusConditional flips the status only when the current status still
// matches. A false return means another transition won the race.
func (r *repository) UpdateStatusConditional(ctx context.Context, orderID uuid.UUID, from, to enums.OrderStatus) (bool, error) {
	updates := map[string]any{
		"status":     to,
		"updated_at": time.Now().UTC(),
	}
	if column, ok := statusTimestampColumns[to]; ok {
		updates[column] = time.Now().UTC()
	}

	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ShipConditional performs the packing gate and the status flip as one
// statement, so a line unpacked between check and commit blocks the shipment.
func (r *repository) ShipConditional(ctx context.Context, orderID uuid.UUID) (bool, error) {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Exec(`
		UPDATE orders
		SET status = ?, shipped_at = ?, updated_at = ?
		WHERE id = ?
		  AND status = ?
		  AND NOT EXISTS (
			SELECT 1 FROM order_lines
			WHERE order_lines.order_id = orders.id AND order_lines.packed = ?
		  )
	`, enums.OrderStatusShipped, now, now, orderID, enums.OrderStatusConfirmed, false)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CancelConditional cancels the order only while it is still pending or
// confirmed; a shipped or terminal order is left untouched.
func (r *repository) CancelConditional(ctx context.Context, orderID, cancelledBy uuid.UUID) (bool, error) {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Exec(`
		UPDATE orders
		SET status = ?, cancelled_at = ?, cancelled_by_user_id = ?, updated_at = ?
		WHERE id = ? AND status IN (?, ?)
	`, enums.OrderStatusCancelled, now, cancelledBy, now, orderID,
		enums.OrderStatusPending, enums.OrderStatusConfirmed)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SetLinePackedConditional toggles the packed flag only while the parent
// order has not shipped yet.
func (r *repository) SetLinePackedConditional(ctx context.Context, lineID uuid.UUID, packed bool, packedBy uuid.UUID) (bool, error) {
	now := time.Now().UTC()

	var packedAt *time.Time
	var packedByID *uuid.UUID
	if packed {
		packedAt = &now
		packedByID = &packedBy
	}

	res := r.db.WithContext(ctx).Exec(`
		UPDATE order_lines
		SET packed = ?, packed_by_user_id = ?, packed_at = ?, updated_at = ?
		WHERE id = ?
		  AND EXISTS (
			SELECT 1 FROM orders
			WHERE orders.id = order_lines.order_id AND orders.status IN (?, ?)
		  )
	`, packed, packedByID, packedAt, now, lineID,
		enums.OrderStatusPending, enums.OrderStatusConfirmed)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

type accountingSummaryRow struct {
	OrderCount     int64
	DeliveredCount int64
	CancelledCount int64
	OpenCents      int64
	DeliveredCents int64
}

func (r *repository) AccountingSummary(ctx context.Context, supplierID uuid.UUID, from, to time.Time) (*AccountingSummary, error) {
	var row accountingSummaryRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS order_count,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS delivered_count,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS cancelled_count,
			COALESCE(SUM(CASE WHEN status IN (?, ?, ?) THEN total_cents ELSE 0 END), 0) AS open_cents,
			COALESCE(SUM(CASE WHEN status = ? THEN total_cents ELSE 0 END), 0) AS delivered_cents
		FROM orders
		WHERE supplier_id = ? AND created_at >= ? AND created_at < ?
	`, enums.OrderStatusDelivered, enums.OrderStatusCancelled,
		enums.OrderStatusPending, enums.OrderStatusConfirmed, enums.OrderStatusShipped,
		enums.OrderStatusDelivered,
		supplierID, from, to).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &AccountingSummary{
		SupplierID:     supplierID,
		From:           from,
		To:             to,
		OrderCount:     row.OrderCount,
		DeliveredCount: row.DeliveredCount,
		CancelledCount: row.CancelledCount,
		OpenCents:      row.OpenCents,
		DeliveredCents: row.DeliveredCents,
		Revenue:        decimal.NewFromInt(row.DeliveredCents).Div(decimal.NewFromInt(100)),
	}, nil
}
