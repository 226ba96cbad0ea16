package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/mlindenberg/gastlink-backend/internal/access"
	"github.com/mlindenberg/gastlink-backend/pkg/db/models"
	"github.com/mlindenberg/gastlink-backend/pkg/enums"
	pkgerrors "github.com/mlindenberg/gastlink-backend/pkg/errors"
	"github.com/mlindenberg/gastlink-backend/pkg/outbox"
	"github.com/mlindenberg/gastlink-backend/pkg/outbox/payloads"
	"github.com/mlindenberg/gastlink-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type supplierLoader interface {
	FindSupplier(ctx context.Context, id uuid.UUID) (*models.SupplierAccount, error)
}

type restaurantLoader interface {
	FindRestaurantByOwner(ctx context.Context, userID uuid.UUID) (*models.Restaurant, error)
}

type productLoader interface {
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service governs order creation, status transitions and packing.
type Service interface {
	Checkout(ctx context.Context, input CheckoutInput) (*OrderDTO, error)
	AttemptTransition(ctx context.Context, input TransitionInput) (*OrderDTO, error)
	Cancel(ctx context.Context, input CancelInput) (*OrderDTO, error)
	SetLinePacked(ctx context.Context, input SetLinePackedInput) error
	GetSupplierOrder(ctx context.Context, cap *access.Capability, orderID uuid.UUID) (*OrderDTO, error)
	ListSupplierOrders(ctx context.Context, cap *access.Capability, params pagination.Params, filters SupplierOrderFilters) (*OrderList, error)
	GetCustomerOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	ListCustomerOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error)
	Summary(ctx context.Context, cap *access.Capability, from, to time.Time) (*AccountingSummary, error)
}

type service struct {
	repo        Repository
	tx          txRunner
	outbox      outboxPublisher
	suppliers   supplierLoader
	restaurants restaurantLoader
	products    productLoader
	payments    StripePaymentClient
}

// CheckoutItem is one cart position at checkout time.
type CheckoutItem struct {
	ProductID uuid.UUID
	Qty       int
}

// CheckoutInput captures everything needed to place an order.
type CheckoutInput struct {
	UserID        uuid.UUID
	SupplierID    uuid.UUID
	PaymentMethod enums.PaymentMethod
	Notes         *string
	Items         []CheckoutItem
}

// TransitionInput carries a supplier-side status change request.
type TransitionInput struct {
	OrderID    uuid.UUID
	Target     enums.OrderStatus
	Capability *access.Capability
}

// CancelInput carries a cancellation by the placing customer or the owner.
type CancelInput struct {
	OrderID     uuid.UUID
	ActorUserID uuid.UUID
	// Capability is nil for customer-side callers.
	Capability *access.Capability
}

// SetLinePackedInput toggles one line's packed flag.
type SetLinePackedInput struct {
	OrderID    uuid.UUID
	LineID     uuid.UUID
	Packed     bool
	Capability *access.Capability
}

// NewService builds the order service with its required dependencies. The
// payments client may be nil when card checkout is not configured.
func NewService(
	repo Repository,
	tx txRunner,
	publisher outboxPublisher,
	suppliers supplierLoader,
	restaurants restaurantLoader,
	products productLoader,
	payments StripePaymentClient,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if suppliers == nil {
		return nil, fmt.Errorf("supplier loader required")
	}
	if restaurants == nil {
		return nil, fmt.Errorf("restaurant loader required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{
		repo:        repo,
		tx:          tx,
		outbox:      publisher,
		suppliers:   suppliers,
		restaurants: restaurants,
		products:    products,
		payments:    payments,
	}, nil
}

// legalTransitions is the full transition table. Cancellation is handled by
// Cancel so the guard (placing customer or owner) stays in one place.
var legalTransitions = map[enums.OrderStatus]map[enums.OrderStatus]struct{}{
	enums.OrderStatusPending: {
		enums.OrderStatusConfirmed: {},
		enums.OrderStatusCancelled: {},
	},
	enums.OrderStatusConfirmed: {
		enums.OrderStatusShipped:   {},
		enums.OrderStatusCancelled: {},
	},
	enums.OrderStatusShipped: {
		enums.OrderStatusDelivered: {},
	},
}

func transitionAllowed(from, to enums.OrderStatus) bool {
	targets, ok := legalTransitions[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}

func invalidTransition(from, to enums.OrderStatus) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "transition not allowed").
		WithDetails(map[string]string{"from": from.String(), "to": to.String()})
}

func (s *service) Checkout(ctx context.Context, input CheckoutInput) (*OrderDTO, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.SupplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier id required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order contains no items")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	for _, item := range input.Items {
		if item.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
	}
	if input.PaymentMethod == enums.PaymentMethodCard && s.payments == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "card payments not configured")
	}

	restaurant, err := s.restaurants.FindRestaurantByOwner(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "no restaurant profile")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant")
	}

	supplier, err := s.suppliers.FindSupplier(ctx, input.SupplierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
	}
	if !supplier.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
	}

	lines := make([]models.OrderLine, 0, len(input.Items))
	total := 0
	for _, item := range input.Items {
		product, err := s.products.FindProduct(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown product").
					WithDetails(map[string]string{"product_id": item.ProductID.String()})
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if product.SupplierID != supplier.ID || !product.IsAvailable {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product not available from this supplier").
				WithDetails(map[string]string{"product_id": item.ProductID.String()})
		}

		lineTotal := product.UnitPriceCents * item.Qty
		total += lineTotal
		productID := product.ID
		lines = append(lines, models.OrderLine{
			ProductID:      &productID,
			Name:           product.Name,
			Unit:           product.Unit,
			UnitPriceCents: product.UnitPriceCents,
			Qty:            item.Qty,
			TotalCents:     lineTotal,
		})
	}

	if total < supplier.MinOrderAmountCents {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order total below supplier minimum").
			WithDetails(map[string]int{
				"total_cents":            total,
				"min_order_amount_cents": supplier.MinOrderAmountCents,
			})
	}

	var created *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order := &models.Order{
			SupplierID:     supplier.ID,
			RestaurantID:   restaurant.ID,
			PlacedByUserID: input.UserID,
			Status:         enums.OrderStatusPending,
			PaymentMethod:  input.PaymentMethod,
			TotalCents:     total,
			Notes:          input.Notes,
		}
		if _, err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		for i := range lines {
			lines[i].OrderID = order.ID
		}
		if err := repo.CreateOrderLines(ctx, lines); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order lines")
		}
		order.Lines = lines

		if input.PaymentMethod == enums.PaymentMethodCard {
			params := &stripe.PaymentIntentParams{
				Amount:   stripe.Int64(int64(total)),
				Currency: stripe.String(string(stripe.CurrencyEUR)),
			}
			params.AddMetadata("order_id", order.ID.String())
			params.AddMetadata("supplier_id", supplier.ID.String())
			intent, err := s.payments.CreateIntent(ctx, params)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment intent")
			}
			if err := repo.UpdateOrder(ctx, order.ID, map[string]any{"stripe_intent_id": intent.ID}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store payment intent")
			}
			order.StripeIntentID = &intent.ID
		}

		created = order
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			SupplierID:    supplier.ID,
			Version:       1,
			Actor:         customerActor(input.UserID),
			Data: payloads.OrderCreatedEvent{
				OrderID:      order.ID,
				SupplierID:   supplier.ID,
				RestaurantID: restaurant.ID,
				TotalCents:   total,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return ToOrderDTO(created), nil
}

func (s *service) AttemptTransition(ctx context.Context, input TransitionInput) (*OrderDTO, error) {
	cap := input.Capability
	if cap == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotAffiliated, "no supplier affiliation")
	}
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.Target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid target status")
	}

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.SupplierID != cap.SupplierID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}

		from := order.Status
		if !transitionAllowed(from, input.Target) {
			return invalidTransition(from, input.Target)
		}
		if err := s.checkTransitionGuard(from, input.Target, cap); err != nil {
			return err
		}

		switch input.Target {
		case enums.OrderStatusShipped:
			ok, err := repo.ShipConditional(ctx, order.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ship order")
			}
			if !ok {
				return s.resolveShipFailure(ctx, repo, order.ID, from)
			}
		case enums.OrderStatusCancelled:
			ok, err := repo.CancelConditional(ctx, order.ID, cap.UserID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
			}
			if !ok {
				return s.resolveTransitionFailure(ctx, repo, order.ID, input.Target)
			}
		default:
			ok, err := repo.UpdateStatusConditional(ctx, order.ID, from, input.Target)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
			}
			if !ok {
				return s.resolveTransitionFailure(ctx, repo, order.ID, input.Target)
			}
		}

		updated, err := repo.FindOrder(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		result = updated

		if input.Target == enums.OrderStatusCancelled {
			return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventOrderCancelled,
				AggregateType: enums.AggregateOrder,
				AggregateID:   order.ID,
				SupplierID:    order.SupplierID,
				Version:       1,
				Actor:         supplierActor(cap),
				Data: payloads.OrderCancelledEvent{
					OrderID:           order.ID,
					SupplierID:        order.SupplierID,
					RestaurantID:      order.RestaurantID,
					CancelledByUserID: cap.UserID,
					CancelledAt:       timeOrNow(updated.CancelledAt),
				},
			})
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderStateChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			SupplierID:    order.SupplierID,
			Version:       1,
			Actor:         supplierActor(cap),
			Data: payloads.OrderStateChangedEvent{
				OrderID:      order.ID,
				SupplierID:   order.SupplierID,
				RestaurantID: order.RestaurantID,
				FromStatus:   from,
				ToStatus:     input.Target,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return ToOrderDTO(result), nil
}

// checkTransitionGuard enforces who may request each supplier-side
// transition. Cancellation via this path is owner-only; customers cancel
// through Cancel.
func (s *service) checkTransitionGuard(from, to enums.OrderStatus, cap *access.Capability) error {
	switch to {
	case enums.OrderStatusConfirmed:
		if !cap.CanManageCatalog() && !cap.CanPack() {
			return pkgerrors.New(pkgerrors.CodeForbidden, "not allowed to confirm orders")
		}
	case enums.OrderStatusShipped:
		if !cap.CanPack() {
			return pkgerrors.New(pkgerrors.CodeForbidden, "not allowed to ship orders")
		}
	case enums.OrderStatusDelivered:
		if !cap.CanPack() && !cap.CanManageCatalog() {
			return pkgerrors.New(pkgerrors.CodeForbidden, "not allowed to mark orders delivered")
		}
	case enums.OrderStatusCancelled:
		if !cap.IsOwner() {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the owner may cancel supplier-side")
		}
	default:
		return invalidTransition(from, to)
	}
	return nil
}

// resolveShipFailure distinguishes a lost status race from an incomplete
// packing gate after the conditional ship touched zero rows.
func (s *service) resolveShipFailure(ctx context.Context, repo Repository, orderID uuid.UUID, from enums.OrderStatus) error {
	current, err := repo.FindOrder(ctx, orderID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
	}
	if current.Status != from {
		return invalidTransition(current.Status, enums.OrderStatusShipped)
	}
	unpacked, err := repo.CountUnpackedLines(ctx, orderID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unpacked lines")
	}
	return pkgerrors.New(pkgerrors.CodePackingIncomplete, "order has unpacked lines").
		WithDetails(map[string]int64{"unpacked_lines": unpacked})
}

func (s *service) resolveTransitionFailure(ctx context.Context, repo Repository, orderID uuid.UUID, target enums.OrderStatus) error {
	current, err := repo.FindOrder(ctx, orderID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
	}
	return invalidTransition(current.Status, target)
}

func (s *service) Cancel(ctx context.Context, input CancelInput) (*OrderDTO, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		isPlacingCustomer := order.PlacedByUserID == input.ActorUserID
		isOwner := input.Capability.IsOwner() && input.Capability.SupplierID == order.SupplierID
		if !isPlacingCustomer && !isOwner {
			return pkgerrors.New(pkgerrors.CodeForbidden, "not allowed to cancel this order")
		}

		if !transitionAllowed(order.Status, enums.OrderStatusCancelled) {
			return invalidTransition(order.Status, enums.OrderStatusCancelled)
		}

		ok, err := repo.CancelConditional(ctx, order.ID, input.ActorUserID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}
		if !ok {
			return s.resolveTransitionFailure(ctx, repo, order.ID, enums.OrderStatusCancelled)
		}

		updated, err := repo.FindOrder(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		result = updated

		actor := customerActor(input.ActorUserID)
		if isOwner {
			actor = supplierActor(input.Capability)
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCancelled,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			SupplierID:    order.SupplierID,
			Version:       1,
			Actor:         actor,
			Data: payloads.OrderCancelledEvent{
				OrderID:           order.ID,
				SupplierID:        order.SupplierID,
				RestaurantID:      order.RestaurantID,
				CancelledByUserID: input.ActorUserID,
				CancelledAt:       timeOrNow(updated.CancelledAt),
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return ToOrderDTO(result), nil
}

func (s *service) SetLinePacked(ctx context.Context, input SetLinePackedInput) error {
	cap := input.Capability
	if cap == nil {
		return pkgerrors.New(pkgerrors.CodeNotAffiliated, "no supplier affiliation")
	}
	if !cap.CanPack() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "not allowed to pack orders")
	}
	if input.OrderID == uuid.Nil || input.LineID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id and line id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.SupplierID != cap.SupplierID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}

		line, err := repo.FindOrderLine(ctx, input.LineID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order line not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order line")
		}
		if line.OrderID != order.ID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order line not found")
		}

		// Packing is only meaningful before shipment.
		if order.Status != enums.OrderStatusPending && order.Status != enums.OrderStatusConfirmed {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "packing window closed").
				WithDetails(map[string]string{"status": order.Status.String()})
		}

		if line.Packed == input.Packed {
			return nil
		}

		ok, err := repo.SetLinePackedConditional(ctx, line.ID, input.Packed, cap.UserID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update line packed flag")
		}
		if !ok {
			// The order moved on between the read and the write.
			return pkgerrors.New(pkgerrors.CodeStateConflict, "packing window closed")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventLinePackedChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			SupplierID:    order.SupplierID,
			Version:       1,
			Actor:         supplierActor(cap),
			Data: payloads.LinePackedChangedEvent{
				OrderID:    order.ID,
				LineID:     line.ID,
				SupplierID: order.SupplierID,
				Packed:     input.Packed,
			},
		})
	})
}

func (s *service) GetSupplierOrder(ctx context.Context, cap *access.Capability, orderID uuid.UUID) (*OrderDTO, error) {
	if cap == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotAffiliated, "no supplier affiliation")
	}
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.SupplierID != cap.SupplierID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	if cap.RestrictedToAssignedCustomers() {
		assigned, err := s.repo.IsRestaurantAssigned(ctx, cap.SupplierID, order.RestaurantID, cap.UserID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check customer assignment")
		}
		if !assigned {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
	}
	return ToOrderDTO(order), nil
}

func (s *service) ListSupplierOrders(ctx context.Context, cap *access.Capability, params pagination.Params, filters SupplierOrderFilters) (*OrderList, error) {
	if cap == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotAffiliated, "no supplier affiliation")
	}

	if cap.RestrictedToAssignedCustomers() {
		salesUserID := cap.UserID
		filters.AssignedSalesUserID = &salesUserID
	} else {
		filters.AssignedSalesUserID = nil
	}

	list, err := s.repo.ListSupplierOrders(ctx, cap.SupplierID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list supplier orders")
	}
	return list, nil
}

func (s *service) GetCustomerOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.PlacedByUserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return ToOrderDTO(order), nil
}

func (s *service) ListCustomerOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	restaurant, err := s.restaurants.FindRestaurantByOwner(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &OrderList{Orders: []OrderDTO{}}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant")
	}
	list, err := s.repo.ListRestaurantOrders(ctx, restaurant.ID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customer orders")
	}
	return list, nil
}

func (s *service) Summary(ctx context.Context, cap *access.Capability, from, to time.Time) (*AccountingSummary, error) {
	if cap == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotAffiliated, "no supplier affiliation")
	}
	if !cap.CanViewAccounting() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not allowed to view accounting")
	}
	if !from.Before(to) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid summary window")
	}
	summary, err := s.repo.AccountingSummary(ctx, cap.SupplierID, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "accounting summary")
	}
	return summary, nil
}

func supplierActor(cap *access.Capability) *outbox.ActorRef {
	supplierID := cap.SupplierID
	return &outbox.ActorRef{
		UserID:     cap.UserID,
		SupplierID: &supplierID,
		Role:       string(cap.Role),
	}
}

func customerActor(userID uuid.UUID) *outbox.ActorRef {
	return &outbox.ActorRef{UserID: userID, Role: "customer"}
}

func timeOrNow(t *time.Time) time.Time {
	if t != nil {
		return *t
	}
	return time.Now().UTC()
}
