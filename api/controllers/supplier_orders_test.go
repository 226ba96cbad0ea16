package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mlindenberg/gastlink-backend/api/middleware"
	"github.com/mlindenberg/gastlink-backend/internal/access"
	"github.com/mlindenberg/gastlink-backend/internal/orders"
	"github.com/mlindenberg/gastlink-backend/pkg/enums"
	"github.com/mlindenberg/gastlink-backend/pkg/pagination"
)

type stubOrdersService struct {
	transitions []orders.TransitionInput
	cancels     []orders.CancelInput
	packed      []orders.SetLinePackedInput
}

func (s *stubOrdersService) Checkout(ctx context.Context, input orders.CheckoutInput) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{ID: uuid.New(), SupplierID: input.SupplierID}, nil
}

func (s *stubOrdersService) AttemptTransition(ctx context.Context, input orders.TransitionInput) (*orders.OrderDTO, error) {
	s.transitions = append(s.transitions, input)
	return &orders.OrderDTO{ID: input.OrderID, Status: input.Target}, nil
}

func (s *stubOrdersService) Cancel(ctx context.Context, input orders.CancelInput) (*orders.OrderDTO, error) {
	s.cancels = append(s.cancels, input)
	return &orders.OrderDTO{ID: input.OrderID, Status: enums.OrderStatusCancelled}, nil
}

func (s *stubOrdersService) SetLinePacked(ctx context.Context, input orders.SetLinePackedInput) error {
	s.packed = append(s.packed, input)
	return nil
}

func (s *stubOrdersService) GetSupplierOrder(ctx context.Context, cap *access.Capability, orderID uuid.UUID) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{ID: orderID}, nil
}

func (s *stubOrdersService) ListSupplierOrders(ctx context.Context, cap *access.Capability, params pagination.Params, filters orders.SupplierOrderFilters) (*orders.OrderList, error) {
	return &orders.OrderList{Orders: []orders.OrderDTO{}}, nil
}

func (s *stubOrdersService) GetCustomerOrder(ctx context.Context, userID, orderID uuid.UUID) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{ID: orderID}, nil
}

func (s *stubOrdersService) ListCustomerOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*orders.OrderList, error) {
	return &orders.OrderList{Orders: []orders.OrderDTO{}}, nil
}

func (s *stubOrdersService) Summary(ctx context.Context, cap *access.Capability, from, to time.Time) (*orders.AccountingSummary, error) {
	return &orders.AccountingSummary{SupplierID: cap.SupplierID, From: from, To: to}, nil
}

func supplierRequest(method, target, body string, cap *access.Capability, params map[string]string) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)

	rc := chi.NewRouteContext()
	for key, value := range params {
		rc.URLParams.Add(key, value)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rc)
	ctx = middleware.WithUserID(ctx, cap.UserID.String())
	ctx = middleware.WithCapability(ctx, cap)
	return req.WithContext(ctx)
}

func ownerCapability() *access.Capability {
	return &access.Capability{
		UserID:     uuid.New(),
		SupplierID: uuid.New(),
		Role:       access.RoleOwner,
	}
}

func TestSupplierOrderStatusRoutesTransitions(t *testing.T) {
	svc := &stubOrdersService{}
	cap := ownerCapability()
	orderID := uuid.New()

	req := supplierRequest(http.MethodPost, "/supplier/orders/"+orderID.String()+"/status",
		`{"status":"confirmed"}`, cap, map[string]string{"orderId": orderID.String()})
	resp := httptest.NewRecorder()
	SupplierOrderStatus(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(svc.transitions) != 1 || len(svc.cancels) != 0 {
		t.Fatalf("expected one transition, got %d transitions %d cancels", len(svc.transitions), len(svc.cancels))
	}
	got := svc.transitions[0]
	if got.OrderID != orderID || got.Target != enums.OrderStatusConfirmed || got.Capability != cap {
		t.Fatalf("unexpected transition input %+v", got)
	}
}

func TestSupplierOrderStatusCancelledUsesCancelPath(t *testing.T) {
	svc := &stubOrdersService{}
	cap := ownerCapability()
	orderID := uuid.New()

	req := supplierRequest(http.MethodPost, "/supplier/orders/"+orderID.String()+"/status",
		`{"status":"cancelled"}`, cap, map[string]string{"orderId": orderID.String()})
	resp := httptest.NewRecorder()
	SupplierOrderStatus(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(svc.cancels) != 1 || len(svc.transitions) != 0 {
		t.Fatalf("expected one cancel, got %d cancels %d transitions", len(svc.cancels), len(svc.transitions))
	}
	got := svc.cancels[0]
	if got.OrderID != orderID || got.ActorUserID != cap.UserID || got.Capability != cap {
		t.Fatalf("unexpected cancel input %+v", got)
	}
}

func TestSupplierOrderStatusRejectsUnknownStatus(t *testing.T) {
	svc := &stubOrdersService{}
	cap := ownerCapability()
	orderID := uuid.New()

	req := supplierRequest(http.MethodPost, "/supplier/orders/"+orderID.String()+"/status",
		`{"status":"teleported"}`, cap, map[string]string{"orderId": orderID.String()})
	resp := httptest.NewRecorder()
	SupplierOrderStatus(svc, nil)(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if len(svc.transitions) != 0 && len(svc.cancels) != 0 {
		t.Fatal("service must not be called for invalid status")
	}
}

func TestSupplierLinePackedBindsParams(t *testing.T) {
	svc := &stubOrdersService{}
	cap := ownerCapability()
	orderID := uuid.New()
	lineID := uuid.New()

	req := supplierRequest(http.MethodPost,
		"/supplier/orders/"+orderID.String()+"/lines/"+lineID.String()+"/packed",
		`{"packed":true}`, cap,
		map[string]string{"orderId": orderID.String(), "lineId": lineID.String()})
	resp := httptest.NewRecorder()
	SupplierLinePacked(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(svc.packed) != 1 {
		t.Fatalf("expected one packed call, got %d", len(svc.packed))
	}
	got := svc.packed[0]
	if got.OrderID != orderID || got.LineID != lineID || !got.Packed {
		t.Fatalf("unexpected packed input %+v", got)
	}
}

func TestSalesOrdersRequiresSalesView(t *testing.T) {
	svc := &stubOrdersService{}
	cap := &access.Capability{
		UserID:     uuid.New(),
		SupplierID: uuid.New(),
		Role:       access.RoleMember,
		TeamKind:   enums.TeamKindLogistics,
	}

	req := supplierRequest(http.MethodGet, "/supplier/sales/orders", "", cap, nil)
	resp := httptest.NewRecorder()
	SalesOrders(svc, nil)(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}
