package access

import (
	"testing"

	"github.com/google/uuid"

	"github.com/mlindenberg/gastlink-backend/pkg/db/models"
	"github.com/mlindenberg/gastlink-backend/pkg/enums"
)

func TestCapabilityPredicates(t *testing.T) {
	supplierID := uuid.New()
	userID := uuid.New()

	owner := &Capability{UserID: userID, SupplierID: supplierID, Role: RoleOwner}
	logistics := &Capability{UserID: userID, SupplierID: supplierID, Role: RoleMember, TeamKind: enums.TeamKindLogistics}
	logisticsChief := &Capability{UserID: userID, SupplierID: supplierID, Role: RoleMember, TeamKind: enums.TeamKindLogistics, IsChief: true}
	accounting := &Capability{UserID: userID, SupplierID: supplierID, Role: RoleMember, TeamKind: enums.TeamKindAccounting}
	sales := &Capability{UserID: userID, SupplierID: supplierID, Role: RoleMember, TeamKind: enums.TeamKindSales}
	salesChief := &Capability{UserID: userID, SupplierID: supplierID, Role: RoleMember, TeamKind: enums.TeamKindSales, IsChief: true}

	cases := []struct {
		name             string
		cap              *Capability
		manageCatalog    bool
		viewAllOrders    bool
		pack             bool
		viewAccounting   bool
		viewSales        bool
		manageTeam       bool
		seeOwnTeamRoster bool
		restricted       bool
	}{
		{"nil capability denies all", nil, false, false, false, false, false, false, false, true},
		{"owner holds everything", owner, true, true, true, true, true, true, false, false},
		{"logistics member packs only", logistics, false, false, true, false, false, false, false, false},
		{"logistics chief does not gain accounting", logisticsChief, false, false, true, false, false, false, true, false},
		{"accounting member", accounting, false, false, false, true, false, false, false, false},
		{"sales member is restricted", sales, false, false, false, false, true, false, false, true},
		{"sales chief packs and is unrestricted", salesChief, false, false, true, false, true, false, true, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cap.CanManageCatalog(); got != tc.manageCatalog {
				t.Errorf("CanManageCatalog = %v, want %v", got, tc.manageCatalog)
			}
			if got := tc.cap.CanViewAllOrders(); got != tc.viewAllOrders {
				t.Errorf("CanViewAllOrders = %v, want %v", got, tc.viewAllOrders)
			}
			if got := tc.cap.CanPack(); got != tc.pack {
				t.Errorf("CanPack = %v, want %v", got, tc.pack)
			}
			if got := tc.cap.CanViewAccounting(); got != tc.viewAccounting {
				t.Errorf("CanViewAccounting = %v, want %v", got, tc.viewAccounting)
			}
			if got := tc.cap.CanViewSales(); got != tc.viewSales {
				t.Errorf("CanViewSales = %v, want %v", got, tc.viewSales)
			}
			if got := tc.cap.CanManageTeam(); got != tc.manageTeam {
				t.Errorf("CanManageTeam = %v, want %v", got, tc.manageTeam)
			}
			if got := tc.cap.CanSeeOwnTeamRoster(); got != tc.seeOwnTeamRoster {
				t.Errorf("CanSeeOwnTeamRoster = %v, want %v", got, tc.seeOwnTeamRoster)
			}
			if got := tc.cap.RestrictedToAssignedCustomers(); got != tc.restricted {
				t.Errorf("RestrictedToAssignedCustomers = %v, want %v", got, tc.restricted)
			}
		})
	}
}

func TestVisibleOrdersSalesMemberSeesExactlyAssignedCustomers(t *testing.T) {
	supplierID := uuid.New()
	salesUserID := uuid.New()
	assignedRestaurant := uuid.New()
	otherRestaurant := uuid.New()

	orders := []models.Order{
		{ID: uuid.New(), SupplierID: supplierID, RestaurantID: assignedRestaurant},
		{ID: uuid.New(), SupplierID: supplierID, RestaurantID: otherRestaurant},
		{ID: uuid.New(), SupplierID: supplierID, RestaurantID: assignedRestaurant},
	}
	assignments := []models.CustomerAssignment{
		{SupplierID: supplierID, RestaurantID: assignedRestaurant, SalesUserID: salesUserID},
		// Assignment to a different sales user must not leak through.
		{SupplierID: supplierID, RestaurantID: otherRestaurant, SalesUserID: uuid.New()},
	}

	cap := &Capability{UserID: salesUserID, SupplierID: supplierID, Role: RoleMember, TeamKind: enums.TeamKindSales}
	visible := VisibleOrders(orders, cap, assignments)
	if len(visible) != 2 {
		t.Fatalf("expected 2 visible orders, got %d", len(visible))
	}
	for _, order := range visible {
		if order.RestaurantID != assignedRestaurant {
			t.Fatalf("order %s for unassigned customer leaked through", order.ID)
		}
	}
}

func TestVisibleOrdersOwnerSeesAllRegardlessOfAssignments(t *testing.T) {
	supplierID := uuid.New()
	orders := []models.Order{
		{ID: uuid.New(), SupplierID: supplierID, RestaurantID: uuid.New()},
		{ID: uuid.New(), SupplierID: supplierID, RestaurantID: uuid.New()},
	}

	cap := &Capability{UserID: uuid.New(), SupplierID: supplierID, Role: RoleOwner}
	visible := VisibleOrders(orders, cap, nil)
	if len(visible) != len(orders) {
		t.Fatalf("expected owner to see all %d orders, got %d", len(orders), len(visible))
	}
}

func TestVisibleOrdersDropsForeignSupplierAndNilCapability(t *testing.T) {
	supplierID := uuid.New()
	orders := []models.Order{
		{ID: uuid.New(), SupplierID: supplierID, RestaurantID: uuid.New()},
		{ID: uuid.New(), SupplierID: uuid.New(), RestaurantID: uuid.New()},
	}

	if got := VisibleOrders(orders, nil, nil); len(got) != 0 {
		t.Fatalf("nil capability must see nothing, got %d orders", len(got))
	}

	chief := &Capability{UserID: uuid.New(), SupplierID: supplierID, Role: RoleMember, TeamKind: enums.TeamKindAccounting, IsChief: true}
	visible := VisibleOrders(orders, chief, nil)
	if len(visible) != 1 || visible[0].SupplierID != supplierID {
		t.Fatalf("expected only the supplier's own order, got %d", len(visible))
	}
}
