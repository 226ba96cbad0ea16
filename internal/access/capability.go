package access

import (
	"github.com/google/uuid"

	"github.com/mlindenberg/gastlink-backend/pkg/db/models"
	"github.com/mlindenberg/gastlink-backend/pkg/enums"
)

// Role distinguishes a supplier account owner from an invited team member.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)

// Capability is the resolved permission set of one user within one supplier
// account. A nil *Capability means the user has no supplier-side affiliation
// at all; every predicate on a nil receiver answers false (deny all).
type Capability struct {
	UserID     uuid.UUID
	SupplierID uuid.UUID
	Role       Role
	// TeamKind is empty for owners.
	TeamKind enums.TeamKind
	IsChief  bool
}

// IsOwner reports whether the capability belongs to the account owner.
func (c *Capability) IsOwner() bool {
	return c != nil && c.Role == RoleOwner
}

// CanManageCatalog gates product CRUD.
func (c *Capability) CanManageCatalog() bool {
	return c.IsOwner()
}

// CanViewAllOrders gates the unfiltered order list.
func (c *Capability) CanViewAllOrders() bool {
	return c.IsOwner()
}

// CanPack gates line-packing and the confirm/ship/deliver transitions.
// Chiefs keep the packing right regardless of team kind.
func (c *Capability) CanPack() bool {
	if c == nil {
		return false
	}
	return c.Role == RoleOwner || c.IsChief || c.TeamKind == enums.TeamKindLogistics
}

// CanViewAccounting gates the revenue summary. Granted strictly by team
// kind: a logistics chief does not gain accounting views.
func (c *Capability) CanViewAccounting() bool {
	if c == nil {
		return false
	}
	return c.Role == RoleOwner || c.TeamKind == enums.TeamKindAccounting
}

// CanViewSales gates the sales order views.
func (c *Capability) CanViewSales() bool {
	if c == nil {
		return false
	}
	return c.Role == RoleOwner || c.TeamKind == enums.TeamKindSales
}

// CanManageTeam gates invitations and customer assignments.
func (c *Capability) CanManageTeam() bool {
	return c.IsOwner()
}

// CanSeeOwnTeamRoster lets a chief list their own team's members.
func (c *Capability) CanSeeOwnTeamRoster() bool {
	return c != nil && c.IsChief
}

// RestrictedToAssignedCustomers reports whether order visibility must be
// narrowed to the customers assigned to this user. Only non-chief sales
// members are restricted; owners, chiefs, logistics and accounting members
// see every order of the supplier.
func (c *Capability) RestrictedToAssignedCustomers() bool {
	if c == nil {
		return true
	}
	return c.Role == RoleMember && c.TeamKind == enums.TeamKindSales && !c.IsChief
}

// VisibleOrders returns the subset of a supplier's orders the capability may
// see. It is a pure function over its inputs so the same rule can be asserted
// against the SQL-side filtering in the orders repo.
func VisibleOrders(orders []models.Order, cap *Capability, assignments []models.CustomerAssignment) []models.Order {
	if cap == nil {
		return nil
	}

	visible := make([]models.Order, 0, len(orders))
	if !cap.RestrictedToAssignedCustomers() {
		for _, order := range orders {
			if order.SupplierID == cap.SupplierID {
				visible = append(visible, order)
			}
		}
		return visible
	}

	assigned := make(map[uuid.UUID]struct{}, len(assignments))
	for _, a := range assignments {
		if a.SupplierID == cap.SupplierID && a.SalesUserID == cap.UserID {
			assigned[a.RestaurantID] = struct{}{}
		}
	}
	for _, order := range orders {
		if order.SupplierID != cap.SupplierID {
			continue
		}
		if _, ok := assigned[order.RestaurantID]; ok {
			visible = append(visible, order)
		}
	}
	return visible
}
