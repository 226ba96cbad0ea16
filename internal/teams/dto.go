package teams

import (
	"time"

	"github.com/google/uuid"

	"github.com/mlindenberg/gastlink-backend/pkg/enums"
)

// TeamMemberDTO is the roster shape joining membership, team and user data.
type TeamMemberDTO struct {
	MemberID         uuid.UUID              `json:"member_id"`
	TeamID           uuid.UUID              `json:"team_id"`
	UserID           uuid.UUID              `json:"user_id"`
	Email            string                 `json:"email"`
	FirstName        string                 `json:"first_name"`
	LastName         string                 `json:"last_name"`
	TeamKind         enums.TeamKind         `json:"team_kind"`
	IsChief          bool                   `json:"is_chief"`
	StaffCode        string                 `json:"staff_code"`
	InvitationStatus enums.InvitationStatus `json:"invitation_status"`
	AcceptedAt       *time.Time             `json:"accepted_at,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
}

// AssignmentDTO is one customer-to-sales-member assignment.
type AssignmentDTO struct {
	ID             uuid.UUID `json:"id"`
	RestaurantID   uuid.UUID `json:"restaurant_id"`
	RestaurantName string    `json:"restaurant_name"`
	SalesUserID    uuid.UUID `json:"sales_user_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// InviteInput captures the data required to invite a team member.
type InviteInput struct {
	Email     string
	FirstName string
	LastName  string
	TeamKind  enums.TeamKind
	IsChief   bool
}

// AssignCustomerInput binds one of the supplier's customers to a sales member.
type AssignCustomerInput struct {
	RestaurantID uuid.UUID
	SalesUserID  uuid.UUID
}
