package teams

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mlindenberg/gastlink-backend/pkg/db/models"
	"github.com/mlindenberg/gastlink-backend/pkg/enums"
)

// Repository is the persistence surface for teams, members and assignments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindOrCreateTeam(ctx context.Context, supplierID uuid.UUID, kind enums.TeamKind) (*models.Team, error)
	NextStaffCode(ctx context.Context, supplierID uuid.UUID) (string, error)
	CreateMember(ctx context.Context, member *models.TeamMember) (*models.TeamMember, error)
	FindMemberByUser(ctx context.Context, supplierID, userID uuid.UUID) (*models.TeamMember, error)
	FindLatestMemberByUser(ctx context.Context, userID uuid.UUID) (*models.TeamMember, error)
	AcceptConditional(ctx context.Context, memberID uuid.UUID, at time.Time) (bool, error)
	ListMembers(ctx context.Context, supplierID uuid.UUID, kind *enums.TeamKind) ([]TeamMemberDTO, error)
	DeleteMember(ctx context.Context, supplierID, userID uuid.UUID) (bool, error)

	UpsertAssignment(ctx context.Context, supplierID, restaurantID, salesUserID uuid.UUID) (*models.CustomerAssignment, error)
	RemoveAssignment(ctx context.Context, supplierID, restaurantID uuid.UUID) (bool, error)
	ListAssignments(ctx context.Context, supplierID uuid.UUID) ([]AssignmentDTO, error)
}
