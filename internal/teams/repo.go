package teams

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mlindenberg/gastlink-backend/pkg/db/models"
	"github.com/mlindenberg/gastlink-backend/pkg/enums"
)

var teamNamesByKind = map[enums.TeamKind]string{
	enums.TeamKindLogistics:  "Logistics",
	enums.TeamKindAccounting: "Accounting",
	enums.TeamKindSales:      "Sales",
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// FindOrCreateTeam returns the supplier's team of the given kind, creating it
// on first use. One team per kind per supplier.
func (r *repository) FindOrCreateTeam(ctx context.Context, supplierID uuid.UUID, kind enums.TeamKind) (*models.Team, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("invalid team kind %q", kind)
	}

	var team models.Team
	err := r.db.WithContext(ctx).
		Where("supplier_id = ? AND kind = ?", supplierID, kind).
		First(&team).Error
	if err == nil {
		return &team, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	team = models.Team{
		ID:         uuid.New(),
		SupplierID: supplierID,
		Kind:       kind,
		Name:       teamNamesByKind[kind],
	}
	if err := r.db.WithContext(ctx).Create(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// NextStaffCode returns the next sequential code for the supplier's staff.
func (r *repository) NextStaffCode(ctx context.Context, supplierID uuid.UUID) (string, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TeamMember{}).
		Where("supplier_id = ?", supplierID).
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("MIT-%03d", count+1), nil
}

func (r *repository) CreateMember(ctx context.Context, member *models.TeamMember) (*models.TeamMember, error) {
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		return nil, err
	}
	return member, nil
}

func (r *repository) FindMemberByUser(ctx context.Context, supplierID, userID uuid.UUID) (*models.TeamMember, error) {
	var member models.TeamMember
	err := r.db.WithContext(ctx).
		Where("supplier_id = ? AND user_id = ?", supplierID, userID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// FindLatestMemberByUser returns the user's most recent membership across
// suppliers. Used for invitation acceptance, before any capability exists.
func (r *repository) FindLatestMemberByUser(ctx context.Context, userID uuid.UUID) (*models.TeamMember, error) {
	var member models.TeamMember
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// AcceptConditional flips a pending invitation to accepted. A false return
// means the row was not pending anymore (or never existed).
func (r *repository) AcceptConditional(ctx context.Context, memberID uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.TeamMember{}).
		Where("id = ? AND invitation_status = ?", memberID, enums.InvitationStatusPending).
		Updates(map[string]any{
			"invitation_status": enums.InvitationStatusAccepted,
			"accepted_at":       at,
			"updated_at":        at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

type teamMemberRow struct {
	models.TeamMember
	TeamKind  enums.TeamKind
	Email     string
	FirstName string
	LastName  string
}

func (r *repository) ListMembers(ctx context.Context, supplierID uuid.UUID, kind *enums.TeamKind) ([]TeamMemberDTO, error) {
	query := r.db.WithContext(ctx).
		Model(&models.TeamMember{}).
		Select("team_members.*, teams.kind AS team_kind, users.email, users.first_name, users.last_name").
		Joins("JOIN teams ON teams.id = team_members.team_id").
		Joins("JOIN users ON users.id = team_members.user_id").
		Where("team_members.supplier_id = ?", supplierID)

	if kind != nil {
		query = query.Where("teams.kind = ?", *kind)
	}

	var rows []teamMemberRow
	if err := query.Order("team_members.created_at").Scan(&rows).Error; err != nil {
		return nil, err
	}

	members := make([]TeamMemberDTO, 0, len(rows))
	for _, row := range rows {
		members = append(members, memberRowToDTO(row))
	}
	return members, nil
}

func memberRowToDTO(row teamMemberRow) TeamMemberDTO {
	return TeamMemberDTO{
		MemberID:         row.ID,
		TeamID:           row.TeamID,
		UserID:           row.UserID,
		Email:            row.Email,
		FirstName:        row.FirstName,
		LastName:         row.LastName,
		TeamKind:         row.TeamKind,
		IsChief:          row.IsChief,
		StaffCode:        row.StaffCode,
		InvitationStatus: row.InvitationStatus,
		AcceptedAt:       row.AcceptedAt,
		CreatedAt:        row.CreatedAt,
	}
}

func (r *repository) DeleteMember(ctx context.Context, supplierID, userID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("supplier_id = ? AND user_id = ?", supplierID, userID).
		Delete(&models.TeamMember{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// UpsertAssignment binds a customer to a sales member, replacing any previous
// assignee. Uniqueness is per supplier and restaurant.
func (r *repository) UpsertAssignment(ctx context.Context, supplierID, restaurantID, salesUserID uuid.UUID) (*models.CustomerAssignment, error) {
	assignment := models.CustomerAssignment{
		SupplierID:   supplierID,
		RestaurantID: restaurantID,
		SalesUserID:  salesUserID,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "supplier_id"}, {Name: "restaurant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"sales_user_id", "updated_at"}),
		}).
		Create(&assignment).Error
	if err != nil {
		return nil, err
	}

	// Re-read so the caller sees the surviving row on conflict.
	var persisted models.CustomerAssignment
	err = r.db.WithContext(ctx).
		Where("supplier_id = ? AND restaurant_id = ?", supplierID, restaurantID).
		First(&persisted).Error
	if err != nil {
		return nil, err
	}
	return &persisted, nil
}

func (r *repository) RemoveAssignment(ctx context.Context, supplierID, restaurantID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("supplier_id = ? AND restaurant_id = ?", supplierID, restaurantID).
		Delete(&models.CustomerAssignment{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

type assignmentRow struct {
	models.CustomerAssignment
	RestaurantName string
}

func (r *repository) ListAssignments(ctx context.Context, supplierID uuid.UUID) ([]AssignmentDTO, error) {
	var rows []assignmentRow
	err := r.db.WithContext(ctx).
		Model(&models.CustomerAssignment{}).
		Select("customer_assignments.*, restaurants.name AS restaurant_name").
		Joins("JOIN restaurants ON restaurants.id = customer_assignments.restaurant_id").
		Where("customer_assignments.supplier_id = ?", supplierID).
		Order("restaurants.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	assignments := make([]AssignmentDTO, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, AssignmentDTO{
			ID:             row.ID,
			RestaurantID:   row.RestaurantID,
			RestaurantName: row.RestaurantName,
			SalesUserID:    row.SalesUserID,
			CreatedAt:      row.CreatedAt,
		})
	}
	return assignments, nil
}
