package access

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mlindenberg/gastlink-backend/pkg/db/models"
	"github.com/mlindenberg/gastlink-backend/pkg/enums"
)

func setupAccessTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS supplier_accounts (
  id TEXT PRIMARY KEY,
  owner_user_id TEXT NOT NULL UNIQUE,
  company_name TEXT NOT NULL,
  description TEXT,
  phone TEXT,
  email TEXT,
  logo_url TEXT,
  min_order_amount_cents INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_active_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS teams (
  id TEXT PRIMARY KEY,
  supplier_id TEXT NOT NULL,
  kind TEXT NOT NULL,
  name TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (supplier_id, kind)
);`,
		`CREATE TABLE IF NOT EXISTS team_members (
  id TEXT PRIMARY KEY,
  team_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  supplier_id TEXT NOT NULL,
  is_chief INTEGER NOT NULL DEFAULT 0,
  staff_code TEXT NOT NULL,
  invitation_status TEXT NOT NULL DEFAULT 'pending',
  invited_by_user_id TEXT,
  accepted_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (team_id, user_id)
);`,
		`CREATE TABLE IF NOT EXISTS customer_assignments (
  id TEXT PRIMARY KEY,
  supplier_id TEXT NOT NULL,
  restaurant_id TEXT NOT NULL,
  sales_user_id TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (supplier_id, restaurant_id)
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newSupplier(t *testing.T, db *gorm.DB, ownerUserID uuid.UUID) *models.SupplierAccount {
	t.Helper()

	supplier := &models.SupplierAccount{
		ID:          uuid.New(),
		OwnerUserID: ownerUserID,
		CompanyName: "Frischdienst Nord",
	}
	require.NoError(t, db.Create(supplier).Error)
	return supplier
}

func newTeam(t *testing.T, db *gorm.DB, supplierID uuid.UUID, kind enums.TeamKind) *models.Team {
	t.Helper()

	team := &models.Team{
		ID:         uuid.New(),
		SupplierID: supplierID,
		Kind:       kind,
		Name:       string(kind),
	}
	require.NoError(t, db.Create(team).Error)
	return team
}

func newMember(t *testing.T, db *gorm.DB, team *models.Team, userID uuid.UUID, chief bool, status enums.InvitationStatus) *models.TeamMember {
	t.Helper()

	member := &models.TeamMember{
		ID:               uuid.New(),
		TeamID:           team.ID,
		UserID:           userID,
		SupplierID:       team.SupplierID,
		IsChief:          chief,
		StaffCode:        "MIT-001",
		InvitationStatus: status,
	}
	require.NoError(t, db.Create(member).Error)
	return member
}

func TestRepositoryFindSupplierByOwner(t *testing.T) {
	db := setupAccessTestDB(t)
	repo := NewRepository(db)

	ownerID := uuid.New()
	supplier := newSupplier(t, db, ownerID)

	found, err := repo.FindSupplierByOwner(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Equal(t, supplier.ID, found.ID)

	_, err = repo.FindSupplierByOwner(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRepositoryFindAcceptedMembership(t *testing.T) {
	db := setupAccessTestDB(t)
	repo := NewRepository(db)

	supplier := newSupplier(t, db, uuid.New())
	team := newTeam(t, db, supplier.ID, enums.TeamKindLogistics)

	memberID := uuid.New()
	newMember(t, db, team, memberID, true, enums.InvitationStatusAccepted)

	member, err := repo.FindAcceptedMembership(context.Background(), memberID)
	require.NoError(t, err)
	require.NotNil(t, member)
	assert.Equal(t, supplier.ID, member.SupplierID)
	assert.Equal(t, team.ID, member.TeamID)
	assert.Equal(t, enums.TeamKindLogistics, member.TeamKind)
	assert.True(t, member.IsChief)
}

func TestRepositoryFindAcceptedMembershipIgnoresPending(t *testing.T) {
	db := setupAccessTestDB(t)
	repo := NewRepository(db)

	supplier := newSupplier(t, db, uuid.New())
	team := newTeam(t, db, supplier.ID, enums.TeamKindSales)

	pendingUserID := uuid.New()
	newMember(t, db, team, pendingUserID, false, enums.InvitationStatusPending)

	member, err := repo.FindAcceptedMembership(context.Background(), pendingUserID)
	require.NoError(t, err)
	assert.Nil(t, member)
}

func TestRepositoryListAssignedRestaurantIDs(t *testing.T) {
	db := setupAccessTestDB(t)
	repo := NewRepository(db)

	supplier := newSupplier(t, db, uuid.New())
	salesUserID := uuid.New()
	assigned := uuid.New()

	require.NoError(t, db.Create(&models.CustomerAssignment{
		ID:           uuid.New(),
		SupplierID:   supplier.ID,
		RestaurantID: assigned,
		SalesUserID:  salesUserID,
	}).Error)
	require.NoError(t, db.Create(&models.CustomerAssignment{
		ID:           uuid.New(),
		SupplierID:   supplier.ID,
		RestaurantID: uuid.New(),
		SalesUserID:  uuid.New(),
	}).Error)

	ids, err := repo.ListAssignedRestaurantIDs(context.Background(), supplier.ID, salesUserID)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, assigned, ids[0])
}
