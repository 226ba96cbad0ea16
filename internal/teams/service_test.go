package teams

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mlindenberg/gastlink-backend/internal/access"
	"github.com/mlindenberg/gastlink-backend/internal/users"
	"github.com/mlindenberg/gastlink-backend/pkg/config"
	"github.com/mlindenberg/gastlink-backend/pkg/db/models"
	"github.com/mlindenberg/gastlink-backend/pkg/enums"
	pkgerrors "github.com/mlindenberg/gastlink-backend/pkg/errors"
	"github.com/mlindenberg/gastlink-backend/pkg/outbox"
)

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubOutbox struct {
	events []outbox.DomainEvent
}

func (s *stubOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

type stubUsersRepo struct {
	users map[uuid.UUID]*models.User

	created        int
	passwordResets int
}

func newStubUsersRepo() *stubUsersRepo {
	return &stubUsersRepo{users: map[uuid.UUID]*models.User{}}
}

func (r *stubUsersRepo) addUser(email string) *models.User {
	user := &models.User{
		ID:       uuid.New(),
		Email:    email,
		Role:     enums.UserRoleSupplier,
		IsActive: true,
	}
	r.users[user.ID] = user
	return user
}

func (r *stubUsersRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsersRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	user.ID = uuid.New()
	r.users[user.ID] = user
	r.created++
	return user, nil
}

func (r *stubUsersRepo) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	user, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.PasswordHash = hash
	r.passwordResets++
	return nil
}

type stubTeamsRepo struct {
	supplierID  uuid.UUID
	users       *stubUsersRepo
	teams       map[enums.TeamKind]*models.Team
	members     map[uuid.UUID]*models.TeamMember // member id -> member
	assignments map[uuid.UUID]*models.CustomerAssignment
}

func newStubTeamsRepo(supplierID uuid.UUID, usersRepo *stubUsersRepo) *stubTeamsRepo {
	return &stubTeamsRepo{
		supplierID:  supplierID,
		users:       usersRepo,
		teams:       map[enums.TeamKind]*models.Team{},
		members:     map[uuid.UUID]*models.TeamMember{},
		assignments: map[uuid.UUID]*models.CustomerAssignment{},
	}
}

func (r *stubTeamsRepo) addMember(kind enums.TeamKind, chief bool, status enums.InvitationStatus, email string) (*models.TeamMember, *models.User) {
	user := r.users.addUser(email)
	team, _ := r.FindOrCreateTeam(context.Background(), r.supplierID, kind)
	code, _ := r.NextStaffCode(context.Background(), r.supplierID)
	member := &models.TeamMember{
		ID:               uuid.New(),
		TeamID:           team.ID,
		UserID:           user.ID,
		SupplierID:       r.supplierID,
		IsChief:          chief,
		StaffCode:        code,
		InvitationStatus: status,
		CreatedAt:        time.Now().UTC(),
	}
	r.members[member.ID] = member
	return member, user
}

func (r *stubTeamsRepo) WithTx(tx *gorm.DB) Repository { return r }

func (r *stubTeamsRepo) FindOrCreateTeam(ctx context.Context, supplierID uuid.UUID, kind enums.TeamKind) (*models.Team, error) {
	if team, ok := r.teams[kind]; ok {
		return team, nil
	}
	team := &models.Team{ID: uuid.New(), SupplierID: supplierID, Kind: kind, Name: teamNamesByKind[kind]}
	r.teams[kind] = team
	return team, nil
}

func (r *stubTeamsRepo) NextStaffCode(ctx context.Context, supplierID uuid.UUID) (string, error) {
	return fmt.Sprintf("MIT-%03d", len(r.members)+1), nil
}

func (r *stubTeamsRepo) CreateMember(ctx context.Context, member *models.TeamMember) (*models.TeamMember, error) {
	member.ID = uuid.New()
	member.CreatedAt = time.Now().UTC()
	r.members[member.ID] = member
	return member, nil
}

func (r *stubTeamsRepo) FindMemberByUser(ctx context.Context, supplierID, userID uuid.UUID) (*models.TeamMember, error) {
	for _, member := range r.members {
		if member.SupplierID == supplierID && member.UserID == userID {
			return member, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubTeamsRepo) FindLatestMemberByUser(ctx context.Context, userID uuid.UUID) (*models.TeamMember, error) {
	var latest *models.TeamMember
	for _, member := range r.members {
		if member.UserID != userID {
			continue
		}
		if latest == nil || member.CreatedAt.After(latest.CreatedAt) {
			latest = member
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return latest, nil
}

func (r *stubTeamsRepo) AcceptConditional(ctx context.Context, memberID uuid.UUID, at time.Time) (bool, error) {
	member, ok := r.members[memberID]
	if !ok || member.InvitationStatus != enums.InvitationStatusPending {
		return false, nil
	}
	member.InvitationStatus = enums.InvitationStatusAccepted
	member.AcceptedAt = &at
	return true, nil
}

func (r *stubTeamsRepo) kindOf(teamID uuid.UUID) enums.TeamKind {
	for _, team := range r.teams {
		if team.ID == teamID {
			return team.Kind
		}
	}
	return ""
}

func (r *stubTeamsRepo) ListMembers(ctx context.Context, supplierID uuid.UUID, kind *enums.TeamKind) ([]TeamMemberDTO, error) {
	var members []TeamMemberDTO
	for _, member := range r.members {
		if member.SupplierID != supplierID {
			continue
		}
		memberKind := r.kindOf(member.TeamID)
		if kind != nil && memberKind != *kind {
			continue
		}
		user := r.users.users[member.UserID]
		members = append(members, TeamMemberDTO{
			MemberID:         member.ID,
			TeamID:           member.TeamID,
			UserID:           member.UserID,
			Email:            user.Email,
			TeamKind:         memberKind,
			IsChief:          member.IsChief,
			StaffCode:        member.StaffCode,
			InvitationStatus: member.InvitationStatus,
			AcceptedAt:       member.AcceptedAt,
			CreatedAt:        member.CreatedAt,
		})
	}
	return members, nil
}

func (r *stubTeamsRepo) DeleteMember(ctx context.Context, supplierID, userID uuid.UUID) (bool, error) {
	for id, member := range r.members {
		if member.SupplierID == supplierID && member.UserID == userID {
			delete(r.members, id)
			return true, nil
		}
	}
	return false, nil
}

func (r *stubTeamsRepo) UpsertAssignment(ctx context.Context, supplierID, restaurantID, salesUserID uuid.UUID) (*models.CustomerAssignment, error) {
	if existing, ok := r.assignments[restaurantID]; ok {
		existing.SalesUserID = salesUserID
		return existing, nil
	}
	assignment := &models.CustomerAssignment{
		ID:           uuid.New(),
		SupplierID:   supplierID,
		RestaurantID: restaurantID,
		SalesUserID:  salesUserID,
	}
	r.assignments[restaurantID] = assignment
	return assignment, nil
}

func (r *stubTeamsRepo) RemoveAssignment(ctx context.Context, supplierID, restaurantID uuid.UUID) (bool, error) {
	if _, ok := r.assignments[restaurantID]; !ok {
		return false, nil
	}
	delete(r.assignments, restaurantID)
	return true, nil
}

func (r *stubTeamsRepo) ListAssignments(ctx context.Context, supplierID uuid.UUID) ([]AssignmentDTO, error) {
	var assignments []AssignmentDTO
	for _, a := range r.assignments {
		assignments = append(assignments, AssignmentDTO{
			ID:           a.ID,
			RestaurantID: a.RestaurantID,
			SalesUserID:  a.SalesUserID,
		})
	}
	return assignments, nil
}

type serviceFixture struct {
	svc        Service
	repo       *stubTeamsRepo
	users      *stubUsersRepo
	outbox     *stubOutbox
	supplierID uuid.UUID
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	supplierID := uuid.New()
	usersRepo := newStubUsersRepo()
	f := &serviceFixture{
		repo:       newStubTeamsRepo(supplierID, usersRepo),
		users:      usersRepo,
		outbox:     &stubOutbox{},
		supplierID: supplierID,
	}
	svc, err := NewService(f.repo, f.users, stubTx{}, f.outbox, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	f.svc = svc
	return f
}

func ownerCap(supplierID uuid.UUID) *access.Capability {
	return &access.Capability{UserID: uuid.New(), SupplierID: supplierID, Role: access.RoleOwner}
}

func chiefCap(supplierID uuid.UUID, kind enums.TeamKind) *access.Capability {
	return &access.Capability{UserID: uuid.New(), SupplierID: supplierID, Role: access.RoleMember, TeamKind: kind, IsChief: true}
}

func memberCap(supplierID uuid.UUID, kind enums.TeamKind) *access.Capability {
	return &access.Capability{UserID: uuid.New(), SupplierID: supplierID, Role: access.RoleMember, TeamKind: kind}
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func TestInviteCreatesUserTeamAndMember(t *testing.T) {
	f := newServiceFixture(t)

	dto, tempPassword, err := f.svc.Invite(context.Background(), ownerCap(f.supplierID), InviteInput{
		Email:     "Neu@Lieferant.de",
		FirstName: "Nina",
		LastName:  "Neumann",
		TeamKind:  enums.TeamKindLogistics,
	})
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	if tempPassword == "" {
		t.Fatal("expected a temp password for a new user")
	}
	if f.users.created != 1 {
		t.Fatalf("expected one user created, got %d", f.users.created)
	}
	if dto.Email != "neu@lieferant.de" {
		t.Fatalf("email not normalized: %q", dto.Email)
	}
	if dto.TeamKind != enums.TeamKindLogistics {
		t.Fatalf("wrong team kind %s", dto.TeamKind)
	}
	if dto.StaffCode != "MIT-001" {
		t.Fatalf("expected MIT-001, got %s", dto.StaffCode)
	}
	if dto.InvitationStatus != enums.InvitationStatusPending {
		t.Fatalf("expected pending invitation, got %s", dto.InvitationStatus)
	}
	if len(f.outbox.events) != 1 || f.outbox.events[0].EventType != enums.EventMemberInvited {
		t.Fatalf("expected one member_invited event, got %+v", f.outbox.events)
	}
	if f.outbox.events[0].SupplierID != f.supplierID {
		t.Fatal("event missing supplier id")
	}
}

func TestInviteExistingUserResetsPassword(t *testing.T) {
	f := newServiceFixture(t)
	user := f.users.addUser("bekannt@lieferant.de")

	dto, tempPassword, err := f.svc.Invite(context.Background(), ownerCap(f.supplierID), InviteInput{
		Email:    "bekannt@lieferant.de",
		TeamKind: enums.TeamKindSales,
		IsChief:  true,
	})
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	if tempPassword == "" {
		t.Fatal("expected a reset temp password")
	}
	if f.users.created != 0 {
		t.Fatal("no new user should be created")
	}
	if f.users.passwordResets != 1 {
		t.Fatalf("expected one password reset, got %d", f.users.passwordResets)
	}
	if dto.UserID != user.ID || !dto.IsChief {
		t.Fatalf("unexpected member %+v", dto)
	}
}

func TestInviteExistingMemberIsIdempotent(t *testing.T) {
	f := newServiceFixture(t)
	_, user := f.repo.addMember(enums.TeamKindSales, false, enums.InvitationStatusAccepted, "dabei@lieferant.de")

	dto, tempPassword, err := f.svc.Invite(context.Background(), ownerCap(f.supplierID), InviteInput{
		Email:    user.Email,
		TeamKind: enums.TeamKindSales,
	})
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	if tempPassword != "" {
		t.Fatal("re-invite must not issue a new password")
	}
	if dto.UserID != user.ID {
		t.Fatalf("expected existing membership, got %+v", dto)
	}
	if len(f.outbox.events) != 0 {
		t.Fatalf("re-invite must not emit events, got %+v", f.outbox.events)
	}
}

func TestInviteGuards(t *testing.T) {
	f := newServiceFixture(t)

	_, _, err := f.svc.Invite(context.Background(), nil, InviteInput{Email: "a@b.de", TeamKind: enums.TeamKindSales})
	expectCode(t, err, pkgerrors.CodeNotAffiliated)

	_, _, err = f.svc.Invite(context.Background(), chiefCap(f.supplierID, enums.TeamKindSales), InviteInput{Email: "a@b.de", TeamKind: enums.TeamKindSales})
	expectCode(t, err, pkgerrors.CodeForbidden)

	_, _, err = f.svc.Invite(context.Background(), ownerCap(f.supplierID), InviteInput{Email: "keine-mail", TeamKind: enums.TeamKindSales})
	expectCode(t, err, pkgerrors.CodeValidation)

	_, _, err = f.svc.Invite(context.Background(), ownerCap(f.supplierID), InviteInput{Email: "a@b.de", TeamKind: "kitchen"})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestAcceptInvitation(t *testing.T) {
	f := newServiceFixture(t)
	member, user := f.repo.addMember(enums.TeamKindLogistics, false, enums.InvitationStatusPending, "neu@lieferant.de")

	dto, err := f.svc.Accept(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if dto.InvitationStatus != enums.InvitationStatusAccepted {
		t.Fatalf("expected accepted, got %s", dto.InvitationStatus)
	}
	if dto.AcceptedAt == nil {
		t.Fatal("accepted_at not set")
	}
	if len(f.outbox.events) != 1 || f.outbox.events[0].EventType != enums.EventMemberAccepted {
		t.Fatalf("expected one member_accepted event, got %+v", f.outbox.events)
	}
	if f.outbox.events[0].AggregateID != member.TeamID {
		t.Fatal("event aggregate should be the team")
	}

	// A second accept is a no-op without another event.
	if _, err := f.svc.Accept(context.Background(), user.ID); err != nil {
		t.Fatalf("second accept: %v", err)
	}
	if len(f.outbox.events) != 1 {
		t.Fatalf("second accept must not emit, got %d events", len(f.outbox.events))
	}
}

func TestAcceptWithoutInvitation(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.Accept(context.Background(), uuid.New())
	expectCode(t, err, pkgerrors.CodeNotFound)

	_, err = f.svc.Accept(context.Background(), uuid.Nil)
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestRosterVisibility(t *testing.T) {
	f := newServiceFixture(t)
	f.repo.addMember(enums.TeamKindLogistics, false, enums.InvitationStatusAccepted, "l1@x.de")
	f.repo.addMember(enums.TeamKindSales, false, enums.InvitationStatusAccepted, "s1@x.de")
	f.repo.addMember(enums.TeamKindSales, false, enums.InvitationStatusPending, "s2@x.de")

	all, err := f.svc.Roster(context.Background(), ownerCap(f.supplierID))
	if err != nil {
		t.Fatalf("owner roster: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("owner should see all members, got %d", len(all))
	}

	salesOnly, err := f.svc.Roster(context.Background(), chiefCap(f.supplierID, enums.TeamKindSales))
	if err != nil {
		t.Fatalf("chief roster: %v", err)
	}
	if len(salesOnly) != 2 {
		t.Fatalf("sales chief should see 2 members, got %d", len(salesOnly))
	}
	for _, m := range salesOnly {
		if m.TeamKind != enums.TeamKindSales {
			t.Fatalf("foreign team member in chief roster: %+v", m)
		}
	}

	_, err = f.svc.Roster(context.Background(), memberCap(f.supplierID, enums.TeamKindSales))
	expectCode(t, err, pkgerrors.CodeForbidden)

	_, err = f.svc.Roster(context.Background(), nil)
	expectCode(t, err, pkgerrors.CodeNotAffiliated)
}

func TestRemoveMember(t *testing.T) {
	f := newServiceFixture(t)
	_, user := f.repo.addMember(enums.TeamKindLogistics, false, enums.InvitationStatusAccepted, "weg@x.de")

	if err := f.svc.RemoveMember(context.Background(), ownerCap(f.supplierID), user.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	err := f.svc.RemoveMember(context.Background(), ownerCap(f.supplierID), user.ID)
	expectCode(t, err, pkgerrors.CodeNotFound)

	err = f.svc.RemoveMember(context.Background(), memberCap(f.supplierID, enums.TeamKindSales), uuid.New())
	expectCode(t, err, pkgerrors.CodeForbidden)
}

func TestAssignCustomerRequiresAcceptedSalesMember(t *testing.T) {
	f := newServiceFixture(t)
	_, logistics := f.repo.addMember(enums.TeamKindLogistics, false, enums.InvitationStatusAccepted, "l@x.de")
	_, pendingSales := f.repo.addMember(enums.TeamKindSales, false, enums.InvitationStatusPending, "p@x.de")
	_, sales := f.repo.addMember(enums.TeamKindSales, false, enums.InvitationStatusAccepted, "s@x.de")
	restaurantID := uuid.New()

	_, err := f.svc.AssignCustomer(context.Background(), ownerCap(f.supplierID), AssignCustomerInput{
		RestaurantID: restaurantID,
		SalesUserID:  logistics.ID,
	})
	expectCode(t, err, pkgerrors.CodeValidation)

	_, err = f.svc.AssignCustomer(context.Background(), ownerCap(f.supplierID), AssignCustomerInput{
		RestaurantID: restaurantID,
		SalesUserID:  pendingSales.ID,
	})
	expectCode(t, err, pkgerrors.CodeValidation)

	dto, err := f.svc.AssignCustomer(context.Background(), ownerCap(f.supplierID), AssignCustomerInput{
		RestaurantID: restaurantID,
		SalesUserID:  sales.ID,
	})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if dto.SalesUserID != sales.ID {
		t.Fatalf("wrong assignee %s", dto.SalesUserID)
	}
}

func TestAssignCustomerReassigns(t *testing.T) {
	f := newServiceFixture(t)
	_, first := f.repo.addMember(enums.TeamKindSales, false, enums.InvitationStatusAccepted, "a@x.de")
	_, second := f.repo.addMember(enums.TeamKindSales, false, enums.InvitationStatusAccepted, "b@x.de")
	restaurantID := uuid.New()

	if _, err := f.svc.AssignCustomer(context.Background(), ownerCap(f.supplierID), AssignCustomerInput{
		RestaurantID: restaurantID, SalesUserID: first.ID,
	}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	dto, err := f.svc.AssignCustomer(context.Background(), ownerCap(f.supplierID), AssignCustomerInput{
		RestaurantID: restaurantID, SalesUserID: second.ID,
	})
	if err != nil {
		t.Fatalf("reassign: %v", err)
	}
	if dto.SalesUserID != second.ID {
		t.Fatal("reassignment did not replace the assignee")
	}
	if len(f.repo.assignments) != 1 {
		t.Fatalf("expected a single assignment row, got %d", len(f.repo.assignments))
	}
}

func TestUnassignCustomer(t *testing.T) {
	f := newServiceFixture(t)
	_, sales := f.repo.addMember(enums.TeamKindSales, false, enums.InvitationStatusAccepted, "s@x.de")
	restaurantID := uuid.New()

	if _, err := f.svc.AssignCustomer(context.Background(), ownerCap(f.supplierID), AssignCustomerInput{
		RestaurantID: restaurantID, SalesUserID: sales.ID,
	}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := f.svc.UnassignCustomer(context.Background(), ownerCap(f.supplierID), restaurantID); err != nil {
		t.Fatalf("unassign: %v", err)
	}
	err := f.svc.UnassignCustomer(context.Background(), ownerCap(f.supplierID), restaurantID)
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestListAssignmentsAccess(t *testing.T) {
	f := newServiceFixture(t)
	_, sales := f.repo.addMember(enums.TeamKindSales, false, enums.InvitationStatusAccepted, "s@x.de")
	if _, err := f.svc.AssignCustomer(context.Background(), ownerCap(f.supplierID), AssignCustomerInput{
		RestaurantID: uuid.New(), SalesUserID: sales.ID,
	}); err != nil {
		t.Fatalf("assign: %v", err)
	}

	got, err := f.svc.ListAssignments(context.Background(), chiefCap(f.supplierID, enums.TeamKindSales))
	if err != nil {
		t.Fatalf("sales chief list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(got))
	}

	_, err = f.svc.ListAssignments(context.Background(), chiefCap(f.supplierID, enums.TeamKindLogistics))
	expectCode(t, err, pkgerrors.CodeForbidden)
}
