package teams

import (
	"context"
	"errors"
	"fmt"
	"strings"
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
	"github.com/mlindenberg/gastlink-backend/pkg/outbox/payloads"
	"github.com/mlindenberg/gastlink-backend/pkg/security"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type usersRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

// Service exposes supplier team management.
type Service interface {
	Invite(ctx context.Context, cap *access.Capability, input InviteInput) (*TeamMemberDTO, string, error)
	Accept(ctx context.Context, userID uuid.UUID) (*TeamMemberDTO, error)
	Roster(ctx context.Context, cap *access.Capability) ([]TeamMemberDTO, error)
	RemoveMember(ctx context.Context, cap *access.Capability, targetUserID uuid.UUID) error
	AssignCustomer(ctx context.Context, cap *access.Capability, input AssignCustomerInput) (*AssignmentDTO, error)
	UnassignCustomer(ctx context.Context, cap *access.Capability, restaurantID uuid.UUID) error
	ListAssignments(ctx context.Context, cap *access.Capability) ([]AssignmentDTO, error)
}

type service struct {
	repo        Repository
	users       usersRepository
	tx          txRunner
	outbox      outboxPublisher
	passwordCfg config.PasswordConfig
}

// NewService builds the team service with its required dependencies.
func NewService(
	repo Repository,
	usersRepo usersRepository,
	tx txRunner,
	publisher outboxPublisher,
	passwordCfg config.PasswordConfig,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("teams repository required")
	}
	if usersRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		repo:        repo,
		users:       usersRepo,
		tx:          tx,
		outbox:      publisher,
		passwordCfg: passwordCfg,
	}, nil
}

func (s *service) requireTeamManager(cap *access.Capability) error {
	if cap == nil {
		return pkgerrors.New(pkgerrors.CodeNotAffiliated, "no supplier affiliation")
	}
	if !cap.CanManageTeam() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "team management requires the account owner")
	}
	return nil
}

func (s *service) createNewUser(ctx context.Context, email, firstName, lastName string) (*models.User, string, error) {
	tempPassword, err := security.GenerateTempPassword(16)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate temp password")
	}
	hash, err := security.HashPassword(tempPassword, s.passwordCfg)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: hash,
		Role:         enums.UserRoleSupplier,
	})
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return user, tempPassword, nil
}

func (s *service) resetUserPassword(ctx context.Context, userID uuid.UUID) (string, error) {
	tempPassword, err := security.GenerateTempPassword(16)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate temp password")
	}
	hash, err := security.HashPassword(tempPassword, s.passwordCfg)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user password")
	}
	return tempPassword, nil
}

func (s *service) fetchMemberDTO(ctx context.Context, supplierID, userID uuid.UUID) (*TeamMemberDTO, error) {
	members, err := s.repo.ListMembers(ctx, supplierID, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list team members")
	}
	for i := range members {
		if members[i].UserID == userID {
			return &members[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "team member not found")
}

// Invite adds a user to one of the supplier's teams. New users are created
// with a temporary password; re-inviting an existing member is a no-op that
// returns the current membership.
func (s *service) Invite(ctx context.Context, cap *access.Capability, input InviteInput) (*TeamMemberDTO, string, error) {
	if err := s.requireTeamManager(cap); err != nil {
		return nil, "", err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "valid email is required")
	}
	if !input.TeamKind.IsValid() {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid team kind")
	}

	var usr *models.User
	var tempPassword string
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			usr, tempPassword, err = s.createNewUser(ctx, email, input.FirstName, input.LastName)
			if err != nil {
				return nil, "", err
			}
		} else {
			return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
		}
	} else {
		usr = user
	}

	existing, err := s.repo.FindMemberByUser(ctx, cap.SupplierID, usr.ID)
	if err == nil && existing != nil {
		dto, fetchErr := s.fetchMemberDTO(ctx, cap.SupplierID, usr.ID)
		if fetchErr != nil {
			return nil, "", fetchErr
		}
		return dto, "", nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
	}

	if tempPassword == "" {
		tempPassword, err = s.resetUserPassword(ctx, usr.ID)
		if err != nil {
			return nil, "", err
		}
	}

	var member *models.TeamMember
	var team *models.Team
	inviterID := cap.UserID
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		team, err = repo.FindOrCreateTeam(ctx, cap.SupplierID, input.TeamKind)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve team")
		}

		staffCode, err := repo.NextStaffCode(ctx, cap.SupplierID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate staff code")
		}

		member, err = repo.CreateMember(ctx, &models.TeamMember{
			TeamID:           team.ID,
			UserID:           usr.ID,
			SupplierID:       cap.SupplierID,
			IsChief:          input.IsChief,
			StaffCode:        staffCode,
			InvitationStatus: enums.InvitationStatusPending,
			InvitedByUserID:  &inviterID,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create team member")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventMemberInvited,
			AggregateType: enums.AggregateTeam,
			AggregateID:   team.ID,
			SupplierID:    cap.SupplierID,
			Actor:         supplierActor(cap),
			Data: payloads.MemberInvitedEvent{
				SupplierID: cap.SupplierID,
				TeamID:     team.ID,
				UserID:     usr.ID,
				TeamKind:   input.TeamKind,
				StaffCode:  member.StaffCode,
			},
			Version: 1,
		})
	})
	if err != nil {
		return nil, "", err
	}

	return &TeamMemberDTO{
		MemberID:         member.ID,
		TeamID:           team.ID,
		UserID:           usr.ID,
		Email:            usr.Email,
		FirstName:        usr.FirstName,
		LastName:         usr.LastName,
		TeamKind:         team.Kind,
		IsChief:          member.IsChief,
		StaffCode:        member.StaffCode,
		InvitationStatus: member.InvitationStatus,
		CreatedAt:        member.CreatedAt,
	}, tempPassword, nil
}

// Accept flips the caller's pending invitation to accepted. Accepting an
// already-accepted invitation returns the membership without a new event.
func (s *service) Accept(ctx context.Context, userID uuid.UUID) (*TeamMemberDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}

	member, err := s.repo.FindLatestMemberByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no invitation found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load membership")
	}

	if member.InvitationStatus == enums.InvitationStatusAccepted {
		return s.fetchMemberDTO(ctx, member.SupplierID, userID)
	}

	now := time.Now().UTC()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		ok, err := repo.AcceptConditional(ctx, member.ID, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "accept invitation")
		}
		if !ok {
			// Lost the race to a concurrent accept; nothing left to do.
			return nil
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventMemberAccepted,
			AggregateType: enums.AggregateTeam,
			AggregateID:   member.TeamID,
			SupplierID:    member.SupplierID,
			Actor:         memberActor(userID, member.SupplierID),
			Data: payloads.MemberAcceptedEvent{
				SupplierID: member.SupplierID,
				TeamID:     member.TeamID,
				UserID:     userID,
				AcceptedAt: now,
			},
			Version: 1,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.fetchMemberDTO(ctx, member.SupplierID, userID)
}

// Roster lists team members: the owner sees every team, a chief sees their
// own team only.
func (s *service) Roster(ctx context.Context, cap *access.Capability) ([]TeamMemberDTO, error) {
	if cap == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotAffiliated, "no supplier affiliation")
	}

	var kind *enums.TeamKind
	switch {
	case cap.CanManageTeam():
	case cap.CanSeeOwnTeamRoster():
		teamKind := cap.TeamKind
		kind = &teamKind
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "roster access denied")
	}

	members, err := s.repo.ListMembers(ctx, cap.SupplierID, kind)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list team members")
	}
	return members, nil
}

func (s *service) RemoveMember(ctx context.Context, cap *access.Capability, targetUserID uuid.UUID) error {
	if err := s.requireTeamManager(cap); err != nil {
		return err
	}

	ok, err := s.repo.DeleteMember(ctx, cap.SupplierID, targetUserID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete team member")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "team member not found")
	}
	return nil
}

// AssignCustomer binds a customer to an accepted sales member. Reassignment
// replaces the previous assignee.
func (s *service) AssignCustomer(ctx context.Context, cap *access.Capability, input AssignCustomerInput) (*AssignmentDTO, error) {
	if err := s.requireTeamManager(cap); err != nil {
		return nil, err
	}
	if input.RestaurantID == uuid.Nil || input.SalesUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant and sales user are required")
	}

	salesKind := enums.TeamKindSales
	salesMembers, err := s.repo.ListMembers(ctx, cap.SupplierID, &salesKind)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sales members")
	}
	eligible := false
	for _, m := range salesMembers {
		if m.UserID == input.SalesUserID && m.InvitationStatus == enums.InvitationStatusAccepted {
			eligible = true
			break
		}
	}
	if !eligible {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "assignee must be an accepted sales team member")
	}

	assignment, err := s.repo.UpsertAssignment(ctx, cap.SupplierID, input.RestaurantID, input.SalesUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert assignment")
	}

	return &AssignmentDTO{
		ID:           assignment.ID,
		RestaurantID: assignment.RestaurantID,
		SalesUserID:  assignment.SalesUserID,
		CreatedAt:    assignment.CreatedAt,
	}, nil
}

func (s *service) UnassignCustomer(ctx context.Context, cap *access.Capability, restaurantID uuid.UUID) error {
	if err := s.requireTeamManager(cap); err != nil {
		return err
	}

	ok, err := s.repo.RemoveAssignment(ctx, cap.SupplierID, restaurantID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove assignment")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found")
	}
	return nil
}

// ListAssignments is available to the owner and to the sales chief.
func (s *service) ListAssignments(ctx context.Context, cap *access.Capability) ([]AssignmentDTO, error) {
	if cap == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotAffiliated, "no supplier affiliation")
	}
	salesChief := cap.CanSeeOwnTeamRoster() && cap.TeamKind == enums.TeamKindSales
	if !cap.CanManageTeam() && !salesChief {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "assignment access denied")
	}

	assignments, err := s.repo.ListAssignments(ctx, cap.SupplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list assignments")
	}
	return assignments, nil
}

func supplierActor(cap *access.Capability) *outbox.ActorRef {
	supplierID := cap.SupplierID
	return &outbox.ActorRef{
		UserID:     cap.UserID,
		SupplierID: &supplierID,
		Role:       string(cap.Role),
	}
}

func memberActor(userID, supplierID uuid.UUID) *outbox.ActorRef {
	return &outbox.ActorRef{
		UserID:     userID,
		SupplierID: &supplierID,
		Role:       string(access.RoleMember),
	}
}
