package access

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mlindenberg/gastlink-backend/pkg/db/models"
	"github.com/mlindenberg/gastlink-backend/pkg/enums"
	pkgerrors "github.com/mlindenberg/gastlink-backend/pkg/errors"
)

type stubAccessRepo struct {
	supplier    *models.SupplierAccount
	supplierErr error
	member      *MemberContext
	memberErr   error
}

func (s *stubAccessRepo) FindSupplierByOwner(ctx context.Context, userID uuid.UUID) (*models.SupplierAccount, error) {
	if s.supplierErr != nil {
		return nil, s.supplierErr
	}
	if s.supplier == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.supplier, nil
}

func (s *stubAccessRepo) FindAcceptedMembership(ctx context.Context, userID uuid.UUID) (*MemberContext, error) {
	return s.member, s.memberErr
}

func TestResolveOwner(t *testing.T) {
	userID := uuid.New()
	supplier := &models.SupplierAccount{ID: uuid.New(), OwnerUserID: userID}
	resolver, err := NewResolver(&stubAccessRepo{supplier: supplier})
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}

	cap, err := resolver.Resolve(context.Background(), userID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cap == nil || cap.Role != RoleOwner || cap.SupplierID != supplier.ID {
		t.Fatalf("expected owner capability for supplier %s, got %+v", supplier.ID, cap)
	}
}

func TestResolveMember(t *testing.T) {
	userID := uuid.New()
	member := &MemberContext{
		SupplierID: uuid.New(),
		TeamID:     uuid.New(),
		TeamKind:   enums.TeamKindSales,
		IsChief:    true,
	}
	resolver, err := NewResolver(&stubAccessRepo{member: member})
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}

	cap, err := resolver.Resolve(context.Background(), userID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cap == nil || cap.Role != RoleMember {
		t.Fatalf("expected member capability, got %+v", cap)
	}
	if cap.TeamKind != enums.TeamKindSales || !cap.IsChief {
		t.Fatalf("team context lost in resolution: %+v", cap)
	}
	if cap.SupplierID != member.SupplierID {
		t.Fatalf("supplier id mismatch: %s != %s", cap.SupplierID, member.SupplierID)
	}
}

func TestResolveNotAffiliatedIsNilNotError(t *testing.T) {
	resolver, err := NewResolver(&stubAccessRepo{})
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}

	cap, err := resolver.Resolve(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unaffiliated users must not produce an error, got %v", err)
	}
	if cap != nil {
		t.Fatalf("expected nil capability, got %+v", cap)
	}
}

func TestResolveMissingIdentity(t *testing.T) {
	resolver, err := NewResolver(&stubAccessRepo{})
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}

	_, err = resolver.Resolve(context.Background(), uuid.Nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestResolveRepoFailureIsDependencyError(t *testing.T) {
	resolver, err := NewResolver(&stubAccessRepo{supplierErr: errors.New("connection reset")})
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}

	_, err = resolver.Resolve(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
