package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mlindenberg/gastlink-backend/pkg/db/models"
	pkgerrors "github.com/mlindenberg/gastlink-backend/pkg/errors"
)

type repository interface {
	FindSupplierByOwner(ctx context.Context, userID uuid.UUID) (*models.SupplierAccount, error)
	FindAcceptedMembership(ctx context.Context, userID uuid.UUID) (*MemberContext, error)
}

// Resolver answers "what may this user do supplier-side" from current data.
// Resolution happens per request; nothing is cached between calls.
type Resolver struct {
	repo repository
}

// NewResolver builds a capability resolver over the access repository.
func NewResolver(repo repository) (*Resolver, error) {
	if repo == nil {
		return nil, fmt.Errorf("access repository required")
	}
	return &Resolver{repo: repo}, nil
}

// Resolve returns the user's capability, or (nil, nil) when the user has no
// supplier affiliation. Callers must treat nil as deny-all, not as a failure.
func (r *Resolver) Resolve(ctx context.Context, userID uuid.UUID) (*Capability, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	supplier, err := r.repo.FindSupplierByOwner(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier account")
	}
	if supplier != nil {
		return &Capability{
			UserID:     userID,
			SupplierID: supplier.ID,
			Role:       RoleOwner,
		}, nil
	}

	member, err := r.repo.FindAcceptedMembership(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load team membership")
	}
	if member == nil {
		return nil, nil
	}
	return &Capability{
		UserID:     userID,
		SupplierID: member.SupplierID,
		Role:       RoleMember,
		TeamKind:   member.TeamKind,
		IsChief:    member.IsChief,
	}, nil
}
