package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/mlindenberg/gastlink-backend/api/responses"
	"github.com/mlindenberg/gastlink-backend/internal/access"
	pkgerrors "github.com/mlindenberg/gastlink-backend/pkg/errors"
	"github.com/mlindenberg/gastlink-backend/pkg/logger"
)

// CapabilityResolver answers what the authenticated user may do supplier-side.
type CapabilityResolver interface {
	Resolve(ctx context.Context, userID uuid.UUID) (*access.Capability, error)
}

// SupplierCapability resolves the caller's supplier capability and stores it
// in the request context. Unaffiliated users are rejected with NOT_AFFILIATED;
// resolution happens per request so revoked memberships take effect
// immediately.
func SupplierCapability(resolver CapabilityResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if resolver == nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "capability resolver unavailable"))
				return
			}

			rawUserID := UserIDFromContext(ctx)
			if rawUserID == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
				return
			}
			userID, err := uuid.Parse(rawUserID)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
				return
			}

			cap, err := resolver.Resolve(ctx, userID)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			if cap == nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotAffiliated, "no supplier affiliation"))
				return
			}

			ctx = WithCapability(ctx, cap)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"supplier_id":   cap.SupplierID.String(),
					"supplier_role": string(cap.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
