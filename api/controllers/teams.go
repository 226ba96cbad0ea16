package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mlindenberg/gastlink-backend/api/middleware"
	"github.com/mlindenberg/gastlink-backend/api/responses"
	"github.com/mlindenberg/gastlink-backend/api/validators"
	"github.com/mlindenberg/gastlink-backend/internal/teams"
	"github.com/mlindenberg/gastlink-backend/pkg/enums"
	pkgerrors "github.com/mlindenberg/gastlink-backend/pkg/errors"
	"github.com/mlindenberg/gastlink-backend/pkg/logger"
)

type inviteRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	TeamKind  string `json:"team_kind" validate:"required"`
	IsChief   bool   `json:"is_chief"`
}

type inviteResponse struct {
	Member *teams.TeamMemberDTO `json:"member"`
	// TempPassword is only set when the invite created a fresh login or
	// reset an existing one. It is shown once and never stored readable.
	TempPassword string `json:"temp_password,omitempty"`
}

type assignmentRequest struct {
	RestaurantID uuid.UUID `json:"restaurant_id" validate:"required"`
	SalesUserID  uuid.UUID `json:"sales_user_id" validate:"required"`
}

// TeamRoster lists team members visible to the caller.
func TeamRoster(svc teams.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "teams service unavailable"))
			return
		}

		roster, err := svc.Roster(r.Context(), middleware.CapabilityFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, roster)
	}
}

// TeamInvite adds a user to one of the supplier's teams.
func TeamInvite(svc teams.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "teams service unavailable"))
			return
		}

		var body inviteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := enums.ParseTeamKind(body.TeamKind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid team kind"))
			return
		}

		member, tempPassword, err := svc.Invite(r.Context(), middleware.CapabilityFromContext(r.Context()), teams.InviteInput{
			Email:     body.Email,
			FirstName: body.FirstName,
			LastName:  body.LastName,
			TeamKind:  kind,
			IsChief:   body.IsChief,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, inviteResponse{
			Member:       member,
			TempPassword: tempPassword,
		})
	}
}

// TeamAccept lets an invited user accept their pending membership. It runs
// before any capability exists, so it only needs the authenticated user.
func TeamAccept(svc teams.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "teams service unavailable"))
			return
		}

		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		member, err := svc.Accept(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, member)
	}
}

// TeamRemoveMember removes a member from the supplier's teams.
func TeamRemoveMember(svc teams.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "teams service unavailable"))
			return
		}

		targetUserID, err := uuidParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveMember(r.Context(), middleware.CapabilityFromContext(r.Context()), targetUserID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

// AssignmentUpsert binds a customer restaurant to a sales member.
func AssignmentUpsert(svc teams.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "teams service unavailable"))
			return
		}

		var body assignmentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		assignment, err := svc.AssignCustomer(r.Context(), middleware.CapabilityFromContext(r.Context()), teams.AssignCustomerInput{
			RestaurantID: body.RestaurantID,
			SalesUserID:  body.SalesUserID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, assignment)
	}
}

// AssignmentRemove deletes a customer assignment.
func AssignmentRemove(svc teams.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "teams service unavailable"))
			return
		}

		restaurantID, err := uuidParam(r, "restaurantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UnassignCustomer(r.Context(), middleware.CapabilityFromContext(r.Context()), restaurantID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "unassigned"})
	}
}

// AssignmentList returns all customer assignments of the supplier.
func AssignmentList(svc teams.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "teams service unavailable"))
			return
		}

		assignments, err := svc.ListAssignments(r.Context(), middleware.CapabilityFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, assignments)
	}
}
