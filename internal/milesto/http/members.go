package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/abhi19833/milesto/internal/milesto/domain"
	"github.com/abhi19833/milesto/internal/milesto/service"
	"github.com/abhi19833/milesto/pkg/httpx"
	"github.com/abhi19833/milesto/pkg/milestosdk"
	"github.com/abhi19833/milesto/pkg/slogx"
)

type MembersHandler struct {
	ProjectService *service.ProjectService
}

// HandleAdd godoc
//
//	@Summary		Add Member Endpoint
//	@Description	Add an existing account to the project team by user id. Requires a managing
//	@Description	role. Use the invitation flow for emails without an account.
//	@Tags			Team
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Project id"
//	@Param			request	body		milestosdk.AddMemberRequest	true	"User id and role"
//	@Success		201		{object}	milestosdk.Member			"new member"
//	@Failure		400		{object}	milestosdk.ErrorResponse	"message"
//	@Failure		403		{object}	milestosdk.ErrorResponse	"message"
//	@Failure		404		{object}	milestosdk.ErrorResponse	"message"
//	@Failure		409		{object}	milestosdk.ErrorResponse	"message"
//	@Security		BearerAuth
//	@Router			/api/projects/{id}/members [post].
func (h *MembersHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req milestosdk.AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	member, err := h.ProjectService.AddMember(
		ctx,
		httpx.UserIDFromCtx(ctx),
		r.PathValue("id"),
		req.UserID,
		domain.MemberRole(req.Role),
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidProject):
			httpx.WriteError(w, http.StatusBadRequest, "Invalid role")
		case errors.Is(err, service.ErrMemberNotFound):
			httpx.WriteError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, service.ErrProjectNotFound):
			httpx.WriteError(w, http.StatusNotFound, "Project not found")
		case errors.Is(err, service.ErrAlreadyMember):
			httpx.WriteError(w, http.StatusConflict, "This user is already on the project team")
		case errors.Is(err, service.ErrNotAuthorized):
			httpx.WriteError(w, http.StatusForbidden, "You do not manage this project")
		default:
			log.Error("failed to add member", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Could not add member")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, milestosdk.Member{
		UserID:   member.UserID,
		Name:     member.Name,
		Email:    member.Email,
		Role:     string(member.Role),
		JoinedAt: member.JoinedAt,
	})
}

// HandleRemove godoc
//
//	@Summary		Remove Member Endpoint
//	@Description	Drop a member from the project team. Requires a managing role; the creator's
//	@Description	membership can never be removed.
//	@Tags			Team
//	@Param			id		path	string	true	"Project id"
//	@Param			userId	path	string	true	"Member user id"
//	@Success		204
//	@Failure		403	{object}	milestosdk.ErrorResponse	"message"
//	@Failure		404	{object}	milestosdk.ErrorResponse	"message"
//	@Security		BearerAuth
//	@Router			/api/projects/{id}/members/{userId} [delete].
func (h *MembersHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	err := h.ProjectService.RemoveMember(ctx, httpx.UserIDFromCtx(ctx), r.PathValue("id"), r.PathValue("userId"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCreatorImmutable):
			httpx.WriteError(w, http.StatusForbidden, "The project creator cannot be removed")
		case errors.Is(err, service.ErrMemberNotFound):
			httpx.WriteError(w, http.StatusNotFound, "Member not found")
		case errors.Is(err, service.ErrProjectNotFound):
			httpx.WriteError(w, http.StatusNotFound, "Project not found")
		case errors.Is(err, service.ErrNotAuthorized):
			httpx.WriteError(w, http.StatusForbidden, "You do not manage this project")
		default:
			log.Error("failed to remove member", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Could not remove member")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleUpdateRole godoc
//
//	@Summary		Update Member Role Endpoint
//	@Description	Change a member's project role. This is the only way to assign the moderator
//	@Description	role; invitations cannot grant it. The creator's role is fixed.
//	@Tags			Team
//	@Accept			json
//	@Param			id		path	string								true	"Project id"
//	@Param			userId	path	string								true	"Member user id"
//	@Param			request	body	milestosdk.UpdateMemberRoleRequest	true	"New role"
//	@Success		204
//	@Failure		400	{object}	milestosdk.ErrorResponse	"message"
//	@Failure		403	{object}	milestosdk.ErrorResponse	"message"
//	@Security		BearerAuth
//	@Router			/api/projects/{id}/members/{userId} [put].
func (h *MembersHandler) HandleUpdateRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req milestosdk.UpdateMemberRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	err := h.ProjectService.UpdateMemberRole(
		ctx,
		httpx.UserIDFromCtx(ctx),
		r.PathValue("id"),
		r.PathValue("userId"),
		domain.MemberRole(req.Role),
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidProject):
			httpx.WriteError(w, http.StatusBadRequest, "Invalid role")
		case errors.Is(err, service.ErrCreatorImmutable):
			httpx.WriteError(w, http.StatusForbidden, "The project creator's role cannot be changed")
		case errors.Is(err, service.ErrMemberNotFound):
			httpx.WriteError(w, http.StatusNotFound, "Member not found")
		case errors.Is(err, service.ErrProjectNotFound):
			httpx.WriteError(w, http.StatusNotFound, "Project not found")
		case errors.Is(err, service.ErrNotAuthorized):
			httpx.WriteError(w, http.StatusForbidden, "You do not manage this project")
		default:
			log.Error("failed to update member role", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Could not update member role")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
