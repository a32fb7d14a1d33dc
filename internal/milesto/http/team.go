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

type TeamHandler struct {
	TeamService   *service.TeamService
	InviteService *service.InviteService
}

// HandleList godoc
//
//	@Summary		Team Rollup Endpoint
//	@Description	List everyone who shares a project with the user, each with their per-project roles.
//	@Tags			Team
//	@Produce		json
//	@Success		200	{array}	milestosdk.Teammate	"teammates"
//	@Security		BearerAuth
//	@Router			/api/team [get].
func (h *TeamHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	team, err := h.TeamService.ListTeam(ctx, httpx.UserIDFromCtx(ctx))
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list team", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Could not list team")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toTeammates(team))
}

// HandleRemove godoc
//
//	@Summary		Remove Teammate Endpoint
//	@Description	Drop a person from every shared project the caller manages. Projects they
//	@Description	created are left untouched.
//	@Tags			Team
//	@Produce		json
//	@Param			userId	path		string								true	"Teammate user id"
//	@Success		200		{object}	milestosdk.RemoveTeammateResponse	"project ids touched"
//	@Security		BearerAuth
//	@Router			/api/team/{userId} [delete].
func (h *TeamHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	removed, err := h.TeamService.RemoveTeammate(ctx, httpx.UserIDFromCtx(ctx), r.PathValue("userId"))
	if err != nil {
		slogx.FromContext(ctx).Error("failed to remove teammate", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Could not remove teammate")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, milestosdk.RemoveTeammateResponse{RemovedFrom: removed})
}

// HandleUpdateRole godoc
//
//	@Summary		Update Teammate Role Endpoint
//	@Description	Set a person's role in every shared project the caller manages. Projects they
//	@Description	created are left untouched.
//	@Tags			Team
//	@Accept			json
//	@Produce		json
//	@Param			userId	path		string									true	"Teammate user id"
//	@Param			request	body		milestosdk.UpdateTeammateRoleRequest	true	"New role"
//	@Success		200		{object}	milestosdk.UpdateTeammateRoleResponse	"project ids touched"
//	@Failure		400		{object}	milestosdk.ErrorResponse				"message"
//	@Security		BearerAuth
//	@Router			/api/team/{userId} [patch].
func (h *TeamHandler) HandleUpdateRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req milestosdk.UpdateTeammateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	updated, err := h.TeamService.UpdateTeammateRole(
		ctx,
		httpx.UserIDFromCtx(ctx),
		r.PathValue("userId"),
		domain.MemberRole(req.Role),
	)
	if err != nil {
		if errors.Is(err, service.ErrInvalidProject) {
			httpx.WriteError(w, http.StatusBadRequest, "Invalid role")
			return
		}
		slogx.FromContext(ctx).Error("failed to update teammate role", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Could not update teammate role")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, milestosdk.UpdateTeammateRoleResponse{UpdatedIn: updated})
}

// HandleSentInvitations godoc
//
//	@Summary		Sent Invitations Endpoint
//	@Description	List every pending invitation the user has sent, across all their projects.
//	@Tags			Team
//	@Produce		json
//	@Success		200	{array}	milestosdk.Invitation	"pending invitations"
//	@Security		BearerAuth
//	@Router			/api/team/invitations [get].
func (h *TeamHandler) HandleSentInvitations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	invs, err := h.InviteService.ListSentInvitations(ctx, httpx.UserIDFromCtx(ctx))
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list sent invitations", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Could not list invitations")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toInvitations(invs))
}
