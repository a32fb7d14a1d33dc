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

type InvitationsHandler struct {
	InviteService *service.InviteService
}

// HandleCreate godoc
//
//	@Summary		Invite Member Endpoint
//	@Description	Invite an email to the project. New users get a pending invitation and a signup
//	@Description	link carrying a token; emails with an existing account join the team directly.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Project id"
//	@Param			request	body		milestosdk.InviteRequest	true	"Invitee email and role"
//	@Success		201		{object}	milestosdk.InviteResponse	"type, invitation or member"
//	@Failure		400		{object}	milestosdk.ErrorResponse	"message"
//	@Failure		403		{object}	milestosdk.ErrorResponse	"message"
//	@Failure		409		{object}	milestosdk.ErrorResponse	"message"
//	@Security		BearerAuth
//	@Router			/api/projects/{id}/invitations [post].
func (h *InvitationsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req milestosdk.InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	result, err := h.InviteService.CreateInvitation(
		ctx,
		httpx.UserIDFromCtx(ctx),
		r.PathValue("id"),
		req.Email,
		domain.InvitationRole(req.Role),
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInvitation):
			httpx.WriteError(w, http.StatusBadRequest, "A valid email and role are required")
		case errors.Is(err, service.ErrAlreadyMember):
			httpx.WriteError(w, http.StatusConflict, "This user is already on the project team")
		case errors.Is(err, service.ErrProjectNotFound):
			httpx.WriteError(w, http.StatusNotFound, "Project not found")
		case errors.Is(err, service.ErrNotAuthorized):
			httpx.WriteError(w, http.StatusForbidden, "You do not manage this project")
		default:
			log.Error("failed to create invitation", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Could not create invitation")
		}
		return
	}

	resp := milestosdk.InviteResponse{Type: result.Type}
	switch result.Type {
	case service.InviteResultNewUser:
		inv := toInvitation(result.Invitation)
		resp.Invitation = &inv
	case service.InviteResultExistingUser:
		m := milestosdk.Member{
			UserID:   result.Member.UserID,
			Name:     result.Member.Name,
			Email:    result.Member.Email,
			Role:     string(result.Member.Role),
			JoinedAt: result.Member.JoinedAt,
		}
		resp.Member = &m
	}
	httpx.WriteJSON(w, http.StatusCreated, resp)
}

// HandleListForProject godoc
//
//	@Summary		Project Invitations Endpoint
//	@Description	List a project's pending invitations for the team view.
//	@Tags			Invitations
//	@Produce		json
//	@Param			id	path		string						true	"Project id"
//	@Success		200	{array}		milestosdk.Invitation		"pending invitations"
//	@Failure		403	{object}	milestosdk.ErrorResponse	"message"
//	@Security		BearerAuth
//	@Router			/api/projects/{id}/invitations [get].
func (h *InvitationsHandler) HandleListForProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	invitations, err := h.InviteService.ListProjectInvitations(ctx, httpx.UserIDFromCtx(ctx), r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProjectNotFound):
			httpx.WriteError(w, http.StatusNotFound, "Project not found")
		case errors.Is(err, service.ErrNotAuthorized):
			httpx.WriteError(w, http.StatusForbidden, "You do not have access to this project")
		default:
			slogx.FromContext(ctx).Error("failed to list project invitations", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Could not list invitations")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toInvitations(invitations))
}

// HandleListMine godoc
//
//	@Summary		My Invitations Endpoint
//	@Description	List pending, unexpired invitations addressed to the authenticated user's email.
//	@Tags			Invitations
//	@Produce		json
//	@Success		200	{array}	milestosdk.Invitation	"pending invitations"
//	@Security		BearerAuth
//	@Router			/api/invitations [get].
func (h *InvitationsHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	invitations, err := h.InviteService.ListMyInvitations(ctx, httpx.EmailFromCtx(ctx))
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list invitations", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Could not list invitations")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toInvitations(invitations))
}

// HandleAccept godoc
//
//	@Summary		Accept Invitation Endpoint
//	@Description	Consume a pending invitation and join its project. The invitation must be
//	@Description	addressed to the caller's email and still unexpired at consumption time;
//	@Description	a row is consumed at most once.
//	@Tags			Invitations
//	@Produce		json
//	@Param			id	path		string						true	"Invitation id"
//	@Success		200	{object}	milestosdk.Invitation		"accepted invitation"
//	@Failure		403	{object}	milestosdk.ErrorResponse	"message"
//	@Failure		404	{object}	milestosdk.ErrorResponse	"message"
//	@Failure		409	{object}	milestosdk.ErrorResponse	"message"
//	@Failure		410	{object}	milestosdk.ErrorResponse	"message"
//	@Security		BearerAuth
//	@Router			/api/invitations/{id}/accept [post].
func (h *InvitationsHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	inv, err := h.InviteService.AcceptInvitation(
		ctx,
		httpx.UserIDFromCtx(ctx),
		httpx.EmailFromCtx(ctx),
		r.PathValue("id"),
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvitationNotFound):
			httpx.WriteError(w, http.StatusNotFound, "Invitation not found")
		case errors.Is(err, service.ErrInvitationEmailMismatch):
			httpx.WriteError(w, http.StatusForbidden, "This invitation was sent to a different email")
		case errors.Is(err, service.ErrInvitationExpired):
			httpx.WriteError(w, http.StatusGone, "This invitation has expired")
		case errors.Is(err, service.ErrInvitationHandled):
			httpx.WriteError(w, http.StatusConflict, "This invitation has already been handled")
		default:
			log.Error("failed to accept invitation", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Could not accept invitation")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toInvitation(inv))
}

// HandleDecline godoc
//
//	@Summary		Decline Invitation Endpoint
//	@Description	Retire a pending invitation without joining the project.
//	@Tags			Invitations
//	@Param			id	path	string	true	"Invitation id"
//	@Success		204
//	@Failure		403	{object}	milestosdk.ErrorResponse	"message"
//	@Failure		404	{object}	milestosdk.ErrorResponse	"message"
//	@Security		BearerAuth
//	@Router			/api/invitations/{id}/decline [post].
func (h *InvitationsHandler) HandleDecline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	err := h.InviteService.DeclineInvitation(ctx, httpx.EmailFromCtx(ctx), r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvitationNotFound):
			httpx.WriteError(w, http.StatusNotFound, "Invitation not found")
		case errors.Is(err, service.ErrInvitationEmailMismatch):
			httpx.WriteError(w, http.StatusForbidden, "This invitation was sent to a different email")
		case errors.Is(err, service.ErrInvitationHandled):
			httpx.WriteError(w, http.StatusConflict, "This invitation has already been handled")
		default:
			log.Error("failed to decline invitation", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Could not decline invitation")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleCancel godoc
//
//	@Summary		Cancel Invitation Endpoint
//	@Description	Delete a pending invitation. Requires a managing role on the project;
//	@Description	consumed invitations cannot be cancelled.
//	@Tags			Invitations
//	@Param			id	path	string	true	"Invitation id"
//	@Success		204
//	@Failure		403	{object}	milestosdk.ErrorResponse	"message"
//	@Failure		404	{object}	milestosdk.ErrorResponse	"message"
//	@Failure		409	{object}	milestosdk.ErrorResponse	"message"
//	@Security		BearerAuth
//	@Router			/api/invitations/{id} [delete].
func (h *InvitationsHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	err := h.InviteService.CancelInvitation(ctx, httpx.UserIDFromCtx(ctx), r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvitationNotFound):
			httpx.WriteError(w, http.StatusNotFound, "Invitation not found")
		case errors.Is(err, service.ErrNotAuthorized):
			httpx.WriteError(w, http.StatusForbidden, "You do not manage this project")
		case errors.Is(err, service.ErrInvitationHandled):
			httpx.WriteError(w, http.StatusConflict, "This invitation has already been handled")
		default:
			log.Error("failed to cancel invitation", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Could not cancel invitation")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
