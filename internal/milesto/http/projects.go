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

type ProjectsHandler struct {
	ProjectService *service.ProjectService
}

func projectParams(req milestosdk.ProjectRequest) service.ProjectParams {
	return service.ProjectParams{
		Title:       req.Title,
		Description: req.Description,
		Type:        domain.ProjectType(req.Type),
		Status:      domain.ProjectStatus(req.Status),
		Progress:    req.Progress,
		Deadline:    req.Deadline,
	}
}

// HandleCreate godoc
//
//	@Summary		Create Project Endpoint
//	@Description	Create a project. The creator becomes a permanent lead member.
//	@Tags			Projects
//	@Accept			json
//	@Produce		json
//	@Param			request	body		milestosdk.ProjectRequest	true	"Project fields"
//	@Success		201		{object}	milestosdk.Project			"project with members"
//	@Failure		400		{object}	milestosdk.ErrorResponse	"message"
//	@Security		BearerAuth
//	@Router			/api/projects [post].
func (h *ProjectsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req milestosdk.ProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	project, err := h.ProjectService.CreateProject(ctx, httpx.UserIDFromCtx(ctx), projectParams(req))
	if err != nil {
		if errors.Is(err, service.ErrInvalidProject) {
			httpx.WriteError(w, http.StatusBadRequest, "Project title is required")
			return
		}
		log.Error("project creation failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Could not create project")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toProject(project))
}

// HandleList godoc
//
//	@Summary		List Projects Endpoint
//	@Description	List every project the user created or belongs to, newest first.
//	@Tags			Projects
//	@Produce		json
//	@Success		200	{array}		milestosdk.Project			"projects"
//	@Failure		401	{object}	milestosdk.ErrorResponse	"message"
//	@Security		BearerAuth
//	@Router			/api/projects [get].
func (h *ProjectsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	projects, err := h.ProjectService.ListProjects(ctx, httpx.UserIDFromCtx(ctx))
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list projects", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Could not list projects")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toProjects(projects))
}

// HandleGet godoc
//
//	@Summary		Get Project Endpoint
//	@Description	Fetch one project with its team. Creator and members only.
//	@Tags			Projects
//	@Produce		json
//	@Param			id	path		string						true	"Project id"
//	@Success		200	{object}	milestosdk.Project			"project with members"
//	@Failure		403	{object}	milestosdk.ErrorResponse	"message"
//	@Failure		404	{object}	milestosdk.ErrorResponse	"message"
//	@Security		BearerAuth
//	@Router			/api/projects/{id} [get].
func (h *ProjectsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	project, err := h.ProjectService.GetProject(ctx, httpx.UserIDFromCtx(ctx), r.PathValue("id"))
	if err != nil {
		writeProjectError(w, err, "Could not fetch project")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toProject(project))
}

// HandleUpdate godoc
//
//	@Summary		Update Project Endpoint
//	@Description	Patch project fields. Requires a managing role on the project.
//	@Tags			Projects
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Project id"
//	@Param			request	body		milestosdk.ProjectRequest	true	"Fields to change"
//	@Success		200		{object}	milestosdk.Project			"updated project"
//	@Failure		403		{object}	milestosdk.ErrorResponse	"message"
//	@Failure		404		{object}	milestosdk.ErrorResponse	"message"
//	@Security		BearerAuth
//	@Router			/api/projects/{id} [put].
func (h *ProjectsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req milestosdk.ProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	project, err := h.ProjectService.UpdateProject(ctx, httpx.UserIDFromCtx(ctx), r.PathValue("id"), projectParams(req))
	if err != nil {
		if errors.Is(err, service.ErrInvalidProject) {
			httpx.WriteError(w, http.StatusBadRequest, "Invalid project fields")
			return
		}
		writeProjectError(w, err, "Could not update project")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toProject(project))
}

// HandleDelete godoc
//
//	@Summary		Delete Project Endpoint
//	@Description	Delete a project and everything under it. Creator only.
//	@Tags			Projects
//	@Param			id	path	string	true	"Project id"
//	@Success		204
//	@Failure		403	{object}	milestosdk.ErrorResponse	"message"
//	@Failure		404	{object}	milestosdk.ErrorResponse	"message"
//	@Security		BearerAuth
//	@Router			/api/projects/{id} [delete].
func (h *ProjectsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	err := h.ProjectService.DeleteProject(ctx, httpx.UserIDFromCtx(ctx), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrOnlyCreatorCanDelete) {
			httpx.WriteError(w, http.StatusForbidden, "Only the project creator can delete the project")
			return
		}
		writeProjectError(w, err, "Could not delete project")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeProjectError maps the common project service errors onto statuses.
func writeProjectError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		httpx.WriteError(w, http.StatusNotFound, "Project not found")
	case errors.Is(err, service.ErrNotAuthorized):
		httpx.WriteError(w, http.StatusForbidden, "You do not have access to this project")
	default:
		httpx.WriteError(w, http.StatusInternalServerError, fallback)
	}
}
