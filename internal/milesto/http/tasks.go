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

type TasksHandler struct {
	TaskService *service.TaskService
}

func taskParams(req milestosdk.TaskRequest) service.TaskParams {
	return service.TaskParams{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatus(req.Status),
		Priority:    domain.TaskPriority(req.Priority),
		DueDate:     req.DueDate,
		AssignedTo:  req.AssignedTo,
	}
}

func writeTaskError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrInvalidTask):
		httpx.WriteError(w, http.StatusBadRequest, "Invalid task fields")
	case errors.Is(err, service.ErrTaskNotFound):
		httpx.WriteError(w, http.StatusNotFound, "Task not found")
	case errors.Is(err, service.ErrProjectNotFound):
		httpx.WriteError(w, http.StatusNotFound, "Project not found")
	case errors.Is(err, service.ErrNotAuthorized):
		httpx.WriteError(w, http.StatusForbidden, "You do not have access to this project")
	default:
		httpx.WriteError(w, http.StatusInternalServerError, fallback)
	}
}

// HandleCreate godoc
//
//	@Summary		Create Task Endpoint
//	@Description	Create a task in a project. Any team member may create tasks; an assignee
//	@Description	must be on the team.
//	@Tags			Tasks
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Project id"
//	@Param			request	body		milestosdk.TaskRequest		true	"Task fields"
//	@Success		201		{object}	milestosdk.Task				"task"
//	@Failure		400		{object}	milestosdk.ErrorResponse	"message"
//	@Security		BearerAuth
//	@Router			/api/projects/{id}/tasks [post].
func (h *TasksHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req milestosdk.TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	task, err := h.TaskService.CreateTask(ctx, httpx.UserIDFromCtx(ctx), r.PathValue("id"), taskParams(req))
	if err != nil {
		log.Warn("task creation rejected", "err", err)
		writeTaskError(w, err, "Could not create task")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toTask(task))
}

// HandleListForProject godoc
//
//	@Summary		Project Tasks Endpoint
//	@Description	List a project's tasks, newest first.
//	@Tags			Tasks
//	@Produce		json
//	@Param			id	path		string						true	"Project id"
//	@Success		200	{array}		milestosdk.Task				"tasks"
//	@Failure		403	{object}	milestosdk.ErrorResponse	"message"
//	@Security		BearerAuth
//	@Router			/api/projects/{id}/tasks [get].
func (h *TasksHandler) HandleListForProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tasks, err := h.TaskService.ListProjectTasks(ctx, httpx.UserIDFromCtx(ctx), r.PathValue("id"))
	if err != nil {
		writeTaskError(w, err, "Could not list tasks")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toTasks(tasks))
}

// HandleListMine godoc
//
//	@Summary		My Tasks Endpoint
//	@Description	List tasks across every project the user can access.
//	@Tags			Tasks
//	@Produce		json
//	@Success		200	{array}	milestosdk.Task	"tasks"
//	@Security		BearerAuth
//	@Router			/api/tasks [get].
func (h *TasksHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tasks, err := h.TaskService.ListMyTasks(ctx, httpx.UserIDFromCtx(ctx))
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list tasks", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Could not list tasks")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toTasks(tasks))
}

// HandleUpdate godoc
//
//	@Summary		Update Task Endpoint
//	@Description	Patch task fields, including status moves across the board columns.
//	@Tags			Tasks
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Task id"
//	@Param			request	body		milestosdk.TaskRequest		true	"Fields to change"
//	@Success		200		{object}	milestosdk.Task				"updated task"
//	@Failure		404		{object}	milestosdk.ErrorResponse	"message"
//	@Security		BearerAuth
//	@Router			/api/tasks/{id} [put].
func (h *TasksHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req milestosdk.TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	task, err := h.TaskService.UpdateTask(ctx, httpx.UserIDFromCtx(ctx), r.PathValue("id"), taskParams(req))
	if err != nil {
		writeTaskError(w, err, "Could not update task")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toTask(task))
}

// HandleDelete godoc
//
//	@Summary		Delete Task Endpoint
//	@Description	Delete a task.
//	@Tags			Tasks
//	@Param			id	path	string	true	"Task id"
//	@Success		204
//	@Failure		404	{object}	milestosdk.ErrorResponse	"message"
//	@Security		BearerAuth
//	@Router			/api/tasks/{id} [delete].
func (h *TasksHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.TaskService.DeleteTask(ctx, httpx.UserIDFromCtx(ctx), r.PathValue("id")); err != nil {
		writeTaskError(w, err, "Could not delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
