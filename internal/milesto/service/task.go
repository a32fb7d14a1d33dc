package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/abhi19833/milesto/internal/milesto/domain"
	"github.com/abhi19833/milesto/internal/milesto/store"
	"github.com/abhi19833/milesto/pkg/idx"
	"github.com/abhi19833/milesto/pkg/slogx"
)

var (
	ErrInvalidTask  = errors.New("invalid task request")
	ErrTaskNotFound = errors.New("task not found")
)

// TaskService owns task CRUD inside a project. Any team member may create
// and edit tasks; access checks go through the owning project.
type TaskService struct {
	Store store.Store
}

type TaskParams struct {
	Title       string
	Description string
	Status      domain.TaskStatus
	Priority    domain.TaskPriority
	DueDate     *time.Time
	AssignedTo  string
}

func (s *TaskService) CreateTask(
	ctx context.Context,
	userID, projectID string,
	p TaskParams,
) (domain.Task, error) {
	log := slogx.FromContext(ctx)

	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return domain.Task{}, ErrInvalidTask
	}
	if p.Status == "" {
		p.Status = domain.TaskTodo
	}
	if p.Priority == "" {
		p.Priority = domain.TaskPriorityMedium
	}
	if !domain.ValidTaskStatus(p.Status) || !domain.ValidTaskPriority(p.Priority) {
		return domain.Task{}, ErrInvalidTask
	}

	project, err := s.Store.Projects().GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Task{}, ErrProjectNotFound
		}
		return domain.Task{}, err
	}
	if !project.CanAccess(userID) {
		return domain.Task{}, ErrNotAuthorized
	}

	// An assignee must be on the team.
	if p.AssignedTo != "" && !project.CanAccess(p.AssignedTo) {
		return domain.Task{}, ErrInvalidTask
	}

	task := domain.Task{
		ID:          idx.New().String(),
		ProjectID:   projectID,
		Title:       p.Title,
		Description: strings.TrimSpace(p.Description),
		Status:      p.Status,
		Priority:    p.Priority,
		DueDate:     p.DueDate,
		AssignedTo:  p.AssignedTo,
		CreatedBy:   userID,
	}

	if err := s.Store.Tasks().CreateTask(ctx, task); err != nil {
		log.Error("failed to create task", slog.Any("error", err))
		return domain.Task{}, err
	}

	log.Debug("task created",
		slog.String("task_id", task.ID),
		slog.String("project_id", projectID),
	)
	return s.Store.Tasks().GetTaskByID(ctx, task.ID)
}

func (s *TaskService) GetTask(ctx context.Context, userID, taskID string) (domain.Task, error) {
	task, err := s.Store.Tasks().GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Task{}, ErrTaskNotFound
		}
		return domain.Task{}, err
	}
	if err := s.requireAccess(ctx, userID, task.ProjectID); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// ListProjectTasks returns the project's tasks, newest first.
func (s *TaskService) ListProjectTasks(ctx context.Context, userID, projectID string) ([]domain.Task, error) {
	if err := s.requireAccess(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return s.Store.Tasks().ListTasksForProject(ctx, projectID)
}

// ListMyTasks returns tasks across every project the user can access.
func (s *TaskService) ListMyTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	return s.Store.Tasks().ListTasksForUser(ctx, userID)
}

func (s *TaskService) UpdateTask(
	ctx context.Context,
	userID, taskID string,
	p TaskParams,
) (domain.Task, error) {
	log := slogx.FromContext(ctx)

	task, err := s.Store.Tasks().GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Task{}, ErrTaskNotFound
		}
		return domain.Task{}, err
	}

	project, err := s.Store.Projects().GetProjectByID(ctx, task.ProjectID)
	if err != nil {
		return domain.Task{}, err
	}
	if !project.CanAccess(userID) {
		return domain.Task{}, ErrNotAuthorized
	}

	if t := strings.TrimSpace(p.Title); t != "" {
		task.Title = t
	}
	if p.Description != "" {
		task.Description = strings.TrimSpace(p.Description)
	}
	if p.Status != "" {
		if !domain.ValidTaskStatus(p.Status) {
			return domain.Task{}, ErrInvalidTask
		}
		task.Status = p.Status
	}
	if p.Priority != "" {
		if !domain.ValidTaskPriority(p.Priority) {
			return domain.Task{}, ErrInvalidTask
		}
		task.Priority = p.Priority
	}
	if p.DueDate != nil {
		task.DueDate = p.DueDate
	}
	if p.AssignedTo != "" {
		if !project.CanAccess(p.AssignedTo) {
			return domain.Task{}, ErrInvalidTask
		}
		task.AssignedTo = p.AssignedTo
	}

	if err := s.Store.Tasks().UpdateTask(ctx, task); err != nil {
		log.Error("failed to update task", slog.Any("error", err))
		return domain.Task{}, err
	}

	return s.Store.Tasks().GetTaskByID(ctx, taskID)
}

func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID string) error {
	task, err := s.Store.Tasks().GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	if err := s.requireAccess(ctx, userID, task.ProjectID); err != nil {
		return err
	}
	return s.Store.Tasks().DeleteTask(ctx, taskID)
}

func (s *TaskService) requireAccess(ctx context.Context, userID, projectID string) error {
	project, err := s.Store.Projects().GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	if !project.CanAccess(userID) {
		return ErrNotAuthorized
	}
	return nil
}
