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
	ErrInvalidProject       = errors.New("invalid project request")
	ErrCreatorImmutable     = errors.New("the project creator cannot be removed or demoted")
	ErrMemberNotFound       = errors.New("member not found")
	ErrOnlyCreatorCanDelete = errors.New("only the project creator can delete the project")
)

// ProjectService owns project CRUD and team membership. The creator is a
// permanent lead member: created with the project, never removable, role
// never changeable.
type ProjectService struct {
	Store store.Store
}

type ProjectParams struct {
	Title       string
	Description string
	Type        domain.ProjectType
	Status      domain.ProjectStatus
	Progress    *int
	Deadline    *time.Time
}

// CreateProject inserts the project with its creator as the initial lead.
func (s *ProjectService) CreateProject(
	ctx context.Context,
	userID string,
	p ProjectParams,
) (domain.Project, error) {
	log := slogx.FromContext(ctx)

	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return domain.Project{}, ErrInvalidProject
	}
	if p.Type == "" {
		p.Type = domain.ProjectTypeOther
	}
	if p.Status == "" {
		p.Status = domain.ProjectPlanning
	}
	if !domain.ValidProjectType(p.Type) || !domain.ValidProjectStatus(p.Status) {
		return domain.Project{}, ErrInvalidProject
	}

	project := domain.Project{
		ID:          idx.New().String(),
		Title:       p.Title,
		Description: strings.TrimSpace(p.Description),
		Type:        p.Type,
		Status:      p.Status,
		Deadline:    p.Deadline,
		CreatedBy:   userID,
		Members: []domain.Member{
			{UserID: userID, Role: domain.MemberRoleLead},
		},
	}
	if p.Progress != nil {
		project.Progress = clampProgress(*p.Progress)
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		return tx.Projects().CreateProject(ctx, project)
	})
	if err != nil {
		log.Error("failed to create project", slog.Any("error", err))
		return domain.Project{}, err
	}

	log.Info("project created",
		slog.String("project_id", project.ID),
		slog.String("user_id", userID),
	)
	return s.Store.Projects().GetProjectByID(ctx, project.ID)
}

// GetProject returns one project if the user can access it.
func (s *ProjectService) GetProject(ctx context.Context, userID, projectID string) (domain.Project, error) {
	project, err := s.Store.Projects().GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Project{}, ErrProjectNotFound
		}
		return domain.Project{}, err
	}
	if !project.CanAccess(userID) {
		return domain.Project{}, ErrNotAuthorized
	}
	return project, nil
}

// ListProjects returns every project the user created or belongs to.
func (s *ProjectService) ListProjects(ctx context.Context, userID string) ([]domain.Project, error) {
	return s.Store.Projects().ListProjectsForUser(ctx, userID)
}

// UpdateProject applies mutable fields. Requires management rights.
func (s *ProjectService) UpdateProject(
	ctx context.Context,
	userID, projectID string,
	p ProjectParams,
) (domain.Project, error) {
	log := slogx.FromContext(ctx)

	project, err := s.Store.Projects().GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Project{}, ErrProjectNotFound
		}
		return domain.Project{}, err
	}
	if !project.CanManage(userID) {
		return domain.Project{}, ErrNotAuthorized
	}

	if t := strings.TrimSpace(p.Title); t != "" {
		project.Title = t
	}
	if p.Description != "" {
		project.Description = strings.TrimSpace(p.Description)
	}
	if p.Type != "" {
		if !domain.ValidProjectType(p.Type) {
			return domain.Project{}, ErrInvalidProject
		}
		project.Type = p.Type
	}
	if p.Status != "" {
		if !domain.ValidProjectStatus(p.Status) {
			return domain.Project{}, ErrInvalidProject
		}
		project.Status = p.Status
	}
	if p.Progress != nil {
		project.Progress = clampProgress(*p.Progress)
	}
	if p.Deadline != nil {
		project.Deadline = p.Deadline
	}

	if err := s.Store.Projects().UpdateProject(ctx, project); err != nil {
		log.Error("failed to update project", slog.Any("error", err))
		return domain.Project{}, err
	}

	log.Debug("project updated", slog.String("project_id", projectID))
	return s.Store.Projects().GetProjectByID(ctx, projectID)
}

// DeleteProject removes the project and everything under it. Creator only;
// tasks, documents, members and invitations cascade in the database.
func (s *ProjectService) DeleteProject(ctx context.Context, userID, projectID string) error {
	log := slogx.FromContext(ctx)

	project, err := s.Store.Projects().GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	if project.CreatedBy != userID {
		return ErrOnlyCreatorCanDelete
	}

	if err := s.Store.Projects().DeleteProject(ctx, projectID); err != nil {
		return err
	}

	log.Info("project deleted",
		slog.String("project_id", projectID),
		slog.String("user_id", userID),
	)
	return nil
}

// AddMember puts an existing account straight on the team by user id.
// Requires management rights; the invitation flow covers emails that have no
// account yet.
func (s *ProjectService) AddMember(
	ctx context.Context,
	userID, projectID, memberID string,
	role domain.MemberRole,
) (domain.Member, error) {
	log := slogx.FromContext(ctx)

	if role == "" {
		role = domain.MemberRoleMember
	}
	if !domain.ValidMemberRole(role) {
		return domain.Member{}, ErrInvalidProject
	}

	project, err := s.Store.Projects().GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Member{}, ErrProjectNotFound
		}
		return domain.Member{}, err
	}
	if !project.CanManage(userID) {
		return domain.Member{}, ErrNotAuthorized
	}

	user, err := s.Store.Users().GetUserByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Member{}, ErrMemberNotFound
		}
		return domain.Member{}, err
	}
	if memberID == project.CreatedBy {
		return domain.Member{}, ErrAlreadyMember
	}

	member := domain.Member{
		UserID:   user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Role:     role,
		JoinedAt: time.Now(),
	}
	if err := s.Store.Projects().AddMember(ctx, projectID, member); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Member{}, ErrAlreadyMember
		}
		return domain.Member{}, err
	}

	log.Info("member added",
		slog.String("project_id", projectID),
		slog.String("member_id", memberID),
		slog.String("added_by", userID),
	)
	return member, nil
}

// RemoveMember drops a member from the team. Requires management rights; the
// creator's membership is immutable.
func (s *ProjectService) RemoveMember(ctx context.Context, userID, projectID, memberID string) error {
	log := slogx.FromContext(ctx)

	project, err := s.Store.Projects().GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	if !project.CanManage(userID) {
		return ErrNotAuthorized
	}
	if memberID == project.CreatedBy {
		return ErrCreatorImmutable
	}

	if err := s.Store.Projects().RemoveMember(ctx, projectID, memberID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrMemberNotFound
		}
		return err
	}

	log.Info("member removed",
		slog.String("project_id", projectID),
		slog.String("member_id", memberID),
		slog.String("removed_by", userID),
	)
	return nil
}

// UpdateMemberRole changes a member's role. This is the only path to the
// moderator role; invitations cannot grant it. Creator's role is fixed.
func (s *ProjectService) UpdateMemberRole(
	ctx context.Context,
	userID, projectID, memberID string,
	role domain.MemberRole,
) error {
	log := slogx.FromContext(ctx)

	if !domain.ValidMemberRole(role) {
		return ErrInvalidProject
	}

	project, err := s.Store.Projects().GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	if !project.CanManage(userID) {
		return ErrNotAuthorized
	}
	if memberID == project.CreatedBy {
		return ErrCreatorImmutable
	}

	if err := s.Store.Projects().UpdateMemberRole(ctx, projectID, memberID, role); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrMemberNotFound
		}
		return err
	}

	log.Info("member role updated",
		slog.String("project_id", projectID),
		slog.String("member_id", memberID),
		slog.String("role", string(role)),
	)
	return nil
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
