package service

import (
	"context"
	"log/slog"
	"sort"

	"github.com/abhi19833/milesto/internal/milesto/domain"
	"github.com/abhi19833/milesto/internal/milesto/store"
	"github.com/abhi19833/milesto/pkg/slogx"
)

// TeamService provides the cross-project team view: every person the user
// shares a project with, rolled up with their per-project roles.
type TeamService struct {
	Store store.Store
}

// TeamMembership is one project a teammate shares with the viewer.
type TeamMembership struct {
	ProjectID    string            `json:"projectId"`
	ProjectTitle string            `json:"projectTitle"`
	Role         domain.MemberRole `json:"role"`
}

// Teammate is one person in the rollup.
type Teammate struct {
	UserID      string           `json:"userId"`
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	Memberships []TeamMembership `json:"memberships"`
}

// ListTeam returns everyone who shares a project with the user, each with the
// full list of shared projects and roles. Sorted by name for a stable view.
func (s *TeamService) ListTeam(ctx context.Context, userID string) ([]Teammate, error) {
	projects, err := s.Store.Projects().ListProjectsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	byUser := make(map[string]*Teammate)
	for _, p := range projects {
		for _, m := range p.Members {
			if m.UserID == userID {
				continue
			}
			t, ok := byUser[m.UserID]
			if !ok {
				t = &Teammate{UserID: m.UserID, Name: m.Name, Email: m.Email}
				byUser[m.UserID] = t
			}
			t.Memberships = append(t.Memberships, TeamMembership{
				ProjectID:    p.ID,
				ProjectTitle: p.Title,
				Role:         m.Role,
			})
		}
	}

	out := make([]Teammate, 0, len(byUser))
	for _, t := range byUser {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// RemoveTeammate drops the member from every shared project the caller
// manages. Projects the member created are left alone; so are projects the
// caller cannot manage. Returns the project ids actually touched.
func (s *TeamService) RemoveTeammate(ctx context.Context, userID, memberID string) ([]string, error) {
	log := slogx.FromContext(ctx)

	projects, err := s.Store.Projects().ListProjectsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, p := range projects {
		if !p.CanManage(userID) || p.CreatedBy == memberID {
			continue
		}
		if _, ok := p.MemberByUser(memberID); !ok {
			continue
		}
		if err := s.Store.Projects().RemoveMember(ctx, p.ID, memberID); err != nil {
			return removed, err
		}
		removed = append(removed, p.ID)
	}

	log.Info("teammate removed",
		slog.String("member_id", memberID),
		slog.String("removed_by", userID),
		slog.Int("projects", len(removed)),
	)
	return removed, nil
}

// UpdateTeammateRole sets the member's role in every shared project the
// caller manages, with the same skips as RemoveTeammate. Returns the project
// ids actually touched.
func (s *TeamService) UpdateTeammateRole(ctx context.Context, userID, memberID string, role domain.MemberRole) ([]string, error) {
	log := slogx.FromContext(ctx)

	if !domain.ValidMemberRole(role) {
		return nil, ErrInvalidProject
	}

	projects, err := s.Store.Projects().ListProjectsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var updated []string
	for _, p := range projects {
		if !p.CanManage(userID) || p.CreatedBy == memberID {
			continue
		}
		if _, ok := p.MemberByUser(memberID); !ok {
			continue
		}
		if err := s.Store.Projects().UpdateMemberRole(ctx, p.ID, memberID, role); err != nil {
			return updated, err
		}
		updated = append(updated, p.ID)
	}

	log.Info("teammate role updated",
		slog.String("member_id", memberID),
		slog.String("role", string(role)),
		slog.String("updated_by", userID),
		slog.Int("projects", len(updated)),
	)
	return updated, nil
}
