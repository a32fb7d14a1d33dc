package http

import (
	"github.com/abhi19833/milesto/internal/milesto/domain"
	"github.com/abhi19833/milesto/internal/milesto/service"
	"github.com/abhi19833/milesto/pkg/milestosdk"
)

func toUser(u domain.User) milestosdk.User {
	return milestosdk.User{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		University: u.University,
		Role:       string(u.Role),
		LastLogin:  u.LastLogin,
		CreatedAt:  u.CreatedAt,
	}
}

func toProject(p domain.Project) milestosdk.Project {
	members := make([]milestosdk.Member, 0, len(p.Members))
	for _, m := range p.Members {
		members = append(members, milestosdk.Member{
			UserID:   m.UserID,
			Name:     m.Name,
			Email:    m.Email,
			Role:     string(m.Role),
			JoinedAt: m.JoinedAt,
		})
	}
	return milestosdk.Project{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		Type:          string(p.Type),
		Status:        string(p.Status),
		Progress:      p.EffectiveProgress(),
		Deadline:      p.Deadline,
		CreatedBy:     p.CreatedBy,
		Members:       members,
		TaskCount:     p.TaskCount,
		DocumentCount: p.DocumentCount,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toProjects(projects []domain.Project) []milestosdk.Project {
	out := make([]milestosdk.Project, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProject(p))
	}
	return out
}

func toInvitation(inv domain.Invitation) milestosdk.Invitation {
	return milestosdk.Invitation{
		ID:           inv.ID,
		Email:        inv.Email,
		ProjectID:    inv.ProjectID,
		ProjectTitle: inv.ProjectTitle,
		InvitedBy:    inv.InvitedBy,
		InviterName:  inv.InviterName,
		Role:         string(inv.Role),
		Status:       string(inv.Status),
		ExpiresAt:    inv.ExpiresAt,
		CreatedAt:    inv.CreatedAt,
	}
}

func toInvitations(invs []domain.Invitation) []milestosdk.Invitation {
	out := make([]milestosdk.Invitation, 0, len(invs))
	for _, inv := range invs {
		out = append(out, toInvitation(inv))
	}
	return out
}

func toTask(t domain.Task) milestosdk.Task {
	return milestosdk.Task{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		AssignedTo:  t.AssignedTo,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toTasks(tasks []domain.Task) []milestosdk.Task {
	out := make([]milestosdk.Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTask(t))
	}
	return out
}

func toDocument(d domain.Document) milestosdk.Document {
	return milestosdk.Document{
		ID:         d.ID,
		ProjectID:  d.ProjectID,
		Title:      d.Title,
		FileName:   d.FileName,
		FileURL:    d.FileURL,
		FileSize:   d.FileSize,
		MimeType:   d.MimeType,
		Type:       string(d.Type),
		Content:    d.Content,
		Version:    d.Version,
		UploadedBy: d.UploadedBy,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func toDocuments(docs []domain.Document) []milestosdk.Document {
	out := make([]milestosdk.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocument(d))
	}
	return out
}

func toInsight(i domain.Insight) milestosdk.Insight {
	return milestosdk.Insight{
		Title:       i.Title,
		Description: i.Description,
		Value:       i.Value,
		Trend:       string(i.Trend),
		Type:        i.Type,
		Priority:    string(i.Priority),
	}
}

func toInsights(insights []domain.Insight) []milestosdk.Insight {
	out := make([]milestosdk.Insight, 0, len(insights))
	for _, i := range insights {
		out = append(out, toInsight(i))
	}
	return out
}

func toTeammates(team []service.Teammate) []milestosdk.Teammate {
	out := make([]milestosdk.Teammate, 0, len(team))
	for _, t := range team {
		memberships := make([]milestosdk.TeamMembership, 0, len(t.Memberships))
		for _, m := range t.Memberships {
			memberships = append(memberships, milestosdk.TeamMembership{
				ProjectID:    m.ProjectID,
				ProjectTitle: m.ProjectTitle,
				Role:         string(m.Role),
			})
		}
		out = append(out, milestosdk.Teammate{
			UserID:      t.UserID,
			Name:        t.Name,
			Email:       t.Email,
			Memberships: memberships,
		})
	}
	return out
}
