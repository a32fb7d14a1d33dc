package domain

import (
	"math"
	"time"
)

type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "planning"
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "on-hold"
	ProjectCompleted ProjectStatus = "completed"
)

func ValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case ProjectPlanning, ProjectActive, ProjectOnHold, ProjectCompleted:
		return true
	}
	return false
}

type ProjectType string

const (
	ProjectTypeWebApplication ProjectType = "web-application"
	ProjectTypeMobileApp      ProjectType = "mobile-app"
	ProjectTypeResearch       ProjectType = "research"
	ProjectTypeAIML           ProjectType = "ai-ml"
	ProjectTypeOther          ProjectType = "other"
)

func ValidProjectType(t ProjectType) bool {
	switch t {
	case ProjectTypeWebApplication, ProjectTypeMobileApp, ProjectTypeResearch, ProjectTypeAIML, ProjectTypeOther:
		return true
	}
	return false
}

// MemberRole is a per-project team role. It is a wider enumeration than
// InvitationRole: "moderator" exists only for members and is reachable
// through the role-update endpoint, never through an invitation.
type MemberRole string

const (
	MemberRoleLead      MemberRole = "lead"
	MemberRoleAdmin     MemberRole = "admin"
	MemberRoleMember    MemberRole = "member"
	MemberRoleModerator MemberRole = "moderator"
)

func ValidMemberRole(r MemberRole) bool {
	switch r {
	case MemberRoleLead, MemberRoleAdmin, MemberRoleMember, MemberRoleModerator:
		return true
	}
	return false
}

// Manages reports whether the role can mutate the project and its team.
func (r MemberRole) Manages() bool {
	return r == MemberRoleLead || r == MemberRoleAdmin
}

// Member is one entry of a project's team list.
type Member struct {
	UserID   string
	Role     MemberRole
	JoinedAt time.Time

	// Denormalized user fields for responses; populated on reads.
	Name  string
	Email string
}

type Project struct {
	ID          string
	Title       string
	Description string
	Type        ProjectType
	Status      ProjectStatus
	Progress    int // 0-100
	Deadline    *time.Time
	CreatedBy   string // immutable owner, always present in Members
	Members     []Member
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Rollup counters, populated on reads.
	TaskCount      int
	CompletedTasks int
	DocumentCount  int
}

// EffectiveProgress is the completion percentage shown to clients. A project
// with tasks derives it from task completion; one without falls back to the
// manually set Progress value.
func (p *Project) EffectiveProgress() int {
	if p.TaskCount == 0 {
		return p.Progress
	}
	return int(math.Round(float64(p.CompletedTasks) / float64(p.TaskCount) * 100))
}

// CanAccess reports whether userID may read the project: the creator and
// every listed team member have access, nobody else does.
func (p *Project) CanAccess(userID string) bool {
	if p.CreatedBy == userID {
		return true
	}
	for _, m := range p.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// CanManage reports whether userID may mutate the project or its team: the
// creator, or a member holding a managing role. Project deletion is stricter
// still and reserved to the creator alone.
func (p *Project) CanManage(userID string) bool {
	if p.CreatedBy == userID {
		return true
	}
	for _, m := range p.Members {
		if m.UserID == userID && m.Role.Manages() {
			return true
		}
	}
	return false
}

// MemberByUser returns the membership entry for userID, if any.
func (p *Project) MemberByUser(userID string) (Member, bool) {
	for _, m := range p.Members {
		if m.UserID == userID {
			return m, true
		}
	}
	return Member{}, false
}
