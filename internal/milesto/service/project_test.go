package service

import (
	"context"
	"testing"
	"time"

	"github.com/abhi19833/milesto/internal/milesto/domain"
	"github.com/stretchr/testify/require"
)

func TestCreateProjectDefaults(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &ProjectService{Store: st}

	creator := seedUser(t, st, "Dana", "dana@example.com")

	t.Run("requires a title", func(t *testing.T) {
		_, err := svc.CreateProject(ctx, creator.ID, ProjectParams{Title: "   "})
		require.ErrorIs(t, err, ErrInvalidProject)
	})

	t.Run("creator becomes the lead member", func(t *testing.T) {
		progress := 250
		project, err := svc.CreateProject(ctx, creator.ID, ProjectParams{
			Title:    "Capstone",
			Progress: &progress,
		})
		require.NoError(t, err)
		require.Equal(t, domain.ProjectPlanning, project.Status)
		require.Equal(t, domain.ProjectTypeOther, project.Type)
		require.Equal(t, 100, project.Progress) // clamped
		require.Equal(t, creator.ID, project.CreatedBy)

		member, ok := project.MemberByUser(creator.ID)
		require.True(t, ok)
		require.Equal(t, domain.MemberRoleLead, member.Role)
	})
}

func TestUpdateProjectAuthz(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &ProjectService{Store: st}

	creator := seedUser(t, st, "Dana", "dana@example.com")
	outsider := seedUser(t, st, "Mallory", "mallory@example.com")
	project := seedProject(t, st, creator.ID, "Capstone")

	_, err := svc.UpdateProject(ctx, outsider.ID, project.ID, ProjectParams{Title: "Hijacked"})
	require.ErrorIs(t, err, ErrNotAuthorized)

	_, err = svc.UpdateProject(ctx, creator.ID, project.ID, ProjectParams{Status: "abandoned"})
	require.ErrorIs(t, err, ErrInvalidProject)

	deadline := time.Now().Add(30 * 24 * time.Hour)
	got, err := svc.UpdateProject(ctx, creator.ID, project.ID, ProjectParams{
		Status:   domain.ProjectCompleted,
		Deadline: &deadline,
	})
	require.NoError(t, err)
	require.Equal(t, domain.ProjectCompleted, got.Status)
	require.NotNil(t, got.Deadline)
	require.Equal(t, "Capstone", got.Title) // untouched fields survive
}

func TestCreatorMembershipIsImmutable(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &ProjectService{Store: st}

	creator := seedUser(t, st, "Dana", "dana@example.com")
	admin := seedUser(t, st, "Alice", "alice@example.com")
	project := seedProject(t, st, creator.ID, "Capstone")
	require.NoError(t, st.Projects().AddMember(ctx, project.ID, domain.Member{
		UserID: admin.ID, Role: domain.MemberRoleAdmin,
	}))

	// Even a managing member cannot touch the creator's membership.
	require.ErrorIs(t, svc.RemoveMember(ctx, admin.ID, project.ID, creator.ID), ErrCreatorImmutable)
	require.ErrorIs(t,
		svc.UpdateMemberRole(ctx, admin.ID, project.ID, creator.ID, domain.MemberRoleMember),
		ErrCreatorImmutable)

	// Other members are fair game, including the moderator role that
	// invitations cannot grant.
	require.NoError(t, svc.UpdateMemberRole(ctx, creator.ID, project.ID, admin.ID, domain.MemberRoleModerator))
	got, err := st.Projects().GetProjectByID(ctx, project.ID)
	require.NoError(t, err)
	member, ok := got.MemberByUser(admin.ID)
	require.True(t, ok)
	require.Equal(t, domain.MemberRoleModerator, member.Role)

	require.NoError(t, svc.RemoveMember(ctx, creator.ID, project.ID, admin.ID))
}

func TestAddMemberByUserID(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &ProjectService{Store: st}

	creator := seedUser(t, st, "Dana", "dana@example.com")
	bob := seedUser(t, st, "Bob", "bob@example.com")
	outsider := seedUser(t, st, "Mallory", "mallory@example.com")
	project := seedProject(t, st, creator.ID, "Capstone")

	t.Run("requires management rights", func(t *testing.T) {
		_, err := svc.AddMember(ctx, outsider.ID, project.ID, bob.ID, domain.MemberRoleMember)
		require.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("rejects unknown users and roles", func(t *testing.T) {
		_, err := svc.AddMember(ctx, creator.ID, project.ID, "no-such-user", domain.MemberRoleMember)
		require.ErrorIs(t, err, ErrMemberNotFound)

		_, err = svc.AddMember(ctx, creator.ID, project.ID, bob.ID, "owner")
		require.ErrorIs(t, err, ErrInvalidProject)
	})

	t.Run("manager adds an existing account with a role", func(t *testing.T) {
		member, err := svc.AddMember(ctx, creator.ID, project.ID, bob.ID, domain.MemberRoleAdmin)
		require.NoError(t, err)
		require.Equal(t, bob.ID, member.UserID)
		require.Equal(t, "Bob", member.Name)
		require.Equal(t, domain.MemberRoleAdmin, member.Role)

		got, err := st.Projects().GetProjectByID(ctx, project.ID)
		require.NoError(t, err)
		m, ok := got.MemberByUser(bob.ID)
		require.True(t, ok)
		require.Equal(t, domain.MemberRoleAdmin, m.Role)
	})

	t.Run("duplicates and the creator are conflicts", func(t *testing.T) {
		_, err := svc.AddMember(ctx, creator.ID, project.ID, bob.ID, domain.MemberRoleMember)
		require.ErrorIs(t, err, ErrAlreadyMember)

		_, err = svc.AddMember(ctx, creator.ID, project.ID, creator.ID, domain.MemberRoleMember)
		require.ErrorIs(t, err, ErrAlreadyMember)
	})
}

func TestProjectReadsCarryRollupCounts(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &ProjectService{Store: st}

	creator := seedUser(t, st, "Dana", "dana@example.com")
	manual := 40
	project, err := svc.CreateProject(ctx, creator.ID, ProjectParams{
		Title:    "Capstone",
		Progress: &manual,
	})
	require.NoError(t, err)

	// No tasks yet: the manually set progress stands.
	got, err := svc.GetProject(ctx, creator.ID, project.ID)
	require.NoError(t, err)
	require.Zero(t, got.TaskCount)
	require.Equal(t, 40, got.EffectiveProgress())

	// 1 completed out of 4 tasks: progress is now derived, 25%.
	tasks := &TaskService{Store: st}
	for i := 0; i < 4; i++ {
		status := domain.TaskTodo
		if i == 0 {
			status = domain.TaskCompleted
		}
		_, err := tasks.CreateTask(ctx, creator.ID, project.ID, TaskParams{
			Title:  "task",
			Status: status,
		})
		require.NoError(t, err)
	}
	docs := &DocumentService{Store: st}
	_, err = docs.CreateDocument(ctx, creator.ID, project.ID, "Notes", "draft")
	require.NoError(t, err)

	got, err = svc.GetProject(ctx, creator.ID, project.ID)
	require.NoError(t, err)
	require.Equal(t, 4, got.TaskCount)
	require.Equal(t, 1, got.CompletedTasks)
	require.Equal(t, 1, got.DocumentCount)
	require.Equal(t, 25, got.EffectiveProgress())

	listed, err := svc.ListProjects(ctx, creator.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, 4, listed[0].TaskCount)
	require.Equal(t, 1, listed[0].DocumentCount)
}

func TestDeleteProjectIsCreatorOnly(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &ProjectService{Store: st}

	creator := seedUser(t, st, "Dana", "dana@example.com")
	admin := seedUser(t, st, "Alice", "alice@example.com")
	project := seedProject(t, st, creator.ID, "Capstone")
	require.NoError(t, st.Projects().AddMember(ctx, project.ID, domain.Member{
		UserID: admin.ID, Role: domain.MemberRoleAdmin,
	}))

	require.ErrorIs(t, svc.DeleteProject(ctx, admin.ID, project.ID), ErrOnlyCreatorCanDelete)
	require.NoError(t, svc.DeleteProject(ctx, creator.ID, project.ID))

	_, err := svc.GetProject(ctx, creator.ID, project.ID)
	require.ErrorIs(t, err, ErrProjectNotFound)
}
