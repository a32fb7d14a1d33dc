package service

import (
	"context"
	"testing"

	"github.com/abhi19833/milesto/internal/milesto/domain"
	"github.com/stretchr/testify/require"
)

func TestCreateTask(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &TaskService{Store: st}

	creator := seedUser(t, st, "Dana", "dana@example.com")
	outsider := seedUser(t, st, "Mallory", "mallory@example.com")
	project := seedProject(t, st, creator.ID, "Capstone")

	t.Run("defaults to todo and medium priority", func(t *testing.T) {
		task, err := svc.CreateTask(ctx, creator.ID, project.ID, TaskParams{Title: "Write report"})
		require.NoError(t, err)
		require.Equal(t, domain.TaskTodo, task.Status)
		require.Equal(t, domain.TaskPriorityMedium, task.Priority)
		require.Equal(t, creator.ID, task.CreatedBy)
	})

	t.Run("only team members may create tasks", func(t *testing.T) {
		_, err := svc.CreateTask(ctx, outsider.ID, project.ID, TaskParams{Title: "Sneaky"})
		require.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("assignee must be on the team", func(t *testing.T) {
		_, err := svc.CreateTask(ctx, creator.ID, project.ID, TaskParams{
			Title: "Review", AssignedTo: outsider.ID,
		})
		require.ErrorIs(t, err, ErrInvalidTask)
	})
}

func TestUpdateAndListTasks(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &TaskService{Store: st}

	creator := seedUser(t, st, "Dana", "dana@example.com")
	member := seedUser(t, st, "Bob", "bob@example.com")
	project := seedProject(t, st, creator.ID, "Capstone")
	require.NoError(t, st.Projects().AddMember(ctx, project.ID, domain.Member{
		UserID: member.ID, Role: domain.MemberRoleMember,
	}))

	task, err := svc.CreateTask(ctx, creator.ID, project.ID, TaskParams{Title: "Write report"})
	require.NoError(t, err)

	// Any member may move a task through its lifecycle.
	got, err := svc.UpdateTask(ctx, member.ID, task.ID, TaskParams{
		Status: domain.TaskCompleted, AssignedTo: member.ID,
	})
	require.NoError(t, err)
	require.Equal(t, domain.TaskCompleted, got.Status)
	require.Equal(t, member.ID, got.AssignedTo)

	mine, err := svc.ListMyTasks(ctx, member.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	require.NoError(t, svc.DeleteTask(ctx, member.ID, task.ID))
	_, err = svc.GetTask(ctx, member.ID, task.ID)
	require.ErrorIs(t, err, ErrTaskNotFound)
}
