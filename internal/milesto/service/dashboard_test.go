package service

import (
	"context"
	"errors"
	"testing"

	"github.com/abhi19833/milesto/internal/milesto/domain"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	insights []domain.Insight
	err      error
}

func (g *fakeGenerator) GenerateInsights(context.Context, domain.DashboardStats, []domain.Project) ([]domain.Insight, error) {
	return g.insights, g.err
}

func seedWorkspace(t *testing.T, svc *DashboardService, userID string) {
	t.Helper()
	ctx := context.Background()
	st := svc.Store

	active := seedProjectWithStatus(t, svc, userID, "Active", domain.ProjectActive)
	seedProjectWithStatus(t, svc, userID, "Done", domain.ProjectCompleted)

	// 7 completed out of 10 tasks: a 70% completion rate.
	tasks := &TaskService{Store: st}
	for i := 0; i < 10; i++ {
		status := domain.TaskCompleted
		if i >= 7 {
			status = domain.TaskTodo
		}
		_, err := tasks.CreateTask(ctx, userID, active.ID, TaskParams{
			Title:  "task",
			Status: status,
		})
		require.NoError(t, err)
	}
}

func seedProjectWithStatus(
	t *testing.T,
	svc *DashboardService,
	userID, title string,
	status domain.ProjectStatus,
) domain.Project {
	t.Helper()
	projects := &ProjectService{Store: svc.Store}
	p, err := projects.CreateProject(context.Background(), userID, ProjectParams{
		Title:  title,
		Status: status,
	})
	require.NoError(t, err)
	return p
}

func TestDashboardSummary(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &DashboardService{Store: st, Generator: &fakeGenerator{}}

	user := seedUser(t, st, "Dana", "dana@example.com")
	seedWorkspace(t, svc, user.ID)

	summary, err := svc.Summary(ctx, user.ID)
	require.NoError(t, err)

	require.Equal(t, 2, summary.TotalProjects)
	require.Equal(t, 1, summary.ActiveProjects)
	require.Equal(t, 1, summary.CompletedProjects)
	require.Equal(t, 10, summary.TotalTasks)
	require.Equal(t, 7, summary.CompletedTasks)
	require.Equal(t, 3, summary.PendingTasks)
	require.Equal(t, float64(70), summary.CompletionRate)

	require.LessOrEqual(t, len(summary.RecentProjects), recentLimit)
	require.LessOrEqual(t, len(summary.RecentTasks), recentLimit)

	// 70% sits between both thresholds; only the missing-docs nudge fires.
	require.Len(t, summary.Insights, 1)
	require.Equal(t, "Missing docs", summary.Insights[0].Title)
}

func TestHeuristicInsights(t *testing.T) {
	t.Run("celebrates high completion", func(t *testing.T) {
		out := heuristicInsights(domain.DashboardStats{
			TotalProjects: 1, ActiveProjects: 1,
			TotalTasks: 10, CompletedTasks: 9, PendingTasks: 1,
			CompletionRate: 90, TotalDocuments: 2,
		})
		require.Len(t, out, 1)
		require.Equal(t, "Great job!", out[0].Title)
		require.Equal(t, domain.TrendUp, out[0].Trend)
	})

	t.Run("warns on low completion and idle projects", func(t *testing.T) {
		out := heuristicInsights(domain.DashboardStats{
			TotalProjects: 2,
			TotalTasks:    10, CompletedTasks: 2, PendingTasks: 8,
			CompletionRate: 20, TotalDocuments: 1,
		})
		require.Len(t, out, 2)
		require.Equal(t, "Lots left to do", out[0].Title)
		require.Equal(t, "No active projects", out[1].Title)
	})
}

func TestAIInsightsFallsBack(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	user := seedUser(t, st, "Dana", "dana@example.com")

	t.Run("generator failure degrades to a notice", func(t *testing.T) {
		svc := &DashboardService{Store: st, Generator: &fakeGenerator{err: errors.New("quota")}}
		got, err := svc.AIInsights(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, "AI Insights Temporarily Unavailable", got[0].Title)
	})

	t.Run("empty result degrades too", func(t *testing.T) {
		svc := &DashboardService{Store: st, Generator: &fakeGenerator{}}
		got, err := svc.AIInsights(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, "AI Insights Temporarily Unavailable", got[0].Title)
	})

	t.Run("passes generated insights through", func(t *testing.T) {
		want := []domain.Insight{{Title: "Momentum", Trend: domain.TrendUp}}
		svc := &DashboardService{Store: st, Generator: &fakeGenerator{insights: want}}
		got, err := svc.AIInsights(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, want, got)
	})
}
