package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/abhi19833/milesto/internal/milesto/domain"
	"github.com/abhi19833/milesto/internal/milesto/store"
	"github.com/abhi19833/milesto/pkg/slogx"
)

const recentLimit = 5

// DashboardService aggregates the workspace summary and produces insights.
// Heuristic insights are computed locally from the stats; AI insights go
// through the InsightGenerator, with a fixed fallback when it misbehaves.
type DashboardService struct {
	Store     store.Store
	Generator InsightGenerator
}

// DashboardSummary is the stats endpoint payload.
type DashboardSummary struct {
	domain.DashboardStats

	RecentProjects []domain.Project `json:"recentProjects"`
	RecentTasks    []domain.Task    `json:"recentTasks"`
	Insights       []domain.Insight `json:"insights"`
}

// Summary computes workspace stats across every project the user can access.
func (s *DashboardService) Summary(ctx context.Context, userID string) (DashboardSummary, error) {
	projects, tasks, documents, err := s.workspace(ctx, userID)
	if err != nil {
		return DashboardSummary{}, err
	}

	stats := computeStats(projects, tasks, documents)

	return DashboardSummary{
		DashboardStats: stats,
		RecentProjects: recentProjects(projects),
		RecentTasks:    recentTasks(tasks),
		Insights:       heuristicInsights(stats),
	}, nil
}

// RecentProjects returns the user's five most recently updated projects.
func (s *DashboardService) RecentProjects(ctx context.Context, userID string) ([]domain.Project, error) {
	projects, err := s.Store.Projects().ListProjectsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return recentProjects(projects), nil
}

// RecentTasks returns the five most recently updated tasks across the user's
// projects.
func (s *DashboardService) RecentTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	tasks, err := s.Store.Tasks().ListTasksForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return recentTasks(tasks), nil
}

// AIInsights asks the generator for insights over the user's workspace. A
// failing or garbled generator degrades to a fixed notice instead of an
// error; the dashboard stays usable without AI.
func (s *DashboardService) AIInsights(ctx context.Context, userID string) ([]domain.Insight, error) {
	log := slogx.FromContext(ctx)

	projects, tasks, documents, err := s.workspace(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := computeStats(projects, tasks, documents)
	insights, err := s.Generator.GenerateInsights(ctx, stats, projects)
	if err != nil || len(insights) == 0 {
		log.Warn("insight generation failed, serving fallback", slog.Any("error", err))
		return []domain.Insight{unavailableInsight()}, nil
	}
	return insights, nil
}

func (s *DashboardService) workspace(
	ctx context.Context,
	userID string,
) ([]domain.Project, []domain.Task, int, error) {
	projects, err := s.Store.Projects().ListProjectsForUser(ctx, userID)
	if err != nil {
		return nil, nil, 0, err
	}
	tasks, err := s.Store.Tasks().ListTasksForUser(ctx, userID)
	if err != nil {
		return nil, nil, 0, err
	}
	documents, err := s.Store.Documents().CountForUser(ctx, userID)
	if err != nil {
		return nil, nil, 0, err
	}
	return projects, tasks, documents, nil
}

func computeStats(projects []domain.Project, tasks []domain.Task, documents int) domain.DashboardStats {
	stats := domain.DashboardStats{
		TotalProjects:  len(projects),
		TotalTasks:     len(tasks),
		TotalDocuments: documents,
	}
	for _, p := range projects {
		switch p.Status {
		case domain.ProjectActive:
			stats.ActiveProjects++
		case domain.ProjectCompleted:
			stats.CompletedProjects++
		}
	}
	for _, t := range tasks {
		if t.Status == domain.TaskCompleted {
			stats.CompletedTasks++
		} else {
			stats.PendingTasks++
		}
	}
	if stats.TotalTasks > 0 {
		rate := float64(stats.CompletedTasks) / float64(stats.TotalTasks) * 100
		stats.CompletionRate = math.Round(rate)
	}
	return stats
}

// heuristicInsights mirrors the stats into human-readable nudges.
func heuristicInsights(stats domain.DashboardStats) []domain.Insight {
	var out []domain.Insight

	switch {
	case stats.TotalTasks > 0 && stats.CompletionRate > 80:
		out = append(out, domain.Insight{
			Title:       "Great job!",
			Description: fmt.Sprintf("You finished %.0f%% of your tasks.", stats.CompletionRate),
			Value:       fmt.Sprintf("%.0f%%", stats.CompletionRate),
			Trend:       domain.TrendUp,
			Type:        "success",
			Priority:    domain.PriorityLow,
		})
	case stats.TotalTasks > 0 && stats.CompletionRate < 50:
		out = append(out, domain.Insight{
			Title:       "Lots left to do",
			Description: fmt.Sprintf("%d tasks pending. Focus on priorities first.", stats.PendingTasks),
			Value:       fmt.Sprintf("%d", stats.PendingTasks),
			Trend:       domain.TrendDown,
			Type:        "warning",
			Priority:    domain.PriorityHigh,
		})
	}

	if stats.ActiveProjects == 0 && stats.TotalProjects > 0 {
		out = append(out, domain.Insight{
			Title:       "No active projects",
			Description: "Looks like none of your projects is active right now.",
			Trend:       domain.TrendNeutral,
			Type:        "info",
			Priority:    domain.PriorityMedium,
		})
	}

	if stats.TotalDocuments == 0 {
		out = append(out, domain.Insight{
			Title:       "Missing docs",
			Description: "Upload project documents to enable smarter insights.",
			Trend:       domain.TrendNeutral,
			Type:        "info",
			Priority:    domain.PriorityLow,
		})
	}

	return out
}

func unavailableInsight() domain.Insight {
	return domain.Insight{
		Title:       "AI Insights Temporarily Unavailable",
		Description: "We couldn't generate AI insights right now. Please try again later.",
		Value:       "0",
		Trend:       domain.TrendDown,
		Type:        "warning",
		Priority:    domain.PriorityHigh,
	}
}

func recentProjects(projects []domain.Project) []domain.Project {
	sorted := make([]domain.Project, len(projects))
	copy(sorted, projects)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt)
	})
	if len(sorted) > recentLimit {
		sorted = sorted[:recentLimit]
	}
	return sorted
}

func recentTasks(tasks []domain.Task) []domain.Task {
	sorted := make([]domain.Task, len(tasks))
	copy(sorted, tasks)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt)
	})
	if len(sorted) > recentLimit {
		sorted = sorted[:recentLimit]
	}
	return sorted
}
