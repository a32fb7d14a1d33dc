package http

import (
	"net/http"

	"github.com/abhi19833/milesto/internal/milesto/service"
	"github.com/abhi19833/milesto/pkg/httpx"
	"github.com/abhi19833/milesto/pkg/milestosdk"
	"github.com/abhi19833/milesto/pkg/slogx"
)

type DashboardHandler struct {
	DashboardService *service.DashboardService
}

// HandleStats godoc
//
//	@Summary		Dashboard Stats Endpoint
//	@Description	Workspace counters, completion rate, recent projects and tasks, plus
//	@Description	locally computed insight nudges.
//	@Tags			Dashboard
//	@Produce		json
//	@Success		200	{object}	milestosdk.DashboardStats	"stats, recents, insights"
//	@Security		BearerAuth
//	@Router			/api/dashboard/stats [get].
func (h *DashboardHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summary, err := h.DashboardService.Summary(ctx, httpx.UserIDFromCtx(ctx))
	if err != nil {
		slogx.FromContext(ctx).Error("failed to compute dashboard stats", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Could not load dashboard stats")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, milestosdk.DashboardStats{
		TotalProjects:     summary.TotalProjects,
		ActiveProjects:    summary.ActiveProjects,
		CompletedProjects: summary.CompletedProjects,
		TotalTasks:        summary.TotalTasks,
		CompletedTasks:    summary.CompletedTasks,
		PendingTasks:      summary.PendingTasks,
		TotalDocuments:    summary.TotalDocuments,
		CompletionRate:    summary.CompletionRate,
		RecentProjects:    toProjects(summary.RecentProjects),
		RecentTasks:       toTasks(summary.RecentTasks),
		Insights:          toInsights(summary.Insights),
	})
}

// HandleRecentProjects godoc
//
//	@Summary		Recent Projects Endpoint
//	@Description	The user's most recently updated projects.
//	@Tags			Dashboard
//	@Produce		json
//	@Success		200	{array}	milestosdk.Project	"projects, newest first"
//	@Security		BearerAuth
//	@Router			/api/dashboard/recent-projects [get].
func (h *DashboardHandler) HandleRecentProjects(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	projects, err := h.DashboardService.RecentProjects(ctx, httpx.UserIDFromCtx(ctx))
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list recent projects", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Could not load recent projects")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toProjects(projects))
}

// HandleRecentTasks godoc
//
//	@Summary		Recent Tasks Endpoint
//	@Description	The user's most recently created tasks across all projects.
//	@Tags			Dashboard
//	@Produce		json
//	@Success		200	{array}	milestosdk.Task	"tasks, newest first"
//	@Security		BearerAuth
//	@Router			/api/dashboard/recent-tasks [get].
func (h *DashboardHandler) HandleRecentTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tasks, err := h.DashboardService.RecentTasks(ctx, httpx.UserIDFromCtx(ctx))
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list recent tasks", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Could not load recent tasks")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toTasks(tasks))
}

// HandleAIInsights godoc
//
//	@Summary		AI Insights Endpoint
//	@Description	Model-generated insights over the user's workspace. When the model is
//	@Description	unavailable or returns garbage, a fixed notice is served instead of an error.
//	@Tags			Dashboard
//	@Produce		json
//	@Success		200	{object}	milestosdk.AIInsightsResponse	"insights, recommendations"
//	@Security		BearerAuth
//	@Router			/api/dashboard/ai-insights [get].
func (h *DashboardHandler) HandleAIInsights(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	insights, err := h.DashboardService.AIInsights(ctx, httpx.UserIDFromCtx(ctx))
	if err != nil {
		slogx.FromContext(ctx).Error("failed to generate insights", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Could not generate AI insights")
		return
	}

	out := toInsights(insights)
	recommendations := make([]string, 0, len(out))
	for _, i := range out {
		recommendations = append(recommendations, i.Description)
	}

	httpx.WriteJSON(w, http.StatusOK, milestosdk.AIInsightsResponse{
		Insights:        out,
		Recommendations: recommendations,
	})
}
