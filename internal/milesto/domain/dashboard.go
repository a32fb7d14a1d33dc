package domain

type InsightTrend string

const (
	TrendUp      InsightTrend = "up"
	TrendDown    InsightTrend = "down"
	TrendNeutral InsightTrend = "neutral"
)

type InsightPriority string

const (
	PriorityHigh   InsightPriority = "high"
	PriorityMedium InsightPriority = "medium"
	PriorityLow    InsightPriority = "low"
)

// Insight is a single dashboard recommendation, either derived from
// workspace stats or produced by the AI generator.
type Insight struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Value       string          `json:"value"`
	Trend       InsightTrend    `json:"trend"`
	Type        string          `json:"type"`
	Priority    InsightPriority `json:"priority"`
}

// DashboardStats aggregates workspace-wide counters for the signed-in user.
type DashboardStats struct {
	TotalProjects     int     `json:"totalProjects"`
	ActiveProjects    int     `json:"activeProjects"`
	CompletedProjects int     `json:"completedProjects"`
	TotalTasks        int     `json:"totalTasks"`
	CompletedTasks    int     `json:"completedTasks"`
	PendingTasks      int     `json:"pendingTasks"`
	TotalDocuments    int     `json:"totalDocuments"`
	CompletionRate    float64 `json:"completionRate"`
}
