// Package ai produces dashboard insights with Google's Gemini models.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/abhi19833/milesto/internal/milesto/domain"
)

const defaultModel = "gemini-2.5-flash"

var ErrEmptyResponse = errors.New("ai: model returned no content")

type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, apiKey string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("ai: failed to create gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: defaultModel}, nil
}

func (g *GeminiGenerator) Close() error { return g.client.Close() }

func (g *GeminiGenerator) GenerateInsights(
	ctx context.Context,
	stats domain.DashboardStats,
	projects []domain.Project,
) ([]domain.Insight, error) {
	prompt, err := buildPrompt(stats, projects)
	if err != nil {
		return nil, err
	}

	model := g.client.GenerativeModel(g.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("ai: generate content: %w", err)
	}

	text := collectText(resp)
	if text == "" {
		return nil, ErrEmptyResponse
	}

	return parseInsights(text)
}

func buildPrompt(stats domain.DashboardStats, projects []domain.Project) (string, error) {
	type projectSummary struct {
		Title    string `json:"title"`
		Status   string `json:"status"`
		Progress int    `json:"progress"`
		Members  int    `json:"teamMembers"`
	}

	summaries := make([]projectSummary, 0, len(projects))
	for _, p := range projects {
		summaries = append(summaries, projectSummary{
			Title:    p.Title,
			Status:   string(p.Status),
			Progress: p.Progress,
			Members:  len(p.Members),
		})
	}

	statsJSON, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return "", err
	}
	projectsJSON, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`Generate dashboard insights based on the following data.
Return ONLY valid JSON.
Do NOT use markdown.
Do NOT use %s.
Return a JSON array of objects.

Each object must contain:
- title
- description
- value
- trend (up | down | neutral)
- type (success | warning | info)
- priority (high | medium | low)

Stats:
%s

Projects:
%s
`, "```", statsJSON, projectsJSON), nil
}

func collectText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return sb.String()
}

// rawInsight matches whatever shape the model chose; value in particular
// comes back as either a number or a string.
type rawInsight struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Value       any    `json:"value"`
	Trend       string `json:"trend"`
	Type        string `json:"type"`
	Priority    string `json:"priority"`
}

func (r rawInsight) toDomain() domain.Insight {
	value := ""
	if r.Value != nil {
		value = fmt.Sprint(r.Value)
	}
	return domain.Insight{
		Title:       r.Title,
		Description: r.Description,
		Value:       value,
		Trend:       domain.InsightTrend(r.Trend),
		Type:        r.Type,
		Priority:    domain.InsightPriority(r.Priority),
	}
}

// parseInsights tolerates models that wrap their JSON in markdown fences or
// return a single object instead of an array.
func parseInsights(text string) ([]domain.Insight, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```JSON", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var raw []rawInsight
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		var single rawInsight
		if err2 := json.Unmarshal([]byte(cleaned), &single); err2 != nil {
			return nil, fmt.Errorf("ai: unparseable model output: %w", err)
		}
		raw = []rawInsight{single}
	}

	out := make([]domain.Insight, 0, len(raw))
	for _, r := range raw {
		out = append(out, r.toDomain())
	}
	return out, nil
}
