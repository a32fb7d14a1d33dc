// Package milestosdk is a thin Go client for the Milesto HTTP API. It is
// used by integration tests and by anyone scripting against a Milesto
// deployment.
package milestosdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to a Milesto server. Authenticate (or SetToken) before
// calling endpoints that need a session.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	token string
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetToken installs a session token obtained out of band.
func (c *Client) SetToken(token string) { c.token = token }

// Token returns the current session token.
func (c *Client) Token() string { return c.token }

// ============================================================================
// Auth
// ============================================================================

// Register creates an account and keeps the returned session token.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &out); err != nil {
		return AuthResponse{}, err
	}
	c.token = out.Token
	return out, nil
}

// Login authenticates and keeps the returned session token.
func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", LoginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return AuthResponse{}, err
	}
	c.token = out.Token
	return out, nil
}

func (c *Client) Me(ctx context.Context) (User, error) {
	var out User
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out)
	return out, err
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	return c.do(ctx, http.MethodPut, "/api/auth/password",
		ChangePasswordRequest{CurrentPassword: current, NewPassword: next}, nil)
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/forgot-password", ForgotPasswordRequest{Email: email}, nil)
}

func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/reset-password",
		ResetPasswordRequest{Token: token, Password: password}, nil)
}

// ============================================================================
// Projects
// ============================================================================

func (c *Client) CreateProject(ctx context.Context, req ProjectRequest) (Project, error) {
	var out Project
	err := c.do(ctx, http.MethodPost, "/api/projects", req, &out)
	return out, err
}

func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var out []Project
	err := c.do(ctx, http.MethodGet, "/api/projects", nil, &out)
	return out, err
}

func (c *Client) GetProject(ctx context.Context, id string) (Project, error) {
	var out Project
	err := c.do(ctx, http.MethodGet, "/api/projects/"+id, nil, &out)
	return out, err
}

func (c *Client) UpdateProject(ctx context.Context, id string, req ProjectRequest) (Project, error) {
	var out Project
	err := c.do(ctx, http.MethodPut, "/api/projects/"+id, req, &out)
	return out, err
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/projects/"+id, nil, nil)
}

func (c *Client) AddMember(ctx context.Context, projectID string, req AddMemberRequest) (Member, error) {
	var out Member
	err := c.do(ctx, http.MethodPost, "/api/projects/"+projectID+"/members", req, &out)
	return out, err
}

func (c *Client) RemoveMember(ctx context.Context, projectID, userID string) error {
	return c.do(ctx, http.MethodDelete, "/api/projects/"+projectID+"/members/"+userID, nil, nil)
}

func (c *Client) UpdateMemberRole(ctx context.Context, projectID, userID, role string) error {
	return c.do(ctx, http.MethodPut, "/api/projects/"+projectID+"/members/"+userID,
		UpdateMemberRoleRequest{Role: role}, nil)
}

// ============================================================================
// Invitations
// ============================================================================

func (c *Client) InviteMember(ctx context.Context, projectID string, req InviteRequest) (InviteResponse, error) {
	var out InviteResponse
	err := c.do(ctx, http.MethodPost, "/api/projects/"+projectID+"/invitations", req, &out)
	return out, err
}

func (c *Client) ListProjectInvitations(ctx context.Context, projectID string) ([]Invitation, error) {
	var out []Invitation
	err := c.do(ctx, http.MethodGet, "/api/projects/"+projectID+"/invitations", nil, &out)
	return out, err
}

func (c *Client) MyInvitations(ctx context.Context) ([]Invitation, error) {
	var out []Invitation
	err := c.do(ctx, http.MethodGet, "/api/invitations", nil, &out)
	return out, err
}

func (c *Client) AcceptInvitation(ctx context.Context, id string) (Invitation, error) {
	var out Invitation
	err := c.do(ctx, http.MethodPost, "/api/invitations/"+id+"/accept", nil, &out)
	return out, err
}

func (c *Client) DeclineInvitation(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/api/invitations/"+id+"/decline", nil, nil)
}

func (c *Client) CancelInvitation(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/invitations/"+id, nil, nil)
}

// ============================================================================
// Tasks
// ============================================================================

func (c *Client) CreateTask(ctx context.Context, projectID string, req TaskRequest) (Task, error) {
	var out Task
	err := c.do(ctx, http.MethodPost, "/api/projects/"+projectID+"/tasks", req, &out)
	return out, err
}

func (c *Client) ListProjectTasks(ctx context.Context, projectID string) ([]Task, error) {
	var out []Task
	err := c.do(ctx, http.MethodGet, "/api/projects/"+projectID+"/tasks", nil, &out)
	return out, err
}

func (c *Client) ListMyTasks(ctx context.Context) ([]Task, error) {
	var out []Task
	err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &out)
	return out, err
}

func (c *Client) UpdateTask(ctx context.Context, id string, req TaskRequest) (Task, error) {
	var out Task
	err := c.do(ctx, http.MethodPut, "/api/tasks/"+id, req, &out)
	return out, err
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+id, nil, nil)
}

// ============================================================================
// Documents
// ============================================================================

func (c *Client) CreateDocument(ctx context.Context, projectID string, req CreateDocumentRequest) (Document, error) {
	var out Document
	err := c.do(ctx, http.MethodPost, "/api/projects/"+projectID+"/documents", req, &out)
	return out, err
}

func (c *Client) ListProjectDocuments(ctx context.Context, projectID string) ([]Document, error) {
	var out []Document
	err := c.do(ctx, http.MethodGet, "/api/projects/"+projectID+"/documents", nil, &out)
	return out, err
}

func (c *Client) UpdateDocumentContent(ctx context.Context, id, content string) (Document, error) {
	var out Document
	err := c.do(ctx, http.MethodPut, "/api/documents/"+id, UpdateDocumentRequest{Content: content}, &out)
	return out, err
}

func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/documents/"+id, nil, nil)
}

// ============================================================================
// Team and Dashboard
// ============================================================================

func (c *Client) ListTeam(ctx context.Context) ([]Teammate, error) {
	var out []Teammate
	err := c.do(ctx, http.MethodGet, "/api/team", nil, &out)
	return out, err
}

func (c *Client) SentInvitations(ctx context.Context) ([]Invitation, error) {
	var out []Invitation
	err := c.do(ctx, http.MethodGet, "/api/team/invitations", nil, &out)
	return out, err
}

func (c *Client) UpdateTeammateRole(ctx context.Context, userID string, req UpdateTeammateRoleRequest) (UpdateTeammateRoleResponse, error) {
	var out UpdateTeammateRoleResponse
	err := c.do(ctx, http.MethodPatch, "/api/team/"+userID, req, &out)
	return out, err
}

func (c *Client) RemoveTeammate(ctx context.Context, userID string) (RemoveTeammateResponse, error) {
	var out RemoveTeammateResponse
	err := c.do(ctx, http.MethodDelete, "/api/team/"+userID, nil, &out)
	return out, err
}

func (c *Client) DashboardStats(ctx context.Context) (DashboardStats, error) {
	var out DashboardStats
	err := c.do(ctx, http.MethodGet, "/api/dashboard/stats", nil, &out)
	return out, err
}

func (c *Client) RecentProjects(ctx context.Context) ([]Project, error) {
	var out []Project
	err := c.do(ctx, http.MethodGet, "/api/dashboard/recent-projects", nil, &out)
	return out, err
}

func (c *Client) RecentTasks(ctx context.Context) ([]Task, error) {
	var out []Task
	err := c.do(ctx, http.MethodGet, "/api/dashboard/recent-tasks", nil, &out)
	return out, err
}

func (c *Client) AIInsights(ctx context.Context) (AIInsightsResponse, error) {
	var out AIInsightsResponse
	err := c.do(ctx, http.MethodGet, "/api/dashboard/ai-insights", nil, &out)
	return out, err
}

func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.do(ctx, http.MethodGet, "/livez", nil, &out)
	return out, err
}

// ============================================================================
// Plumbing
// ============================================================================

// do sends one request. A nil body sends no payload; a nil out discards the
// response body. Non-2xx statuses come back as *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return fmt.Errorf("milestosdk: failed to encode request: %w", err)
		}
		reqBody = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("milestosdk: failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("milestosdk: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("milestosdk: failed to decode response: %w", err)
	}
	return nil
}
