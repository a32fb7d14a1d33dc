package milestosdk

import "time"

// ErrorResponse is the error payload every endpoint returns on failure.
type ErrorResponse struct {
	// Message is a human-readable description of the error
	Message string `json:"message"`

	// Errors carries field-level validation messages, when present
	Errors []string `json:"errors,omitempty"`
}

// ============================================================================
// Auth Types
// ============================================================================

// RegisterRequest is the signup form. InviteToken is optional and carries
// the opaque token from an invitation email's signup link.
type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	University  string `json:"university,omitempty"`
	Role        string `json:"role,omitempty"` // student | faculty
	InviteToken string `json:"inviteToken,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the public view of an account. Password material never appears.
type User struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	University string     `json:"university,omitempty"`
	Role       string     `json:"role"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// AuthResponse is returned from register and login. JoinedProjects lists the
// titles of projects entered through invitation reconciliation at signup.
type AuthResponse struct {
	Token          string   `json:"token"`
	User           User     `json:"user"`
	JoinedProjects []string `json:"joinedProjects,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ============================================================================
// Project Types
// ============================================================================

// ProjectRequest creates or patches a project. Zero-valued fields are left
// unchanged on update.
type ProjectRequest struct {
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Type        string     `json:"type,omitempty"`
	Status      string     `json:"status,omitempty"`
	Progress    *int       `json:"progress,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

type Member struct {
	UserID   string    `json:"userId"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

type Project struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Type          string     `json:"type"`
	Status        string     `json:"status"`
	Progress      int        `json:"progress"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	CreatedBy     string     `json:"createdBy"`
	Members       []Member   `json:"members"`
	TaskCount     int        `json:"taskCount"`
	DocumentCount int        `json:"documentCount"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type AddMemberRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role,omitempty"` // lead | admin | member | moderator
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role"`
}

// ============================================================================
// Invitation Types
// ============================================================================

type InviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"` // lead | admin | member
}

type Invitation struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	ProjectID    string    `json:"projectId"`
	ProjectTitle string    `json:"projectTitle,omitempty"`
	InvitedBy    string    `json:"invitedBy"`
	InviterName  string    `json:"inviterName,omitempty"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	ExpiresAt    time.Time `json:"expiresAt"`
	CreatedAt    time.Time `json:"createdAt"`
}

// InviteResponse reports which path an invite took. A "new_user" invite
// created a pending invitation and mailed a signup link; an "existing_user"
// invite added the account to the team directly.
type InviteResponse struct {
	Type       string      `json:"type"` // new_user | existing_user
	Invitation *Invitation `json:"invitation,omitempty"`
	Member     *Member     `json:"member,omitempty"`
}

// ============================================================================
// Task Types
// ============================================================================

type TaskRequest struct {
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	AssignedTo  string     `json:"assignedTo,omitempty"`
}

type Task struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"projectId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	AssignedTo  string     `json:"assignedTo,omitempty"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ============================================================================
// Document Types
// ============================================================================

type Document struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"projectId"`
	Title      string    `json:"title"`
	FileName   string    `json:"fileName"`
	FileURL    string    `json:"fileUrl,omitempty"`
	FileSize   int64     `json:"fileSize"`
	MimeType   string    `json:"mimeType,omitempty"`
	Type       string    `json:"type"`
	Content    string    `json:"content,omitempty"`
	Version    int       `json:"version"`
	UploadedBy string    `json:"uploadedBy"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type CreateDocumentRequest struct {
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
}

type UpdateDocumentRequest struct {
	Content string `json:"content"`
}

// ============================================================================
// Team Types
// ============================================================================

type TeamMembership struct {
	ProjectID    string `json:"projectId"`
	ProjectTitle string `json:"projectTitle"`
	Role         string `json:"role"`
}

type Teammate struct {
	UserID      string           `json:"userId"`
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	Memberships []TeamMembership `json:"memberships"`
}

type RemoveTeammateResponse struct {
	RemovedFrom []string `json:"removedFrom"`
}

type UpdateTeammateRoleRequest struct {
	Role string `json:"role"`
}

type UpdateTeammateRoleResponse struct {
	UpdatedIn []string `json:"updatedIn"`
}

// ============================================================================
// Dashboard Types
// ============================================================================

type Insight struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Value       string `json:"value,omitempty"`
	Trend       string `json:"trend"`
	Type        string `json:"type"`
	Priority    string `json:"priority"`
}

type DashboardStats struct {
	TotalProjects     int     `json:"totalProjects"`
	ActiveProjects    int     `json:"activeProjects"`
	CompletedProjects int     `json:"completedProjects"`
	TotalTasks        int     `json:"totalTasks"`
	CompletedTasks    int     `json:"completedTasks"`
	PendingTasks      int     `json:"pendingTasks"`
	TotalDocuments    int     `json:"totalDocuments"`
	CompletionRate    float64 `json:"completionRate"`

	RecentProjects []Project `json:"recentProjects"`
	RecentTasks    []Task    `json:"recentTasks"`
	Insights       []Insight `json:"insights"`
}

type AIInsightsResponse struct {
	Insights        []Insight `json:"insights"`
	Recommendations []string  `json:"recommendations"`
}

// ============================================================================
// Health Types
// ============================================================================

type HealthChecks struct {
	Database string `json:"database,omitempty"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
