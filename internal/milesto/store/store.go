package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhi19833/milesto/internal/milesto/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and to stop callers from accidentally nesting transactions.
type Store interface {
	Users() Users
	Projects() Projects
	Invitations() Invitations
	Tasks() Tasks
	Documents() Documents

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction: rollback if fn errors,
	// commit otherwise. Prefer this over Tx for multi-step operations that
	// must be atomic (e.g. invitation consumption + member insert).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks a user up by lowercased email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// UpdateLastLogin stamps last_login on a successful sign-in.
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error

	// SetResetToken stores the reset token fingerprint and its expiry.
	SetResetToken(ctx context.Context, userID string, tokenHash string, expires time.Time) error

	// GetUserByResetTokenHash returns the user holding an unexpired reset token.
	GetUserByResetTokenHash(ctx context.Context, tokenHash string, now time.Time) (domain.User, error)

	// ClearResetToken wipes the reset token fields after use or expiry.
	ClearResetToken(ctx context.Context, userID string) error

	// ClearExpiredResetTokens is housekeeping.
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}

type Projects interface {
	// GetProjectByID returns a project including its member list.
	GetProjectByID(ctx context.Context, id string) (domain.Project, error)

	// ListProjectsForUser returns projects the user created or is a member
	// of, newest first, members populated.
	ListProjectsForUser(ctx context.Context, userID string) ([]domain.Project, error)

	// CreateProject inserts the project row and its initial members.
	CreateProject(ctx context.Context, p domain.Project) error

	// UpdateProject persists mutable fields (title, description, type,
	// status, progress, deadline) and bumps updated_at.
	UpdateProject(ctx context.Context, p domain.Project) error

	// DeleteProject removes the project; tasks, documents, members and
	// invitations cascade per schema.
	DeleteProject(ctx context.Context, id string) error

	// AddMember inserts a membership row. ErrAlreadyExists if present.
	AddMember(ctx context.Context, projectID string, m domain.Member) error

	// RemoveMember deletes a membership row.
	RemoveMember(ctx context.Context, projectID, userID string) error

	// UpdateMemberRole changes one member's role.
	UpdateMemberRole(ctx context.Context, projectID, userID string, role domain.MemberRole) error

	// IsMember reports whether userID belongs to the project team.
	IsMember(ctx context.Context, projectID, userID string) (bool, error)
}

type Invitations interface {
	// CreateInvitation writes a new pending ledger row.
	CreateInvitation(ctx context.Context, inv domain.Invitation) error

	// GetInvitationByID returns one row, with project title and inviter
	// name populated.
	GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error)

	// GetPendingByTokenHash returns the pending row matching the token
	// fingerprint. Expiry is NOT filtered here; callers re-check.
	GetPendingByTokenHash(ctx context.Context, tokenHash string) (domain.Invitation, error)

	// ListPendingByEmail returns every pending row addressed to the email,
	// oldest first. Used for registration reconciliation.
	ListPendingByEmail(ctx context.Context, email string) ([]domain.Invitation, error)

	// ListPendingForProject returns pending rows for a project's team view.
	ListPendingForProject(ctx context.Context, projectID string) ([]domain.Invitation, error)

	// ListPendingByInviter returns every pending row the user sent, across
	// all their projects, newest first.
	ListPendingByInviter(ctx context.Context, inviterID string) ([]domain.Invitation, error)

	// AcceptInvitation flips pending→accepted as a guarded update and
	// reports whether this call won the transition. A false return with a
	// nil error means another consumer got there first.
	AcceptInvitation(ctx context.Context, id string, now time.Time) (bool, error)

	// DeclineInvitation flips pending→declined, same guard as accept.
	DeclineInvitation(ctx context.Context, id string, now time.Time) (bool, error)

	// DeleteInvitation removes a row outright (cancellation).
	DeleteInvitation(ctx context.Context, id string) error

	// DeleteExpiredInvitations purges pending rows past expiry. Housekeeping.
	DeleteExpiredInvitations(ctx context.Context, now time.Time) (int64, error)
}

type Tasks interface {
	GetTaskByID(ctx context.Context, id string) (domain.Task, error)

	// ListTasksForProject returns the project's tasks, newest first.
	ListTasksForProject(ctx context.Context, projectID string) ([]domain.Task, error)

	// ListTasksForUser returns tasks in any project the user can access.
	ListTasksForUser(ctx context.Context, userID string) ([]domain.Task, error)

	CreateTask(ctx context.Context, t domain.Task) error
	UpdateTask(ctx context.Context, t domain.Task) error
	DeleteTask(ctx context.Context, id string) error

	// CountByStatus returns per-status task counts for a project.
	CountByStatus(ctx context.Context, projectID string) (map[domain.TaskStatus]int, error)
}

type Documents interface {
	GetDocumentByID(ctx context.Context, id string) (domain.Document, error)

	// ListDocumentsForProject returns the project's documents, newest first.
	ListDocumentsForProject(ctx context.Context, projectID string) ([]domain.Document, error)

	CreateDocument(ctx context.Context, d domain.Document) error

	// UpdateDocumentContent replaces the inline content and bumps version.
	UpdateDocumentContent(ctx context.Context, id string, content string) error

	DeleteDocument(ctx context.Context, id string) error

	// CountForUser returns how many documents sit in projects the user can
	// access. Feeds the dashboard.
	CountForUser(ctx context.Context, userID string) (int, error)
}
