package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/abhi19833/milesto/internal/milesto/domain"
	"github.com/abhi19833/milesto/internal/milesto/store"
	"github.com/abhi19833/milesto/pkg/cryptox"
	"github.com/abhi19833/milesto/pkg/idx"
	"github.com/abhi19833/milesto/pkg/slogx"
)

var (
	ErrInvalidInvitation       = errors.New("invalid invitation request")
	ErrInvitationNotFound      = errors.New("invitation not found")
	ErrInvitationExpired       = errors.New("invitation has expired")
	ErrInvitationHandled       = errors.New("invitation already accepted or declined")
	ErrInvitationEmailMismatch = errors.New("invitation was addressed to a different email")
	ErrAlreadyMember           = errors.New("user is already a project member")
	ErrNotAuthorized           = errors.New("not authorized")
	ErrProjectNotFound         = errors.New("project not found")
)

// InviteService manages the invitation ledger: minting rows on invite,
// consuming them exactly once on accept, and retiring stale ones.
type InviteService struct {
	Store  store.Store
	Mailer Mailer

	// FrontendURL is the base for signup/login links embedded in email.
	FrontendURL string
}

const (
	InviteResultNewUser      = "new_user"
	InviteResultExistingUser = "existing_user"
)

// CreateInvitationResult reports which path an invite took. Emails with no
// account behind them get a pending ledger row and a signup link; emails that
// already belong to an account skip the ledger and join the team directly.
type CreateInvitationResult struct {
	Type       string
	Invitation domain.Invitation // set when Type is InviteResultNewUser
	Member     domain.Member     // set when Type is InviteResultExistingUser
}

// CreateInvitation invites an email to a project. Unknown emails get a
// pending ledger row and a tokenized signup link; known emails are added to
// the team immediately and notified.
func (s *InviteService) CreateInvitation(
	ctx context.Context,
	inviterID string,
	projectID string,
	email string,
	role domain.InvitationRole,
) (CreateInvitationResult, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input.
	email = normalizeEmail(email)
	if email == "" || projectID == "" {
		return CreateInvitationResult{}, ErrInvalidInvitation
	}
	if role == "" {
		role = domain.InvitationRoleMember
	}
	if !domain.ValidInvitationRole(role) {
		return CreateInvitationResult{}, ErrInvalidInvitation
	}

	// 2. Fetch the project and check the inviter may manage its team.
	project, err := s.Store.Projects().GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return CreateInvitationResult{}, ErrProjectNotFound
		}
		return CreateInvitationResult{}, err
	}
	if !project.CanManage(inviterID) {
		log.Warn("invitation attempted without management rights",
			slog.String("project_id", projectID),
			slog.String("user_id", inviterID),
		)
		return CreateInvitationResult{}, ErrNotAuthorized
	}

	inviter, err := s.Store.Users().GetUserByID(ctx, inviterID)
	if err != nil {
		return CreateInvitationResult{}, err
	}
	now := time.Now()

	// 3. An email that already belongs to an account short-circuits the
	// ledger: the account joins the team right away, no token is minted.
	invitee, err := s.Store.Users().GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		member, err := s.Store.Projects().IsMember(ctx, projectID, invitee.ID)
		if err != nil {
			return CreateInvitationResult{}, err
		}
		if member || project.CreatedBy == invitee.ID {
			return CreateInvitationResult{}, ErrAlreadyMember
		}
		return s.addExistingUser(ctx, project, inviter, invitee, role, now)
	case errors.Is(err, store.ErrNotFound):
		// New user; mint a ledger row below.
	default:
		return CreateInvitationResult{}, err
	}

	// 4. Generate the opaque token; only its fingerprint is persisted.
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return CreateInvitationResult{}, err
	}

	inv := domain.Invitation{
		ID:           idx.New().String(),
		Email:        email,
		ProjectID:    projectID,
		InvitedBy:    inviterID,
		Role:         role,
		Status:       domain.InvitationPending,
		TokenHash:    cryptox.FingerprintToken(token),
		ExpiresAt:    now.Add(domain.InvitationTTL),
		ProjectTitle: project.Title,
		InviterName:  inviter.Name,
	}

	// 5. Persist the ledger row. Duplicate pending invitations to the same
	// email are allowed; each carries its own token.
	if err := s.Store.Invitations().CreateInvitation(ctx, inv); err != nil {
		log.Error("failed to create invitation", slog.Any("error", err))
		return CreateInvitationResult{}, err
	}

	// 6. Mail the invite. Delivery failure does not undo the row; the
	// invitee can still be reached by re-sending the invite.
	actionURL := s.FrontendURL + "/signup?invite=" + token
	if err := s.Mailer.SendInvitation(ctx, inv, false, actionURL); err != nil {
		log.Warn("failed to send invitation email",
			slog.String("invitation_id", inv.ID),
			slog.Any("error", err),
		)
	}

	log.Info("invitation created",
		slog.String("invitation_id", inv.ID),
		slog.String("project_id", projectID),
	)

	return CreateInvitationResult{Type: InviteResultNewUser, Invitation: inv}, nil
}

// addExistingUser joins an already-registered invitee to the project and
// sends a notification with a login link.
func (s *InviteService) addExistingUser(
	ctx context.Context,
	project domain.Project,
	inviter domain.User,
	invitee domain.User,
	role domain.InvitationRole,
	now time.Time,
) (CreateInvitationResult, error) {
	log := slogx.FromContext(ctx)

	member := domain.Member{
		UserID:   invitee.ID,
		Name:     invitee.Name,
		Email:    invitee.Email,
		Role:     role.MemberRole(),
		JoinedAt: now,
	}
	if err := s.Store.Projects().AddMember(ctx, project.ID, member); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return CreateInvitationResult{}, ErrAlreadyMember
		}
		return CreateInvitationResult{}, err
	}

	// The notification reuses the invitation email with the member's
	// details; nothing is persisted in the ledger for this path.
	notice := domain.Invitation{
		Email:        invitee.Email,
		ProjectID:    project.ID,
		InvitedBy:    inviter.ID,
		Role:         role,
		ProjectTitle: project.Title,
		InviterName:  inviter.Name,
	}
	if err := s.Mailer.SendInvitation(ctx, notice, true, s.FrontendURL+"/login"); err != nil {
		log.Warn("failed to send membership notification email",
			slog.String("project_id", project.ID),
			slog.Any("error", err),
		)
	}

	log.Info("existing user added to project",
		slog.String("project_id", project.ID),
		slog.String("user_id", invitee.ID),
	)

	return CreateInvitationResult{Type: InviteResultExistingUser, Member: member}, nil
}

// ListMyInvitations returns pending, unexpired invitations addressed to the
// authenticated user's email.
func (s *InviteService) ListMyInvitations(ctx context.Context, email string) ([]domain.Invitation, error) {
	pending, err := s.Store.Invitations().ListPendingByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	out := pending[:0]
	for _, inv := range pending {
		if !inv.Expired(now) {
			out = append(out, inv)
		}
	}
	return out, nil
}

// ListSentInvitations returns every pending invitation the user has sent,
// across all their projects, for the team view's outstanding-invites panel.
func (s *InviteService) ListSentInvitations(ctx context.Context, userID string) ([]domain.Invitation, error) {
	return s.Store.Invitations().ListPendingByInviter(ctx, userID)
}

// ListProjectInvitations returns the project's pending invitations for its
// team view. Requires project access.
func (s *InviteService) ListProjectInvitations(
	ctx context.Context,
	userID string,
	projectID string,
) ([]domain.Invitation, error) {
	project, err := s.Store.Projects().GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	if !project.CanAccess(userID) {
		return nil, ErrNotAuthorized
	}
	return s.Store.Invitations().ListPendingForProject(ctx, projectID)
}

// AcceptInvitation consumes a pending invitation for an authenticated user.
// The invitation must be addressed to the caller's email and still unexpired
// at consumption time, however long it sat in their inbox. Status flip and
// member insert commit together.
func (s *InviteService) AcceptInvitation(
	ctx context.Context,
	userID string,
	userEmail string,
	invitationID string,
) (domain.Invitation, error) {
	log := slogx.FromContext(ctx)

	// 1. Fetch the row.
	inv, err := s.Store.Invitations().GetInvitationByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invitation{}, ErrInvitationNotFound
		}
		return domain.Invitation{}, err
	}

	// 2. The invitation belongs to whoever it was addressed to, not to
	// whoever learns its id.
	if inv.Email != normalizeEmail(userEmail) {
		log.Warn("invitation accept attempted by wrong account",
			slog.String("invitation_id", inv.ID),
			slog.String("user_id", userID),
		)
		return domain.Invitation{}, ErrInvitationEmailMismatch
	}

	if inv.Status != domain.InvitationPending {
		return domain.Invitation{}, ErrInvitationHandled
	}

	// 3. Re-check expiry at consumption time.
	now := time.Now()
	if inv.Expired(now) {
		return domain.Invitation{}, ErrInvitationExpired
	}

	// 4. Consume: guarded flip plus member insert, atomically.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		won, err := tx.Invitations().AcceptInvitation(ctx, inv.ID, now)
		if err != nil {
			return err
		}
		if !won {
			return ErrInvitationHandled
		}
		err = tx.Projects().AddMember(ctx, inv.ProjectID, domain.Member{
			UserID: userID,
			Role:   inv.Role.MemberRole(),
		})
		if errors.Is(err, store.ErrAlreadyExists) {
			// Already on the team; the row is retired anyway.
			return nil
		}
		return err
	})
	if err != nil {
		return domain.Invitation{}, err
	}

	log.Info("invitation accepted",
		slog.String("invitation_id", inv.ID),
		slog.String("project_id", inv.ProjectID),
		slog.String("user_id", userID),
	)

	inv.Status = domain.InvitationAccepted
	return inv, nil
}

// DeclineInvitation retires a pending invitation without joining.
func (s *InviteService) DeclineInvitation(
	ctx context.Context,
	userEmail string,
	invitationID string,
) error {
	inv, err := s.Store.Invitations().GetInvitationByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvitationNotFound
		}
		return err
	}
	if inv.Email != normalizeEmail(userEmail) {
		return ErrInvitationEmailMismatch
	}

	won, err := s.Store.Invitations().DeclineInvitation(ctx, invitationID, time.Now())
	if err != nil {
		return err
	}
	if !won {
		return ErrInvitationHandled
	}
	return nil
}

// CancelInvitation deletes a pending row. Only someone who manages the
// project may cancel; cancelling an already-consumed row fails.
func (s *InviteService) CancelInvitation(ctx context.Context, userID, invitationID string) error {
	log := slogx.FromContext(ctx)

	inv, err := s.Store.Invitations().GetInvitationByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvitationNotFound
		}
		return err
	}

	// A row whose project is gone is an orphan; anyone may clean it up.
	project, err := s.Store.Projects().GetProjectByID(ctx, inv.ProjectID)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return err
	case !project.CanManage(userID):
		return ErrNotAuthorized
	}

	if inv.Status != domain.InvitationPending {
		return ErrInvitationHandled
	}

	if err := s.Store.Invitations().DeleteInvitation(ctx, invitationID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvitationNotFound
		}
		return err
	}

	log.Info("invitation cancelled",
		slog.String("invitation_id", invitationID),
		slog.String("user_id", userID),
	)
	return nil
}
