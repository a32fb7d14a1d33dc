package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/abhi19833/milesto/internal/milesto/domain"
	"github.com/abhi19833/milesto/internal/milesto/store"
	"github.com/abhi19833/milesto/pkg/cryptox"
	"github.com/abhi19833/milesto/pkg/idx"
	"github.com/abhi19833/milesto/pkg/jwtx"
	"github.com/abhi19833/milesto/pkg/slogx"
)

var (
	ErrInvalidRegistration = errors.New("invalid registration request")
	ErrEmailAlreadyTaken   = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAccountDisabled     = errors.New("account is deactivated")
	ErrInvalidResetToken   = errors.New("reset token is invalid or expired")
	ErrWeakPassword        = errors.New("password must be at least 6 characters")
)

// ResetTokenTTL is how long a password-reset link stays valid. Short on
// purpose; the link lands in email, which outlives any session.
const ResetTokenTTL = 15 * time.Minute

// AuthService handles registration, login and password lifecycle. Registration
// is also the point where the invitation ledger is reconciled: any pending
// invitations addressed to the new account's email are consumed and turned
// into project memberships in the same transaction that creates the user.
type AuthService struct {
	Store  store.Store
	Signer jwtx.Signer
	Mailer Mailer

	// FrontendURL is the base for links embedded in email (reset password).
	FrontendURL string
}

// RegisterParams carries the signup form. InviteToken is optional; when
// present it points at the invitation that brought the user here.
type RegisterParams struct {
	Name        string
	Email       string
	Password    string
	University  string
	Role        domain.AccountRole
	InviteToken string
}

// RegisterResult is the outcome of a signup: the created user, a session
// token, and the titles of the projects joined through invitation
// reconciliation (titles, not ids, so the signup screen can greet the user
// with where they just landed).
type RegisterResult struct {
	User           domain.User
	Token          string
	JoinedProjects []string
}

// Register creates an account and reconciles pending invitations.
func (s *AuthService) Register(ctx context.Context, p RegisterParams) (RegisterResult, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input.
	p.Name = strings.TrimSpace(p.Name)
	p.Email = normalizeEmail(p.Email)
	if p.Name == "" || p.Email == "" || !strings.Contains(p.Email, "@") {
		return RegisterResult{}, ErrInvalidRegistration
	}
	if len(p.Password) < 6 {
		return RegisterResult{}, ErrWeakPassword
	}
	if p.Role == "" {
		p.Role = domain.AccountRoleStudent
	}
	if !domain.ValidAccountRole(p.Role) {
		return RegisterResult{}, ErrInvalidRegistration
	}

	// 2. Verify email is available.
	_, err := s.Store.Users().GetUserByEmail(ctx, p.Email)
	if err == nil {
		log.Warn("registration attempted with taken email")
		return RegisterResult{}, ErrEmailAlreadyTaken
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to check email availability", slog.Any("error", err))
		return RegisterResult{}, err
	}

	// 3. Hash the password using Argon2id.
	passwordHash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return RegisterResult{}, err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Name:         p.Name,
		Email:        p.Email,
		PasswordHash: passwordHash,
		University:   strings.TrimSpace(p.University),
		Role:         p.Role,
		IsActive:     true,
	}

	// 4. Create the user and consume pending invitations atomically. If the
	// member insert fails the invitation flip rolls back with it; a ledger
	// row is never consumed without the membership it grants.
	now := time.Now()
	var joined []string
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrEmailAlreadyTaken
			}
			return err
		}

		// 4a. Token path: the signup link carried a specific invitation;
		// consume exactly that one. A token addressed to a different email
		// is ignored, never a reason to fail the signup.
		if p.InviteToken != "" {
			fingerprint := cryptox.FingerprintToken(p.InviteToken)
			inv, err := tx.Invitations().GetPendingByTokenHash(ctx, fingerprint)
			switch {
			case errors.Is(err, store.ErrNotFound):
				log.Warn("registration carried unknown or consumed invite token")
			case err != nil:
				return err
			case inv.Email != p.Email:
				log.Warn("registration invite token addressed to a different email",
					slog.String("invitation_id", inv.ID),
				)
			case inv.Expired(now):
				log.Warn("registration invite token expired",
					slog.String("invitation_id", inv.ID),
				)
			default:
				ok, err := consumeInvitation(ctx, tx, inv, user.ID, now)
				if err != nil {
					return err
				}
				if ok {
					joined = append(joined, inv.ProjectTitle)
				}
			}
		}

		// 4b. Scan path: a signup without a token joins every pending
		// invitation addressed to this email. Anything a tokenized signup
		// leaves behind stays pending and can be accepted in-app later.
		if p.InviteToken == "" {
			pending, err := tx.Invitations().ListPendingByEmail(ctx, p.Email)
			if err != nil {
				return err
			}
			for _, inv := range pending {
				if inv.Expired(now) {
					continue
				}
				ok, err := consumeInvitation(ctx, tx, inv, user.ID, now)
				if err != nil {
					return err
				}
				if ok {
					joined = append(joined, inv.ProjectTitle)
				}
			}
		}
		return nil
	})
	if err != nil {
		return RegisterResult{}, err
	}

	// 5. Mint a session token.
	token, err := s.Signer.Sign(jwtx.NewSessionClaims(user.ID, user.Email, "milesto", jwtx.DefaultSessionTTL, now))
	if err != nil {
		log.Error("failed to sign session token", slog.Any("error", err))
		return RegisterResult{}, err
	}

	log.Info("user registered",
		slog.String("user_id", user.ID),
		slog.Int("projects_joined", len(joined)),
	)

	return RegisterResult{User: user, Token: token, JoinedProjects: joined}, nil
}

// consumeInvitation flips one ledger row to accepted and inserts the
// membership it grants. The guarded update means a row consumed elsewhere is
// skipped without error; a membership that already exists just retires the
// row.
func consumeInvitation(
	ctx context.Context,
	tx store.Tx,
	inv domain.Invitation,
	userID string,
	now time.Time,
) (bool, error) {
	won, err := tx.Invitations().AcceptInvitation(ctx, inv.ID, now)
	if err != nil {
		return false, err
	}
	if !won {
		return false, nil
	}
	err = tx.Projects().AddMember(ctx, inv.ProjectID, domain.Member{
		UserID: userID,
		Role:   inv.Role.MemberRole(),
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Login authenticates by email and password and mints a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	log := slogx.FromContext(ctx)

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return domain.User{}, "", ErrInvalidCredentials
	}

	// 1. Look the user up. A missing account and a wrong password produce
	// the same error so the endpoint doesn't leak which emails exist.
	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, "", ErrInvalidCredentials
		}
		log.Error("failed to fetch user for login", slog.Any("error", err))
		return domain.User{}, "", err
	}

	// 2. Verify the password.
	if cryptox.VerifyPassword(password, user.PasswordHash) != nil {
		log.Warn("login attempted with wrong password", slog.String("user_id", user.ID))
		return domain.User{}, "", ErrInvalidCredentials
	}

	if !user.IsActive {
		return domain.User{}, "", ErrAccountDisabled
	}

	// 3. Stamp last login; non-fatal.
	now := time.Now()
	if err := s.Store.Users().UpdateLastLogin(ctx, user.ID, now); err != nil {
		log.Warn("failed to update last login", slog.Any("error", err))
	}
	user.LastLogin = &now

	// 4. Mint a session token.
	token, err := s.Signer.Sign(jwtx.NewSessionClaims(user.ID, user.Email, "milesto", jwtx.DefaultSessionTTL, now))
	if err != nil {
		log.Error("failed to sign session token", slog.Any("error", err))
		return domain.User{}, "", err
	}

	log.Debug("user logged in", slog.String("user_id", user.ID))
	return user, token, nil
}

// GetUser returns the account backing a session.
func (s *AuthService) GetUser(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// ChangePassword verifies the current password before setting a new one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	log := slogx.FromContext(ctx)

	if len(next) < 6 {
		return ErrWeakPassword
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if cryptox.VerifyPassword(current, user.PasswordHash) != nil {
		return ErrInvalidCredentials
	}

	newHash, err := cryptox.HashPassword(next)
	if err != nil {
		return err
	}

	if err := s.Store.Users().UpdatePasswordHash(ctx, userID, newHash); err != nil {
		log.Error("failed to update password hash", slog.Any("error", err))
		return err
	}

	log.Info("password changed", slog.String("user_id", userID))
	return nil
}

// ForgotPassword issues a reset token and mails a reset link. It reports
// success even when the email is unknown, so the endpoint cannot be used to
// enumerate accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	log := slogx.FromContext(ctx)

	email = normalizeEmail(email)
	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("password reset requested for unknown email")
			return nil
		}
		return err
	}

	// 1. Generate the token; only its fingerprint is persisted.
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return err
	}
	fingerprint := cryptox.FingerprintToken(token)
	expires := time.Now().Add(ResetTokenTTL)

	if err := s.Store.Users().SetResetToken(ctx, user.ID, fingerprint, expires); err != nil {
		log.Error("failed to store reset token", slog.Any("error", err))
		return err
	}

	// 2. Mail the raw token. Failure here is surfaced; the token stays
	// valid so a retry of the request just refreshes it.
	resetURL := s.FrontendURL + "/reset-password?token=" + token
	if err := s.Mailer.SendPasswordReset(ctx, user.Email, user.Name, resetURL); err != nil {
		log.Error("failed to send password reset email", slog.Any("error", err))
		return err
	}

	log.Info("password reset email sent", slog.String("user_id", user.ID))
	return nil
}

// ResetPassword redeems a reset token for a new password.
func (s *AuthService) ResetPassword(ctx context.Context, token, next string) error {
	log := slogx.FromContext(ctx)

	if len(next) < 6 {
		return ErrWeakPassword
	}

	// 1. Fingerprint and look the token up; expiry filters in the query.
	fingerprint := cryptox.FingerprintToken(token)
	user, err := s.Store.Users().GetUserByResetTokenHash(ctx, fingerprint, time.Now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	newHash, err := cryptox.HashPassword(next)
	if err != nil {
		return err
	}

	// 2. Swap the hash and retire the token atomically.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePasswordHash(ctx, user.ID, newHash); err != nil {
			return err
		}
		return tx.Users().ClearResetToken(ctx, user.ID)
	})
	if err != nil {
		log.Error("failed to reset password", slog.Any("error", err))
		return err
	}

	log.Info("password reset completed", slog.String("user_id", user.ID))
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
