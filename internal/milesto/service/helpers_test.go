package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhi19833/milesto/internal/milesto/domain"
	"github.com/abhi19833/milesto/internal/milesto/store/drivers/sqlite"
	"github.com/abhi19833/milesto/pkg/cryptox"
	"github.com/abhi19833/milesto/pkg/idx"
	"github.com/abhi19833/milesto/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

/*
 * Shared fixtures for service tests: an in-memory store, a throwaway pepper,
 * a capturing mailer, and seed helpers for users, projects and invitations.
 */

const testPassword = "correct-horse"

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "milesto-service-test-*")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()

	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newTestSigner(t *testing.T) *jwtx.HS256 {
	t.Helper()

	signer, err := jwtx.NewHS256("test-signing-secret", "milesto")
	require.NoError(t, err)
	return signer
}

// fakeMailer records outgoing mail instead of sending it.
type fakeMailer struct {
	invitations []sentInvitation
	resets      []sentReset
}

type sentInvitation struct {
	inv             domain.Invitation
	recipientExists bool
	actionURL       string
}

type sentReset struct {
	to       string
	name     string
	resetURL string
}

func (m *fakeMailer) SendInvitation(_ context.Context, inv domain.Invitation, recipientExists bool, actionURL string) error {
	m.invitations = append(m.invitations, sentInvitation{inv, recipientExists, actionURL})
	return nil
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, to, name, resetURL string) error {
	m.resets = append(m.resets, sentReset{to, name, resetURL})
	return nil
}

func seedUser(t *testing.T, st *sqlite.Store, name, email string) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword(testPassword)
	require.NoError(t, err)

	user := domain.User{
		ID:           idx.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.AccountRoleStudent,
		IsActive:     true,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), user))
	return user
}

func seedProject(t *testing.T, st *sqlite.Store, creatorID, title string) domain.Project {
	t.Helper()

	project := domain.Project{
		ID:        idx.New().String(),
		Title:     title,
		Type:      domain.ProjectTypeOther,
		Status:    domain.ProjectActive,
		CreatedBy: creatorID,
		Members: []domain.Member{
			{UserID: creatorID, Role: domain.MemberRoleLead},
		},
	}
	require.NoError(t, st.Projects().CreateProject(context.Background(), project))
	return project
}

// seedInvitation writes a pending ledger row directly and returns it together
// with the raw token it would have been mailed with.
func seedInvitation(
	t *testing.T,
	st *sqlite.Store,
	projectID, inviterID, email string,
	expiresAt time.Time,
) (domain.Invitation, string) {
	t.Helper()

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	require.NoError(t, err)

	inv := domain.Invitation{
		ID:        idx.New().String(),
		Email:     email,
		ProjectID: projectID,
		InvitedBy: inviterID,
		Role:      domain.InvitationRoleMember,
		Status:    domain.InvitationPending,
		TokenHash: cryptox.FingerprintToken(token),
		ExpiresAt: expiresAt,
	}
	require.NoError(t, st.Invitations().CreateInvitation(context.Background(), inv))
	return inv, token
}
