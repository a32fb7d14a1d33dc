package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/abhi19833/milesto/internal/milesto/domain"
	"github.com/abhi19833/milesto/internal/milesto/store"
	"github.com/abhi19833/milesto/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedFixtures(t *testing.T, st *Store) (domain.User, domain.Project) {
	t.Helper()
	ctx := context.Background()

	user := domain.User{
		ID:           idx.New().String(),
		Name:         "Dana",
		Email:        "dana@example.com",
		PasswordHash: "hash",
		Role:         domain.AccountRoleStudent,
		IsActive:     true,
	}
	require.NoError(t, st.Users().CreateUser(ctx, user))

	project := domain.Project{
		ID:        idx.New().String(),
		Title:     "Capstone",
		Type:      domain.ProjectTypeOther,
		Status:    domain.ProjectActive,
		CreatedBy: user.ID,
		Members:   []domain.Member{{UserID: user.ID, Role: domain.MemberRoleLead}},
	}
	require.NoError(t, st.Projects().CreateProject(ctx, project))
	return user, project
}

func pendingInvitation(t *testing.T, st *Store, projectID, inviterID string) domain.Invitation {
	t.Helper()

	inv := domain.Invitation{
		ID:        idx.New().String(),
		Email:     "bob@example.com",
		ProjectID: projectID,
		InvitedBy: inviterID,
		Role:      domain.InvitationRoleMember,
		Status:    domain.InvitationPending,
		TokenHash: "fingerprint-" + idx.New().String(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, st.Invitations().CreateInvitation(context.Background(), inv))
	return inv
}

// The pending-to-accepted flip is a guarded update: exactly one caller wins,
// every later attempt reports that the row was already consumed.
func TestAcceptInvitationIsSingleUse(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	user, project := seedFixtures(t, st)
	inv := pendingInvitation(t, st, project.ID, user.ID)

	won, err := st.Invitations().AcceptInvitation(ctx, inv.ID, time.Now())
	require.NoError(t, err)
	require.True(t, won)

	won, err = st.Invitations().AcceptInvitation(ctx, inv.ID, time.Now())
	require.NoError(t, err)
	require.False(t, won)

	// Declining a consumed row loses the same way.
	won, err = st.Invitations().DeclineInvitation(ctx, inv.ID, time.Now())
	require.NoError(t, err)
	require.False(t, won)

	got, err := st.Invitations().GetInvitationByID(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationAccepted, got.Status)
}

func TestTokenHashIsUnique(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	user, project := seedFixtures(t, st)
	inv := pendingInvitation(t, st, project.ID, user.ID)

	dup := inv
	dup.ID = idx.New().String()
	err := st.Invitations().CreateInvitation(ctx, dup)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestGetPendingByTokenHashSkipsConsumedRows(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	user, project := seedFixtures(t, st)
	inv := pendingInvitation(t, st, project.ID, user.ID)

	got, err := st.Invitations().GetPendingByTokenHash(ctx, inv.TokenHash)
	require.NoError(t, err)
	require.Equal(t, inv.ID, got.ID)

	_, err = st.Invitations().AcceptInvitation(ctx, inv.ID, time.Now())
	require.NoError(t, err)

	_, err = st.Invitations().GetPendingByTokenHash(ctx, inv.TokenHash)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteExpiredInvitationsLeavesConsumedHistory(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	user, project := seedFixtures(t, st)

	// One consumed row in the past, one expired pending row, one live row.
	consumed := pendingInvitation(t, st, project.ID, user.ID)
	_, err := st.Invitations().AcceptInvitation(ctx, consumed.ID, time.Now())
	require.NoError(t, err)

	expired := domain.Invitation{
		ID:        idx.New().String(),
		Email:     "late@example.com",
		ProjectID: project.ID,
		InvitedBy: user.ID,
		Role:      domain.InvitationRoleMember,
		Status:    domain.InvitationPending,
		TokenHash: "fingerprint-expired",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, st.Invitations().CreateInvitation(ctx, expired))

	live := pendingInvitation(t, st, project.ID, user.ID)

	n, err := st.Invitations().DeleteExpiredInvitations(ctx, time.Now())
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	_, err = st.Invitations().GetInvitationByID(ctx, expired.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	// Consumed rows are history, not garbage; live rows are untouched.
	_, err = st.Invitations().GetInvitationByID(ctx, consumed.ID)
	require.NoError(t, err)
	_, err = st.Invitations().GetInvitationByID(ctx, live.ID)
	require.NoError(t, err)
}

// Status flip and member insert either commit together or not at all.
func TestWithTxRollsBackPartialConsumption(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	user, project := seedFixtures(t, st)
	inv := pendingInvitation(t, st, project.ID, user.ID)

	err := st.WithTx(ctx, func(tx store.Tx) error {
		won, err := tx.Invitations().AcceptInvitation(ctx, inv.ID, time.Now())
		require.NoError(t, err)
		require.True(t, won)

		// Inserting the creator again violates the membership primary key.
		return tx.Projects().AddMember(ctx, project.ID, domain.Member{
			UserID: user.ID, Role: domain.MemberRoleMember,
		})
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	// The flip rolled back with the failed insert.
	got, err := st.Invitations().GetInvitationByID(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationPending, got.Status)
}
