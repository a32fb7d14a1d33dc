package service

import (
	"context"
	"testing"

	"github.com/abhi19833/milesto/internal/milesto/domain"
	"github.com/stretchr/testify/require"
)

func TestListTeamRollsUpSharedProjects(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &TeamService{Store: st}

	dana := seedUser(t, st, "Dana", "dana@example.com")
	bob := seedUser(t, st, "Bob", "bob@example.com")
	alice := seedUser(t, st, "Alice", "alice@example.com")

	alpha := seedProject(t, st, dana.ID, "Alpha")
	beta := seedProject(t, st, dana.ID, "Beta")

	require.NoError(t, st.Projects().AddMember(ctx, alpha.ID, domain.Member{UserID: bob.ID, Role: domain.MemberRoleMember}))
	require.NoError(t, st.Projects().AddMember(ctx, beta.ID, domain.Member{UserID: bob.ID, Role: domain.MemberRoleAdmin}))
	require.NoError(t, st.Projects().AddMember(ctx, beta.ID, domain.Member{UserID: alice.ID, Role: domain.MemberRoleMember}))

	team, err := svc.ListTeam(ctx, dana.ID)
	require.NoError(t, err)
	require.Len(t, team, 2)

	// Sorted by name, and the viewer never appears in their own rollup.
	require.Equal(t, "Alice", team[0].Name)
	require.Equal(t, "Bob", team[1].Name)
	require.Len(t, team[0].Memberships, 1)
	require.Len(t, team[1].Memberships, 2)
}

func TestRemoveTeammateSkipsOwnedProjects(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &TeamService{Store: st}

	dana := seedUser(t, st, "Dana", "dana@example.com")
	bob := seedUser(t, st, "Bob", "bob@example.com")

	shared := seedProject(t, st, dana.ID, "Shared")
	require.NoError(t, st.Projects().AddMember(ctx, shared.ID, domain.Member{UserID: bob.ID, Role: domain.MemberRoleMember}))

	// Bob owns this one; Dana is just a member and cannot evict the creator.
	bobs := seedProject(t, st, bob.ID, "Bobs Own")
	require.NoError(t, st.Projects().AddMember(ctx, bobs.ID, domain.Member{UserID: dana.ID, Role: domain.MemberRoleAdmin}))

	removed, err := svc.RemoveTeammate(ctx, dana.ID, bob.ID)
	require.NoError(t, err)
	require.Equal(t, []string{shared.ID}, removed)

	p, err := st.Projects().GetProjectByID(ctx, bobs.ID)
	require.NoError(t, err)
	require.True(t, p.CanAccess(bob.ID))
}

func TestUpdateTeammateRoleAcrossProjects(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &TeamService{Store: st}

	dana := seedUser(t, st, "Dana", "dana@example.com")
	bob := seedUser(t, st, "Bob", "bob@example.com")

	alpha := seedProject(t, st, dana.ID, "Alpha")
	beta := seedProject(t, st, dana.ID, "Beta")
	require.NoError(t, st.Projects().AddMember(ctx, alpha.ID, domain.Member{UserID: bob.ID, Role: domain.MemberRoleMember}))
	require.NoError(t, st.Projects().AddMember(ctx, beta.ID, domain.Member{UserID: bob.ID, Role: domain.MemberRoleMember}))

	// Bob owns this one; his role there is not Dana's to change.
	bobs := seedProject(t, st, bob.ID, "Bobs Own")
	require.NoError(t, st.Projects().AddMember(ctx, bobs.ID, domain.Member{UserID: dana.ID, Role: domain.MemberRoleAdmin}))

	_, err := svc.UpdateTeammateRole(ctx, dana.ID, bob.ID, "owner")
	require.ErrorIs(t, err, ErrInvalidProject)

	updated, err := svc.UpdateTeammateRole(ctx, dana.ID, bob.ID, domain.MemberRoleAdmin)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{alpha.ID, beta.ID}, updated)

	for _, id := range []string{alpha.ID, beta.ID} {
		p, err := st.Projects().GetProjectByID(ctx, id)
		require.NoError(t, err)
		m, ok := p.MemberByUser(bob.ID)
		require.True(t, ok)
		require.Equal(t, domain.MemberRoleAdmin, m.Role)
	}

	p, err := st.Projects().GetProjectByID(ctx, bobs.ID)
	require.NoError(t, err)
	m, ok := p.MemberByUser(bob.ID)
	require.True(t, ok)
	require.Equal(t, domain.MemberRoleLead, m.Role)
}
