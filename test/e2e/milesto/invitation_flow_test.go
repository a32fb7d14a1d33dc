package milesto_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/abhi19833/milesto/pkg/milestosdk"
	"github.com/stretchr/testify/require"
)

// TestInviteThenSignupFlow follows the signup-link journey: the lead invites
// an email with no account, the invitee registers carrying the token, and the
// membership appears without any further action.
func TestInviteThenSignupFlow(t *testing.T) {
	ctx := context.Background()
	srv, mailer := startServer(t)

	lead, _ := registerUser(t, srv.URL, "Dana", "dana@example.com")
	project, err := lead.CreateProject(ctx, milestosdk.ProjectRequest{Title: "Capstone", Status: "active"})
	require.NoError(t, err)

	res, err := lead.InviteMember(ctx, project.ID, milestosdk.InviteRequest{Email: "bob@example.com"})
	require.NoError(t, err)
	require.Equal(t, "new_user", res.Type)
	require.NotNil(t, res.Invitation)
	require.Equal(t, "pending", res.Invitation.Status)

	// Pull the raw token out of the mailed signup link.
	sent := mailer.lastInvitation(t)
	_, token, found := strings.Cut(sent.actionURL, "invite=")
	require.True(t, found)

	bob := milestosdk.NewClient(srv.URL)
	auth, err := bob.Register(ctx, milestosdk.RegisterRequest{
		Name:        "Bob",
		Email:       "bob@example.com",
		Password:    testPassword,
		InviteToken: token,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"Capstone"}, auth.JoinedProjects)

	// Bob sees the project; the pending list is empty for both sides.
	got, err := bob.GetProject(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, got.Members, 2)

	pending, err := lead.ListProjectInvitations(ctx, project.ID)
	require.NoError(t, err)
	require.Empty(t, pending)
}

// TestInviteExistingUserJoinsDirectly covers the short-circuit: inviting an
// email that already has an account adds them to the team on the spot, with
// no invitation to accept.
func TestInviteExistingUserJoinsDirectly(t *testing.T) {
	ctx := context.Background()
	srv, _ := startServer(t)

	lead, _ := registerUser(t, srv.URL, "Dana", "dana@example.com")
	carol, _ := registerUser(t, srv.URL, "Carol", "carol@example.com")

	project, err := lead.CreateProject(ctx, milestosdk.ProjectRequest{Title: "Capstone"})
	require.NoError(t, err)

	res, err := lead.InviteMember(ctx, project.ID, milestosdk.InviteRequest{Email: "carol@example.com", Role: "admin"})
	require.NoError(t, err)
	require.Equal(t, "existing_user", res.Type)
	require.NotNil(t, res.Member)
	require.Equal(t, "admin", res.Member.Role)

	// Carol is on the team already and has nothing to accept.
	got, err := carol.GetProject(ctx, project.ID)
	require.NoError(t, err)
	member := memberByEmail(got, "carol@example.com")
	require.NotNil(t, member)
	require.Equal(t, "admin", member.Role)

	mine, err := carol.MyInvitations(ctx)
	require.NoError(t, err)
	require.Empty(t, mine)

	// Inviting a member again conflicts.
	_, err = lead.InviteMember(ctx, project.ID, milestosdk.InviteRequest{Email: "carol@example.com"})
	requireStatus(t, err, http.StatusConflict)
}

// TestAcceptRemainingInvitationInApp exercises the in-app accept: a signup
// that consumed one token leaves invitations from other projects pending, and
// those are accepted by id after login.
func TestAcceptRemainingInvitationInApp(t *testing.T) {
	ctx := context.Background()
	srv, mailer := startServer(t)

	lead, _ := registerUser(t, srv.URL, "Dana", "dana@example.com")

	alpha, err := lead.CreateProject(ctx, milestosdk.ProjectRequest{Title: "Alpha"})
	require.NoError(t, err)
	beta, err := lead.CreateProject(ctx, milestosdk.ProjectRequest{Title: "Beta"})
	require.NoError(t, err)

	_, err = lead.InviteMember(ctx, alpha.ID, milestosdk.InviteRequest{Email: "bob@example.com"})
	require.NoError(t, err)
	sent := mailer.lastInvitation(t)
	_, alphaToken, found := strings.Cut(sent.actionURL, "invite=")
	require.True(t, found)

	_, err = lead.InviteMember(ctx, beta.ID, milestosdk.InviteRequest{Email: "bob@example.com", Role: "admin"})
	require.NoError(t, err)

	bob := milestosdk.NewClient(srv.URL)
	auth, err := bob.Register(ctx, milestosdk.RegisterRequest{
		Name:        "Bob",
		Email:       "bob@example.com",
		Password:    testPassword,
		InviteToken: alphaToken,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"Alpha"}, auth.JoinedProjects)

	// The Beta invitation survived the tokenized signup.
	mine, err := bob.MyInvitations(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "Beta", mine[0].ProjectTitle)

	accepted, err := bob.AcceptInvitation(ctx, mine[0].ID)
	require.NoError(t, err)
	require.Equal(t, "accepted", accepted.Status)

	got, err := bob.GetProject(ctx, beta.ID)
	require.NoError(t, err)
	member := memberByEmail(got, "bob@example.com")
	require.NotNil(t, member)
	require.Equal(t, "admin", member.Role)

	// A consumed invitation cannot be redeemed twice.
	_, err = bob.AcceptInvitation(ctx, mine[0].ID)
	requireStatus(t, err, http.StatusConflict)
}

// TestInvitationBelongsToItsEmail checks that knowing an invitation id is not
// enough: only the addressed account may accept or decline it.
func TestInvitationBelongsToItsEmail(t *testing.T) {
	ctx := context.Background()
	srv, _ := startServer(t)

	lead, _ := registerUser(t, srv.URL, "Dana", "dana@example.com")
	mallory, _ := registerUser(t, srv.URL, "Mallory", "mallory@example.com")

	project, err := lead.CreateProject(ctx, milestosdk.ProjectRequest{Title: "Capstone"})
	require.NoError(t, err)

	res, err := lead.InviteMember(ctx, project.ID, milestosdk.InviteRequest{Email: "carol@example.com"})
	require.NoError(t, err)
	require.NotNil(t, res.Invitation)

	_, err = mallory.AcceptInvitation(ctx, res.Invitation.ID)
	requireStatus(t, err, http.StatusForbidden)

	err = mallory.DeclineInvitation(ctx, res.Invitation.ID)
	requireStatus(t, err, http.StatusForbidden)
}

// TestCancelInvitation covers the inviter-side retraction path.
func TestCancelInvitation(t *testing.T) {
	ctx := context.Background()
	srv, _ := startServer(t)

	lead, _ := registerUser(t, srv.URL, "Dana", "dana@example.com")

	project, err := lead.CreateProject(ctx, milestosdk.ProjectRequest{Title: "Capstone"})
	require.NoError(t, err)

	res, err := lead.InviteMember(ctx, project.ID, milestosdk.InviteRequest{Email: "carol@example.com"})
	require.NoError(t, err)
	require.NotNil(t, res.Invitation)

	require.NoError(t, lead.CancelInvitation(ctx, res.Invitation.ID))

	pending, err := lead.ListProjectInvitations(ctx, project.ID)
	require.NoError(t, err)
	require.Empty(t, pending)

	// A cancelled token no longer joins anything at signup.
	carol := milestosdk.NewClient(srv.URL)
	auth, err := carol.Register(ctx, milestosdk.RegisterRequest{
		Name:     "Carol",
		Email:    "carol@example.com",
		Password: testPassword,
	})
	require.NoError(t, err)
	require.Empty(t, auth.JoinedProjects)
}

func memberByEmail(p milestosdk.Project, email string) *milestosdk.Member {
	for i := range p.Members {
		if p.Members[i].Email == email {
			return &p.Members[i]
		}
	}
	return nil
}

func requireStatus(t *testing.T, err error, want int) {
	t.Helper()
	var apiErr *milestosdk.APIError
	require.True(t, errors.As(err, &apiErr), "expected *milestosdk.APIError, got %v", err)
	require.Equal(t, want, apiErr.StatusCode)
}
