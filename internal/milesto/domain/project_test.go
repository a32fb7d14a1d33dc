package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestProjectAccessControl(t *testing.T) {
	project := Project{
		CreatedBy: "creator",
		Members: []Member{
			{UserID: "creator", Role: MemberRoleLead},
			{UserID: "admin", Role: MemberRoleAdmin},
			{UserID: "mod", Role: MemberRoleModerator},
			{UserID: "member", Role: MemberRoleMember},
		},
	}

	t.Run("access is membership", func(t *testing.T) {
		require.True(t, project.CanAccess("creator"))
		require.True(t, project.CanAccess("member"))
		require.False(t, project.CanAccess("stranger"))
	})

	t.Run("management needs a managing role", func(t *testing.T) {
		require.True(t, project.CanManage("creator"))
		require.True(t, project.CanManage("admin"))
		require.False(t, project.CanManage("mod"))
		require.False(t, project.CanManage("member"))
		require.False(t, project.CanManage("stranger"))
	})
}

func TestInvitationRoleIsNarrowerThanMemberRole(t *testing.T) {
	require.True(t, ValidMemberRole(MemberRoleModerator))
	require.False(t, ValidInvitationRole(InvitationRole("moderator")))

	for _, r := range []InvitationRole{InvitationRoleLead, InvitationRoleAdmin, InvitationRoleMember} {
		require.True(t, ValidInvitationRole(r))
		require.True(t, ValidMemberRole(r.MemberRole()))
	}
}

func TestInvitationExpiry(t *testing.T) {
	now := time.Now()
	inv := Invitation{ExpiresAt: now}

	require.True(t, inv.Expired(now), "expiry instant counts as expired")
	require.True(t, inv.Expired(now.Add(time.Second)))
	require.False(t, inv.Expired(now.Add(-time.Second)))
}

func TestDocumentTypeForExtension(t *testing.T) {
	require.Equal(t, DocumentReport, DocumentTypeForExtension("pdf"))
	require.Equal(t, DocumentReport, DocumentTypeForExtension("docx"))
	require.Equal(t, DocumentOther, DocumentTypeForExtension("png"))
	require.Equal(t, DocumentOther, DocumentTypeForExtension(""))
}
