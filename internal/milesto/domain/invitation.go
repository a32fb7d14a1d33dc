package domain

import "time"

// InvitationTTL is how long an invitation stays redeemable.
const InvitationTTL = 7 * 24 * time.Hour

// InvitationRole is the role an invited user will receive on joining.
// Deliberately narrower than MemberRole: invitations cannot grant "moderator".
type InvitationRole string

const (
	InvitationRoleLead   InvitationRole = "lead"
	InvitationRoleAdmin  InvitationRole = "admin"
	InvitationRoleMember InvitationRole = "member"
)

func ValidInvitationRole(r InvitationRole) bool {
	return r == InvitationRoleLead || r == InvitationRoleAdmin || r == InvitationRoleMember
}

// MemberRole converts the invitation role to the team-member role it grants.
func (r InvitationRole) MemberRole() MemberRole {
	return MemberRole(r)
}

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

// Invitation is one row of the invitation ledger. A row is consumed at most
// once: the pending→accepted transition happens through a guarded update,
// and accepted or declined rows are never reused.
type Invitation struct {
	ID        string
	Email     string // stored lowercased
	ProjectID string
	InvitedBy string
	Role      InvitationRole
	Status    InvitationStatus
	TokenHash string // SHA-256 fingerprint of the opaque token
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time

	// Denormalized for listings; populated on reads.
	ProjectTitle string
	InviterName  string
}

// Expired reports whether the invitation is past its expiry at the given
// time. The store's background purge is best effort only; every consumer
// must re-check with this before honoring a pending row.
func (i *Invitation) Expired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}
