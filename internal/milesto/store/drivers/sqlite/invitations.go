package sqlite

import (
	"context"
	"time"

	"github.com/abhi19833/milesto/internal/milesto/domain"
	"github.com/abhi19833/milesto/internal/milesto/store"
)

type invitationsRepo struct {
	db dbtx
}

const invitationColumns = `i.id, i.email, i.project_id, i.invited_by, i.role, i.status,
	i.token_hash, i.expires_at, i.created_at, i.updated_at, p.title, u.name`

const invitationJoins = `
	FROM invitations i
	JOIN projects p ON p.id = i.project_id
	JOIN users u ON u.id = i.invited_by`

func scanInvitation(row interface{ Scan(...any) error }) (domain.Invitation, error) {
	var inv domain.Invitation
	err := row.Scan(
		&inv.ID, &inv.Email, &inv.ProjectID, &inv.InvitedBy, &inv.Role, &inv.Status,
		&inv.TokenHash, &inv.ExpiresAt, &inv.CreatedAt, &inv.UpdatedAt,
		&inv.ProjectTitle, &inv.InviterName,
	)
	if err != nil {
		return domain.Invitation{}, err
	}
	return inv, nil
}

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invitations (id, email, project_id, invited_by, role, status, token_hash, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Email, inv.ProjectID, inv.InvitedBy, inv.Role, inv.Status,
		inv.TokenHash, inv.ExpiresAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *invitationsRepo) GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invitationColumns+invitationJoins+` WHERE i.id = ?`, id)
	inv, err := scanInvitation(row)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitationsRepo) GetPendingByTokenHash(
	ctx context.Context,
	tokenHash string,
) (domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invitationColumns+invitationJoins+`
		 WHERE i.token_hash = ? AND i.status = 'pending'`,
		tokenHash,
	)
	inv, err := scanInvitation(row)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitationsRepo) ListPendingByEmail(
	ctx context.Context,
	email string,
) ([]domain.Invitation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+invitationColumns+invitationJoins+`
		 WHERE i.email = ? AND i.status = 'pending'
		 ORDER BY i.created_at ASC`,
		email,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *invitationsRepo) ListPendingForProject(
	ctx context.Context,
	projectID string,
) ([]domain.Invitation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+invitationColumns+invitationJoins+`
		 WHERE i.project_id = ? AND i.status = 'pending'
		 ORDER BY i.created_at DESC`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *invitationsRepo) ListPendingByInviter(
	ctx context.Context,
	inviterID string,
) ([]domain.Invitation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+invitationColumns+invitationJoins+`
		 WHERE i.invited_by = ? AND i.status = 'pending'
		 ORDER BY i.created_at DESC`,
		inviterID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// AcceptInvitation is the single point where an invitation is consumed. The
// status predicate in the WHERE clause makes the pending→accepted flip a
// compare-and-swap: only one caller ever sees rows-affected == 1.
func (r *invitationsRepo) AcceptInvitation(ctx context.Context, id string, now time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE invitations
		 SET status = 'accepted', updated_at = ?
		 WHERE id = ? AND status = 'pending'`,
		now.UTC(), id,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *invitationsRepo) DeclineInvitation(ctx context.Context, id string, now time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE invitations
		 SET status = 'declined', updated_at = ?
		 WHERE id = ? AND status = 'pending'`,
		now.UTC(), id,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *invitationsRepo) DeleteInvitation(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM invitations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *invitationsRepo) DeleteExpiredInvitations(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM invitations WHERE status = 'pending' AND expires_at <= ?`,
		now.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
