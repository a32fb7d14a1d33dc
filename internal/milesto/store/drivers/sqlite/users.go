package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/abhi19833/milesto/internal/milesto/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, name, email, password_hash, university, role, is_active,
	last_login, reset_token_hash, reset_token_expires, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var (
		u            domain.User
		lastLogin    sql.NullTime
		resetHash    sql.NullString
		resetExpires sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.University, &u.Role,
		&u.IsActive, &lastLogin, &resetHash, &resetExpires,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	u.LastLogin = mapNullTimePtr(lastLogin)
	u.ResetTokenHash = mapNullStringPtr(resetHash)
	u.ResetTokenExpires = mapNullTimePtr(resetExpires)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, university, role, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.University, u.Role, u.IsActive,
	)
	return mapConstraint(err)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		newHash, userID,
	)
	return err
}

func (r *usersRepo) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login = ? WHERE id = ?`, at.UTC(), userID)
	return err
}

func (r *usersRepo) SetResetToken(
	ctx context.Context,
	userID string,
	tokenHash string,
	expires time.Time,
) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET reset_token_hash = ?, reset_token_expires = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		tokenHash, expires.UTC(), userID,
	)
	return err
}

func (r *usersRepo) GetUserByResetTokenHash(
	ctx context.Context,
	tokenHash string,
	now time.Time,
) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE reset_token_hash = ? AND reset_token_expires > ?`,
		tokenHash, now.UTC(),
	)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) ClearResetToken(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET reset_token_hash = NULL, reset_token_expires = NULL, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`, userID)
	return err
}

func (r *usersRepo) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET reset_token_hash = NULL, reset_token_expires = NULL
		 WHERE reset_token_hash IS NOT NULL AND reset_token_expires <= ?`, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
