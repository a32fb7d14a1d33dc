package sqlite

import (
	"context"
	"database/sql"

	"github.com/abhi19833/milesto/internal/milesto/domain"
	"github.com/abhi19833/milesto/internal/milesto/store"
)

type projectsRepo struct {
	db dbtx
}

const projectColumns = `p.id, p.title, p.description, p.type, p.status, p.progress,
	p.deadline, p.created_by, p.created_at, p.updated_at,
	(SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id),
	(SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id AND t.status = 'completed'),
	(SELECT COUNT(*) FROM documents d WHERE d.project_id = p.id)`

func scanProject(row interface{ Scan(...any) error }) (domain.Project, error) {
	var (
		p        domain.Project
		deadline sql.NullTime
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Type, &p.Status, &p.Progress,
		&deadline, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
		&p.TaskCount, &p.CompletedTasks, &p.DocumentCount,
	)
	if err != nil {
		return domain.Project{}, err
	}
	p.Deadline = mapNullTimePtr(deadline)
	return p, nil
}

func (r *projectsRepo) GetProjectByID(ctx context.Context, id string) (domain.Project, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects p WHERE p.id = ?`, id)
	p, err := scanProject(row)
	if err != nil {
		return domain.Project{}, mapNotFound(err)
	}

	members, err := r.membersFor(ctx, p.ID)
	if err != nil {
		return domain.Project{}, err
	}
	p.Members = members
	return p, nil
}

func (r *projectsRepo) ListProjectsForUser(
	ctx context.Context,
	userID string,
) ([]domain.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT `+projectColumns+`
		 FROM projects p
		 LEFT JOIN project_members pm ON pm.project_id = p.id
		 WHERE p.created_by = ? OR pm.user_id = ?
		 ORDER BY p.created_at DESC`,
		userID, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		members, err := r.membersFor(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Members = members
	}
	return out, nil
}

func (r *projectsRepo) membersFor(ctx context.Context, projectID string) ([]domain.Member, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT pm.user_id, pm.role, pm.joined_at, u.name, u.email
		 FROM project_members pm
		 JOIN users u ON u.id = pm.user_id
		 WHERE pm.project_id = ?
		 ORDER BY pm.joined_at ASC`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.UserID, &m.Role, &m.JoinedAt, &m.Name, &m.Email); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *projectsRepo) CreateProject(ctx context.Context, p domain.Project) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (id, title, description, type, status, progress, deadline, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Description, p.Type, p.Status, p.Progress,
		mapOptionalTime(p.Deadline), p.CreatedBy,
	)
	if err != nil {
		return mapConstraint(err)
	}

	for _, m := range p.Members {
		if err := r.AddMember(ctx, p.ID, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *projectsRepo) UpdateProject(ctx context.Context, p domain.Project) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE projects
		 SET title = ?, description = ?, type = ?, status = ?, progress = ?,
		     deadline = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		p.Title, p.Description, p.Type, p.Status, p.Progress,
		mapOptionalTime(p.Deadline), p.ID,
	)
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

func (r *projectsRepo) DeleteProject(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
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

func (r *projectsRepo) AddMember(ctx context.Context, projectID string, m domain.Member) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO project_members (project_id, user_id, role) VALUES (?, ?, ?)`,
		projectID, m.UserID, m.Role,
	)
	return mapConstraint(err)
}

func (r *projectsRepo) RemoveMember(ctx context.Context, projectID, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM project_members WHERE project_id = ? AND user_id = ?`,
		projectID, userID,
	)
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

func (r *projectsRepo) UpdateMemberRole(
	ctx context.Context,
	projectID, userID string,
	role domain.MemberRole,
) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE project_members SET role = ? WHERE project_id = ? AND user_id = ?`,
		role, projectID, userID,
	)
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

func (r *projectsRepo) IsMember(ctx context.Context, projectID, userID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM project_members WHERE project_id = ? AND user_id = ?`,
		projectID, userID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
