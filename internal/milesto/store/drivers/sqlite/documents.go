package sqlite

import (
	"context"

	"github.com/abhi19833/milesto/internal/milesto/domain"
	"github.com/abhi19833/milesto/internal/milesto/store"
)

type documentsRepo struct {
	db dbtx
}

const documentColumns = `id, project_id, title, file_name, file_url, file_size,
	mime_type, type, content, version, uploaded_by, created_at, updated_at`

func scanDocument(row interface{ Scan(...any) error }) (domain.Document, error) {
	var d domain.Document
	err := row.Scan(
		&d.ID, &d.ProjectID, &d.Title, &d.FileName, &d.FileURL, &d.FileSize,
		&d.MimeType, &d.Type, &d.Content, &d.Version, &d.UploadedBy,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return domain.Document{}, err
	}
	return d, nil
}

func (r *documentsRepo) GetDocumentByID(ctx context.Context, id string) (domain.Document, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = ?`, id)
	d, err := scanDocument(row)
	if err != nil {
		return domain.Document{}, mapNotFound(err)
	}
	return d, nil
}

func (r *documentsRepo) ListDocumentsForProject(
	ctx context.Context,
	projectID string,
) ([]domain.Document, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE project_id = ? ORDER BY created_at DESC`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *documentsRepo) CreateDocument(ctx context.Context, d domain.Document) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (id, project_id, title, file_name, file_url, file_size, mime_type, type, content, version, uploaded_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.ProjectID, d.Title, d.FileName, d.FileURL, d.FileSize,
		d.MimeType, d.Type, d.Content, d.Version, d.UploadedBy,
	)
	return mapConstraint(err)
}

func (r *documentsRepo) UpdateDocumentContent(ctx context.Context, id string, content string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE documents
		 SET content = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		content, id,
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

func (r *documentsRepo) DeleteDocument(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
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

func (r *documentsRepo) CountForUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents
		 WHERE project_id IN (
			SELECT p.id FROM projects p
			LEFT JOIN project_members pm ON pm.project_id = p.id
			WHERE p.created_by = ? OR pm.user_id = ?
		 )`,
		userID, userID,
	).Scan(&count)
	return count, err
}
