package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/abhi19833/milesto/internal/milesto/domain"
	"github.com/abhi19833/milesto/internal/milesto/store"
	"github.com/abhi19833/milesto/pkg/idx"
	"github.com/abhi19833/milesto/pkg/slogx"
)

var (
	ErrInvalidDocument  = errors.New("invalid document request")
	ErrDocumentNotFound = errors.New("document not found")
)

// DocumentService owns uploaded files and their inline content. Blobs go to
// the Uploader; metadata and editable content live in the store.
type DocumentService struct {
	Store    store.Store
	Uploader Uploader
}

// UploadDocument stores the blob and records the document row.
func (s *DocumentService) UploadDocument(
	ctx context.Context,
	userID, projectID string,
	title, fileName string,
	contents io.Reader,
) (domain.Document, error) {
	log := slogx.FromContext(ctx)

	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return domain.Document{}, ErrInvalidDocument
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = fileName
	}

	project, err := s.Store.Projects().GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Document{}, ErrProjectNotFound
		}
		return domain.Document{}, err
	}
	if !project.CanAccess(userID) {
		return domain.Document{}, ErrNotAuthorized
	}

	// 1. Push the blob first; a failed upload leaves no orphan row.
	result, err := s.Uploader.Upload(ctx, fileName, contents)
	if err != nil {
		log.Error("failed to upload document blob", slog.Any("error", err))
		return domain.Document{}, err
	}

	ext := strings.TrimPrefix(strings.ToLower(path.Ext(fileName)), ".")
	doc := domain.Document{
		ID:         idx.New().String(),
		ProjectID:  projectID,
		Title:      title,
		FileName:   fileName,
		FileURL:    result.URL,
		FileSize:   result.Size,
		MimeType:   result.MimeType,
		Type:       domain.DocumentTypeForExtension(ext),
		Version:    1,
		UploadedBy: userID,
	}

	// 2. Record the row. If this fails we try to reclaim the blob; the
	// delete is best effort because the row is the source of truth.
	if err := s.Store.Documents().CreateDocument(ctx, doc); err != nil {
		log.Error("failed to create document row", slog.Any("error", err))
		if derr := s.Uploader.Delete(ctx, result.URL); derr != nil {
			log.Warn("failed to reclaim orphaned blob", slog.Any("error", derr))
		}
		return domain.Document{}, err
	}

	log.Info("document uploaded",
		slog.String("document_id", doc.ID),
		slog.String("project_id", projectID),
		slog.Int64("size", result.Size),
	)
	return s.Store.Documents().GetDocumentByID(ctx, doc.ID)
}

// CreateDocument records an inline document without a file blob.
func (s *DocumentService) CreateDocument(
	ctx context.Context,
	userID, projectID string,
	title, content string,
) (domain.Document, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Document{}, ErrInvalidDocument
	}
	if err := s.requireAccess(ctx, userID, projectID); err != nil {
		return domain.Document{}, err
	}

	doc := domain.Document{
		ID:         idx.New().String(),
		ProjectID:  projectID,
		Title:      title,
		FileName:   title,
		Type:       domain.DocumentOther,
		Content:    content,
		Version:    1,
		UploadedBy: userID,
	}
	if err := s.Store.Documents().CreateDocument(ctx, doc); err != nil {
		return domain.Document{}, err
	}
	return s.Store.Documents().GetDocumentByID(ctx, doc.ID)
}

func (s *DocumentService) GetDocument(ctx context.Context, userID, documentID string) (domain.Document, error) {
	doc, err := s.Store.Documents().GetDocumentByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Document{}, ErrDocumentNotFound
		}
		return domain.Document{}, err
	}
	if err := s.requireAccess(ctx, userID, doc.ProjectID); err != nil {
		return domain.Document{}, err
	}
	return doc, nil
}

func (s *DocumentService) ListProjectDocuments(
	ctx context.Context,
	userID, projectID string,
) ([]domain.Document, error) {
	if err := s.requireAccess(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return s.Store.Documents().ListDocumentsForProject(ctx, projectID)
}

// UpdateContent replaces the inline content and bumps the version.
func (s *DocumentService) UpdateContent(
	ctx context.Context,
	userID, documentID, content string,
) (domain.Document, error) {
	doc, err := s.Store.Documents().GetDocumentByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Document{}, ErrDocumentNotFound
		}
		return domain.Document{}, err
	}
	if err := s.requireAccess(ctx, userID, doc.ProjectID); err != nil {
		return domain.Document{}, err
	}

	if err := s.Store.Documents().UpdateDocumentContent(ctx, documentID, content); err != nil {
		return domain.Document{}, err
	}
	return s.Store.Documents().GetDocumentByID(ctx, documentID)
}

// DeleteDocument removes the row and reclaims the blob.
func (s *DocumentService) DeleteDocument(ctx context.Context, userID, documentID string) error {
	log := slogx.FromContext(ctx)

	doc, err := s.Store.Documents().GetDocumentByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrDocumentNotFound
		}
		return err
	}
	if err := s.requireAccess(ctx, userID, doc.ProjectID); err != nil {
		return err
	}

	if err := s.Store.Documents().DeleteDocument(ctx, documentID); err != nil {
		return err
	}

	if doc.FileURL != "" {
		if err := s.Uploader.Delete(ctx, doc.FileURL); err != nil {
			log.Warn("failed to delete document blob", slog.Any("error", err))
		}
	}

	log.Info("document deleted", slog.String("document_id", documentID))
	return nil
}

func (s *DocumentService) requireAccess(ctx context.Context, userID, projectID string) error {
	project, err := s.Store.Projects().GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	if !project.CanAccess(userID) {
		return ErrNotAuthorized
	}
	return nil
}
