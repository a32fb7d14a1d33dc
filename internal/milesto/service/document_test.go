package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/abhi19833/milesto/internal/milesto/domain"
	"github.com/stretchr/testify/require"
)

// fakeUploader stores blobs in memory keyed by the fabricated URL.
type fakeUploader struct {
	blobs   map[string][]byte
	deleted []string
	fail    bool
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{blobs: map[string][]byte{}}
}

func (u *fakeUploader) Upload(_ context.Context, fileName string, contents io.Reader) (UploadResult, error) {
	if u.fail {
		return UploadResult{}, errors.New("upload rejected")
	}
	data, err := io.ReadAll(contents)
	if err != nil {
		return UploadResult{}, err
	}
	url := fmt.Sprintf("https://blobs.test/%s", fileName)
	u.blobs[url] = data
	return UploadResult{URL: url, Size: int64(len(data)), MimeType: "application/octet-stream"}, nil
}

func (u *fakeUploader) Delete(_ context.Context, fileURL string) error {
	delete(u.blobs, fileURL)
	u.deleted = append(u.deleted, fileURL)
	return nil
}

func TestUploadDocument(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	uploader := newFakeUploader()
	svc := &DocumentService{Store: st, Uploader: uploader}

	creator := seedUser(t, st, "Dana", "dana@example.com")
	outsider := seedUser(t, st, "Mallory", "mallory@example.com")
	project := seedProject(t, st, creator.ID, "Capstone")

	t.Run("only team members may upload", func(t *testing.T) {
		_, err := svc.UploadDocument(ctx, outsider.ID, project.ID, "", "notes.txt", strings.NewReader("hi"))
		require.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("classifies report extensions and falls back to the file name as title", func(t *testing.T) {
		doc, err := svc.UploadDocument(ctx, creator.ID, project.ID, "", "final.PDF", strings.NewReader("%PDF"))
		require.NoError(t, err)
		require.Equal(t, "final.PDF", doc.Title)
		require.Equal(t, domain.DocumentReport, doc.Type)
		require.Equal(t, int64(4), doc.FileSize)
		require.Equal(t, 1, doc.Version)
		require.Contains(t, uploader.blobs, doc.FileURL)
	})

	t.Run("upload failure leaves no row behind", func(t *testing.T) {
		uploader.fail = true
		defer func() { uploader.fail = false }()

		_, err := svc.UploadDocument(ctx, creator.ID, project.ID, "Doomed", "doomed.txt", strings.NewReader("x"))
		require.Error(t, err)

		docs, err := svc.ListProjectDocuments(ctx, creator.ID, project.ID)
		require.NoError(t, err)
		for _, d := range docs {
			require.NotEqual(t, "Doomed", d.Title)
		}
	})
}

func TestDocumentContentVersioning(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	uploader := newFakeUploader()
	svc := &DocumentService{Store: st, Uploader: uploader}

	creator := seedUser(t, st, "Dana", "dana@example.com")
	project := seedProject(t, st, creator.ID, "Capstone")

	doc, err := svc.CreateDocument(ctx, creator.ID, project.ID, "Meeting notes", "draft")
	require.NoError(t, err)
	require.Equal(t, 1, doc.Version)
	require.Equal(t, domain.DocumentOther, doc.Type)

	updated, err := svc.UpdateContent(ctx, creator.ID, doc.ID, "final")
	require.NoError(t, err)
	require.Equal(t, "final", updated.Content)
	require.Equal(t, 2, updated.Version)
}

func TestDeleteDocumentReclaimsBlob(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	uploader := newFakeUploader()
	svc := &DocumentService{Store: st, Uploader: uploader}

	creator := seedUser(t, st, "Dana", "dana@example.com")
	project := seedProject(t, st, creator.ID, "Capstone")

	doc, err := svc.UploadDocument(ctx, creator.ID, project.ID, "Report", "report.docx", strings.NewReader("data"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDocument(ctx, creator.ID, doc.ID))
	require.Contains(t, uploader.deleted, doc.FileURL)

	_, err = svc.GetDocument(ctx, creator.ID, doc.ID)
	require.ErrorIs(t, err, ErrDocumentNotFound)
}
