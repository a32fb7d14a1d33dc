package service

import (
	"context"
	"io"

	"github.com/abhi19833/milesto/internal/milesto/domain"
)

// Mailer sends transactional email. The sendgrid implementation lives in
// internal/milesto/mail; tests substitute a fake.
type Mailer interface {
	// SendInvitation delivers a project invitation. For new users the
	// actionURL is a signup link carrying the raw invite token; existing
	// users were added directly and get a login link.
	SendInvitation(ctx context.Context, inv domain.Invitation, recipientExists bool, actionURL string) error

	// SendPasswordReset delivers a reset link carrying the raw reset token.
	SendPasswordReset(ctx context.Context, to string, name string, resetURL string) error
}

// InsightGenerator produces dashboard insights from workspace stats. The
// gemini implementation lives in internal/milesto/ai.
type InsightGenerator interface {
	GenerateInsights(ctx context.Context, stats domain.DashboardStats, projects []domain.Project) ([]domain.Insight, error)
}

// UploadResult describes a stored blob.
type UploadResult struct {
	URL      string
	Size     int64
	MimeType string
}

// Uploader stores file blobs. The cloudinary implementation lives in
// internal/milesto/uploads.
type Uploader interface {
	Upload(ctx context.Context, fileName string, contents io.Reader) (UploadResult, error)
	Delete(ctx context.Context, fileURL string) error
}
