package app

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/abhi19833/milesto/internal/milesto/domain"
	"github.com/abhi19833/milesto/internal/milesto/service"
)

// Optional integrations degrade rather than block startup: without SendGrid the
// app logs where email would have gone, without Gemini the dashboard serves
// heuristic insights, without Cloudinary uploads are rejected.

type logMailer struct {
	logger *slog.Logger
}

func (m *logMailer) SendInvitation(_ context.Context, inv domain.Invitation, recipientExists bool, actionURL string) error {
	m.logger.Warn("email disabled, invitation not sent",
		"email", inv.Email,
		"project_id", inv.ProjectID,
		"recipient_exists", recipientExists,
		"action_url", actionURL,
	)
	return nil
}

func (m *logMailer) SendPasswordReset(_ context.Context, to, _ string, resetURL string) error {
	m.logger.Warn("email disabled, password reset not sent", "email", to, "reset_url", resetURL)
	return nil
}

type disabledGenerator struct{}

func (disabledGenerator) GenerateInsights(context.Context, domain.DashboardStats, []domain.Project) ([]domain.Insight, error) {
	return nil, errors.New("ai insights are not configured")
}

type disabledUploader struct{}

func (disabledUploader) Upload(context.Context, string, io.Reader) (service.UploadResult, error) {
	return service.UploadResult{}, errors.New("document uploads are not configured")
}

func (disabledUploader) Delete(context.Context, string) error {
	return nil
}
