// Package mail delivers transactional email through SendGrid.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/abhi19833/milesto/internal/milesto/domain"
	"github.com/abhi19833/milesto/pkg/slogx"
)

type SendGridMailer struct {
	client   *sendgrid.Client
	from     *sgmail.Email
	fromAddr string
}

func NewSendGridMailer(apiKey, fromAddr string) *SendGridMailer {
	return &SendGridMailer{
		client:   sendgrid.NewSendClient(apiKey),
		from:     sgmail.NewEmail("Milesto", fromAddr),
		fromAddr: fromAddr,
	}
}

func (m *SendGridMailer) SendInvitation(
	ctx context.Context,
	inv domain.Invitation,
	recipientExists bool,
	actionURL string,
) error {
	subject := fmt.Sprintf("%s invited you to %q", inv.InviterName, inv.ProjectTitle)

	heading := "You are invited to a project"
	detail := fmt.Sprintf("%s invited you to collaborate. This invitation expires in 7 days.", inv.InviterName)
	action := "Sign up to accept"
	if recipientExists {
		heading = "You have been added to a project"
		detail = fmt.Sprintf("%s added you to the team. Log in to get started.", inv.InviterName)
		action = "Open Milesto"
	}

	html := fmt.Sprintf(`
		<h2>%s</h2>
		<p><strong>Project:</strong> %s</p>
		<p><strong>Role:</strong> %s</p>
		<p>%s</p>
		<a href="%s" style="display:inline-block;padding:12px 20px;background:#2563eb;color:#fff;text-decoration:none;border-radius:6px;font-weight:600;">%s</a>
		<p style="font-size:12px;margin-top:10px;">
			If the button does not work, copy and paste this link:<br/>%s
		</p>`,
		heading, inv.ProjectTitle, inv.Role, detail, actionURL, action, actionURL,
	)
	plain := fmt.Sprintf("%s invited you to %q as %s. Continue here: %s",
		inv.InviterName, inv.ProjectTitle, inv.Role, actionURL)

	return m.send(ctx, inv.Email, subject, plain, html)
}

func (m *SendGridMailer) SendPasswordReset(ctx context.Context, to, name, resetURL string) error {
	html := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>You requested a password reset.</p>
		<a href="%s">Reset Password</a>
		<p>This link expires in 15 minutes. If you didn't ask for this, ignore this email.</p>`,
		name, resetURL,
	)
	plain := fmt.Sprintf("Reset your password: %s (link expires in 15 minutes)", resetURL)

	return m.send(ctx, to, "Reset your password", plain, html)
}

func (m *SendGridMailer) send(ctx context.Context, to, subject, plain, html string) error {
	log := slogx.FromContext(ctx)

	message := sgmail.NewSingleEmail(m.from, subject, sgmail.NewEmail("", to), plain, html)
	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("mail: sendgrid send failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("mail: sendgrid returned status %d", resp.StatusCode)
	}

	log.Debug("email sent", slog.Int("status", resp.StatusCode))
	return nil
}
