package services

import (
	"context"
	"fmt"
	"html"
	"strings"

	"innovation-portal-api/models"
	"innovation-portal-api/repository"
)

// DecisionNotifier tells a submitter that their idea's review has closed.
type DecisionNotifier interface {
	NotifyDecision(ctx context.Context, idea models.Idea, outcome models.TerminalOutcome) error
}

// MailSender is satisfied by config.Mailer.
type MailSender interface {
	SendMail(to []string, subject, html string) error
}

// MailNotifier e-mails review decisions to the idea owner.
type MailNotifier struct {
	mailer MailSender
	users  repository.UserRepository
}

func NewMailNotifier(mailer MailSender, users repository.UserRepository) *MailNotifier {
	return &MailNotifier{mailer: mailer, users: users}
}

func (n *MailNotifier) NotifyDecision(ctx context.Context, idea models.Idea, outcome models.TerminalOutcome) error {
	owner, err := n.users.Get(ctx, idea.UserID)
	if err != nil {
		return fmt.Errorf("load idea owner %d: %w", idea.UserID, err)
	}
	if strings.TrimSpace(owner.Email) == "" {
		return nil
	}

	subject := fmt.Sprintf("Your idea \"%s\" has been %s", idea.Title, outcome)
	return n.mailer.SendMail([]string{owner.Email}, subject, buildDecisionEmailHTML(owner, idea, outcome))
}

func buildDecisionEmailHTML(owner *models.User, idea models.Idea, outcome models.TerminalOutcome) string {
	name := strings.TrimSpace(owner.DisplayName)
	if name == "" {
		name = owner.Email
	}
	var b strings.Builder
	b.WriteString(`<div style="font-family:Arial,sans-serif;font-size:14px;line-height:1.6">`)
	fmt.Fprintf(&b, "<p>Dear %s,</p>", html.EscapeString(name))
	fmt.Fprintf(&b, "<p>The review of your idea <strong>%s</strong> has finished. Outcome: <strong>%s</strong>.</p>",
		html.EscapeString(idea.Title), html.EscapeString(string(outcome)))
	b.WriteString("<p>You can now see the full review history in the portal.</p>")
	b.WriteString("</div>")
	return b.String()
}
