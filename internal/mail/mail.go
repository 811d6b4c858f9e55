package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"

	"storefront/internal/domain"
	"storefront/internal/observability/metrics"
	"storefront/internal/observability/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	TemplateVerifyEmail   = "verify-email"
	TemplateResetPassword = "reset-password"
)

var subjects = map[string]string{
	TemplateVerifyEmail:   "Verify your account",
	TemplateResetPassword: "Reset Password",
}

// Message is a rendered mail ready for a Sender.
type Message struct {
	From     string
	To       string
	Subject  string
	HTMLBody string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Notifier renders the account templates and hands them to a Sender.
type Notifier struct {
	sender    Sender
	from      string
	templates *template.Template
}

func NewNotifier(sender Sender, from string) (*Notifier, error) {
	tpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}
	return &Notifier{sender: sender, from: from, templates: tpl}, nil
}

func (n *Notifier) SendVerification(ctx context.Context, to string, link string) error {
	return n.send(ctx, to, TemplateVerifyEmail, map[string]any{"Link": link})
}

func (n *Notifier) SendPasswordReset(ctx context.Context, to string, link string) error {
	return n.send(ctx, to, TemplateResetPassword, map[string]any{"Link": link})
}

func (n *Notifier) send(ctx context.Context, to, name string, data any) error {
	result := "success"
	defer func() {
		metrics.MailsSentTotal.WithLabelValues(name, result).Inc()
	}()

	var body bytes.Buffer
	if err := n.templates.ExecuteTemplate(&body, name+".html", data); err != nil {
		result = "failure"
		return fmt.Errorf("%w: render %s: %v", domain.ErrMailDispatchFailed, name, err)
	}
	msg := Message{From: n.from, To: to, Subject: subjects[name], HTMLBody: body.String()}
	if err := n.sender.Send(ctx, msg); err != nil {
		result = "failure"
		slog.Error("mail dispatch failed",
			"template", name,
			"error", err,
			"request_id", middleware.RequestIDFromContext(ctx),
			"trace_id", middleware.TraceIDFromContext(ctx),
		)
		return fmt.Errorf("%w: %v", domain.ErrMailDispatchFailed, err)
	}
	return nil
}
