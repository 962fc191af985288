package mailer

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestSend_LogOnlyMode(t *testing.T) {
	m := New(Config{}, zap.NewNop())
	err := m.Send(Email{To: "user@example.com", Subject: "Hello", TextBody: "hi"})
	if err != nil {
		t.Errorf("expected log-only send to succeed, got %v", err)
	}
}

func TestSend_EmptyRecipient(t *testing.T) {
	m := New(Config{}, zap.NewNop())
	if err := m.Send(Email{Subject: "no recipient"}); err == nil {
		t.Error("expected error for empty recipient")
	}
}

func TestBuildMessage_MultipartAlternative(t *testing.T) {
	m := New(Config{From: "noreply@alumhub.org", FromName: "AlumHub"}, zap.NewNop())
	msg := string(m.buildMessage(Email{
		To:       "member@example.com",
		Subject:  "Reset your password",
		TextBody: "plain body",
		HTMLBody: "<p>html body</p>",
	}))

	for _, want := range []string{
		"From: AlumHub <noreply@alumhub.org>",
		"To: member@example.com",
		"multipart/alternative",
		"text/plain; charset=utf-8",
		"text/html; charset=utf-8",
		"plain body",
		"<p>html body</p>",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}
}

func TestBuildResetEmail(t *testing.T) {
	email := BuildResetEmail(ResetEmailData{
		SiteName:  "AlumHub",
		Name:      "Rahim Uddin",
		ResetLink: "https://alumhub.org/reset-password?token=abc",
		ExpiresIn: "30 minutes",
	})

	if !strings.Contains(email.Subject, "AlumHub") {
		t.Errorf("subject missing site name: %q", email.Subject)
	}
	if !strings.Contains(email.TextBody, "https://alumhub.org/reset-password?token=abc") {
		t.Error("text body missing reset link")
	}
	if !strings.Contains(email.HTMLBody, "Rahim Uddin") {
		t.Error("html body missing recipient name")
	}
	if !strings.Contains(email.TextBody, "30 minutes") {
		t.Error("text body missing expiry")
	}
}
