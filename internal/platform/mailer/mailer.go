// Copyright (c) 2026 Skill2Win. All rights reserved.
// Author: platform@skill2win.dev

/*
Package mailer delivers transactional email over SMTP.

Delivery is best-effort: the auth flows dispatch sends on background
goroutines and log failures without surfacing them to the client, so a
broken mail relay never blocks registration or password reset.
*/
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Sender is the delivery contract the auth services depend on.
type Sender interface {
	SendVerificationCode(ctx context.Context, recipient, code string) error
	SendResetCode(ctx context.Context, recipient, code string) error
}

// SMTP sends mail through a single relay using PLAIN auth.
type SMTP struct {
	host     string
	port     int
	username string
	password string
	sender   string
	log      *slog.Logger
}

// NewSMTP creates an SMTP mailer.
//
// An empty host is allowed: it produces a mailer that fails every send with a
// configuration error, which the callers log and swallow. Local development
// runs fine without a relay.
func NewSMTP(host string, port int, username, password, sender string, log *slog.Logger) *SMTP {
	return &SMTP{
		host:     host,
		port:     port,
		username: username,
		password: password,
		sender:   sender,
		log:      log,
	}
}

// SendVerificationCode emails a registration confirmation code.
func (m *SMTP) SendVerificationCode(ctx context.Context, recipient, code string) error {
	subject := "Your Skill2Win verification code"
	body := fmt.Sprintf("Your verification code is: %s\r\n\r\nIt expires in 15 minutes.", code)
	return m.send(ctx, recipient, subject, body)
}

// SendResetCode emails a password reset code.
func (m *SMTP) SendResetCode(ctx context.Context, recipient, code string) error {
	subject := "Your Skill2Win password reset code"
	body := fmt.Sprintf("Your password reset code is: %s\r\n\r\nIt expires in 15 minutes.", code)
	return m.send(ctx, recipient, subject, body)
}

// send assembles the RFC 5322 message and hands it to the relay.
func (m *SMTP) send(ctx context.Context, recipient, subject, body string) error {
	if m.host == "" {
		return fmt.Errorf("mailer: smtp not configured")
	}

	message := strings.Join([]string{
		"From: " + m.sender,
		"To: " + recipient,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	address := fmt.Sprintf("%s:%d", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(address, auth, m.sender, []string{recipient}, []byte(message)); err != nil {
		return fmt.Errorf("mailer: failed to send to %s: %w", recipient, err)
	}

	m.log.InfoContext(ctx, "email sent",
		slog.String("recipient", recipient),
		slog.String("subject", subject),
	)
	return nil
}
