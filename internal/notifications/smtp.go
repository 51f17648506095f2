package notifications

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Sender delivers a welcome mail to a single recipient.
type Sender interface {
	SendWelcome(ctx context.Context, email, username string) error
}

// SMTPSender sends welcome mail through a plain SMTP relay.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPSender creates an SMTPSender.
func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// SendWelcome sends the welcome mail to the given address.
func (s *SMTPSender) SendWelcome(ctx context.Context, email, username string) error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + email,
		"Subject: Welcome",
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		fmt.Sprintf("Hi %s,\r\n\r\nWelcome aboard! Your account is ready to use.\r\n", username),
	}, "\r\n")

	return smtp.SendMail(addr, auth, s.from, []string{email}, []byte(msg))
}
