package mailer

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// Mailer delivers a single email. Implementations are used from the
// task worker only, never from a request handler.
type Mailer interface {
	Send(subject, body, from string, to []string) error
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	addr string
}

func NewSMTPMailer(addr string) *SMTPMailer {
	return &SMTPMailer{addr: addr}
}

func (m *SMTPMailer) Send(subject, body, from string, to []string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		from, strings.Join(to, ", "), subject, body)
	return smtp.SendMail(m.addr, nil, from, to, []byte(msg))
}

// LogMailer writes mail to the log instead of delivering it, used by
// the in-memory dev server and tests.
type LogMailer struct{}

func (LogMailer) Send(subject, body, from string, to []string) error {
	log.Printf("mailer: would send %q to %v", subject, to)
	return nil
}
