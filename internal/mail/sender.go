package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrNoRecipient is returned when a message has no destination address.
var ErrNoRecipient = errors.New("mail: recipient is required")

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers outbound mail.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// VerificationSubject is the subject line of the registration email.
const VerificationSubject = "Email Verification"

// VerificationURL builds the link a new user follows to verify their address.
func VerificationURL(baseURL, token string) string {
	return fmt.Sprintf("%s/api/auth/verifyemail/%s", strings.TrimRight(baseURL, "/"), token)
}

// NewVerificationMessage builds the registration email for to.
func NewVerificationMessage(to, verificationURL string) Message {
	body := "You are receiving this email because you (or someone else) has requested the registration of an account.\n\n" +
		"Please click on the following link, or paste this into your browser to complete the process:\n\n" +
		verificationURL
	return Message{To: to, Subject: VerificationSubject, Body: body}
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	log logrus.FieldLogger
}

// NewLogSender returns a Sender that only logs.
func NewLogSender(log logrus.FieldLogger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return ErrNoRecipient
	}
	s.log.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info(msg.Body)
	return nil
}
