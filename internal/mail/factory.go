package mail

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fomongole/User-Management-Api/internal/config"
)

// NewSender picks the transport named by cfg.Driver.
func NewSender(cfg config.MailConfig, log logrus.FieldLogger) (Sender, error) {
	switch cfg.Driver {
	case "", "log":
		return NewLogSender(log.WithField("component", "mail")), nil
	case "smtp":
		s, err := NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.FromEmail, cfg.FromName, cfg.SMTPUseTLS)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "resend":
		s, err := NewResendSender(cfg.ResendAPIKey, cfg.FromEmail, cfg.FromName)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported mail driver %q", cfg.Driver)
	}
}
