package mail

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/gomail.v2"

	"reqgen/internal/domain/services"
)

// sender delivers composed messages. *gomail.Dialer implements it.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPConfig holds the SMTP relay settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender delivers email through an SMTP relay
type SMTPSender struct {
	from   string
	dialer sender
	logger *slog.Logger
}

// NewSMTPSender creates a sender. Host and From are required.
func NewSMTPSender(cfg SMTPConfig, logger *slog.Logger) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("SMTP from address is required")
	}

	return &SMTPSender{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		logger: logger,
	}, nil
}

// Send composes msg as multipart/alternative with attachments and delivers it
func (s *SMTPSender) Send(ctx context.Context, msg *services.EmailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := compose(s.from, msg)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	s.logger.Debug("email sent", "to", msg.To, "attachments", len(msg.Attachments))
	return nil
}

func compose(from string, msg *services.EmailMessage) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)

	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}

	for _, a := range msg.Attachments {
		data := a.Data
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
		}
		if a.ContentType != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{
				"Content-Type": {a.ContentType},
			}))
		}
		m.Attach(a.Filename, settings...)
	}

	return m
}
