package smtp

import (
	"context"
	"crypto/tls"

	"github.com/go-gomail/gomail"
	"github.com/pkg/errors"

	"github.com/rubbishit/backend/pkg/email"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	// UseTLS upgrades the connection with STARTTLS; UseSSL dials implicit TLS.
	UseTLS   bool
	UseSSL   bool
	FromName string
	FromAddr string
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPSender struct {
	dialer   dialer
	fromName string
	fromAddr string
}

func NewSMTPSender(cfg Config) (*SMTPSender, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, errors.New("smtp host and port are required")
	}
	if !email.IsEmailValid(cfg.FromAddr) {
		return nil, errors.Errorf("invalid from email %q", cfg.FromAddr)
	}

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.UseSSL
	if cfg.UseTLS {
		d.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	}

	return &SMTPSender{dialer: d, fromName: cfg.FromName, fromAddr: cfg.FromAddr}, nil
}

func (s *SMTPSender) Send(ctx context.Context, input email.SendEmailInput) error {
	if err := input.Validate(); err != nil {
		return errors.Wrap(err, "invalid email input")
	}

	// gomail dials synchronously and cannot be interrupted once started.
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "send cancelled")
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", s.fromAddr, s.fromName)
	msg.SetHeader("To", input.To)
	msg.SetHeader("Subject", input.Subject)
	msg.SetBody("text/html", input.Body)

	if err := s.dialer.DialAndSend(msg); err != nil {
		return errors.Wrapf(err, "send email to %s", input.To)
	}

	return nil
}
