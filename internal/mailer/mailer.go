package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

var ErrIncompleteConfig = errors.New("SMTP host, port, and sender email must be configured")

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	SenderEmail string
	// Encryption is "ssl", "tls"/"starttls" or "none".
	Encryption string
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer sends HTML mail through gomail.
type SMTPMailer struct {
	from   string
	d      sender
	logger *logger.Logger
}

func NewSMTPMailer(cfg SMTPConfig, log *logger.Logger) (*SMTPMailer, error) {
	if cfg.Host == "" || cfg.Port == 0 || cfg.SenderEmail == "" {
		return nil, ErrIncompleteConfig
	}

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	switch strings.ToLower(cfg.Encryption) {
	case "ssl":
		dialer.SSL = true
		dialer.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	case "tls", "starttls":
		dialer.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	}

	return &SMTPMailer{from: cfg.SenderEmail, d: dialer, logger: log.Named("SMTPMailer")}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if strings.TrimSpace(to) == "" {
		return errors.New("no recipient provided for email")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := m.d.DialAndSend(msg); err != nil {
		m.logger.Error("Failed to send email", zap.Error(err), zap.String("subject", subject))
		return fmt.Errorf("failed to send email: %w", err)
	}
	m.logger.Info("Email sent successfully", zap.String("subject", subject))
	return nil
}

// LogMailer stands in when SMTP is not configured. It drops every mail.
type LogMailer struct {
	logger *logger.Logger
}

func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{logger: log.Named("LogMailer")}
}

func (m *LogMailer) Send(_ context.Context, to, subject, _ string) error {
	m.logger.Warn("SMTP is not configured, email dropped", zap.String("to", to), zap.String("subject", subject))
	return nil
}
