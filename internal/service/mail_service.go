package service

import (
	"context"
	"doe_backend/internal/config"
	"doe_backend/internal/util"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer 发信接口，失败统一包装为 ErrUpstream
type Mailer interface {
	Send(ctx context.Context, subject, body, from string, to []string) error
}

type SMTPMailer struct {
	Cfg    *config.MailConfig
	dialer *gomail.Dialer
}

func NewSMTPMailer(cfg *config.MailConfig) *SMTPMailer {
	return &SMTPMailer{
		Cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (m *SMTPMailer) Send(ctx context.Context, subject, body, from string, to []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.Cfg.Host == "" {
		return fmt.Errorf("%w: smtp host not configured", util.ErrMailDelivery)
	}
	if from == "" {
		from = m.Cfg.From
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("%w: %v", util.ErrMailDelivery, err)
	}
	return nil
}
