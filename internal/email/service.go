// Package email sends appointment notifications to patients over SMTP.
package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/medrec/records-api/internal/model"
)

type Service interface {
	SendPostponementRequested(ctx context.Context, to, patientName string, apt *model.Appointment) error
	SendPostponementResolved(ctx context.Context, to, patientName string, apt *model.Appointment, accepted bool) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewService(cfg Config) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendPostponementRequested(ctx context.Context, to, patientName string, apt *model.Appointment) error {
	if apt.Postponement == nil {
		return fmt.Errorf("appointment %s has no postponement proposal", apt.ID)
	}

	body := fmt.Sprintf(
		"Dear %s,\n\nYour doctor has requested to postpone your appointment to %s.\nReason: %s\n\nPlease accept or reject the new time.",
		patientName,
		apt.Postponement.NewDateTime.Format("Mon, 2 Jan 2006 15:04"),
		apt.Postponement.Reason,
	)
	return s.send(to, "Appointment postponement requested", body)
}

func (s *smtpService) SendPostponementResolved(ctx context.Context, to, patientName string, apt *model.Appointment, accepted bool) error {
	outcome := "kept at its original time"
	if accepted {
		outcome = "moved to " + apt.DateTime.Format("Mon, 2 Jan 2006 15:04")
	}
	body := fmt.Sprintf("Dear %s,\n\nYour appointment %s has been %s.", patientName, apt.ID, outcome)
	return s.send(to, "Appointment updated", body)
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}

// noopService is used when SMTP is not configured.
type noopService struct{}

func NewNoopService() Service {
	return &noopService{}
}

func (s *noopService) SendPostponementRequested(ctx context.Context, to, patientName string, apt *model.Appointment) error {
	return nil
}

func (s *noopService) SendPostponementResolved(ctx context.Context, to, patientName string, apt *model.Appointment, accepted bool) error {
	return nil
}
