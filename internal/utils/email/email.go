package email

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"mindlog/internal/config"
	"mindlog/internal/models"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendWelcome sends a short welcome email after registration
func (s *Sender) SendWelcome(to, username string) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Welcome to mindlog"

	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Your journal is ready. Write or record an entry whenever you like;\n"+
			"everything you submit is stored encrypted and only you can read it.\n"+
			"\nBest regards,\nmindlog", username,
	)
	e.Text = []byte(body)

	return s.send(e)
}

// SendWeeklyDigest sends the weekly reflection email with the user's most
// frequent emotion and entry count for the past week.
func (s *Sender) SendWeeklyDigest(to, username, emotion string, entryCount int) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Your week in emotions"

	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"You wrote %d journal entries this week. The emotion that came up most\n"+
			"often was: %s.\n\n"+
			"%s\n"+
			"\nBest regards,\nmindlog",
		username, entryCount, emotion, models.Insight(emotion),
	)
	e.Text = []byte(body)

	return s.send(e)
}

func (s *Sender) send(e *email.Email) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %v: %v", e.To, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %v: %s", e.To, e.Subject)
	return nil
}
