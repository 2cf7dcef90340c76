package email

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/jordan-wright/email"
	"github.com/meihub/finance-service/internal/config"
	"github.com/meihub/finance-service/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
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

// SendAlertDigest sends the day's alert list to the business owner.
func (s *Sender) SendAlertDigest(to string, alerts []models.Alert) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Resumo financeiro — %s", time.Now().Format("02/01/2006"))

	var body strings.Builder
	body.WriteString("Olá,\n\nEstes são os avisos de hoje:\n\n")
	for _, a := range alerts {
		body.WriteString(fmt.Sprintf("[%s] %s\n%s\n\n", strings.ToUpper(a.Severity), a.Title, a.Message))
	}
	body.WriteString("Atenciosamente,\nMEI Hub")
	e.Text = []byte(body.String())

	return s.send(e, to)
}

// SendOverdueReminder sends a reminder for a single overdue entry.
func (s *Sender) SendOverdueReminder(to, description string, due time.Time, amount decimal.Decimal) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Lançamento vencido"

	body := fmt.Sprintf(
		"Olá,\n\nO lançamento %q de R$ %s venceu em %s e segue em aberto.\n"+
			"Regularize assim que possível para evitar encargos.\n\n"+
			"Atenciosamente,\nMEI Hub",
		description, amount.StringFixed(2), due.Format("02/01/2006"),
	)
	e.Text = []byte(body)

	return s.send(e, to)
}

func (s *Sender) send(e *email.Email, to string) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
