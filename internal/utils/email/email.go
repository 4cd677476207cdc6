package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/maheshkumarbalasubramanian/JewelchitBackend/internal/config"
	"github.com/maheshkumarbalasubramanian/JewelchitBackend/internal/models"
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

// SendReceiptNotification confirms a settled payment to the customer
func (s *Sender) SendReceiptNotification(to, name string, receipt *models.Receipt) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Payment Receipt %s", receipt.ReceiptNumber)

	body := fmt.Sprintf(
		"Dear %s,\n\n", name,
	)
	body += fmt.Sprintf(
		"We have received your payment against loan %s.\n"+
			"Receipt number: %s\n"+
			"Receipt date: %s\n"+
			"Interest paid: %s\n"+
			"Principal paid: %s\n"+
			"Interest settled up to: %s\n"+
			"Outstanding principal: %s\n",
		receipt.LoanNumber,
		receipt.ReceiptNumber,
		receipt.ReceiptDate.Format("2006-01-02"),
		receipt.InterestAmount.StringFixed(2),
		receipt.PrincipalAmount.StringFixed(2),
		receipt.TillDate.Format("2006-01-02"),
		receipt.OutstandingPrincipal.StringFixed(2),
	)
	body += "\nBest regards,\nJewelChit"
	e.Text = []byte(body)

	return s.send(e, to)
}

// SendMaturityReminder warns the customer that a pledge is approaching maturity
func (s *Sender) SendMaturityReminder(to, name, loanNumber string, maturityDate time.Time, loanAmount decimal.Decimal) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Gold Loan Maturity Reminder"

	body := fmt.Sprintf(
		"Dear %s,\n\n", name,
	)
	body += fmt.Sprintf(
		"Your gold loan %s of %s matures on %s.\n"+
			"Please settle the outstanding dues or renew the pledge before the maturity date\n"+
			"to avoid the pledged items being sent to auction.\n",
		loanNumber, loanAmount.StringFixed(2), maturityDate.Format("2006-01-02"),
	)
	body += "\nBest regards,\nJewelChit"
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
