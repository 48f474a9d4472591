package mail

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

// Sender delivers second-factor codes through an external channel.
type Sender interface {
	SendMfaCode(toEmail, code string) error
}

// SMTPMailer sends codes over SMTP.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	if from == "" {
		from = fmt.Sprintf("YouChat Security <%s>", username)
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

var _ Sender = (*SMTPMailer)(nil)

func (m *SMTPMailer) SendMfaCode(toEmail, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "Your YouChat login verification code")
	msg.SetBody("text/plain", fmt.Sprintf(
		"[YouChat] Your login verification code is: %s (valid for 5 minutes).\n\nIf you did not request this, you can safely ignore this email.", code))
	msg.AddAlternative("text/html", fmt.Sprintf(
		`<p>[YouChat] Your login verification code is:</p><p style="font-size:24px;font-weight:700;letter-spacing:0.3em">%s</p><p>The code is valid for 5 minutes. If you did not request this, you can safely ignore this email.</p>`, code))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("mail: send mfa code: %w", err)
	}
	return nil
}
