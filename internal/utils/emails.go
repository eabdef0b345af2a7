package utils

import (
	"gopkg.in/gomail.v2"

	"github.com/nabin00012/codecommons/internal/config"
)

// SendEmail sends an HTML email using the SMTP settings from config.
func SendEmail(cfg config.Config, to string, subject string, body string) error {
	mailer := gomail.NewMessage()
	mailer.SetHeader("From", cfg.SMTPUsername)
	mailer.SetHeader("To", to)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)

	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	return dialer.DialAndSend(mailer)
}
