package services

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/cagcankoc/ChatCore/app/config"

	"gopkg.in/gomail.v2"
)

type EmailService struct {
	from   string
	dialer *gomail.Dialer
	logger *slog.Logger
}

func NewEmailService(cfg config.EmailConfig, logger *slog.Logger) *EmailService {
	port, _ := strconv.Atoi(cfg.SMTPPort)
	dialer := gomail.NewDialer(cfg.SMTPHost, port, cfg.Username, cfg.Password)

	return &EmailService{
		logger: logger,
		dialer: dialer,
		from:   cfg.From,
	}
}

func (e *EmailService) SendVerificationEmail(email, token string) error {
	verificationLink := fmt.Sprintf("http://localhost:8080/api/auth/verify-email?token=%s", token)

	message := gomail.NewMessage()
	message.SetHeader("From", e.from)
	message.SetHeader("To", email)
	message.SetHeader("Subject", "Verify Your Email Address")

	htmlBody := fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<body>
			<h2>Email Verification</h2>
			<p>Hello,</p>
			<p>Please verify your email address by clicking the link below:</p>
			<p><a href="%s">Verify Email</a></p>
			<p>Or copy and paste this link in your browser:</p>
			<p>%s</p>
			<p>If you didn't create an account, please ignore this email.</p>
		</body>
		</html>
	`, verificationLink, verificationLink)

	message.SetBody("text/html", htmlBody)

	textBody := fmt.Sprintf(`
		Verify Your Email Address

		Please verify your email address by visiting the following link:
		%s

		If you didn't create an account, please ignore this email.
	`, verificationLink)

	message.AddAlternative("text/plain", textBody)

	if err := e.dialer.DialAndSend(message); err != nil {
		e.logger.Error("failed to send verification email", "error", err, "email", email)
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	e.logger.Info("verification email sent", "email", email)
	return nil
}
