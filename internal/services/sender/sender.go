// Package sender отправляет письма по сообщениям из очередей уведомлений:
// коды подтверждения регистрации и извещения об активации подписки.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	smtplib "github.com/magabrotheeeer/diaspora-dating/internal/lib/smtp"
	"github.com/magabrotheeeer/diaspora-dating/internal/lib/sl"
	"github.com/magabrotheeeer/diaspora-dating/internal/models"
)

// Transport устанавливает соединение с SMTP сервером.
type Transport interface {
	Connect() (smtplib.Client, error)
	GetSMTPUser() string
}

// Service потребляет сообщения очередей и рассылает письма.
type Service struct {
	transport Transport
	log       *slog.Logger
}

// New создает сервис отправки писем.
func New(transport Transport, log *slog.Logger) *Service {
	return &Service{
		transport: transport,
		log:       log,
	}
}

// SendOTP отправляет код подтверждения регистрации.
func (s *Service) SendOTP(body []byte) error {
	var notice models.OTPNotice
	if err := json.Unmarshal(body, &notice); err != nil {
		s.log.Error("failed to unmarshal otp notice", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	subject := "Код подтверждения регистрации"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nВаш код подтверждения: %s.\nКод действителен до %s.",
		notice.Username, notice.Code, notice.ExpiresAt.Format(time.RFC1123))

	return s.sendEmail([]string{notice.Email}, subject, bodyText)
}

// SendActivation отправляет извещение об активации подписки.
func (s *Service) SendActivation(body []byte) error {
	var notice models.ActivationNotice
	if err := json.Unmarshal(body, &notice); err != nil {
		s.log.Error("failed to unmarshal activation notice", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	subject := "Подписка активирована"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nОплата %d %s получена, тариф %q активирован.\nПодписка действует до %s.",
		notice.Username, notice.Amount, notice.Currency, notice.Plan,
		notice.NewExpiry.Format(time.RFC1123))

	return s.sendEmail([]string{notice.Email}, subject, bodyText)
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", sl.Err(err))
		return err
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent", slog.Any("to", to))
	return nil
}
