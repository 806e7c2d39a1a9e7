package notification

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"slotline/config"
	"slotline/models"
	"slotline/utils"
)

// EmailNotificationService sends booking mail over SMTP.
type EmailNotificationService struct {
	dialer *gomail.Dialer
	sender string
}

// NewEmailNotificationService builds the SMTP-backed service from AppConfig.
func NewEmailNotificationService() *EmailNotificationService {
	cfg := config.AppConfig
	return &EmailNotificationService{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		sender: cfg.MailSender,
	}
}

// SendConfirmation mails the booking confirmation.
func (s *EmailNotificationService) SendConfirmation(email string, details models.BookingDetails) error {
	body := fmt.Sprintf(`Your appointment has been confirmed!

Details:
Reference: %s
Provider: %s
Date: %s
Time: %s

Please arrive 10 minutes before your scheduled time.
To cancel or reschedule, please contact us.

Thank you for using our service!`,
		details.Reference, details.Provider, details.Date, details.Time)

	return s.send(email, "Appointment Confirmation", body)
}

// SendReminder mails a reminder ahead of the appointment.
func (s *EmailNotificationService) SendReminder(email string, details models.BookingDetails) error {
	body := fmt.Sprintf(`This is a reminder for your upcoming appointment:

Reference: %s
Provider: %s
Date: %s
Time: %s

Please arrive 10 minutes before your scheduled time.

Thank you for using our service!`,
		details.Reference, details.Provider, details.Date, details.Time)

	return s.send(email, "Appointment Reminder", body)
}

func (s *EmailNotificationService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.sender)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send %q to %s: %w", subject, to, err)
	}
	utils.GetLogger().Info("mail sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
