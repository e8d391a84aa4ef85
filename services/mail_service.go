package services

import (
	"fmt"
	"log"

	"github.com/marwah-tailors/marwah-tailors-api/config"
	"github.com/marwah-tailors/marwah-tailors-api/models"
	"github.com/resend/resend-go/v3"
)

// MailService sends transactional email to customers.
type MailService interface {
	// SendStatusUpdate notifies a customer that their order moved to status.
	SendStatusUpdate(toEmail, toName, orderToken string, status models.OrderStatus) error
}

var mailServiceInstance MailService

// InitMailService initializes the mail service. Without a Resend API key the
// service degrades to a no-op so development and test environments never try
// to send real mail.
func InitMailService(cfg *config.Config) MailService {
	if cfg.ResendAPIKey == "" {
		log.Println("RESEND_API_KEY not set, status emails disabled")
		mailServiceInstance = &NoopMailService{}
		return mailServiceInstance
	}

	mailServiceInstance = &ResendMailService{
		client: resend.NewClient(cfg.ResendAPIKey),
		from:   cfg.EmailFrom,
	}
	return mailServiceInstance
}

// GetMailService returns the initialized mail service instance
func GetMailService() MailService {
	return mailServiceInstance
}

// SetMailService sets the mail service instance (primarily for testing)
func SetMailService(service MailService) {
	mailServiceInstance = service
}

// ResendMailService implements MailService using the Resend API
type ResendMailService struct {
	client *resend.Client
	from   string
}

// SendStatusUpdate sends the order status notification email
func (s *ResendMailService) SendStatusUpdate(toEmail, toName, orderToken string, status models.OrderStatus) error {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your order <strong>%s</strong> is now <strong>%s</strong>.</p>
		<p>You can follow its progress any time at https://marwahtailors.com/track/%s</p>
		<p>&mdash; Marwah Tailors</p>`,
		toName, orderToken, status, orderToken)

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: fmt.Sprintf("Order %s: %s", orderToken, status),
		Html:    body,
	}

	if _, err := s.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send status email: %w", err)
	}

	return nil
}

// NoopMailService discards all mail. Used when no API key is configured.
type NoopMailService struct{}

// SendStatusUpdate does nothing
func (s *NoopMailService) SendStatusUpdate(toEmail, toName, orderToken string, status models.OrderStatus) error {
	return nil
}
