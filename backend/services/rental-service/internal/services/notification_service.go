package services

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	twilio "github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/trying-dev/properties/backend/services/rental-service/internal/config"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/metrics"
	utils "github.com/trying-dev/properties/backend/shared/go-utils"
)

// Notification kinds, used as metric labels.
const (
	NotifyCoDebtorEmail = "codebtor_email"
	NotifyCoDebtorSMS   = "codebtor_sms"
	NotifyRegistration  = "registration_email"
	NotifyContinue      = "continue_email"
)

// Notifier delivers the emails and SMS this service triggers. A failure
// wraps utils.ErrExternalServiceFailure; Ready wraps utils.ErrConfiguration.
type Notifier interface {
	Ready() error
	SMSEnabled() bool
	SendConfirmationEmail(ctx context.Context, to, confirmURL, recipientName string) error
	SendRegistrationEmail(ctx context.Context, to, recipientName, registrationToken string) error
	SendContinueEmail(ctx context.Context, to, recipientName string) error
	SendConfirmationSMS(ctx context.Context, to, confirmURL string) error
}

type notificationService struct {
	cfg            *config.Config
	sendgridClient *sendgrid.Client
	twilioClient   *twilio.RestClient
}

// NewNotificationService wires SendGrid and, when configured, Twilio.
func NewNotificationService(cfg *config.Config, sg *sendgrid.Client, tw *twilio.RestClient) Notifier {
	return &notificationService{cfg: cfg, sendgridClient: sg, twilioClient: tw}
}

func (s *notificationService) Ready() error {
	if s.sendgridClient == nil {
		return fmt.Errorf("%w: sendgrid client not configured", utils.ErrConfiguration)
	}
	return s.cfg.MailReady()
}

func (s *notificationService) SMSEnabled() bool {
	return s.twilioClient != nil && s.cfg.SMSReady()
}

func (s *notificationService) SendConfirmationEmail(ctx context.Context, to, confirmURL, recipientName string) error {
	subject := s.cfg.OrganizationName + " - Confirm you are a co-debtor"
	plain := fmt.Sprintf("Hello %s, confirm you agree to act as co-debtor: %s (expires in 24 hours)", recipientName, confirmURL)
	body := fmt.Sprintf(coDebtorConfirmationBody, html.EscapeString(recipientName), html.EscapeString(confirmURL))

	err := s.send(ctx, recipientName, to, subject, plain, "Co-debtor confirmation", body)
	metrics.ObserveNotification(NotifyCoDebtorEmail, err)
	return err
}

func (s *notificationService) SendRegistrationEmail(ctx context.Context, to, recipientName, registrationToken string) error {
	link := s.cfg.AppUrl + "/register?" + url.Values{"token": {registrationToken}}.Encode()
	subject := s.cfg.OrganizationName + " - Complete your registration"
	plain := fmt.Sprintf("Hello %s, your contract has been initiated. Complete your registration at %s", recipientName, link)
	body := fmt.Sprintf(registrationBody, html.EscapeString(recipientName), html.EscapeString(registrationToken), html.EscapeString(link))

	err := s.send(ctx, recipientName, to, subject, plain, "Complete your registration", body)
	metrics.ObserveNotification(NotifyRegistration, err)
	return err
}

func (s *notificationService) SendContinueEmail(ctx context.Context, to, recipientName string) error {
	link := s.cfg.AppUrl + "/login"
	subject := s.cfg.OrganizationName + " - Continue your application"
	plain := fmt.Sprintf("Hello %s, your contract has been initiated. Sign in at %s to continue.", recipientName, link)
	body := fmt.Sprintf(continueBody, html.EscapeString(recipientName), html.EscapeString(link))

	err := s.send(ctx, recipientName, to, subject, plain, "Continue your application", body)
	metrics.ObserveNotification(NotifyContinue, err)
	return err
}

func (s *notificationService) SendConfirmationSMS(_ context.Context, to, confirmURL string) error {
	if !s.SMSEnabled() {
		return fmt.Errorf("%w: sms transport not configured", utils.ErrConfiguration)
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.cfg.LDFlag_TwilioFromPhone)
	params.SetBody(fmt.Sprintf("%s: confirm you are a co-debtor (24h): %s", s.cfg.OrganizationName, confirmURL))

	_, twErr := s.twilioClient.Api.CreateMessage(params)
	metrics.ObserveNotification(NotifyCoDebtorSMS, twErr)
	if twErr != nil {
		utils.Logger.WithError(twErr).Error("Failed to send co-debtor SMS via Twilio")
		return fmt.Errorf("%w: failed to send sms via twilio: %v", utils.ErrExternalServiceFailure, twErr)
	}
	return nil
}

func (s *notificationService) send(ctx context.Context, toName, toAddr, subject, plain, heading, body string) error {
	if err := s.Ready(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	from := mail.NewEmail(s.cfg.OrganizationName, s.cfg.LDFlag_SendgridFromEmail)
	to := mail.NewEmail(toName, toAddr)
	htmlContent := fmt.Sprintf(emailLayoutHTML, heading, body, time.Now().Year(), s.cfg.OrganizationName)
	message := mail.NewSingleEmail(from, subject, to, plain, htmlContent)

	if s.cfg.LDFlag_SendgridSandboxMode {
		ms := mail.NewMailSettings()
		ms.SetSandboxMode(mail.NewSetting(true))
		message.MailSettings = ms
	}

	resp, sendErr := s.sendgridClient.Send(message)
	if sendErr != nil {
		utils.Logger.WithError(sendErr).Error("Failed to send email via SendGrid")
		return fmt.Errorf("%w: failed to send email via sendgrid: %v", utils.ErrExternalServiceFailure, sendErr)
	}
	if resp != nil && resp.StatusCode >= 300 {
		utils.Logger.WithField("status", resp.StatusCode).Error("SendGrid rejected email")
		return fmt.Errorf("%w: sendgrid status %d", utils.ErrExternalServiceFailure, resp.StatusCode)
	}
	return nil
}
