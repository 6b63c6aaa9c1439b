package services

import (
	"context"
	"testing"

	"github.com/sendgrid/sendgrid-go"
	"github.com/stretchr/testify/assert"
	twilio "github.com/twilio/twilio-go"

	"github.com/trying-dev/properties/backend/services/rental-service/internal/config"
	utils "github.com/trying-dev/properties/backend/shared/go-utils"
)

func mailConfig() *config.Config {
	return &config.Config{
		OrganizationName:         "Arriendos",
		AppUrl:                   "https://rental.example.test",
		SendgridAPIKey:           "SG.test",
		LDFlag_SendgridFromEmail: "no-reply@example.test",
	}
}

func TestNotificationService_Ready(t *testing.T) {
	cfg := mailConfig()
	assert.NoError(t, NewNotificationService(cfg, sendgrid.NewSendClient(cfg.SendgridAPIKey), nil).Ready())

	assert.ErrorIs(t, NewNotificationService(cfg, nil, nil).Ready(), utils.ErrConfiguration)

	missingFrom := mailConfig()
	missingFrom.LDFlag_SendgridFromEmail = ""
	err := NewNotificationService(missingFrom, sendgrid.NewSendClient("SG.test"), nil).Ready()
	assert.ErrorIs(t, err, utils.ErrConfiguration)
	assert.Contains(t, err.Error(), "sendgrid_from_email")
}

func TestNotificationService_SendWithoutTransportFails(t *testing.T) {
	n := NewNotificationService(mailConfig(), nil, nil)

	err := n.SendConfirmationEmail(context.Background(), "a@example.com", "https://x/confirm", "Luis")
	assert.ErrorIs(t, err, utils.ErrConfiguration)

	err = n.SendConfirmationSMS(context.Background(), "+573001112233", "https://x/confirm")
	assert.ErrorIs(t, err, utils.ErrConfiguration)
}

func TestNotificationService_SMSEnabled(t *testing.T) {
	cfg := mailConfig()
	tw := twilio.NewRestClientWithParams(twilio.ClientParams{Username: "AC123", Password: "secret"})

	assert.False(t, NewNotificationService(cfg, nil, tw).SMSEnabled())

	cfg.LDFlag_SendCoDebtorSMS = true
	cfg.TwilioAccountSID = "AC123"
	cfg.TwilioAuthToken = "secret"
	cfg.LDFlag_TwilioFromPhone = "+15005550006"
	assert.True(t, NewNotificationService(cfg, nil, tw).SMSEnabled())
	assert.False(t, NewNotificationService(cfg, nil, nil).SMSEnabled())
}

func TestConfirmURL(t *testing.T) {
	f := newFixture()
	p := f.seedProcess(t)
	assert.Equal(t,
		"https://rental.example.test/api/v1/rental/co-debtors/confirm?process_id="+p.ID.String()+"&token=abc",
		f.coDebtorSvc.ConfirmURL(p.ID, "abc"),
	)
}
