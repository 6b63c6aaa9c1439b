package config

import (
	"testing"

	"github.com/stretchr/testify/require"
	utils "github.com/trying-dev/properties/backend/shared/go-utils"
)

func TestMailReady(t *testing.T) {
	cfg := &Config{}
	err := cfg.MailReady()
	require.ErrorIs(t, err, utils.ErrConfiguration)
	require.Contains(t, err.Error(), "SENDGRID_API_KEY")
	require.Contains(t, err.Error(), "sendgrid_from_email")
	require.Contains(t, err.Error(), "APP_URL_FROM_ANYWHERE")

	cfg = &Config{SendgridAPIKey: "SG.key", LDFlag_SendgridFromEmail: "no-reply@example.com", AppUrl: "https://app.example.com"}
	require.NoError(t, cfg.MailReady())
}

func TestSMSReady(t *testing.T) {
	cfg := &Config{TwilioAccountSID: "AC1", TwilioAuthToken: "tok", LDFlag_TwilioFromPhone: "+15550001111"}
	require.False(t, cfg.SMSReady(), "flag off")

	cfg.LDFlag_SendCoDebtorSMS = true
	require.True(t, cfg.SMSReady())

	cfg.TwilioAuthToken = ""
	require.False(t, cfg.SMSReady())
}

func TestParseRSAPublicKey_Rejects(t *testing.T) {
	_, err := parseRSAPublicKey("")
	require.Error(t, err)
	_, err = parseRSAPublicKey("bm90LWEtcGVt") // "not-a-pem"
	require.Error(t, err)
}
