package config

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"
	utils "github.com/trying-dev/properties/backend/shared/go-utils"
)

type Config struct {
	OrganizationName string
	AppName          string
	AppPort          string
	AppUrl           string
	Env              string
	DBUrl            string
	UniqueRunNumber  string
	UniqueRunnerID   string
	RSAPublicKey     *rsa.PublicKey

	// Mail / SMS transport. Missing values are not fatal at startup:
	// operations that need them fail with a configuration error instead.
	SendgridAPIKey   string
	TwilioAccountSID string
	TwilioAuthToken  string

	// Feature-flag snapshots
	LDFlag_SendgridFromEmail      string
	LDFlag_SendgridSandboxMode    bool
	LDFlag_TwilioFromPhone        string
	LDFlag_SendCoDebtorSMS        bool
	LDFlag_StrictReferenceLinking bool
	LDFlag_ValidateEmailWithSG    bool
	LDFlag_UsingIsolatedSchema    bool
	LDFlag_CORSHighSecurity       bool
}

const (
	OrganizationName    = utils.OrganizationName
	LDConnectionTimeout = 5 * time.Second
)

// build-time overrides, set with -ldflags (same scheme as other services)
var (
	AppName             string
	UniqueRunNumber     string
	UniqueRunnerID      string
	LDServerContextKey  string
	LDServerContextKind string
)

// MailReady reports whether confirmation and onboarding emails can be sent.
func (c *Config) MailReady() error {
	var missing []string
	if c.SendgridAPIKey == "" {
		missing = append(missing, "SENDGRID_API_KEY")
	}
	if c.LDFlag_SendgridFromEmail == "" {
		missing = append(missing, "sendgrid_from_email")
	}
	if c.AppUrl == "" {
		missing = append(missing, "APP_URL_FROM_ANYWHERE")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", utils.ErrConfiguration, strings.Join(missing, ", "))
	}
	return nil
}

// SMSReady reports whether co-debtor SMS can be sent.
func (c *Config) SMSReady() bool {
	return c.LDFlag_SendCoDebtorSMS &&
		c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.LDFlag_TwilioFromPhone != ""
}

// LoadConfig validates ldflags, reads the environment, pulls secrets from
// BWS and snapshots LaunchDarkly flags. Anything the process cannot run
// without is fatal.
func LoadConfig() *Config {
	//----------------------------------------------------------------------
	// 0) Optional local .env (dev only, real env vars win)
	//----------------------------------------------------------------------
	if err := godotenv.Load(); err == nil {
		utils.Logger.Debug("Loaded environment overrides from .env")
	}

	//----------------------------------------------------------------------
	// 1) Validate required ldflags
	//----------------------------------------------------------------------
	if AppName == "" {
		utils.Logger.Fatal("AppName was not provided via ldflags")
	}
	if UniqueRunNumber == "" {
		utils.Logger.Fatal("UniqueRunNumber was not provided via ldflags")
	}
	if UniqueRunnerID == "" {
		utils.Logger.Fatal("UniqueRunnerID was not provided via ldflags")
	}
	if LDServerContextKey == "" {
		utils.Logger.Fatal("LDServerContextKey was not provided via ldflags")
	}
	if LDServerContextKind == "" {
		utils.Logger.Fatal("LDServerContextKind was not provided via ldflags")
	}

	utils.Logger.Info("Loading config for app: ", AppName)

	//----------------------------------------------------------------------
	// 2) Runtime environment vars
	//----------------------------------------------------------------------
	env := os.Getenv("ENV")
	if env == "" {
		utils.Logger.Fatal("ENV env var is missing")
	}
	appPort := os.Getenv("APP_PORT")
	if appPort == "" {
		utils.Logger.Fatal("APP_PORT env var is missing")
	}
	appURL := strings.TrimRight(os.Getenv("APP_URL_FROM_ANYWHERE"), "/")
	if appURL == "" {
		utils.Logger.Warn("APP_URL_FROM_ANYWHERE is missing; confirmation links cannot be built")
	}

	//----------------------------------------------------------------------
	// 3) BWS secrets
	//----------------------------------------------------------------------
	client, err := utils.NewBWSSecretsClient()
	if err != nil {
		utils.Logger.WithError(err).Fatal("Init BWS client")
	}
	defer client.Close()

	appSecretsName := fmt.Sprintf("%s-%s", AppName, env)
	appSecrets, err := client.GetBWSSecrets(appSecretsName)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Fetch BWS secrets")
	}

	utils.Logger.Debugf("Fetching shared secrets from BWS for %s-%s", "shared", env)
	sharedSecretsName := fmt.Sprintf("shared-%s", env)
	sharedSecrets, err := client.GetBWSSecrets(sharedSecretsName)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to fetch shared secrets from BWS")
	}

	dbURL, ok := appSecrets["DB_URL"]
	if !ok || dbURL == "" {
		utils.Logger.Fatalf("DB_URL not found in BWS (%s)", appSecretsName)
	}
	ldSDK, ok := appSecrets["LD_SDK_KEY"]
	if !ok || ldSDK == "" {
		utils.Logger.Fatal("LD_SDK_KEY missing in BWS secrets")
	}

	pubKey, err := parseRSAPublicKey(sharedSecrets["RSA_PUBLIC_KEY_BASE64"])
	if err != nil {
		utils.Logger.WithError(err).Fatalf("RSA_PUBLIC_KEY_BASE64 invalid in BWS (%s)", sharedSecretsName)
	}

	sgAPI := sharedSecrets["SENDGRID_API_KEY"]
	if sgAPI == "" {
		utils.Logger.Warn("SENDGRID_API_KEY missing in BWS secrets; emails will fail with configuration_error")
	}
	twilioSID := sharedSecrets["TWILIO_ACCOUNT_SID"]
	twilioToken := sharedSecrets["TWILIO_AUTH_TOKEN"]

	//----------------------------------------------------------------------
	// 4) LaunchDarkly client & flags
	//----------------------------------------------------------------------
	ldClient, err := ld.MakeClient(ldSDK, LDConnectionTimeout)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to create LaunchDarkly client")
	}
	if !ldClient.Initialized() {
		ldClient.Close()
		utils.Logger.Fatal("LaunchDarkly client failed to initialize")
	}
	defer ldClient.Close()

	ctx := ldcontext.NewWithKind(ldcontext.Kind(LDServerContextKind), LDServerContextKey)
	flags := flagReader{client: ldClient, ctx: ctx}

	cfg := &Config{
		OrganizationName: OrganizationName,
		AppName:          AppName,
		AppPort:          appPort,
		AppUrl:           appURL,
		Env:              env,
		DBUrl:            dbURL,
		UniqueRunNumber:  UniqueRunNumber,
		UniqueRunnerID:   UniqueRunnerID,
		RSAPublicKey:     pubKey,
		SendgridAPIKey:   sgAPI,
		TwilioAccountSID: twilioSID,
		TwilioAuthToken:  twilioToken,

		LDFlag_SendgridFromEmail:      flags.str("sendgrid_from_email"),
		LDFlag_SendgridSandboxMode:    flags.boolean("sendgrid_sandbox_mode"),
		LDFlag_TwilioFromPhone:        flags.str("twilio_from_phone"),
		LDFlag_SendCoDebtorSMS:        flags.boolean("send_codebtor_sms"),
		LDFlag_StrictReferenceLinking: flags.boolean("strict_reference_linking"),
		LDFlag_ValidateEmailWithSG:    flags.boolean("validate_email_with_sendgrid"),
		LDFlag_UsingIsolatedSchema:    flags.boolean("using_isolated_schema"),
		LDFlag_CORSHighSecurity:       flags.boolean("cors_high_security"),
	}

	if err := cfg.MailReady(); err != nil {
		utils.Logger.WithError(err).Warn("Mail transport not fully configured")
	}

	utils.Logger.Infof("Loaded config for %s (%s)", AppName, env)
	return cfg
}

// flagReader snapshots flags; an evaluation error is fatal like in every
// other service.
type flagReader struct {
	client *ld.LDClient
	ctx    ldcontext.Context
}

func (f flagReader) boolean(key string) bool {
	v, err := f.client.BoolVariation(key, f.ctx, false)
	if err != nil {
		f.client.Close()
		utils.Logger.WithError(err).Fatalf("Error retrieving %s flag", key)
	}
	utils.Logger.Debugf("%s flag: %t", key, v)
	return v
}

func (f flagReader) str(key string) string {
	v, err := f.client.StringVariation(key, f.ctx, "")
	if err != nil {
		f.client.Close()
		utils.Logger.WithError(err).Fatalf("Error retrieving %s flag", key)
	}
	utils.Logger.Debugf("%s flag: %s", key, v)
	return v
}

func parseRSAPublicKey(b64 string) (*rsa.PublicKey, error) {
	if b64 == "" {
		return nil, fmt.Errorf("empty key")
	}
	pubPEM, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, err
	}
	if block, _ := pem.Decode(pubPEM); block == nil {
		return nil, fmt.Errorf("failed to decode PEM block for public key")
	}
	return jwt.ParseRSAPublicKeyFromPEM(pubPEM)
}
