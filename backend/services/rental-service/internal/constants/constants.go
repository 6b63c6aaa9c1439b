package constants

import "time"

// Co-debtor confirmation tokens.
const (
	ConfirmationTokenBytes = 32
	ConfirmationTokenTTL   = 24 * time.Hour
)

// First-access registration tokens sent with the contract onboarding email.
const (
	RegistrationTokenBytes = 32
	RegistrationTokenTTL   = 72 * time.Hour
)

// Step numbers of the application workflow.
const (
	StepProfile    = 1
	StepBasicInfo  = 2
	StepSecurity   = 3
	StepEvaluation = 4
)

// Onboarding email kinds chosen after a contract is initiated.
const (
	OnboardingRegistration = "registration"
	OnboardingContinue     = "continue"
)

// Public path co-debtors land on from the confirmation email.
const CoDebtorConfirmPath = "/api/v1/rental/co-debtors/confirm"

// HealthPingTimeout bounds the DB check behind /health.
const HealthPingTimeout = 2 * time.Second
