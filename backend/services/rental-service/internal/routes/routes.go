package routes

const (
	// Health
	Health  = "/health"
	Metrics = "/metrics"

	// Public co-debtor confirmation (link in the email)
	CoDebtorConfirm = "/api/v1/rental/co-debtors/confirm"

	// Tenant endpoints
	Processes             = "/api/v1/rental/processes"
	Process               = "/api/v1/rental/processes/{id}"
	ProcessSteps          = "/api/v1/rental/processes/{id}/steps"
	ProcessSecurity       = "/api/v1/rental/processes/{id}/security"
	ProcessSecurityResend = "/api/v1/rental/processes/{id}/security/resend"

	// Admin endpoints
	AdminProcesses     = "/api/v1/rental/admin/processes"
	AdminProcess       = "/api/v1/rental/admin/processes/{id}"
	AdminProcessStatus = "/api/v1/rental/admin/processes/{id}/status"
	AdminContracts     = "/api/v1/rental/admin/contracts"
)
