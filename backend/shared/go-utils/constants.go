package utils

const (
	OrganizationName                      = "Arriendos"
	CORSLowSecurityAllowedOriginLocalhost = "http://localhost:*"
	TenantRole                            = "tenant"
	AdminRole                             = "admin"
)
