package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// IsolatedRoleName is the per-CI-run role (and schema) name.
func IsolatedRoleName(runnerID, runNumber string) string {
	return strings.ToLower(runnerID + "-" + runNumber)
}

// WithIsolatedRole rewrites a DB URL so that the connection logs in as the
// per-run role and resolves unqualified tables in that role's schema.
func WithIsolatedRole(baseURL, runnerID, runNumber string) (string, error) {
	if runnerID == "" || runNumber == "" {
		return "", fmt.Errorf("runnerID and runNumber must be non-empty")
	}

	role := IsolatedRoleName(runnerID, runNumber)

	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid DB URL: %w", err)
	}

	// Preserve the existing password (if any) but swap the user.
	password, _ := u.User.Password()
	u.User = url.UserPassword(role, password)

	q := u.Query()
	q.Set("search_path", fmt.Sprintf(`"%s",public`, role))
	u.RawQuery = q.Encode()

	return u.String(), nil
}
