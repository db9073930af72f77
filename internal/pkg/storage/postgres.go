package storage

import (
	"fmt"
	"net/url"
	"strings"
)

// parseDSNForMultipleHosts accepts a postgres:// DSN that may list several
// comma-separated hosts (managed-cluster style) and reduces it to the first
// host, since lib/pq dials exactly one. Key/value DSNs pass through as-is.
func parseDSNForMultipleHosts(dsn string) (string, error) {
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return dsn, nil
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("failed to parse postgres DSN: %w", err)
	}
	if strings.Contains(u.Host, ",") {
		u.Host = strings.SplitN(u.Host, ",", 2)[0]
	}
	return u.String(), nil
}
