package auth

import (
	"fmt"
	"strings"
)

// ErrorPolicy decides what a filter does when it hits an error it did not
// anticipate (store unreachable, malformed input it cannot classify).
type ErrorPolicy string

const (
	// PassThrough logs the error and lets the request continue.
	PassThrough ErrorPolicy = "pass_through"
	// Reject logs the error and stops the request.
	Reject ErrorPolicy = "reject"
)

func ParsePolicy(s string) (ErrorPolicy, error) {
	switch ErrorPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PassThrough:
		return PassThrough, nil
	case Reject:
		return Reject, nil
	default:
		return "", fmt.Errorf("unknown error policy %q (want %s or %s)", s, PassThrough, Reject)
	}
}

// publicPrefixes skip authentication and geofencing entirely.
var publicPrefixes = []string{
	"/api/auth/login",
	"/api/auth/health",
	"/api/auth/test",
	"/api/events",
	"/actuator",
	"/metrics",
	"/swagger-ui",
	"/v3/api-docs",
	"/api/v1/whatsapp/health",
	"/whatsapp/health",
}

func IsPublic(path string) bool {
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
