// Package cors decides whether a CORS origin configuration is safe to serve
// with in a given environment. It is pure and stateless: it performs no I/O
// and is consulted once during startup (and again by deployment tooling).
package cors

import (
	"net/url"
	"strings"

	"github.com/launchbase/api-template/internal/config"
)

// Wildcard is the sentinel origin meaning "allow any origin". It is only
// meaningful at the list level and is never a valid single origin.
const Wildcard = "*"

// ValidateOrigin reports whether origin is a syntactically well-formed
// origin: it must start with http:// or https:// and parse as a URL with a
// host. The wildcard sentinel is rejected.
func ValidateOrigin(origin string) bool {
	if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
		return false
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host != ""
}

// IsSecure reports whether the origin list is an acceptable CORS
// configuration for the environment.
//
// Development accepts anything, wildcard included. In staging and production
// the list must not contain the wildcard, every entry must be a well-formed
// origin, and every entry must use https. When allowLocalhost is set, plain
// http://localhost and http://127.0.0.1 origins are exempt from the https
// requirement to support local staging tests.
func IsSecure(origins []string, env config.Environment, allowLocalhost bool) bool {
	if env == config.EnvDevelopment {
		return true
	}
	for _, origin := range origins {
		if origin == Wildcard {
			return false
		}
		if !ValidateOrigin(origin) {
			return false
		}
		if strings.HasPrefix(origin, "http://") {
			if allowLocalhost && isLocalhost(origin) {
				continue
			}
			return false
		}
	}
	return true
}

func isLocalhost(origin string) bool {
	return strings.HasPrefix(origin, "http://localhost") ||
		strings.HasPrefix(origin, "http://127.0.0.1")
}
