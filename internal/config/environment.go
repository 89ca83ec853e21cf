package config

import "fmt"

// Environment identifies the deployment environment. It drives every
// security-relevant branch in configuration resolution, so unknown names
// are rejected at startup instead of silently defaulting.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// ParseEnvironment parses an environment name. An empty string defaults to
// development.
func ParseEnvironment(s string) (Environment, error) {
	if s == "" {
		return EnvDevelopment, nil
	}
	switch Environment(s) {
	case EnvDevelopment, EnvStaging, EnvProduction:
		return Environment(s), nil
	default:
		return "", fmt.Errorf("unrecognized environment %q (must be 'development', 'staging', or 'production')", s)
	}
}

// String implements fmt.Stringer.
func (e Environment) String() string {
	return string(e)
}
