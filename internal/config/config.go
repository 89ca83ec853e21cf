package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Custom validator for the rate limit rule format ("<count>/<unit>")
	if err := validate.RegisterValidation("rate_rule", validateRateRule); err != nil {
		panic(fmt.Sprintf("failed to register rate_rule validator: %v", err))
	}
}

// Config holds application configuration, resolved once at startup from
// environment variables. It is treated as immutable after Load returns.
type Config struct {
	Env        Environment `validate:"oneof=development staging production"`
	ServerPort string

	// Rate limiting rule of the shape "<count>/<unit>", e.g. "60/minute".
	RateLimit string `validate:"rate_rule"`

	// Raw CORS values as read from the environment. Use the typed
	// accessors (AllowedOrigins, AllowedMethods, AllowedHeaders,
	// ResolvedCORS) instead of splitting these directly.
	CORSOrigins          string
	CORSAllowCredentials bool
	CORSAllowMethods     string
	CORSAllowHeaders     string
	CORSMaxAge           int `validate:"gte=0"`

	// CORSAllowInsecureLocalhost permits plain http://localhost origins in
	// staging/production policy checks. Off unless explicitly enabled.
	CORSAllowInsecureLocalhost bool

	EnableHSTS      bool
	RedisURL        string
	OTELEnabled     bool
	OTELEndpoint    string
	ServerDebugMode bool
}

// Load loads configuration from environment variables. Malformed values
// (unknown environment name, bad rate rule, invalid origin) are fatal: the
// process must refuse to start rather than serve with a broken configuration.
func Load() (*Config, error) {
	env, err := ParseEnvironment(getEnv("ENV", ""))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env:                        env,
		ServerPort:                 getEnv("SERVER_PORT", "8080"),
		RateLimit:                  getEnv("RATE_LIMITER", "60/minute"),
		CORSOrigins:                getEnv("CORS_ORIGINS", "*"),
		CORSAllowCredentials:       getEnvBool("CORS_ALLOW_CREDENTIALS", true),
		CORSAllowMethods:           getEnv("CORS_ALLOW_METHODS", "GET,POST,PUT,DELETE,OPTIONS,PATCH"),
		CORSAllowHeaders:           getEnv("CORS_ALLOW_HEADERS", "*"),
		CORSMaxAge:                 getEnvInt("CORS_MAX_AGE", 86400),
		CORSAllowInsecureLocalhost: getEnvBool("CORS_ALLOW_INSECURE_LOCALHOST", false),
		EnableHSTS:                 getEnvBool("ENABLE_HSTS", false),
		RedisURL:                   getEnv("REDIS_URL", ""),
		OTELEnabled:                getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:               getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServerDebugMode:            getEnvBool("SERVER_DEBUG_MODE", false),
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Fail fast on malformed origins instead of deferring to first use.
	if _, err := cfg.AllowedOrigins(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// AllowedOrigins returns the parsed CORS origin list. The wildcard is passed
// through verbatim only in development; in staging and production a wildcard
// resolves to an empty list (fail closed). Any explicit entry that does not
// start with http:// or https:// is an error naming the offending origin.
func (c *Config) AllowedOrigins() ([]string, error) {
	raw := strings.TrimSpace(c.CORSOrigins)
	if raw == "*" {
		if c.Env == EnvDevelopment {
			return []string{"*"}, nil
		}
		return []string{}, nil
	}

	origins := []string{}
	for _, part := range strings.Split(raw, ",") {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return nil, fmt.Errorf("invalid origin %q: must start with http:// or https://", origin)
		}
		origins = append(origins, origin)
	}
	return origins, nil
}

// AllowedMethods returns the parsed CORS method list. Unlike origins, the
// wildcard passes through in every environment.
func (c *Config) AllowedMethods() []string {
	return splitOrWildcard(c.CORSAllowMethods)
}

// AllowedHeaders returns the parsed CORS header list, with the same
// wildcard semantics as AllowedMethods.
func (c *Config) AllowedHeaders() []string {
	return splitOrWildcard(c.CORSAllowHeaders)
}

// ResolvedCORS holds the CORS values handed to the HTTP middleware layer.
// It is constructed once at startup and read-only thereafter.
type ResolvedCORS struct {
	Origins          []string
	AllowCredentials bool
	Methods          []string
	Headers          []string
	MaxAge           int
}

// ResolvedCORS resolves the full CORS configuration for the middleware layer.
func (c *Config) ResolvedCORS() (ResolvedCORS, error) {
	origins, err := c.AllowedOrigins()
	if err != nil {
		return ResolvedCORS{}, err
	}
	return ResolvedCORS{
		Origins:          origins,
		AllowCredentials: c.CORSAllowCredentials,
		Methods:          c.AllowedMethods(),
		Headers:          c.AllowedHeaders(),
		MaxAge:           c.CORSMaxAge,
	}, nil
}

func splitOrWildcard(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "*" {
		return []string{"*"}
	}
	values := []string{}
	for _, part := range strings.Split(raw, ",") {
		value := strings.TrimSpace(part)
		if value != "" {
			values = append(values, value)
		}
	}
	return values
}

// validateRateRule validates a "<count>/<unit>" rate limit rule.
func validateRateRule(fl validator.FieldLevel) bool {
	parts := strings.SplitN(fl.Field().String(), "/", 2)
	if len(parts) != 2 {
		return false
	}
	count, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || count <= 0 {
		return false
	}
	switch strings.TrimSpace(parts[1]) {
	case "second", "minute", "hour", "day":
		return true
	default:
		return false
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
