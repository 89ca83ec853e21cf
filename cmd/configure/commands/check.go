package commands

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/launchbase/api-template/internal/config"
	"github.com/launchbase/api-template/internal/cors"
)

// NewCheckCmd creates the check command. It resolves the configuration from
// the current environment and fails (non-zero exit) when the CORS policy is
// insecure for that environment, so deploy pipelines can gate on it.
func NewCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration for the current environment",
		Long:  "Resolve settings and verify the CORS policy is secure for the target environment. Exits non-zero on violations.",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			resolved, err := cfg.ResolvedCORS()
			if err != nil {
				return fmt.Errorf("resolve cors config: %w", err)
			}

			fmt.Printf("Environment: %s\n", cfg.Env)
			fmt.Printf("Resolved origins: %s\n", formatList(resolved.Origins))

			if cors.IsSecure(resolved.Origins, cfg.Env, cfg.CORSAllowInsecureLocalhost) {
				fmt.Println("CORS policy: OK")
				return nil
			}

			for _, finding := range policyFindings(resolved.Origins, cfg.CORSAllowInsecureLocalhost) {
				fmt.Printf("  - %s\n", finding)
			}
			return fmt.Errorf("CORS policy is insecure for environment %q", cfg.Env)
		},
	}
}

// policyFindings names the entries that make a non-development origin list
// insecure.
func policyFindings(origins []string, allowLocalhost bool) []string {
	var findings []string
	for _, origin := range origins {
		switch {
		case origin == cors.Wildcard:
			findings = append(findings, "wildcard origin is not permitted outside development")
		case !cors.ValidateOrigin(origin):
			findings = append(findings, fmt.Sprintf("malformed origin %q", origin))
		case strings.HasPrefix(origin, "http://"):
			if allowLocalhost && (strings.HasPrefix(origin, "http://localhost") || strings.HasPrefix(origin, "http://127.0.0.1")) {
				continue
			}
			findings = append(findings, fmt.Sprintf("origin %q must use https", origin))
		}
	}
	return findings
}
