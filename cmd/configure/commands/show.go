package commands

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/launchbase/api-template/internal/config"
)

// NewShowCmd creates the show command, printing the resolved configuration.
func NewShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		Long:  "Resolve settings from the current environment (and .env, if present) and print them.",
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

			fmt.Println("Resolved configuration:")
			fmt.Printf("  Environment: %s\n", cfg.Env)
			fmt.Printf("  Server port: %s\n", cfg.ServerPort)
			fmt.Printf("  Rate limit: %s\n", cfg.RateLimit)
			fmt.Println("CORS:")
			fmt.Printf("  Origins: %s\n", formatList(resolved.Origins))
			fmt.Printf("  Allow credentials: %v\n", resolved.AllowCredentials)
			fmt.Printf("  Methods: %s\n", formatList(resolved.Methods))
			fmt.Printf("  Headers: %s\n", formatList(resolved.Headers))
			fmt.Printf("  Max-Age: %d\n", resolved.MaxAge)
			return nil
		},
	}
}

func formatList(values []string) string {
	if len(values) == 0 {
		return "(none)"
	}
	return strings.Join(values, ", ")
}
