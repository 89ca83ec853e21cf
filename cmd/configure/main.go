package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/launchbase/api-template/cmd/configure/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "api-template-configure",
		Short: "Configuration tool for the API template",
		Long:  "Inspect and validate the environment-derived server configuration.",
	}

	rootCmd.AddCommand(commands.NewShowCmd())
	rootCmd.AddCommand(commands.NewCheckCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
