package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "healx",
	Short:         "HealX health data vault",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedMetricsCmd)
	rootCmd.AddCommand(issueTokenCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "healx: %v\n", err)
		os.Exit(1)
	}
}
