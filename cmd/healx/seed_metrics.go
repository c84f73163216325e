package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yungbote/healx-backend/internal/app"
)

var (
	seedMetricsCmd = &cobra.Command{
		Use:   "seed-metrics",
		Short: "Register the metric catalog",
		Long:  "Registers every metric definition in a YAML catalog. Without --file the built-in catalog is used. Re-running is safe.",
		RunE:  cmdSeedMetrics,
	}

	seedMetricsFile string
)

func init() {
	seedMetricsCmd.Flags().StringVar(&seedMetricsFile, "file", "", "path to a metric catalog YAML file")
}

func cmdSeedMetrics(cmd *cobra.Command, args []string) error {
	var raw []byte
	if seedMetricsFile != "" {
		b, err := os.ReadFile(seedMetricsFile)
		if err != nil {
			return fmt.Errorf("read catalog: %w", err)
		}
		raw = b
	}

	a, err := app.New(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.SeedMetrics(cmd.Context(), raw)
	if err != nil {
		return err
	}
	// Peers drop their caches so the new definitions are visible immediately.
	if err := a.Services.Registry.Invalidate(cmd.Context()); err != nil {
		a.Log.Warn("registry invalidation publish failed", "error", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created=%d unchanged=%d\n", res.Created, res.Unchanged)
	return nil
}
