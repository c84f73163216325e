package main

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/healx-backend/internal/app"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE:  cmdMigrate,
}

func cmdMigrate(cmd *cobra.Command, args []string) error {
	base, err := app.NewBase()
	if err != nil {
		return err
	}
	defer base.Close()

	if err := base.Migrate(); err != nil {
		return err
	}
	base.Log.Info("Schema up to date")
	return nil
}
