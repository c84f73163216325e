package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yungbote/healx-backend/internal/app"
	types "github.com/yungbote/healx-backend/internal/domain"
	"github.com/yungbote/healx-backend/internal/platform/logger"
	"github.com/yungbote/healx-backend/internal/services"
)

var (
	issueTokenCmd = &cobra.Command{
		Use:   "issue-token <user-id>",
		Short: "Mint a bearer token signed with JWT_SECRET_KEY",
		Args:  cobra.ExactArgs(1),
		RunE:  cmdIssueToken,
	}

	issueTokenRole string
	issueTokenTTL  time.Duration
)

func init() {
	issueTokenCmd.Flags().StringVar(&issueTokenRole, "role", string(types.RolePatient), "role claim: patient, clinician or admin")
	issueTokenCmd.Flags().DurationVar(&issueTokenTTL, "ttl", time.Hour, "token lifetime")
}

func cmdIssueToken(cmd *cobra.Command, args []string) error {
	userID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("user id: %w", err)
	}
	role := types.Role(issueTokenRole)
	if !role.Valid() {
		return fmt.Errorf("unknown role %q", issueTokenRole)
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.JWTSecretKey == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required to sign tokens")
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return err
	}
	defer log.Sync()

	auth := services.NewAuthService(log, cfg.JWTSecretKey, services.AuthModeJWT)
	token, err := auth.IssueToken(userID, role, issueTokenTTL)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
