package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/xavierca1/lead-funnel/internal/infra/http/middleware"
)

var (
	tokenSecret  string
	tokenSubject string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the admin routes",
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSecret, "secret", "", "signing secret (default $ADMIN_JWT_SECRET)")
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "operator", "token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 12*time.Hour, "token lifetime")
}

func runToken(cmd *cobra.Command, args []string) error {
	secret := tokenSecret
	if secret == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		secret = cfg.AdminJWTSecret
	}
	if secret == "" {
		return errors.New("ADMIN_JWT_SECRET is not set; admin routes are open")
	}
	if tokenTTL <= 0 {
		return errors.New("--ttl must be positive")
	}

	token, err := middleware.IssueAdminToken(secret, tokenSubject, tokenTTL)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
