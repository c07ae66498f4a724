package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/erp/posprint/internal/infrastructure/auth"
	"github.com/erp/posprint/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type tokenOptions struct {
	configPath  string
	tenantID    string
	userID      string
	username    string
	permissions []string
	ttl         time.Duration
}

// newTokenCmd mints bearer tokens for calling the print API from scripts
func newTokenCmd() *cobra.Command {
	opts := &tokenOptions{}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign an access token for the print API",
		Long: `Token signs a bearer token with the jwt.secret of the service
configuration. The tenant is required; a random user ID is used when none is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFrom(opts.configPath)
			if err != nil {
				return err
			}
			if cfg.JWT.Secret == "" {
				return errors.New("jwt.secret is not configured")
			}

			tenantID, err := uuid.Parse(opts.tenantID)
			if err != nil {
				return fmt.Errorf("invalid tenant ID: %w", err)
			}
			userID := uuid.New()
			if opts.userID != "" {
				if userID, err = uuid.Parse(opts.userID); err != nil {
					return fmt.Errorf("invalid user ID: %w", err)
				}
			}

			token, expiresAt, err := auth.NewJWTService(cfg.JWT).GenerateAccessToken(auth.GenerateTokenInput{
				TenantID:    tenantID,
				UserID:      userID,
				Username:    opts.username,
				Permissions: opts.permissions,
				TTL:         opts.ttl,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.UTC().Format(time.RFC3339))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "Service configuration file (default: search ./config.toml)")
	f.StringVar(&opts.tenantID, "tenant", "", "Tenant ID")
	f.StringVar(&opts.userID, "user", "", "User ID")
	f.StringVar(&opts.username, "username", "cli", "Username claim")
	f.StringSliceVar(&opts.permissions, "permission", nil, "Permission claim, repeatable (e.g. print:maintain)")
	f.DurationVar(&opts.ttl, "ttl", time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("tenant")
	return cmd
}
