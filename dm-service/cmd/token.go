package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/choosenname/OneTeam/pkg/jwt"
)

var (
	tokenUserID string
	tokenEmail  string
	tokenName   string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Sign an access token for local testing",
	Long: `Sign an access token with the configured JWT secret.

Examples:
  dm-service token --user 6f1c0d6e-0000-4000-8000-000000000001
  dm-service token --user alice --name Alice --email alice@example.com`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessDuration, cfg.JWT.Issuer)
		if err != nil {
			return fmt.Errorf("jwt: %w", err)
		}

		token, expiresAt, err := manager.GenerateAccessToken(jwt.Identity{
			UserID:   tokenUserID,
			Email:    tokenEmail,
			Username: tokenName,
			Name:     tokenName,
		})
		if err != nil {
			return fmt.Errorf("sign token: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.Format(time.RFC3339))
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUserID, "user", "", "user id to embed (required)")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email claim")
	tokenCmd.Flags().StringVar(&tokenName, "name", "", "display name claim")
	_ = tokenCmd.MarkFlagRequired("user")
}
