package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"setlist-service/internal/auth"
	"setlist-service/internal/config"
)

func newTokenCommand() *cobra.Command {
	var (
		uid   string
		email string
		ttl   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token signed with JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if ttl <= 0 {
				ttl = cfg.TokenTTL
			}
			if uid == "" {
				uid = uuid.NewString()
			}
			tok, err := auth.IssueToken(cfg.JWTSecret, uid, email, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&uid, "uid", "", "User id (random when empty)")
	cmd.Flags().StringVar(&email, "email", "", "Email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (TOKEN_TTL_MINUTES when unset)")
	return cmd
}
