package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tutorapp/tutorapp/pkg/services/auth"
)

type TokenCmd struct {
	env     *Env
	tutorID string
	ttl     time.Duration
}

// NewTokenCmd issues bearer tokens signed with auth.jwt_secret, for local
// development against the web API.
func NewTokenCmd(env *Env) *cobra.Command {
	tc := &TokenCmd{env: env}
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for a tutor",
		RunE:  tc.run,
	}
	cmd.Flags().StringVar(&tc.tutorID, "tutor", "", "Tutor id")
	cmd.Flags().DurationVar(&tc.ttl, "ttl", 0, "Token lifetime (defaults to auth.token_ttl)")
	_ = cmd.MarkFlagRequired("tutor")
	return cmd
}

func (tc *TokenCmd) run(_ *cobra.Command, _ []string) error {
	cfg, err := tc.env.config()
	if err != nil {
		return err
	}
	authorizer, err := auth.NewAuthorizer(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	if err != nil {
		return err
	}

	ttl := tc.ttl
	if ttl <= 0 {
		ttl = cfg.Auth.TokenTTL
	}
	token, err := authorizer.IssueToken(tc.tutorID, ttl)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	_, err = fmt.Fprintln(tc.env.out(), token)
	return err
}
