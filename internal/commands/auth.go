package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finance-dashboard/monzo-mail/internal/config"
	"github.com/finance-dashboard/monzo-mail/internal/gmail"
)

func newAuthCommand() *cobra.Command {
	var credentials, token, addr string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize read-only Gmail access and save the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			override(cmd, "credentials", &cfg.Gmail.CredentialsFile, credentials)
			override(cmd, "token", &cfg.Gmail.TokenFile, token)

			oauthCfg, err := gmail.OAuthConfig(cfg.Gmail.CredentialsFile)
			if err != nil {
				return err
			}
			tok, err := gmail.Authorize(cmd.Context(), oauthCfg, gmail.AuthOptions{
				Addr: addr,
				Out:  cmd.OutOrStdout(),
			})
			if err != nil {
				return err
			}
			if err := gmail.SaveToken(cfg.Gmail.TokenFile, tok); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved token to %s\n", cfg.Gmail.TokenFile)
			return nil
		},
	}

	defaults := config.Default()
	cmd.Flags().StringVar(&credentials, "credentials", defaults.Gmail.CredentialsFile, "OAuth client secret file")
	cmd.Flags().StringVar(&token, "token", defaults.Gmail.TokenFile, "where to save the token")
	cmd.Flags().StringVar(&addr, "addr", "localhost:8085", "callback listen address")

	return cmd
}
