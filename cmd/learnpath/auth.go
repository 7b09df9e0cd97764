package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/spetersoncode/learnpath/credential"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the YouTube credential",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}
	cmd.AddCommand(authLoginCmd(), authEncodeCmd())
	return cmd
}

func authLoginCmd() *cobra.Command {
	var secretPath, tokenPath string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authorize YouTube access in the browser and store the token",
		RunE: func(cmd *cobra.Command, args []string) error {
			secretPath = orEnv(secretPath, "YOUTUBE_CLIENT_SECRET_FILE", "client_secret.json")
			tokenPath = orEnv(tokenPath, "YOUTUBE_TOKEN_FILE", "token.json")

			identity, err := credential.LoadClientIdentity(secretPath, credential.YouTubeScope)
			if err != nil {
				return err
			}
			src := credential.NewSource(identity, credential.NewFileStore(tokenPath),
				credential.WithAuthorizer(&credential.LoopbackAuthorizer{Out: cmd.ErrOrStderr()}))
			c, err := src.Obtain(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Credential stored in %s (expires %s)\n", tokenPath, c.Expiry.Format("2006-01-02 15:04"))
			return nil
		},
	}
	cmd.Flags().StringVar(&secretPath, "client-secret", "", "OAuth client secret file (default $YOUTUBE_CLIENT_SECRET_FILE)")
	cmd.Flags().StringVar(&tokenPath, "token", "", "token file (default $YOUTUBE_TOKEN_FILE)")
	return cmd
}

func authEncodeCmd() *cobra.Command {
	var secretPath, tokenPath string
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print CLIENT_SECRET_B64 and TOKEN_B64 for headless deployments",
		RunE: func(cmd *cobra.Command, args []string) error {
			secretPath = orEnv(secretPath, "YOUTUBE_CLIENT_SECRET_FILE", "client_secret.json")
			tokenPath = orEnv(tokenPath, "YOUTUBE_TOKEN_FILE", "token.json")

			secret, token, err := credential.EncodeFiles(secretPath, tokenPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "CLIENT_SECRET_B64=%s\nTOKEN_B64=%s\n", secret, token)
			return nil
		},
	}
	cmd.Flags().StringVar(&secretPath, "client-secret", "", "OAuth client secret file (default $YOUTUBE_CLIENT_SECRET_FILE)")
	cmd.Flags().StringVar(&tokenPath, "token", "", "token file (default $YOUTUBE_TOKEN_FILE)")
	return cmd
}

func orEnv(flag, key, def string) string {
	if flag != "" {
		return flag
	}
	return getenv(key, def)
}

