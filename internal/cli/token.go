package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ritesh-201/rbac-and-forms/internal/core/domain"
	"github.com/Ritesh-201/rbac-and-forms/internal/core/service"
	"github.com/Ritesh-201/rbac-and-forms/internal/infrastructure/config"
	"github.com/Ritesh-201/rbac-and-forms/internal/infrastructure/seed"
)

func newTokenCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a bearer token for a seed user",
		Long: `Print a bearer token for a user of the seed (SEED_FILE, or the built-in
demo users), signed with JWT_SECRET. Useful for curl sessions and scripts.`,
		Example: `  boardd token --user 4
  curl -H "Authorization: Bearer $(boardd token --user 1)" localhost:8080/v1/team`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}

			users := domain.SeedUsers()
			if cfg.SeedFile != "" {
				s, err := seed.Load(cfg.SeedFile)
				if err != nil {
					return err
				}
				users = s.Users
			}

			directory := service.NewStaticDirectory(users)
			user, err := directory.FindByID(cmd.Context(), userID)
			if err != nil {
				return err
			}
			token, err := service.NewSessionService(directory, cfg.JWTSecret, cfg.TokenTTL).Issue(*user)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "id of the user to sign for")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
