package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mediccare/platform/internal/auth"
	"github.com/mediccare/platform/internal/config"
	"github.com/mediccare/platform/internal/domain"
	"github.com/mediccare/platform/internal/observability"
	"github.com/mediccare/platform/internal/persistence"
	"github.com/mediccare/platform/internal/repository"
	"github.com/mediccare/platform/internal/service"
)

var services = []string{"identity", "doctor", "patient"}

func main() {
	rootCmd := &cobra.Command{
		Use:          "carectl",
		Short:        "MedicCare operator tooling",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(createAdminCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate [service...]",
		Short: "Apply SQL migrations for the given services (default: all)",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			targets := args
			if len(targets) == 0 {
				targets = services
			}

			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			ctx := context.Background()
			pg, err := openRequired(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer pg.Close()

			for _, target := range targets {
				if !known(target) {
					return fmt.Errorf("unknown service %q", target)
				}
				if err := persistence.RunMigrations(ctx, pg.PoolHandle(), filepath.Join(dir, target), logger); err != nil {
					return fmt.Errorf("migrate %s: %w", target, err)
				}
				fmt.Printf("Migrated %s.\n", target)
			}
			return nil
		},
	}
	cmd.Flags().String("dir", "./migrations", "Path to the migrations root")
	return cmd
}

func createAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an ADMIN account in the identity store",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			email, _ := cmd.Flags().GetString("email")
			if password == "" {
				password = os.Getenv("CARECTL_ADMIN_PASSWORD")
			}

			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			ctx := context.Background()
			pg, err := openRequired(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer pg.Close()

			identity := service.NewIdentityService(service.IdentityDependencies{
				AccountRepo: repository.NewAccountRepository(pg.PoolHandle()),
				Tokens:      auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL()),
				Logger:      logger,
				BcryptCost:  cfg.Auth.BcryptCost,
			})
			account, err := identity.Register(ctx, service.RegisterInput{
				Username: username,
				Password: password,
				Email:    email,
				Role:     string(domain.RoleAdmin),
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created admin %s (%s).\n", account.Username, account.ID)
			return nil
		},
	}
	cmd.Flags().String("username", "admin", "Admin username")
	cmd.Flags().String("password", "", "Admin password (or CARECTL_ADMIN_PASSWORD)")
	cmd.Flags().String("email", "", "Admin email")
	return cmd
}

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint or inspect bearer tokens with the configured secret",
	}

	mintCmd := &cobra.Command{
		Use:   "mint",
		Short: "Mint a token for a subject and role",
		RunE: func(cmd *cobra.Command, args []string) error {
			subject, _ := cmd.Flags().GetString("subject")
			rawRole, _ := cmd.Flags().GetString("role")
			if subject == "" {
				return errors.New("--subject is required")
			}
			role, err := domain.ParseRole(rawRole)
			if err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			token, exp, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL()).Mint(subject, role)
			if err != nil {
				return err
			}
			fmt.Println(token)
			fmt.Fprintf(os.Stderr, "expires %s\n", exp.UTC().Format("2006-01-02T15:04:05Z"))
			return nil
		},
	}
	mintCmd.Flags().String("subject", "", "Token subject (username)")
	mintCmd.Flags().String("role", string(domain.RolePatient), "Token role")
	cmd.AddCommand(mintCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "verify <token>",
		Short: "Verify a token and print its identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			identity, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL()).Verify(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("subject=%s role=%s\n", identity.Subject, identity.Role)
			return nil
		},
	})
	return cmd
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	cfg.ForService("carectl", "0")
	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Name)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func openRequired(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*persistence.Postgres, error) {
	if cfg.Postgres.DSN == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}
	return persistence.NewPostgres(ctx, cfg.Postgres, logger)
}

func known(name string) bool {
	for _, s := range services {
		if s == name {
			return true
		}
	}
	return false
}
