package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/01moynul/taptosell-catalog/internal/auth"
	"github.com/01moynul/taptosell-catalog/internal/config"
	"github.com/01moynul/taptosell-catalog/internal/database"
	"github.com/01moynul/taptosell-catalog/internal/logger"
	"github.com/01moynul/taptosell-catalog/internal/seed"
	"github.com/01moynul/taptosell-catalog/internal/store"
)

// app carries what every subcommand needs once the environment is loaded.
type app struct {
	cfg *config.Config
	log *zap.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "api",
		Short:         "TapToSell catalog back-office API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.LogLevel, cfg.IsDevelopment())
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}
			a.cfg, a.log = cfg, log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	root.AddCommand(
		newServeCommand(a),
		newMigrateCommand(a),
		newSeedCommand(a),
		newTokenCommand(a),
	)
	return root
}

// openDB connects to the configured database.
func (a *app) openDB(ctx context.Context) (*sqlx.DB, error) {
	db, err := database.Open(ctx, a.cfg.DB.Driver, a.cfg.DB.DSN, database.Options{
		MaxOpenConns:    a.cfg.DB.MaxOpenConns,
		MaxIdleConns:    a.cfg.DB.MaxIdleConns,
		ConnMaxLifetime: a.cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}
	a.log.Info("Database connection established", zap.String("driver", a.cfg.DB.Driver))
	return db, nil
}

func (a *app) migrate(ctx context.Context, db *sqlx.DB) error {
	applied, err := database.Migrate(ctx, db)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	for _, name := range applied {
		a.log.Info("Applied migration", zap.String("name", name))
	}
	return nil
}

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			return a.migrate(cmd.Context(), db)
		},
	}
}

func newSeedCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the default departments and category tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			if err := a.migrate(cmd.Context(), db); err != nil {
				return err
			}

			res, err := seed.Run(cmd.Context(), store.New(db), time.Now().UTC().Truncate(time.Second))
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			a.log.Info("Seed finished",
				zap.Int("departments", res.Departments),
				zap.Int("categories", res.Categories),
			)
			return nil
		},
	}
}

func newTokenCommand(a *app) *cobra.Command {
	var (
		subject string
		role    string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a signed access token",
		Long: `Print a signed access token for the admin API.

Examples:
  api token --subject alice                 # admin token
  api token --subject bob --role vendor`,
		RunE: func(cmd *cobra.Command, args []string) error {
			issuer, err := auth.NewIssuer(a.cfg.JWT.Secret, a.cfg.JWT.TTL)
			if err != nil {
				return err
			}
			token, err := issuer.GenerateToken(subject, auth.Role(role))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "admin", "Subject (sub claim) of the token")
	cmd.Flags().StringVar(&role, "role", string(auth.RoleAdmin), "Role claim: admin, vendor or user")
	return cmd
}
