package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/stay-packages/cmd/cli/commands"
	"github.com/jakechorley/stay-packages/internal/config"
	"github.com/jakechorley/stay-packages/pkg/db"
	"github.com/jakechorley/stay-packages/pkg/postgres"
	"github.com/jakechorley/stay-packages/pkg/sqlite"
	"github.com/jakechorley/stay-packages/pkg/utils/logging"
)

var (
	env        string
	debug      bool
	configPath string
	app        = &commands.AppContext{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Stay packages CLI - Match bookings to eligible stay packages",
		Long:  `A CLI tool for analysing guest care needs and matching bookings to the stay packages they are eligible for.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Database != nil {
				app.Database.Close()
			}
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Show debug logs on the console")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: stay_config.<env>.yaml)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.MigrateCmd(app))
	rootCmd.AddCommand(commands.ListPackagesCmd(app))
	rootCmd.AddCommand(commands.AnalyzeCareCmd(app))
	rootCmd.AddCommand(commands.MatchPackagesCmd(app))
	rootCmd.AddCommand(commands.ImportFormResponseCmd(app))
	rootCmd.AddCommand(commands.ViewMatchRunsCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up the logger, config and database. Google clients are created by the
// commands that need them.
func initApp() error {
	ctx := context.Background()

	logger, err := logging.InitLogger(env, debug)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Starting application", zap.String("environment", env))

	var cfg *config.Config
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.LoadWithEnv(env)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Debug("Configuration loaded successfully")

	logger.Info("Connecting to database", zap.String("driver", cfg.DatabaseDriver))
	database, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}

	app.Init(ctx, env, cfg, database, logger)
	logger.Debug("Database connected")

	return nil
}

func openDatabase(ctx context.Context, cfg *config.Config) (db.Database, error) {
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		database, err := postgres.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return database, nil
	case config.DriverSQLite:
		database, err := sqlite.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return database, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
}
