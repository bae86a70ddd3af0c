// Package cli implements befitctl, the operator tool for inspecting and
// repairing gamification progress outside the HTTP service.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/raphaeldejesus03/BeFit/internal/config"
	"github.com/raphaeldejesus03/BeFit/internal/db"
	"github.com/raphaeldejesus03/BeFit/internal/gamification"
	"github.com/raphaeldejesus03/BeFit/internal/logging"
	"github.com/raphaeldejesus03/BeFit/internal/telemetry/metrics"
)

type options struct {
	env        string
	configPath string
	memory     bool
	logLevel   string

	// set by tests, skips config and database setup
	store gamification.ProgressStore
}

type backend struct {
	cfg        *config.Config
	store      gamification.ProgressStore
	recorder   *gamification.Recorder
	reconciler *gamification.Reconciler
	dbPool     *pgxpool.Pool
}

func (b *backend) Close() {
	if b.dbPool != nil {
		b.dbPool.Close()
	}
}

// Execute runs the root command. Called from cmd/befitctl.
func Execute(version string) {
	root := newRootCmd(&options{})
	root.Version = version

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:           "befitctl",
		Short:         "Inspect and repair BeFit gamification progress",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(logging.LoggerSetupParams{
				LogToStdout: true,
				LogLevel:    opts.logLevel,
			})
			// the output of the commands goes to stdout, logs must not mix in
			log.SetOutput(cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.env, "env", "development", "config section [prod | production | dev | development]")
	flags.StringVar(&opts.configPath, "config", "./config.toml", "path for the TOML config file")
	flags.BoolVar(&opts.memory, "memory", false, "use a throwaway in-memory store instead of postgres")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level")

	root.AddCommand(
		newProgressCmd(opts),
		newRecordCmd(opts),
		newCatalogCmd(),
		newReconcileCmd(opts),
	)
	return root
}

func (opts *options) loadConfig() (*config.Config, error) {
	if opts.store != nil || opts.memory {
		return config.Parse(opts.env, "[development]\nstore_backend = \"memory\"\n[production]\nstore_backend = \"memory\"\n")
	}

	cfg, err := config.Load(opts.env, opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (opts *options) openBackend(ctx context.Context) (*backend, error) {
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, err
	}

	b := &backend{cfg: cfg, store: opts.store}
	if b.store == nil {
		switch cfg.StoreBackend {
		case config.StoreBackendMemory:
			b.store = gamification.NewMemoryStore()
		default:
			if err := godotenv.Load(); err != nil {
				log.Debugf("no .env file loaded: %s", err)
			}
			b.dbPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
				DBHost:     cfg.PostgresHost,
				DBPort:     cfg.PostgresPort,
				DBName:     cfg.PostgresDBName,
				DBPassword: os.Getenv("BEFIT_POSTGRES_PASS"),
				MaxConns:   4,
			})
			if err != nil {
				return nil, fmt.Errorf("new db pool: %w", err)
			}
			postgresStore := gamification.NewPostgresStore(b.dbPool)
			if err := postgresStore.Migrate(ctx); err != nil {
				b.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
			b.store = postgresStore
		}
	}

	metricsManager := metrics.NewManager("befit", "cli", prometheus.NewRegistry())
	b.recorder = gamification.NewRecorder(b.store, metricsManager)
	b.reconciler = gamification.NewReconciler(b.store, metricsManager, cfg.ReconcileLookback(), cfg.ReconcileBatchSize)
	return b, nil
}
