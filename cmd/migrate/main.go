package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/zora-fashion/storefront/pkg/config"
	"github.com/zora-fashion/storefront/pkg/db"
	"github.com/zora-fashion/storefront/pkg/logger"
	"github.com/zora-fashion/storefront/pkg/migrate"
	"github.com/zora-fashion/storefront/pkg/storage/sqlstore"
)

type options struct {
	cmd     string
	dir     string
	name    string
	version string
}

// dbCommand runs against an open kv_entries database.
type dbCommand func(ctx context.Context, client *db.Client, sqlDB *sql.DB, opts options) error

var dbCommands = map[string]dbCommand{
	"up": func(ctx context.Context, client *db.Client, sqlDB *sql.DB, opts options) error {
		if err := migrate.ValidateDir(opts.dir); err != nil {
			return err
		}
		return migrate.Run(ctx, sqlDB, client.Dialect(), opts.dir, "up")
	},
	"down": func(ctx context.Context, client *db.Client, sqlDB *sql.DB, opts options) error {
		return migrate.Run(ctx, sqlDB, client.Dialect(), opts.dir, "down")
	},
	"status": func(ctx context.Context, client *db.Client, sqlDB *sql.DB, opts options) error {
		return migrate.Run(ctx, sqlDB, client.Dialect(), opts.dir, "status")
	},
	"version": func(ctx context.Context, client *db.Client, sqlDB *sql.DB, opts options) error {
		if opts.version == "" {
			return fmt.Errorf("missing -version")
		}
		return migrate.MigrateToVersion(ctx, sqlDB, client.Dialect(), opts.dir, opts.version)
	},
	// purge drops expired carts, histories and idempotency records outside the API's schedule.
	"purge": func(ctx context.Context, client *db.Client, _ *sql.DB, _ options) error {
		store, err := sqlstore.New(client)
		if err != nil {
			return err
		}
		removed, err := store.PurgeExpired(ctx)
		if err != nil {
			return err
		}
		fmt.Println("expired kv entries removed:", removed)
		return nil
	},
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "migrate"})
	_ = godotenv.Load()

	var opts options
	flag.StringVar(&opts.cmd, "cmd", "up", "command: up|down|status|version|purge|create|validate")
	flag.StringVar(&opts.dir, "dir", migrate.DefaultDir, "goose migrations directory")
	flag.StringVar(&opts.name, "name", "", "migration name for -cmd=create")
	flag.StringVar(&opts.version, "version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": opts.cmd,
		"dir": opts.dir,
	})

	if err := run(ctx, cfg, logg, opts); err != nil {
		logg.Error(ctx, "migrate command failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger, opts options) error {
	switch opts.cmd {
	case "create":
		if opts.name == "" {
			return fmt.Errorf("missing -name")
		}
		path, err := migrate.CreateSQLMigration(opts.dir, opts.name)
		if err != nil {
			return err
		}
		fmt.Println("created migration:", path)
		return nil
	case "validate":
		if err := migrate.ValidateDir(opts.dir); err != nil {
			return err
		}
		fmt.Println("migrations are valid and portable")
		return nil
	}

	command, ok := dbCommands[opts.cmd]
	if !ok {
		return fmt.Errorf("unknown -cmd %q", opts.cmd)
	}
	if cfg.Storage.Backend != config.StorageBackendSQL {
		return fmt.Errorf("%s must be %q to run -cmd=%s", config.EnvStorageBackend, config.StorageBackendSQL, opts.cmd)
	}

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer client.Close()

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithField(ctx, "dialect", client.Dialect())
	logg.Info(ctx, "running migrate command")
	return command(ctx, client, sqlDB, opts)
}
