package migrate

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/zora-fashion/storefront/pkg/config"
	"github.com/zora-fashion/storefront/pkg/db"
	"github.com/zora-fashion/storefront/pkg/logger"
)

// MaybeRunDev brings the kv_entries schema up to date when the API boots in dev with the SQL
// storage backend and ZORA_AUTO_MIGRATE set. Other environments migrate through cmd/migrate.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate || client == nil {
		return nil
	}
	return autoRun(ctx, logg, client, DefaultDir)
}

func autoRun(ctx context.Context, logg *logger.Logger, client *db.Client, dir string) error {
	if err := ValidateDir(dir); err != nil {
		return fmt.Errorf("validating migrations: %w", err)
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"dir": dir, "dialect": client.Dialect()})
	logg.Info(ctx, "auto-migrating storage schema")

	if err := Run(ctx, sqlDB, client.Dialect(), dir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	logg.Info(logg.WithField(ctx, "schema_version", version), "storage schema up to date")
	return nil
}
