package migrate

import (
	"context"

	"github.com/tudor-manea/lahinch/pkg/config"
	"github.com/tudor-manea/lahinch/pkg/db"
	"github.com/tudor-manea/lahinch/pkg/logger"
)

// MaybeRunDev applies pending migrations at startup when the auto-migrate
// flag is set. Meant for dev and test environments; production runs the
// migrate binary explicitly.
func MaybeRunDev(ctx context.Context, cfg *config.Config, client *db.Client, logg *logger.Logger) error {
	if !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return err
	}

	logg.Info(ctx, "applying pending migrations")
	return Run(ctx, sqlDB, cfg.DB.Driver, DefaultDir, "up")
}
