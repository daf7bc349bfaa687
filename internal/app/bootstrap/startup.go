// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/exhibithub/internal/app/resources"
	"github.com/dalemusser/exhibithub/internal/app/system/civildate"
	"github.com/dalemusser/exhibithub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built: the civil
// time zone, timeout overrides and the shared templates.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := civildate.Configure(appCfg.CivilTimezone); err != nil {
		return fmt.Errorf("civil timezone: %w", err)
	}
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeouts overridden from environment", zap.Int("count", n), zap.Any("timeouts", timeouts.Current()))
	}
	resources.LoadSharedTemplates()
	return nil
}
