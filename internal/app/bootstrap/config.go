// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/exhibithub/internal/app/system/auditlog"
	"github.com/dalemusser/exhibithub/internal/app/system/civildate"
	"github.com/dalemusser/exhibithub/internal/app/system/flash"
	"github.com/dalemusser/exhibithub/internal/app/system/listcache"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvPrefix prefixes the environment variables of every app key
// (EXHIBITHUB_MONGO_URI, EXHIBITHUB_REDIS_ADDR, ...).
const EnvPrefix = "EXHIBITHUB"

const devSessionKey = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for ExhibitHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, redis_addr, etc.
//   - Environment variables: EXHIBITHUB_MONGO_URI, EXHIBITHUB_REDIS_ADDR, etc.
//   - Command-line flags: --mongo_uri, --redis_addr, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "exhibithub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "civil_timezone", Default: civildate.DefaultZone, Desc: "IANA zone for exhibition dates"},

	{Name: "session_key", Default: devSessionKey, Desc: "Flash cookie signing key (must be strong in production)"},
	{Name: "session_name", Default: flash.DefaultSessionName, Desc: "Flash cookie name"},

	// Listing count cache
	{Name: "redis_addr", Default: "", Desc: "Redis host:port for the listing count cache (blank disables it)"},
	{Name: "redis_password", Default: "", Desc: "Redis password"},
	{Name: "redis_db", Default: 0, Desc: "Redis database number"},
	{Name: "list_cache_ttl", Default: "30s", Desc: "How long a cached listing count is served (e.g., 30s, 2m)"},

	// Audit logging settings
	{Name: "audit_log_admin", Default: auditlog.DestLog, Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, EXHIBITHUB_* for app) and
// flags, merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		CivilTimezone: appValues.String("civil_timezone"),

		SessionKey:  appValues.String("session_key"),
		SessionName: appValues.String("session_name"),

		RedisAddr:     appValues.String("redis_addr"),
		RedisPassword: appValues.String("redis_password"),
		RedisDB:       appValues.Int("redis_db"),
		ListCacheTTL:  appValues.Duration("list_cache_ttl", listcache.DefaultTTL),

		AuditLogAdmin: appValues.String("audit_log_admin"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must not be empty")
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)", appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}
	if _, err := time.LoadLocation(appCfg.CivilTimezone); err != nil || appCfg.CivilTimezone == "" {
		return fmt.Errorf("invalid civil_timezone %q", appCfg.CivilTimezone)
	}
	if appCfg.AuditLogAdmin != "" && !auditlog.ValidDestination(appCfg.AuditLogAdmin) {
		return fmt.Errorf("audit_log_admin must be one of all, db, log, off (got %q)", appCfg.AuditLogAdmin)
	}
	if appCfg.SessionKey == "" {
		return fmt.Errorf("session_key must not be empty")
	}
	if coreCfg != nil && coreCfg.Env == "prod" && appCfg.SessionKey == devSessionKey {
		return fmt.Errorf("session_key must be changed from the development default in prod")
	}
	if appCfg.ListCacheTTL < 0 {
		return fmt.Errorf("list_cache_ttl must not be negative")
	}
	return nil
}
