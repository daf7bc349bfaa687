// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings (ports, TLS, logging, body limits); AppConfig is
// everything specific to the exhibition admin.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in the driver pool
	MongoMinPoolSize uint64 // Connections kept open when idle

	// Civil time zone used to read and show exhibition dates
	CivilTimezone string

	// Flash message cookie
	SessionKey  string // Secret key for signing the flash cookie (must be strong in production)
	SessionName string // Cookie name (default: exhibithub-session)

	// Listing count cache; blank RedisAddr disables it
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	ListCacheTTL  time.Duration

	// Audit logging destination for admin actions: all, db, log, off
	AuditLogAdmin string
}
