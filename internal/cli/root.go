// Package cli implements exhibitctl, the operator command line for loading
// scraped exhibitions and deriving exhibition ids outside the web panel.
package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dalemusser/exhibithub/internal/app/system/civildate"
	"github.com/dalemusser/exhibithub/internal/app/system/timeouts"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// EnvPrefix matches the prefix read by the web server.
const EnvPrefix = "EXHIBITHUB_"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	MongoURI      string
	MongoDatabase string
	RedisAddr     string
	RedisDB       int
	Timezone      string
	Verbose       bool
}

// NewRootCommand creates the root command for exhibitctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "exhibitctl",
		Short: "exhibitctl - exhibition catalog tooling",
		Long:  "Import scraped exhibitions into the catalog and derive exhibition ids.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			timeouts.ConfigureFromEnv()
			return civildate.Configure(opts.Timezone)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.MongoURI, "mongo-uri",
		envOr("MONGO_URI", "mongodb://localhost:27017"), "MongoDB connection URI")
	cmd.PersistentFlags().StringVar(&opts.MongoDatabase, "mongo-database",
		envOr("MONGO_DATABASE", "exhibithub"), "MongoDB database name")
	cmd.PersistentFlags().StringVar(&opts.RedisAddr, "redis-addr",
		envOr("REDIS_ADDR", ""), "Redis address of the listing cache to invalidate (empty = none)")
	cmd.PersistentFlags().IntVar(&opts.RedisDB, "redis-db",
		envIntOr("REDIS_DB", 0), "Redis database number of the listing cache")
	cmd.PersistentFlags().StringVar(&opts.Timezone, "timezone",
		envOr("CIVIL_TIMEZONE", civildate.DefaultZone), "IANA time zone used to read dates")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewIDCommand(opts))

	return cmd
}

func envOr(key, def string) string {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		return v
	}
	return def
}

// envIntOr is envOr for integers; a malformed value falls back to def.
func envIntOr(key string, def int) int {
	if n, err := strconv.Atoi(envOr(key, "")); err == nil {
		return n
	}
	return def
}

// newLogger writes structured logs to stderr so command output stays clean.
func (o *RootOptions) newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if o.Verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
