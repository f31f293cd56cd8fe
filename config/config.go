// Package config defines the server's runtime configuration and wires
// it to cobra flags with environment-variable fallbacks.
package config

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// Config holds everything the server binary needs to start listening
// and open its data directory.
type Config struct {
	Host     string
	Port     int
	DataDir  string
	LogLevel int
}

// RegisterFlags attaches the config's flags to cmd, seeding each
// default from its environment variable when set.
func RegisterFlags(cmd *cobra.Command, cfg *Config) {
	cmd.Flags().StringVar(&cfg.Host, "host", envStr("RIDGEDB_HOST", "127.0.0.1"), "listen host")
	cmd.Flags().IntVar(&cfg.Port, "port", envInt("RIDGEDB_PORT", 3306), "listen port")
	cmd.Flags().StringVar(&cfg.DataDir, "datadir", envStr("RIDGEDB_DATADIR", "./data"), "data directory")
	cmd.Flags().IntVar(&cfg.LogLevel, "log-level", envInt("RIDGEDB_LOG_LEVEL", 0), "log verbosity (0=off, 1=statements)")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
