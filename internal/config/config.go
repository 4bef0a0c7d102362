package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures environment driven configuration values for the scheduling
// service.
type Config struct {
	HTTPPort        int
	SQLiteDSN       string
	Environment     string
	SlotGranularity time.Duration
	OverdueSweep    time.Duration
}

// Load reads configuration from a .env file when present and then from the
// process environment. Defaults cover every value, so an empty environment
// yields a runnable development configuration.
func Load() (Config, error) {
	// A missing .env file is fine; the environment alone is authoritative.
	_ = godotenv.Load(".env")

	cfg := Config{
		HTTPPort:        8080,
		SQLiteDSN:       "",
		Environment:     "development",
		SlotGranularity: time.Hour,
		OverdueSweep:    15 * time.Minute,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("SCHEDULER_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "SCHEDULER_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("SCHEDULER_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if env := strings.TrimSpace(os.Getenv("SCHEDULER_ENV")); env != "" {
		cfg.Environment = env
	}

	if granularityValue := strings.TrimSpace(os.Getenv("SCHEDULER_SLOT_GRANULARITY")); granularityValue != "" {
		granularity, err := time.ParseDuration(granularityValue)
		if err != nil || granularity <= 0 {
			invalid = append(invalid, "SCHEDULER_SLOT_GRANULARITY")
		} else {
			cfg.SlotGranularity = granularity
		}
	}

	if sweepValue := strings.TrimSpace(os.Getenv("SCHEDULER_OVERDUE_SWEEP")); sweepValue != "" {
		sweep, err := time.ParseDuration(sweepValue)
		if err != nil || sweep <= 0 {
			invalid = append(invalid, "SCHEDULER_OVERDUE_SWEEP")
		} else {
			cfg.OverdueSweep = sweep
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
