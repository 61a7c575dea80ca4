package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Supported database types
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	// Secrets
	SessionSecret          string
	AdminBootstrapPassword string

	SessionTTL time.Duration
	TxTimeout  time.Duration

	// Event sink (optional)
	KafkaBroker   string
	KafkaTopic    string
	KafkaUsername string
	KafkaPassword string

	// Positional arguments left after flag parsing
	Args []string
}

// LoadEnvFile loads variables from a .env file without overriding
// variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	slog.Debug("loaded env file", "path", path)
	return nil
}

// ParseFlags validates flags and fills unset values from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("nss-election", flag.ContinueOnError)

	// Network and storage (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", 0, "Session token lifetime")
	fs.DurationVar(&cfg.TxTimeout, "tx-timeout", 0, "Per-operation transaction timeout")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SessionSecret, "session-secret", "", "Session signing secret (prefer env)")
	fs.StringVar(&cfg.AdminBootstrapPassword, "admin-password", "", "Initial admin password (prefer env)")

	fs.StringVar(&cfg.KafkaBroker, "kafka-broker", "", "Kafka broker address")
	fs.StringVar(&cfg.KafkaTopic, "kafka-topic", "", "Kafka topic for election events")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.Args = fs.Args()

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 8501 // default
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DatabaseSQLite
		}
	}
	if cfg.DatabaseType != DatabaseSQLite && cfg.DatabaseType != DatabasePostgres {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType == DatabasePostgres {
			return Config{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = "file:nss_election.db"
	}

	var err error
	if cfg.SessionTTL, err = durationFromEnv(cfg.SessionTTL, "SESSION_TTL", 2*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.TxTimeout, err = durationFromEnv(cfg.TxTimeout, "TX_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}

	if cfg.SessionSecret == "" {
		cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	}
	if cfg.AdminBootstrapPassword == "" {
		cfg.AdminBootstrapPassword = os.Getenv("ADMIN_BOOTSTRAP_PASSWORD")
	}

	if cfg.KafkaBroker == "" {
		cfg.KafkaBroker = os.Getenv("KAFKA_BROKER")
	}
	if cfg.KafkaTopic == "" {
		cfg.KafkaTopic = os.Getenv("KAFKA_TOPIC")
		if cfg.KafkaTopic == "" {
			cfg.KafkaTopic = "nss-election-events"
		}
	}
	cfg.KafkaUsername = os.Getenv("KAFKA_USERNAME")
	cfg.KafkaPassword = os.Getenv("KAFKA_PASSWORD")

	return cfg, nil
}

// RequireSessionSecret reports an error when no signing secret is configured.
// Only commands that issue or verify sessions need it.
func (c Config) RequireSessionSecret() error {
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET required")
	}
	if len(c.SessionSecret) < 16 {
		return errors.New("SESSION_SECRET must be at least 16 characters")
	}
	return nil
}

func durationFromEnv(current time.Duration, key string, def time.Duration) (time.Duration, error) {
	if current > 0 {
		return current, nil
	}
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return d, nil
}
