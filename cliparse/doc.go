// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 8501)
  - DatabaseURL: SQLite DSN or PostgreSQL connection string
    (default: file:nss_election.db)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - SessionSecret: HMAC secret for session tokens (required by serve)
  - AdminBootstrapPassword: first-run admin password (optional)
  - SessionTTL: session lifetime (default: 2h)
  - TxTimeout: per-operation transaction timeout (default: 5s)
  - KafkaBroker, KafkaTopic: optional event sink

# CLI Flags

	-p                Server port
	-d                Database URL
	-t                Database type
	--session-secret  Session signing secret
	--admin-password  Initial admin password
	--session-ttl     Session lifetime
	--tx-timeout      Transaction timeout
	--kafka-broker    Kafka broker address
	--kafka-topic     Kafka topic

# Environment Variables

Flags fall back to environment variables:

	PORT                     → -p
	DATABASE_URL             → -d
	DATABASE_TYPE            → -t
	SESSION_SECRET           → --session-secret
	ADMIN_BOOTSTRAP_PASSWORD → --admin-password
	SESSION_TTL              → --session-ttl
	TX_TIMEOUT               → --tx-timeout
	KAFKA_BROKER             → --kafka-broker
	KAFKA_TOPIC              → --kafka-topic

KAFKA_USERNAME and KAFKA_PASSWORD are read from the environment only.
CLI flags take precedence over environment variables, and LoadEnvFile
fills the environment from a .env file without overriding it.

# Bootstrap Credential

When ADMIN_BOOTSTRAP_PASSWORD is empty on first run, the admin account is
created with the well-known default password and flagged for rotation.
*/
package cliparse
