// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Rohith723/nss-election-app/auth"
	"github.com/Rohith723/nss-election-app/cliparse"
	"github.com/Rohith723/nss-election-app/db"
	"github.com/Rohith723/nss-election-app/events"
	"github.com/Rohith723/nss-election-app/middleware"
	"github.com/Rohith723/nss-election-app/router"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve [flags]",
		Short: "Run the election API server",
		Long: `Run the election HTTP API.

Flags:
  -p PORT              server port (PORT, default 8501)
  -d URL               database URL (DATABASE_URL)
  -t TYPE              sqlite or postgres (DATABASE_TYPE, default sqlite)
  --session-ttl D      session lifetime (SESSION_TTL, default 2h)
  --tx-timeout D       per-operation timeout (TX_TIMEOUT, default 5s)
  --session-secret S   token signing secret (SESSION_SECRET, required)
  --admin-password P   initial admin password (ADMIN_BOOTSTRAP_PASSWORD)
  --kafka-broker ADDR  event broker (KAFKA_BROKER, optional)
  --kafka-topic NAME   event topic (KAFKA_TOPIC)`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cliparse.ParseFlags(args)
			if err != nil {
				return err
			}
			return serve(cmd, cfg)
		},
	}
}

func serve(cmd *cobra.Command, cfg cliparse.Config) error {
	if err := cfg.RequireSessionSecret(); err != nil {
		return err
	}

	conn, err := db.Open(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	if _, err := auth.BootstrapAdmin(cmd.Context(), conn, "", cfg.AdminBootstrapPassword); err != nil {
		return err
	}

	publisher := events.NewPublisher(cfg)
	if kp, ok := publisher.(*events.KafkaPublisher); ok {
		defer kp.Close()
	}

	mux := router.NewRouter(conn, cfg, publisher)

	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(ctrlc)
	go func() {
		<-ctrlc
		server.Close()
	}()

	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server closed", "error", err)
		return err
	}
	slog.Info("Server closed")
	return nil
}
