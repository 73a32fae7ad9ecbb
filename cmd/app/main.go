package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/atvirokodosprendimai/crewdesk/internal/app"
	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
	"github.com/atvirokodosprendimai/crewdesk/internal/core/usecase"
)

func main() {
	// A missing .env is fine; flags and the environment still apply.
	_ = godotenv.Load()

	cmd := &cli.Command{
		Name:     "crewdesk",
		Usage:    "Crew scheduling API with conflict checks, dashboard metrics and an audit trail",
		Flags:    append(commonFlags(), serveFlags()...),
		Commands: []*cli.Command{exportAuditCommand()},
		Action:   serve,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db-path",
			Value:   "./crewdesk.sqlite",
			Sources: cli.EnvVars("CREWDESK_DB_PATH"),
			Usage:   "SQLite file path",
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Sources: cli.EnvVars("CREWDESK_LOG_LEVEL"),
			Usage:   "Log level (debug, info, warn, error)",
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "json",
			Sources: cli.EnvVars("CREWDESK_LOG_FORMAT"),
			Usage:   "Log format (json or console)",
		},
	}
}

func serveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "addr",
			Value:   ":8080",
			Sources: cli.EnvVars("CREWDESK_ADDR"),
			Usage:   "HTTP listen address",
		},
		&cli.StringFlag{
			Name:    "bootstrap-api-key",
			Sources: cli.EnvVars("CREWDESK_BOOTSTRAP_API_KEY"),
			Usage:   "Optional API key to upsert at startup",
		},
		&cli.StringFlag{
			Name:    "bootstrap-user-id",
			Value:   "bootstrap",
			Sources: cli.EnvVars("CREWDESK_BOOTSTRAP_USER_ID"),
			Usage:   "User id recorded in the audit trail for the bootstrap key",
		},
		&cli.StringFlag{
			Name:    "bootstrap-user-email",
			Value:   "bootstrap@localhost",
			Sources: cli.EnvVars("CREWDESK_BOOTSTRAP_USER_EMAIL"),
			Usage:   "User email recorded in the audit trail for the bootstrap key",
		},
		&cli.StringFlag{
			Name:    "bootstrap-key-name",
			Value:   "bootstrap",
			Sources: cli.EnvVars("CREWDESK_BOOTSTRAP_KEY_NAME"),
			Usage:   "Name for bootstrap API key",
		},
		&cli.StringFlag{
			Name:    "webhook-url",
			Sources: cli.EnvVars("CREWDESK_WEBHOOK_URL"),
			Usage:   "Audit event webhook target URL",
		},
		&cli.StringFlag{
			Name:    "webhook-secret",
			Sources: cli.EnvVars("CREWDESK_WEBHOOK_SECRET"),
			Usage:   "HMAC-SHA256 signing secret for outbound webhook requests",
		},
		&cli.StringFlag{
			Name:    "redis-url",
			Sources: cli.EnvVars("CREWDESK_REDIS_URL"),
			Usage:   "Redis URL for publishing audit events (redis://host:6379/0)",
		},
		&cli.StringFlag{
			Name:    "redis-channel-prefix",
			Value:   "crewdesk",
			Sources: cli.EnvVars("CREWDESK_REDIS_CHANNEL_PREFIX"),
			Usage:   "Prefix for Redis pub/sub channels",
		},
		&cli.DurationFlag{
			Name:    "outbox-interval",
			Value:   2 * time.Second,
			Sources: cli.EnvVars("CREWDESK_OUTBOX_INTERVAL"),
			Usage:   "Polling interval of the audit event dispatcher",
		},
		&cli.DurationFlag{
			Name:    "outbox-retention",
			Value:   7 * 24 * time.Hour,
			Sources: cli.EnvVars("CREWDESK_OUTBOX_RETENTION"),
			Usage:   "How long delivered audit events stay in the outbox",
		},
	}
}

func newLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	var cfg zap.Config
	switch format {
	case "json":
		cfg = zap.NewProductionConfig()
	case "console":
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func serve(ctx context.Context, c *cli.Command) error {
	logger, err := newLogger(c.String("log-level"), c.String("log-format"))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg := app.Config{
		Addr:               c.String("addr"),
		DBPath:             c.String("db-path"),
		BootstrapAPIKey:    c.String("bootstrap-api-key"),
		BootstrapUserID:    c.String("bootstrap-user-id"),
		BootstrapUserEmail: c.String("bootstrap-user-email"),
		BootstrapKeyName:   c.String("bootstrap-key-name"),
		WebhookURL:         c.String("webhook-url"),
		WebhookSecret:      c.String("webhook-secret"),
		RedisURL:           c.String("redis-url"),
		RedisChannelPrefix: c.String("redis-channel-prefix"),
		OutboxInterval:     c.Duration("outbox-interval"),
		OutboxRetention:    c.Duration("outbox-retention"),
	}

	server, closer, err := app.NewServer(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}
	defer func() {
		if closeErr := closer.Close(); closeErr != nil {
			logger.Error("close resources", zap.Error(closeErr))
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-ctx.Done():
		return shutdown(server)
	case sig := <-sigCh:
		logger.Info("received signal", zap.String("signal", sig.String()))
		return shutdown(server)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}

func exportAuditCommand() *cli.Command {
	return &cli.Command{
		Name:  "export-audit",
		Usage: "Write the audit trail to stdout as JSON lines, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "table",
				Usage: "Only entries for this table (clients, consultants, crew_members, crew_roles, projects, assignments)",
			},
			&cli.StringFlag{
				Name:  "action",
				Usage: "Only entries with this action (CREATE, UPDATE, DELETE)",
			},
			&cli.IntFlag{
				Name:  "batch-size",
				Value: 500,
				Usage: "Entries fetched per query",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger, err := newLogger(c.String("log-level"), c.String("log-format"))
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			filter, err := exportFilter(c.String("table"), c.String("action"))
			if err != nil {
				return err
			}

			audit, closer, err := app.OpenAuditService(ctx, c.String("db-path"), logger)
			if err != nil {
				return err
			}
			defer func() { _ = closer.Close() }()

			n, err := writeAuditLines(ctx, os.Stdout, audit, filter, c.Int("batch-size"))
			if err != nil {
				return err
			}
			logger.Info("audit export finished", zap.Int("entries", n))
			return nil
		},
	}
}

func exportFilter(table, action string) (domain.AuditLogFilter, error) {
	var filter domain.AuditLogFilter
	if table != "" {
		t, err := domain.ParseTable(table)
		if err != nil {
			return filter, fmt.Errorf("--table %q: %w", table, err)
		}
		filter.TableName = t
	}
	if action != "" {
		a, err := domain.ParseAuditAction(action)
		if err != nil {
			return filter, fmt.Errorf("--action %q: %w", action, err)
		}
		filter.Action = a
	}
	return filter, nil
}

func writeAuditLines(ctx context.Context, w io.Writer, audit *usecase.AuditService, filter domain.AuditLogFilter, batchSize int) (int, error) {
	out := bufio.NewWriter(w)
	enc := json.NewEncoder(out)
	n, err := usecase.ExportAuditLogs(ctx, audit, filter, batchSize, func(e domain.AuditLogEntry) error {
		return enc.Encode(e)
	})
	if err != nil {
		return n, fmt.Errorf("export audit logs: %w", err)
	}
	if err := out.Flush(); err != nil {
		return n, fmt.Errorf("flush output: %w", err)
	}
	return n, nil
}
