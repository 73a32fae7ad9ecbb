package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/atvirokodosprendimai/crewdesk/internal/adapters/events"
	"github.com/atvirokodosprendimai/crewdesk/internal/adapters/httpapi"
	"github.com/atvirokodosprendimai/crewdesk/internal/adapters/jobs"
	sqliteadapter "github.com/atvirokodosprendimai/crewdesk/internal/adapters/sqlite"
	"github.com/atvirokodosprendimai/crewdesk/internal/adapters/sqlite/gormsqlite"
	"github.com/atvirokodosprendimai/crewdesk/internal/adapters/telemetry"
	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
	"github.com/atvirokodosprendimai/crewdesk/internal/core/ports"
	"github.com/atvirokodosprendimai/crewdesk/internal/core/usecase"
	"github.com/atvirokodosprendimai/crewdesk/migrations"
)

type Config struct {
	Addr               string
	DBPath             string
	BootstrapAPIKey    string
	BootstrapUserID    string
	BootstrapUserEmail string
	BootstrapKeyName   string
	WebhookURL         string
	WebhookSecret      string
	RedisURL           string
	RedisChannelPrefix string
	OutboxInterval     time.Duration
	OutboxRetention    time.Duration
}

type resourceCloser struct {
	closers []io.Closer
}

func (r resourceCloser) Close() error {
	var firstErr error
	for _, c := range r.closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// openStore opens the database and brings its schema up to date.
func openStore(ctx context.Context, path string, log *zap.Logger) (*gormsqlite.DB, error) {
	db, err := gormsqlite.Open(path, log)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	writeSQLDB, err := db.WriteSQLDB()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("resolve writer sql db: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := migrations.Up(ctx, writeSQLDB); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func NewServer(ctx context.Context, cfg Config, log *zap.Logger) (*http.Server, io.Closer, error) {
	if log == nil {
		log = zap.NewNop()
	}

	db, err := openStore(ctx, cfg.DBPath, log)
	if err != nil {
		return nil, nil, err
	}
	closers := resourceCloser{}
	fail := func(err error) (*http.Server, io.Closer, error) {
		closers.closers = append(closers.closers, db)
		_ = closers.Close()
		return nil, nil, err
	}

	clients := sqliteadapter.NewClientRepository(db)
	consultants := sqliteadapter.NewConsultantRepository(db)
	crewRoles := sqliteadapter.NewCrewRoleRepository(db)
	crewMembers := sqliteadapter.NewCrewMemberRepository(db)
	projects := sqliteadapter.NewProjectRepository(db)
	assignments := sqliteadapter.NewAssignmentRepository(db)
	auditRepo := sqliteadapter.NewAuditLogRepository(db)
	apiKeyRepo := sqliteadapter.NewAPIKeyRepository(db)
	outboxRepo := sqliteadapter.NewOutboxRepository(db)

	recorder := usecase.NewAuditRecorder(auditRepo, log.Named("audit"))
	dashboard := usecase.NewDashboardService(projects, crewMembers, assignments)

	sinks := []ports.EventPublisher{events.NewLogPublisher(log.Named("events"))}
	if cfg.WebhookURL != "" {
		sinks = append(sinks, events.NewWebhookPublisher(cfg.WebhookURL, cfg.WebhookSecret, 5*time.Second))
	}
	if cfg.RedisURL != "" {
		client, err := events.NewRedisClient(ctx, cfg.RedisURL, log)
		if err != nil {
			return fail(err)
		}
		closers.closers = append(closers.closers, client)
		sinks = append(sinks, events.NewRedisPublisher(client, cfg.RedisChannelPrefix, log.Named("redis")))
	}

	dispatcher := usecase.NewOutboxDispatcher(outboxRepo, events.NewMultiPublisher(sinks...), log.Named("outbox"), cfg.OutboxInterval, 100)
	scheduler := jobs.NewScheduler(dispatcher, dashboard, cfg.OutboxRetention, log.Named("jobs"))

	if cfg.BootstrapAPIKey != "" {
		if err := bootstrapAPIKey(ctx, apiKeyRepo, cfg); err != nil {
			return fail(err)
		}
		log.Info("bootstrap api key ready", zap.String("user_email", cfg.BootstrapUserEmail))
	}

	registry := telemetry.NewRegistry()
	telemetry.RegisterAuditRecorder(registry, recorder)
	telemetry.RegisterOutboxDispatcher(registry, dispatcher)

	handler := httpapi.NewHandler(httpapi.Services{
		Clients:     usecase.NewEntityService(domain.TableClients, clients, recorder),
		Consultants: usecase.NewEntityService(domain.TableConsultants, consultants, recorder),
		CrewMembers: usecase.NewEntityService(domain.TableCrewMembers, crewMembers, recorder),
		CrewRoles:   usecase.NewEntityService(domain.TableCrewRoles, crewRoles, recorder),
		Projects:    usecase.NewEntityService(domain.TableProjects, projects, recorder),
		Assignments: usecase.NewAssignmentService(assignments, projects, recorder),
		Dashboard:   dashboard,
		Audit:       usecase.NewAuditService(auditRepo, log.Named("audit")),
		Auth:        usecase.NewAuthService(apiKeyRepo),
		Metrics:     telemetry.Handler(registry),
	}, log.Named("http"))

	if err := scheduler.Start(); err != nil {
		return fail(err)
	}
	dispatcher.Start(context.Background())

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	closers.closers = append([]io.Closer{scheduler, dispatcher}, closers.closers...)
	closers.closers = append(closers.closers, db)
	return server, closers, nil
}

func bootstrapAPIKey(ctx context.Context, repo ports.APIKeyRepository, cfg Config) error {
	userID := cfg.BootstrapUserID
	if userID == "" {
		userID = "bootstrap"
	}
	email := cfg.BootstrapUserEmail
	if email == "" {
		email = "bootstrap@localhost"
	}
	name := cfg.BootstrapKeyName
	if name == "" {
		name = "bootstrap"
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err := repo.Upsert(ctx, domain.APIKey{
		TokenHash: usecase.HashToken(cfg.BootstrapAPIKey),
		Name:      name,
		UserID:    userID,
		UserEmail: email,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("bootstrap api key: %w", err)
	}
	return nil
}

// OpenAuditService opens the database for read access to the audit trail.
func OpenAuditService(ctx context.Context, dbPath string, log *zap.Logger) (*usecase.AuditService, io.Closer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := openStore(ctx, dbPath, log)
	if err != nil {
		return nil, nil, err
	}
	return usecase.NewAuditService(sqliteadapter.NewAuditLogRepository(db), log.Named("audit")), db, nil
}
