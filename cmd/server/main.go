package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	httpadapter "collabhub/internal/adapters/http"
	"collabhub/internal/adapters/identity"
	"collabhub/internal/adapters/memory"
	pg "collabhub/internal/adapters/postgres"
	redisadapter "collabhub/internal/adapters/redis"
	"collabhub/internal/config"
	"collabhub/internal/events"
	"collabhub/internal/logger"
	"collabhub/internal/ports"
	applicationsvc "collabhub/internal/services/applications"
	contributorsvc "collabhub/internal/services/contributors"
	notificationsvc "collabhub/internal/services/notifications"
	projectsvc "collabhub/internal/services/projects"
	"collabhub/internal/workers/eventrunner"
)

func main() {
	cfg, cfgErr := config.Load()

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()
	if cfgErr != nil {
		log.Warn("config incomplete", zap.Error(cfgErr))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		projectStore       ports.ProjectStore
		applicationStore   ports.ApplicationStore
		collaborationStore ports.CollaborationStore
		contributorStore   ports.ContributorStore
		notificationStore  ports.NotificationStore
		eventStore         ports.DomainEventStore
		dedup              ports.Deduper
	)

	if cfg.DatabaseURL != "" {
		if err := pg.Migrate(cfg.DatabaseURL); err != nil {
			log.Fatal("migrations failed", zap.Error(err))
		}
		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal("db connect failed", zap.Error(err))
		}
		defer db.Close()
		projectStore = pg.NewProjectStore(db)
		applicationStore = pg.NewApplicationStore(db)
		collaborationStore = pg.NewCollaborationStore(db)
		contributorStore = pg.NewContributorStore(db)
		notificationStore = pg.NewNotificationStore(db)
		eventStore = pg.NewEventStore(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		mem := memory.New()
		projectStore = mem.Projects
		applicationStore = mem.Applications
		collaborationStore = mem.Collaborations
		contributorStore = mem.Contributors
		notificationStore = mem.Notifications
		eventStore = mem.Events
		dedup = mem.Dedup
	}

	if cfg.RedisAddr != "" {
		rd := redisadapter.NewDeduper(cfg.RedisAddr, cfg.DedupTTL)
		defer func() { _ = rd.Close() }()
		dedup = rd
	} else if dedup == nil {
		dedup = memory.New().Dedup
	}

	var gateway ports.IdentityProviderGateway
	if cfg.IdentityBaseURL != "" {
		gateway = identity.NewGateway(cfg.IdentityBaseURL)
	} else {
		gateway = identity.Noop{Log: log}
	}

	projects := projectsvc.New(projectStore, contributorStore, eventStore)
	applications := applicationsvc.New(applicationStore, projectStore, eventStore)
	contributors := contributorsvc.New(contributorStore, eventStore, gateway, log)
	notifications := notificationsvc.New(notificationStore, cfg.InboxLimit)

	handlers := events.NewHandlers(projectStore, applicationStore, collaborationStore,
		contributorStore, notificationStore, eventStore, gateway, log)
	dispatcher := events.NewDispatcher(handlers, eventStore, dedup, log)
	runner := eventrunner.New(eventStore, dispatcher, cfg.EventBatchSize, log)

	if cfg.EventWorkers > 0 {
		go runner.Run(ctx, cfg.EventPollEvery)
		log.Info("event runner started", zap.Duration("poll_interval", cfg.EventPollEvery))
	}

	srv := httpadapter.New(projects, applications, contributors, notifications, log)
	r := chi.NewRouter()
	r.Mount("/", srv.Routes())

	errCh := make(chan error, 1)
	go func() { errCh <- http.ListenAndServe(cfg.ListenAddr, r) }()
	log.Info("listening", zap.String("addr", cfg.ListenAddr))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Info("shutting down", zap.String("signal", sig.String()))
		cancel()
		time.Sleep(300 * time.Millisecond)
	case err := <-errCh:
		log.Fatal("server error", zap.Error(err))
	}
}
