package main

import (
	"context"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"ops-portal/config"
	"ops-portal/internal/auth"
	"ops-portal/internal/database"
	"ops-portal/internal/draft"
	"ops-portal/internal/handler"
	"ops-portal/internal/model"
	"ops-portal/internal/postgrest"
	"ops-portal/internal/queue"
	"ops-portal/internal/refdata"
	"ops-portal/internal/repository"
	"ops-portal/internal/service"
	"ops-portal/internal/worker"
	"ops-portal/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	workspaceSweepInterval = 5 * time.Minute
	workspaceMaxIdle       = 2 * time.Hour
)

func main() {
	log := logger.WithComponent("main")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}
	logger.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tickets, reference, pool := stores(ctx, cfg, log)
	if pool != nil {
		defer pool.Close()
	}

	var sessions auth.SessionStore
	rdb, err := database.InitRedis(ctx, &cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, sessions are kept in memory", zap.Error(err))
		sessions = auth.NewMemorySessionStore()
	} else {
		defer rdb.Close()
		sessions = auth.NewRedisSessionStore(rdb)
	}

	provider := auth.NewGoTrueProvider(cfg.AuthURL(), cfg.Remote.AnonKey, cfg.Auth.JWTSecret, cfg.Remote.Timeout)
	hub := auth.NewHub(provider, sessions, cfg.Auth.SessionTTL)

	mode, err := draft.ParseMode(cfg.Portal.DraftMode)
	if err != nil {
		log.Fatal("Invalid draft mode", zap.String("draft_mode", cfg.Portal.DraftMode), zap.Error(err))
	}
	registry := service.NewRegistry(tickets, service.WorkspaceOptions{
		DraftMode:   mode,
		TicketLimit: cfg.Portal.TicketLimit,
	})
	detach := registry.Attach(hub)
	defer detach()
	go registry.Run(ctx, workspaceSweepInterval, workspaceMaxIdle)

	if rdb != nil {
		startEventBus(ctx, rdb, hub, registry, log)
	}

	loader := refdata.NewLoader(reference, model.ReferenceLimits{
		Jobs:      cfg.Portal.JobLimit,
		Employees: cfg.Portal.EmployeeLimit,
	})

	router := handler.NewRouter(handler.Services{
		Auth:      hub,
		Reference: service.NewReferenceService(registry, loader),
		Draft:     service.NewDraftService(registry, loader),
		Tickets:   service.NewTicketService(registry),
	}, handler.RouterOptions{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Cookie: handler.CookieOptions{
			Name:   cfg.Auth.CookieName,
			TTL:    cfg.Auth.SessionTTL,
			Secure: cfg.Auth.CookieSecure,
		},
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("Portal listening", zap.String("addr", srv.Addr), zap.String("driver", cfg.Remote.Driver), zap.String("draft_mode", string(mode)))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Shutdown failed", zap.Error(err))
	}
	log.Info("Shutdown complete")
}

// startEventBus shares sign-outs with the other replicas so each one drops its workspace.
func startEventBus(ctx context.Context, rdb *redis.Client, hub *auth.Hub, registry *service.Registry, log *zap.Logger) {
	q, err := queue.NewRedisStreamEventQueue(ctx, rdb, "", nil)
	if err != nil {
		log.Warn("Session event stream unavailable", zap.Error(err))
		return
	}
	worker.Forward(hub, q)
	if err := worker.NewSessionWorker(registry, q).Start(ctx); err != nil {
		log.Warn("Session worker not started", zap.Error(err))
		return
	}
	go func() {
		<-ctx.Done()
		closeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := q.Close(closeCtx); err != nil {
			log.Warn("Failed to remove consumer group", zap.Error(err))
		}
	}()
}

// stores builds the ticket and lookup repositories for the configured driver.
func stores(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.TicketRepository, repository.ReferenceRepository, *pgxpool.Pool) {
	switch cfg.Remote.Driver {
	case "postgres":
		pool, err := database.InitDatabase(ctx, &cfg.Database)
		if err != nil {
			log.Fatal("Failed to initialize database", zap.Error(err))
		}
		return repository.NewTicketRepository(pool), repository.NewReferenceRepository(pool), pool
	case "postgrest", "":
		client := postgrest.NewClient(cfg.Remote.URL, cfg.Remote.AnonKey, cfg.Remote.Timeout)
		return postgrest.NewTicketRepository(client), postgrest.NewReferenceRepository(client), nil
	default:
		log.Fatal("Unknown store driver", zap.String("driver", cfg.Remote.Driver))
		return nil, nil, nil
	}
}
