package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Ritesh-201/rbac-and-forms/internal/api"
	"github.com/Ritesh-201/rbac-and-forms/internal/api/handler"
	"github.com/Ritesh-201/rbac-and-forms/internal/core/domain"
	"github.com/Ritesh-201/rbac-and-forms/internal/core/ports"
	"github.com/Ritesh-201/rbac-and-forms/internal/core/service"
	"github.com/Ritesh-201/rbac-and-forms/internal/infrastructure/config"
	"github.com/Ritesh-201/rbac-and-forms/internal/infrastructure/db/memory"
	mongodb "github.com/Ritesh-201/rbac-and-forms/internal/infrastructure/db/mongo"
	redisdb "github.com/Ritesh-201/rbac-and-forms/internal/infrastructure/db/redis"
	"github.com/Ritesh-201/rbac-and-forms/internal/infrastructure/events"
	"github.com/Ritesh-201/rbac-and-forms/internal/infrastructure/http/handlers"
	"github.com/Ritesh-201/rbac-and-forms/internal/infrastructure/queue"
	"github.com/Ritesh-201/rbac-and-forms/internal/infrastructure/seed"
	"github.com/Ritesh-201/rbac-and-forms/pkg/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	pingTimeout     = 2 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API until SIGINT or SIGTERM.

MongoDB, Redis and NATS are optional. Without MONGO_URI users come from the
seed and the audit trail is kept in memory; without REDIS_ADDR snapshots
live only in the process; without NATS_URL board events are dropped.`,
	RunE: runServe,
}

// auditTrail is both sides of the mutation log.
type auditTrail interface {
	ports.AuditRepository
	handler.AuditLog
}

type server struct {
	router     *echo.Echo
	dispatcher *queue.Dispatcher
	closers    []func(context.Context) error
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Development(),
		Service: "boardd",
		Version: appVersion,
	})

	if cfg.JWTSecret == config.DevSecret {
		log.Warn().Msg("JWT_SECRET is unset, signing tokens with the development secret")
	}

	srv, err := newServer(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer srv.close(log)

	// The dispatcher outlives the HTTP server so in-flight intents finish.
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	srv.dispatcher.Start(dispatchCtx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := srv.router.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.router.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	stopDispatch()
	<-srv.dispatcher.Done()
	return err
}

// newServer connects the optional backends and wires the service graph.
// Backends already connected are closed when a later step fails.
func newServer(ctx context.Context, cfg *config.Config, log zerolog.Logger) (_ *server, err error) {
	srv := &server{}
	defer func() {
		if err != nil {
			srv.close(log)
		}
	}()
	checks := map[string]handlers.Check{}

	users := domain.SeedUsers()
	seedBoard := service.SeedFunc(domain.SeedBoard)
	boardIDs := []string{domain.DefaultBoardID}
	if cfg.SeedFile != "" {
		s, err := seed.Load(cfg.SeedFile)
		if err != nil {
			return nil, err
		}
		users, seedBoard, boardIDs = s.Users, s.Board, s.BoardIDs
		seedLog := logger.Component("seed")
		seedLog.Info().Str("file", cfg.SeedFile).Int("users", len(users)).Msg("seed loaded")
	}

	var (
		directory ports.UserDirectory
		audit     auditTrail
	)
	if cfg.Mongo.URI != "" {
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		srv.closers = append(srv.closers, client.Disconnect)
		checks["mongo"] = func(ctx context.Context) error { return mongodb.Ping(ctx, client) }

		userRepo := mongodb.NewUserRepository(db)
		inserted, err := userRepo.EnsureSeed(ctx, users)
		if err != nil {
			return nil, err
		}
		auditRepo := mongodb.NewAuditRepository(db)
		if err := auditRepo.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		mongoLog := logger.Component("mongo")
		mongoLog.Info().Int64("users_inserted", inserted).Str("database", cfg.Mongo.Database).Msg("mongo ready")
		directory, audit = userRepo, auditRepo
	} else {
		directory, audit = service.NewStaticDirectory(users), memory.NewAuditLog(0)
	}

	var (
		store ports.SnapshotStore
		idem  ports.IdempotencyStore
	)
	if cfg.Redis.Addr != "" {
		client, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return nil, err
		}
		srv.closers = append(srv.closers, func(context.Context) error { return client.Close() })
		checks["redis"] = func(ctx context.Context) error { return redisdb.Ping(ctx, client, pingTimeout) }
		store, idem = redisdb.NewSnapshotStore(client, cfg.Redis.SnapshotTTL), redisdb.NewIdempotencyStore(client)
	} else {
		store, idem = memory.NewSnapshotStore(), memory.NewIdempotencyStore()
	}

	var publisher ports.EventPublisher = events.NopPublisher{}
	if cfg.NATS.URL != "" {
		nc, err := events.Connect(cfg.NATS.URL, logger.Component("nats"))
		if err != nil {
			return nil, err
		}
		srv.closers = append(srv.closers, func(context.Context) error { return nc.Drain() })
		pub := events.NewNATSPublisher(nc)
		checks["nats"] = pub.Ping
		publisher = pub
	}

	boards := service.NewBoardService(store, audit, directory, logger.Component("board"),
		service.WithSeed(seedBoard),
		service.WithBoards(boardIDs...),
		service.WithIdempotency(idem),
		service.WithEvents(publisher),
		service.WithStrictInvariants(cfg.Development()),
	)
	srv.dispatcher = queue.NewDispatcher(cfg.DispatchWorkers, boards, logger.Component("dispatcher"))

	srv.router = api.NewRouter(api.Deps{
		Log:       logger.Component("http"),
		JWTSecret: cfg.JWTSecret,
		Origins:   cfg.Origins(),
		Boards:    srv.dispatcher,
		Sessions:  service.NewSessionService(directory, cfg.JWTSecret, cfg.TokenTTL),
		Directory: directory,
		Audit:     audit,
		Checks:    checks,
	})
	return srv, nil
}

func (s *server) close(log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			log.Warn().Err(err).Msg("failed to close dependency")
		}
	}
}
