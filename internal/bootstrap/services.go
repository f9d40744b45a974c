package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/target/blogger-api/config"
	"github.com/target/blogger-api/internal/adapters/mailer"
	"github.com/target/blogger-api/internal/core"
	"github.com/target/blogger-api/internal/data"
	httpx "github.com/target/blogger-api/internal/http"
	"github.com/target/blogger-api/internal/observability/statsd"
	"github.com/target/blogger-api/internal/service"
)

// shutdownWaitTimeout is the maximum time to wait for the HTTP server to drain.
const shutdownWaitTimeout = 15 * time.Second

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth       *service.AuthService
	Authorizer *service.Authorizer
	Tokens     *service.TokenService
	Wellness   *service.WellnessService
	Users      *service.UserService
	// Health lists dependencies pinged by /healthz.
	Health []httpx.Pinger
	// Metrics is nil when metrics are disabled or the sink could not be dialed.
	Metrics *statsd.Client
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	Users    core.UserRepository
	History  core.PasswordHistoryRepository
	Wellness core.WellnessRepository
}

func buildRepositories(db *sql.DB) *serviceRepositories {
	users, history := newAuthRepositories(db)
	return &serviceRepositories{
		Users:    users,
		History:  history,
		Wellness: data.NewWellnessRepo(db),
	}
}

// NewServices wires repositories, adapters and business services.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	repos := buildRepositories(deps.DB)
	services, err := buildDomainServices(deps.Config, repos, deps.RedisClient, logger)
	if err != nil {
		return ServiceContainer{}, err
	}
	services.Health = healthPingers(deps.DB, deps.RedisClient)
	services.Metrics = newMetricsSink(deps.Config.Metrics, logger)
	return services, nil
}

// newMetricsSink dials StatsD when enabled. A dial failure is logged and
// metrics stay off rather than blocking startup.
func newMetricsSink(cfg config.MetricsConfig, logger *slog.Logger) *statsd.Client {
	if !cfg.IsEnabled() {
		return nil
	}
	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil
	}
	return client
}

func buildDomainServices(
	cfg *config.AppConfig,
	repos *serviceRepositories,
	redisClient redis.UniversalClient,
	logger *slog.Logger,
) (ServiceContainer, error) {
	auth, err := BuildAuthServices(AuthConfig{
		Auth:        cfg.Auth,
		BaseURL:     cfg.HTTP.BaseURL,
		Users:       repos.Users,
		History:     repos.History,
		Mailer:      mailer.New(cfg.Mail, logger),
		MailTimeout: cfg.Mail.Timeout,
		RedisClient: redisClient,
		Logger:      logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	return ServiceContainer{
		Auth:       auth.Auth,
		Authorizer: auth.Authorizer,
		Tokens:     auth.Tokens,
		Wellness: service.NewWellnessService(service.WellnessServiceOptions{
			Repo:   repos.Wellness,
			Users:  repos.Users,
			Logger: logger,
		}),
		Users: service.NewUserService(service.UserServiceOptions{Repo: repos.Users, Logger: logger}),
	}, nil
}

// ServiceOrchestrationConfig contains everything RunServicesWithShutdown needs.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// RunServicesWithShutdown serves HTTP until SIGINT/SIGTERM or a server failure,
// then drains in-flight requests and pending email.
func RunServicesWithShutdown(ctx context.Context, cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("service orchestration config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := NewHTTPServer(&HTTPServerConfig{Config: cfg.Config, Services: cfg.Services, Logger: logger})
	err := serveUntilDone(sigCtx, server, logger)
	if cfg.Services.Auth != nil {
		logger.Info("waiting for pending email deliveries")
		cfg.Services.Auth.WaitForMail()
	}
	if cerr := cfg.Services.Metrics.Close(); cerr != nil {
		logger.Warn("statsd close failed", "error", cerr)
	}
	return err
}

// serveUntilDone runs server until ctx is cancelled or ListenAndServe fails.
func serveUntilDone(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.InfoContext(gctx, "starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down services...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownWaitTimeout)
		defer cancel()
		return ShutdownHTTPServer(ShutdownConfig{Context: shutdownCtx, Server: server, Logger: logger})
	})
	return g.Wait()
}
