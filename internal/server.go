package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/multierr"

	"github.com/Ankush-patel1/Fitness/internal/auth"
	"github.com/Ankush-patel1/Fitness/internal/config"
	"github.com/Ankush-patel1/Fitness/internal/db"
	"github.com/Ankush-patel1/Fitness/internal/fitness/events"
	"github.com/Ankush-patel1/Fitness/internal/fitness/ledger"
	"github.com/Ankush-patel1/Fitness/internal/fitness/tracker"
	"github.com/Ankush-patel1/Fitness/internal/middleware"
	"github.com/Ankush-patel1/Fitness/internal/misc"
	"github.com/Ankush-patel1/Fitness/internal/telemetry/metrics"
	"github.com/Ankush-patel1/Fitness/internal/telemetry/tracing"
)

const (
	shutdownTimeout     = 15 * time.Second
	maxRequestBodyBytes = 1 << 20
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config    *config.Config
	dbPool    *pgxpool.Pool
	store     ledger.Store
	tracker   *tracker.Service
	publisher events.Publisher

	redisClient  *redis.Client
	loginChecker auth.Checker
	authService  *auth.Service
	tokenIssuer  *auth.TokenIssuer

	// background jobs
	jobsCancel context.CancelFunc
	jobsWG     sync.WaitGroup

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	PostgresPassword        string
	JWTSecret               string
	HoneycombTracingEnabled bool
	OtelServiceName         string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (_ *Server, err error) {
	cfg := params.Config

	location, err := cfg.StreakLocation()
	if err != nil {
		return nil, err
	}

	tokenIssuer, err := auth.NewTokenIssuer(params.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL())
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:      cfg,
		versionInfo: params.VersionInfo,
		tokenIssuer: tokenIssuer,
	}
	// release whatever was opened when a later step fails
	defer func() {
		if err != nil {
			s.closeResources()
		}
	}()

	var collectors []prometheus.Collector
	switch cfg.Store {
	case config.StorePostgres:
		s.dbPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBUser:         cfg.PostgresUser,
			DBPassword:     params.PostgresPassword,
			TracingEnabled: params.HoneycombTracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		if cfg.PostgresEnsureSchema {
			if err := ledger.EnsureSchema(ctx, s.dbPool); err != nil {
				return nil, err
			}
		}
		collectors = append(collectors, db.PoolCollector(s.dbPool, cfg.PostgresDBName))
		s.store = ledger.NewRepo(s.dbPool)
		log.Debugf("using postgres record store [%s]", cfg.PostgresDBName)
	default:
		s.store = ledger.NewMemoryStore()
		log.Warnln("using in-memory record store, data will not survive a restart")
	}

	s.promRegistry = metrics.SetupPrometheus(collectors...)
	s.metricsManager = metrics.NewManager("fitness", "main", s.promRegistry)
	s.metricsManager.GaugeLifeSignal.Set(0)

	s.redisClient = redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})
	rdbStatus := s.redisClient.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	s.authService = auth.NewAuthService(cfg.SessionTTL(), s.redisClient)
	s.loginChecker = auth.NewLoginChecker(cfg.SessionTTL(), s.redisClient)

	// use honeycomb distro to setup OpenTelemetry SDK
	s.otelShutdown, err = tracing.HoneycombSetup(params.HoneycombTracingEnabled, params.OtelServiceName, s.redisClient)
	if err != nil {
		return nil, fmt.Errorf("otel setup: %w", err)
	}

	if len(cfg.KafkaBrokers) > 0 {
		s.publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		log.Debugf("publishing activity events to %v [%s]", cfg.KafkaBrokers, cfg.KafkaTopic)
	} else {
		s.publisher = events.NoopPublisher{}
	}

	s.tracker = tracker.NewService(tracker.NewServiceParams{
		Store:          s.store,
		Location:       location,
		Publisher:      s.publisher,
		MetricsManager: s.metricsManager,
	})

	return s, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	miscHandler := misc.NewHandler(
		s.versionInfo,
		s.tracker,
		s.authService,
		s.loginChecker,
		s.tokenIssuer,
		s.metricsManager,
	)
	miscHandler.SetupRoutes(r, reqRateLimiter, s.config.LoginRatePerMin)

	trackerHandler := tracker.NewHandler(s.tracker)
	trackerHandler.SetupRoutes(r)

	// all the rest - unhandled paths, still going through the middleware chain
	r.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker, s.tokenIssuer)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.CorsAllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest(maxRequestBodyBytes))

	return r
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:           s.routerSetup(),
		Addr:              ipAndPort,
		WriteTimeout:      time.Minute,
		ReadTimeout:       time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}))
	metricsAddr := net.JoinHostPort(s.config.MetricsHost, strconv.Itoa(s.config.MetricsPort))
	s.metricsHttpServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	jobsCtx, cancel := context.WithCancel(ctx)
	s.jobsCancel = cancel
	s.jobsWG.Add(1)
	go func() {
		defer s.jobsWG.Done()
		s.runSessionsCleanup(jobsCtx, s.config.SessionsCleanupInterval())
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) runSessionsCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.authService.ScanAndClean(ctx)
		}
	}
}

// GracefulShutdown stops accepting requests, waits for the in-flight ones and
// then releases the publisher, redis, db pool and otel.
func (s *Server) GracefulShutdown() error {
	log.Debug("graceful shutdown initiated ...")
	s.metricsManager.GaugeLifeSignal.Set(0)

	ctx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer timeoutCancel()

	var err error
	if s.httpServer != nil {
		if shutdownErr := s.httpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown http server: %w", shutdownErr))
		}
		log.Warnln("server shut down")
	}
	if s.metricsHttpServer != nil {
		if shutdownErr := s.metricsHttpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown metrics http server: %w", shutdownErr))
		}
		log.Warnln("metrics server shut down")
	}

	if s.jobsCancel != nil {
		s.jobsCancel()
	}
	s.jobsWG.Wait()

	return multierr.Append(err, s.closeResources())
}

func (s *Server) closeResources() error {
	var err error
	if s.publisher != nil {
		if closeErr := s.publisher.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("close publisher: %w", closeErr))
		}
	}

	if s.otelShutdown != nil {
		s.otelShutdown()
		log.Trace("otel shut down ...")
	}

	if s.redisClient != nil {
		if closeErr := s.redisClient.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("close redis client: %w", closeErr))
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	return err
}
