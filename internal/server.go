package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/raphaeldejesus03/BeFit/internal/config"
	"github.com/raphaeldejesus03/BeFit/internal/db"
	"github.com/raphaeldejesus03/BeFit/internal/gamification"
	"github.com/raphaeldejesus03/BeFit/internal/middleware"
	"github.com/raphaeldejesus03/BeFit/internal/misc"
	"github.com/raphaeldejesus03/BeFit/internal/telemetry/metrics"
	"github.com/raphaeldejesus03/BeFit/internal/telemetry/tracing"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	appSecret         string // shared with the mobile app, guards every mutating request
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client

	// gamification
	store      gamification.ProgressStore
	recorder   *gamification.Recorder
	dispatcher *gamification.Dispatcher
	deduper    *gamification.EventDeduper
	reconciler *gamification.Reconciler

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config           *config.Config
	AppSecret        string
	VersionInfo      string
	RedisPassword    string
	PostgresPassword string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	var rdb *redis.Client
	if cfg.RedisHost != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: params.RedisPassword,
			DB:       0, // use default DB
		})

		rdbStatus := rdb.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}
	} else {
		log.Warnln("redis not configured, rate limiting and idempotency keys are disabled")
	}

	// the OpenTelemetry SDK reads its exporter settings from the OTEL_* env vars
	otelShutdown, err := tracing.Setup(cfg.TracingEnabled, "befit-backend", rdb)
	if err != nil {
		return nil, err
	}

	var (
		dbPool     *pgxpool.Pool
		store      gamification.ProgressStore
		collectors []prometheus.Collector
	)
	switch cfg.StoreBackend {
	case config.StoreBackendMemory:
		log.Warnln("using in-memory progress store, progress is lost on restart")
		store = gamification.NewMemoryStore()
	default:
		dbPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBPassword:     params.PostgresPassword,
			TracingEnabled: cfg.TracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}

		if err := dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}

		postgresStore := gamification.NewPostgresStore(dbPool)
		if err := postgresStore.Migrate(ctx); err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		store = postgresStore

		collectors = append(collectors, pgxpoolprometheus.NewCollector(
			dbPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		))
	}

	if dbPool != nil && cfg.CacheSizeMegabytes > 0 {
		store = gamification.NewCachedStore(store, cfg.CacheSizeMegabytes, cfg.CacheTTL())
	}

	promRegistry := metrics.SetupPrometheus(collectors...)
	metricsManager := metrics.NewManager("befit", "backend", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0) // set to 1 once serving

	recorder := gamification.NewRecorder(store, metricsManager)

	var deduper *gamification.EventDeduper
	if rdb != nil {
		deduper = gamification.NewEventDeduper(rdb, cfg.IdempotencyTTL(), metricsManager)
	}

	s := &Server{
		config:      cfg,
		appSecret:   params.AppSecret,
		versionInfo: params.VersionInfo,

		dbPool:      dbPool,
		redisClient: rdb,

		store:    store,
		recorder: recorder,
		deduper:  deduper,
		dispatcher: gamification.NewDispatcher(
			recorder,
			deduper,
			metricsManager,
			cfg.DispatcherWorkers,
			cfg.DispatcherQueueSize,
		),
		reconciler: gamification.NewReconciler(
			store,
			metricsManager,
			cfg.ReconcileLookback(),
			cfg.ReconcileBatchSize,
		),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}
	return s, nil
}

func (s *Server) healthChecks() map[string]misc.HealthCheck {
	checks := map[string]misc.HealthCheck{}
	if s.dbPool != nil {
		checks["postgres"] = s.dbPool.Ping
	}
	if s.redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return s.redisClient.Ping(ctx).Err()
		}
	}
	return checks
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("befit-router"))

	miscHandler := misc.NewHandler(s.versionInfo, s.healthChecks())
	miscHandler.SetupRoutes(r)

	var reqRateLimiter middleware.RequestRateLimiter
	if s.redisClient != nil {
		reqRateLimiter = redis_rate.NewLimiter(s.redisClient)
	}

	gamificationHandler := gamification.NewHandler(s.recorder, s.dispatcher, s.deduper)
	gamificationHandler.SetupRoutes(r, reqRateLimiter, s.metricsManager, s.config.RecordRateLimitPerMin)

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.appSecret)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	s.dispatcher.Start(ctx)
	if err := s.reconciler.Start(ctx, s.config.ReconcileInterval()); err != nil {
		log.Errorf("failed to schedule progress reconciler: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", otelhttp.NewHandler(
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
		"metrics",
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
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

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	// stop taking requests first, so nothing new is dispatched
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	s.reconciler.Stop()
	log.Debugln("reconciler stopped")

	// blocks until queued activity events are recorded
	s.dispatcher.Stop()

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
