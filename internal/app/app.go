package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"

	"homebase-go/internal/config"
	"homebase-go/internal/db"
	analyticsdomain "homebase-go/internal/domain/analytics"
	categorizedomain "homebase-go/internal/domain/categorize"
	householddomain "homebase-go/internal/domain/household"
	ledgerdomain "homebase-go/internal/domain/ledger"
	userdomain "homebase-go/internal/domain/user"
	"homebase-go/internal/llm/gemini"
	"homebase-go/internal/notify/amqp"
	"homebase-go/internal/repository/inmemory"
	analyticsrepo "homebase-go/internal/repository/postgres/analytics"
	householdrepo "homebase-go/internal/repository/postgres/household"
	ledgerrepo "homebase-go/internal/repository/postgres/ledger"
	userrepo "homebase-go/internal/repository/postgres/user"
	"homebase-go/internal/transport/httpserver"
	"homebase-go/internal/transport/httpserver/handler"
	"homebase-go/pkg/logger"
)

const suggestionCacheSize = 1024

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	publisher  *amqp.Publisher
	log        logger.Logger
}

func New(ctx context.Context, log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if cfg.DB.AutoMigrate {
		log.Info("app: applying migrations")
		if err := db.Migrate(dbConn); err != nil {
			_ = db.Close(dbConn)
			return nil, err
		}
	}

	application := &App{cfg: cfg, db: dbConn, log: log}

	users := userdomain.NewService(userrepo.NewPostgres(dbConn))
	ledger := ledgerdomain.NewService(ledgerrepo.NewPostgres(dbConn))
	analytics := analyticsdomain.NewService(analyticsrepo.NewPostgres(dbConn), ledger)

	householdOpts := []householddomain.Option{householddomain.WithLogger(log)}
	if cfg.Notify.AMQPURL != "" {
		log.Info("app: connecting to message broker", "exchange", cfg.Notify.Exchange)
		publisher, err := amqp.NewPublisher(cfg.Notify.AMQPURL, cfg.Notify.Exchange, cfg.Notify.RoutingKey, log)
		if err != nil {
			_ = application.Close()
			return nil, err
		}
		application.publisher = publisher
		householdOpts = append(householdOpts, householddomain.WithNotifier(publisher))
	}
	households := householddomain.NewService(householdrepo.NewPostgres(dbConn), users, householdOpts...)

	var suggester categorizedomain.Suggester
	if cfg.Categorize.APIKey != "" {
		client, err := gemini.NewClient(ctx, cfg.Categorize)
		if err != nil {
			_ = application.Close()
			return nil, err
		}
		suggester = client
	} else {
		log.Warn("app: LLM_API_KEY not set, category suggestions disabled")
	}
	categorizeOpts := []categorizedomain.Option{categorizedomain.WithLogger(log)}
	if cfg.Categorize.CacheTTL > 0 {
		categorizeOpts = append(categorizeOpts,
			categorizedomain.WithCache(inmemory.NewSuggestionCache(suggestionCacheSize, cfg.Categorize.CacheTTL)))
	}
	categorize := categorizedomain.NewService(suggester, categorizedomain.Config{
		MinConfidence: cfg.Categorize.MinConfidence,
	}, categorizeOpts...)

	var registry *prometheus.Registry
	if cfg.MetricsEnabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	log.Info("app: initializing router")
	handlers := handler.New(households, ledger, analytics, categorize, log)
	router := httpserver.NewRouter(cfg, handlers, users, registry, log)

	application.httpServer = httpserver.New(cfg, router)
	return application, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

// Run serves HTTP until ctx is cancelled or the listener fails, then drains
// in-flight requests for at most HTTP_SHUTDOWN_TIMEOUT.
func (a *App) Run(ctx context.Context) error {
	return serve(ctx, a.httpServer, a.cfg.ShutdownTimeout, a.log)
}

func (a *App) Close() error {
	var errs []error
	if a.publisher != nil {
		errs = append(errs, a.publisher.Close())
	}
	if a.db != nil {
		errs = append(errs, db.Close(a.db))
	}
	return errors.Join(errs...)
}
