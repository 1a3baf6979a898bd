package cmd

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/permy/audit"
	"github.com/dev-mohitbeniwal/permy/catalog"
	"github.com/dev-mohitbeniwal/permy/config"
	"github.com/dev-mohitbeniwal/permy/controller"
	"github.com/dev-mohitbeniwal/permy/dao"
	"github.com/dev-mohitbeniwal/permy/db"
	logger "github.com/dev-mohitbeniwal/permy/logging"
	"github.com/dev-mohitbeniwal/permy/metrics"
	"github.com/dev-mohitbeniwal/permy/middleware"
	"github.com/dev-mohitbeniwal/permy/pdp/engine"
	"github.com/dev-mohitbeniwal/permy/router"
	"github.com/dev-mohitbeniwal/permy/routes"
	"github.com/dev-mohitbeniwal/permy/service"
	"github.com/dev-mohitbeniwal/permy/util"
)

// app wires the decision engine and everything around it.
type app struct {
	cfg      *config.Configuration
	store    dao.Store
	routes   *routes.Cache
	engine   *engine.Engine
	catalog  *catalog.Builder
	metrics  *metrics.Metrics
	eventBus *util.EventBus
	services *service.Services
	router   *gin.Engine

	redisReady bool
	closers    []func()
}

// ginRoutes lists the routes of a gin engine that is built after the route
// cache.
type ginRoutes struct {
	engine *gin.Engine
}

func (g *ginRoutes) Routes() gin.RoutesInfo {
	if g.engine == nil {
		return nil
	}
	return g.engine.Routes()
}

func newApp(ctx context.Context, cfg *config.Configuration, serving bool) (*app, error) {
	a := &app{cfg: cfg}

	store, err := a.openStore()
	if err != nil {
		a.close()
		return nil, err
	}
	if cfg.Store.CacheTTL > 0 && a.initRedis() {
		store = dao.NewCachedStore(store, db.RedisClient, cfg.Store.CacheTTL)
	}
	a.store = store

	lister := &ginRoutes{}
	var source routes.Source
	switch cfg.Permy.RoutesSource {
	case config.RoutesSourceGin:
		source = routes.NewGinSource(lister, routes.WithMiddleware(cfg.Permy.Filters...))
	default:
		source = routes.NewManifestSource(cfg.Permy.RoutesFile)
	}
	a.routes = routes.NewCache(source)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.metrics = metrics.New(reg)

	notificationService := util.NewNotificationService()
	a.engine = engine.New(a.routes, a.store, cfg.Policy(),
		engine.WithSink(engine.MultiSink{notificationService, a.metrics.Sink()}))
	a.catalog = catalog.NewBuilder(a.routes, catalog.NewFileStore(cfg.Permy.LabelsFile), cfg.Permy.Filters, notificationService)

	a.eventBus = util.NewEventBus()
	a.eventBus.Start(ctx)
	a.closers = append(a.closers, a.eventBus.Wait)

	a.services = service.InitializeServices(
		a.engine,
		a.store,
		a.catalog,
		audit.NewService(a.auditRepository()),
		util.NewValidationUtil(),
		a.eventBus,
		a.metrics,
	)

	opts := router.Options{
		AuthSecret: cfg.Auth.Secret,
		Metrics:    a.metrics,
	}
	if cfg.Server.GuardAPI {
		opts.Authorizer = a.services.Permission
	}
	if serving && cfg.RateLimit.Requests > 0 && a.initRedis() {
		opts.RateLimitRequests = cfg.RateLimit.Requests
		opts.RateLimitDuration = cfg.RateLimit.Window
		opts.Limiter = middleware.RedisLimit(db.RedisClient)
	}
	a.router = router.SetupRouter(controller.InitializeControllers(a.services), opts)
	lister.engine = a.router

	return a, nil
}

func (a *app) openStore() (dao.Store, error) {
	var store dao.Store
	switch a.cfg.Store.Driver {
	case config.DriverPostgres:
		if err := db.InitPostgres(a.cfg.Postgres); err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.ClosePostgres)
		store = dao.NewPgStore(db.Postgres)
	case config.DriverNeo4j:
		if err := db.InitNeo4j(a.cfg.Neo4j); err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.CloseNeo4j)
		store = dao.NewNeo4jStore(nil, nil)
	case config.DriverMemory:
		memory, err := dao.LoadMemoryStore(a.cfg.Store.FixturesFile)
		if err != nil {
			return nil, err
		}
		store = memory
	default:
		return nil, fmt.Errorf("unknown store driver %q", a.cfg.Store.Driver)
	}
	return store, nil
}

// initRedis connects once; without Redis the cache and the rate limiter
// are skipped.
func (a *app) initRedis() bool {
	if a.redisReady {
		return true
	}
	if err := db.InitRedis(a.cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, continuing without it", zap.Error(err))
		return false
	}
	a.redisReady = true
	a.closers = append(a.closers, db.CloseRedis)
	return true
}

func (a *app) auditRepository() audit.Repository {
	if a.cfg.Elasticsearch.URL == "" {
		return audit.NopRepository{}
	}
	repo, err := audit.NewElasticsearchRepository(a.cfg.Elasticsearch.URL)
	if err != nil {
		logger.Warn("Elasticsearch unavailable, decisions will not be audited", zap.Error(err))
		return audit.NopRepository{}
	}
	return repo
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
