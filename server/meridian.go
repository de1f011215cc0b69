package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/raystack/salt/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	v1handler "github.com/odpf/meridian/api/handler/v1"
	"github.com/odpf/meridian/config"
	"github.com/odpf/meridian/core/bus"
	"github.com/odpf/meridian/core/export"
	"github.com/odpf/meridian/core/namespace"
	"github.com/odpf/meridian/core/namespace/service"
	"github.com/odpf/meridian/ext/envstore"
	"github.com/odpf/meridian/internal/store/postgres"
)

const shutdownWait = 30 * time.Second

type setupFn func() error

type MeridianServer struct {
	conf   config.ServerConfig
	logger log.Logger

	dbConn     *gorm.DB
	envs       *envstore.Registry
	eventBus   *bus.Bus
	serverAddr string
	httpServer *http.Server

	cleanupFn []func()
}

func New(conf config.ServerConfig) (*MeridianServer, error) {
	addr := fmt.Sprintf("%s:%d", conf.Serve.Host, conf.Serve.Port)
	server := &MeridianServer{
		conf:       conf,
		serverAddr: addr,
		logger:     createLogger(conf.Log),
	}

	if err := config.Validate(&conf); err != nil {
		return server, err
	}

	setupFns := []setupFn{
		server.setupDB,
		server.setupEnvironments,
		server.setupEventBus,
		server.setupHandlers,
	}

	for _, fn := range setupFns {
		if err := fn(); err != nil {
			return server, err
		}
	}

	server.logger.Info("starting meridian", "address", addr)
	server.startListening()

	return server, nil
}

func (s *MeridianServer) setupDB() error {
	dbConf := postgres.DBConfig{
		DSN:               s.conf.Serve.DB.DSN,
		MaxIdleConnection: s.conf.Serve.DB.MaxIdleConnection,
		MaxOpenConnection: s.conf.Serve.DB.MaxOpenConnection,
	}

	dbConn, err := postgres.Connect(dbConf)
	if err != nil {
		return fmt.Errorf("postgres.Connect: %w", err)
	}
	if err := postgres.Migrate(dbConn); err != nil {
		return fmt.Errorf("postgres.Migrate: %w", err)
	}
	s.dbConn = dbConn
	return nil
}

func (s *MeridianServer) setupEnvironments() error {
	registry, err := envstore.NewRegistryFromConfigs(s.conf.Envs)
	if err != nil {
		return err
	}
	s.envs = registry
	return nil
}

// setupEventBus wires a listener that records app-namespace lifecycle
// notifications, keeping an audit trail in the server log.
func (s *MeridianServer) setupEventBus() error {
	s.eventBus = bus.New()

	events := make(chan interface{}, 16)
	s.eventBus.Listen(namespace.EventAppNamespaceCreated, events)
	s.eventBus.Listen(namespace.EventAppNamespaceDeleted, events)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for data := range events {
			event, ok := data.(namespace.AppNamespaceEvent)
			if !ok {
				continue
			}
			s.logger.Info("appnamespace lifecycle notification",
				"app", event.AppID.String(), "namespace", event.Name.String(), "public", event.Public)
		}
	}()

	s.cleanupFn = append(s.cleanupFn, func() {
		_ = s.eventBus.Stop(namespace.EventAppNamespaceCreated, events)
		_ = s.eventBus.Stop(namespace.EventAppNamespaceDeleted, events)
		close(events)
		<-done
	})
	return nil
}

func (s *MeridianServer) setupHandlers() error {
	appNamespaceRepo := postgres.NewAppNamespaceRepository(s.dbConn)

	environments := make([]namespace.Environment, 0, len(s.conf.Envs))
	for _, envConf := range s.conf.Envs {
		environments = append(environments, namespace.Environment(envConf.Name))
	}

	hidden := make([]namespace.Name, 0, len(s.conf.Export.HiddenNamespaces))
	for _, raw := range s.conf.Export.HiddenNamespaces {
		name, err := namespace.NameFrom(raw)
		if err != nil {
			return err
		}
		hidden = append(hidden, name)
	}
	guard := newNamespaceGuard(hidden)

	appNamespaceService := service.NewAppNamespaceService(s.logger, appNamespaceRepo, s.eventBus)
	namespaceService := service.NewNamespaceService(s.envs, appNamespaceRepo, environments)
	reconcileService := service.NewReconcileService(appNamespaceRepo, s.envs)
	provisionService := service.NewProvisionService(s.logger, reconcileService, appNamespaceRepo, s.envs)
	exportPipeline := export.NewPipeline(s.logger, appNamespaceRepo, s.envs, guard, hidden)

	router := mux.NewRouter()
	router.Path("/ping").HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, "pong")
	})
	router.Path("/version").HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, config.BuildVersion)
	})
	router.Path("/metrics").Handler(promhttp.Handler())

	nsHandler := v1handler.NewNamespaceHandler(s.logger, appNamespaceService, namespaceService,
		reconcileService, provisionService, guard)
	exportHandler := v1handler.NewExportHandler(s.logger, namespaceService, exportPipeline, guard)
	v1handler.RegisterRoutes(router, nsHandler, exportHandler)

	s.httpServer = &http.Server{
		Handler: router,
		Addr:    s.serverAddr,
	}
	return nil
}

func (s *MeridianServer) startListening() {
	// run in a goroutine so that it doesn't block to wait for termination requests
	go func() {
		s.logger.Info("listening at", "address", s.serverAddr)
		if err := s.httpServer.ListenAndServe(); err != nil {
			if err != http.ErrServerClosed {
				s.logger.Fatal("server error", "error", err)
			}
		}
	}()
}

func (s *MeridianServer) Shutdown() {
	s.logger.Warn("shutting down server")
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownWait)
		defer cancel()

		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("error in http shutdown", "error", err)
		}
	}

	for _, fn := range s.cleanupFn {
		fn()
	}

	if s.dbConn != nil {
		sqlConn, err := s.dbConn.DB()
		if err != nil {
			s.logger.Error("error while getting sqlConn", "error", err)
		} else if err := sqlConn.Close(); err != nil {
			s.logger.Error("error in sqlConn.Close", "error", err)
		}
	}

	s.logger.Info("server shutdown complete")
}
