package side_web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"tarediiran-industries.com/side-services/internal/common"
	"tarediiran-industries.com/side-services/internal/datasource"
	"tarediiran-industries.com/side-services/internal/refresh"
)

type SideWebServer struct {
	source      datasource.Source
	controller  *refresh.Controller
	server      *http.Server
	renderer    *Renderer
	telemetry   *common.TelemetryServer
	logger      *zap.Logger
	pollSeconds int
	now         func() time.Time
}

func NewSideWebServer(cfg Config, logger *zap.Logger) (*SideWebServer, error) {
	var registry prometheus.Registerer = prometheus.NewRegistry()
	var telemetry *common.TelemetryServer
	if cfg.TelemetryAddress != "" {
		telemetry = common.NewTelemetryServer(cfg.TelemetryAddress, logger.Named("telemetry"))
		registry = telemetry.GetRegistry()
	}
	metrics := common.NewMetrics(registry)

	source, err := newSource(cfg, metrics, logger)
	if err != nil {
		return nil, err
	}

	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}

	controller := refresh.NewController(
		source,
		refresh.Key{Server: cfg.DefaultServer, LayoutNumber: cfg.DefaultLayout},
		refresh.WithLogger(logger.Named("refresh")),
		refresh.WithMetrics(metrics),
		refresh.WithRepollInterval(cfg.RepollInterval),
		refresh.WithReducer(refresh.Reducer{ExcludeServers: cfg.ExcludeServers, ActiveOnly: cfg.ActiveOnly}),
	)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  zap.NewStdLog(logger.Named("http")),
		NoColor: true,
	}))
	router.Use(middleware.Recoverer)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	server := &SideWebServer{
		source:      source,
		controller:  controller,
		server:      httpServer,
		renderer:    renderer,
		telemetry:   telemetry,
		logger:      logger,
		pollSeconds: cfg.PollSeconds,
		now:         time.Now,
	}

	router.Get("/", func(writer http.ResponseWriter, request *http.Request) {
		http.Redirect(writer, request, "/dashboard", http.StatusFound)
	})
	router.Route("/dashboard", func(r chi.Router) {
		r.Get("/", server.handleDashboardPage)
		r.Get("/map", server.handleMapPartial)
		r.Get("/trains", server.handleTrainsPartial)
		r.Get("/detail", server.handleDetailPartial)
		r.Get("/status", server.handleStatus)
		r.Get("/feed", server.handleFeed)
		r.Post("/selection", server.handleSelection)
		r.Post("/refresh", server.handleRefresh)
		r.Post("/trains/clear", server.handleClearTrain)
		r.Post("/trains/{trainNo}/select", server.handleSelectTrain)
	})

	return server, nil
}

func newSource(cfg Config, metrics *common.Metrics, logger *zap.Logger) (datasource.Source, error) {
	if cfg.Mock {
		logger.Warn("serving mock data")
		return datasource.NewMockSource(), nil
	}

	opts := []datasource.Option{
		datasource.WithMetrics(metrics),
		datasource.WithLogger(logger.Named("datasource")),
	}
	if cfg.RequestTimeout > 0 {
		opts = append(opts, datasource.WithTimeout(cfg.RequestTimeout))
	}
	client, err := datasource.NewClient(cfg.ApiBaseUrl, opts...)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (server *SideWebServer) Handler() http.Handler {
	return server.server.Handler
}

// Serve runs the controller and the listener until ctx is done.
func (server *SideWebServer) Serve(ctx context.Context) error {
	if server.telemetry != nil {
		if err := server.telemetry.Start(); err != nil {
			return err
		}
		defer server.telemetry.Stop()
	}

	runCtx, stopController := context.WithCancel(ctx)
	defer stopController()

	controllerDone := make(chan struct{})
	go func() {
		defer close(controllerDone)
		server.controller.Run(runCtx)
	}()

	serveErr := make(chan error, 1)
	go func() {
		err := server.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	server.logger.Info("listening", zap.String("addr", server.server.Addr))

	var err error
	select {
	case <-ctx.Done():
		server.logger.Info("shutting down")
	case err = <-serveErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if shutdownErr := server.server.Shutdown(shutdownCtx); shutdownErr != nil && err == nil {
		err = shutdownErr
	}
	stopController()
	<-controllerDone
	return err
}
