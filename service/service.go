// Package service assembles the agent extension: configuration, metrics,
// the log sink chain, the check registry, provider discovery and the HTTP
// gateway, with one Run loop owning their lifecycle.
package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/c360/agentkit/check"
	"github.com/c360/agentkit/config"
	"github.com/c360/agentkit/errors"
	gatewayhttp "github.com/c360/agentkit/gateway/http"
	"github.com/c360/agentkit/loader"
	"github.com/c360/agentkit/metric"
	"github.com/c360/agentkit/natsclient"
	"github.com/c360/agentkit/providers"
)

// connectTimeout bounds the initial NATS connection attempt. Startup
// continues without the remote sink when it expires.
const connectTimeout = 10 * time.Second

// logSource identifies this process in forwarded log entries.
const logSource = "agentkit"

// Service owns the assembled extension layer.
type Service struct {
	config    *config.Config
	logger    *slog.Logger
	metrics   *metric.MetricsRegistry
	registry  *check.Registry
	namespace *loader.Namespace
	loader    *loader.Loader
	nats      *natsclient.Client
	logStream *gatewayhttp.LogStream
	gateway   *gatewayhttp.Server
}

// New assembles a service from configuration. Nothing is connected or
// listening yet; Run does that.
func New(cfg *config.Config, logger *slog.Logger) (*Service, error) {
	if cfg == nil {
		return nil, errors.WrapInvalid(errors.ErrMissingConfig, "Service", "New", "config check")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Service{
		config:  cfg,
		logger:  logger,
		metrics: metric.NewMetricsRegistry(),
	}

	// The sink chain is decided once here: an optional NATS remote sink at
	// the bottom, the gateway log stream on top when the gateway is enabled.
	var sink check.Sink
	if cfg.Log.Sink == config.SinkNATS {
		s.nats = natsclient.New(cfg.NATS.URL,
			natsclient.WithLogger(logger),
			natsclient.WithName(logSource),
		)
		sink = natsclient.NewLogSink(s.nats, cfg.NATS.SubjectPrefix, logSource, logger)
	}
	if cfg.GatewayEnabled() {
		s.logStream = gatewayhttp.NewLogStream(sink)
		sink = s.logStream
	}
	agentLogger := check.NewLogger(sink)

	s.registry = check.NewRegistry(
		check.WithLogger(agentLogger),
		check.WithMetrics(s.metrics.CoreMetrics()),
		check.WithItemTimeout(cfg.Provider.ItemTimeout.Std()),
	)

	s.namespace = loader.NewNamespace()
	if err := providers.Register(s.namespace); err != nil {
		return nil, err
	}
	s.loader = loader.New(s.namespace, s.registry, agentLogger, cfg.Provider.Exclude...)

	if cfg.GatewayEnabled() {
		s.gateway = gatewayhttp.NewServer(gatewayhttp.Config{
			Listen:    cfg.Gateway.Listen,
			RateLimit: cfg.Gateway.RateLimit,
			RateBurst: cfg.Gateway.RateBurst,
		}, s.registry, s.metrics, s.logStream, agentLogger)
	}

	return s, nil
}

// Registry returns the check registry. Exposed for embedding hosts.
func (s *Service) Registry() *check.Registry {
	return s.registry
}

// Run starts the service and blocks until ctx is canceled or a fatal error
// occurs. Cancellation is a clean shutdown, not an error.
func (s *Service) Run(ctx context.Context) error {
	if err := s.start(ctx); err != nil {
		return err
	}
	defer s.shutdown()

	g, gctx := errgroup.WithContext(ctx)
	if s.gateway != nil {
		g.Go(func() error { return s.gateway.Serve(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		return gctx.Err()
	})

	if err := g.Wait(); err != nil && !stderrors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// start connects the remote sink and initializes the registry through
// provider discovery.
func (s *Service) start(ctx context.Context) error {
	if s.nats != nil {
		connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		err := s.nats.Connect(connectCtx)
		cancel()
		if err != nil {
			// The remote sink degrades to local mirroring until NATS
			// reconnects; startup proceeds.
			s.logger.Warn("remote log sink unavailable", "error", err)
		}
	}

	return s.registry.Init(s.discover)
}

// discover runs provider discovery over the configured search path. A
// missing search path disables discovery instead of failing startup.
func (s *Service) discover() error {
	path := s.config.Provider.Path
	if _, err := os.Stat(path); os.IsNotExist(err) {
		s.logger.Warn("provider search path missing, skipping discovery", "path", path)
		return nil
	}

	loaded, err := s.loader.DiscoverAndLoad(path)
	if err != nil {
		return err
	}
	s.logger.Info("provider discovery complete",
		"path", path, "providers", len(loaded))
	return nil
}

// shutdown releases external resources in reverse start order.
func (s *Service) shutdown() {
	if s.logStream != nil {
		s.logStream.Close()
	}
	if s.nats != nil {
		s.nats.Close()
	}
	s.logger.Info(fmt.Sprintf("%s stopped", logSource))
}
