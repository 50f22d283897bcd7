package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/channels"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/channels/telegram"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/config"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/engine"
	boterrors "github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/errors"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/logging"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/observability"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/state"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/storage/kv"
)

// container owns everything one command invocation builds.
type container struct {
	cfg     config.Config
	logger  logging.Logger
	metrics *observability.MetricsCollector
	tracer  *observability.TracerProvider
	store   kv.Store
	repo    *state.Repository

	client  *telegram.Client
	gateway *telegram.Gateway
}

type containerOptions struct {
	telegram bool
	logOut   io.Writer
}

func buildContainer(ctx context.Context, cfg config.Config, opts containerOptions) (*container, error) {
	base := observability.NewLogger(observability.LogConfig{
		Level:  cfg.Observability.Logging.Level,
		Format: cfg.Observability.Logging.Format,
		Output: opts.logOut,
	})
	logging.SetDefault(base)

	c := &container{cfg: cfg, logger: logging.NewComponentLogger("teacherbot")}

	metrics, err := observability.NewMetricsCollector(cfg.Observability.Metrics)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	c.metrics = metrics

	tracingCfg := cfg.Observability.Tracing
	if tracingCfg.ServiceVersion == "" {
		tracingCfg.ServiceVersion = version
	}
	tracer, err := observability.NewTracerProvider(tracingCfg)
	if err != nil {
		c.Close(ctx)
		return nil, fmt.Errorf("tracing: %w", err)
	}
	c.tracer = tracer

	store, err := kv.Open(ctx, cfg.StoreOptions())
	if err != nil {
		c.Close(ctx)
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	storeMetrics := metrics.Store()
	c.store = kv.Instrument(store, cfg.Store.Backend, storeMetrics)

	repoCfg := cfg.RepositoryConfig()
	repoCfg.OnVersion = storeMetrics.SetVersion
	c.repo = state.NewRepository(c.store, repoCfg)

	if !opts.telegram {
		return c, nil
	}
	if err := cfg.ValidateTelegram(); err != nil {
		c.Close(ctx)
		return nil, err
	}
	client, err := telegram.NewClient(telegram.ClientConfig{
		Token:   cfg.Telegram.Token,
		BaseURL: cfg.Telegram.APIBaseURL,
		Logger:  logging.NewComponentLogger("telegram-http"),
	})
	if err != nil {
		c.Close(ctx)
		return nil, err
	}
	c.client = client

	retry := boterrors.DefaultRetryConfig()
	retry.MaxAttempts = cfg.Telegram.RetryMaxAttempts
	transport := telegram.NewTransport(client, telegram.TransportConfig{
		SendRate: cfg.Telegram.SendRatePerSecond,
		Retry:    retry,
		Logger:   logging.NewComponentLogger("telegram"),
		Metrics:  metrics,
		Tracer:   tracer,
	})

	eng := engine.New(c.repo, transport, engine.WithLogger(logging.NewComponentLogger("engine")))
	dispatcher := channels.NewDispatcher(eng, channels.DispatcherConfig{
		StateKey: c.repo.Key(),
		Logger:   logging.NewComponentLogger("dispatcher"),
		Metrics:  metrics,
		Tracer:   tracer,
	})
	dedup, err := channels.NewDeduper(channels.DefaultDedupSize, channels.DefaultDedupTTL)
	if err != nil {
		c.Close(ctx)
		return nil, err
	}
	c.gateway = telegram.NewGateway(dispatcher, dedup, logging.NewComponentLogger("gateway"))
	return c, nil
}

// Close releases the store and flushes telemetry.
func (c *container) Close(ctx context.Context) error {
	var errs []error
	if c.store != nil {
		errs = append(errs, c.store.Close())
	}
	errs = append(errs, c.tracer.Shutdown(ctx), c.metrics.Shutdown(ctx))
	return errors.Join(errs...)
}
