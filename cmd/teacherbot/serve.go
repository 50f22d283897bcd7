package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/channels/telegram"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/logging"
	serverhttp "github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/server/http"
)

const closeTimeout = 5 * time.Second

func newServeCommand(opts *rootOptions) *cobra.Command {
	var poll bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook HTTP server",
		Long:  "Run the HTTP server that receives Telegram webhook deliveries and exposes /health, /metrics and /api/state. With --poll the bot also pulls updates with getUpdates.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts, poll)
		},
	}
	cmd.Flags().BoolVar(&poll, "poll", false, "also long-poll getUpdates (the webhook must not be registered)")
	return cmd
}

func runServe(ctx context.Context, opts *rootOptions, poll bool) error {
	cfg, _, err := opts.loadConfig()
	if err != nil {
		return err
	}
	c, err := buildContainer(ctx, cfg, containerOptions{telegram: true, logOut: opts.stderr})
	if err != nil {
		return err
	}
	defer closeContainer(c)

	router := serverhttp.NewRouter(serverhttp.RouterDeps{
		Gateway:        c.gateway,
		State:          c.repo,
		WebhookPath:    cfg.Server.WebhookPath,
		WebhookSecret:  cfg.Telegram.WebhookSecret,
		AdminToken:     cfg.Server.AdminToken,
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		Version:        version,
		Logger:         logging.NewComponentLogger("http"),
		Metrics:        c.metrics,
		Tracer:         c.tracer,
	})
	server := serverhttp.NewServer(cfg.Server.Addr, router, logging.NewComponentLogger("http"))

	fmt.Fprintf(opts.stdout, "%s teacherbot %s on %s (webhook %s, store %s)\n",
		green("▶"), version, bold(cfg.Server.Addr), cyan(cfg.Server.WebhookPath), cfg.Store.Backend)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx)
	})
	if poll {
		poller := telegram.NewPoller(c.client, c.gateway, telegram.PollerConfig{
			Timeout: cfg.Telegram.PollTimeout,
			Logger:  logging.NewComponentLogger("poller"),
		})
		g.Go(func() error {
			return poller.Run(gctx)
		})
	}
	return g.Wait()
}

func newPollCommand(opts *rootOptions) *cobra.Command {
	var keepWebhook bool
	cmd := &cobra.Command{
		Use:   "poll",
		Short: "Pull updates with getUpdates instead of a webhook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, _, err := opts.loadConfig()
			if err != nil {
				return err
			}
			c, err := buildContainer(ctx, cfg, containerOptions{telegram: true, logOut: opts.stderr})
			if err != nil {
				return err
			}
			defer closeContainer(c)

			if !keepWebhook {
				// getUpdates is refused while a webhook is registered.
				if err := c.client.DeleteWebhook(ctx, false); err != nil {
					return fmt.Errorf("delete webhook: %w", err)
				}
			}
			fmt.Fprintf(opts.stdout, "%s polling as %s (store %s)\n", green("▶"), bold("teacherbot "+version), cfg.Store.Backend)
			poller := telegram.NewPoller(c.client, c.gateway, telegram.PollerConfig{
				Timeout: cfg.Telegram.PollTimeout,
				Logger:  logging.NewComponentLogger("poller"),
			})
			return poller.Run(ctx)
		},
	}
	cmd.Flags().BoolVar(&keepWebhook, "keep-webhook", false, "do not delete a registered webhook before polling")
	return cmd
}

func closeContainer(c *container) {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := c.Close(ctx); err != nil {
		c.logger.Warn("Shutdown: %v", err)
	}
}
