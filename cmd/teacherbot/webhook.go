package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/channels/telegram"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/observability"
)

func newWebhookCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Manage the Telegram webhook registration",
	}
	cmd.AddCommand(newWebhookSetCommand(opts), newWebhookDeleteCommand(opts), newWebhookInfoCommand(opts))
	return cmd
}

func newWebhookSetCommand(opts *rootOptions) *cobra.Command {
	var url string
	var dropPending bool
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Register the webhook URL with the configured secret token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(url) != "" {
				cfg.Telegram.WebhookURL = strings.TrimSpace(url)
			}
			if err := cfg.ValidateWebhook(); err != nil {
				return err
			}
			client, err := telegram.NewClient(telegram.ClientConfig{Token: cfg.Telegram.Token, BaseURL: cfg.Telegram.APIBaseURL})
			if err != nil {
				return err
			}
			if err := client.SetWebhook(cmd.Context(), telegram.WebhookOptions{
				URL:                cfg.Telegram.WebhookURL,
				SecretToken:        cfg.Telegram.WebhookSecret,
				DropPendingUpdates: dropPending,
			}); err != nil {
				return err
			}
			secret := gray("without secret")
			if cfg.Telegram.WebhookSecret != "" {
				secret = "with secret " + observability.SanitizeToken(cfg.Telegram.WebhookSecret)
			}
			fmt.Fprintf(opts.stdout, "%s webhook set to %s %s\n", green("✔"), bold(cfg.Telegram.WebhookURL), secret)
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "public HTTPS URL of the webhook endpoint (overrides telegram.webhook_url)")
	cmd.Flags().BoolVar(&dropPending, "drop-pending", false, "discard updates queued while no webhook was set")
	return cmd
}

func newWebhookDeleteCommand(opts *rootOptions) *cobra.Command {
	var dropPending bool
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Remove the webhook so updates can be polled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := opts.telegramClient()
			if err != nil {
				return err
			}
			if err := client.DeleteWebhook(cmd.Context(), dropPending); err != nil {
				return err
			}
			fmt.Fprintf(opts.stdout, "%s webhook deleted\n", green("✔"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dropPending, "drop-pending", false, "discard queued updates")
	return cmd
}

func newWebhookInfoCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the current webhook registration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := opts.telegramClient()
			if err != nil {
				return err
			}
			info, err := client.GetWebhookInfo(cmd.Context())
			if err != nil {
				return err
			}
			url := info.URL
			if url == "" {
				url = yellow("(not set, updates are polled)")
			}
			fmt.Fprintf(opts.stdout, "%s %s\n", bold("URL:"), url)
			fmt.Fprintf(opts.stdout, "%s %d\n", bold("Pending updates:"), info.PendingUpdateCount)
			if info.LastErrorMessage != "" {
				at := time.Unix(info.LastErrorDate, 0).UTC().Format(time.RFC3339)
				fmt.Fprintf(opts.stdout, "%s %s %s\n", bold("Last error:"), red(info.LastErrorMessage), gray(at))
			}
			return nil
		},
	}
}

func (o *rootOptions) telegramClient() (*telegram.Client, error) {
	cfg, _, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateTelegram(); err != nil {
		return nil, err
	}
	return telegram.NewClient(telegram.ClientConfig{Token: cfg.Telegram.Token, BaseURL: cfg.Telegram.APIBaseURL})
}
