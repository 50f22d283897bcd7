package main

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/config"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// isTTY reports whether w is an interactive terminal.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type rootOptions struct {
	configPath string
	token      string
	addr       string
	store      string
	logLevel   string
	logFormat  string

	stdout io.Writer
	stderr io.Writer
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{stdout: stdout, stderr: stderr}
	if !isTTY(stdout) {
		color.NoColor = true
	}

	root := &cobra.Command{
		Use:           "teacherbot",
		Short:         "Class chat assistant for a school teacher",
		Long:          "teacherbot files schedules, transport and card instructions posted by the teacher and answers parents' questions about them.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file (default ./teacherbot.yaml)")
	flags.StringVar(&opts.token, "token", "", "Telegram bot token")
	flags.StringVar(&opts.addr, "addr", "", "HTTP listen address")
	flags.StringVar(&opts.store, "store", "", "state store backend (memory|file|redis|postgres|sqlite)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug|info|warn|error)")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format (text|json)")

	root.AddCommand(
		newServeCommand(opts),
		newPollCommand(opts),
		newWebhookCommand(opts),
		newStateCommand(opts),
		newVersionCommand(opts),
	)
	return root
}

// loadConfig resolves configuration with the persistent flags as overrides.
func (o *rootOptions) loadConfig() (config.Config, config.Metadata, error) {
	loadOpts := []config.Option{
		config.WithOverrides(config.Overrides{
			TelegramToken: &o.token,
			ServerAddr:    &o.addr,
			StoreBackend:  &o.store,
			LogLevel:      &o.logLevel,
			LogFormat:     &o.logFormat,
		}),
	}
	if o.configPath != "" {
		loadOpts = append(loadOpts, config.WithConfigPath(o.configPath))
	}
	cfg, meta, err := config.Load(loadOpts...)
	if err != nil {
		return config.Config{}, config.Metadata{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, config.Metadata{}, err
	}
	return cfg, meta, nil
}
