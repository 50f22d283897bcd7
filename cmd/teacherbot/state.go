package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/engine"
	jsonx "github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/shared/json"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/state"
)

func newStateCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or reset the persisted bot state",
	}
	cmd.AddCommand(newStateShowCommand(opts), newStateResetCommand(opts))
	return cmd
}

func newStateShowCommand(opts *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the stored state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format := strings.ToLower(strings.TrimSpace(output))
			switch format {
			case "summary", "json", "yaml":
			default:
				return &engine.ConfigurationError{Keys: []string{"output"}, Reason: fmt.Sprintf("unknown format %q", output)}
			}

			ctx := cmd.Context()
			cfg, _, err := opts.loadConfig()
			if err != nil {
				return err
			}
			c, err := buildContainer(ctx, cfg, containerOptions{logOut: opts.stderr})
			if err != nil {
				return err
			}
			defer closeContainer(c)

			st, err := c.repo.Load(ctx)
			if err != nil {
				return err
			}
			out, err := renderState(st, format)
			if err != nil {
				return err
			}
			_, err = opts.stdout.Write(out)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "summary", "output format (summary|json|yaml)")
	return cmd
}

func newStateResetCommand(opts *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the stored state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete state without --yes")
			}
			ctx := cmd.Context()
			cfg, _, err := opts.loadConfig()
			if err != nil {
				return err
			}
			c, err := buildContainer(ctx, cfg, containerOptions{logOut: opts.stderr})
			if err != nil {
				return err
			}
			defer closeContainer(c)

			if err := c.repo.Reset(ctx); err != nil {
				return err
			}
			fmt.Fprintf(opts.stdout, "%s state %s removed from %s store\n", green("✔"), bold(c.repo.Key()), cfg.Store.Backend)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}

func renderState(st *state.GlobalState, format string) ([]byte, error) {
	switch format {
	case "json":
		return jsonx.MarshalPretty(st)
	case "yaml":
		// Round-trip through JSON so YAML keys follow the stored field names.
		raw, err := jsonx.Marshal(st)
		if err != nil {
			return nil, err
		}
		var generic map[string]any
		if err := jsonx.Unmarshal(raw, &generic); err != nil {
			return nil, err
		}
		return yaml.Marshal(generic)
	default:
		return []byte(summarizeState(st)), nil
	}
}

func summarizeState(st *state.GlobalState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d\n", bold("Version:"), st.Version)
	teacher := gray("(not bound)")
	if st.TeacherID != nil {
		teacher = fmt.Sprintf("%d", *st.TeacherID)
	}
	fmt.Fprintf(&b, "%s %s, shown as %q\n", bold("Teacher:"), teacher, st.TeacherDisplayName)
	prefix := "off"
	if st.ReplyPrefixEnabled {
		prefix = "on"
	}
	fmt.Fprintf(&b, "%s %s\n", bold("Reply prefix:"), prefix)
	if st.DefaultClassCode != "" {
		fmt.Fprintf(&b, "%s %s\n", bold("Default class:"), st.DefaultClassCode)
	}

	codes := make([]string, 0, len(st.Classes))
	for code := range st.Classes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	if len(codes) == 0 {
		fmt.Fprintf(&b, "%s %s\n", bold("Classes:"), gray("none"))
		return b.String()
	}
	fmt.Fprintf(&b, "%s\n", bold("Classes:"))
	for _, code := range codes {
		rec := st.Classes[code]
		fmt.Fprintf(&b, "  %s general=%s parents=%s\n", cyan(code), chatRef(rec.GeneralChatID), chatRef(rec.ParentsChatID))
		slots := []struct {
			name string
			slot *state.ArtifactSlot
		}{
			{"schedule", rec.Schedule},
			{"bus", rec.Bus},
			{"shuttle", rec.Shuttle},
			{"bells", rec.Bells},
		}
		for _, s := range slots {
			mark := gray("-")
			if s.slot != nil && s.slot.FileID != "" {
				mark = green(string(s.slot.Kind))
			}
			fmt.Fprintf(&b, "    %-9s %s\n", s.name, mark)
		}
		fmt.Fprintf(&b, "    %-9s %d\n", "balance", len(rec.CardBalanceMedia))
		fmt.Fprintf(&b, "    %-9s %d\n", "topup", len(rec.CardTopupMedia))
	}
	return b.String()
}

func chatRef(id *int64) string {
	if id == nil {
		return gray("-")
	}
	return fmt.Sprintf("%d", *id)
}
