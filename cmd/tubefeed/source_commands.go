package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"tubefeed/internal/config"
	"tubefeed/internal/store"
)

type sourcePolicyFlags struct {
	kind        string
	minLength   int
	mustContain string
	titleRemove string
}

func (f *sourcePolicyFlags) register(cmd *cobra.Command, includeKind bool) {
	if includeKind {
		cmd.Flags().StringVar(&f.kind, "kind", string(store.KindChannel), "Source kind (channel or playlist)")
	}
	cmd.Flags().IntVar(&f.minLength, "min-length", 0, "Minimum episode duration in minutes; shorter downloads are skipped")
	cmd.Flags().StringVar(&f.mustContain, "must-contain", "", "Only ingest titles containing this substring (case-insensitive)")
	cmd.Flags().StringVar(&f.titleRemove, "title-remove", "", "Substring removed from ingested titles (case-insensitive)")
}

func newSourceCommand(ctx *commandContext) *cobra.Command {
	sourceCmd := &cobra.Command{
		Use:   "source",
		Short: "Manage watched channels and playlists",
	}

	sourceCmd.AddCommand(newSourceAddCommand(ctx))
	sourceCmd.AddCommand(newSourceSetCommand(ctx))
	sourceCmd.AddCommand(newSourceListCommand(ctx))

	return sourceCmd
}

func newSourceAddCommand(ctx *commandContext) *cobra.Command {
	var flags sourcePolicyFlags

	cmd := &cobra.Command{
		Use:   "add <id> <name>",
		Short: "Register a source to watch",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := store.ParseKind(flags.kind)
			if !ok {
				return fmt.Errorf("unknown source kind %q (expected channel or playlist)", flags.kind)
			}

			return ctx.withStore(func(cfg *config.Config, st *store.Store, logger *slog.Logger) error {
				src := store.Source{
					ID:          strings.TrimSpace(args[0]),
					Kind:        kind,
					Name:        strings.TrimSpace(args[1]),
					MinLength:   flags.minLength,
					MustContain: flags.mustContain,
					TitleRemove: flags.titleRemove,
				}
				if err := st.AddSource(cmd.Context(), src); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registered %s %s (%s)\n", src.Kind, src.ID, src.Name)
				return nil
			})
		},
	}

	flags.register(cmd, true)
	return cmd
}

func newSourceSetCommand(ctx *commandContext) *cobra.Command {
	var flags sourcePolicyFlags
	var name string

	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Update the policy of a registered source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store, logger *slog.Logger) error {
				id := strings.TrimSpace(args[0])
				current, err := st.GetSource(cmd.Context(), id)
				if err != nil {
					return err
				}
				if current == nil {
					return fmt.Errorf("source %s: %w", id, store.ErrSourceNotFound)
				}

				next := *current
				if cmd.Flags().Changed("name") {
					next.Name = strings.TrimSpace(name)
				}
				if cmd.Flags().Changed("min-length") {
					next.MinLength = flags.minLength
				}
				if cmd.Flags().Changed("must-contain") {
					next.MustContain = flags.mustContain
				}
				if cmd.Flags().Changed("title-remove") {
					next.TitleRemove = flags.titleRemove
				}

				if err := st.UpdateSourcePolicy(cmd.Context(), next); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", id)
				return nil
			})
		},
	}

	flags.register(cmd, false)
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	return cmd
}

func newSourceListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store, logger *slog.Logger) error {
				sources, err := st.ListSources(cmd.Context())
				if err != nil {
					return err
				}
				if len(sources) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No sources registered")
					return nil
				}

				rows := make([][]string, 0, len(sources))
				for _, src := range sources {
					rows = append(rows, []string{
						src.ID,
						string(src.Kind),
						src.Name,
						fmt.Sprintf("%d", src.MinLength),
						src.MustContain,
						src.TitleRemove,
					})
				}
				headers := []string{"ID", "Kind", "Name", "Min (min)", "Must Contain", "Title Remove"}
				aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
				return nil
			})
		},
	}
}
