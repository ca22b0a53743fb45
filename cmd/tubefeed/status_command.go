package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"tubefeed/internal/config"
	"tubefeed/internal/store"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show episode counts per lifecycle state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store, logger *slog.Logger) error {
				stats, err := st.Stats(cmd.Context())
				if err != nil {
					return err
				}

				total := 0
				rows := make([][]string, 0, len(store.AllStatuses())+1)
				for _, status := range store.AllStatuses() {
					count := stats[status]
					total += count
					rows = append(rows, []string{string(status), fmt.Sprintf("%d", count)})
				}
				rows = append(rows, []string{"total", fmt.Sprintf("%d", total)})

				headers := []string{"Status", "Episodes"}
				aligns := []columnAlignment{alignLeft, alignRight}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
				return nil
			})
		},
	}
}
