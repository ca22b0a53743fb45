package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"tubefeed/internal/config"
	"tubefeed/internal/store"
)

func newEpisodeCommand(ctx *commandContext) *cobra.Command {
	episodeCmd := &cobra.Command{
		Use:   "episode",
		Short: "Inspect tracked episodes",
	}

	episodeCmd.AddCommand(newEpisodeListCommand(ctx))

	return episodeCmd
}

func newEpisodeListCommand(ctx *commandContext) *cobra.Command {
	var statusFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked episodes in publication order",
		RunE: func(cmd *cobra.Command, args []string) error {
			var want store.Status
			if statusFlag != "" {
				status, ok := store.ParseStatus(statusFlag)
				if !ok {
					return fmt.Errorf("unknown status %q", statusFlag)
				}
				want = status
			}

			return ctx.withStore(func(cfg *config.Config, st *store.Store, logger *slog.Logger) error {
				episodes, err := st.ListEpisodes(cmd.Context(), store.Filter{})
				if err != nil {
					return err
				}
				if want != "" {
					kept := episodes[:0]
					for _, ep := range episodes {
						if ep.Status == want {
							kept = append(kept, ep)
						}
					}
					episodes = kept
				}
				if len(episodes) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No episodes")
					return nil
				}

				rows := make([][]string, 0, len(episodes))
				for _, ep := range episodes {
					rows = append(rows, []string{
						lifecycleMarker(ep),
						ep.ID,
						ep.SourceID,
						ep.Title,
						formatPubDate(ep.PubDate),
						formatDuration(ep.Duration),
						string(ep.Status),
					})
				}
				headers := []string{"", "ID", "Source", "Title", "Published", "Duration", "Status"}
				aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&statusFlag, "status", "", "Filter by status (pending, skipped, published, missing)")
	return cmd
}

// lifecycleMarker renders the processed/present flags as a compact +/- pair.
func lifecycleMarker(ep *store.Episode) string {
	marker := func(v bool) byte {
		if v {
			return '+'
		}
		return '-'
	}
	return string([]byte{marker(ep.Processed()), marker(ep.Present())})
}

func formatPubDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02")
}

func formatDuration(seconds int) string {
	if seconds <= 0 {
		return "-"
	}
	d := time.Duration(seconds) * time.Second
	if d >= time.Hour {
		return fmt.Sprintf("%d:%02d:%02d", int(d.Hours()), int(d.Minutes())%60, seconds%60)
	}
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), seconds%60)
}
