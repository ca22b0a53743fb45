package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"tubefeed/internal/acquire"
	"tubefeed/internal/config"
	"tubefeed/internal/discovery"
	"tubefeed/internal/feed"
	"tubefeed/internal/ingest"
	"tubefeed/internal/reconcile"
	"tubefeed/internal/services/ffprobe"
	"tubefeed/internal/services/ytdlp"
	"tubefeed/internal/store"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var sourceID string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Discover new episodes from every registered source",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store, logger *slog.Logger) error {
				summary, err := runIngest(cmd.Context(), st, logger, sourceID)
				if err != nil {
					return err
				}
				printIngestSummary(cmd, summary)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&sourceID, "source", "", "Ingest a single source instead of all")
	return cmd
}

func newAcquireCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "acquire",
		Short: "Download one batch of pending episodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store, logger *slog.Logger) error {
				summary, err := runAcquire(cmd.Context(), cfg, st, logger)
				if err != nil {
					return err
				}
				printAcquireSummary(cmd, summary)
				return nil
			})
		},
	}
}

func newReconcileCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Mark published episodes whose files have disappeared",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store, logger *slog.Logger) error {
				summary, err := reconcile.New(cfg, st, logger).Run(cmd.Context())
				if err != nil {
					return err
				}
				printReconcileSummary(cmd, summary)
				return nil
			})
		},
	}
}

func newRenderCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Write the podcast feed document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store, logger *slog.Logger) error {
				count, err := runRender(cmd.Context(), cfg, st, logger)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Feed written to %s (%d episodes)\n", cfg.FeedPath(), count)
				return nil
			})
		},
	}
}

func newRefreshCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Run ingest, acquire, reconcile, and render in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store, logger *slog.Logger) error {
				runCtx := cmd.Context()

				ingested, err := runIngest(runCtx, st, logger, "")
				if err != nil {
					return err
				}
				printIngestSummary(cmd, ingested)

				acquired, err := runAcquire(runCtx, cfg, st, logger)
				if err != nil {
					return err
				}
				printAcquireSummary(cmd, acquired)

				reconciled, err := reconcile.New(cfg, st, logger).Run(runCtx)
				if err != nil {
					return err
				}
				printReconcileSummary(cmd, reconciled)

				count, err := runRender(runCtx, cfg, st, logger)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Feed written to %s (%d episodes)\n", cfg.FeedPath(), count)
				return nil
			})
		},
	}
}

func runIngest(ctx context.Context, st *store.Store, logger *slog.Logger, sourceID string) (ingest.Summary, error) {
	runner := ingest.New(st, discovery.New(logger), logger)
	if sourceID != "" {
		return runner.RunSource(ctx, sourceID)
	}
	return runner.Run(ctx)
}

func runAcquire(ctx context.Context, cfg *config.Config, st *store.Store, logger *slog.Logger) (acquire.Summary, error) {
	pipeline := acquire.New(cfg, st, ytdlp.New(cfg, logger), ffprobe.New(cfg, logger), logger)
	return pipeline.Run(ctx)
}

func runRender(ctx context.Context, cfg *config.Config, st *store.Store, logger *slog.Logger) (int, error) {
	entries, err := feed.NewProjector(st, logger).Project(ctx)
	if err != nil {
		return 0, err
	}
	renderer := feed.NewRenderer(cfg, logger)
	doc, err := renderer.Render(entries)
	if err != nil {
		return 0, err
	}
	if err := renderer.WriteFile(doc); err != nil {
		return 0, err
	}
	return len(entries), nil
}

func printIngestSummary(cmd *cobra.Command, s ingest.Summary) {
	fmt.Fprintf(cmd.OutOrStdout(), "Ingest: %d sources, %d discovered, %d filtered, %d inserted, %d failed\n",
		s.Sources, s.Discovered, s.Filtered, s.Inserted, s.Failed)
}

func printAcquireSummary(cmd *cobra.Command, s acquire.Summary) {
	fmt.Fprintf(cmd.OutOrStdout(), "Acquire: %d selected, %d published, %d skipped, %d failed\n",
		s.Selected, s.Published, s.Skipped, s.Failed)
}

func printReconcileSummary(cmd *cobra.Command, s reconcile.Summary) {
	fmt.Fprintf(cmd.OutOrStdout(), "Reconcile: %d published, %d missing\n",
		s.Published, s.Missing)
}
