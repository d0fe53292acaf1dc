package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/locations-cli/internal/extract"
	"github.com/sells-group/locations-cli/internal/fetcher"
	"github.com/sells-group/locations-cli/internal/model"
	"github.com/sells-group/locations-cli/internal/scanner"
	"github.com/sells-group/locations-cli/internal/snapshot"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the store id space and export discovered locations",
	Long: `Scan probes store ids 1..max-id sequentially, extracting a location
record from each valid page. Scanning stops early once the configured number
of consecutive ids past the min-id floor yield no record.

Discovered locations are upserted into the configured store (unless
--no-store) and written as a JSON snapshot.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log := zap.L().With(zap.String("command", "scan"))

		opts := scanOptions(cmd)
		outPath, _ := cmd.Flags().GetString("out")
		if outPath == "" {
			outPath = cfg.Output.Path
		}
		noStore, _ := cmd.Flags().GetBool("no-store")

		f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
			UserAgent:  cfg.Site.UserAgent,
			Timeout:    time.Duration(cfg.Scan.TimeoutSecs) * time.Second,
			RatePerSec: cfg.Scan.RatePerSec,
		})
		ex := extract.New(cfg.Site.BaseURL, cfg.Site.FallbackName)
		sc := scanner.New(f, ex, opts)

		log.Info("starting scan",
			zap.Int("max_id", opts.MaxID),
			zap.Int("stop_after_misses", opts.StopAfterMisses),
			zap.Int("min_id", opts.MinID),
		)

		result, err := sc.Run(ctx)
		if err != nil {
			return eris.Wrap(err, "scan")
		}

		locs := model.Collect(result.Locations)

		if !noStore {
			if err := persistScan(ctx, result, locs); err != nil {
				return err
			}
		}

		doc := snapshot.Build(cfg.Site.Source, time.Now(), locs)
		if err := snapshot.Write(outPath, doc); err != nil {
			return eris.Wrap(err, "scan")
		}

		log.Info("scan complete",
			zap.Int("ids_probed", result.IDsProbed),
			zap.Int("found", len(locs)),
			zap.Bool("stopped_early", result.StoppedEarly),
			zap.String("out", outPath),
		)
		return nil
	},
}

func init() {
	addScanFlags(scanCmd)
	rootCmd.AddCommand(scanCmd)
}

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().Int("max-id", 0, "upper scan bound (default from config)")
	cmd.Flags().Int("stop-after", 0, "consecutive-miss early-termination threshold (default from config)")
	cmd.Flags().Int("min-id", 0, "floor below which early termination never fires (default from config)")
	cmd.Flags().String("out", "", "snapshot output path (default from config)")
	cmd.Flags().Bool("no-store", false, "skip persisting to the store; write the snapshot only")
}

// scanOptions merges config defaults with explicit flag overrides.
func scanOptions(cmd *cobra.Command) scanner.Options {
	opts := scanner.Options{
		BaseURL:         cfg.Site.BaseURL,
		MaxID:           cfg.Scan.MaxID,
		StopAfterMisses: cfg.Scan.StopAfterConsecutiveMiss,
		MinID:           cfg.Scan.MinID,
		ProgressEvery:   cfg.Scan.ProgressEvery,
	}
	if cmd.Flags().Changed("max-id") {
		opts.MaxID, _ = cmd.Flags().GetInt("max-id")
	}
	if cmd.Flags().Changed("stop-after") {
		opts.StopAfterMisses, _ = cmd.Flags().GetInt("stop-after")
	}
	if cmd.Flags().Changed("min-id") {
		opts.MinID, _ = cmd.Flags().GetInt("min-id")
	}
	return opts
}

// persistScan records the run and upserts every discovered location.
func persistScan(ctx context.Context, result *scanner.Result, locs []model.Location) error {
	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		return eris.Wrap(err, "scan: open store")
	}
	defer func() { _ = st.Close() }()

	run, err := st.CreateRun(ctx)
	if err != nil {
		return eris.Wrap(err, "scan: create run")
	}

	for _, loc := range locs {
		if err := st.UpsertLocation(ctx, loc); err != nil {
			return eris.Wrap(err, "scan: persist location")
		}
	}

	if err := st.CompleteRun(ctx, run.ID, result.IDsProbed, len(locs), result.StoppedEarly); err != nil {
		return eris.Wrap(err, "scan: complete run")
	}
	return nil
}
