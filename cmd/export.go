package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/locations-cli/internal/snapshot"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a snapshot from stored locations without scanning",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		outPath, _ := cmd.Flags().GetString("out")
		if outPath == "" {
			outPath = cfg.Output.Path
		}

		st, err := openStore(ctx, cfg.Store)
		if err != nil {
			return eris.Wrap(err, "export: open store")
		}
		defer func() { _ = st.Close() }()

		locs, err := st.ListLocations(ctx)
		if err != nil {
			return eris.Wrap(err, "export")
		}

		doc := snapshot.Build(cfg.Site.Source, time.Now(), locs)
		if err := snapshot.Write(outPath, doc); err != nil {
			return eris.Wrap(err, "export")
		}

		zap.L().Info("export complete",
			zap.Int("count", len(locs)),
			zap.String("out", outPath),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("out", "", "snapshot output path (default from config)")
	rootCmd.AddCommand(exportCmd)
}
