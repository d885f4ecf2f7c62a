// Copyright © 2024 Mutker Telag <witty.text5011@fastmail.com>
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"codeberg.org/mutker/marketintel/internal/aggregate"
	"codeberg.org/mutker/marketintel/internal/classify"
	"codeberg.org/mutker/marketintel/internal/collect"
	"codeberg.org/mutker/marketintel/internal/config"
	"codeberg.org/mutker/marketintel/internal/errors"
	"codeberg.org/mutker/marketintel/internal/logger"
	"codeberg.org/mutker/marketintel/internal/metrics"
	"codeberg.org/mutker/marketintel/internal/pipeline"
	"codeberg.org/mutker/marketintel/internal/preview"
	"codeberg.org/mutker/marketintel/internal/publish"
	"codeberg.org/mutker/marketintel/internal/report"
	"codeberg.org/mutker/marketintel/internal/taxonomy"
	"github.com/spf13/cobra"
)

var cfg *config.Config

var stageHelp = map[pipeline.Stage]string{
	pipeline.StageMarket:  "Collect market dynamics and write the market table",
	pipeline.StageVendors: "Collect hyperscaler announcements and write the vendor table",
	pipeline.StageContext: "Collect policy, news and adoption signals",
	pipeline.StageBuild:   "Render the workbook and previews from the tables",
	pipeline.StageRun:     "Run every stage in order",
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var appErr errors.Error
		if errors.As(err, &appErr) {
			logger.ErrorWithCode(appErr).Msg("Fatal error")
		} else {
			logger.Error().Err(err).Msg("Fatal error")
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "marketintel",
		Short:         "Build the AI market intelligence dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if err := logger.Init(config.DefaultLogLevel, logger.IsService()); err != nil {
				return err
			}

			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			if err := logger.SetLevelString(cfg.LogLevel); err != nil {
				return err
			}
			logger.Debug().Str("data_dir", cfg.DataDir).Msg("Config loaded")
			return nil
		},
	}

	for _, stage := range pipeline.Stages() {
		root.AddCommand(stageCmd(stage))
	}
	root.AddCommand(&cobra.Command{
		Use:   "preview",
		Short: "Serve the report directory on the local network",
		Args:  cobra.NoArgs,
		RunE:  runPreview,
	})

	return root
}

func stageCmd(stage pipeline.Stage) *cobra.Command {
	return &cobra.Command{
		Use:   string(stage),
		Short: stageHelp[stage],
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runStage(ctx, stage)
		},
	}
}

func runStage(ctx context.Context, stage pipeline.Stage) error {
	recorder, err := metrics.NewService(metricsConfig())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := recorder.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("Failed to write run metrics")
		}
	}()

	p, err := newPipeline(ctx, recorder)
	if err != nil {
		return err
	}

	sum, err := p.Run(ctx, stage)
	if err != nil {
		return err
	}

	fmt.Printf("Run %s complete: %d market rows, %d vendor rows, %d signals\n",
		sum.RunID, sum.MarketRows, sum.VendorRows, sum.Signals)
	if sum.Artifacts.Workbook != "" {
		fmt.Printf("Workbook: %s\n", sum.Artifacts.Workbook)
	}
	for _, obj := range sum.Published {
		fmt.Printf("Published s3://%s/%s\n", obj.Bucket, obj.Key)
	}

	return nil
}

func newPipeline(ctx context.Context, recorder metrics.Recorder) (*pipeline.Pipeline, error) {
	tax, err := taxonomy.New(cfg.Keywords)
	if err != nil {
		return nil, err
	}

	collectCfg := collect.DefaultConfig()
	collectCfg.HTTPTimeout = cfg.HTTPTimeout
	collectCfg.FeedInterval = cfg.FeedInterval
	collectCfg.LookbackDays = cfg.LookbackDays
	collectCfg.FetchFeeds = cfg.FetchFeeds
	collectCfg.CrunchbaseAPIKey = cfg.CrunchbaseAPIKey

	collector, err := collect.New(collectCfg, classify.New(tax), collect.WithRecorder(recorder))
	if err != nil {
		return nil, err
	}

	reportCfg := report.DefaultConfig()
	reportCfg.Dir = cfg.DataDir
	reportCfg.Workbook = cfg.Workbook
	reportCfg.ContextRows = cfg.ContextRows
	reportCfg.TopSignals = cfg.TopSignals

	renderer, err := report.New(reportCfg, logger.Get())
	if err != nil {
		return nil, err
	}

	publisher, err := publish.NewService(ctx, publish.Config{
		Bucket:    cfg.Publish.Bucket,
		Region:    cfg.Publish.Region,
		Endpoint:  cfg.Publish.Endpoint,
		Prefix:    cfg.Publish.Prefix,
		PathStyle: cfg.Publish.PathStyle,
	}, publish.WithLogger(logger.Get()))
	if err != nil {
		return nil, err
	}

	return pipeline.New(cfg.DataDir, collector, renderer,
		pipeline.WithEngine(aggregate.New(tax)),
		pipeline.WithPublisher(publisher),
		pipeline.WithRecorder(recorder),
	), nil
}

func metricsConfig() metrics.Config {
	mc := metrics.DefaultConfig()
	mc.Enabled = cfg.Metrics.Enabled
	mc.TextfilePath = cfg.Metrics.Textfile
	if !filepath.IsAbs(mc.TextfilePath) {
		mc.TextfilePath = filepath.Join(cfg.DataDir, mc.TextfilePath)
	}
	return mc
}

func runPreview(*cobra.Command, []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pc := preview.DefaultConfig()
	pc.Port = cfg.Preview.Port
	pc.Dir = cfg.Preview.Dir
	pc.Entry = cfg.Preview.Entry
	pc.OpenBrowser = cfg.Preview.OpenBrowser

	srv, err := preview.New(pc, preview.WithLogger(logger.Get()))
	if err != nil {
		return err
	}

	return srv.ListenAndServe(ctx)
}
