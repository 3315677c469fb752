package main

import (
	"context"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/luisrosales852/object-detection/pkg/check"
	"github.com/luisrosales852/object-detection/pkg/client"
	"github.com/luisrosales852/object-detection/pkg/config"
	"github.com/luisrosales852/object-detection/pkg/history"
	"github.com/luisrosales852/object-detection/pkg/report"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config file")
		baseURL    = flag.String("base-url", "", "detection API base URL (overrides config)")
		imagePath  = flag.String("image", "", "image file for a live /detect probe")
		objects    = flag.String("objects", "", "comma-separated classes for /detect")
		confidence = flag.Float64("confidence", -1, "confidence threshold for /detect")
		strict     = flag.Bool("strict", false, "exit non-zero when a check fails")
		record     = flag.Bool("record", false, "record the run in the history database")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *imagePath != "" {
		cfg.Detect.Image = *imagePath
	}
	if *objects != "" {
		cfg.Detect.Objects = *objects
	}
	if *confidence >= 0 {
		cfg.Detect.Confidence = *confidence
	}
	if *strict {
		cfg.Strict = true
	}
	if *record {
		cfg.History.Enabled = true
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	apiClient, err := client.New(cfg.ClientConfig())
	if err != nil {
		logger.Fatal("failed to build API client", zap.Error(err))
	}

	printer := report.NewPrinter(os.Stdout)
	printer.Linef("=== Object Detection API Test ===")
	printer.Linef("Testing API at %s", apiClient.BaseURL())
	printer.Linef("Make sure the server is running.")
	printer.Linef("")

	runner := check.NewRunner(apiClient.BaseURL(), printer, logger, cfg.PacePerSecond,
		&check.Health{Client: apiClient},
		&check.Classes{Client: apiClient},
		&check.Detect{
			Client:         apiClient,
			ImagePath:      cfg.Detect.Image,
			Objects:        cfg.Detect.Objects,
			Confidence:     cfg.Detect.Confidence,
			IncludeSimilar: cfg.Detect.IncludeSimilar,
			FallbackToAll:  cfg.Detect.FallbackToAll,
		},
	)

	rep := runner.Run(context.Background())

	if cfg.History.Enabled {
		if err := recordRun(cfg.History.Path, rep, logger); err != nil {
			logger.Error("failed to record run", zap.Error(err))
		}
	}

	if cfg.Strict && !rep.Passed() {
		os.Exit(1)
	}
}

func recordRun(path string, rep *report.RunReport, logger *zap.Logger) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.RecordRun(context.Background(), rep); err != nil {
		return err
	}

	logger.Info("run recorded", zap.String("run_id", rep.ID), zap.String("path", path))
	return nil
}
