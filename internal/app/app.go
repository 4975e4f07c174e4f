// Package app wires the application's dependency graph from the
// configuration: stores, lookup tables, AI client, categorizer and the
// two pipelines. Commands hold one App and never construct internals
// themselves.
package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"akazakov/snapstat/internal/aiclient"
	"akazakov/snapstat/internal/categorizer"
	"akazakov/snapstat/internal/config"
	"akazakov/snapstat/internal/extractor"
	"akazakov/snapstat/internal/learning"
	"akazakov/snapstat/internal/logging"
	"akazakov/snapstat/internal/models"
	"akazakov/snapstat/internal/normalize"
	"akazakov/snapstat/internal/pipeline"
	"akazakov/snapstat/internal/retry"
	"akazakov/snapstat/internal/sheet"
	"akazakov/snapstat/internal/store"
)

// App holds the fully wired object graph.
type App struct {
	Config      *config.Config
	Logger      logging.Logger
	Store       store.Store
	Learning    *learning.Service
	Image       *pipeline.ImagePipeline
	Spreadsheet *pipeline.SpreadsheetPipeline
	Processor   *pipeline.Processor

	closers []io.Closer
}

// New builds the App. AI capabilities are optional: without an API key
// the spreadsheet pipeline still works through heuristics and lookup
// tables, and image parsing reports an error at call time.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	tables := store.NewTableStore(cfg.Data.Directory, logger)
	noiseWords, err := tables.LoadNoiseWords()
	if err != nil {
		return nil, fmt.Errorf("failed to load noise words: %w", err)
	}
	mccTable, err := tables.LoadMCCTable()
	if err != nil {
		return nil, fmt.Errorf("failed to load MCC table: %w", err)
	}
	bankCategories, err := tables.LoadBankCategories()
	if err != nil {
		return nil, fmt.Errorf("failed to load bank categories: %w", err)
	}

	storePath := cfg.Data.StoreFile
	if cfg.Data.Directory != "" {
		storePath = filepath.Join(cfg.Data.Directory, cfg.Data.StoreFile)
	}
	bolt, err := store.OpenBolt(storePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", storePath, err)
	}
	a.Store = bolt
	a.closers = append(a.closers, bolt)

	normalizer := normalize.NewNormalizer(noiseWords)
	a.Learning = learning.NewService(a.Store, normalizer, logger)

	var vision aiclient.VisionModel
	var text aiclient.TextModel
	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		gemini, err := aiclient.NewGeminiClient(ctx, cfg.AI.APIKey, cfg.AI.Model, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create AI client: %w", err)
		}
		a.closers = append(a.closers, gemini)
		vision = gemini
		text = gemini
	} else {
		logger.Warn("AI disabled or no API key set, running with heuristics and lookup tables only")
	}

	retrier := retry.New(time.Duration(cfg.AI.RetryBaseDelayMS)*time.Millisecond, logger)
	codes := categorizer.NewCodeCategoryTable(mccTable)
	cat := categorizer.New(text, retrier, codes,
		models.ExpenseCategories(), models.IncomeCategories(), cfg.Categorization.BatchSize, logger)
	detector := sheet.NewDetector(text, retrier, logger)
	bankCats := categorizer.NewBankCategoryMap(bankCategories)

	if vision != nil {
		extract := extractor.New(models.ExpenseCategories(), logger)
		a.Image = pipeline.NewImagePipeline(vision, retrier, extract, a.Learning, logger)
	}
	a.Spreadsheet = pipeline.NewSpreadsheetPipeline(detector, cat, bankCats, a.Learning, logger)
	a.Processor = pipeline.NewProcessor(a.Image, a.Spreadsheet, cfg.Upload.MaxBatchFiles, cfg.Upload.MaxSizeBytes, logger)

	return a, nil
}

// Close releases the store and AI client.
func (a *App) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.Logger.WithError(err).Warn("close failed")
		}
	}
}
