// Package pipeline composes the extraction stages into the two
// end-to-end flows: screenshot parsing through a vision model and
// spreadsheet parsing through column detection and batch
// categorization. Both finish with the learned-mapping override.
package pipeline

import (
	"context"

	"akazakov/snapstat/internal/aiclient"
	"akazakov/snapstat/internal/extractor"
	"akazakov/snapstat/internal/learning"
	"akazakov/snapstat/internal/logging"
	"akazakov/snapstat/internal/models"
	"akazakov/snapstat/internal/retry"
)

// ImagePipeline turns a bank-app screenshot into transactions. The
// vision call and the JSON extraction run inside one retry loop, so a
// malformed model response triggers a fresh completion.
type ImagePipeline struct {
	vision   aiclient.VisionModel
	retrier  *retry.Controller
	extract  *extractor.Extractor
	learning *learning.Service
	logger   logging.Logger
}

func NewImagePipeline(vision aiclient.VisionModel, retrier *retry.Controller,
	extract *extractor.Extractor, learn *learning.Service, logger logging.Logger) *ImagePipeline {
	return &ImagePipeline{
		vision:   vision,
		retrier:  retrier,
		extract:  extract,
		learning: learn,
		logger:   logger,
	}
}

// ParseImage extracts all transactions (or a chart summary) visible in
// the screenshot. userID may be empty, which skips learned overrides.
func (p *ImagePipeline) ParseImage(ctx context.Context, userID string, image []byte, mimeType string) (*models.ExtractionResult, error) {
	result, err := retry.Do(ctx, p.retrier, func(ctx context.Context) (string, error) {
		return p.vision.VisionComplete(ctx, image, mimeType, aiclient.VisionPrompt)
	}, p.extract.ExtractResult)
	if err != nil {
		return nil, err
	}

	for i := range result.Transactions {
		p.applyLearned(ctx, userID, &result.Transactions[i])
	}
	p.logger.WithFields(
		logging.Field{Key: "transactions", Value: len(result.Transactions)},
		logging.Field{Key: "chart", Value: result.Chart != nil},
	).Info("image parsed")
	return result, nil
}

// ParseImageSingle extracts exactly one transaction from a screenshot
// of a single receipt or operation. An unparseable amount is fatal.
func (p *ImagePipeline) ParseImageSingle(ctx context.Context, userID string, image []byte, mimeType string) (*models.ParsedTransaction, error) {
	tx, err := retry.Do(ctx, p.retrier, func(ctx context.Context) (string, error) {
		return p.vision.VisionComplete(ctx, image, mimeType, aiclient.VisionPrompt)
	}, p.extract.ExtractSingle)
	if err != nil {
		return nil, err
	}
	p.applyLearned(ctx, userID, tx)
	return tx, nil
}

func (p *ImagePipeline) applyLearned(ctx context.Context, userID string, tx *models.ParsedTransaction) {
	if p.learning == nil || userID == "" {
		return
	}
	tx.Category, tx.Confidence = p.learning.ApplyLearnedOverride(
		ctx, userID, tx.Description, tx.Category, tx.Confidence)
}
