package pipeline

import (
	"context"
	"fmt"

	"akazakov/snapstat/internal/logging"
	"akazakov/snapstat/internal/models"
	"akazakov/snapstat/internal/parsererror"
)

// MaxBatchFiles caps one batch request.
const MaxBatchFiles = 10

// MaxFileBytes caps one uploaded file.
const MaxFileBytes = 10 * 1024 * 1024

// BatchFile is one uploaded file, content plus its original name.
type BatchFile struct {
	Name    string
	Content []byte
}

// FileResult is the per-file outcome of a batch run. Exactly one of
// Result and Err is set.
type FileResult struct {
	Name   string
	Result *models.ExtractionResult
	Err    error
}

// Processor routes files to the image or spreadsheet pipeline by their
// magic bytes.
type Processor struct {
	image       *ImagePipeline
	spreadsheet *SpreadsheetPipeline
	maxFiles    int
	maxBytes    int64
	logger      logging.Logger
}

// NewProcessor creates a Processor. maxFiles <= 0 and maxBytes <= 0
// select the defaults.
func NewProcessor(image *ImagePipeline, spreadsheet *SpreadsheetPipeline, maxFiles int, maxBytes int64, logger logging.Logger) *Processor {
	if maxFiles <= 0 {
		maxFiles = MaxBatchFiles
	}
	if maxBytes <= 0 {
		maxBytes = MaxFileBytes
	}
	return &Processor{image: image, spreadsheet: spreadsheet, maxFiles: maxFiles, maxBytes: maxBytes, logger: logger}
}

// ProcessFile parses a single file of either kind.
func (p *Processor) ProcessFile(ctx context.Context, userID string, file BatchFile) (*models.ExtractionResult, error) {
	if int64(len(file.Content)) > p.maxBytes {
		return nil, fmt.Errorf("file %s is %d bytes, the limit is %d", file.Name, len(file.Content), p.maxBytes)
	}
	kind, mimeType := Sniff(file.Content, file.Name)
	switch kind {
	case KindImage:
		if p.image == nil {
			return nil, fmt.Errorf("image parsing requires an AI vision model, none is configured")
		}
		return p.image.ParseImage(ctx, userID, file.Content, mimeType)
	case KindSpreadsheet:
		return p.spreadsheet.ParseSpreadsheet(ctx, userID, file.Content, file.Name)
	default:
		return nil, &parsererror.UnsupportedFileError{FilePath: file.Name}
	}
}

// ProcessBatch parses up to MaxBatchFiles files sequentially. A failed
// file records its error and never aborts its siblings; only an
// over-limit batch is rejected outright.
func (p *Processor) ProcessBatch(ctx context.Context, userID string, files []BatchFile) ([]FileResult, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("batch contains no files")
	}
	if len(files) > p.maxFiles {
		return nil, fmt.Errorf("batch of %d files exceeds the limit of %d", len(files), p.maxFiles)
	}

	results := make([]FileResult, 0, len(files))
	for _, file := range files {
		result, err := p.ProcessFile(ctx, userID, file)
		if err != nil {
			p.logger.WithError(err).WithField("file", file.Name).Error("batch file failed")
			results = append(results, FileResult{Name: file.Name, Err: err})
			continue
		}
		results = append(results, FileResult{Name: file.Name, Result: result})
	}
	return results, nil
}
