package sheet

import (
	"context"
	"encoding/json"
	"strings"

	"akazakov/snapstat/internal/aiclient"
	"akazakov/snapstat/internal/extractor"
	"akazakov/snapstat/internal/logging"
	"akazakov/snapstat/internal/models"
	"akazakov/snapstat/internal/parsererror"
	"akazakov/snapstat/internal/retry"
)

// Substring vocabularies for heuristic column classification. Both
// Latin and Cyrillic header vocabularies are covered.
var (
	datePatterns   = []string{"дата", "date"}
	amountPatterns = []string{"сумма", "amount", "стоимость", "расход", "приход"}
	descPatterns   = []string{
		"описание", "description", "назначение", "наименование",
		"получатель", "merchant", "контрагент", "название",
		"комментарий", "детали", "информация", "memo", "details",
		"категория операции",
	}
	// Columns that superficially resemble descriptions but are not.
	descNegative = []string{"валюта", "статус", "номер", "баланс", "остаток", "счёт", "счет", "mcc"}
)

// aiSampleRows is how many data rows accompany the header in the AI
// fallback prompt.
const aiSampleRows = 5

// Detector resolves a statement's column mapping: a heuristic pass
// first, then an AI-assisted fallback. Strategies run in order; the
// first full mapping wins.
type Detector struct {
	text    aiclient.TextModel
	retrier *retry.Controller
	logger  logging.Logger
}

// NewDetector creates a Detector. A nil text model disables the AI
// fallback, leaving the heuristic as the only strategy.
func NewDetector(text aiclient.TextModel, retrier *retry.Controller, logger logging.Logger) *Detector {
	return &Detector{text: text, retrier: retrier, logger: logger}
}

// Detect resolves all three column roles or fails for the file. No
// partial mapping is ever returned.
func (d *Detector) Detect(ctx context.Context, headers []string, sampleRows [][]string) (models.ColumnMapping, error) {
	if mapping, ok := DetectHeuristic(headers); ok {
		d.logger.WithFields(
			logging.Field{Key: "date", Value: mapping.Date},
			logging.Field{Key: "amount", Value: mapping.Amount},
			logging.Field{Key: "description", Value: mapping.Description},
		).Info("Heuristic column mapping resolved")
		return mapping, nil
	}

	if d.text != nil {
		d.logger.Info("Heuristic detection failed, trying AI-based detection")
		if mapping, ok := d.detectWithAI(ctx, headers, sampleRows); ok {
			return mapping, nil
		}
	}

	return models.ColumnMapping{}, &parsererror.ColumnDetectionError{Headers: headers}
}

// DetectHeuristic classifies headers by substring match. Each role is
// claimed at most once, scanning left to right; a cell claimed as a date
// can claim nothing else. When date and amount resolve but description
// does not, the first unclaimed, non-negative-listed, non-empty header
// becomes the description column.
func DetectHeuristic(headers []string) (models.ColumnMapping, bool) {
	normalized := make([]string, len(headers))
	isDate := make([]bool, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(h)
		isDate[i] = matchesAny(normalized[i], datePatterns)
	}

	date, amount, desc := -1, -1, -1
	for idx, header := range normalized {
		if header == "" {
			continue
		}
		switch {
		case date == -1 && isDate[idx]:
			date = idx
		case amount == -1 && matchesAny(header, amountPatterns) && !isDate[idx]:
			amount = idx
		case desc == -1 && matchesAny(header, descPatterns) &&
			!matchesAny(header, descNegative) && !isDate[idx]:
			desc = idx
		}
	}

	if date >= 0 && amount >= 0 && desc == -1 {
		for idx, header := range normalized {
			if idx == date || idx == amount || header == "" {
				continue
			}
			if isDate[idx] || matchesAny(header, descNegative) {
				continue
			}
			desc = idx
			break
		}
	}

	mapping := models.ColumnMapping{Date: date, Amount: amount, Description: desc}
	return mapping, mapping.Valid()
}

// FindHeaderRow scans every row for the first one containing both a
// date-like and an amount-like header. Bank exports often prepend title
// and metadata rows, so row 0 cannot be assumed.
func FindHeaderRow(rows [][]string) int {
	for i, row := range rows {
		hasDate, hasAmount := false, false
		for _, cell := range row {
			h := normalizeHeader(cell)
			if matchesAny(h, datePatterns) {
				hasDate = true
			}
			if matchesAny(h, amountPatterns) {
				hasAmount = true
			}
		}
		if hasDate && hasAmount {
			return i
		}
	}
	return 0
}

// FindBankCategoryColumn returns the index of the bank's own category
// column, or -1. Exact header match only: the substring vocabulary
// would collide with "категория операции" description columns.
func FindBankCategoryColumn(headers []string) int {
	for idx, header := range headers {
		h := normalizeHeader(header)
		if h == "категория" || h == "category" {
			return idx
		}
	}
	return -1
}

// detectWithAI sends the header plus sample rows to the text model. The
// answer is accepted only when all three indices are present, non-null
// and distinct.
func (d *Detector) detectWithAI(ctx context.Context, headers []string, sampleRows [][]string) (models.ColumnMapping, bool) {
	sample := [][]string{headers}
	for i, row := range sampleRows {
		if i >= aiSampleRows {
			break
		}
		sample = append(sample, row)
	}
	prompt := aiclient.ColumnDetectPrompt(sample)

	mapping, err := retry.Do(ctx, d.retrier,
		func(ctx context.Context) (string, error) {
			return d.text.TextComplete(ctx, prompt)
		},
		parseColumnMapping,
	)
	if err != nil {
		d.logger.WithError(err).Warn("AI column detection failed")
		return models.ColumnMapping{}, false
	}
	d.logger.WithFields(
		logging.Field{Key: "date", Value: mapping.Date},
		logging.Field{Key: "amount", Value: mapping.Amount},
		logging.Field{Key: "description", Value: mapping.Description},
	).Info("AI column mapping resolved")
	return mapping, true
}

func parseColumnMapping(raw string) (models.ColumnMapping, error) {
	data, err := extractor.DecodeJSON(raw)
	if err != nil {
		return models.ColumnMapping{}, err
	}
	obj, ok := data.(map[string]interface{})
	if !ok {
		return models.ColumnMapping{}, &parsererror.MalformedShapeError{Reason: "expected a JSON object with column indices"}
	}

	mapping := models.ColumnMapping{Date: -1, Amount: -1, Description: -1}
	fields := map[string]*int{
		"date":        &mapping.Date,
		"amount":      &mapping.Amount,
		"description": &mapping.Description,
	}
	for name, target := range fields {
		idx, ok := intFromAny(obj[name])
		if !ok {
			return models.ColumnMapping{}, &parsererror.MalformedShapeError{Reason: "missing or null column index for " + name}
		}
		*target = idx
	}
	if !mapping.Valid() {
		return models.ColumnMapping{}, &parsererror.MalformedShapeError{Reason: "column indices are not distinct"}
	}
	return mapping, nil
}

func intFromAny(value interface{}) (int, bool) {
	switch v := value.(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func normalizeHeader(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func matchesAny(header string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(header, p) {
			return true
		}
	}
	return false
}
