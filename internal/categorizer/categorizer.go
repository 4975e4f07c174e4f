package categorizer

import (
	"context"
	"strconv"

	"akazakov/snapstat/internal/aiclient"
	"akazakov/snapstat/internal/extractor"
	"akazakov/snapstat/internal/logging"
	"akazakov/snapstat/internal/models"
	"akazakov/snapstat/internal/normalize"
	"akazakov/snapstat/internal/parsererror"
	"akazakov/snapstat/internal/retry"
)

// DefaultBatchSize is how many descriptions go into one AI prompt.
const DefaultBatchSize = 40

// Outcome is the per-description categorization result. Degraded marks
// items that fell back to the default category because their batch
// failed or the model skipped their number.
type Outcome struct {
	Category string
	Degraded bool
}

// Categorizer batches description categorization over a text model,
// short-circuiting through the MCC table where a code is recognizable.
type Categorizer struct {
	text      aiclient.TextModel
	retrier   *retry.Controller
	codes     *CodeCategoryTable
	expense   models.CategorySet
	income    models.CategorySet
	batchSize int
	logger    logging.Logger
}

// New creates a Categorizer. batchSize <= 0 selects the default.
func New(text aiclient.TextModel, retrier *retry.Controller, codes *CodeCategoryTable,
	expense, income models.CategorySet, batchSize int, logger logging.Logger) *Categorizer {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Categorizer{
		text:      text,
		retrier:   retrier,
		codes:     codes,
		expense:   expense,
		income:    income,
		batchSize: batchSize,
		logger:    logger,
	}
}

// CategorizeDescriptions assigns a category to every unique description.
// Expenses carrying a known MCC code never reach the AI. Each failed AI
// batch degrades its own items to the default category and the rest of
// the job continues.
func (c *Categorizer) CategorizeDescriptions(ctx context.Context, descriptions []string, income bool) map[string]Outcome {
	set := c.expense
	if income {
		set = c.income
	}

	result := make(map[string]Outcome, len(descriptions))
	var needsAI []pending

	for _, desc := range unique(descriptions) {
		merchant, mcc := normalize.ExtractMerchant(desc)
		if !income && mcc != "" {
			if category, ok := c.codes.Lookup(mcc); ok {
				result[desc] = Outcome{Category: category}
				continue
			}
		}
		needsAI = append(needsAI, pending{original: desc, merchant: merchant})
	}

	c.logger.WithFields(
		logging.Field{Key: "mcc_categorized", Value: len(result)},
		logging.Field{Key: "ai_pending", Value: len(needsAI)},
	).Info("MCC pre-categorization complete")

	for start := 0; start < len(needsAI); start += c.batchSize {
		end := start + c.batchSize
		if end > len(needsAI) {
			end = len(needsAI)
		}
		c.categorizeBatch(ctx, needsAI[start:end], set, income, result)
	}
	return result
}

type pending struct {
	original string
	merchant string
}

// categorizeBatch sends one numbered batch to the text model and matches
// the answers back positionally. Any failure degrades the whole batch.
func (c *Categorizer) categorizeBatch(ctx context.Context, batch []pending, set models.CategorySet, income bool, result map[string]Outcome) {
	merchants := make([]string, len(batch))
	for i, item := range batch {
		merchants[i] = item.merchant
	}
	prompt := aiclient.CategorizePrompt(merchants, income)

	answers, err := retry.Do(ctx, c.retrier,
		func(ctx context.Context) (string, error) {
			return c.text.TextComplete(ctx, prompt)
		},
		parseCategoryMap,
	)
	if err != nil {
		c.logger.WithError(err).WithField("batch_size", len(batch)).
			Warn("AI categorization batch failed, degrading to default category")
		for _, item := range batch {
			result[item.original] = Outcome{Category: set.Default(), Degraded: true}
		}
		return
	}

	for i, item := range batch {
		category, ok := answers[strconv.Itoa(i+1)]
		if !ok || category == "" {
			result[item.original] = Outcome{Category: set.Default(), Degraded: true}
			continue
		}
		validated := set.Validate(category)
		result[item.original] = Outcome{Category: validated, Degraded: validated != category}
	}
}

// parseCategoryMap decodes the {"1": "Food", ...} response shape.
func parseCategoryMap(raw string) (map[string]string, error) {
	data, err := extractor.DecodeJSON(raw)
	if err != nil {
		return nil, err
	}
	obj, ok := data.(map[string]interface{})
	if !ok {
		return nil, &parsererror.MalformedShapeError{Reason: "expected a JSON object of number to category"}
	}
	answers := make(map[string]string, len(obj))
	for number, value := range obj {
		if category, ok := value.(string); ok {
			answers[number] = category
		}
	}
	if len(answers) == 0 {
		return nil, &parsererror.MalformedShapeError{Reason: "no category assignments in response"}
	}
	return answers, nil
}

func unique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
