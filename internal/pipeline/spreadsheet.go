package pipeline

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"akazakov/snapstat/internal/categorizer"
	"akazakov/snapstat/internal/learning"
	"akazakov/snapstat/internal/logging"
	"akazakov/snapstat/internal/models"
	"akazakov/snapstat/internal/normalize"
	"akazakov/snapstat/internal/parsererror"
	"akazakov/snapstat/internal/sheet"
)

// Confidence seeding for spreadsheet rows, applied before the learned
// override: a resolved category is worth more than the fallback.
const (
	categorizedConfidence = 0.7
	defaultConfidence     = 0.3
)

// SpreadsheetPipeline turns a CSV or XLSX statement into transactions:
// load rows, find the header, map columns, extract raw rows, then
// categorize expenses and income through their own category sets.
type SpreadsheetPipeline struct {
	detector    *sheet.Detector
	categorizer *categorizer.Categorizer
	bankCats    *categorizer.BankCategoryMap
	learning    *learning.Service
	expense     models.CategorySet
	income      models.CategorySet
	logger      logging.Logger
}

func NewSpreadsheetPipeline(detector *sheet.Detector, cat *categorizer.Categorizer,
	bankCats *categorizer.BankCategoryMap, learn *learning.Service, logger logging.Logger) *SpreadsheetPipeline {
	return &SpreadsheetPipeline{
		detector:    detector,
		categorizer: cat,
		bankCats:    bankCats,
		learning:    learn,
		expense:     models.ExpenseCategories(),
		income:      models.IncomeCategories(),
		logger:      logger,
	}
}

// ParseSpreadsheet parses one statement file. Column detection failure
// and an empty sheet are fatal to the file; individual bad rows are
// skipped during extraction.
func (p *SpreadsheetPipeline) ParseSpreadsheet(ctx context.Context, userID string, content []byte, filename string) (*models.ExtractionResult, error) {
	rows, err := sheet.LoadRows(content, filename)
	if err != nil {
		return nil, err
	}

	headerIdx := sheet.FindHeaderRow(rows)
	headers := rows[headerIdx]
	dataRows := rows[headerIdx+1:]

	sample := dataRows
	if len(sample) > 5 {
		sample = sample[:5]
	}
	mapping, err := p.detector.Detect(ctx, headers, sample)
	if err != nil {
		var detErr *parsererror.ColumnDetectionError
		if errors.As(err, &detErr) && detErr.FilePath == "" {
			detErr.FilePath = filename
		}
		return nil, err
	}

	bankCol := sheet.FindBankCategoryColumn(headers)
	raw := sheet.ExtractRows(dataRows, mapping, bankCol, p.logger)
	if len(raw) == 0 {
		return nil, &parsererror.EmptyFileError{FilePath: filename, Reason: "no parsable transaction rows"}
	}

	expenseOutcomes := p.categorize(ctx, raw, models.TypeExpense)
	incomeOutcomes := p.categorize(ctx, raw, models.TypeIncome)

	result := &models.ExtractionResult{Transactions: make([]models.ParsedTransaction, 0, len(raw))}
	total := decimal.Zero
	for _, r := range raw {
		tx := p.finalize(ctx, userID, r, expenseOutcomes, incomeOutcomes)
		result.Transactions = append(result.Transactions, tx)
		total = total.Add(tx.Amount)
	}
	result.TotalAmount = total

	p.logger.WithFields(
		logging.Field{Key: "file", Value: filename},
		logging.Field{Key: "transactions", Value: len(result.Transactions)},
	).Info("spreadsheet parsed")
	return result, nil
}

// categorize runs one direction's rows through the categorizer and
// returns outcomes keyed by description.
func (p *SpreadsheetPipeline) categorize(ctx context.Context, rows []sheet.RawRow, txType models.TransactionType) map[string]categorizer.Outcome {
	var descriptions []string
	for _, r := range rows {
		if r.Type == txType {
			descriptions = append(descriptions, r.Description)
		}
	}
	if len(descriptions) == 0 {
		return map[string]categorizer.Outcome{}
	}
	return p.categorizer.CategorizeDescriptions(ctx, descriptions, txType == models.TypeIncome)
}

func (p *SpreadsheetPipeline) finalize(ctx context.Context, userID string, r sheet.RawRow,
	expense, income map[string]categorizer.Outcome) models.ParsedTransaction {

	set := p.expense
	outcomes := expense
	if r.Type == models.TypeIncome {
		set = p.income
		outcomes = income
	}

	category := set.Default()
	if outcome, ok := outcomes[r.Description]; ok {
		category = outcome.Category
	}
	// The bank's own category column is a fallback, not an override.
	if category == set.Default() && r.BankCategory != "" && p.bankCats != nil {
		if mapped, ok := p.bankCats.Lookup(r.BankCategory); ok && set.Contains(mapped) {
			category = mapped
		}
	}

	confidence := categorizedConfidence
	if category == set.Default() {
		confidence = defaultConfidence
	}

	// The user sees the extracted merchant, not the bank's verbose blob,
	// and corrections are matched against the merchant too so that a fix
	// made on an image-parsed transaction carries over to statements.
	merchant, _ := normalize.ExtractMerchant(r.Description)

	if p.learning != nil && userID != "" {
		category, confidence = p.learning.ApplyLearnedOverride(ctx, userID, merchant, category, confidence)
	}

	return models.ParsedTransaction{
		ID:          uuid.New().String(),
		Amount:      r.Amount,
		Description: merchant,
		Date:        r.Date,
		Category:    category,
		Type:        r.Type,
		Currency:    models.DefaultCurrency,
		Confidence:  confidence,
		RawText:     r.Description,
	}
}
