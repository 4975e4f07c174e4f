// Package extractor turns a raw AI vision response into typed
// transaction and chart structures. Input is adversarial: Markdown
// fences, prose around the JSON, arrays instead of objects, and rows
// with individually broken fields all occur in practice.
package extractor

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"akazakov/snapstat/internal/amountutils"
	"akazakov/snapstat/internal/dateutils"
	"akazakov/snapstat/internal/logging"
	"akazakov/snapstat/internal/models"
	"akazakov/snapstat/internal/parsererror"
)

// Extractor parses AI responses against an injected category vocabulary.
type Extractor struct {
	expense models.CategorySet
	logger  logging.Logger
}

// New creates an Extractor.
func New(expense models.CategorySet, logger logging.Logger) *Extractor {
	return &Extractor{expense: expense, logger: logger}
}

// ExtractResult parses a multi-transaction response, including an
// optional chart. A row with an unparseable amount is dropped, never
// fatal; a recognized chart discards the transaction list entirely and
// supplies the total.
func (e *Extractor) ExtractResult(rawText string) (*models.ExtractionResult, error) {
	data, err := decodeAny(rawText)
	if err != nil {
		return nil, err
	}

	obj, ok := data.(map[string]interface{})
	if !ok {
		return nil, &parsererror.MalformedShapeError{Reason: "expected a JSON object at top level"}
	}

	rawList, _ := obj["transactions"].([]interface{})
	transactions := make([]models.ParsedTransaction, 0, len(rawList))
	for _, item := range rawList {
		row, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		tx, err := e.parseTransaction(row)
		if err != nil {
			e.logger.WithError(err).Warn("Skipping transaction with invalid amount")
			continue
		}
		tx.RawText = rawText
		transactions = append(transactions, tx)
	}
	e.logger.WithFields(
		logging.Field{Key: "parsed", Value: len(transactions)},
		logging.Field{Key: "raw", Value: len(rawList)},
	).Info("Parsed transactions from AI response")

	total := decimalFromAny(obj["total_amount"])
	if total == nil {
		sum := decimal.Zero
		for _, tx := range transactions {
			sum = sum.Add(tx.Amount)
		}
		total = &sum
	}

	result := &models.ExtractionResult{
		Transactions: transactions,
		TotalAmount:  *total,
		Chart:        e.parseChart(obj["chart"]),
		RawText:      rawText,
	}

	// A chart means the screenshot summarizes rather than itemizes:
	// the transaction list from the same response is discarded.
	if result.Chart != nil {
		result.Transactions = []models.ParsedTransaction{}
		result.TotalAmount = result.Chart.Total
	}
	return result, nil
}

// ExtractSingle parses a response expected to carry exactly one
// transaction. Here an unparseable amount is fatal.
func (e *Extractor) ExtractSingle(rawText string) (*models.ParsedTransaction, error) {
	data, err := decodeAny(rawText)
	if err != nil {
		return nil, err
	}

	// A bare array stands in for the expected object; take its head.
	if list, ok := data.([]interface{}); ok {
		if len(list) == 0 {
			return nil, &parsererror.MalformedShapeError{Reason: "AI returned an empty transaction list"}
		}
		data = list[0]
	}

	obj, ok := data.(map[string]interface{})
	if !ok {
		return nil, &parsererror.MalformedShapeError{Reason: "expected a JSON object"}
	}

	// Unwrap a nested transaction list when present.
	if nested, ok := obj["transactions"].([]interface{}); ok && len(nested) > 0 {
		if inner, ok := nested[0].(map[string]interface{}); ok {
			obj = inner
		}
	}

	tx, err := e.parseTransaction(obj)
	if err != nil {
		return nil, err
	}
	tx.RawText = rawText
	return &tx, nil
}

// parseTransaction builds one transaction from a decoded row. Amount is
// the only required field; everything else is independently defaulted so
// a single bad field never disqualifies an otherwise-good row.
func (e *Extractor) parseTransaction(row map[string]interface{}) (models.ParsedTransaction, error) {
	amount := decimalFromAny(row["amount"])
	if amount == nil {
		return models.ParsedTransaction{}, &parsererror.InvalidAmountError{Value: stringFromAny(row["amount"])}
	}

	dateStr := stringFromAny(row["date"])
	date, parsed := dateutils.Parse(dateStr)
	if !parsed {
		e.logger.WithField("date", dateStr).Warn("Could not parse date, falling back to now")
		date = time.Now()
	}

	txType := models.TypeExpense
	if stringFromAny(row["type"]) == string(models.TypeIncome) {
		txType = models.TypeIncome
	}

	description := stringFromAny(row["description"])
	if description == "" {
		description = "Unknown"
	}

	currency := strings.ToUpper(stringFromAny(row["currency"]))
	if len(currency) != 3 {
		currency = models.DefaultCurrency
	}

	return models.ParsedTransaction{
		ID:          uuid.New().String(),
		Amount:      amount.Abs(),
		Description: clampLen(description, models.MaxDescriptionLen),
		Date:        date,
		Category:    e.expense.Validate(stringFromAny(row["category"])),
		Type:        txType,
		Currency:    currency,
		Confidence:  models.ConfidenceFromAny(row["confidence"]),
	}, nil
}

// parseChart builds a ChartSummary out of the optional chart payload.
// Entries that fail to parse are skipped; a chart with no valid entries
// is treated as absent.
func (e *Extractor) parseChart(raw interface{}) *models.ChartSummary {
	chart, ok := raw.(map[string]interface{})
	if !ok {
		return nil
	}

	rawCats, _ := chart["categories"].([]interface{})
	categories := make([]models.ChartCategory, 0, len(rawCats))
	for _, item := range rawCats {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		value := decimalFromAny(entry["value"])
		if value == nil || value.IsNegative() {
			continue
		}
		name := stringFromAny(entry["name"])
		if name == "" {
			name = "Unknown"
		}
		cat := models.ChartCategory{Name: name, Value: *value}
		if pct := percentageFromAny(entry["percentage"]); pct != nil {
			cat.Percentage = pct
		}
		categories = append(categories, cat)
	}
	if len(categories) == 0 {
		return nil
	}

	total := decimalFromAny(chart["total"])
	if total == nil {
		zero := decimal.Zero
		total = &zero
	}

	periodType := models.PeriodType(stringFromAny(chart["period_type"]))
	switch periodType {
	case models.PeriodMonth, models.PeriodYear, models.PeriodWeek, models.PeriodCustom:
	default:
		periodType = models.PeriodMonth
	}

	chartType := models.ChartType(stringFromAny(chart["type"]))
	switch chartType {
	case models.ChartPie, models.ChartBar, models.ChartLine:
	default:
		chartType = models.ChartOther
	}

	period := stringFromAny(chart["period"])
	if !models.ValidPeriod(period) {
		e.logger.WithField("period", period).Warn("Chart period is not in structured form")
		period = ""
	}

	return &models.ChartSummary{
		Type:       chartType,
		Categories: categories,
		Total:      *total,
		Period:     period,
		PeriodType: periodType,
		Confidence: models.ConfidenceFromAny(chart["confidence"]),
	}
}

// decimalFromAny converts a decoded JSON value to a decimal. Numeric
// strings go through the locale-aware amount parser.
func decimalFromAny(value interface{}) *decimal.Decimal {
	switch v := value.(type) {
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return nil
		}
		return &d
	case float64:
		d := decimal.NewFromFloat(v)
		return &d
	case string:
		d, err := amountutils.ParseSigned(v)
		if err != nil {
			return nil
		}
		return &d
	default:
		return nil
	}
}

func percentageFromAny(value interface{}) *float64 {
	var f float64
	switch v := value.(type) {
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case float64:
		f = v
	default:
		return nil
	}
	if f < 0 {
		f = 0
	}
	if f > 100 {
		f = 100
	}
	return &f
}

func stringFromAny(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

func clampLen(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
