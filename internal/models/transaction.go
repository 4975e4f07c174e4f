// Package models provides the data structures used throughout the application.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType marks the direction of money flow. The numeric amount
// is always positive; direction lives here.
type TransactionType string

const (
	TypeExpense TransactionType = "expense"
	TypeIncome  TransactionType = "income"
)

// DefaultCurrency is assumed when the source does not state one.
const DefaultCurrency = "RUB"

// MaxDescriptionLen caps descriptions and merchant keys.
const MaxDescriptionLen = 500

// ParsedTransaction is one extracted, categorized transaction. Instances
// are immutable once returned by a pipeline; persistence happens outside.
type ParsedTransaction struct {
	ID          string          `csv:"ID" json:"id"`
	Amount      decimal.Decimal `csv:"Amount" json:"amount"`
	Description string          `csv:"Description" json:"description"`
	Date        time.Time       `csv:"Date" json:"date"`
	Category    string          `csv:"Category" json:"category"`
	Type        TransactionType `csv:"Type" json:"type"`
	Currency    string          `csv:"Currency" json:"currency"`
	Confidence  float64         `csv:"Confidence" json:"confidence"`
	RawText     string          `csv:"-" json:"raw_text"`
}

// ExtractionResult is the shape returned by both pipelines: transactions,
// their total, and an optional chart summary (nil for spreadsheets).
type ExtractionResult struct {
	Transactions []ParsedTransaction `json:"transactions"`
	TotalAmount  decimal.Decimal     `json:"total_amount"`
	Chart        *ChartSummary       `json:"chart,omitempty"`
	RawText      string              `json:"raw_text"`
}

// ColumnMapping holds the 0-based indices of the three semantic columns
// in a statement's header row. All three must be distinct and resolved;
// there is no such thing as a partial mapping.
type ColumnMapping struct {
	Date        int `json:"date"`
	Amount      int `json:"amount"`
	Description int `json:"description"`
}

// Valid reports whether all three roles point at distinct columns.
func (m ColumnMapping) Valid() bool {
	if m.Date < 0 || m.Amount < 0 || m.Description < 0 {
		return false
	}
	return m.Date != m.Amount && m.Date != m.Description && m.Amount != m.Description
}

// CategoryCorrection is one append-only log entry recording that a user
// changed a transaction's category away from the AI's suggestion.
type CategoryCorrection struct {
	UserID            string          `json:"user_id"`
	TransactionID     string          `json:"transaction_id"`
	OriginalCategory  string          `json:"original_category"`
	CorrectedCategory string          `json:"corrected_category"`
	Confidence        float64         `json:"confidence"`
	MerchantKey       string          `json:"merchant_key"`
	CreatedAt         time.Time       `json:"created_at"`
}

// MerchantCategoryMapping is the learned per-(user, merchant) category.
// At most one row exists per key; promotion upserts it.
type MerchantCategoryMapping struct {
	UserID          string    `json:"user_id"`
	MerchantKey     string    `json:"merchant_key"`
	LearnedCategory string    `json:"learned_category"`
	CorrectionCount int       `json:"correction_count"`
	Confidence      float64   `json:"confidence"`
	LastUpdated     time.Time `json:"last_updated"`
}
