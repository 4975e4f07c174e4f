package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Expense category names. These mirror the vocabulary the AI prompts use,
// so validation is exact string membership.
const (
	CategoryFood          = "Food"
	CategoryTransport     = "Transport"
	CategoryEntertainment = "Entertainment"
	CategoryShopping      = "Shopping"
	CategoryBills         = "Bills"
	CategoryHealth        = "Health"
	CategoryOther         = "Other"
)

// Income category names.
const (
	CategorySalary      = "Salary"
	CategoryTransfer    = "Transfer"
	CategoryCashback    = "Cashback"
	CategoryInvestment  = "Investment"
	CategoryOtherIncome = "OtherIncome"
)

// CategorySet is an immutable enumerated category vocabulary with its
// fallback sentinel. Sets are built once at startup and injected, so
// tests can substitute alternate vocabularies.
type CategorySet struct {
	members map[string]struct{}
	def     string
}

// NewCategorySet builds a set from the given members and default sentinel.
// The default is always a member.
func NewCategorySet(def string, members ...string) CategorySet {
	m := make(map[string]struct{}, len(members)+1)
	for _, c := range members {
		m[c] = struct{}{}
	}
	m[def] = struct{}{}
	return CategorySet{members: m, def: def}
}

// Validate returns category unchanged if it is a member of the set,
// otherwise the set's default. It never fails.
func (s CategorySet) Validate(category string) string {
	if _, ok := s.members[category]; ok {
		return category
	}
	return s.def
}

// Contains reports exact membership.
func (s CategorySet) Contains(category string) bool {
	_, ok := s.members[category]
	return ok
}

// Default returns the fallback sentinel ("Other" / "OtherIncome").
func (s CategorySet) Default() string {
	return s.def
}

// Names returns the member names in unspecified order.
func (s CategorySet) Names() []string {
	names := make([]string, 0, len(s.members))
	for name := range s.members {
		names = append(names, name)
	}
	return names
}

// ExpenseCategories returns the standard expense vocabulary.
func ExpenseCategories() CategorySet {
	return NewCategorySet(CategoryOther,
		CategoryFood, CategoryTransport, CategoryEntertainment,
		CategoryShopping, CategoryBills, CategoryHealth)
}

// IncomeCategories returns the standard income vocabulary.
func IncomeCategories() CategorySet {
	return NewCategorySet(CategoryOtherIncome,
		CategorySalary, CategoryTransfer, CategoryCashback, CategoryInvestment)
}

// DefaultConfidence is substituted when the model omits or mangles the
// confidence field.
const DefaultConfidence = 0.5

// ClampConfidence coerces a confidence to [0, 1]. NaN or other
// non-finite garbage collapses to the default.
func ClampConfidence(value float64) float64 {
	if value != value { // NaN
		return DefaultConfidence
	}
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}

// ConfidenceFromAny coerces an arbitrary decoded JSON value (float,
// int, numeric string) to a clamped confidence, falling back to the
// default for anything non-numeric.
func ConfidenceFromAny(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return ClampConfidence(v)
	case float32:
		return ClampConfidence(float64(v))
	case int:
		return ClampConfidence(float64(v))
	case int64:
		return ClampConfidence(float64(v))
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return DefaultConfidence
		}
		return ClampConfidence(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return DefaultConfidence
		}
		return ClampConfidence(f)
	default:
		return DefaultConfidence
	}
}
